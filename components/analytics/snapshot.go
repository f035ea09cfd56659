package analytics

// SlotView is the render-ready projection of one chart slot.
type SlotView struct {
	Name    string    `json:"name"`
	Title   string    `json:"title"`
	State   SlotState `json:"state"`
	HTML    string    `json:"html,omitempty"`
	Message string    `json:"message,omitempty"`
}

// PageSnapshot is the declarative view state for the analytics page: the
// template renders purely from this value.
type PageSnapshot struct {
	Platform   Platform            `json:"platform"`
	Timeframe  Timeframe           `json:"timeframe"`
	Connected  map[Platform]bool   `json:"connected"`
	ViewModes  map[Metric]ViewMode `json:"view_modes"`
	Slots      []SlotView          `json:"slots"`
	PostsTable PostsPage           `json:"posts_table"`
}

// Snapshot projects the controller state for rendering.
func (c *Controller) Snapshot() PageSnapshot {
	c.mu.Lock()
	platform := c.platform
	tf := c.timeframe
	modes := make(map[Metric]ViewMode, len(c.viewModes))
	for metric, mode := range c.viewModes {
		modes[metric] = mode
	}
	posts := c.postsPage
	c.mu.Unlock()

	connected := make(map[Platform]bool, len(c.opts.Connections))
	for p, ok := range c.opts.Connections {
		connected[p] = ok
	}

	var views []SlotView
	for _, spec := range c.layout[platform] {
		slot, ok := c.slots.Slot(SlotName(platform, spec.metric))
		if !ok {
			continue
		}
		state, html, message := slot.Snapshot()
		title := tf.Granularity() + " " + spec.title
		if spec.toggleable && modes[spec.metric] == ViewRolling {
			title = "Rolling " + spec.title
		}
		views = append(views, SlotView{
			Name:    slot.Name(),
			Title:   title,
			State:   state,
			HTML:    html,
			Message: message,
		})
	}
	return PageSnapshot{
		Platform:   platform,
		Timeframe:  tf,
		Connected:  connected,
		ViewModes:  modes,
		Slots:      views,
		PostsTable: posts,
	}
}
