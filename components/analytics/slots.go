package analytics

import (
	"fmt"
	"sync"
)

// SlotState tracks where a chart slot is in its load cycle.
type SlotState string

const (
	SlotUnselected SlotState = "unselected"
	SlotLoading    SlotState = "loading"
	SlotRendered   SlotState = "rendered"
	SlotError      SlotState = "error"
)

// ChartHandle is a live chart instance owned by a slot. Handles must be
// disposed before a replacement is installed.
type ChartHandle interface {
	Dispose()
}

// chartInstance is the default handle produced by the render adapters.
type chartInstance struct {
	disposed bool
}

func (c *chartInstance) Dispose() { c.disposed = true }

// NewChartHandle returns a fresh handle for a rendered chart.
func NewChartHandle() ChartHandle { return &chartInstance{} }

// LoadToken identifies one load attempt against a slot. Commits carrying a
// superseded token are discarded so the last issued request wins.
type LoadToken struct {
	slot string
	seq  uint64
}

// ChartSlot owns the single live chart instance for a named container. Set
// disposes any prior handle before installing the new one, which keeps the
// one-live-chart-per-slot invariant in one place instead of at every call
// site.
type ChartSlot struct {
	name string

	mu      sync.Mutex
	seq     uint64
	handle  ChartHandle
	html    string
	state   SlotState
	message string
}

// NewChartSlot creates an unselected slot.
func NewChartSlot(name string) *ChartSlot {
	return &ChartSlot{name: name, state: SlotUnselected}
}

// Name returns the slot identifier.
func (s *ChartSlot) Name() string { return s.name }

// Begin marks the slot loading and issues a token for the attempt. Any
// earlier in-flight attempt is implicitly superseded.
func (s *ChartSlot) Begin() LoadToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.state = SlotLoading
	s.message = ""
	return LoadToken{slot: s.name, seq: s.seq}
}

// Commit installs a rendered chart for the attempt identified by token. Stale
// tokens are dropped and the prior handle, if any, is disposed first.
func (s *ChartSlot) Commit(token LoadToken, handle ChartHandle, html string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token.seq != s.seq {
		if handle != nil {
			handle.Dispose()
		}
		return false
	}
	s.replaceLocked(handle)
	s.html = html
	s.state = SlotRendered
	s.message = ""
	return true
}

// Fail records a load failure for the attempt identified by token.
func (s *ChartSlot) Fail(token LoadToken, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token.seq != s.seq {
		return false
	}
	s.replaceLocked(nil)
	s.html = ""
	s.state = SlotError
	if message == "" {
		message = "Failed to load data"
	}
	s.message = message
	return true
}

// Destroy disposes the live handle and resets the slot to unselected.
func (s *ChartSlot) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.replaceLocked(nil)
	s.html = ""
	s.state = SlotUnselected
	s.message = ""
}

func (s *ChartSlot) replaceLocked(next ChartHandle) {
	if s.handle != nil {
		s.handle.Dispose()
	}
	s.handle = next
}

// Snapshot returns the current state, rendered markup, and status message.
func (s *ChartSlot) Snapshot() (SlotState, string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.html, s.message
}

// Live reports whether the slot currently owns a chart handle.
func (s *ChartSlot) Live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle != nil
}

// SlotRegistry is the set of chart slots for one analytics page.
type SlotRegistry struct {
	mu    sync.RWMutex
	slots map[string]*ChartSlot
	order []string
}

// NewSlotRegistry creates an empty registry.
func NewSlotRegistry() *SlotRegistry {
	return &SlotRegistry{slots: map[string]*ChartSlot{}}
}

// Register adds a slot by name. Registering an existing name is an error.
func (r *SlotRegistry) Register(name string) (*ChartSlot, error) {
	if name == "" {
		return nil, fmt.Errorf("analytics: slot name is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[name]; ok {
		return nil, fmt.Errorf("analytics: slot %s already registered", name)
	}
	slot := NewChartSlot(name)
	r.slots[name] = slot
	r.order = append(r.order, name)
	return slot, nil
}

// Slot fetches a slot by name.
func (r *SlotRegistry) Slot(name string) (*ChartSlot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	slot, ok := r.slots[name]
	return slot, ok
}

// Names lists registered slot names in registration order.
func (r *SlotRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// DestroyAll disposes every live handle, e.g. when switching platforms.
func (r *SlotRegistry) DestroyAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, slot := range r.slots {
		slot.Destroy()
	}
}

// LiveCount returns how many slots currently hold a handle.
func (r *SlotRegistry) LiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, slot := range r.slots {
		if slot.Live() {
			count++
		}
	}
	return count
}
