// Package studio wires the page controllers into one service: it mounts
// them, routes preference changes, renders page snapshots through the
// template renderer, and announces data changes to connected clients via
// the refresh hook.
package studio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pulsekit/go-studio/components/analytics"
	"github.com/pulsekit/go-studio/components/calendar"
	"github.com/pulsekit/go-studio/components/generate"
	"github.com/pulsekit/go-studio/components/replyassist"
	"github.com/pulsekit/go-studio/components/ui"
	"github.com/pulsekit/go-studio/pkg/store"
)

// Page names the service's render targets.
type Page string

const (
	PageAnalytics   Page = "analytics"
	PageCalendar    Page = "calendar"
	PageReplyAssist Page = "reply-assist"
	PageGenerate    Page = "generate"
)

// ErrUnknownPage is returned when a render target does not exist.
var ErrUnknownPage = errors.New("studio: unknown page")

// Backend is the full repository surface the service needs. pkg/backend's
// Client satisfies it; tests compose it from fakes.
type Backend interface {
	analytics.MetricSeriesRepository
	analytics.TrafficSourcesRepository
	analytics.PostsRepository
	analytics.SyncClient
	replyassist.ListRepository
	replyassist.ReplyGenerator
	replyassist.GIFClient
	replyassist.BrandVoiceClient
	calendar.EventRepository
	generate.Generator
}

// Telemetry records studio events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

// Options configures the studio Service.
type Options struct {
	Backend  Backend
	Renderer Renderer
	Sessions store.SessionStore
	Prefs    store.PreferenceStore

	UserID      string
	Connections map[analytics.Platform]bool
	Manifest    *analytics.PlatformManifestDocument
	RefreshHook RefreshHook
	Telemetry   Telemetry
}

// Service owns one user's mounted pages.
type Service struct {
	opts   Options
	toasts *ui.ToastCenter

	analytics   *analytics.Controller
	calendar    *calendar.Controller
	replyAssist *replyassist.Controller
	generate    *generate.Controller
}

// NewService builds the service and its page controllers. Mount loads
// their initial state.
func NewService(opts Options) (*Service, error) {
	if opts.Backend == nil {
		return nil, errors.New("studio: Options.Backend is required")
	}
	if opts.Sessions == nil {
		opts.Sessions = store.NewMemorySessionStore(store.DefaultSessionTTL)
	}
	if opts.Prefs == nil {
		opts.Prefs = store.NewMemoryPreferenceStore()
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}

	s := &Service{opts: opts, toasts: ui.NewToastCenter()}

	s.analytics = analytics.NewController(analytics.Options{
		Metrics:     opts.Backend,
		Traffic:     opts.Backend,
		Posts:       opts.Backend,
		Sync:        opts.Backend,
		Renderer:    analytics.NewChartRenderer(),
		Connections: opts.Connections,
		Toasts:      s.toasts,
		Telemetry:   telemetryAdapter{opts.Telemetry},
		Manifest:    opts.Manifest,
	})

	replyCtrl, err := replyassist.NewController(replyassist.Options{
		Lists:      opts.Backend,
		Generator:  opts.Backend,
		GIFs:       opts.Backend,
		BrandVoice: opts.Backend,
		Sessions:   opts.Sessions,
		Prefs:      opts.Prefs,
		UserID:     opts.UserID,
		Toasts:     s.toasts,
		Telemetry:  telemetryAdapter{opts.Telemetry},
		OnAnalysisDone: func(listID string, status replyassist.UpdateStatus) {
			_ = opts.RefreshHook.PageUpdated(context.Background(), PageEvent{
				Page:   string(PageReplyAssist),
				Reason: "analysis-done",
				Payload: map[string]any{
					"list":   listID,
					"status": string(status),
				},
			})
		},
	})
	if err != nil {
		return nil, err
	}
	s.replyAssist = replyCtrl

	calCtrl, err := calendar.NewController(calendar.Options{
		Events:    opts.Backend,
		Prefs:     opts.Prefs,
		UserID:    opts.UserID,
		Toasts:    s.toasts,
		Telemetry: telemetryAdapter{opts.Telemetry},
	})
	if err != nil {
		return nil, err
	}
	s.calendar = calCtrl

	genCtrl, err := generate.NewController(generate.Options{
		Generator: opts.Backend,
		Toasts:    s.toasts,
		Telemetry: telemetryAdapter{opts.Telemetry},
	})
	if err != nil {
		return nil, err
	}
	s.generate = genCtrl

	return s, nil
}

// Mount loads initial state for every page.
func (s *Service) Mount(ctx context.Context, platformParam string) error {
	platform := s.analytics.InitialPlatform(platformParam)
	s.analytics.SwitchPlatform(ctx, platform)

	if err := s.replyAssist.Mount(ctx); err != nil {
		return fmt.Errorf("studio: mount reply assist: %w", err)
	}
	if err := s.calendar.Mount(ctx); err != nil {
		return fmt.Errorf("studio: mount calendar: %w", err)
	}
	return nil
}

// Close stops background work owned by the pages.
func (s *Service) Close() {
	s.replyAssist.Close()
	s.analytics.Slots().DestroyAll()
}

// Analytics exposes the analytics page controller.
func (s *Service) Analytics() *analytics.Controller { return s.analytics }

// Calendar exposes the calendar page controller.
func (s *Service) Calendar() *calendar.Controller { return s.calendar }

// ReplyAssist exposes the reply-assistant page controller.
func (s *Service) ReplyAssist() *replyassist.Controller { return s.replyAssist }

// Generate exposes the generation tools controller.
func (s *Service) Generate() *generate.Controller { return s.generate }

// Toasts exposes the shared toast backlog for transports to drain.
func (s *Service) Toasts() *ui.ToastCenter { return s.toasts }

// RefreshPlatforms re-syncs every platform, reloads the current one when
// its sync succeeded, and tells connected clients to re-pull. It returns
// the platforms whose sync failed.
func (s *Service) RefreshPlatforms(ctx context.Context) ([]analytics.Platform, error) {
	failed := s.analytics.RefreshAll(ctx)

	err := s.opts.RefreshHook.PageUpdated(ctx, PageEvent{
		Page:    string(PageAnalytics),
		Reason:  "refresh",
		Payload: map[string]any{"failed": len(failed)},
	})
	return failed, err
}

// MoveEvent reschedules a calendar event and announces the change.
func (s *Service) MoveEvent(ctx context.Context, id string, to time.Time) error {
	if err := s.calendar.MoveEvent(ctx, id, to); err != nil {
		return err
	}
	return s.opts.RefreshHook.PageUpdated(ctx, PageEvent{
		Page:    string(PageCalendar),
		Reason:  "event-moved",
		Payload: map[string]any{"event": id},
	})
}

// PreferencesInput carries the user-adjustable settings in one payload.
// Nil fields are left untouched.
type PreferencesInput struct {
	WeekStart  *calendar.WeekStart `json:"week_start,omitempty"`
	BrandVoice *bool               `json:"brand_voice,omitempty"`
}

// SavePreferences applies and persists preference changes across pages.
func (s *Service) SavePreferences(ctx context.Context, input PreferencesInput) error {
	if input.WeekStart != nil {
		if err := s.calendar.SetWeekStart(ctx, *input.WeekStart); err != nil {
			return err
		}
	}
	if input.BrandVoice != nil {
		if err := s.replyAssist.SetBrandVoice(ctx, *input.BrandVoice); err != nil {
			return err
		}
	}
	return nil
}

// RenderPage renders the named page through the template renderer.
func (s *Service) RenderPage(ctx context.Context, page Page) (string, error) {
	if s.opts.Renderer == nil {
		return "", errors.New("studio: renderer not configured")
	}

	var (
		body string
		err  error
	)
	switch page {
	case PageAnalytics:
		body, err = s.renderAnalytics()
	case PageCalendar:
		body, err = s.opts.Renderer.Render("calendar", map[string]any{
			"Snapshot": s.calendar.Snapshot(),
		})
	case PageReplyAssist:
		body, err = s.renderReplyAssist()
	case PageGenerate:
		body, err = s.renderGenerate()
	default:
		return "", ErrUnknownPage
	}
	if err != nil {
		return "", fmt.Errorf("studio: render %s: %w", page, err)
	}

	return s.opts.Renderer.Render("studio", map[string]any{
		"Title":  "PulseKit Studio",
		"Body":   body,
		"Toasts": s.toasts.Drain(),
	})
}

func (s *Service) renderAnalytics() (string, error) {
	snapshot := s.analytics.Snapshot()
	return s.opts.Renderer.Render("analytics", map[string]any{
		"Snapshot":  snapshot,
		"Platforms": analytics.Platforms(),
		"Connected": snapshot.Connected[snapshot.Platform],
	})
}

func (s *Service) renderReplyAssist() (string, error) {
	type listView struct {
		ID        string
		Name      string
		Accounts  int
		Analyzing bool
	}
	type opportunityView struct {
		ID      string
		Author  string
		Handle  string
		Text    string
		Likes   int
		Replies int
		Reply   string
	}

	lists := s.replyAssist.Lists()
	listViews := make([]listView, 0, len(lists))
	for _, list := range lists {
		listViews = append(listViews, listView{
			ID:        list.ID,
			Name:      list.Name,
			Accounts:  list.Accounts,
			Analyzing: s.replyAssist.AnalysisRunning(list.ID),
		})
	}

	opportunities := s.replyAssist.Opportunities()
	oppViews := make([]opportunityView, 0, len(opportunities))
	for _, opp := range opportunities {
		view := opportunityView{
			ID:      opp.ID,
			Author:  opp.Author,
			Handle:  opp.Handle,
			Text:    opp.Text,
			Likes:   opp.Likes,
			Replies: opp.Replies,
		}
		if reply, ok := s.replyAssist.Reply(opp.ID); ok {
			view.Reply = reply.Text
		}
		oppViews = append(oppViews, view)
	}

	return s.opts.Renderer.Render("replyassist", map[string]any{
		"Lists":         listViews,
		"SelectedList":  s.replyAssist.SelectedList(),
		"Opportunities": oppViews,
	})
}

func (s *Service) renderGenerate() (string, error) {
	data := map[string]any{
		"Breadcrumbs": s.generate.Breadcrumbs(),
		"Trends":      s.generate.Trends(),
	}
	if keyword, ok := s.generate.CurrentKeyword(); ok {
		data["Keyword"] = keyword
	}
	return s.opts.Renderer.Render("generate", data)
}

// telemetryAdapter lets a nil studio Telemetry stand in for the pages'
// per-package interfaces.
type telemetryAdapter struct {
	t Telemetry
}

func (a telemetryAdapter) Record(ctx context.Context, event string, payload map[string]any) {
	if a.t != nil {
		a.t.Record(ctx, event, payload)
	}
}
