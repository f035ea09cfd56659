package replyassist

import (
	"context"
	"time"
)

// List is a monitored-account list the assistant scans for opportunities.
type List struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
	Accounts  int    `json:"accounts"`
}

// Opportunity is one post worth replying to, produced by a list analysis.
type Opportunity struct {
	ID       string    `json:"id"`
	Author   string    `json:"author"`
	Handle   string    `json:"handle"`
	Text     string    `json:"text"`
	PostedAt time.Time `json:"posted_at"`
	Likes    int       `json:"likes"`
	Replies  int       `json:"replies"`
}

// GeneratedReply is the assistant's suggestion for one opportunity, plus
// zero-or-more GIF search queries that fit the reply's tone.
type GeneratedReply struct {
	Text       string   `json:"text"`
	GIFQueries []string `json:"gif_queries"`
}

// GIF describes one animated-image candidate.
type GIF struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	PreviewURL string `json:"preview_url"`
}

// UpdateStatus reports where a background list analysis stands.
type UpdateStatus string

const (
	UpdateRunning   UpdateStatus = "running"
	UpdateCompleted UpdateStatus = "completed"
	UpdateFailed    UpdateStatus = "failed"
)

// OngoingUpdate is the client-side marker for a background analysis job. It
// is persisted to the session store so a page reload does not lose it; the
// store applies the five minute staleness rule on read.
type OngoingUpdate struct {
	ListID    string       `json:"list_id"`
	Status    UpdateStatus `json:"status"`
	StartedAt time.Time    `json:"started_at"`
}

// ListRepository drives list selection and background analysis jobs.
type ListRepository interface {
	FetchLists(ctx context.Context) ([]List, error)
	StartListAnalysis(ctx context.Context, listID string) error
	AnalysisStatus(ctx context.Context, listID string) (UpdateStatus, error)
	FetchOpportunities(ctx context.Context, listID string) ([]Opportunity, error)
}

// ReplyGenerator produces reply suggestions server-side.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, opportunityID string, brandVoice bool) (GeneratedReply, error)
}

// GIFClient reaches the animated-image service.
type GIFClient interface {
	SearchGIFs(ctx context.Context, query string) ([]GIF, error)
	DownloadGIF(ctx context.Context, gif GIF) ([]byte, error)
	// ShareGIF registers the share side-effect; callers treat it as
	// fire-and-forget.
	ShareGIF(ctx context.Context, gif GIF) error
}

// BrandVoiceClient reports whether enough source material exists to mimic the
// account's voice.
type BrandVoiceClient interface {
	BrandVoiceReady(ctx context.Context) (bool, error)
}

// Telemetry records assistant events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}
