// Package generate holds the form controllers for the AI content tools:
// video scripts, titles and tags, keyword research, and the trend finder.
// Each form is collect, validate, submit, render; keyword research adds
// breadcrumb drill-down on top.
package generate

import "context"

// ScriptRequest is the video-script form payload. DurationMinutes is
// optional; the zero value means the field was left blank and is omitted
// from the submitted payload.
type ScriptRequest struct {
	Topic           string `json:"topic"`
	Audience        string `json:"audience"`
	Tone            string `json:"tone"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

// ScriptResult is a generated video script.
type ScriptResult struct {
	Title    string   `json:"title"`
	Sections []string `json:"sections"`
}

// TitleTagsRequest is the title/tag generator form payload.
type TitleTagsRequest struct {
	Topic       string   `json:"topic"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords,omitempty"`
}

// TitleTagsResult carries the generated candidates.
type TitleTagsResult struct {
	Titles []string `json:"titles"`
	Tags   []string `json:"tags"`
}

// KeywordAnalysis is the research result for a single keyword. Suggestions
// feed the drill-down: each one can become the next subject.
type KeywordAnalysis struct {
	Keyword      string   `json:"keyword"`
	SearchVolume int      `json:"search_volume"`
	Competition  string   `json:"competition"`
	Suggestions  []string `json:"suggestions"`
	Questions    []string `json:"questions,omitempty"`
}

// TrendRequest is the trend-finder form payload.
type TrendRequest struct {
	Niche string `json:"niche"`
}

// Trend is one ranked entry from the trend finder.
type Trend struct {
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Momentum string  `json:"momentum"`
}

// Generator is the server-side generation API behind every form.
type Generator interface {
	GenerateScript(ctx context.Context, req ScriptRequest) (ScriptResult, error)
	GenerateTitleTags(ctx context.Context, req TitleTagsRequest) (TitleTagsResult, error)
	AnalyzeKeyword(ctx context.Context, keyword string) (KeywordAnalysis, error)
	FindTrends(ctx context.Context, req TrendRequest) ([]Trend, error)
}

// Telemetry records generation events for observability.
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
