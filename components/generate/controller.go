package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pulsekit/go-studio/components/ui"
)

// ErrNoResult is returned by export helpers before a generation succeeded.
var ErrNoResult = errors.New("generate: nothing generated yet")

// Artifact is a downloadable export of a generation result. Names carry a
// random suffix so repeated downloads never collide.
type Artifact struct {
	Name string
	Data []byte
}

// Options configures a generation Controller.
type Options struct {
	Generator Generator
	Validator *PayloadValidator
	Toasts    *ui.ToastCenter
	Telemetry Telemetry
}

// Controller is the state holder for the generation tools page: the latest
// result per form plus the keyword explorer.
type Controller struct {
	opts      Options
	telemetry Telemetry
	explorer  *KeywordExplorer

	mu        sync.Mutex
	script    *ScriptResult
	titleTags *TitleTagsResult
	trends    []Trend
}

// NewController builds an idle controller.
func NewController(opts Options) (*Controller, error) {
	if opts.Generator == nil {
		return nil, errors.New("generate: Options.Generator is required")
	}
	if opts.Validator == nil {
		opts.Validator = NewPayloadValidator()
	}
	return &Controller{
		opts:      opts,
		telemetry: normalizeTelemetry(opts.Telemetry),
		explorer:  NewKeywordExplorer(opts.Generator),
	}, nil
}

// GenerateScript validates the form and requests a video script. Invalid
// input raises a toast and never reaches the server.
func (c *Controller) GenerateScript(ctx context.Context, req ScriptRequest) (ScriptResult, error) {
	if err := c.opts.Validator.Validate(FormScript, req); err != nil {
		c.opts.Toasts.Push(ui.ToastWarning, "Check the script form before generating")
		return ScriptResult{}, err
	}

	result, err := c.opts.Generator.GenerateScript(ctx, req)
	if err != nil {
		c.opts.Toasts.Push(ui.ToastError, "Script generation failed")
		return ScriptResult{}, err
	}

	c.mu.Lock()
	c.script = &result
	c.mu.Unlock()

	c.telemetry.Record(ctx, "generate.script", map[string]any{"topic": req.Topic})
	return result, nil
}

// GenerateTitleTags validates the form and requests title and tag
// candidates.
func (c *Controller) GenerateTitleTags(ctx context.Context, req TitleTagsRequest) (TitleTagsResult, error) {
	if err := c.opts.Validator.Validate(FormTitleTags, req); err != nil {
		c.opts.Toasts.Push(ui.ToastWarning, "Check the title form before generating")
		return TitleTagsResult{}, err
	}

	result, err := c.opts.Generator.GenerateTitleTags(ctx, req)
	if err != nil {
		c.opts.Toasts.Push(ui.ToastError, "Title generation failed")
		return TitleTagsResult{}, err
	}

	c.mu.Lock()
	c.titleTags = &result
	c.mu.Unlock()

	c.telemetry.Record(ctx, "generate.title_tags", map[string]any{"topic": req.Topic})
	return result, nil
}

// ResearchKeyword starts or continues a drill-down with keyword as the new
// subject.
func (c *Controller) ResearchKeyword(ctx context.Context, keyword string) (KeywordAnalysis, error) {
	payload := map[string]any{"keyword": strings.TrimSpace(keyword)}
	if err := c.opts.Validator.Validate(FormKeyword, payload); err != nil {
		c.opts.Toasts.Push(ui.ToastWarning, "Enter a keyword to research")
		return KeywordAnalysis{}, err
	}

	analysis, err := c.explorer.Explore(ctx, keyword)
	if err != nil {
		c.opts.Toasts.Push(ui.ToastError, "Keyword research failed")
		return KeywordAnalysis{}, err
	}

	c.telemetry.Record(ctx, "generate.keyword", map[string]any{
		"keyword": analysis.Keyword,
		"depth":   len(c.explorer.Breadcrumbs()),
	})
	return analysis, nil
}

// JumpToBreadcrumb truncates the drill-down trail to index+1 and re-runs
// that breadcrumb's analysis.
func (c *Controller) JumpToBreadcrumb(ctx context.Context, index int) (KeywordAnalysis, error) {
	analysis, err := c.explorer.JumpTo(ctx, index)
	if err != nil {
		if !errors.Is(err, ErrBreadcrumbOutOfRange) {
			c.opts.Toasts.Push(ui.ToastError, "Keyword research failed")
		}
		return KeywordAnalysis{}, err
	}
	return analysis, nil
}

// Breadcrumbs exposes the drill-down trail for rendering.
func (c *Controller) Breadcrumbs() []string {
	return c.explorer.Breadcrumbs()
}

// CurrentKeyword returns the analysis on screen, if any.
func (c *Controller) CurrentKeyword() (KeywordAnalysis, bool) {
	return c.explorer.Current()
}

// FindTrends validates the niche and returns ranked trends.
func (c *Controller) FindTrends(ctx context.Context, req TrendRequest) ([]Trend, error) {
	if err := c.opts.Validator.Validate(FormTrends, req); err != nil {
		c.opts.Toasts.Push(ui.ToastWarning, "Enter a niche to scan")
		return nil, err
	}

	trends, err := c.opts.Generator.FindTrends(ctx, req)
	if err != nil {
		c.opts.Toasts.Push(ui.ToastError, "Trend lookup failed")
		return nil, err
	}

	c.mu.Lock()
	c.trends = trends
	c.mu.Unlock()
	return trends, nil
}

// ScriptText renders the latest script as plain text for the clipboard.
func (c *Controller) ScriptText() (string, error) {
	c.mu.Lock()
	script := c.script
	c.mu.Unlock()
	if script == nil {
		return "", ErrNoResult
	}

	var b strings.Builder
	b.WriteString(script.Title)
	b.WriteString("\n\n")
	for i, section := range script.Sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(section)
	}
	return b.String(), nil
}

// DownloadScript packages the latest script as a text artifact.
func (c *Controller) DownloadScript() (Artifact, error) {
	text, err := c.ScriptText()
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{
		Name: fmt.Sprintf("video-script-%s.txt", shortID()),
		Data: []byte(text),
	}, nil
}

// TitleTagsText renders the latest candidates as copyable plain text.
func (c *Controller) TitleTagsText() (string, error) {
	c.mu.Lock()
	result := c.titleTags
	c.mu.Unlock()
	if result == nil {
		return "", ErrNoResult
	}

	var b strings.Builder
	for _, title := range result.Titles {
		b.WriteString(title)
		b.WriteString("\n")
	}
	if len(result.Tags) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(result.Tags, ", "))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// DownloadTitleTags packages the latest candidates as a text artifact.
func (c *Controller) DownloadTitleTags() (Artifact, error) {
	text, err := c.TitleTagsText()
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{
		Name: fmt.Sprintf("titles-tags-%s.txt", shortID()),
		Data: []byte(text),
	}, nil
}

// Trends returns the latest trend ranking.
func (c *Controller) Trends() []Trend {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Trend, len(c.trends))
	copy(out, c.trends)
	return out
}

func shortID() string {
	return uuid.NewString()[:8]
}
