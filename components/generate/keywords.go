package generate

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrBreadcrumbOutOfRange is returned when a breadcrumb index does not
// exist in the current trail.
var ErrBreadcrumbOutOfRange = errors.New("generate: breadcrumb index out of range")

// KeywordExplorer drives the drill-down flow of the research tool: each
// explored keyword is pushed onto an ordered breadcrumb trail, and clicking
// an earlier breadcrumb truncates the trail back to it and re-shows that
// keyword's analysis. Results are cached per keyword for the session, so
// revisiting a breadcrumb never re-issues the request.
type KeywordExplorer struct {
	generator Generator

	mu      sync.Mutex
	trail   []string
	cache   map[string]KeywordAnalysis
	current KeywordAnalysis
	loaded  bool
}

// NewKeywordExplorer wraps generator with an empty trail.
func NewKeywordExplorer(generator Generator) *KeywordExplorer {
	return &KeywordExplorer{
		generator: generator,
		cache:     map[string]KeywordAnalysis{},
	}
}

// Explore analyzes keyword and appends it to the trail. Exploring the
// keyword already at the end of the trail just refreshes the view from
// cache.
func (e *KeywordExplorer) Explore(ctx context.Context, keyword string) (KeywordAnalysis, error) {
	keyword = normalizeKeyword(keyword)

	analysis, err := e.analysisFor(ctx, keyword)
	if err != nil {
		return KeywordAnalysis{}, err
	}

	e.mu.Lock()
	if len(e.trail) == 0 || e.trail[len(e.trail)-1] != keyword {
		e.trail = append(e.trail, keyword)
	}
	e.current = analysis
	e.loaded = true
	e.mu.Unlock()
	return analysis, nil
}

// JumpTo truncates the trail to index+1 and re-runs the analysis for that
// breadcrumb only.
func (e *KeywordExplorer) JumpTo(ctx context.Context, index int) (KeywordAnalysis, error) {
	e.mu.Lock()
	if index < 0 || index >= len(e.trail) {
		e.mu.Unlock()
		return KeywordAnalysis{}, ErrBreadcrumbOutOfRange
	}
	e.trail = e.trail[:index+1]
	keyword := e.trail[index]
	e.mu.Unlock()

	analysis, err := e.analysisFor(ctx, keyword)
	if err != nil {
		return KeywordAnalysis{}, err
	}

	e.mu.Lock()
	e.current = analysis
	e.loaded = true
	e.mu.Unlock()
	return analysis, nil
}

// Breadcrumbs returns the trail in exploration order.
func (e *KeywordExplorer) Breadcrumbs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.trail))
	copy(out, e.trail)
	return out
}

// Current returns the analysis on screen, if any.
func (e *KeywordExplorer) Current() (KeywordAnalysis, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current, e.loaded
}

// Cached reports whether keyword already has a session-cached analysis.
func (e *KeywordExplorer) Cached(keyword string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.cache[normalizeKeyword(keyword)]
	return ok
}

// Reset clears the trail but keeps the session cache.
func (e *KeywordExplorer) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.trail = nil
	e.loaded = false
	e.current = KeywordAnalysis{}
}

func (e *KeywordExplorer) analysisFor(ctx context.Context, keyword string) (KeywordAnalysis, error) {
	e.mu.Lock()
	cached, ok := e.cache[keyword]
	e.mu.Unlock()
	if ok {
		return cached, nil
	}

	analysis, err := e.generator.AnalyzeKeyword(ctx, keyword)
	if err != nil {
		return KeywordAnalysis{}, err
	}

	e.mu.Lock()
	e.cache[keyword] = analysis
	e.mu.Unlock()
	return analysis, nil
}

func normalizeKeyword(keyword string) string {
	return strings.ToLower(strings.TrimSpace(keyword))
}
