package replyassist

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// GIFCache memoizes search results per query for the lifetime of the page
// mount, and throttles upstream searches through a token bucket. Repeated
// query navigation costs nothing after the first fetch.
type GIFCache struct {
	client  GIFClient
	limiter *rate.Limiter

	mu      sync.Mutex
	results map[string][]GIF
}

// NewGIFCache wraps client with a cache and the given request budget.
func NewGIFCache(client GIFClient, limit rate.Limit, burst int) *GIFCache {
	return &GIFCache{
		client:  client,
		limiter: rate.NewLimiter(limit, burst),
		results: map[string][]GIF{},
	}
}

// Search returns the candidates for query, hitting the upstream service at
// most once per distinct query.
func (c *GIFCache) Search(ctx context.Context, query string) ([]GIF, error) {
	c.mu.Lock()
	if cached, ok := c.results[query]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	gifs, err := c.client.SearchGIFs(ctx, query)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.results[query] = gifs
	c.mu.Unlock()
	return gifs, nil
}

// Cached reports whether query already has results without triggering a
// fetch.
func (c *GIFCache) Cached(query string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.results[query]
	return ok
}

// GIFPanel is the per-opportunity picker: the generated queries plus a
// cursor over them. Navigation wraps neither way; it clamps at the ends.
type GIFPanel struct {
	Queries    []string
	Index      int
	Candidates []GIF
}

// Query returns the active search query, or "" when the panel has none.
func (p *GIFPanel) Query() string {
	if p == nil || len(p.Queries) == 0 {
		return ""
	}
	return p.Queries[p.Index]
}

// CanPrev reports whether a previous query exists.
func (p *GIFPanel) CanPrev() bool { return p != nil && p.Index > 0 }

// CanNext reports whether a following query exists.
func (p *GIFPanel) CanNext() bool { return p != nil && p.Index < len(p.Queries)-1 }
