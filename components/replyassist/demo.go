package replyassist

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DemoListRepository serves canned lists and opportunities, finishing every
// analysis after a fixed number of status polls. It backs the example app
// and the package tests.
type DemoListRepository struct {
	// PollsToComplete is how many AnalysisStatus calls a job stays running
	// for; zero completes immediately.
	PollsToComplete int
	// FailLists marks lists whose analyses end in UpdateFailed.
	FailLists map[string]bool

	mu    sync.Mutex
	polls map[string]int
}

func (r *DemoListRepository) FetchLists(ctx context.Context) ([]List, error) {
	return []List{
		{ID: "founders", Name: "Founders", IsDefault: true, Accounts: 42},
		{ID: "devtools", Name: "DevTools", Accounts: 18},
		{ID: "creators", Name: "Creators", Accounts: 65},
	}, nil
}

func (r *DemoListRepository) StartListAnalysis(ctx context.Context, listID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.polls == nil {
		r.polls = map[string]int{}
	}
	r.polls[listID] = 0
	return nil
}

func (r *DemoListRepository) AnalysisStatus(ctx context.Context, listID string) (UpdateStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.polls == nil {
		r.polls = map[string]int{}
	}
	r.polls[listID]++
	if r.polls[listID] <= r.PollsToComplete {
		return UpdateRunning, nil
	}
	if r.FailLists[listID] {
		return UpdateFailed, nil
	}
	return UpdateCompleted, nil
}

func (r *DemoListRepository) FetchOpportunities(ctx context.Context, listID string) ([]Opportunity, error) {
	base := time.Date(2026, time.March, 9, 14, 0, 0, 0, time.UTC)
	out := make([]Opportunity, 0, 6)
	for i := 0; i < 6; i++ {
		out = append(out, Opportunity{
			ID:       fmt.Sprintf("%s-opp-%d", listID, i+1),
			Author:   fmt.Sprintf("Account %d", i+1),
			Handle:   fmt.Sprintf("@%s_%d", listID, i+1),
			Text:     fmt.Sprintf("Post %d from the %s list", i+1, listID),
			PostedAt: base.Add(-time.Duration(i) * time.Hour),
			Likes:    120 - i*7,
			Replies:  10 + i,
		})
	}
	return out, nil
}

// DemoReplyGenerator produces deterministic suggestions with two GIF
// queries per reply.
type DemoReplyGenerator struct{}

func (DemoReplyGenerator) GenerateReply(ctx context.Context, opportunityID string, brandVoice bool) (GeneratedReply, error) {
	text := "Great point, this matches what we see in the data."
	if brandVoice {
		text = "Love this take. We keep seeing the same pattern."
	}
	return GeneratedReply{
		Text:       text,
		GIFQueries: []string{"thumbs up", "mind blown"},
	}, nil
}

// DemoGIFClient returns three candidates per query and records shares.
type DemoGIFClient struct {
	mu     sync.Mutex
	shared []string
}

func (g *DemoGIFClient) SearchGIFs(ctx context.Context, query string) ([]GIF, error) {
	out := make([]GIF, 0, 3)
	for i := 0; i < 3; i++ {
		out = append(out, GIF{
			ID:         fmt.Sprintf("%s-%d", query, i+1),
			Title:      fmt.Sprintf("%s #%d", query, i+1),
			URL:        fmt.Sprintf("https://gifs.example/%s/%d.gif", query, i+1),
			PreviewURL: fmt.Sprintf("https://gifs.example/%s/%d-preview.gif", query, i+1),
		})
	}
	return out, nil
}

func (g *DemoGIFClient) DownloadGIF(ctx context.Context, gif GIF) ([]byte, error) {
	return []byte("GIF89a" + gif.ID), nil
}

func (g *DemoGIFClient) ShareGIF(ctx context.Context, gif GIF) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.shared = append(g.shared, gif.ID)
	return nil
}

// Shared returns the IDs passed to ShareGIF so far.
func (g *DemoGIFClient) Shared() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.shared))
	copy(out, g.shared)
	return out
}

// DemoBrandVoiceClient reports a fixed readiness flag.
type DemoBrandVoiceClient struct{ Ready bool }

func (c DemoBrandVoiceClient) BrandVoiceReady(ctx context.Context) (bool, error) {
	return c.Ready, nil
}
