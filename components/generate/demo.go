package generate

import (
	"context"
	"fmt"
	"sync"
)

// DemoGenerator serves deterministic generation results for the example app
// and the package tests. It counts AnalyzeKeyword calls so cache behavior
// is observable.
type DemoGenerator struct {
	mu           sync.Mutex
	keywordCalls map[string]int
}

func (g *DemoGenerator) GenerateScript(ctx context.Context, req ScriptRequest) (ScriptResult, error) {
	minutes := req.DurationMinutes
	if minutes == 0 {
		minutes = 5
	}
	return ScriptResult{
		Title: fmt.Sprintf("%s in %d minutes", req.Topic, minutes),
		Sections: []string{
			"Hook: why " + req.Topic + " matters right now.",
			"Body: three things nobody tells you about " + req.Topic + ".",
			"Close: what to try this week.",
		},
	}, nil
}

func (g *DemoGenerator) GenerateTitleTags(ctx context.Context, req TitleTagsRequest) (TitleTagsResult, error) {
	return TitleTagsResult{
		Titles: []string{
			"The Truth About " + req.Topic,
			req.Topic + ": A Field Guide",
			"What I Learned Shipping " + req.Topic,
		},
		Tags: append([]string{req.Topic, "howto", "guide"}, req.Keywords...),
	}, nil
}

func (g *DemoGenerator) AnalyzeKeyword(ctx context.Context, keyword string) (KeywordAnalysis, error) {
	g.mu.Lock()
	if g.keywordCalls == nil {
		g.keywordCalls = map[string]int{}
	}
	g.keywordCalls[keyword]++
	g.mu.Unlock()

	return KeywordAnalysis{
		Keyword:      keyword,
		SearchVolume: 1000 * len(keyword),
		Competition:  "medium",
		Suggestions: []string{
			keyword + " tools",
			keyword + " tutorial",
			"best " + keyword,
		},
		Questions: []string{"what is " + keyword + "?"},
	}, nil
}

func (g *DemoGenerator) FindTrends(ctx context.Context, req TrendRequest) ([]Trend, error) {
	return []Trend{
		{Name: req.Niche + " automation", Score: 92.5, Momentum: "rising"},
		{Name: req.Niche + " for teams", Score: 81.0, Momentum: "steady"},
		{Name: "diy " + req.Niche, Score: 64.2, Momentum: "falling"},
	}, nil
}

// KeywordCalls returns how many times keyword was analyzed.
func (g *DemoGenerator) KeywordCalls(keyword string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.keywordCalls[keyword]
}
