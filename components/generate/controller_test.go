package generate

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsekit/go-studio/components/ui"
)

func newTestGenerate(t *testing.T, toasts *ui.ToastCenter) *Controller {
	t.Helper()
	if toasts == nil {
		toasts = ui.NewToastCenter()
	}
	c, err := NewController(Options{Generator: &DemoGenerator{}, Toasts: toasts})
	require.NoError(t, err)
	return c
}

func TestGenerateScriptRoundTrip(t *testing.T) {
	t.Parallel()

	c := newTestGenerate(t, nil)
	result, err := c.GenerateScript(context.Background(), ScriptRequest{
		Topic:           "keyword research",
		Audience:        "creators",
		Tone:            "practical",
		DurationMinutes: 8,
	})
	require.NoError(t, err)
	assert.Len(t, result.Sections, 3)

	text, err := c.ScriptText()
	require.NoError(t, err)
	assert.Contains(t, text, result.Title)
	assert.Contains(t, text, result.Sections[2])
}

func TestGenerateScriptWithOnlyTopic(t *testing.T) {
	t.Parallel()

	toasts := ui.NewToastCenter()
	c := newTestGenerate(t, toasts)

	// Duration, audience, and tone are all optional; a blank duration must
	// not trip the 1-60 minute bound.
	result, err := c.GenerateScript(context.Background(), ScriptRequest{Topic: "keyword research"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Sections)
	assert.Empty(t, toasts.Drain())
}

func TestInvalidScriptPayloadNeverSubmits(t *testing.T) {
	t.Parallel()

	toasts := ui.NewToastCenter()
	c := newTestGenerate(t, toasts)

	_, err := c.GenerateScript(context.Background(), ScriptRequest{Topic: "ab"})
	require.Error(t, err)

	drained := toasts.Drain()
	require.Len(t, drained, 1)
	assert.Equal(t, ui.ToastWarning, drained[0].Level)

	_, err = c.ScriptText()
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestGenerateTitleTagsExport(t *testing.T) {
	t.Parallel()

	c := newTestGenerate(t, nil)
	result, err := c.GenerateTitleTags(context.Background(), TitleTagsRequest{
		Topic:    "studio tour",
		Keywords: []string{"setup"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Titles)

	text, err := c.TitleTagsText()
	require.NoError(t, err)
	assert.Contains(t, text, result.Titles[0])
	assert.Contains(t, text, "setup")

	artifact, err := c.DownloadTitleTags()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(artifact.Name, "titles-tags-"))
	assert.True(t, strings.HasSuffix(artifact.Name, ".txt"))
	assert.Equal(t, []byte(text), artifact.Data)
}

func TestDownloadNamesDiffer(t *testing.T) {
	t.Parallel()

	c := newTestGenerate(t, nil)
	_, err := c.GenerateScript(context.Background(), ScriptRequest{Topic: "editing workflow"})
	require.NoError(t, err)

	first, err := c.DownloadScript()
	require.NoError(t, err)
	second, err := c.DownloadScript()
	require.NoError(t, err)
	assert.NotEqual(t, first.Name, second.Name)
}

func TestResearchKeywordValidatesInput(t *testing.T) {
	t.Parallel()

	c := newTestGenerate(t, nil)
	_, err := c.ResearchKeyword(context.Background(), " ")
	assert.Error(t, err)

	analysis, err := c.ResearchKeyword(context.Background(), "seo")
	require.NoError(t, err)
	assert.Equal(t, "seo", analysis.Keyword)
	assert.Equal(t, []string{"seo"}, c.Breadcrumbs())
}

func TestFindTrendsRanked(t *testing.T) {
	t.Parallel()

	c := newTestGenerate(t, nil)
	trends, err := c.FindTrends(context.Background(), TrendRequest{Niche: "podcasting"})
	require.NoError(t, err)
	require.Len(t, trends, 3)
	assert.Greater(t, trends[0].Score, trends[1].Score)
	assert.Equal(t, trends, c.Trends())
}
