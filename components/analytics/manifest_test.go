package analytics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `
version: "1"
name: studio-default
platforms:
  - code: x
    name: X / Twitter
    slots:
      - metric: impressions
        chart: line
        title: Impressions
        toggle: true
      - metric: posts
        chart: bar
        title: Posts Published
  - code: youtube
    name: YouTube
    slots:
      - metric: traffic
        chart: pie
        title: Traffic Sources
`

func TestDecodeManifest(t *testing.T) {
	t.Parallel()
	doc, err := DecodeManifest(strings.NewReader(sampleManifest))
	require.NoError(t, err)
	require.Len(t, doc.Platforms, 2)
	assert.Equal(t, "x", doc.Platforms[0].Code)
	assert.True(t, doc.Platforms[0].Slots[0].Toggle)
	assert.Equal(t, "pie", doc.Platforms[1].Slots[0].Chart)
}

func TestDecodeManifestRejectsUnknownPlatform(t *testing.T) {
	t.Parallel()
	bad := strings.Replace(sampleManifest, "code: youtube", "code: myspace", 1)
	_, err := DecodeManifest(strings.NewReader(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "myspace")
}

func TestDecodeManifestRejectsDuplicateSlots(t *testing.T) {
	t.Parallel()
	bad := strings.Replace(sampleManifest, "metric: posts", "metric: impressions", 1)
	_, err := DecodeManifest(strings.NewReader(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicates slot")
}

func TestDecodeManifestRejectsUnsupportedChart(t *testing.T) {
	t.Parallel()
	bad := strings.Replace(sampleManifest, "chart: bar", "chart: bubble", 1)
	_, err := DecodeManifest(strings.NewReader(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported chart")
}

func TestDecodeManifestRejectsUnknownVersion(t *testing.T) {
	t.Parallel()
	bad := strings.Replace(sampleManifest, `version: "1"`, `version: "2"`, 1)
	_, err := DecodeManifest(strings.NewReader(bad))
	require.Error(t, err)
}

func TestManifestDrivesControllerLayout(t *testing.T) {
	t.Parallel()
	doc, err := DecodeManifest(strings.NewReader(sampleManifest))
	require.NoError(t, err)

	c := NewController(Options{
		Metrics:  &fakeMetricsRepo{series: sampleSeries(7)},
		Manifest: doc,
	})
	names := c.Slots().Names()
	assert.ElementsMatch(t, []string{"x.impressions", "x.posts", "youtube.traffic"}, names)
}

func TestDefaultManifestRoundTrips(t *testing.T) {
	t.Parallel()
	doc := DefaultManifest()
	require.NoError(t, doc.Validate())
	layout := doc.slotLayout()
	assert.Len(t, layout[PlatformX], 4)
	assert.Len(t, layout[PlatformYouTube], 2)
	assert.Len(t, layout[PlatformTikTok], 3)
}
