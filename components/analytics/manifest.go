package analytics

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// PlatformManifestDocument models a YAML manifest describing the chart slots
// each platform page renders.
type PlatformManifestDocument struct {
	Version   string             `json:"version" yaml:"version"`
	Name      string             `json:"name,omitempty" yaml:"name,omitempty"`
	Platforms []ManifestPlatform `json:"platforms" yaml:"platforms"`
	Source    string             `json:"-" yaml:"-"`
}

// ManifestPlatform describes one platform tab and its slots.
type ManifestPlatform struct {
	Code  string         `json:"code" yaml:"code"`
	Name  string         `json:"name" yaml:"name"`
	Slots []ManifestSlot `json:"slots" yaml:"slots"`
}

// ManifestSlot describes a single chart slot.
type ManifestSlot struct {
	Metric string `json:"metric" yaml:"metric"`
	Chart  string `json:"chart" yaml:"chart"`
	Title  string `json:"title" yaml:"title"`
	Series string `json:"series,omitempty" yaml:"series,omitempty"`
	Toggle bool   `json:"toggle,omitempty" yaml:"toggle,omitempty"`
}

// ReadManifest loads a manifest file from disk.
func ReadManifest(path string) (*PlatformManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("analytics: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("analytics: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*PlatformManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc PlatformManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("analytics: manifest is empty")
		}
		return nil, fmt.Errorf("analytics: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *PlatformManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("analytics: unsupported manifest version %q", doc.Version)
	}
	seenPlatforms := make(map[string]struct{}, len(doc.Platforms))
	for _, platform := range doc.Platforms {
		if platform.Code == "" {
			return fmt.Errorf("analytics: manifest platform missing code")
		}
		if ParsePlatform(platform.Code) == PlatformNone {
			return fmt.Errorf("analytics: manifest platform %q is not a known platform", platform.Code)
		}
		if _, ok := seenPlatforms[platform.Code]; ok {
			return fmt.Errorf("analytics: manifest duplicates platform %s", platform.Code)
		}
		seenPlatforms[platform.Code] = struct{}{}
		seenSlots := make(map[string]struct{}, len(platform.Slots))
		for _, slot := range platform.Slots {
			if slot.Metric == "" {
				return fmt.Errorf("analytics: platform %s has a slot without a metric", platform.Code)
			}
			if _, ok := seenSlots[slot.Metric]; ok {
				return fmt.Errorf("analytics: platform %s duplicates slot %s", platform.Code, slot.Metric)
			}
			seenSlots[slot.Metric] = struct{}{}
			switch chartKind(slot.Chart) {
			case chartLine, chartBar, chartPie:
			default:
				return fmt.Errorf("analytics: platform %s slot %s has unsupported chart %q", platform.Code, slot.Metric, slot.Chart)
			}
			if slot.Title == "" {
				return fmt.Errorf("analytics: platform %s slot %s missing title", platform.Code, slot.Metric)
			}
		}
	}
	return nil
}

func (doc *PlatformManifestDocument) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
}

// slotLayout converts the manifest into the controller's slot layout.
func (doc *PlatformManifestDocument) slotLayout() map[Platform][]slotSpec {
	layout := make(map[Platform][]slotSpec, len(doc.Platforms))
	for _, platform := range doc.Platforms {
		specs := make([]slotSpec, 0, len(platform.Slots))
		for _, slot := range platform.Slots {
			series := slot.Series
			if series == "" {
				series = slot.Title
			}
			specs = append(specs, slotSpec{
				metric:    Metric(slot.Metric),
				kind:      chartKind(slot.Chart),
				title:     slot.Title,
				series:    series,
				toggleable: slot.Toggle,
			})
		}
		layout[Platform(platform.Code)] = specs
	}
	return layout
}

// DefaultManifest returns the built-in slot layout as a manifest document,
// useful for scaffolding and round-trip tests.
func DefaultManifest() *PlatformManifestDocument {
	doc := &PlatformManifestDocument{Version: manifestVersionV1, Name: "default"}
	for _, platform := range Platforms() {
		entry := ManifestPlatform{Code: string(platform), Name: string(platform)}
		for _, spec := range platformSlots[platform] {
			entry.Slots = append(entry.Slots, ManifestSlot{
				Metric: string(spec.metric),
				Chart:  string(spec.kind),
				Title:  spec.title,
				Series: spec.series,
				Toggle: spec.toggleable,
			})
		}
		doc.Platforms = append(doc.Platforms, entry)
	}
	return doc
}
