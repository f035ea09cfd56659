package generate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Form names the schemas compiled by the validator.
type Form string

const (
	FormScript    Form = "script"
	FormTitleTags Form = "title_tags"
	FormKeyword   Form = "keyword"
	FormTrends    Form = "trends"
)

// formSchemas are the request contracts enforced before any generation
// call leaves the page.
var formSchemas = map[Form]map[string]any{
	FormScript: {
		"type":     "object",
		"required": []any{"topic"},
		"properties": map[string]any{
			"topic":            map[string]any{"type": "string", "minLength": 3},
			"audience":         map[string]any{"type": "string"},
			"tone":             map[string]any{"type": "string"},
			"duration_minutes": map[string]any{"type": "integer", "minimum": 1, "maximum": 60},
		},
	},
	FormTitleTags: {
		"type":     "object",
		"required": []any{"topic"},
		"properties": map[string]any{
			"topic":       map[string]any{"type": "string", "minLength": 3},
			"description": map[string]any{"type": "string"},
			"keywords":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "maxItems": 20},
		},
	},
	FormKeyword: {
		"type":     "object",
		"required": []any{"keyword"},
		"properties": map[string]any{
			"keyword": map[string]any{"type": "string", "minLength": 2},
		},
	},
	FormTrends: {
		"type":     "object",
		"required": []any{"niche"},
		"properties": map[string]any{
			"niche": map[string]any{"type": "string", "minLength": 2},
		},
	},
}

// PayloadValidator compiles the form schemas lazily and validates request
// payloads before submission.
type PayloadValidator struct {
	mu       sync.RWMutex
	compiled map[Form]*jsonschema.Schema
}

// NewPayloadValidator builds a validator backed by jsonschema v5.
func NewPayloadValidator() *PayloadValidator {
	return &PayloadValidator{compiled: map[Form]*jsonschema.Schema{}}
}

// Validate normalizes payload through JSON and checks it against the form's
// schema.
func (v *PayloadValidator) Validate(form Form, payload any) error {
	schema, err := v.schemaFor(form)
	if err != nil {
		return err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("generate: marshal %s payload: %w", form, err)
	}
	var normalized map[string]any
	if err := json.Unmarshal(data, &normalized); err != nil {
		return fmt.Errorf("generate: normalize %s payload: %w", form, err)
	}
	if err := schema.Validate(normalized); err != nil {
		return fmt.Errorf("generate: %s payload failed validation: %w", form, err)
	}
	return nil
}

func (v *PayloadValidator) schemaFor(form Form) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[form]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}

	raw, ok := formSchemas[form]
	if !ok {
		return nil, fmt.Errorf("generate: no schema for form %q", form)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("generate: marshal schema %s: %w", form, err)
	}

	compiler := jsonschema.NewCompiler()
	name := string(form) + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("generate: load schema %s: %w", form, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("generate: compile schema %s: %w", form, err)
	}

	v.mu.Lock()
	v.compiled[form] = compiled
	v.mu.Unlock()
	return compiled, nil
}
