// Package sanitize provides a legacy-shaped step that normalizes
// whitespace and strips control characters from text fields. It ships in
// the old one-call contract and is registered through the legacy adapter.
package sanitize

import (
	"strings"
	"unicode"

	"github.com/linguaflow/linguaflow/pkg/dotpath"
	"github.com/linguaflow/linguaflow/pkg/registry"
)

var defaultFields = []string{"post.title", "post.excerpt"}

// Step cleans the configured text fields in place: control characters
// are removed and runs of whitespace collapse to single spaces.
type Step struct{}

func NewStep() *Step {
	return &Step{}
}

// Meta describes the step to the registry, since the legacy contract
// cannot self-report.
func Meta() registry.LegacyStepMeta {
	return registry.LegacyStepMeta{
		Name:               "Sanitize",
		Description:        "Normalizes whitespace and strips control characters from the configured text fields.",
		ExternalCompatible: true,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"fields": map[string]any{
					"type":        "array",
					"description": "Dot-paths of the text fields to clean. Defaults to post.title and post.excerpt.",
					"items":       map[string]any{"type": "string"},
				},
			},
		},
	}
}

// Run implements the legacy contract: transform the document, return it.
func (s *Step) Run(data map[string]any, params map[string]any) (map[string]any, error) {
	for _, field := range fields(params) {
		value, ok := dotpath.Get(data, field)
		if !ok {
			continue
		}

		text, ok := value.(string)
		if !ok {
			continue
		}

		dotpath.Set(data, field, clean(text))
	}

	return data, nil
}

func fields(params map[string]any) []string {
	raw, ok := params["fields"].([]any)
	if !ok {
		return defaultFields
	}

	list := make([]string, 0, len(raw))

	for _, entry := range raw {
		if field, ok := entry.(string); ok {
			list = append(list, field)
		}
	}

	if len(list) == 0 {
		return defaultFields
	}

	return list
}

func clean(text string) string {
	var b strings.Builder

	b.Grow(len(text))

	space := false

	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsControl(r):
			// dropped
		default:
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}

			space = false

			b.WriteRune(r)
		}
	}

	return b.String()
}
