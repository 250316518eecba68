// Package setfield provides the step that writes a templated value to a
// document path.
package setfield

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linguaflow/linguaflow/pkg/execution"
	"github.com/linguaflow/linguaflow/pkg/protocol"
	"github.com/linguaflow/linguaflow/pkg/template"
)

type Step struct {
	protocol.Base
}

func NewStep() *Step {
	return &Step{
		Base: protocol.Base{
			StepID:          "setfield",
			StepName:        "Set Field",
			StepDescription: "Writes a value to a document path. String values are rendered as templates against the document.",
			External:        true,
		},
	}
}

func (s *Step) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "Dot-path to write.",
				"examples":    []string{"post.status", "meta.seo_title"},
			},
			"value": map[string]any{
				"description": "Value to write. Strings support Go template syntax against the document plus source_language and target_language.",
				"examples": []any{
					"draft",
					"{{.post.title}} ({{.target_language}})",
				},
			},
		},
		"required": []string{"path", "value"},
	}
}

func (s *Step) ValidateConfig(config map[string]any) []string {
	return protocol.ValidateWithSchema(s.Schema(), config)
}

func (s *Step) Execute(_ context.Context, ec execution.Context, config map[string]any, logger *slog.Logger) error {
	path, _ := config["path"].(string)
	value := config["value"]

	if text, ok := value.(string); ok {
		rendered, err := template.RenderContext(text, ec)
		if err != nil {
			return fmt.Errorf("failed to render value for %q: %w", path, err)
		}

		value = rendered
	}

	logger.Debug("Setting field", "path", path)
	ec.Set(path, value)

	return nil
}
