// Package copyfield provides the step that copies a value from one
// document path to another.
package copyfield

import (
	"context"
	"log/slog"

	"github.com/linguaflow/linguaflow/pkg/dotpath"
	"github.com/linguaflow/linguaflow/pkg/execution"
	"github.com/linguaflow/linguaflow/pkg/protocol"
)

type Step struct {
	protocol.Base
}

func NewStep() *Step {
	return &Step{
		Base: protocol.Base{
			StepID:          "copyfield",
			StepName:        "Copy Field",
			StepDescription: "Copies the value at one document path to another. A missing source path leaves the target untouched.",
			External:        true,
		},
	}
}

func (s *Step) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"from": map[string]any{
				"type":        "string",
				"description": "Dot-path to read.",
				"examples":    []string{"post.title"},
			},
			"to": map[string]any{
				"type":        "string",
				"description": "Dot-path to write.",
				"examples":    []string{"meta.original_title"},
			},
		},
		"required": []string{"from", "to"},
	}
}

func (s *Step) ValidateConfig(config map[string]any) []string {
	return protocol.ValidateWithSchema(s.Schema(), config)
}

func (s *Step) Execute(_ context.Context, ec execution.Context, config map[string]any, logger *slog.Logger) error {
	from, _ := config["from"].(string)
	to, _ := config["to"].(string)

	if !ec.Has(from) {
		logger.Warn("Source path not present, nothing copied", "from", from)

		return nil
	}

	value := ec.Get(from)
	if nested, ok := value.(map[string]any); ok {
		// Copy subtrees by value so later writes through one path do not
		// leak into the other.
		value = dotpath.Clone(nested)
	}

	ec.Set(to, value)

	return nil
}
