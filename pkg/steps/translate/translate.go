// Package translate provides the step that machine-translates configured
// document paths through the registered translator service.
package translate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linguaflow/linguaflow/pkg/execution"
	"github.com/linguaflow/linguaflow/pkg/protocol"
	"github.com/linguaflow/linguaflow/pkg/translator"
)

// ServiceName is the registry service key this step resolves its
// translator from.
const ServiceName = "translator"

type Step struct {
	protocol.Base
}

func NewStep() *Step {
	return &Step{
		Base: protocol.Base{
			StepID:          "translate",
			StepName:        "Translate",
			StepDescription: "Translates the values at the configured paths from the run's source language into its target language.",
			Services:        []string{ServiceName},
			External:        true,
		},
	}
}

func (s *Step) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"paths": map[string]any{
				"type":        "array",
				"description": "Dot-paths of the string values to translate.",
				"items":       map[string]any{"type": "string"},
				"minItems":    1,
				"examples": []any{
					[]string{"post.title", "post.content"},
					[]string{"meta.seo_title"},
				},
			},
			"format": map[string]any{
				"type":        "string",
				"description": "Markup of the translated fragments. HTML fragments keep their tags.",
				"enum":        []string{"text", "html"},
				"default":     "text",
			},
		},
		"required": []string{"paths"},
	}
}

func (s *Step) ValidateConfig(config map[string]any) []string {
	return protocol.ValidateWithSchema(s.Schema(), config)
}

func (s *Step) Execute(ctx context.Context, ec execution.Context, config map[string]any, logger *slog.Logger) error {
	service, ok := ec.Service(ServiceName).(translator.Translator)
	if !ok {
		return fmt.Errorf("service %q does not implement the translator contract", ServiceName)
	}

	format, _ := config["format"].(string)

	for _, path := range configuredPaths(config) {
		text, ok := ec.Get(path).(string)
		if !ok || text == "" {
			logger.Debug("Skipping path without translatable text", "path", path)

			continue
		}

		translated, err := service.Translate(ctx, translator.Request{
			Text:           text,
			SourceLanguage: ec.SourceLanguage(),
			TargetLanguage: ec.TargetLanguage(),
			Format:         format,
		})
		if err != nil {
			return fmt.Errorf("failed to translate %q: %w", path, err)
		}

		ec.Set(path, translated)
	}

	return nil
}

func configuredPaths(config map[string]any) []string {
	// Workflow definitions decoded from JSON carry []any; callers
	// building configs in code tend to pass []string.
	switch raw := config["paths"].(type) {
	case []string:
		return raw
	case []any:
		paths := make([]string, 0, len(raw))

		for _, entry := range raw {
			if path, ok := entry.(string); ok && path != "" {
				paths = append(paths, path)
			}
		}

		return paths
	default:
		return nil
	}
}
