// Package taxonomies provides the step that swaps a document's taxonomy
// terms for their target-language equivalents.
package taxonomies

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/linguaflow/linguaflow/pkg/execution"
	"github.com/linguaflow/linguaflow/pkg/models"
	"github.com/linguaflow/linguaflow/pkg/protocol"
	"github.com/linguaflow/linguaflow/pkg/taxonomy"
)

// ServiceName is the registry service key this step resolves its term
// resolver from.
const ServiceName = "taxonomy_resolver"

// ReportKey is the meta key the unresolved-term report is written under.
const ReportKey = "meta.unresolved_terms"

type Step struct {
	protocol.Base
}

func NewStep() *Step {
	return &Step{
		Base: protocol.Base{
			StepID:          "taxonomies",
			StepName:        "Resolve Taxonomies",
			StepDescription: "Replaces taxonomy terms with their target-language equivalents and reports terms that could not be resolved.",
			Services:        []string{ServiceName},
			External:        true,
		},
	}
}

func (s *Step) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"taxonomies": map[string]any{
				"type":        "array",
				"description": "Taxonomy names to resolve. When omitted, every taxonomy on the document is resolved.",
				"items":       map[string]any{"type": "string"},
				"examples":    []any{[]string{"categories", "tags"}},
			},
		},
	}
}

func (s *Step) ValidateConfig(config map[string]any) []string {
	return protocol.ValidateWithSchema(s.Schema(), config)
}

func (s *Step) Execute(ctx context.Context, ec execution.Context, config map[string]any, logger *slog.Logger) error {
	resolver, ok := ec.Service(ServiceName).(*taxonomy.Resolver)
	if !ok {
		return fmt.Errorf("service %q does not implement the taxonomy resolver contract", ServiceName)
	}

	document, _ := ec.Get("taxonomy").(map[string]any)
	if len(document) == 0 {
		logger.Debug("Document carries no taxonomy terms")

		return nil
	}

	unresolved := map[string]any{}

	for _, name := range taxonomyNames(config, document) {
		terms := decodeTerms(document[name])
		if len(terms) == 0 {
			continue
		}

		resolutions := resolver.ResolveAll(ctx, name, terms, ec.SourceLanguage(), ec.TargetLanguage())

		replacement := make([]any, 0, len(resolutions))
		report := []any{}

		for _, resolution := range resolutions {
			if resolution.Matched() {
				replacement = append(replacement, termDocument(*resolution.Resolved))

				continue
			}

			// Non-matched terms stay in place so no association is lost.
			replacement = append(replacement, termDocument(resolution.Original))

			if resolution.Status != taxonomy.StatusPassthrough {
				report = append(report, map[string]any{
					"id":     resolution.Original.ID,
					"slug":   resolution.Original.Slug,
					"status": string(resolution.Status),
					"reason": resolution.Message,
				})
			}
		}

		ec.Set("taxonomy."+name, replacement)

		if len(report) > 0 {
			unresolved[name] = report
		}
	}

	if len(unresolved) > 0 {
		logger.Info("Some terms could not be resolved", "taxonomies", len(unresolved))
		ec.Set(ReportKey, unresolved)
	}

	return nil
}

// taxonomyNames returns the taxonomies to process in deterministic
// order: the configured list as given, or the document's keys sorted.
func taxonomyNames(config map[string]any, document map[string]any) []string {
	if raw, ok := config["taxonomies"].([]any); ok {
		names := make([]string, 0, len(raw))

		for _, entry := range raw {
			if name, ok := entry.(string); ok {
				names = append(names, name)
			}
		}

		return names
	}

	if names, ok := config["taxonomies"].([]string); ok {
		return names
	}

	names := make([]string, 0, len(document))
	for name := range document {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func decodeTerms(value any) []models.Term {
	list, _ := value.([]any)

	terms := make([]models.Term, 0, len(list))

	for _, entry := range list {
		doc, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		term := models.Term{}
		term.ID, _ = doc["id"].(string)
		term.Slug, _ = doc["slug"].(string)
		term.Name, _ = doc["name"].(string)

		terms = append(terms, term)
	}

	return terms
}

func termDocument(term models.Term) map[string]any {
	return map[string]any{
		"id":   term.ID,
		"slug": term.Slug,
		"name": term.Name,
	}
}
