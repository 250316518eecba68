// Package taxonomy resolves categorical and tag terms from a source
// language to their target-language equivalents.
package taxonomy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linguaflow/linguaflow/pkg/models"
)

// Status classifies the outcome of one term lookup. The states are
// mutually exclusive.
type Status string

const (
	// StatusMatched means the source term was found and a target-language
	// equivalent exists.
	StatusMatched Status = "matched"

	// StatusUnresolved means the source term was found but has no
	// translation for the target language.
	StatusUnresolved Status = "unresolved"

	// StatusUnknown means the source term was not found at all.
	StatusUnknown Status = "unknown"

	// StatusPassthrough means resolution was intentionally skipped: the
	// translator is unavailable, source and target language are the
	// same, or the taxonomy is not translatable.
	StatusPassthrough Status = "passthrough"
)

// Resolution describes the outcome of one term lookup. Resolved is the
// term to use going forward: the target-language equivalent when
// matched, a mirror of Original when passthrough, nil otherwise.
type Resolution struct {
	Original models.Term  `json:"original"`
	Resolved *models.Term `json:"resolved,omitempty"`
	Status   Status       `json:"status"`
	Message  string       `json:"message,omitempty"`
}

// Matched reports whether a target-language equivalent was found.
func (r Resolution) Matched() bool {
	return r.Status == StatusMatched
}

// TermTranslator is the external collaborator the resolver depends on.
// Its absence degrades every resolution to passthrough.
type TermTranslator interface {
	// TermEquivalents lists a term's equivalents across languages, keyed
	// by language code.
	TermEquivalents(ctx context.Context, taxonomy, termID string) (map[string]models.Term, error)

	// IsTranslatable reports whether terms of the taxonomy carry
	// translations at all.
	IsTranslatable(taxonomy string) bool
}

// Resolver is a read-only lookup service translating terms between
// languages. It is safe for concurrent use.
type Resolver struct {
	translator TermTranslator
	logger     *slog.Logger
}

// NewResolver builds a resolver. A nil translator is allowed and makes
// every resolution a passthrough.
func NewResolver(translator TermTranslator, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}

	return &Resolver{
		translator: translator,
		logger:     logger.With("module", "taxonomy_resolver"),
	}
}

// Resolve looks up the target-language equivalent of one term.
func (r *Resolver) Resolve(ctx context.Context, taxonomy string, term models.Term, sourceLanguage, targetLanguage string) Resolution {
	if r.translator == nil {
		return passthrough(term, "no term translator available")
	}

	if sourceLanguage == targetLanguage {
		return passthrough(term, "source and target language are the same")
	}

	if !r.translator.IsTranslatable(taxonomy) {
		return passthrough(term, fmt.Sprintf("taxonomy %q is not translatable", taxonomy))
	}

	equivalents, err := r.translator.TermEquivalents(ctx, taxonomy, term.ID)
	if err != nil {
		r.logger.Warn("Term lookup failed", "taxonomy", taxonomy, "term", term.ID, "error", err)

		return Resolution{
			Original: term,
			Status:   StatusUnknown,
			Message:  fmt.Sprintf("term lookup failed: %v", err),
		}
	}

	if len(equivalents) == 0 {
		return Resolution{
			Original: term,
			Status:   StatusUnknown,
			Message:  fmt.Sprintf("term %q not found in taxonomy %q", term.Slug, taxonomy),
		}
	}

	resolved, ok := equivalents[targetLanguage]
	if !ok {
		return Resolution{
			Original: term,
			Status:   StatusUnresolved,
			Message:  fmt.Sprintf("term %q has no translation for %q", term.Slug, targetLanguage),
		}
	}

	return Resolution{
		Original: term,
		Resolved: &resolved,
		Status:   StatusMatched,
	}
}

func passthrough(term models.Term, message string) Resolution {
	return Resolution{
		Original: term,
		Resolved: &term,
		Status:   StatusPassthrough,
		Message:  message,
	}
}

// ResolveAll resolves a list of terms, preserving order.
func (r *Resolver) ResolveAll(ctx context.Context, taxonomy string, terms []models.Term, sourceLanguage, targetLanguage string) []Resolution {
	resolutions := make([]Resolution, 0, len(terms))
	for _, term := range terms {
		resolutions = append(resolutions, r.Resolve(ctx, taxonomy, term, sourceLanguage, targetLanguage))
	}

	return resolutions
}
