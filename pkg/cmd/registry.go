package cmd

import (
	"log/slog"

	"github.com/linguaflow/linguaflow/pkg/registry"
	"github.com/linguaflow/linguaflow/pkg/steps/copyfield"
	"github.com/linguaflow/linguaflow/pkg/steps/publish"
	"github.com/linguaflow/linguaflow/pkg/steps/sanitize"
	"github.com/linguaflow/linguaflow/pkg/steps/setfield"
	"github.com/linguaflow/linguaflow/pkg/steps/taxonomies"
	"github.com/linguaflow/linguaflow/pkg/steps/translate"
	"github.com/linguaflow/linguaflow/pkg/taxonomy"
	"github.com/linguaflow/linguaflow/pkg/translator"
)

// Services are the external collaborators injected into step execution
// contexts. Nil entries leave the matching service unregistered, so the
// steps depending on it skip instead of failing.
type Services struct {
	Translator     translator.Translator
	TermTranslator taxonomy.TermTranslator
}

// NewRegistry builds a registry with the native step set, the sanitize
// legacy step behind the adapter, and the services derived from the
// available collaborators.
func NewRegistry(logger *slog.Logger, services Services) *registry.Registry {
	reg := registry.NewRegistry(logger)

	reg.RegisterStep(translate.NewStep())
	reg.RegisterStep(taxonomies.NewStep())
	reg.RegisterStep(setfield.NewStep())
	reg.RegisterStep(copyfield.NewStep())
	reg.RegisterStep(publish.NewStep())
	reg.RegisterLegacyStep("sanitize", sanitize.NewStep(), sanitize.Meta())

	if services.Translator != nil {
		reg.RegisterService(translate.ServiceName, services.Translator)
	}

	reg.RegisterService(taxonomies.ServiceName, taxonomy.NewResolver(services.TermTranslator, logger))

	return reg
}
