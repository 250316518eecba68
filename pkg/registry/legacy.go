package registry

import (
	"context"
	"log/slog"

	"github.com/linguaflow/linguaflow/pkg/dotpath"
	"github.com/linguaflow/linguaflow/pkg/execution"
	"github.com/linguaflow/linguaflow/pkg/protocol"
)

// LegacyStepMeta supplies the metadata a legacy-shaped step cannot
// self-report.
type LegacyStepMeta struct {
	Name               string
	Description        string
	RequiredServices   []string
	RequiredPaths      []string
	ExternalCompatible bool
	Schema             map[string]any
}

// legacyAdapter wraps a LegacyStep behind the Step contract. The legacy
// shape transforms a whole document in one call, so the adapter exports
// the context, runs the step and writes the structural differences back
// path by path.
type legacyAdapter struct {
	protocol.Base

	legacy protocol.LegacyStep
	schema map[string]any
}

func newLegacyAdapter(id string, legacy protocol.LegacyStep, meta LegacyStepMeta) *legacyAdapter {
	return &legacyAdapter{
		Base: protocol.Base{
			StepID:          id,
			StepName:        meta.Name,
			StepDescription: meta.Description,
			Services:        meta.RequiredServices,
			Paths:           meta.RequiredPaths,
			External:        meta.ExternalCompatible,
		},
		legacy: legacy,
		schema: meta.Schema,
	}
}

func (a *legacyAdapter) Schema() map[string]any {
	return a.schema
}

func (a *legacyAdapter) ValidateConfig(config map[string]any) []string {
	return protocol.ValidateWithSchema(a.schema, config)
}

func (a *legacyAdapter) Execute(_ context.Context, ec execution.Context, config map[string]any, logger *slog.Logger) error {
	before := ec.Export()

	after, err := a.legacy.Run(dotpath.Clone(before), config)
	if err != nil {
		return err
	}

	applyDiff(ec, "", dotpath.Diff(after, before))

	return nil
}

// applyDiff writes the leaves of a structural diff back into the context.
func applyDiff(ec execution.Context, prefix string, diff map[string]any) {
	for key, value := range diff {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		if nested, isMap := value.(map[string]any); isMap {
			if _, existingIsMap := ec.Get(path).(map[string]any); existingIsMap {
				applyDiff(ec, path, nested)

				continue
			}
		}

		ec.Set(path, value)
	}
}
