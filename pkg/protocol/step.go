// Package protocol defines the contracts for pluggable workflow steps.
package protocol

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linguaflow/linguaflow/pkg/execution"
)

// Eligibility is the outcome of a step's pre-execution check.
type Eligibility struct {
	OK     bool   `json:"can_execute"`
	Reason string `json:"reason,omitempty"`
}

// Step is one named, independently executable transformation unit.
// Implementations must be stateless with respect to a single run: all
// per-run state lives in the execution context and the step config.
type Step interface {
	ID() string
	Name() string
	Description() string

	// RequiredServices lists service names that must be registered on the
	// context for this step to run.
	RequiredServices() []string

	// RequiredPaths lists dot-paths that must resolve in the context data
	// for this step to run.
	RequiredPaths() []string

	// ExternalCompatible reports whether this step may run against a
	// virtual context. Steps needing persisted-record side effects return
	// false.
	ExternalCompatible() bool

	// CanExecute checks this step's prerequisites against a context.
	CanExecute(ec execution.Context) Eligibility

	// Schema returns the JSON schema describing this step's config.
	Schema() map[string]any

	// ValidateConfig checks step-specific parameters and returns one
	// message per problem found.
	ValidateConfig(config map[string]any) []string

	// Execute performs the transformation by reading and writing the
	// execution context. Unrecoverable failures are returned as errors
	// and recorded by the executor, never propagated to the caller.
	Execute(ctx context.Context, ec execution.Context, config map[string]any, logger *slog.Logger) error
}

// LegacyStep is the old, differently-shaped step contract some hosts
// still ship. It transforms a document in one call and cannot self-report
// identity, dependencies or compatibility; that metadata is supplied at
// registration time.
type LegacyStep interface {
	Run(data map[string]any, params map[string]any) (map[string]any, error)
}

// Base carries step metadata and implements the default eligibility
// check. Step implementations embed it and provide Schema, ValidateConfig
// and Execute.
type Base struct {
	StepID          string
	StepName        string
	StepDescription string
	Services        []string
	Paths           []string
	External        bool
}

func (b *Base) ID() string          { return b.StepID }
func (b *Base) Name() string        { return b.StepName }
func (b *Base) Description() string { return b.StepDescription }

func (b *Base) RequiredServices() []string {
	if b.Services == nil {
		return []string{}
	}

	return b.Services
}

func (b *Base) RequiredPaths() []string {
	if b.Paths == nil {
		return []string{}
	}

	return b.Paths
}

func (b *Base) ExternalCompatible() bool { return b.External }

// CanExecute returns false with a reason when the context is virtual and
// the step is not external-compatible, when a required service is absent,
// or when a required data path does not resolve.
func (b *Base) CanExecute(ec execution.Context) Eligibility {
	if ec.IsVirtual() && !b.External {
		return Eligibility{
			Reason: fmt.Sprintf("step %q requires a persisted record and cannot run on a virtual context", b.StepID),
		}
	}

	for _, service := range b.Services {
		if !ec.HasService(service) {
			return Eligibility{
				Reason: fmt.Sprintf("required service %q is not available", service),
			}
		}
	}

	for _, path := range b.Paths {
		if !ec.Has(path) {
			return Eligibility{
				Reason: fmt.Sprintf("required data path %q is not present", path),
			}
		}
	}

	return Eligibility{OK: true}
}
