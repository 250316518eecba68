// Package registry holds the process-wide catalog of workflow steps and
// shared services. Registration is expected to complete before concurrent
// execution begins; the registry is read-mostly afterwards.
package registry

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/linguaflow/linguaflow/pkg/execution"
	"github.com/linguaflow/linguaflow/pkg/models"
	"github.com/linguaflow/linguaflow/pkg/protocol"
)

type Registry struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	steps    map[string]protocol.Step
	legacy   map[string]bool
	services map[string]any
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{
		logger:   logger.With("module", "registry"),
		steps:    map[string]protocol.Step{},
		legacy:   map[string]bool{},
		services: map[string]any{},
	}
}

// RegisterStep registers a native step under its own identifier. A later
// registration with the same identifier replaces the earlier one.
func (r *Registry) RegisterStep(step protocol.Step) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.steps[step.ID()] = step
	delete(r.legacy, step.ID())
}

// RegisterLegacyStep wraps an old-shaped step behind the Step contract
// using externally supplied metadata, since the legacy shape cannot
// self-report it. Once registered it is indistinguishable from a native
// step.
func (r *Registry) RegisterLegacyStep(id string, legacy protocol.LegacyStep, meta LegacyStepMeta) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.steps[id] = newLegacyAdapter(id, legacy, meta)
	r.legacy[id] = true
}

// Step resolves a step identifier to its implementation.
func (r *Registry) Step(id string) (protocol.Step, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	step, ok := r.steps[id]

	return step, ok
}

// RegisterService registers a shared service handle, e.g. a taxonomy
// resolver or a translator client.
func (r *Registry) RegisterService(name string, service any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.services[name] = service
}

func (r *Registry) Service(name string) any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.services[name]
}

func (r *Registry) HasService(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.services[name]

	return ok
}

// InjectServices copies every registered service into the given context.
func (r *Registry) InjectServices(ec execution.Context) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for name, service := range r.services {
		ec.RegisterService(name, service)
	}
}

// Catalog returns the UI-facing metadata listing of all registered
// steps, ordered by identifier.
func (r *Registry) Catalog() []models.StepInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]models.StepInfo, 0, len(r.steps))
	for id, step := range r.steps {
		infos = append(infos, models.StepInfo{
			ID:                 id,
			Name:               step.Name(),
			Description:        step.Description(),
			ExternalCompatible: step.ExternalCompatible(),
			RequiredServices:   step.RequiredServices(),
			RequiredPaths:      step.RequiredPaths(),
			IsLegacy:           r.legacy[id],
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })

	return infos
}
