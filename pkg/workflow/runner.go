package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linguaflow/linguaflow/pkg/dotpath"
	"github.com/linguaflow/linguaflow/pkg/execution"
	"github.com/linguaflow/linguaflow/pkg/models"
	"github.com/linguaflow/linguaflow/pkg/persistence"
	"github.com/linguaflow/linguaflow/pkg/registry"
)

// LanguageResolver reports language assignments for persisted posts.
// SourceLanguage inspects the post's translation-group relationship and
// returns the first different language found in iteration order.
type LanguageResolver interface {
	PostLanguage(ctx context.Context, id string) (string, error)
	SourceLanguage(ctx context.Context, id string) (string, error)
	DefaultLanguage() string
}

// Runner is the façade callers go through: it constructs the right
// context for a payload or a record identifier, injects registered
// services, executes and commits.
type Runner struct {
	registry  *registry.Registry
	executor  *Executor
	store     execution.PostStore
	languages LanguageResolver
	logger    *slog.Logger
}

// NewRunner builds a runner. Store and languages may be nil for
// virtual-only use; RunOnPost then fails with a structured result.
func NewRunner(reg *registry.Registry, executor *Executor, store execution.PostStore, languages LanguageResolver, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		registry:  reg,
		executor:  executor,
		store:     store,
		languages: languages,
		logger:    logger.With("module", "workflow_runner"),
	}
}

// VirtualRunResult is the outcome of one stateless run against a bare
// payload.
type VirtualRunResult struct {
	Success bool `json:"success"`

	// Payload is the full post-execution document.
	Payload map[string]any `json:"payload"`

	// Changes is the structural diff against the original payload.
	Changes map[string]any `json:"changes"`

	Execution *models.ExecutionResult `json:"execution"`
}

// RunVirtual builds a virtual context from the payload, injects
// services and executes. The language pair is read from the payload's
// top-level "source_language" and "target_language" keys.
func (r *Runner) RunVirtual(ctx context.Context, payload map[string]any, wf *models.Workflow) (*VirtualRunResult, error) {
	if payload == nil {
		payload = map[string]any{}
	}

	source, _ := payload["source_language"].(string)
	target, _ := payload["target_language"].(string)

	ec := execution.NewVirtualContext(payload, source, target)
	r.registry.InjectServices(ec)

	result := r.executor.Execute(ctx, ec, wf)

	return &VirtualRunResult{
		Success:   result.Success(),
		Payload:   ec.Export(),
		Changes:   ec.Changes(dotpath.Clone(payload)),
		Execution: result,
	}, nil
}

// RunOptions configures one database-backed run.
type RunOptions struct {
	// SourceLanguage and TargetLanguage override language auto-detection
	// when set.
	SourceLanguage string
	TargetLanguage string

	// SkipCommit leaves buffered changes pending instead of committing
	// them after a successful execution.
	SkipCommit bool
}

// PostRunResult is the outcome of one run against a persisted post.
type PostRunResult struct {
	Success   bool   `json:"success"`
	Committed bool   `json:"committed"`
	PostID    string `json:"post_id"`

	// Error carries the structural failure message for runs that never
	// started, e.g. a missing post.
	Error string `json:"error,omitempty"`

	PendingRecord map[string]any          `json:"pending_record,omitempty"`
	PendingMeta   map[string]any          `json:"pending_meta,omitempty"`
	Execution     *models.ExecutionResult `json:"execution,omitempty"`
}

// RunOnPost builds a database-backed context for the record, injects
// services, executes and, unless SkipCommit is set, commits pending
// changes after a successful execution.
func (r *Runner) RunOnPost(ctx context.Context, postID string, wf *models.Workflow, opts RunOptions) (*PostRunResult, error) {
	if r.store == nil {
		return nil, fmt.Errorf("no post store configured")
	}

	source, target, err := r.resolveLanguages(ctx, postID, opts)
	if err != nil {
		r.logger.Warn("Language detection failed", "post_id", postID, "error", err)

		return &PostRunResult{
			PostID: postID,
			Error:  fmt.Sprintf("language detection failed: %v", err),
		}, nil
	}

	ec, err := execution.NewPostContext(ctx, r.store, postID, source, target)
	if err != nil {
		if persistence.IsPostNotFound(err) {
			return &PostRunResult{
				PostID: postID,
				Error:  fmt.Sprintf("post %s not found", postID),
			}, nil
		}

		return nil, fmt.Errorf("failed to build post context: %w", err)
	}

	r.registry.InjectServices(ec)

	result := r.executor.Execute(ctx, ec, wf)

	committed := false
	if result.Success() && !opts.SkipCommit && ec.HasChanges() {
		committed = ec.Commit(ctx)
	}

	pendingRecord, pendingMeta := ec.PendingChanges()

	return &PostRunResult{
		Success:       result.Success(),
		Committed:     committed,
		PostID:        postID,
		PendingRecord: pendingRecord,
		PendingMeta:   pendingMeta,
		Execution:     result,
	}, nil
}

func (r *Runner) resolveLanguages(ctx context.Context, postID string, opts RunOptions) (source, target string, err error) {
	source = opts.SourceLanguage
	target = opts.TargetLanguage

	if target == "" {
		if r.languages == nil {
			return "", "", fmt.Errorf("no target language given and no language resolver configured")
		}

		target, err = r.languages.PostLanguage(ctx, postID)
		if err != nil {
			return "", "", err
		}
	}

	if source == "" && r.languages != nil {
		source, err = r.languages.SourceLanguage(ctx, postID)
		if err != nil || source == "" {
			source = r.languages.DefaultLanguage()
		}
	}

	return source, target, nil
}

// Run executes a workflow against a context the caller already
// constructed, after service injection.
func (r *Runner) Run(ctx context.Context, ec execution.Context, wf *models.Workflow) *models.ExecutionResult {
	r.registry.InjectServices(ec)

	return r.executor.Execute(ctx, ec, wf)
}

// IncompatibleStep identifies one step that cannot run on a virtual
// context.
type IncompatibleStep struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Name  string `json:"name"`
}

// CompatibilityReport is the outcome of a virtual-compatibility check.
type CompatibilityReport struct {
	Compatible        bool               `json:"compatible"`
	IncompatibleSteps []IncompatibleStep `json:"incompatible_steps"`
}

// CheckVirtualCompatibility consults each step's compatibility flag
// without executing, so orchestration layers can decide whether a
// workflow is eligible for stateless pre-persistence execution at all.
// Steps that cannot be resolved count as incompatible.
func (r *Runner) CheckVirtualCompatibility(wf *models.Workflow) CompatibilityReport {
	report := CompatibilityReport{Compatible: true, IncompatibleSteps: []IncompatibleStep{}}

	for index, stepConfig := range wf.Steps {
		stepType := stepConfig.StepType()

		step, ok := r.registry.Step(stepType)
		if ok && step.ExternalCompatible() {
			continue
		}

		name := ""
		if ok {
			name = step.Name()
		}

		report.Compatible = false
		report.IncompatibleSteps = append(report.IncompatibleSteps, IncompatibleStep{
			Index: index,
			ID:    stepType,
			Name:  name,
		})
	}

	return report
}
