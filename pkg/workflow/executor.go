// Package workflow executes workflow definitions against an execution
// context and exposes the runner façade callers go through.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/linguaflow/linguaflow/pkg/execution"
	"github.com/linguaflow/linguaflow/pkg/models"
	"github.com/linguaflow/linguaflow/pkg/otelhelper"
	"github.com/linguaflow/linguaflow/pkg/protocol"
	"github.com/linguaflow/linguaflow/pkg/registry"
)

// Executor walks a workflow's step list against one context, enforcing
// eligibility, validation and error policy. It holds no per-run state;
// one instance may run many workflows sequentially.
type Executor struct {
	registry *registry.Registry
	logger   *slog.Logger
	tracer   trace.Tracer

	// ContinueOnError governs whether processing proceeds to the next
	// step after an error.
	ContinueOnError bool

	// SkipIncompatible governs whether ineligible steps are recorded as
	// skipped rather than as errors.
	SkipIncompatible bool
}

func NewExecutor(reg *registry.Registry, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{
		registry:         reg,
		logger:           logger.With("module", "workflow_executor"),
		tracer:           otel.Tracer("linguaflow/workflow"),
		ContinueOnError:  true,
		SkipIncompatible: true,
	}
}

// Execute runs every step of the workflow in order against the context.
// Step-level failures never escape; they are captured into the result's
// error list. Steps execute strictly in sequence, so mutations from step
// N are visible to step N+1.
func (e *Executor) Execute(ctx context.Context, ec execution.Context, wf *models.Workflow) *models.ExecutionResult {
	result := models.NewExecutionResult(generateExecutionID(), wf.ID)

	logger := e.logger.With(
		"workflow_id", wf.ID,
		"execution_id", result.ExecutionID,
		"target_language", ec.TargetLanguage(),
	)
	logger.Info("Starting workflow execution", "steps", len(wf.Steps))

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.execute",
		attribute.String(otelhelper.WorkflowIDKey, wf.ID),
		attribute.String(otelhelper.ExecutionIDKey, result.ExecutionID),
		attribute.String(otelhelper.PostIDKey, ec.PostID()),
		attribute.String(otelhelper.SourceLangKey, ec.SourceLanguage()),
		attribute.String(otelhelper.TargetLangKey, ec.TargetLanguage()),
	)
	defer span.End()

	for index, stepConfig := range wf.Steps {
		if !e.runStep(ctx, ec, index, stepConfig, result, logger) {
			logger.Warn("Stopping workflow execution after step error", "step_index", index)

			break
		}
	}

	stats := result.Stats()
	logger.Info("Completed workflow execution",
		"executed", stats.Executed,
		"skipped", stats.Skipped,
		"errors", stats.Errors,
	)

	return result
}

// runStep processes one step config and reports whether execution should
// proceed to the next step.
func (e *Executor) runStep(ctx context.Context, ec execution.Context, index int, stepConfig *models.WorkflowStep, result *models.ExecutionResult, logger *slog.Logger) bool {
	stepType := stepConfig.StepType()
	if stepType == "" {
		// A configuration defect, never a skip.
		result.RecordError(index, "", "step configuration is missing a type identifier", nil)

		return e.ContinueOnError
	}

	logger = logger.With("step_index", index, "step_type", stepType)

	step, ok := e.registry.Step(stepType)
	if !ok {
		result.RecordError(index, stepType, fmt.Sprintf("step type %q is not registered", stepType), nil)

		return e.ContinueOnError
	}

	eligibility := step.CanExecute(ec)
	if !eligibility.OK {
		if e.SkipIncompatible {
			logger.Info("Step skipped", "reason", eligibility.Reason)
			result.RecordSkipped(index, stepType, eligibility.Reason)

			return true
		}

		result.RecordError(index, stepType, eligibility.Reason, nil)

		return e.ContinueOnError
	}

	if messages := step.ValidateConfig(stepConfig.Config); len(messages) > 0 {
		result.RecordError(index, stepType, "invalid step config: "+strings.Join(messages, "; "), nil)

		return e.ContinueOnError
	}

	stepCtx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.step",
		attribute.String(otelhelper.StepIDKey, stepType),
		attribute.Int(otelhelper.StepIndexKey, index),
	)
	defer span.End()

	if err := e.executeStep(stepCtx, step, ec, stepConfig.Config, logger); err != nil {
		logger.Error("Step execution failed", "error", err)
		otelhelper.SetError(span, err)
		result.RecordError(index, stepType, "step execution failed", err)

		return e.ContinueOnError
	}

	logger.Debug("Step executed")
	result.RecordExecuted(index, stepType)

	return true
}

// executeStep invokes a step and converts panics into errors, so no step
// failure can escape the executor.
func (e *Executor) executeStep(ctx context.Context, step protocol.Step, ec execution.Context, config map[string]any, logger *slog.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("step panicked: %v", r)
		}
	}()

	return step.Execute(ctx, ec, config, logger)
}

// Validate walks the workflow's step list without executing anything,
// surfacing configuration defects and, when a context is supplied,
// virtual-incompatibility errors. Used for pre-flight checks.
func (e *Executor) Validate(wf *models.Workflow, ec execution.Context) []models.StepError {
	var errs []models.StepError

	for index, stepConfig := range wf.Steps {
		stepType := stepConfig.StepType()
		if stepType == "" {
			errs = append(errs, models.StepError{
				Index:   index,
				Message: "step configuration is missing a type identifier",
			})

			continue
		}

		step, ok := e.registry.Step(stepType)
		if !ok {
			errs = append(errs, models.StepError{
				Index:   index,
				StepID:  stepType,
				Message: fmt.Sprintf("step type %q is not registered", stepType),
			})

			continue
		}

		if messages := step.ValidateConfig(stepConfig.Config); len(messages) > 0 {
			errs = append(errs, models.StepError{
				Index:   index,
				StepID:  stepType,
				Message: "invalid step config: " + strings.Join(messages, "; "),
			})
		}

		if ec != nil && ec.IsVirtual() && !step.ExternalCompatible() {
			errs = append(errs, models.StepError{
				Index:   index,
				StepID:  stepType,
				Message: fmt.Sprintf("step %q cannot run on a virtual context", stepType),
			})
		}
	}

	return errs
}

func generateExecutionID() string {
	return "exec-" + uuid.New().String()[:8]
}
