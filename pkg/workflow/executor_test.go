package workflow

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguaflow/linguaflow/pkg/execution"
	"github.com/linguaflow/linguaflow/pkg/models"
	"github.com/linguaflow/linguaflow/pkg/protocol"
	"github.com/linguaflow/linguaflow/pkg/registry"
)

// testStep is a configurable step implementation for executor tests.
type testStep struct {
	protocol.Base

	schema  map[string]any
	execute func(ec execution.Context, config map[string]any) error
}

func (s *testStep) Schema() map[string]any {
	return s.schema
}

func (s *testStep) ValidateConfig(config map[string]any) []string {
	return protocol.ValidateWithSchema(s.schema, config)
}

func (s *testStep) Execute(_ context.Context, ec execution.Context, config map[string]any, _ *slog.Logger) error {
	if s.execute == nil {
		return nil
	}

	return s.execute(ec, config)
}

func newTestExecutor(steps ...protocol.Step) (*Executor, *registry.Registry) {
	reg := registry.NewRegistry(nil)
	for _, step := range steps {
		reg.RegisterStep(step)
	}

	return NewExecutor(reg, nil), reg
}

func stepConfigs(types ...string) []*models.WorkflowStep {
	configs := make([]*models.WorkflowStep, 0, len(types))
	for _, stepType := range types {
		configs = append(configs, &models.WorkflowStep{Type: stepType})
	}

	return configs
}

func TestExecuteOrdering(t *testing.T) {
	writer := &testStep{
		Base: protocol.Base{StepID: "writer", External: true},
		execute: func(ec execution.Context, _ map[string]any) error {
			ec.Set("post.excerpt", "written by A")

			return nil
		},
	}
	reader := &testStep{
		Base: protocol.Base{StepID: "reader", External: true, Paths: []string{"post.excerpt"}},
		execute: func(ec execution.Context, _ map[string]any) error {
			ec.Set("post.title", ec.Get("post.excerpt"))

			return nil
		},
	}

	executor, _ := newTestExecutor(writer, reader)
	ec := execution.NewVirtualContext(map[string]any{"post": map[string]any{}}, "en", "de")

	result := executor.Execute(context.Background(), ec, &models.Workflow{
		ID:    "wf-1",
		Steps: stepConfigs("writer", "reader"),
	})

	require.True(t, result.Success())
	assert.Equal(t, models.ExecutionStats{Executed: 2}, result.Stats())
	assert.Equal(t, "written by A", ec.Get("post.title"))
}

func TestExecuteSkipVsErrorDistinction(t *testing.T) {
	needy := &testStep{
		Base: protocol.Base{StepID: "needy", External: true, Services: []string{"X"}},
	}

	executor, _ := newTestExecutor(needy)
	wf := &models.Workflow{ID: "wf-1", Steps: stepConfigs("needy")}

	// Default policy records exactly one skip and zero errors.
	ec := execution.NewVirtualContext(nil, "en", "de")
	result := executor.Execute(context.Background(), ec, wf)

	require.Len(t, result.Skipped, 1)
	assert.Empty(t, result.Errors)
	assert.Contains(t, result.Skipped[0].Reason, "X")
	assert.True(t, result.Success())

	// With SkipIncompatible off the same run records exactly one error.
	executor.SkipIncompatible = false
	result = executor.Execute(context.Background(), execution.NewVirtualContext(nil, "en", "de"), wf)

	assert.Empty(t, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.False(t, result.Success())
}

func TestExecuteContinueOnErrorPolicy(t *testing.T) {
	record := func(id string) *testStep {
		return &testStep{
			Base: protocol.Base{StepID: id, External: true},
			execute: func(ec execution.Context, _ map[string]any) error {
				executed, _ := ec.Get("executed").([]any)
				ec.Set("executed", append(executed, id))

				return nil
			},
		}
	}
	failing := &testStep{
		Base: protocol.Base{StepID: "failing", External: true},
		execute: func(execution.Context, map[string]any) error {
			return errors.New("upstream AI call failed")
		},
	}

	wf := &models.Workflow{ID: "wf-1", Steps: stepConfigs("first", "failing", "third")}

	executor, _ := newTestExecutor(record("first"), failing, record("third"))
	ec := execution.NewVirtualContext(nil, "en", "de")
	result := executor.Execute(context.Background(), ec, wf)

	assert.Equal(t, models.ExecutionStats{Executed: 2, Errors: 1}, result.Stats())
	assert.Equal(t, []any{"first", "third"}, ec.Get("executed"))
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Index)
	assert.ErrorContains(t, result.Errors[0].Cause, "upstream AI call failed")

	executor.ContinueOnError = false
	ec = execution.NewVirtualContext(nil, "en", "de")
	result = executor.Execute(context.Background(), ec, wf)

	assert.Equal(t, models.ExecutionStats{Executed: 1, Errors: 1}, result.Stats())
	assert.Equal(t, []any{"first"}, ec.Get("executed"))
}

func TestExecuteConfigurationDefectsAreErrors(t *testing.T) {
	executor, _ := newTestExecutor()

	// Missing identifier and unregistered type are always errors, never
	// skips, regardless of the skip policy.
	wf := &models.Workflow{ID: "wf-1", Steps: []*models.WorkflowStep{
		{},
		{Type: "unregistered"},
	}}

	result := executor.Execute(context.Background(), execution.NewVirtualContext(nil, "en", "de"), wf)

	assert.Empty(t, result.Skipped)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0].Message, "missing a type identifier")
	assert.Contains(t, result.Errors[1].Message, "not registered")
}

func TestExecuteConfigValidationFailure(t *testing.T) {
	strict := &testStep{
		Base: protocol.Base{StepID: "strict", External: true},
		schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{"type": "string"},
			},
			"required": []string{"path"},
		},
	}

	executor, _ := newTestExecutor(strict)

	wf := &models.Workflow{ID: "wf-1", Steps: []*models.WorkflowStep{
		{Type: "strict", Config: map[string]any{}},
	}}

	result := executor.Execute(context.Background(), execution.NewVirtualContext(nil, "en", "de"), wf)

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "invalid step config")
}

func TestExecuteCapturesPanics(t *testing.T) {
	panicking := &testStep{
		Base: protocol.Base{StepID: "panicking", External: true},
		execute: func(execution.Context, map[string]any) error {
			panic("boom")
		},
	}

	executor, _ := newTestExecutor(panicking)

	result := executor.Execute(context.Background(), execution.NewVirtualContext(nil, "en", "de"), &models.Workflow{
		ID:    "wf-1",
		Steps: stepConfigs("panicking"),
	})

	require.Len(t, result.Errors, 1)
	assert.ErrorContains(t, result.Errors[0].Cause, "boom")
}

func TestExecuteLegacyFallbackIDField(t *testing.T) {
	step := &testStep{Base: protocol.Base{StepID: "older", External: true}}
	executor, _ := newTestExecutor(step)

	// Definitions from older hosts name the step in "id" instead of "type".
	wf := &models.Workflow{ID: "wf-1", Steps: []*models.WorkflowStep{{ID: "older"}}}

	result := executor.Execute(context.Background(), execution.NewVirtualContext(nil, "en", "de"), wf)

	assert.True(t, result.Success())
	assert.Equal(t, 1, result.Stats().Executed)
}

func TestValidate(t *testing.T) {
	persistOnly := &testStep{Base: protocol.Base{StepID: "persist_only", External: false}}
	strict := &testStep{
		Base: protocol.Base{StepID: "strict", External: true},
		schema: map[string]any{
			"type":     "object",
			"required": []string{"path"},
		},
	}

	executor, _ := newTestExecutor(persistOnly, strict)

	wf := &models.Workflow{ID: "wf-1", Steps: []*models.WorkflowStep{
		{},
		{Type: "unregistered"},
		{Type: "strict", Config: map[string]any{}},
		{Type: "persist_only"},
	}}

	// Without a context, only configuration problems surface.
	errs := executor.Validate(wf, nil)
	require.Len(t, errs, 3)

	// A virtual context adds the incompatibility error.
	errs = executor.Validate(wf, execution.NewVirtualContext(nil, "en", "de"))
	require.Len(t, errs, 4)

	var messages []string
	for _, err := range errs {
		messages = append(messages, err.Message)
	}

	assert.Contains(t, strings.Join(messages, "\n"), "virtual context")
}
