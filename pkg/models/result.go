package models

import "fmt"

// StepExecution records one successfully executed step.
type StepExecution struct {
	Index  int    `json:"index"`
	StepID string `json:"step_id"`
}

// StepSkip records one step that was not executed because its
// prerequisites were not met.
type StepSkip struct {
	Index  int    `json:"index"`
	StepID string `json:"step_id"`
	Reason string `json:"reason"`
}

// StepError records one step that failed, either through a configuration
// defect, a validation failure or an execution failure. Cause carries the
// underlying error when one exists.
type StepError struct {
	Index   int    `json:"index"`
	StepID  string `json:"step_id"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e StepError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("step %d (%s): %s: %v", e.Index, e.StepID, e.Message, e.Cause)
	}

	return fmt.Sprintf("step %d (%s): %s", e.Index, e.StepID, e.Message)
}

func (e StepError) Unwrap() error {
	return e.Cause
}

// ExecutionStats summarizes one workflow run.
type ExecutionStats struct {
	Executed int `json:"executed"`
	Skipped  int `json:"skipped"`
	Errors   int `json:"errors"`
}

// ExecutionResult accumulates the three disjoint outcome lists of one
// workflow run. Skips do not count against success.
type ExecutionResult struct {
	ExecutionID string          `json:"execution_id"`
	WorkflowID  string          `json:"workflow_id,omitempty"`
	Executed    []StepExecution `json:"executed"`
	Skipped     []StepSkip      `json:"skipped"`
	Errors      []StepError     `json:"errors"`
}

func NewExecutionResult(executionID, workflowID string) *ExecutionResult {
	return &ExecutionResult{
		ExecutionID: executionID,
		WorkflowID:  workflowID,
		Executed:    []StepExecution{},
		Skipped:     []StepSkip{},
		Errors:      []StepError{},
	}
}

func (r *ExecutionResult) RecordExecuted(index int, stepID string) {
	r.Executed = append(r.Executed, StepExecution{Index: index, StepID: stepID})
}

func (r *ExecutionResult) RecordSkipped(index int, stepID, reason string) {
	r.Skipped = append(r.Skipped, StepSkip{Index: index, StepID: stepID, Reason: reason})
}

func (r *ExecutionResult) RecordError(index int, stepID, message string, cause error) {
	r.Errors = append(r.Errors, StepError{Index: index, StepID: stepID, Message: message, Cause: cause})
}

// Success reports whether the run completed without errors.
func (r *ExecutionResult) Success() bool {
	return len(r.Errors) == 0
}

func (r *ExecutionResult) Stats() ExecutionStats {
	return ExecutionStats{
		Executed: len(r.Executed),
		Skipped:  len(r.Skipped),
		Errors:   len(r.Errors),
	}
}
