package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrWorkflowNotFound indicates a workflow was not found by the given identifier.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrPostNotFound indicates a post record was not found by the given identifier.
	ErrPostNotFound = errors.New("post not found")

	// ErrLanguageNotFound indicates no language is assigned to the given post.
	ErrLanguageNotFound = errors.New("post language not found")
)

// WorkflowError wraps workflow-related errors with additional context.
type WorkflowError struct {
	Op         string // Operation being performed (e.g., "GetByID", "Save", "Delete")
	WorkflowID string
	Err        error
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("%s operation failed for workflow %s: %v", e.Op, e.WorkflowID, e.Err)
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

func (e *WorkflowError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewWorkflowError creates a new workflow error with context.
func NewWorkflowError(op, workflowID string, err error) *WorkflowError {
	return &WorkflowError{Op: op, WorkflowID: workflowID, Err: err}
}

// PostError wraps post-related errors with additional context.
type PostError struct {
	Op     string
	PostID string
	Err    error
}

func (e *PostError) Error() string {
	return fmt.Sprintf("%s operation failed for post %s: %v", e.Op, e.PostID, e.Err)
}

func (e *PostError) Unwrap() error {
	return e.Err
}

func (e *PostError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewPostError creates a new post error with context.
func NewPostError(op, postID string, err error) *PostError {
	return &PostError{Op: op, PostID: postID, Err: err}
}

// IsWorkflowNotFound checks if an error indicates a workflow was not found.
func IsWorkflowNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound)
}

// IsPostNotFound checks if an error indicates a post was not found.
func IsPostNotFound(err error) bool {
	return errors.Is(err, ErrPostNotFound)
}
