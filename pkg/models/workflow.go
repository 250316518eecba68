// Package models defines the core domain models for content-translation
// workflows.
package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Workflow is an ordered list of step configurations. It is pure data,
// supplied by a workflow repository and interpreted by the executor.
type Workflow struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"        validate:"required,min=3"`
	Description string          `json:"description"`
	Language    string          `json:"language"` // Target language this workflow applies to, empty for any
	Enabled     bool            `json:"enabled"`
	Steps       []*WorkflowStep `json:"steps"       validate:"dive"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Validate checks the definition's structural constraints.
func (w *Workflow) Validate() error {
	return validate.Struct(w)
}

// WorkflowStep names a registered step type plus its step-specific
// parameters. Type identifies the step implementation; ID is accepted as a
// fallback identifier for definitions produced by older hosts.
type WorkflowStep struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	Name   string         `json:"name,omitempty"`
	Config map[string]any `json:"config,omitempty"`
}

// StepType returns the step identifier for this configuration, preferring
// the explicit type over the legacy id field. Empty when neither is set.
func (s *WorkflowStep) StepType() string {
	if s.Type != "" {
		return s.Type
	}

	return s.ID
}
