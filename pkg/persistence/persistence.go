// Package persistence provides the storage abstraction behind the
// engine's external collaborators: the workflow definition source and
// the content record accessor.
package persistence

import (
	"context"

	"github.com/linguaflow/linguaflow/pkg/models"
)

// WorkflowRepository is the workflow definition source.
type WorkflowRepository interface {
	GetAll(ctx context.Context) ([]*models.Workflow, error)
	GetByID(ctx context.Context, id string) (*models.Workflow, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Workflow, error)

	// GetByLanguage returns enabled workflows applying to the target
	// language, including language-agnostic ones.
	GetByLanguage(ctx context.Context, language string) ([]*models.Workflow, error)

	Save(ctx context.Context, workflow *models.Workflow) error
	Delete(ctx context.Context, id string) error
}

// PostRepository is the content record accessor plus the
// language-relationship collaborator. It satisfies execution.PostStore
// and workflow.LanguageResolver.
type PostRepository interface {
	GetPost(ctx context.Context, id string) (*models.PostRecord, error)
	SavePost(ctx context.Context, post *models.PostRecord) error
	UpdatePostFields(ctx context.Context, id string, fields map[string]any) error
	UpdatePostMeta(ctx context.Context, id string, key string, value any) error

	PostLanguage(ctx context.Context, id string) (string, error)
	SourceLanguage(ctx context.Context, id string) (string, error)
	DefaultLanguage() string
}

type Persistence interface {
	WorkflowRepository() WorkflowRepository
	PostRepository() PostRepository
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
