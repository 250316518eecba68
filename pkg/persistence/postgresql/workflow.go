package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"github.com/linguaflow/linguaflow/pkg/models"
	"github.com/linguaflow/linguaflow/pkg/persistence"
)

// WorkflowRepository handles workflow-related database operations.
type WorkflowRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewWorkflowRepository(db *sql.DB, logger *slog.Logger) *WorkflowRepository {
	return &WorkflowRepository{db: db, logger: logger}
}

const workflowColumns = `
	id
  , name
  , description
  , language
  , enabled
  , steps
  , created_at
  , updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *WorkflowRepository) scanWorkflow(row rowScanner) (*models.Workflow, error) {
	var (
		workflow models.Workflow
		steps    []byte
	)

	err := row.Scan(
		&workflow.ID,
		&workflow.Name,
		&workflow.Description,
		&workflow.Language,
		&workflow.Enabled,
		&steps,
		&workflow.CreatedAt,
		&workflow.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(steps, &workflow.Steps); err != nil {
		return nil, fmt.Errorf("failed to decode steps of workflow %s: %w", workflow.ID, err)
	}

	return &workflow, nil
}

func (r *WorkflowRepository) queryWorkflows(ctx context.Context, query string, args ...any) ([]*models.Workflow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query workflows: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	workflows := make([]*models.Workflow, 0)

	for rows.Next() {
		workflow, err := r.scanWorkflow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow: %w", err)
		}

		workflows = append(workflows, workflow)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workflows: %w", err)
	}

	return workflows, nil
}

// GetAll returns all workflows, newest first.
func (r *WorkflowRepository) GetAll(ctx context.Context) ([]*models.Workflow, error) {
	return r.queryWorkflows(ctx, `
		SELECT `+workflowColumns+`
		FROM workflows
		ORDER BY created_at DESC
	`)
}

// GetByID returns one workflow. Returns ErrWorkflowNotFound (wrapped)
// when no row exists.
func (r *WorkflowRepository) GetByID(ctx context.Context, id string) (*models.Workflow, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+workflowColumns+`
		FROM workflows
		WHERE id = $1
	`, id)

	workflow, err := r.scanWorkflow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewWorkflowError("get", id, persistence.ErrWorkflowNotFound)
		}

		return nil, fmt.Errorf("failed to scan workflow: %w", err)
	}

	return workflow, nil
}

// GetByIDs returns the named workflows. Missing IDs surface as a
// not-found error for the first absent ID.
func (r *WorkflowRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Workflow, error) {
	loaded, err := r.queryWorkflows(ctx, `
		SELECT `+workflowColumns+`
		FROM workflows
		WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Workflow, len(loaded))
	for _, workflow := range loaded {
		byID[workflow.ID] = workflow
	}

	// Preserve the requested order.
	workflows := make([]*models.Workflow, 0, len(ids))

	for _, id := range ids {
		workflow, ok := byID[id]
		if !ok {
			return nil, persistence.NewWorkflowError("get", id, persistence.ErrWorkflowNotFound)
		}

		workflows = append(workflows, workflow)
	}

	return workflows, nil
}

// GetByLanguage returns enabled workflows whose target language matches,
// including language-agnostic ones.
func (r *WorkflowRepository) GetByLanguage(ctx context.Context, language string) ([]*models.Workflow, error) {
	return r.queryWorkflows(ctx, `
		SELECT `+workflowColumns+`
		FROM workflows
		WHERE enabled AND (language = '' OR language = $1)
		ORDER BY id
	`, language)
}

// Save validates and upserts a workflow.
func (r *WorkflowRepository) Save(ctx context.Context, workflow *models.Workflow) error {
	if err := workflow.Validate(); err != nil {
		return persistence.NewWorkflowError("save", workflow.ID, err)
	}

	now := time.Now().UTC()
	if workflow.CreatedAt.IsZero() {
		workflow.CreatedAt = now
	}

	workflow.UpdatedAt = now

	steps, err := json.Marshal(workflow.Steps)
	if err != nil {
		return fmt.Errorf("failed to marshal steps of workflow %s: %w", workflow.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO workflows (id, name, description, language, enabled, steps, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name
		  , description = EXCLUDED.description
		  , language = EXCLUDED.language
		  , enabled = EXCLUDED.enabled
		  , steps = EXCLUDED.steps
		  , updated_at = EXCLUDED.updated_at
	`, workflow.ID, workflow.Name, workflow.Description, workflow.Language,
		workflow.Enabled, steps, workflow.CreatedAt, workflow.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save workflow %s: %w", workflow.ID, err)
	}

	return nil
}

// Delete removes a workflow. Deleting a missing workflow is a no-op.
func (r *WorkflowRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM workflows WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete workflow %s: %w", id, err)
	}

	return nil
}
