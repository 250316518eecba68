package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"time"

	"github.com/linguaflow/linguaflow/pkg/models"
	"github.com/linguaflow/linguaflow/pkg/persistence"
)

// WorkflowRepository stores workflow definitions as
// <root>/workflows/<id>.json documents.
type WorkflowRepository struct {
	root string
}

func NewWorkflowRepository(root string) *WorkflowRepository {
	return &WorkflowRepository{root: root}
}

func (wr *WorkflowRepository) dir() string {
	return path.Join(wr.root, "workflows")
}

// GetAll returns every stored workflow, sorted by ID.
func (wr *WorkflowRepository) GetAll(ctx context.Context) ([]*models.Workflow, error) {
	entries, err := fs.Glob(os.DirFS(wr.dir()), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow files: %w", err)
	}

	sort.Strings(entries)

	workflows := make([]*models.Workflow, 0, len(entries))

	for _, entry := range entries {
		workflow, err := wr.GetByID(ctx, entry[:len(entry)-len(".json")])
		if err != nil {
			return nil, err
		}

		workflows = append(workflows, workflow)
	}

	return workflows, nil
}

// GetByID loads one workflow. Returns ErrWorkflowNotFound (wrapped) when
// no document exists for the ID.
func (wr *WorkflowRepository) GetByID(_ context.Context, id string) (*models.Workflow, error) {
	data, err := os.ReadFile(path.Join(wr.dir(), id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewWorkflowError("get", id, persistence.ErrWorkflowNotFound)
		}

		return nil, fmt.Errorf("failed to read workflow %s: %w", id, err)
	}

	var workflow models.Workflow
	if err := json.Unmarshal(data, &workflow); err != nil {
		return nil, fmt.Errorf("failed to decode workflow %s: %w", id, err)
	}

	return &workflow, nil
}

// GetByIDs loads the named workflows, preserving the requested order.
func (wr *WorkflowRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Workflow, error) {
	workflows := make([]*models.Workflow, 0, len(ids))

	for _, id := range ids {
		workflow, err := wr.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		workflows = append(workflows, workflow)
	}

	return workflows, nil
}

// GetByLanguage returns enabled workflows whose target language matches,
// including language-agnostic ones.
func (wr *WorkflowRepository) GetByLanguage(ctx context.Context, language string) ([]*models.Workflow, error) {
	all, err := wr.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	matching := make([]*models.Workflow, 0, len(all))

	for _, workflow := range all {
		if !workflow.Enabled {
			continue
		}

		if workflow.Language == "" || workflow.Language == language {
			matching = append(matching, workflow)
		}
	}

	return matching, nil
}

// Save validates and writes a workflow document.
func (wr *WorkflowRepository) Save(_ context.Context, workflow *models.Workflow) error {
	if err := workflow.Validate(); err != nil {
		return persistence.NewWorkflowError("save", workflow.ID, err)
	}

	if err := os.MkdirAll(wr.dir(), 0750); err != nil {
		return fmt.Errorf("failed to create workflows directory: %w", err)
	}

	now := time.Now().UTC()
	if workflow.CreatedAt.IsZero() {
		workflow.CreatedAt = now
	}

	workflow.UpdatedAt = now

	data, err := json.MarshalIndent(workflow, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal workflow %s: %w", workflow.ID, err)
	}

	return os.WriteFile(path.Join(wr.dir(), workflow.ID+".json"), data, 0600)
}

// Delete removes a workflow by ID. Deleting a missing workflow is a
// no-op.
func (wr *WorkflowRepository) Delete(_ context.Context, id string) error {
	err := os.Remove(path.Join(wr.dir(), id+".json"))
	if err != nil && os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to delete workflow %s: %w", id, err)
	}

	return nil
}
