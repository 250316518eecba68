// Package file provides file-based persistence for workflows and posts,
// storing each entity as one JSON document on disk.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/linguaflow/linguaflow/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface using the
// file system.
type Persistence struct {
	root         string
	workflowRepo *WorkflowRepository
	postRepo     *PostRepository
}

// NewPersistence creates file persistence rooted at the given directory.
// The root may carry a "file://" prefix. defaultLanguage is the language
// assumed for posts without translation relationships.
func NewPersistence(root, defaultLanguage string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:         cleanRoot,
		workflowRepo: NewWorkflowRepository(cleanRoot),
		postRepo:     NewPostRepository(cleanRoot, defaultLanguage),
	}
}

// Close performs any necessary cleanup. For file-based persistence there
// is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (fp *Persistence) WorkflowRepository() persistence.WorkflowRepository {
	return fp.workflowRepo
}

func (fp *Persistence) PostRepository() persistence.PostRepository {
	return fp.postRepo
}
