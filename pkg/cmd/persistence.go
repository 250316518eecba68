// Package cmd provides common initialization functions for command-line
// applications.
package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/linguaflow/linguaflow/pkg/persistence"
	"github.com/linguaflow/linguaflow/pkg/persistence/file"
	"github.com/linguaflow/linguaflow/pkg/persistence/postgresql"
)

// NewPersistence selects a storage backend from the database URL:
// postgres:// and postgresql:// URLs get the PostgreSQL backend,
// everything else is treated as a file-persistence root directory.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL, defaultLanguage string) (persistence.Persistence, error) {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return postgresql.NewPersistence(ctx, logger, databaseURL, defaultLanguage)
	}

	return file.NewPersistence(databaseURL, defaultLanguage), nil
}
