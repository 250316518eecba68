package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linguaflow/linguaflow/pkg/models"
	"github.com/linguaflow/linguaflow/pkg/persistence"
)

// postColumns is the allowlist of record columns a partial update may
// touch.
var postColumns = map[string]bool{
	"title":        true,
	"content":      true,
	"excerpt":      true,
	"status":       true,
	"slug":         true,
	"author_id":    true,
	"parent_id":    true,
	"published_at": true,
}

// PostRepository handles post-related database operations.
type PostRepository struct {
	db              *sql.DB
	logger          *slog.Logger
	defaultLanguage string
}

func NewPostRepository(db *sql.DB, logger *slog.Logger, defaultLanguage string) *PostRepository {
	if defaultLanguage == "" {
		defaultLanguage = "en"
	}

	return &PostRepository{db: db, logger: logger, defaultLanguage: defaultLanguage}
}

// GetPost loads a record with its metadata and term associations.
// Returns ErrPostNotFound (wrapped) when no row exists.
func (r *PostRepository) GetPost(ctx context.Context, id string) (*models.PostRecord, error) {
	var (
		post      models.PostRecord
		parentID  sql.NullString
		published sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT
			id
		  , title
		  , content
		  , excerpt
		  , status
		  , type
		  , author_id
		  , slug
		  , parent_id
		  , created_at
		  , modified_at
		  , published_at
		FROM posts
		WHERE id = $1
	`, id).Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Excerpt,
		&post.Status,
		&post.Type,
		&post.AuthorID,
		&post.Slug,
		&parentID,
		&post.CreatedAt,
		&post.ModifiedAt,
		&published,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewPostError("get", id, persistence.ErrPostNotFound)
		}

		return nil, fmt.Errorf("failed to query post %s: %w", id, err)
	}

	post.ParentID = parentID.String
	if published.Valid {
		at := published.Time
		post.PublishedAt = &at
	}

	if post.Meta, err = r.loadMeta(ctx, id); err != nil {
		return nil, err
	}

	if post.Terms, err = r.loadTerms(ctx, id); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *PostRepository) loadMeta(ctx context.Context, id string) (map[string]any, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT key, value FROM post_meta WHERE post_id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query metadata of post %s: %w", id, err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	meta := map[string]any{}

	for rows.Next() {
		var (
			key  string
			data []byte
		)

		if err := rows.Scan(&key, &data); err != nil {
			return nil, fmt.Errorf("failed to scan metadata of post %s: %w", id, err)
		}

		var value any
		if err := json.Unmarshal(data, &value); err != nil {
			return nil, fmt.Errorf("failed to decode metadata %s of post %s: %w", key, id, err)
		}

		meta[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating metadata of post %s: %w", id, err)
	}

	return meta, nil
}

func (r *PostRepository) loadTerms(ctx context.Context, id string) (map[string][]models.Term, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT taxonomy, term_id, slug, name
		FROM post_terms
		WHERE post_id = $1
		ORDER BY taxonomy, position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query terms of post %s: %w", id, err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	terms := map[string][]models.Term{}

	for rows.Next() {
		var (
			taxonomy string
			term     models.Term
		)

		if err := rows.Scan(&taxonomy, &term.ID, &term.Slug, &term.Name); err != nil {
			return nil, fmt.Errorf("failed to scan terms of post %s: %w", id, err)
		}

		terms[taxonomy] = append(terms[taxonomy], term)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating terms of post %s: %w", id, err)
	}

	return terms, nil
}

// SavePost upserts the record row and replaces its metadata and term
// associations in one transaction.
func (r *PostRepository) SavePost(ctx context.Context, post *models.PostRecord) error {
	now := time.Now().UTC()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}

	post.ModifiedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	err = r.savePostTx(ctx, tx, post)
	if err != nil {
		_ = tx.Rollback()

		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit post %s: %w", post.ID, err)
	}

	return nil
}

func (r *PostRepository) savePostTx(ctx context.Context, tx *sql.Tx, post *models.PostRecord) error {
	var parentID any
	if post.ParentID != "" {
		parentID = post.ParentID
	}

	var published any
	if post.PublishedAt != nil {
		published = *post.PublishedAt
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO posts (id, title, content, excerpt, status, type, author_id, slug, parent_id, created_at, modified_at, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title
		  , content = EXCLUDED.content
		  , excerpt = EXCLUDED.excerpt
		  , status = EXCLUDED.status
		  , type = EXCLUDED.type
		  , author_id = EXCLUDED.author_id
		  , slug = EXCLUDED.slug
		  , parent_id = EXCLUDED.parent_id
		  , modified_at = EXCLUDED.modified_at
		  , published_at = EXCLUDED.published_at
	`, post.ID, post.Title, post.Content, post.Excerpt, post.Status, post.Type,
		post.AuthorID, post.Slug, parentID, post.CreatedAt, post.ModifiedAt, published)
	if err != nil {
		return fmt.Errorf("failed to save post %s: %w", post.ID, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM post_meta WHERE post_id = $1", post.ID); err != nil {
		return fmt.Errorf("failed to clear metadata of post %s: %w", post.ID, err)
	}

	for key, value := range post.Meta {
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata %s of post %s: %w", key, post.ID, err)
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO post_meta (post_id, key, value) VALUES ($1, $2, $3)",
			post.ID, key, data)
		if err != nil {
			return fmt.Errorf("failed to save metadata %s of post %s: %w", key, post.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM post_terms WHERE post_id = $1", post.ID); err != nil {
		return fmt.Errorf("failed to clear terms of post %s: %w", post.ID, err)
	}

	for taxonomy, terms := range post.Terms {
		for position, term := range terms {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO post_terms (post_id, taxonomy, term_id, slug, name, position)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, post.ID, taxonomy, term.ID, term.Slug, term.Name, position)
			if err != nil {
				return fmt.Errorf("failed to save term %s of post %s: %w", term.ID, post.ID, err)
			}
		}
	}

	return nil
}

// UpdatePostFields applies a partial update to the record's mapped
// columns.
func (r *PostRepository) UpdatePostFields(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	set := "modified_at = NOW()"
	args := []any{id}

	for column, value := range fields {
		if !postColumns[column] {
			return persistence.NewPostError("update", id, fmt.Errorf("unknown record field %q", column))
		}

		args = append(args, value)
		set += fmt.Sprintf(", %s = $%d", column, len(args))
	}

	result, err := r.db.ExecContext(ctx, "UPDATE posts SET "+set+" WHERE id = $1", args...)
	if err != nil {
		return fmt.Errorf("failed to update post %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update of post %s: %w", id, err)
	}

	if affected == 0 {
		return persistence.NewPostError("update", id, persistence.ErrPostNotFound)
	}

	return nil
}

// UpdatePostMeta upserts one metadata entry.
func (r *PostRepository) UpdatePostMeta(ctx context.Context, id string, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata %s of post %s: %w", key, id, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO post_meta (post_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (post_id, key) DO UPDATE SET value = EXCLUDED.value
	`, id, key, data)
	if err != nil {
		return fmt.Errorf("failed to save metadata %s of post %s: %w", key, id, err)
	}

	return nil
}

// PostLanguage returns the post's language from its translation-group
// membership, falling back to the default language.
func (r *PostRepository) PostLanguage(ctx context.Context, id string) (string, error) {
	var language string

	err := r.db.QueryRowContext(ctx,
		"SELECT language FROM post_translations WHERE post_id = $1", id).Scan(&language)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r.defaultLanguage, nil
		}

		return "", fmt.Errorf("failed to query language of post %s: %w", id, err)
	}

	return language, nil
}

// SourceLanguage returns the first different language in the post's
// translation group, in language order for determinism. Empty when the
// post has no siblings.
func (r *PostRepository) SourceLanguage(ctx context.Context, id string) (string, error) {
	var language string

	err := r.db.QueryRowContext(ctx, `
		SELECT siblings.language
		FROM post_translations own
		JOIN post_translations siblings ON siblings.group_id = own.group_id
		WHERE own.post_id = $1 AND siblings.post_id <> own.post_id
		ORDER BY siblings.language
		LIMIT 1
	`, id).Scan(&language)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("failed to query source language of post %s: %w", id, err)
	}

	return language, nil
}

func (r *PostRepository) DefaultLanguage() string {
	return r.defaultLanguage
}

// LinkTranslation places a post into a translation group under a
// language. Used by hosts when wiring posts together.
func (r *PostRepository) LinkTranslation(ctx context.Context, groupID, language, postID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO post_translations (group_id, language, post_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (group_id, language) DO UPDATE SET post_id = EXCLUDED.post_id
	`, groupID, language, postID)
	if err != nil {
		return fmt.Errorf("failed to link post %s as %s: %w", postID, language, err)
	}

	return nil
}
