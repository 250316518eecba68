package execution

import (
	"context"
	"log/slog"
	"strings"

	"github.com/linguaflow/linguaflow/pkg/dotpath"
	"github.com/linguaflow/linguaflow/pkg/models"
)

// PostStore is the content record accessor a PostContext loads from and
// commits to.
type PostStore interface {
	GetPost(ctx context.Context, id string) (*models.PostRecord, error)
	UpdatePostFields(ctx context.Context, id string, fields map[string]any) error
	UpdatePostMeta(ctx context.Context, id string, key string, value any) error
}

// postFields maps keys under the "post." namespace to the record fields
// the store knows how to update. Unmapped keys stay tracked in the
// change-set but are never sent to the store.
var postFields = map[string]string{
	"title":   "title",
	"content": "content",
	"excerpt": "excerpt",
	"status":  "status",
	"slug":    "slug",
	"author":  "author_id",
	"parent":  "parent_id",
	"date":    "published_at",
}

// PostContext is a database-backed context. Writes under the "post." and
// "meta." namespaces are buffered into two change-sets and only reach the
// store on Commit, unless AutoCommit is enabled.
type PostContext struct {
	serviceSet

	store          PostStore
	postID         string
	sourceLanguage string
	targetLanguage string
	logger         *slog.Logger

	data          map[string]any
	recordChanges map[string]any
	metaChanges   map[string]any

	// AutoCommit flushes the change-sets after every buffered write.
	AutoCommit bool

	// loadCtx is reused for store calls triggered by auto-commit writes;
	// Set is synchronous within the owning run.
	loadCtx context.Context
}

// NewPostContext loads the record, its metadata and its term lists into a
// fresh context. Returns the store's error unchanged when the record
// cannot be loaded, so callers can match persistence sentinels.
func NewPostContext(ctx context.Context, store PostStore, postID, sourceLanguage, targetLanguage string) (*PostContext, error) {
	pc := &PostContext{
		serviceSet:     newServiceSet(),
		store:          store,
		postID:         postID,
		sourceLanguage: sourceLanguage,
		targetLanguage: targetLanguage,
		logger:         slog.With("module", "post_context", "post_id", postID),
		recordChanges:  map[string]any{},
		metaChanges:    map[string]any{},
		loadCtx:        ctx,
	}

	if err := pc.load(ctx); err != nil {
		return nil, err
	}

	return pc, nil
}

func (c *PostContext) load(ctx context.Context) error {
	record, err := c.store.GetPost(ctx, c.postID)
	if err != nil {
		return err
	}

	c.data = record.Document()

	return nil
}

func (c *PostContext) Get(path string) any {
	value, _ := dotpath.Get(c.data, path)

	return value
}

func (c *PostContext) Set(path string, value any) {
	if !dotpath.Set(c.data, path, value) {
		return
	}

	c.track(path)

	if c.AutoCommit && c.HasChanges() {
		c.Commit(c.loadCtx)
	}
}

// track records a write under a reserved namespace into the matching
// change-set. The buffered value is the top-level entry under the
// namespace, so deep writes like "meta.seo.title" buffer the whole "seo"
// subtree under its key.
func (c *PostContext) track(path string) {
	segs := strings.SplitN(path, ".", 3)
	if len(segs) < 2 {
		return
	}

	key := segs[1]
	value, _ := dotpath.Get(c.data, segs[0]+"."+key)

	switch segs[0] {
	case "post":
		c.recordChanges[key] = value
	case "meta":
		c.metaChanges[key] = value
	}
}

func (c *PostContext) Has(path string) bool {
	return dotpath.Has(c.data, path)
}

func (c *PostContext) Delete(path string) {
	dotpath.Delete(c.data, path)
}

func (c *PostContext) Export() map[string]any {
	return dotpath.Clone(c.data)
}

func (c *PostContext) IsVirtual() bool {
	return false
}

func (c *PostContext) PostID() string {
	return c.postID
}

func (c *PostContext) SourceLanguage() string {
	return c.sourceLanguage
}

func (c *PostContext) TargetLanguage() string {
	return c.targetLanguage
}

// HasChanges reports whether any buffered change is pending.
func (c *PostContext) HasChanges() bool {
	return len(c.recordChanges) > 0 || len(c.metaChanges) > 0
}

// PendingChanges returns copies of the two pending change-sets.
func (c *PostContext) PendingChanges() (record, meta map[string]any) {
	record = make(map[string]any, len(c.recordChanges))
	for key, value := range c.recordChanges {
		record[key] = value
	}

	meta = make(map[string]any, len(c.metaChanges))
	for key, value := range c.metaChanges {
		meta[key] = value
	}

	return record, meta
}

// Commit flushes the buffered change-sets: mapped record fields in one
// update call, then each metadata entry individually. An entry is only
// cleared once its write succeeds; already-successful entries are never
// rolled back. Returns false if any entry failed.
func (c *PostContext) Commit(ctx context.Context) bool {
	ok := true

	fields := map[string]any{}

	for key, value := range c.recordChanges {
		if column, mapped := postFields[key]; mapped {
			fields[column] = value
		}
	}

	if len(fields) > 0 {
		if err := c.store.UpdatePostFields(ctx, c.postID, fields); err != nil {
			c.logger.Warn("Failed to commit record fields", "error", err)

			ok = false
		} else {
			for key := range c.recordChanges {
				if _, mapped := postFields[key]; mapped {
					delete(c.recordChanges, key)
				}
			}
		}
	}

	for key, value := range c.metaChanges {
		if err := c.store.UpdatePostMeta(ctx, c.postID, key, value); err != nil {
			c.logger.Warn("Failed to commit metadata entry", "key", key, "error", err)

			ok = false

			continue
		}

		delete(c.metaChanges, key)
	}

	return ok
}

// Rollback discards the buffered change-sets and reloads the document
// from the store.
func (c *PostContext) Rollback(ctx context.Context) error {
	c.recordChanges = map[string]any{}
	c.metaChanges = map[string]any{}

	return c.load(ctx)
}
