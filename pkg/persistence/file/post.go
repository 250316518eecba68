package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"sort"
	"time"

	"github.com/linguaflow/linguaflow/pkg/models"
	"github.com/linguaflow/linguaflow/pkg/persistence"
)

// postDocument is the on-disk shape of one post: the record itself plus
// its language assignment and translation-group relationships.
type postDocument struct {
	Record   *models.PostRecord `json:"record"`
	Language string             `json:"language,omitempty"`

	// Translations maps language codes to the post IDs of the
	// translation-group siblings.
	Translations map[string]string `json:"translations,omitempty"`
}

// PostRepository stores posts as <root>/posts/<id>.json documents.
type PostRepository struct {
	root            string
	defaultLanguage string
}

func NewPostRepository(root, defaultLanguage string) *PostRepository {
	if defaultLanguage == "" {
		defaultLanguage = "en"
	}

	return &PostRepository{root: root, defaultLanguage: defaultLanguage}
}

func (pr *PostRepository) dir() string {
	return path.Join(pr.root, "posts")
}

func (pr *PostRepository) load(id string) (*postDocument, error) {
	data, err := os.ReadFile(path.Join(pr.dir(), id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewPostError("get", id, persistence.ErrPostNotFound)
		}

		return nil, fmt.Errorf("failed to read post %s: %w", id, err)
	}

	var doc postDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode post %s: %w", id, err)
	}

	if doc.Record == nil {
		return nil, fmt.Errorf("post document %s carries no record", id)
	}

	return &doc, nil
}

func (pr *PostRepository) store(id string, doc *postDocument) error {
	if err := os.MkdirAll(pr.dir(), 0750); err != nil {
		return fmt.Errorf("failed to create posts directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal post %s: %w", id, err)
	}

	return os.WriteFile(path.Join(pr.dir(), id+".json"), data, 0600)
}

func (pr *PostRepository) GetPost(_ context.Context, id string) (*models.PostRecord, error) {
	doc, err := pr.load(id)
	if err != nil {
		return nil, err
	}

	return doc.Record, nil
}

// SavePost writes the full record, preserving an existing document's
// language and translation relationships.
func (pr *PostRepository) SavePost(_ context.Context, post *models.PostRecord) error {
	doc, err := pr.load(post.ID)
	if err != nil {
		if !persistence.IsPostNotFound(err) {
			return err
		}

		doc = &postDocument{}
	}

	now := time.Now().UTC()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}

	post.ModifiedAt = now
	doc.Record = post

	return pr.store(post.ID, doc)
}

// UpdatePostFields applies a partial update to the record's mapped
// columns.
func (pr *PostRepository) UpdatePostFields(_ context.Context, id string, fields map[string]any) error {
	doc, err := pr.load(id)
	if err != nil {
		return err
	}

	record := doc.Record

	for column, value := range fields {
		switch column {
		case "title":
			record.Title, _ = value.(string)
		case "content":
			record.Content, _ = value.(string)
		case "excerpt":
			record.Excerpt, _ = value.(string)
		case "status":
			record.Status, _ = value.(string)
		case "slug":
			record.Slug, _ = value.(string)
		case "author_id":
			record.AuthorID, _ = value.(string)
		case "parent_id":
			record.ParentID, _ = value.(string)
		case "published_at":
			if text, ok := value.(string); ok {
				if at, err := time.Parse(time.RFC3339, text); err == nil {
					record.PublishedAt = &at
				}
			}
		default:
			return persistence.NewPostError("update", id, fmt.Errorf("unknown record field %q", column))
		}
	}

	record.ModifiedAt = time.Now().UTC()

	return pr.store(id, doc)
}

// UpdatePostMeta writes one metadata entry.
func (pr *PostRepository) UpdatePostMeta(_ context.Context, id string, key string, value any) error {
	doc, err := pr.load(id)
	if err != nil {
		return err
	}

	if doc.Record.Meta == nil {
		doc.Record.Meta = map[string]any{}
	}

	doc.Record.Meta[key] = value
	doc.Record.ModifiedAt = time.Now().UTC()

	return pr.store(id, doc)
}

// PostLanguage returns the post's assigned language, falling back to the
// default language when the document carries none.
func (pr *PostRepository) PostLanguage(_ context.Context, id string) (string, error) {
	doc, err := pr.load(id)
	if err != nil {
		return "", err
	}

	if doc.Language == "" {
		return pr.defaultLanguage, nil
	}

	return doc.Language, nil
}

// SourceLanguage returns the first different language among the post's
// translation-group siblings, in sorted language order for determinism.
// Empty when the post has no siblings.
func (pr *PostRepository) SourceLanguage(ctx context.Context, id string) (string, error) {
	doc, err := pr.load(id)
	if err != nil {
		return "", err
	}

	own, err := pr.PostLanguage(ctx, id)
	if err != nil {
		return "", err
	}

	languages := make([]string, 0, len(doc.Translations))
	for language := range doc.Translations {
		languages = append(languages, language)
	}

	sort.Strings(languages)

	for _, language := range languages {
		if language != own {
			return language, nil
		}
	}

	return "", nil
}

func (pr *PostRepository) DefaultLanguage() string {
	return pr.defaultLanguage
}

// SetLanguage assigns the post's language and translation-group
// relationships. Used by hosts when wiring posts together.
func (pr *PostRepository) SetLanguage(_ context.Context, id, language string, translations map[string]string) error {
	doc, err := pr.load(id)
	if err != nil {
		return err
	}

	doc.Language = language
	doc.Translations = translations

	return pr.store(id, doc)
}
