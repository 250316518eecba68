package models

import "time"

// PostRecord is the structured document a content record accessor returns
// for one persisted post.
type PostRecord struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Excerpt     string     `json:"excerpt"`
	Status      string     `json:"status"`
	Type        string     `json:"type"`
	AuthorID    string     `json:"author_id"`
	Slug        string     `json:"slug"`
	ParentID    string     `json:"parent_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ModifiedAt  time.Time  `json:"modified_at"`
	PublishedAt *time.Time `json:"published_at,omitempty"`

	// Meta holds arbitrary non-internal key/value metadata.
	Meta map[string]any `json:"meta,omitempty"`

	// Terms holds associated taxonomy term lists keyed by taxonomy name,
	// e.g. "categories" and "tags".
	Terms map[string][]Term `json:"terms,omitempty"`
}

// Term is one categorical/tag identifier attached to a post.
type Term struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Document renders the record as the nested document a workflow context
// exposes: record fields under "post", metadata under "meta" and term
// lists under "taxonomy".
func (p *PostRecord) Document() map[string]any {
	post := map[string]any{
		"id":      p.ID,
		"title":   p.Title,
		"content": p.Content,
		"excerpt": p.Excerpt,
		"status":  p.Status,
		"type":    p.Type,
		"author":  p.AuthorID,
		"slug":    p.Slug,
		"parent":  p.ParentID,
	}
	if p.PublishedAt != nil {
		post["date"] = p.PublishedAt.UTC().Format(time.RFC3339)
	}

	meta := map[string]any{}
	for key, value := range p.Meta {
		meta[key] = value
	}

	taxonomy := map[string]any{}

	for name, terms := range p.Terms {
		list := make([]any, 0, len(terms))
		for _, term := range terms {
			list = append(list, map[string]any{
				"id":   term.ID,
				"slug": term.Slug,
				"name": term.Name,
			})
		}

		taxonomy[name] = list
	}

	return map[string]any{
		"post":     post,
		"meta":     meta,
		"taxonomy": taxonomy,
	}
}
