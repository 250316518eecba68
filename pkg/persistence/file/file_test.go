package file

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguaflow/linguaflow/pkg/models"
	"github.com/linguaflow/linguaflow/pkg/persistence"
)

func newTestPersistence(t *testing.T) *Persistence {
	t.Helper()

	return NewPersistence(t.TempDir(), "en")
}

func TestWorkflowRoundTrip(t *testing.T) {
	p := newTestPersistence(t)
	ctx := context.Background()
	repo := p.WorkflowRepository()

	workflow := &models.Workflow{
		ID:      "wf-1",
		Name:    "Translate posts",
		Enabled: true,
		Steps: []*models.WorkflowStep{
			{Type: "translate", Config: map[string]any{"paths": []any{"post.title"}}},
		},
	}

	require.NoError(t, repo.Save(ctx, workflow))
	assert.False(t, workflow.CreatedAt.IsZero())

	loaded, err := repo.GetByID(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "Translate posts", loaded.Name)
	require.Len(t, loaded.Steps, 1)
	assert.Equal(t, "translate", loaded.Steps[0].Type)
}

func TestWorkflowNotFound(t *testing.T) {
	p := newTestPersistence(t)

	_, err := p.WorkflowRepository().GetByID(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflowSaveRejectsInvalidDefinition(t *testing.T) {
	p := newTestPersistence(t)

	err := p.WorkflowRepository().Save(context.Background(), &models.Workflow{ID: "wf-1", Name: "ab"})

	assert.Error(t, err)
}

func TestWorkflowGetByLanguage(t *testing.T) {
	p := newTestPersistence(t)
	ctx := context.Background()
	repo := p.WorkflowRepository()

	require.NoError(t, repo.Save(ctx, &models.Workflow{ID: "wf-de", Name: "German only", Language: "de", Enabled: true}))
	require.NoError(t, repo.Save(ctx, &models.Workflow{ID: "wf-any", Name: "Any language", Enabled: true}))
	require.NoError(t, repo.Save(ctx, &models.Workflow{ID: "wf-fr", Name: "French only", Language: "fr", Enabled: true}))
	require.NoError(t, repo.Save(ctx, &models.Workflow{ID: "wf-off", Name: "Disabled one", Language: "de"}))

	matching, err := repo.GetByLanguage(ctx, "de")
	require.NoError(t, err)

	ids := make([]string, 0, len(matching))
	for _, workflow := range matching {
		ids = append(ids, workflow.ID)
	}

	assert.Equal(t, []string{"wf-any", "wf-de"}, ids)
}

func TestWorkflowDeleteMissingIsNoop(t *testing.T) {
	p := newTestPersistence(t)

	assert.NoError(t, p.WorkflowRepository().Delete(context.Background(), "missing"))
}

func TestPostRoundTripAndPartialUpdates(t *testing.T) {
	p := newTestPersistence(t)
	ctx := context.Background()
	repo := p.PostRepository()

	require.NoError(t, repo.SavePost(ctx, &models.PostRecord{
		ID:     "42",
		Title:  "Hello",
		Status: "draft",
		Meta:   map[string]any{"seo_title": "Hello SEO"},
	}))

	require.NoError(t, repo.UpdatePostFields(ctx, "42", map[string]any{"title": "Hallo", "status": "publish"}))
	require.NoError(t, repo.UpdatePostMeta(ctx, "42", "seo_title", "Hallo SEO"))

	post, err := repo.GetPost(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "Hallo", post.Title)
	assert.Equal(t, "publish", post.Status)
	assert.Equal(t, "Hallo SEO", post.Meta["seo_title"])
}

func TestPostNotFound(t *testing.T) {
	p := newTestPersistence(t)

	_, err := p.PostRepository().GetPost(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, persistence.IsPostNotFound(err))
}

func TestPostUpdateRejectsUnknownField(t *testing.T) {
	p := newTestPersistence(t)
	ctx := context.Background()
	repo := p.PostRepository()

	require.NoError(t, repo.SavePost(ctx, &models.PostRecord{ID: "42"}))

	err := repo.UpdatePostFields(ctx, "42", map[string]any{"nonsense": "x"})

	assert.ErrorContains(t, err, "nonsense")
}

func TestPostLanguages(t *testing.T) {
	p := newTestPersistence(t)
	ctx := context.Background()
	repo := p.postRepo

	require.NoError(t, repo.SavePost(ctx, &models.PostRecord{ID: "42"}))
	require.NoError(t, repo.SavePost(ctx, &models.PostRecord{ID: "7"}))

	// Without an assignment the default language applies and no source
	// sibling exists.
	language, err := repo.PostLanguage(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "en", language)

	source, err := repo.SourceLanguage(ctx, "42")
	require.NoError(t, err)
	assert.Empty(t, source)

	require.NoError(t, repo.SetLanguage(ctx, "42", "de", map[string]string{"de": "42", "en": "7", "fr": "9"}))

	language, err = repo.PostLanguage(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "de", language)

	source, err = repo.SourceLanguage(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "en", source)

	assert.Equal(t, "en", repo.DefaultLanguage())
}

func TestHealthCheck(t *testing.T) {
	p := newTestPersistence(t)

	assert.NoError(t, p.HealthCheck(context.Background()))
	assert.Error(t, NewPersistence("/nonexistent/path", "en").HealthCheck(context.Background()))
}
