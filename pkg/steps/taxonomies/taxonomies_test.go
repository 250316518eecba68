package taxonomies

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linguaflow/linguaflow/pkg/execution"
	"github.com/linguaflow/linguaflow/pkg/mocks"
	"github.com/linguaflow/linguaflow/pkg/models"
	"github.com/linguaflow/linguaflow/pkg/taxonomy"
)

func newContext(translator taxonomy.TermTranslator) *execution.VirtualContext {
	ec := execution.NewVirtualContext(map[string]any{
		"taxonomy": map[string]any{
			"categories": []any{
				map[string]any{"id": "10", "slug": "news", "name": "News"},
				map[string]any{"id": "11", "slug": "sports", "name": "Sports"},
			},
		},
	}, "en", "de")
	ec.RegisterService(ServiceName, taxonomy.NewResolver(translator, nil))

	return ec
}

func TestExecuteReplacesMatchedTerms(t *testing.T) {
	translator := &mocks.MockTermTranslator{}
	translator.On("IsTranslatable", "categories").Return(true)
	translator.On("TermEquivalents", mock.Anything, "categories", "10").Return(map[string]models.Term{
		"de": {ID: "20", Slug: "nachrichten", Name: "Nachrichten"},
	}, nil)
	translator.On("TermEquivalents", mock.Anything, "categories", "11").Return(map[string]models.Term{
		"fr": {ID: "30", Slug: "sport", Name: "Sport"},
	}, nil)

	ec := newContext(translator)

	err := NewStep().Execute(context.Background(), ec, map[string]any{}, slog.Default())
	require.NoError(t, err)

	assert.Equal(t, []any{
		map[string]any{"id": "20", "slug": "nachrichten", "name": "Nachrichten"},
		map[string]any{"id": "11", "slug": "sports", "name": "Sports"},
	}, ec.Get("taxonomy.categories"))

	report, ok := ec.Get(ReportKey).(map[string]any)
	require.True(t, ok)
	entries := report["categories"].([]any)
	require.Len(t, entries, 1)
	assert.Equal(t, "unresolved", entries[0].(map[string]any)["status"])
}

func TestExecutePassthroughLeavesDocumentUntouched(t *testing.T) {
	translator := &mocks.MockTermTranslator{}
	translator.On("IsTranslatable", "categories").Return(false)

	ec := newContext(translator)
	original := ec.Export()

	err := NewStep().Execute(context.Background(), ec, map[string]any{}, slog.Default())
	require.NoError(t, err)

	assert.Equal(t, original["taxonomy"], ec.Export()["taxonomy"])
	assert.Nil(t, ec.Get(ReportKey))
}

func TestExecuteHonorsConfiguredTaxonomyList(t *testing.T) {
	translator := &mocks.MockTermTranslator{}

	ec := newContext(translator)

	err := NewStep().Execute(context.Background(), ec, map[string]any{
		"taxonomies": []any{"tags"},
	}, slog.Default())

	require.NoError(t, err)
	translator.AssertNotCalled(t, "TermEquivalents", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecuteWithoutTaxonomyData(t *testing.T) {
	ec := execution.NewVirtualContext(nil, "en", "de")
	ec.RegisterService(ServiceName, taxonomy.NewResolver(nil, nil))

	err := NewStep().Execute(context.Background(), ec, map[string]any{}, slog.Default())

	assert.NoError(t, err)
}

func TestExecuteRejectsWrongServiceType(t *testing.T) {
	ec := execution.NewVirtualContext(nil, "en", "de")
	ec.RegisterService(ServiceName, "not a resolver")

	err := NewStep().Execute(context.Background(), ec, map[string]any{}, slog.Default())

	assert.ErrorContains(t, err, ServiceName)
}
