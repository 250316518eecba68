package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCleansDefaultFields(t *testing.T) {
	data := map[string]any{
		"post": map[string]any{
			"title":   "  Hello \t\n World\x00 ",
			"excerpt": "clean already",
			"content": "  untouched  ",
		},
	}

	result, err := NewStep().Run(data, map[string]any{})

	require.NoError(t, err)
	post := result["post"].(map[string]any)
	assert.Equal(t, "Hello World", post["title"])
	assert.Equal(t, "clean already", post["excerpt"])
	assert.Equal(t, "  untouched  ", post["content"])
}

func TestRunHonorsConfiguredFields(t *testing.T) {
	data := map[string]any{
		"post": map[string]any{"title": "  spaced  "},
		"meta": map[string]any{"seo_title": "a\x07b"},
	}

	result, err := NewStep().Run(data, map[string]any{
		"fields": []any{"meta.seo_title"},
	})

	require.NoError(t, err)
	assert.Equal(t, "ab", result["meta"].(map[string]any)["seo_title"])
	assert.Equal(t, "  spaced  ", result["post"].(map[string]any)["title"])
}

func TestRunIgnoresMissingAndNonStringFields(t *testing.T) {
	data := map[string]any{"post": map[string]any{"views": 3}}

	result, err := NewStep().Run(data, map[string]any{
		"fields": []any{"post.views", "post.missing"},
	})

	require.NoError(t, err)
	assert.Equal(t, 3, result["post"].(map[string]any)["views"])
}
