package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguaflow/linguaflow/pkg/execution"
)

func TestRenderPlainString(t *testing.T) {
	result, err := Render("hello {{.name}}", map[string]any{"name": "world"})

	require.NoError(t, err)
	assert.Equal(t, "hello world", result)
}

func TestRenderFuncs(t *testing.T) {
	result, err := Render("{{upper .title}}", map[string]any{"title": "hello"})
	require.NoError(t, err)
	assert.Equal(t, "HELLO", result)

	result, err = Render("{{lower .title}}", map[string]any{"title": "HELLO"})
	require.NoError(t, err)
	assert.Equal(t, "hello", result)

	result, err = Render("{{trim .title}}", map[string]any{"title": "  hello  "})
	require.NoError(t, err)
	assert.Equal(t, "hello", result)
}

func TestRenderJSONOutput(t *testing.T) {
	result, err := Render(`{"slug": "{{.slug}}"}`, map[string]any{"slug": "news"})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"slug": "news"}, result)
}

func TestRenderParseError(t *testing.T) {
	_, err := Render("{{.broken", nil)
	assert.Error(t, err)
}

func TestRenderContext(t *testing.T) {
	ec := execution.NewVirtualContext(map[string]any{
		"post": map[string]any{"title": "hello"},
	}, "en", "de")

	result, err := RenderContext("{{.post.title}} ({{.source_language}} to {{.target_language}})", ec)

	require.NoError(t, err)
	assert.Equal(t, "hello (en to de)", result)
}
