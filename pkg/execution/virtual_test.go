package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVirtualContextClonesPayload(t *testing.T) {
	payload := map[string]any{
		"post": map[string]any{"title": "hello"},
	}

	ec := NewVirtualContext(payload, "en", "de")
	ec.Set("post.title", "changed")

	assert.Equal(t, "hello", payload["post"].(map[string]any)["title"])
	assert.Equal(t, "changed", ec.Get("post.title"))
}

func TestVirtualContextAccessors(t *testing.T) {
	ec := NewVirtualContext(map[string]any{
		"post": map[string]any{"title": "hello"},
	}, "en", "de")

	assert.True(t, ec.IsVirtual())
	assert.Empty(t, ec.PostID())
	assert.Equal(t, "en", ec.SourceLanguage())
	assert.Equal(t, "de", ec.TargetLanguage())

	assert.Nil(t, ec.Get("post.excerpt"))
	assert.False(t, ec.Has("post.excerpt"))

	ec.Set("meta.seo.title", "SEO")
	assert.Equal(t, "SEO", ec.Get("meta.seo.title"))

	ec.Delete("meta.seo.title")
	assert.False(t, ec.Has("meta.seo.title"))

	// Deleting again is a no-op.
	ec.Delete("meta.seo.title")
}

func TestVirtualContextServices(t *testing.T) {
	ec := NewVirtualContext(nil, "en", "de")

	assert.False(t, ec.HasService("resolver"))
	assert.Nil(t, ec.Service("resolver"))

	handle := struct{ name string }{"taxonomy"}
	ec.RegisterService("resolver", handle)

	assert.True(t, ec.HasService("resolver"))
	assert.Equal(t, handle, ec.Service("resolver"))
}

func TestWithDataDoesNotMutateOriginal(t *testing.T) {
	ec := NewVirtualContext(map[string]any{
		"post": map[string]any{"title": "hello", "status": "draft"},
	}, "en", "de")
	ec.RegisterService("resolver", "handle")

	clone := ec.WithData(map[string]any{
		"post": map[string]any{"title": "merged"},
		"meta": map[string]any{"key": "value"},
	})

	// Clone carries the merged view plus the services.
	assert.Equal(t, "merged", clone.Get("post.title"))
	assert.Equal(t, "draft", clone.Get("post.status"))
	assert.Equal(t, "value", clone.Get("meta.key"))
	assert.True(t, clone.HasService("resolver"))

	// Original is untouched, even by later clone writes.
	clone.Set("post.status", "publish")
	assert.Equal(t, "hello", ec.Get("post.title"))
	assert.Equal(t, "draft", ec.Get("post.status"))
	assert.False(t, ec.Has("meta.key"))
}

func TestChangesDiff(t *testing.T) {
	original := map[string]any{
		"post": map[string]any{"title": "hello", "status": "draft"},
	}

	ec := NewVirtualContext(original, "en", "de")
	ec.Set("post.title", "HELLO")
	ec.Set("meta.translated", true)

	changes := ec.Changes(original)

	require.Equal(t, map[string]any{
		"post": map[string]any{"title": "HELLO"},
		"meta": map[string]any{"translated": true},
	}, changes)

	// An untouched context diffs to empty.
	untouched := NewVirtualContext(original, "en", "de")
	assert.Empty(t, untouched.Changes(original))
}
