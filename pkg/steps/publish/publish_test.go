package publish

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
)

func newPostContext(t *testing.T) *execution.PostContext {
	t.Helper()

	store := &mocks.MockPostStore{}
	store.On("GetPost", mock.Anything, "42").Return(&models.PostRecord{ID: "42", Status: "draft"}, nil)

	ec, err := execution.NewPostContext(context.Background(), store, "42", "en", "de")
	require.NoError(t, err)

	return ec
}

func TestExecuteDefaultsToPublish(t *testing.T) {
	ec := newPostContext(t)

	err := NewStep().Execute(context.Background(), ec, map[string]any{}, slog.Default())

	require.NoError(t, err)
	assert.Equal(t, "publish", ec.Get("post.status"))

	record, _ := ec.PendingChanges()
	assert.Equal(t, map[string]any{"status": "publish"}, record)
}

func TestExecuteCustomStatus(t *testing.T) {
	ec := newPostContext(t)

	err := NewStep().Execute(context.Background(), ec, map[string]any{"status": "private"}, slog.Default())

	require.NoError(t, err)
	assert.Equal(t, "private", ec.Get("post.status"))
}

func TestEligibility(t *testing.T) {
	step := NewStep()

	eligibility := step.CanExecute(execution.NewVirtualContext(nil, "en", "de"))
	assert.False(t, eligibility.OK)
	assert.Contains(t, eligibility.Reason, "virtual")

	assert.True(t, step.CanExecute(newPostContext(t)).OK)
}
