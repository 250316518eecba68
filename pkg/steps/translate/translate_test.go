package translate

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linguaflow/linguaflow/pkg/execution"
	"github.com/linguaflow/linguaflow/pkg/mocks"
	"github.com/linguaflow/linguaflow/pkg/translator"
)

func newContext(payload map[string]any, service translator.Translator) *execution.VirtualContext {
	ec := execution.NewVirtualContext(payload, "en", "de")
	if service != nil {
		ec.RegisterService(ServiceName, service)
	}

	return ec
}

func TestExecuteTranslatesConfiguredPaths(t *testing.T) {
	service := &mocks.MockTranslator{}
	service.On("Translate", mock.Anything, translator.Request{
		Text:           "Hello",
		SourceLanguage: "en",
		TargetLanguage: "de",
	}).Return("Hallo", nil)
	service.On("Translate", mock.Anything, translator.Request{
		Text:           "<p>World</p>",
		SourceLanguage: "en",
		TargetLanguage: "de",
	}).Return("<p>Welt</p>", nil)

	ec := newContext(map[string]any{
		"post": map[string]any{"title": "Hello", "content": "<p>World</p>", "status": "draft"},
	}, service)

	step := NewStep()
	err := step.Execute(context.Background(), ec, map[string]any{
		"paths": []any{"post.title", "post.content"},
	}, slog.Default())

	require.NoError(t, err)
	assert.Equal(t, "Hallo", ec.Get("post.title"))
	assert.Equal(t, "<p>Welt</p>", ec.Get("post.content"))
	assert.Equal(t, "draft", ec.Get("post.status"))
	service.AssertExpectations(t)
}

func TestExecuteSkipsNonStringAndEmptyValues(t *testing.T) {
	service := &mocks.MockTranslator{}

	ec := newContext(map[string]any{
		"post": map[string]any{"title": "", "views": 10},
	}, service)

	err := NewStep().Execute(context.Background(), ec, map[string]any{
		"paths": []any{"post.title", "post.views", "post.missing"},
	}, slog.Default())

	require.NoError(t, err)
	service.AssertNotCalled(t, "Translate", mock.Anything, mock.Anything)
}

func TestExecutePropagatesFormat(t *testing.T) {
	service := &mocks.MockTranslator{}
	service.On("Translate", mock.Anything, translator.Request{
		Text:           "<p>Hi</p>",
		SourceLanguage: "en",
		TargetLanguage: "de",
		Format:         "html",
	}).Return("<p>Hallo</p>", nil)

	ec := newContext(map[string]any{"post": map[string]any{"content": "<p>Hi</p>"}}, service)

	err := NewStep().Execute(context.Background(), ec, map[string]any{
		"paths":  []string{"post.content"},
		"format": "html",
	}, slog.Default())

	require.NoError(t, err)
	service.AssertExpectations(t)
}

func TestExecuteTranslationFailure(t *testing.T) {
	service := &mocks.MockTranslator{}
	service.On("Translate", mock.Anything, mock.Anything).Return("", errors.New("rate limited"))

	ec := newContext(map[string]any{"post": map[string]any{"title": "Hello"}}, service)

	err := NewStep().Execute(context.Background(), ec, map[string]any{
		"paths": []any{"post.title"},
	}, slog.Default())

	require.ErrorContains(t, err, "post.title")
	assert.Equal(t, "Hello", ec.Get("post.title"))
}

func TestExecuteRejectsWrongServiceType(t *testing.T) {
	ec := execution.NewVirtualContext(nil, "en", "de")
	ec.RegisterService(ServiceName, "not a translator")

	err := NewStep().Execute(context.Background(), ec, map[string]any{"paths": []any{"post.title"}}, slog.Default())

	assert.ErrorContains(t, err, "translator")
}

func TestValidateConfig(t *testing.T) {
	step := NewStep()

	assert.Empty(t, step.ValidateConfig(map[string]any{"paths": []any{"post.title"}}))
	assert.NotEmpty(t, step.ValidateConfig(map[string]any{}))
	assert.NotEmpty(t, step.ValidateConfig(map[string]any{"paths": []any{}}))
	assert.NotEmpty(t, step.ValidateConfig(map[string]any{"paths": []any{"post.title"}, "format": "pdf"}))
}

func TestEligibilityRequiresService(t *testing.T) {
	eligibility := NewStep().CanExecute(execution.NewVirtualContext(nil, "en", "de"))

	assert.False(t, eligibility.OK)
	assert.Contains(t, eligibility.Reason, ServiceName)
}
