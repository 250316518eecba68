// Package mocks provides testify mock implementations of the engine's
// collaborator interfaces for use in tests.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linguaflow/linguaflow/pkg/models"
	"github.com/linguaflow/linguaflow/pkg/translator"
)

// MockPostStore is a mock implementation of the execution.PostStore
// interface.
type MockPostStore struct {
	mock.Mock
}

func (m *MockPostStore) GetPost(ctx context.Context, id string) (*models.PostRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.PostRecord), args.Error(1)
}

func (m *MockPostStore) UpdatePostFields(ctx context.Context, id string, fields map[string]any) error {
	args := m.Called(ctx, id, fields)

	return args.Error(0)
}

func (m *MockPostStore) UpdatePostMeta(ctx context.Context, id string, key string, value any) error {
	args := m.Called(ctx, id, key, value)

	return args.Error(0)
}

// MockTermTranslator is a mock implementation of the
// taxonomy.TermTranslator interface.
type MockTermTranslator struct {
	mock.Mock
}

func (m *MockTermTranslator) TermEquivalents(ctx context.Context, taxonomy, termID string) (map[string]models.Term, error) {
	args := m.Called(ctx, taxonomy, termID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(map[string]models.Term), args.Error(1)
}

func (m *MockTermTranslator) IsTranslatable(taxonomy string) bool {
	args := m.Called(taxonomy)

	return args.Bool(0)
}

// MockLanguageResolver is a mock implementation of the
// workflow.LanguageResolver interface.
type MockLanguageResolver struct {
	mock.Mock
}

func (m *MockLanguageResolver) PostLanguage(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)

	return args.String(0), args.Error(1)
}

func (m *MockLanguageResolver) SourceLanguage(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)

	return args.String(0), args.Error(1)
}

func (m *MockLanguageResolver) DefaultLanguage() string {
	args := m.Called()

	return args.String(0)
}

// MockTranslator is a mock implementation of the translator.Translator
// interface.
type MockTranslator struct {
	mock.Mock
}

func (m *MockTranslator) Translate(ctx context.Context, req translator.Request) (string, error) {
	args := m.Called(ctx, req)

	return args.String(0), args.Error(1)
}
