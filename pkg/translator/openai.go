package translator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultModel = openai.GPT4oMini

// OpenAITranslator translates fragments through the OpenAI chat
// completion API.
type OpenAITranslator struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *slog.Logger
}

// OpenAIOption adjusts an OpenAITranslator.
type OpenAIOption func(*OpenAITranslator)

// WithModel overrides the chat model used for translation.
func WithModel(model string) OpenAIOption {
	return func(t *OpenAITranslator) {
		if model != "" {
			t.model = model
		}
	}
}

// WithTemperature overrides the sampling temperature.
func WithTemperature(temperature float32) OpenAIOption {
	return func(t *OpenAITranslator) {
		t.temperature = temperature
	}
}

func NewOpenAITranslator(apiKey string, logger *slog.Logger, opts ...OpenAIOption) *OpenAITranslator {
	if logger == nil {
		logger = slog.Default()
	}

	translator := &OpenAITranslator{
		client:      openai.NewClient(apiKey),
		model:       defaultModel,
		temperature: 0.2,
		logger:      logger.With("module", "openai_translator"),
	}

	for _, opt := range opts {
		opt(translator)
	}

	return translator
}

// Translate sends one completion request per fragment. Empty fragments
// short-circuit without an API call.
func (t *OpenAITranslator) Translate(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return req.Text, nil
	}

	t.logger.Debug("Translating fragment",
		"source_language", req.SourceLanguage,
		"target_language", req.TargetLanguage,
		"format", req.Format,
		"length", len(req.Text))

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       t.model,
		Temperature: t.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt(req),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Text,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("translation returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

func systemPrompt(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a professional translator. Translate the user's content from %s to %s.",
		languageOrAny(req.SourceLanguage), req.TargetLanguage)
	b.WriteString(" Preserve the meaning, tone and register of the original.")

	if req.Format == "html" {
		b.WriteString(" The content is HTML: keep every tag, attribute and entity exactly as it is and translate only the text between tags.")
	} else {
		b.WriteString(" Return only the translated text, with no explanations or quotes.")
	}

	return b.String()
}

func languageOrAny(language string) string {
	if language == "" {
		return "the detected language"
	}

	return language
}
