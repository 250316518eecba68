// Package publish provides the step that moves a persisted post into a
// publishable status.
package publish

import (
	"context"
	"log/slog"

	"github.com/linguaflow/linguaflow/pkg/execution"
	"github.com/linguaflow/linguaflow/pkg/protocol"
)

const defaultStatus = "publish"

// Step flips post.status on a persisted record. It is not compatible
// with virtual contexts: publishing a post that does not exist yet has
// no meaning.
type Step struct {
	protocol.Base
}

func NewStep() *Step {
	return &Step{
		Base: protocol.Base{
			StepID:          "publish",
			StepName:        "Publish",
			StepDescription: "Sets the post status so the record goes live on commit.",
			Paths:           []string{"post.status"},
			External:        false,
		},
	}
}

func (s *Step) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status": map[string]any{
				"type":        "string",
				"description": "Status to set. Defaults to \"publish\".",
				"examples":    []string{"publish", "pending", "private"},
			},
		},
	}
}

func (s *Step) ValidateConfig(config map[string]any) []string {
	return protocol.ValidateWithSchema(s.Schema(), config)
}

func (s *Step) Execute(_ context.Context, ec execution.Context, config map[string]any, logger *slog.Logger) error {
	status, _ := config["status"].(string)
	if status == "" {
		status = defaultStatus
	}

	logger.Info("Publishing post", "post_id", ec.PostID(), "status", status)
	ec.Set("post.status", status)

	return nil
}
