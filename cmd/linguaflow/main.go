package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/linguaflow/linguaflow/pkg/cmd"
	"github.com/linguaflow/linguaflow/pkg/log"
	"github.com/linguaflow/linguaflow/pkg/models"
	"github.com/linguaflow/linguaflow/pkg/otelhelper"
	"github.com/linguaflow/linguaflow/pkg/persistence"
	"github.com/linguaflow/linguaflow/pkg/registry"
	"github.com/linguaflow/linguaflow/pkg/translator"
	"github.com/linguaflow/linguaflow/pkg/workflow"
)

func main() {
	root := &cli.Command{
		Name:                  "linguaflow",
		EnableShellCompletion: true,
		Usage:                 "Run content-translation workflows",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "PostgreSQL URL or file-persistence root directory",
				Value:   "./data",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "default-language",
				Usage:   "Language assumed for posts without translation relationships",
				Value:   "en",
				Sources: cli.EnvVars("DEFAULT_LANGUAGE"),
			},
			&cli.StringFlag{
				Name:    "openai-api-key",
				Usage:   "API key for the OpenAI translator. Translation steps skip when unset.",
				Sources: cli.EnvVars("OPENAI_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "openai-model",
				Usage:   "Chat model used for translation",
				Sources: cli.EnvVars("OPENAI_MODEL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export execution spans via OTLP",
				Sources: cli.EnvVars("LINGUAFLOW_TRACING"),
			},
		},
		Commands: []*cli.Command{
			runCommand(),
			runVirtualCommand(),
			validateCommand(),
			stepsCommand(),
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRegistry(command *cli.Command) *registry.Registry {
	logger := log.WithModule("linguaflow")

	services := cmd.Services{}
	if apiKey := command.String("openai-api-key"); apiKey != "" {
		services.Translator = translator.NewOpenAITranslator(apiKey, logger,
			translator.WithModel(command.String("openai-model")))
	}

	return cmd.NewRegistry(logger, services)
}

// setupTracing installs the global OTLP tracer provider when --tracing
// is set. Spans stay no-op otherwise.
func setupTracing(ctx context.Context, command *cli.Command) error {
	if !command.Bool("tracing") {
		return nil
	}

	if _, err := otelhelper.NewTracer(ctx, "linguaflow"); err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}

	return nil
}

func newPersistence(ctx context.Context, command *cli.Command) (persistence.Persistence, error) {
	return cmd.NewPersistence(ctx, log.WithModule("persistence"),
		command.String("database-url"), command.String("default-language"))
}

// loadWorkflow reads the definition from --workflow-file when given,
// otherwise from the workflow repository by --workflow ID.
func loadWorkflow(ctx context.Context, command *cli.Command, repo persistence.WorkflowRepository) (*models.Workflow, error) {
	if file := command.String("workflow-file"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read workflow file: %w", err)
		}

		var wf models.Workflow
		if err := json.Unmarshal(data, &wf); err != nil {
			return nil, fmt.Errorf("failed to decode workflow file: %w", err)
		}

		return &wf, nil
	}

	id := command.String("workflow")
	if id == "" {
		return nil, fmt.Errorf("either --workflow or --workflow-file is required")
	}

	if repo == nil {
		return nil, fmt.Errorf("--workflow requires a configured database")
	}

	return repo.GetByID(ctx, id)
}

func workflowFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "workflow",
			Aliases: []string{"w"},
			Usage:   "ID of a stored workflow",
		},
		&cli.StringFlag{
			Name:  "workflow-file",
			Usage: "Path to a workflow definition JSON file",
		},
	}
}

func printJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(value)
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run a workflow against a persisted post and commit the changes",
		Flags: append(workflowFlags(),
			&cli.StringFlag{
				Name:     "post",
				Aliases:  []string{"p"},
				Usage:    "ID of the post to run against",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "source",
				Usage: "Source language override",
			},
			&cli.StringFlag{
				Name:  "target",
				Usage: "Target language override",
			},
			&cli.BoolFlag{
				Name:  "no-commit",
				Usage: "Execute but leave buffered changes uncommitted",
			},
		),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			if err := setupTracing(ctx, command); err != nil {
				return err
			}

			p, err := newPersistence(ctx, command)
			if err != nil {
				return err
			}
			defer func() { _ = p.Close(ctx) }()

			wf, err := loadWorkflow(ctx, command, p.WorkflowRepository())
			if err != nil {
				return err
			}

			reg := newRegistry(command)
			executor := workflow.NewExecutor(reg, log.WithModule("executor"))
			posts := p.PostRepository()
			runner := workflow.NewRunner(reg, executor, posts, posts, log.WithModule("runner"))

			result, err := runner.RunOnPost(ctx, command.String("post"), wf, workflow.RunOptions{
				SourceLanguage: command.String("source"),
				TargetLanguage: command.String("target"),
				SkipCommit:     command.Bool("no-commit"),
			})
			if err != nil {
				return err
			}

			if err := printJSON(result); err != nil {
				return err
			}

			if !result.Success {
				return cli.Exit("workflow finished with errors", 1)
			}

			return nil
		},
	}
}

func runVirtualCommand() *cli.Command {
	return &cli.Command{
		Name:  "run-virtual",
		Usage: "Run a workflow against a JSON payload without touching storage",
		Flags: append(workflowFlags(),
			&cli.StringFlag{
				Name:     "payload-file",
				Usage:    "Path to the payload JSON document",
				Required: true,
			},
		),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			if err := setupTracing(ctx, command); err != nil {
				return err
			}

			data, err := os.ReadFile(command.String("payload-file"))
			if err != nil {
				return fmt.Errorf("failed to read payload file: %w", err)
			}

			var payload map[string]any
			if err := json.Unmarshal(data, &payload); err != nil {
				return fmt.Errorf("failed to decode payload file: %w", err)
			}

			wf, err := loadWorkflow(ctx, command, nil)
			if err != nil {
				return err
			}

			reg := newRegistry(command)
			executor := workflow.NewExecutor(reg, log.WithModule("executor"))
			runner := workflow.NewRunner(reg, executor, nil, nil, log.WithModule("runner"))

			result, err := runner.RunVirtual(ctx, payload, wf)
			if err != nil {
				return err
			}

			if err := printJSON(result); err != nil {
				return err
			}

			if !result.Success {
				return cli.Exit("workflow finished with errors", 1)
			}

			return nil
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Check a workflow definition without executing it",
		Flags: workflowFlags(),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			var repo persistence.WorkflowRepository

			if command.String("workflow-file") == "" {
				p, err := newPersistence(ctx, command)
				if err != nil {
					return err
				}
				defer func() { _ = p.Close(ctx) }()

				repo = p.WorkflowRepository()
			}

			wf, err := loadWorkflow(ctx, command, repo)
			if err != nil {
				return err
			}

			var problems []string

			if err := wf.Validate(); err != nil {
				problems = append(problems, err.Error())
			}

			reg := newRegistry(command)
			executor := workflow.NewExecutor(reg, log.WithModule("executor"))

			for _, stepErr := range executor.Validate(wf, nil) {
				problems = append(problems, stepErr.Error())
			}

			if err := printJSON(map[string]any{
				"valid":    len(problems) == 0,
				"problems": problems,
			}); err != nil {
				return err
			}

			if len(problems) > 0 {
				return cli.Exit("workflow definition is invalid", 1)
			}

			return nil
		},
	}
}

func stepsCommand() *cli.Command {
	return &cli.Command{
		Name:  "steps",
		Usage: "Print the catalog of registered steps",
		Action: func(_ context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			return printJSON(newRegistry(command).Catalog())
		},
	}
}
