package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/mbraga/flowsmith/pkg/log"
	"github.com/mbraga/flowsmith/pkg/workflow"
)

// ErrInvalidWorkflow signals a validation pass that produced errors.
var ErrInvalidWorkflow = errors.New("workflow is invalid")

func NewValidateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Aliases:   []string{"v"},
		Usage:     "Validate a workflow file and report every issue",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "allow-no-trigger",
				Usage: "Suppress the missing-trigger warning",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			b, err := loadWorkflow(command)
			if err != nil {
				return err
			}

			result := b.Validate(workflow.ValidateOptions{
				AllowNoTrigger: command.Bool("allow-no-trigger"),
			})

			for _, issue := range result.Errors {
				_, _ = fmt.Fprintf(os.Stdout, "error   %s\n", issue)
			}

			for _, issue := range result.Warnings {
				_, _ = fmt.Fprintf(os.Stdout, "warning %s\n", issue)
			}

			if !result.Valid {
				return fmt.Errorf("%w: %d error(s)", ErrInvalidWorkflow, len(result.Errors))
			}

			_, _ = fmt.Fprintln(os.Stdout, "workflow is valid")

			return nil
		},
	}
}

func loadWorkflow(command *cli.Command) (*workflow.Builder, error) {
	log.Setup(command.String("log-level"))

	path := command.Args().First()
	if path == "" {
		return nil, errors.New("missing workflow file argument")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return workflow.Import(data)
}
