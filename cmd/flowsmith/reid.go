package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"
)

func NewReidCommand() *cli.Command {
	return &cli.Command{
		Name:      "reid",
		Usage:     "Regenerate deterministic node identifiers",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Usage:   "Rewrite the file in place instead of printing",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			b, err := loadWorkflow(command)
			if err != nil {
				return err
			}

			b.RegenerateNodeIDs()

			out, err := b.ExportFormat("json")
			if err != nil {
				return err
			}

			if command.Bool("write") {
				return os.WriteFile(command.Args().First(), append(out, '\n'), 0o644)
			}

			_, _ = fmt.Fprintln(os.Stdout, string(out))

			return nil
		},
	}
}
