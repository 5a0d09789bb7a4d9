package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"
)

func NewFormatCommand() *cli.Command {
	return &cli.Command{
		Name:      "fmt",
		Usage:     "Re-serialize a workflow file into canonical form",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Usage:   "Rewrite the file in place instead of printing",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format registered with the serializer table",
				Value:   "json",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			b, err := loadWorkflow(command)
			if err != nil {
				return err
			}

			out, err := b.ExportFormat(command.String("format"))
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
