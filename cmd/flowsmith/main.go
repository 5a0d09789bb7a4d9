package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/mbraga/flowsmith/pkg/log"
)

func main() {
	logger := log.WithModule("flowsmith")

	cmd := &cli.Command{
		Name:                  "flowsmith",
		Usage:                 "Inspect and rewrite workflow graph files",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			NewValidateCommand(),
			NewFormatCommand(),
			NewReidCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logger.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
