// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

// Package cli provides the command-line interface: the root command that
// launches the TUI, plus version and config subcommands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/janderssonse/lian/internal/config"
	"github.com/janderssonse/lian/internal/orchestrator"
	"github.com/janderssonse/lian/internal/tui"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// Exit codes follow standard Unix conventions for better scripting support.
const (
	ExitSuccess         = 0  // Operation completed successfully
	ExitGeneralError    = 1  // Generic failure (catch-all)
	ExitUsageError      = 2  // Invalid usage, including no terminal
	ExitConfigError     = 3  // Configuration file error
	ExitPermissionError = 4  // Permission denied
	ExitSystemError     = 12 // System call failed
)

// Version is set at build time with -ldflags.
var Version = "dev"

// CLI holds the parsed global flags and the seams tests replace.
type CLI struct {
	app        *cli.Command
	verbose    bool
	logFile    string
	configPath string

	stdout     io.Writer
	isTerminal func() bool
	runTUI     func(ctx context.Context, o *orchestrator.Orchestrator) error
	runForm    func(cfg *config.Config) error
}

// NewCLI creates the command tree.
func NewCLI() *CLI {
	app := &CLI{
		stdout:     os.Stdout,
		isTerminal: stdoutIsTerminal,
		runTUI: func(ctx context.Context, o *orchestrator.Orchestrator) error {
			return tui.Run(ctx, o)
		},
		runForm: runConfigForm,
	}

	app.app = &cli.Command{
		Name:    "lian",
		Usage:   "A terminal assistant for pacman, paru and yay",
		Version: Version,
		// -v is verbose; the version subcommand replaces --version.
		HideVersion: true,
		Suggest:     true,
		Description: `Runs package updates, installs and removals under supervision, shows
their output live and can ask an AI service to explain what happened.

Without a command lian opens the interactive interface.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "verbose",
				Usage:       "log debug messages",
				Aliases:     []string{"v"},
				Destination: &app.verbose,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "write the log to `FILE`",
				Value:       config.GetLogPath(),
				Destination: &app.logFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Usage:       "read settings from `FILE`",
				Aliases:     []string{"c"},
				Value:       config.GetConfigPath(),
				Sources:     cli.EnvVars("LIAN_CONFIG"),
				Destination: &app.configPath,
			},
		},
		Action: app.defaultAction,
		Commands: []*cli.Command{
			app.createVersionCommand(),
			app.createConfigCommand(),
		},
	}

	return app
}

// Run executes the CLI application.
func (app *CLI) Run(ctx context.Context, args []string) error {
	return app.app.Run(ctx, args)
}

// App returns the root command.
func App() *cli.Command {
	return NewCLI().app
}

func (app *CLI) createVersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show the lian version",
		Action: func(_ context.Context, _ *cli.Command) error {
			_, err := fmt.Fprintf(app.stdout, "lian %s\n", Version)

			return err
		},
	}
}

// defaultAction launches the TUI.
func (app *CLI) defaultAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Present() {
		return usageError(fmt.Sprintf("unknown command %q, see lian --help", cmd.Args().First()))
	}

	if !app.isTerminal() {
		return usageError("lian needs an interactive terminal")
	}

	return app.launch(ctx)
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}
