// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/janderssonse/lian/internal/config"
	"github.com/janderssonse/lian/internal/domain"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

const maskedKey = "********"

func (app *CLI) createConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect or create the settings file",
		Commands: []*cli.Command{
			{
				Name:   "path",
				Usage:  "Print where settings are read from",
				Action: app.runConfigPath,
			},
			{
				Name:   "show",
				Usage:  "Print the effective settings, with the API key masked",
				Action: app.runConfigShow,
			},
			{
				Name:   "init",
				Usage:  "Create or update the settings file interactively",
				Action: app.runConfigInit,
			},
		},
	}
}

func (app *CLI) runConfigPath(_ context.Context, _ *cli.Command) error {
	_, err := fmt.Fprintln(app.stdout, app.configPath)

	return err
}

func (app *CLI) runConfigShow(_ context.Context, _ *cli.Command) error {
	cfg, err := config.Load(app.configPath)
	if err != nil {
		return domain.NewExitError(ExitConfigError, "Failed to load configuration", err)
	}

	if cfg.HasAPIKey() {
		cfg.APIKey = maskedKey
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return domain.NewExitError(ExitGeneralError, "Failed to encode configuration", err)
	}

	_, err = app.stdout.Write(data)

	return err
}

func (app *CLI) runConfigInit(_ context.Context, _ *cli.Command) error {
	if !app.isTerminal() {
		return usageError("config init needs an interactive terminal")
	}

	cfg, err := config.Load(app.configPath)
	if err != nil {
		return domain.NewExitError(ExitConfigError, "Failed to load configuration", err)
	}

	if err := app.runForm(&cfg); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			_, err = fmt.Fprintln(app.stdout, "Nothing saved.")

			return err
		}

		return domain.NewExitError(ExitGeneralError, "Settings form failed", err)
	}

	if _, err := config.NewStore(app.configPath, nil).Save(cfg); err != nil {
		return domain.NewExitError(ExitConfigError, "Failed to save configuration", err)
	}

	_, err = fmt.Fprintf(app.stdout, "Saved settings to %s\n", app.configPath)

	return err
}
