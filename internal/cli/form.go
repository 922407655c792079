// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"slices"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/janderssonse/lian/internal/config"
)

// runConfigForm asks for the settings most users change and writes the
// answers into cfg.
func runConfigForm(cfg *config.Config) error {
	temperature := strconv.FormatFloat(cfg.Temperature, 'f', -1, 64)
	analyzed := toggledOperations(cfg.AI)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("API key").
				Description("Bearer key for the analysis service. LIAN_AI_KEY overrides it.").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.APIKey),
			huh.NewInput().
				Title("Model").
				Value(&cfg.Model),
			huh.NewInput().
				Title("Temperature").
				Description("Between 0 and 2").
				Validate(func(s string) error {
					_, err := config.ParseTemperature(s)

					return err
				}).
				Value(&temperature),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Analyze the output of").
				Options(
					huh.NewOption("Update", "update"),
					huh.NewOption("Install", "install"),
					huh.NewOption("Remove", "remove"),
				).
				Value(&analyzed),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	return applyFormAnswers(cfg, temperature, analyzed)
}

func toggledOperations(t config.AIToggles) []string {
	var ops []string

	if t.Update {
		ops = append(ops, "update")
	}

	if t.Install {
		ops = append(ops, "install")
	}

	if t.Remove {
		ops = append(ops, "remove")
	}

	return ops
}

func applyFormAnswers(cfg *config.Config, temperature string, analyzed []string) error {
	t, err := config.ParseTemperature(temperature)
	if err != nil {
		return err
	}

	cfg.Temperature = t
	cfg.AI = config.AIToggles{
		Update:  slices.Contains(analyzed, "update"),
		Install: slices.Contains(analyzed, "install"),
		Remove:  slices.Contains(analyzed, "remove"),
	}

	return nil
}
