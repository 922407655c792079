// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/janderssonse/lian/internal/adapters/ai"
	"github.com/janderssonse/lian/internal/adapters/network"
	"github.com/janderssonse/lian/internal/adapters/pacman"
	"github.com/janderssonse/lian/internal/adapters/platform"
	"github.com/janderssonse/lian/internal/adapters/report"
	"github.com/janderssonse/lian/internal/config"
	"github.com/janderssonse/lian/internal/domain"
	"github.com/janderssonse/lian/internal/logging"
	"github.com/janderssonse/lian/internal/orchestrator"
	"github.com/janderssonse/lian/internal/supervisor"
	"go.uber.org/zap"
)

func usageError(message string) error {
	return domain.NewExitError(ExitUsageError, message, nil)
}

// launch wires the adapters into an orchestrator and runs the TUI. Every
// supervised child is stopped before it returns.
func (app *CLI) launch(ctx context.Context) error {
	cfg, err := config.Load(app.configPath)
	if err != nil {
		return domain.NewExitError(ExitConfigError, "Failed to load configuration", err)
	}

	logger, err := logging.New(logging.Options{Path: app.logFile, Verbose: app.verbose})
	if err != nil {
		code := ExitSystemError
		if errors.Is(err, fs.ErrPermission) {
			code = ExitPermissionError
		}

		return domain.NewExitError(code, "Failed to open the log file", err)
	}

	defer func() { _ = logger.Sync() }()

	logger.Info("starting lian",
		zap.String("version", Version),
		zap.String("config", app.configPath),
		zap.String("model", cfg.Model),
		zap.Bool("api_key_set", cfg.HasAPIKey()))

	orch, sup := app.wire(cfg, logger)
	defer sup.CleanupAll()

	if err := app.runTUI(ctx, orch); err != nil {
		logger.Error("TUI exited with an error", zap.Error(err))

		return domain.NewExitError(ExitGeneralError, "Failed to run the interactive interface", err)
	}

	return nil
}

// wire builds the orchestrator and the supervisor it runs commands through.
// Child processes get the proxy configured at startup.
func (app *CLI) wire(cfg config.Config, logger *zap.Logger) (*orchestrator.Orchestrator, *supervisor.Supervisor) {
	proxyEnv := network.ProxyEnv(cfg.Proxy)

	runner := platform.NewCommandRunner(proxyEnv...)
	files := platform.NewFileManager()
	detector := platform.NewSystemDetector(runner, files)

	sup := supervisor.New(
		supervisor.WithLogger(logger),
		supervisor.WithEnv(proxyEnv...),
		supervisor.WithLockGuard(&supervisor.LockGuard{
			Path:   cfg.Lock.Path,
			Tool:   cfg.Lock.Tool,
			Finder: supervisor.ProcScanner{},
			Logger: logger,
		}),
	)

	orch := orchestrator.New(cfg, orchestrator.Deps{
		Detector: detector,
		Prober:   detector,
		Querier: func(flavor domain.Flavor) domain.PackageQuerier {
			return pacman.NewClient(runner, flavor)
		},
		Executor:   orchestrator.NewSupervisorExecutor(sup),
		Authorizer: orchestrator.SudoAuthorizer{},
		Analyzer:   analyzerFactory(logger),
		Reports: func(c config.Config) domain.ReportStore {
			return report.NewStore(c.ReportRoot(), files, logger)
		},
		Configs: config.NewStore(app.configPath, logger),
		Logger:  logger,
	})

	return orch, sup
}

// analyzerFactory builds a client from the settings current at analysis
// time, so edits in the Settings mode apply without a restart.
func analyzerFactory(logger *zap.Logger) func(config.Config) (domain.Analyzer, error) {
	return func(c config.Config) (domain.Analyzer, error) {
		client, err := ai.New(ai.Options{
			URL:    c.APIURL,
			APIKey: c.APIKey,
			Proxy:  c.Proxy,
			Logger: logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create analysis client: %w", err)
		}

		return client, nil
	}
}
