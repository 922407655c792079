// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package orchestrator

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/lian/internal/config"
	"github.com/janderssonse/lian/internal/domain"
	"github.com/janderssonse/lian/internal/prompt"
)

func (o *Orchestrator) detectCmd(mode Mode, epoch uint64) tea.Cmd {
	ctx, detector := o.ctx, o.deps.Detector

	return func() tea.Msg {
		flavor, err := detector.Detect(ctx)

		return managerDetected{mode: mode, epoch: epoch, flavor: flavor, err: err}
	}
}

func (o *Orchestrator) probeCmd() tea.Cmd {
	ctx, prober := o.ctx, o.deps.Prober

	return func() tea.Msg {
		info, err := prober.Probe(ctx)

		return systemProbed{info: info, err: err}
	}
}

func (o *Orchestrator) countsCmd(epoch uint64) tea.Cmd {
	ctx, q := o.ctx, o.querier()

	return func() tea.Msg {
		counts, err := q.Counts(ctx)

		return countsLoaded{epoch: epoch, counts: counts, err: err}
	}
}

// searchCmd looks up q for mode. Install searches the sync repositories;
// Remove and Query search installed packages, listing explicit ones when the
// keyword is empty.
func (o *Orchestrator) searchCmd(mode Mode, q domain.SearchQuery) tea.Cmd {
	ctx, querier := o.ctx, o.querier()
	keyword := strings.TrimSpace(q.Keyword)

	return func() tea.Msg {
		var (
			pkgs []domain.Package
			err  error
		)

		switch {
		case mode == ModeInstall:
			pkgs, err = querier.SearchSync(ctx, keyword)
		case keyword == "":
			pkgs, err = querier.Explicit(ctx)
		default:
			pkgs, err = querier.SearchLocal(ctx, keyword)
		}

		return searchResult{mode: mode, seq: q.Seq, pkgs: pkgs, err: err}
	}
}

// previewCmd fetches the change preview together with the explicit package
// list used later to diff what the run changed.
func (o *Orchestrator) previewCmd(mode Mode, epoch uint64, op domain.Operation, targets []string) tea.Cmd {
	ctx, q := o.ctx, o.querier()

	return func() tea.Msg {
		before, _ := q.Explicit(ctx)

		var (
			preview domain.Preview
			err     error
		)

		switch op {
		case domain.OpInstall:
			preview, err = q.PreviewInstall(ctx, targets)
		case domain.OpRemove:
			preview, err = q.PreviewRemove(ctx, targets)
		default:
			preview.Operation = op
			preview.Updates, err = q.PendingUpdates(ctx)
		}

		return previewLoaded{mode: mode, epoch: epoch, preview: preview, before: before, err: err}
	}
}

func (o *Orchestrator) detailCmd(epoch uint64, name string) tea.Cmd {
	ctx, q := o.ctx, o.querier()

	return func() tea.Msg {
		detail, err := q.Detail(ctx, name)

		return detailLoaded{epoch: epoch, detail: detail, err: err}
	}
}

func (o *Orchestrator) authorizeCmd(mode Mode, epoch uint64) tea.Cmd {
	return o.deps.Authorizer.Authorize(func(err error) tea.Msg {
		return authorized{mode: mode, epoch: epoch, err: err}
	})
}

func waitOutput(run uint64, job Job) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-job.Events()

		return outputMsg{run: run, event: ev, ok: ok}
	}
}

func waitResult(run uint64, job Job) tea.Cmd {
	return func() tea.Msg {
		return commandFinished{run: run, result: job.Wait()}
	}
}

// analysisInput is what an analysis task needs, copied out of the mode state.
type analysisInput struct {
	mode    Mode
	epoch   uint64
	cfg     config.Config
	flavor  domain.Flavor
	system  domain.SystemInfo
	op      domain.Operation
	targets []string
	output  string
	before  []domain.Package
	updates []domain.Update
}

func (o *Orchestrator) analysisCmd(in analysisInput) tea.Cmd {
	ctx, cancel := context.WithCancel(o.ctx)
	o.analysisCancel = cancel

	q, newAnalyzer := o.querier(), o.deps.Analyzer

	return func() tea.Msg {
		defer cancel()

		analyzer, err := newAnalyzer(in.cfg)
		if err != nil {
			return analysisDone{mode: in.mode, epoch: in.epoch, err: err}
		}

		var changes prompt.ChangeSet

		if in.before != nil {
			if after, err := q.Explicit(ctx); err == nil {
				changes = prompt.Diff(in.before, after)
			}
		}

		if len(changes.Upgraded) == 0 {
			changes.Upgraded = in.updates
		}

		text, err := analyzer.Analyze(ctx, domain.AnalysisRequest{
			Prompt: prompt.Build(prompt.Input{
				Operation: in.op,
				Flavor:    in.flavor,
				System:    in.system,
				Targets:   in.targets,
				Output:    in.output,
				Changes:   changes,
			}),
			Model:       in.cfg.Model,
			Temperature: in.cfg.Temperature,
		})

		return analysisDone{mode: in.mode, epoch: in.epoch, text: text, err: err}
	}
}

func (o *Orchestrator) saveReportCmd(mode Mode, epoch uint64, r domain.Report) tea.Cmd {
	ctx, store := o.ctx, o.deps.Reports(o.cfg)

	return func() tea.Msg {
		path, err := store.Save(ctx, r)

		return reportSaved{mode: mode, epoch: epoch, path: path, err: err}
	}
}

func (o *Orchestrator) saveSettingsCmd(epoch uint64, cfg config.Config) tea.Cmd {
	store := o.deps.Configs

	return func() tea.Msg {
		saved, err := store.Save(cfg)

		return settingsSaved{epoch: epoch, cfg: saved, err: err}
	}
}
