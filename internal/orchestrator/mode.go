// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package orchestrator

import "github.com/janderssonse/lian/internal/domain"

// Mode is the top-level screen. Exactly one is active.
type Mode int

// Modes in menu order.
const (
	ModeDashboard Mode = iota
	ModeUpdate
	ModeInstall
	ModeRemove
	ModeQuery
	ModeSettings
	ModeShell
)

// Modes lists every mode in menu order.
var Modes = []Mode{ModeDashboard, ModeUpdate, ModeInstall, ModeRemove, ModeQuery, ModeSettings, ModeShell}

func (m Mode) String() string {
	switch m {
	case ModeDashboard:
		return "Dashboard"
	case ModeUpdate:
		return "Update"
	case ModeInstall:
		return "Install"
	case ModeRemove:
		return "Remove"
	case ModeQuery:
		return "Query"
	case ModeSettings:
		return "Settings"
	case ModeShell:
		return "Shell"
	default:
		return "Unknown"
	}
}

// Operation returns the package operation a mode runs, if any.
func (m Mode) Operation() (domain.Operation, bool) {
	switch m {
	case ModeUpdate:
		return domain.OpUpdate, true
	case ModeInstall:
		return domain.OpInstall, true
	case ModeRemove:
		return domain.OpRemove, true
	case ModeShell:
		return domain.OpCustom, true
	default:
		return 0, false
	}
}

// Phase is the sub-state of one mode. Each mode uses its own subset.
type Phase int

// Phases.
const (
	PhaseIdle Phase = iota

	// Update, Install and Remove.
	PhaseDetectingManager
	PhaseSearching
	PhaseBrowsing
	PhasePreviewingChanges
	PhasePreviewingInstall
	PhasePreviewingRemove
	PhaseExecuting
	PhaseCompleted
	PhaseAnalyzing
	PhaseAnalysisComplete
	PhaseError

	// Shell.
	PhaseAwaitingInput
	PhaseRunning
	PhaseDone

	// Query.
	PhaseResults
	PhaseDetail
)

var phaseNames = map[Phase]string{
	PhaseIdle:              "Idle",
	PhaseDetectingManager:  "DetectingManager",
	PhaseSearching:         "Searching",
	PhaseBrowsing:          "Browsing",
	PhasePreviewingChanges: "PreviewingChanges",
	PhasePreviewingInstall: "PreviewingInstall",
	PhasePreviewingRemove:  "PreviewingRemove",
	PhaseExecuting:         "Executing",
	PhaseCompleted:         "Completed",
	PhaseAnalyzing:         "Analyzing",
	PhaseAnalysisComplete:  "AnalysisComplete",
	PhaseError:             "Error",
	PhaseAwaitingInput:     "AwaitingInput",
	PhaseRunning:           "Running",
	PhaseDone:              "Done",
	PhaseResults:           "Results",
	PhaseDetail:            "Detail",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}

	return "Unknown"
}

// Terminal reports whether a run has ended in this phase.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseAnalysisComplete || p == PhaseError
}

// Previewing reports whether p is a confirmation phase.
func (p Phase) Previewing() bool {
	return p == PhasePreviewingChanges || p == PhasePreviewingInstall || p == PhasePreviewingRemove
}

// selectPhase is the browse/search entry after detection.
func selectPhase(op domain.Operation) Phase {
	switch op {
	case domain.OpInstall:
		return PhaseSearching
	case domain.OpRemove:
		return PhaseBrowsing
	default:
		return PhasePreviewingChanges
	}
}

func previewPhase(op domain.Operation) Phase {
	switch op {
	case domain.OpInstall:
		return PhasePreviewingInstall
	case domain.OpRemove:
		return PhasePreviewingRemove
	default:
		return PhasePreviewingChanges
	}
}

// View selects what the terminal phases show.
type View int

// Views.
const (
	ViewLog View = iota
	ViewAnalysis
)
