// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors.
var (
	ErrBusy              = errors.New("another command is still running")
	ErrUnknownOperation  = errors.New("unknown operation")
	ErrNoPackageManager  = errors.New("no supported package manager found")
	ErrNoPackages        = errors.New("no packages selected")
	ErrEmptyCommand      = errors.New("empty command")
	ErrUnterminatedQuote = errors.New("unterminated quote")
	ErrEmptyResponse     = errors.New("empty response from analysis service")
	ErrNotConfigured     = errors.New("analysis service is not configured")
)

// SpawnError reports that a child process could not be started.
type SpawnError struct {
	Argv []string
	Err  error
}

func (e *SpawnError) Error() string {
	name := "<empty>"
	if len(e.Argv) > 0 {
		name = e.Argv[0]
	}

	return fmt.Sprintf("failed to start %s: %v", name, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// ErrorInfo provides user-friendly error information.
type ErrorInfo struct {
	Message     string   // User-friendly message
	Suggestions []string // Actionable suggestions
	ShowDetails bool     // Whether to show technical details
}

type errorMatcher struct {
	patterns []string
	info     ErrorInfo
}

var errorMatchers = []errorMatcher{
	{
		patterns: []string{"unable to lock database", "db.lck"},
		info: ErrorInfo{
			Message:     "Package database is locked",
			Suggestions: []string{"Wait for the other package manager to finish", "Remove the stale lock only if nothing else is running"},
		},
	},
	{
		patterns: []string{"permission", "denied", "sudo", "root"},
		info: ErrorInfo{
			Message:     "Permission denied",
			Suggestions: []string{"Check that your user may run sudo"},
		},
	},
	{
		patterns: []string{"network", "connection", "timeout", "no such host", "failed retrieving file"},
		info: ErrorInfo{
			Message:     "Network connection failed",
			Suggestions: []string{"Check your internet connection", "Refresh the mirror list"},
		},
	},
	{
		patterns: []string{"target not found", "not found", "executable file not found"},
		info: ErrorInfo{
			Message:     "Target not found",
			Suggestions: []string{"Check the package name spelling"},
		},
	},
	{
		patterns: []string{"conflict", "breaks dependency", "could not satisfy dependencies"},
		info: ErrorInfo{
			Message:     "Dependency conflict",
			Suggestions: []string{"Read the transaction log above before retrying"},
		},
	},
	{
		patterns: []string{"not configured", "api key"},
		info: ErrorInfo{
			Message:     "Analysis is not configured",
			Suggestions: []string{"Set an API key in Settings or LIAN_AI_KEY"},
		},
	},
}

// GetErrorInfo analyzes an error and returns user-friendly information.
func GetErrorInfo(err error, verbose bool) ErrorInfo {
	if err == nil {
		return ErrorInfo{}
	}

	errStr := strings.ToLower(err.Error())

	for _, matcher := range errorMatchers {
		for _, pattern := range matcher.patterns {
			if strings.Contains(errStr, pattern) {
				info := matcher.info
				info.ShowDetails = verbose

				return info
			}
		}
	}

	return ErrorInfo{
		Message:     "Operation failed",
		Suggestions: []string{"See the log file for details"},
		ShowDetails: verbose,
	}
}

// FormatErrorMessage formats an error for display.
func FormatErrorMessage(err error, verbose bool) string {
	info := GetErrorInfo(err, verbose)

	var result strings.Builder

	result.WriteString("✗ ")
	result.WriteString(info.Message)

	if info.ShowDetails && err != nil {
		result.WriteString("\n  Technical details: ")
		result.WriteString(err.Error())
	}

	switch {
	case len(info.Suggestions) > 0 && !verbose:
		result.WriteString(" (")
		result.WriteString(info.Suggestions[0])
		result.WriteString(")")
	case len(info.Suggestions) > 0:
		result.WriteString("\n  Suggestions:")

		for _, suggestion := range info.Suggestions {
			result.WriteString("\n    • ")
			result.WriteString(suggestion)
		}
	}

	return result.String()
}

// ExitError carries the process exit code for a failed CLI command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// NewExitError creates an ExitError with the specified code and message.
func NewExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
