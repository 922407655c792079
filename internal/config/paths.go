// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package config

import (
	"os"
	"path/filepath"
	"strings"
)

const appName = "lian"

// GetXDGConfigHome returns the XDG config directory.
func GetXDGConfigHome() string {
	return GetXDGConfigHomeWithEnv(os.Getenv("XDG_CONFIG_HOME"))
}

// GetXDGConfigHomeWithEnv returns the XDG config directory with a custom
// environment override for testing.
func GetXDGConfigHomeWithEnv(xdgConfigHome string) string {
	return xdgDir(xdgConfigHome, ".config")
}

// GetXDGStateHome returns the XDG state directory, where logs go.
func GetXDGStateHome() string {
	return GetXDGStateHomeWithEnv(os.Getenv("XDG_STATE_HOME"))
}

// GetXDGStateHomeWithEnv returns the XDG state directory with a custom
// environment override for testing.
func GetXDGStateHomeWithEnv(xdgStateHome string) string {
	return xdgDir(xdgStateHome, ".local", "state")
}

func xdgDir(override string, fallback ...string) string {
	if override != "" {
		return override
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(append([]string{home}, fallback...)...)
	}

	return ""
}

// GetConfigPath returns the default config file location.
func GetConfigPath() string {
	return filepath.Join(GetXDGConfigHome(), appName, "config.toml")
}

// GetLogPath returns the default log file location.
func GetLogPath() string {
	return filepath.Join(GetXDGStateHome(), appName, appName+".log")
}

// ExpandPath expands a leading ~ and environment variables.
func ExpandPath(path string) string {
	return ExpandPathWithHome(path, "")
}

// ExpandPathWithHome expands paths against a custom home directory for testing.
func ExpandPathWithHome(path, home string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home == "" {
			home, _ = os.UserHomeDir()
		}

		if home != "" {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}

	return os.ExpandEnv(path)
}
