// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

// SystemInfo describes the host for display and analysis prompts.
type SystemInfo struct {
	Distro string `json:"distro"`
	Kernel string `json:"kernel"`
	CPU    string `json:"cpu"`
	Memory string `json:"memory"`
}

// DistroOrUnknown returns the distribution name or a placeholder.
func (s SystemInfo) DistroOrUnknown() string {
	if s.Distro == "" {
		return "unknown"
	}

	return s.Distro
}
