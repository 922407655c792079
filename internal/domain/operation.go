// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

// Package domain contains the value types and ports shared by the lian core.
package domain

// Operation is a logical package-management action.
type Operation int

// Supported operations.
const (
	OpUpdate Operation = iota
	OpInstall
	OpRemove
	OpCustom
)

func (o Operation) String() string {
	switch o {
	case OpUpdate:
		return "update"
	case OpInstall:
		return "install"
	case OpRemove:
		return "remove"
	case OpCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Flavor identifies which package-management tool was detected.
type Flavor string

// Known flavors, in detection order.
const (
	FlavorParu   Flavor = "paru"
	FlavorYay    Flavor = "yay"
	FlavorPacman Flavor = "pacman"
)

// DetectionOrder lists flavors from most to least preferred.
var DetectionOrder = []Flavor{FlavorParu, FlavorYay, FlavorPacman}

// Binary returns the executable name for the flavor.
func (f Flavor) Binary() string {
	return string(f)
}

// NeedsPrivilege reports whether the flavor must be wrapped with sudo.
// AUR helpers elevate on their own and refuse to run as root.
func (f Flavor) NeedsPrivilege() bool {
	return f == FlavorPacman
}

// Valid reports whether f is a known flavor.
func (f Flavor) Valid() bool {
	for _, known := range DetectionOrder {
		if f == known {
			return true
		}
	}

	return false
}
