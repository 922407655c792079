// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

// Package is one entry of a search or listing.
type Package struct {
	Repo        string
	Name        string
	Version     string
	Description string
	Installed   bool
}

// Field is a key/value pair from a package detail listing.
type Field struct {
	Key   string
	Value string
}

// PackageDetail aggregates everything the detail view shows for one package.
type PackageDetail struct {
	Name   string
	Fields []Field
	Files  []string
	Dirs   []string
}

// Lookup returns the value of the named field.
func (d PackageDetail) Lookup(key string) (string, bool) {
	for _, f := range d.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}

	return "", false
}

// Update is a pending upgrade.
type Update struct {
	Name       string
	OldVersion string
	NewVersion string
}

// PreviewItem is one line of an install or remove preview.
type PreviewItem struct {
	Name          string
	Version       string
	DownloadSize  string
	InstalledSize string
	Depends       []string
	RequiredBy    []string
	// Missing is set when the database has no record of the package.
	Missing bool
}

// Preview is the impact of an operation before it runs.
type Preview struct {
	Operation Operation
	Items     []PreviewItem
	// Targets holds the full set the tool would touch, including dependencies.
	Targets []string
	Updates []Update
}

// Counts is shown on the dashboard.
type Counts struct {
	Installed int
	Explicit  int
	Upgrades  int
}
