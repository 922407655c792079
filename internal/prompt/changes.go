// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package prompt

import (
	"slices"
	"strings"

	"github.com/janderssonse/lian/internal/domain"
)

// ChangeSet is the difference between two explicit package lists.
type ChangeSet struct {
	Added    []domain.Package
	Removed  []domain.Package
	Upgraded []domain.Update
}

// Empty reports whether nothing changed.
func (c ChangeSet) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Upgraded) == 0
}

// Diff compares package lists taken before and after an operation. Results
// are sorted by name.
func Diff(before, after []domain.Package) ChangeSet {
	old := make(map[string]domain.Package, len(before))
	for _, p := range before {
		old[p.Name] = p
	}

	var changes ChangeSet

	seen := make(map[string]bool, len(after))

	for _, p := range after {
		seen[p.Name] = true

		prev, ok := old[p.Name]

		switch {
		case !ok:
			changes.Added = append(changes.Added, p)
		case prev.Version != p.Version:
			changes.Upgraded = append(changes.Upgraded, domain.Update{Name: p.Name, OldVersion: prev.Version, NewVersion: p.Version})
		}
	}

	for _, p := range before {
		if !seen[p.Name] {
			changes.Removed = append(changes.Removed, p)
		}
	}

	byName := func(a, b domain.Package) int { return strings.Compare(a.Name, b.Name) }
	slices.SortFunc(changes.Added, byName)
	slices.SortFunc(changes.Removed, byName)
	slices.SortFunc(changes.Upgraded, func(a, b domain.Update) int { return strings.Compare(a.Name, b.Name) })

	return changes
}

// Tail returns the last n lines of output, ignoring trailing newlines.
func Tail(output string, n int) string {
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}

	return strings.Join(lines, "\n")
}
