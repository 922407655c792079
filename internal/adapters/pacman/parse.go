// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package pacman

import (
	"strings"

	"github.com/janderssonse/lian/internal/domain"
	"github.com/janderssonse/lian/internal/stream"
)

// Detail field names as printed under LC_ALL=C.
const (
	FieldName          = "Name"
	FieldVersion       = "Version"
	FieldDescription   = "Description"
	FieldDepends       = "Depends On"
	FieldRequiredBy    = "Required By"
	FieldDownloadSize  = "Download Size"
	FieldInstalledSize = "Installed Size"
)

const noneValue = "None"

func isIndented(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}

// ParseSearch parses -Ss / -Qs output:
//
//	extra/vim 9.1.0-1 [installed]
//	    Vi Improved, a highly configurable, improved version of the vi text editor
func ParseSearch(output string, local bool) []domain.Package {
	lines := strings.Split(output, "\n")

	var results []domain.Package

	for i := 0; i < len(lines); i++ {
		if isIndented(lines[i]) {
			continue
		}

		header := strings.TrimSpace(stream.Sanitize(lines[i]))

		repo, rest, ok := strings.Cut(header, "/")
		if !ok {
			continue
		}

		parts := strings.Fields(rest)
		if len(parts) == 0 {
			continue
		}

		pkg := domain.Package{
			Repo:      repo,
			Name:      parts[0],
			Installed: local || strings.Contains(rest, "[installed"),
		}

		if len(parts) > 1 {
			pkg.Version = parts[1]
		}

		if i+1 < len(lines) && isIndented(lines[i+1]) {
			i++
			pkg.Description = strings.TrimSpace(stream.Sanitize(strings.TrimSpace(lines[i])))
		}

		results = append(results, pkg)
	}

	return results
}

// ParseDetail parses -Qi / -Si output into ordered fields. Indented lines
// continue the previous field. Multiple records are concatenated.
func ParseDetail(output string) []domain.Field {
	var fields []domain.Field

	for _, line := range strings.Split(output, "\n") {
		if key, value, ok := strings.Cut(line, ":"); ok && !isIndented(key) {
			if key = strings.TrimSpace(key); key != "" {
				fields = append(fields, domain.Field{Key: key, Value: strings.TrimSpace(value)})

				continue
			}
		}

		if isIndented(line) && len(fields) > 0 && strings.TrimSpace(line) != "" {
			last := &fields[len(fields)-1]
			last.Value += " " + strings.TrimSpace(line)
		}
	}

	return fields
}

// ParseFileList splits -Ql output ("pkg /path") into files and directories.
func ParseFileList(output string) (files, dirs []string) {
	for _, line := range strings.Split(output, "\n") {
		_, path, ok := strings.Cut(strings.TrimRight(line, " "), " ")
		if !ok || path == "" {
			continue
		}

		if strings.HasSuffix(path, "/") {
			dirs = append(dirs, path)
		} else {
			files = append(files, path)
		}
	}

	return files, dirs
}

// ParseUpdates parses checkupdates / -Qu lines ("name old -> new").
func ParseUpdates(output string) []domain.Update {
	var updates []domain.Update

	for _, line := range strings.Split(output, "\n") {
		parts := strings.Fields(line)

		switch {
		case len(parts) >= 4 && parts[2] == "->":
			updates = append(updates, domain.Update{Name: parts[0], OldVersion: parts[1], NewVersion: parts[3]})
		case len(parts) >= 1:
			u := domain.Update{Name: parts[0]}
			if len(parts) > 1 {
				u.OldVersion = parts[1]
			}

			updates = append(updates, u)
		}
	}

	return updates
}

// ParseNameVersion parses -Q / -Qe lines ("name version").
func ParseNameVersion(output string) []domain.Package {
	var pkgs []domain.Package

	for _, line := range strings.Split(output, "\n") {
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		pkg := domain.Package{Name: parts[0], Installed: true, Repo: "local"}
		if len(parts) > 1 {
			pkg.Version = parts[1]
		}

		pkgs = append(pkgs, pkg)
	}

	return pkgs
}

// splitList turns a "Depends On" style value into names. "None" is empty.
func splitList(value string) []string {
	if value == "" || value == noneValue {
		return nil
	}

	return strings.Fields(value)
}

func countLines(output string) int {
	n := 0

	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}

	return n
}

func nonEmptyLines(output string) []string {
	var out []string

	for _, line := range strings.Split(output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}

	return out
}
