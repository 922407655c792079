// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

// Package catalog maps logical operations to the argv that performs them.
package catalog

import (
	"fmt"

	"github.com/janderssonse/lian/internal/domain"
)

// Elevator is the privilege-elevation wrapper prepended for flavors that need it.
const Elevator = "sudo"

var operationArgs = map[domain.Operation][]string{
	domain.OpUpdate:  {"-Syu", "--noconfirm"},
	domain.OpInstall: {"-S", "--noconfirm"},
	domain.OpRemove:  {"-Rns", "--noconfirm"},
}

// Command is a ready-to-spawn argv plus whether it runs elevated.
type Command struct {
	Argv           []string
	NeedsPrivilege bool
}

// Build returns the command for op on flavor. Install and remove require at
// least one target package; update ignores pkgs.
func Build(op domain.Operation, flavor domain.Flavor, pkgs []string) (Command, error) {
	args, ok := operationArgs[op]
	if !ok {
		return Command{}, fmt.Errorf("%w: %s", domain.ErrUnknownOperation, op)
	}

	if !flavor.Valid() {
		return Command{}, fmt.Errorf("%w: %q", domain.ErrNoPackageManager, flavor)
	}

	if op != domain.OpUpdate && len(pkgs) == 0 {
		return Command{}, fmt.Errorf("%s: %w", op, domain.ErrNoPackages)
	}

	argv := make([]string, 0, len(args)+len(pkgs)+2)

	if flavor.NeedsPrivilege() {
		argv = append(argv, Elevator)
	}

	argv = append(argv, flavor.Binary())
	argv = append(argv, args...)

	if op != domain.OpUpdate {
		argv = append(argv, pkgs...)
	}

	return Command{Argv: argv, NeedsPrivilege: flavor.NeedsPrivilege()}, nil
}

// Custom parses a user-typed command line. It runs elevated only when the
// user wrote the elevation wrapper themselves.
func Custom(line string) (Command, error) {
	argv, err := SplitCommand(line)
	if err != nil {
		return Command{}, err
	}

	return Command{Argv: argv, NeedsPrivilege: argv[0] == Elevator}, nil
}
