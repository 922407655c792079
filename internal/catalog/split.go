// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog

import (
	"fmt"

	"github.com/google/shlex"
	"github.com/janderssonse/lian/internal/domain"
)

// SplitCommand splits line into words the way a POSIX shell would for simple
// commands. Quoting and backslash escapes are honoured; no expansion is
// performed and operators such as ';' or '|' stay part of the word.
func SplitCommand(line string) ([]string, error) {
	words, err := shlex.Split(line)
	if err != nil {
		// shlex only fails on input that ends inside a quote or an escape.
		return nil, fmt.Errorf("%w: %v", domain.ErrUnterminatedQuote, err)
	}

	if len(words) == 0 {
		return nil, domain.ErrEmptyCommand
	}

	return words, nil
}
