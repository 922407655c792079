// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package pacman_test

import (
	"testing"

	"github.com/janderssonse/lian/internal/adapters/pacman"
	"github.com/janderssonse/lian/internal/domain"
	"github.com/stretchr/testify/assert"
)

const searchOutput = `extra/vim 9.1.0866-1 [installed]
    Vi Improved, a highly configurable, improved version of the vi text editor
extra/gvim 9.1.0866-1
    Vi Improved, a highly configurable, improved version of the vi text editor (with advanced features, such as a GUI)
aur/vim-plug 0.14.0-1 (+120 1.01)
`

func TestParseSearch(t *testing.T) {
	t.Parallel()

	got := pacman.ParseSearch(searchOutput, false)

	assert.Equal(t, []domain.Package{
		{Repo: "extra", Name: "vim", Version: "9.1.0866-1", Installed: true,
			Description: "Vi Improved, a highly configurable, improved version of the vi text editor"},
		{Repo: "extra", Name: "gvim", Version: "9.1.0866-1",
			Description: "Vi Improved, a highly configurable, improved version of the vi text editor (with advanced features, such as a GUI)"},
		{Repo: "aur", Name: "vim-plug", Version: "0.14.0-1"},
	}, got)
}

func TestParseSearch_LocalAndColored(t *testing.T) {
	t.Parallel()

	out := "\x1b[1mlocal/\x1b[0m\x1b[1mbash\x1b[0m 5.2.037-1\n    The GNU Bourne Again shell\nnoise without slash\n"
	got := pacman.ParseSearch(out, true)

	assert.Equal(t, []domain.Package{
		{Repo: "local", Name: "bash", Version: "5.2.037-1", Installed: true, Description: "The GNU Bourne Again shell"},
	}, got)
	assert.Empty(t, pacman.ParseSearch("", false))
}

func TestParseDetail(t *testing.T) {
	t.Parallel()

	out := `Name            : git
Version         : 2.47.1-1
Description     : the fast distributed version control system
Depends On      : curl  expat  perl
Optional Deps   : tk: gitk and git gui
                  openssh: ssh transport and crypto
Installed Size  : 28.44 MiB

`
	got := pacman.ParseDetail(out)

	assert.Equal(t, []domain.Field{
		{Key: "Name", Value: "git"},
		{Key: "Version", Value: "2.47.1-1"},
		{Key: "Description", Value: "the fast distributed version control system"},
		{Key: "Depends On", Value: "curl  expat  perl"},
		{Key: "Optional Deps", Value: "tk: gitk and git gui openssh: ssh transport and crypto"},
		{Key: "Installed Size", Value: "28.44 MiB"},
	}, got)
}

func TestParseFileList(t *testing.T) {
	t.Parallel()

	files, dirs := pacman.ParseFileList("htop /usr/\nhtop /usr/bin/\nhtop /usr/bin/htop\nhtop /usr/share/man/man1/htop.1.gz\n\n")

	assert.Equal(t, []string{"/usr/bin/htop", "/usr/share/man/man1/htop.1.gz"}, files)
	assert.Equal(t, []string{"/usr/", "/usr/bin/"}, dirs)
}

func TestParseUpdates(t *testing.T) {
	t.Parallel()

	got := pacman.ParseUpdates("linux 6.12.3.arch1-1 -> 6.12.4.arch1-1\nmesa 1:24.2.7-1 -> 1:24.3.1-1\nbroken-line\n")

	assert.Equal(t, []domain.Update{
		{Name: "linux", OldVersion: "6.12.3.arch1-1", NewVersion: "6.12.4.arch1-1"},
		{Name: "mesa", OldVersion: "1:24.2.7-1", NewVersion: "1:24.3.1-1"},
		{Name: "broken-line"},
	}, got)
}

func TestParseNameVersion(t *testing.T) {
	t.Parallel()

	got := pacman.ParseNameVersion("base 3-2\ngit 2.47.1-1\n\n")

	assert.Equal(t, []domain.Package{
		{Repo: "local", Name: "base", Version: "3-2", Installed: true},
		{Repo: "local", Name: "git", Version: "2.47.1-1", Installed: true},
	}, got)
}
