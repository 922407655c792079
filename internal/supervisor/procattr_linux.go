// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

//go:build linux

package supervisor

import "syscall"

// groupAttr starts the child as leader of a new process group. The child is
// told to terminate if we die first.
func groupAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: syscall.SIGTERM,
	}
}
