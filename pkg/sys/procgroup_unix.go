//go:build !windows && !plan9

package sys

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// GroupAttr returns process attributes that put a child process in a process
// group of its own, so that KillGroup reaches all of its descendants.
func GroupAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// KillGroup kills the process group led by pid.
func KillGroup(pid int) error {
	err := unix.Kill(-pid, unix.SIGKILL)
	if err == unix.ESRCH {
		return nil
	}
	return err
}
