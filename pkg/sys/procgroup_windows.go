package sys

import (
	"os"
	"syscall"
)

// GroupAttr returns nil on Windows; child processes are killed individually.
func GroupAttr() *syscall.SysProcAttr { return nil }

// KillGroup kills the process with the given pid.
func KillGroup(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}
