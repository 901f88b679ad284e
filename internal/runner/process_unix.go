//go:build unix

package runner

import (
	"os/exec"
	"syscall"
)

// setProcessGroup puts the extraction command in its own process group so
// a timeout kill from exec.CommandContext reaps any children it spawned.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		pgid, err := syscall.Getpgid(cmd.Process.Pid)
		if err != nil {
			return cmd.Process.Kill()
		}
		return syscall.Kill(-pgid, syscall.SIGKILL)
	}
}

// exitCodeFromError extracts the exit code from an exec.ExitError via the
// platform wait status.
func exitCodeFromError(exitErr *exec.ExitError) (int, bool) {
	waitStatus, ok := exitErr.Sys().(syscall.WaitStatus)
	if ok {
		return waitStatus.ExitStatus(), true
	}
	return 0, false
}
