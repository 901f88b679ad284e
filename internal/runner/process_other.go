//go:build !unix

package runner

import "os/exec"

// setProcessGroup is a no-op on platforms without process groups.
func setProcessGroup(cmd *exec.Cmd) {
	// No process group support on this platform
}

// exitCodeFromError returns false on non-Unix platforms as WaitStatus is
// not available; callers fall back to exec.ExitError.ExitCode.
func exitCodeFromError(exitErr *exec.ExitError) (int, bool) {
	return 0, false
}
