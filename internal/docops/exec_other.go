//go:build !windows

package docops

import "os/exec"

// hideWindowOnWindows is a no-op on non-Windows platforms.
func hideWindowOnWindows(cmd *exec.Cmd) {
}
