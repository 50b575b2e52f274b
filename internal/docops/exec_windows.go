//go:build windows

package docops

import (
	"os/exec"
	"syscall"
)

// hideWindowOnWindows prevents a console window from flashing up when an
// external tool is launched from the GUI.
func hideWindowOnWindows(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: 0x08000000, // CREATE_NO_WINDOW
	}
}
