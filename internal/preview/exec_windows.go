//go:build windows

package preview

import (
	"os/exec"
	"syscall"
)

// hideWindowOnWindows prevents a console window from flashing up when
// pdftoppm is launched from the GUI.
func hideWindowOnWindows(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: 0x08000000, // CREATE_NO_WINDOW
	}
}
