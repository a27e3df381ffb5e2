package utils

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// OpenDashboard asks the OS to open the dashboard file (e.g. a .pbix)
// with its default application after a successful run.
func OpenDashboard(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("dashboard file %q: %w", path, err)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	case "darwin":
		cmd = exec.Command("open", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open dashboard %q: %w", path, err)
	}
	return nil
}
