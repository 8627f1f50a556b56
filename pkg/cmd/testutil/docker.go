package testutil

import (
	"os/exec"
	"testing"
)

// SkipIfNoDocker skips the test in short mode or when no Docker daemon is
// reachable.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping Docker tests in short mode")
	}

	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("Docker not available")
	}

	if err := exec.Command("docker", "ps").Run(); err != nil {
		t.Skip("Docker daemon not running")
	}
}
