//go:build windows

package state

import (
	"fmt"
	"os"
)

// Arm is a no-op on Windows; there is no SIGUSR1 to listen for.
func Arm() {}

// RequestStop is unsupported on Windows.
func RequestStop(pid int) error {
	return fmt.Errorf("toggle stop signaling is not supported on windows")
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	return err == nil && proc != nil
}
