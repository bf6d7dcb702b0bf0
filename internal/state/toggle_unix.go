//go:build !windows

package state

import (
	"os"
	"os/signal"
	"syscall"
)

// Arm installs the SIGUSR1 handler that flags a stop request for the
// current process's toggle session.
func Arm() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGUSR1)
	go func() {
		<-ch
		markStop()
	}()
}

// RequestStop signals a running toggle session to finish.
func RequestStop(pid int) error {
	return syscall.Kill(pid, syscall.SIGUSR1)
}

func processAlive(pid int) bool {
	return syscall.Kill(pid, 0) == nil
}
