// Package state tracks toggle-mode recording sessions across processes.
// A session advertises itself through a PID file; a second invocation finds
// it there and delivers the stop signal instead of starting a new capture.
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

var stopRequested atomic.Bool

// ShouldStop reports whether an external stop request has been received.
// It only reads a flag, so it is safe to poll at any frequency.
func ShouldStop() bool {
	return stopRequested.Load()
}

func markStop() {
	stopRequested.Store(true)
}

// Session describes a running toggle capture.
type Session struct {
	PID       int
	StartedAt time.Time
}

// BeginSession records this process as the active toggle session.
func BeginSession() error {
	path, err := pidFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create runtime dir: %w", err)
	}

	content := fmt.Sprintf("%d\n%d\n", os.Getpid(), time.Now().Unix())
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write pid file: %w", err)
	}
	return nil
}

// EndSession removes this process's session record.
func EndSession() error {
	path, err := pidFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove pid file: %w", err)
	}
	return nil
}

// CurrentSession returns the running toggle session, or nil when there is
// none. Stale records left by dead processes are cleaned up on the way.
func CurrentSession() (*Session, error) {
	path, err := pidFilePath()
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read pid file: %w", err)
	}

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	pid, _ := strconv.Atoi(lines[0])
	var startedAt int64
	if len(lines) > 1 {
		startedAt, _ = strconv.ParseInt(lines[1], 10, 64)
	}

	if pid == 0 || !processAlive(pid) {
		os.Remove(path)
		return nil, nil
	}

	return &Session{PID: pid, StartedAt: time.Unix(startedAt, 0)}, nil
}

func pidFilePath() (string, error) {
	base := os.Getenv("XDG_RUNTIME_DIR")
	if base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, "micdrop", "micdrop.pid"), nil
}
