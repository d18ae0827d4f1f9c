// Package tempfiles owns the lifecycle of scratch files used for staged
// document builds: unique naming, tracking, best-effort removal, and a
// background sweep for anything left behind by crashed builds.
package tempfiles

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oleg-dixon/appraiser-photo-bot/core/logger"
)

// Manager hands out uniquely named files under a private directory and
// removes them when released. All methods are safe for concurrent use.
type Manager struct {
	dir string

	mu      sync.Mutex
	tracked map[string]struct{}

	sweepCancel context.CancelFunc
	sweepDone   chan struct{}
}

// New creates the scratch directory under the system temp root.
func New(prefix string) (*Manager, error) {
	if prefix == "" {
		prefix = "photobot"
	}
	dir, err := os.MkdirTemp("", prefix+"-*")
	if err != nil {
		return nil, fmt.Errorf("tempfiles: create scratch dir: %w", err)
	}
	logger.Tmp.Info("tempfiles.dir_ready", "dir", dir)
	return &Manager{
		dir:     dir,
		tracked: make(map[string]struct{}),
	}, nil
}

// Dir returns the scratch directory path.
func (m *Manager) Dir() string {
	return m.dir
}

// CreateFile reserves a unique path with the given suffix (e.g. ".docx") and
// tracks it for cleanup. The file itself is not created; callers open it.
func (m *Manager) CreateFile(suffix string) string {
	path := filepath.Join(m.dir, uuid.NewString()+suffix)
	m.mu.Lock()
	m.tracked[path] = struct{}{}
	m.mu.Unlock()
	return path
}

// Track registers an externally created path for cleanup.
func (m *Manager) Track(path string) {
	m.mu.Lock()
	m.tracked[path] = struct{}{}
	m.mu.Unlock()
}

// Untrack forgets a path without deleting it, e.g. when the caller hands the
// file off to something with its own lifecycle.
func (m *Manager) Untrack(path string) {
	m.mu.Lock()
	delete(m.tracked, path)
	m.mu.Unlock()
}

// Remove deletes the file and forgets it. Missing files are not an error.
func (m *Manager) Remove(path string) {
	m.mu.Lock()
	delete(m.tracked, path)
	m.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Tmp.Warn("tempfiles.remove_failed", "path", path, "err", err)
	}
}

// Count reports how many paths are currently tracked.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tracked)
}

// SweepOlderThan removes files in the scratch directory whose modification
// time is older than maxAge, tracked or not. It returns how many were removed.
func (m *Manager) SweepOlderThan(maxAge time.Duration) int {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		logger.Tmp.Warn("tempfiles.sweep_readdir_failed", "dir", m.dir, "err", err)
		return 0
	}
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(m.dir, entry.Name())
		m.Remove(path)
		removed++
	}
	if removed > 0 {
		logger.Tmp.Info("tempfiles.swept", "removed", removed, "max_age", maxAge)
	}
	return removed
}

// StartSweeper launches a background loop that sweeps stale files every
// interval until Close is called.
func (m *Manager) StartSweeper(interval, maxAge time.Duration) {
	if m.sweepCancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.sweepCancel = cancel
	m.sweepDone = make(chan struct{})

	go func() {
		defer close(m.sweepDone)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.SweepOlderThan(maxAge)
			}
		}
	}()
}

// Close stops the sweeper and removes the scratch directory with everything
// still in it.
func (m *Manager) Close() {
	if m.sweepCancel != nil {
		m.sweepCancel()
		<-m.sweepDone
		m.sweepCancel = nil
	}
	m.mu.Lock()
	m.tracked = make(map[string]struct{})
	m.mu.Unlock()

	if err := os.RemoveAll(m.dir); err != nil {
		logger.Tmp.Warn("tempfiles.cleanup_failed", "dir", m.dir, "err", err)
		return
	}
	logger.Tmp.Info("tempfiles.dir_removed", "dir", m.dir)
}
