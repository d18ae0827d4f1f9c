package tempfiles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := New("tempfiles-test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(m.Close)
	return m
}

func TestCreateFileUniquePaths(t *testing.T) {
	m := newManager(t)

	a := m.CreateFile(".docx")
	b := m.CreateFile(".docx")
	if a == b {
		t.Fatalf("CreateFile returned the same path twice: %s", a)
	}
	if !strings.HasSuffix(a, ".docx") {
		t.Errorf("path %s missing suffix", a)
	}
	if filepath.Dir(a) != m.Dir() {
		t.Errorf("path %s not under scratch dir %s", a, m.Dir())
	}
	if m.Count() != 2 {
		t.Errorf("Count = %d, want 2", m.Count())
	}
}

func TestRemoveForgetsAndDeletes(t *testing.T) {
	m := newManager(t)

	path := m.CreateFile(".bin")
	if err := os.WriteFile(path, []byte("payload"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	m.Remove(path)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file still exists after Remove: %v", err)
	}
	if m.Count() != 0 {
		t.Errorf("Count = %d, want 0", m.Count())
	}

	// Removing a missing path must be a no-op.
	m.Remove(path)
}

func TestUntrackKeepsFile(t *testing.T) {
	m := newManager(t)

	path := m.CreateFile(".bin")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	m.Untrack(path)
	if m.Count() != 0 {
		t.Errorf("Count = %d after Untrack", m.Count())
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Untrack must not delete the file: %v", err)
	}
}

func TestSweepOlderThan(t *testing.T) {
	m := newManager(t)

	stale := filepath.Join(m.Dir(), "stale.docx")
	fresh := filepath.Join(m.Dir(), "fresh.docx")
	for _, p := range []string{stale, fresh} {
		if err := os.WriteFile(p, []byte("x"), 0o600); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if removed := m.SweepOlderThan(time.Hour); removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale file survived the sweep")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("fresh file removed by the sweep: %v", err)
	}
}

func TestCloseRemovesDirectory(t *testing.T) {
	m, err := New("tempfiles-close")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	path := m.CreateFile(".docx")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	m.StartSweeper(time.Minute, time.Hour)
	m.Close()

	if _, err := os.Stat(m.Dir()); !os.IsNotExist(err) {
		t.Errorf("scratch dir still exists after Close: %v", err)
	}
}
