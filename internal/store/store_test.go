package store

import (
	"path/filepath"
	"testing"
)

// exercise runs the contract shared by every backend.
func exercise(t *testing.T, s Store) {
	t.Helper()

	if _, ok, err := s.Get("unset"); err != nil || ok {
		t.Fatalf("expected unset variable to be absent, got ok=%v err=%v", ok, err)
	}

	if err := s.Put("test", "hello"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, ok, err := s.Get("test")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || got != "hello" {
		t.Errorf("expected 'hello', got '%s' (ok=%v)", got, ok)
	}

	// Empty values are stored, not treated as absent.
	if err := s.Put("empty", ""); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if got, ok, _ := s.Get("empty"); !ok || got != "" {
		t.Errorf("expected stored empty value, got '%s' (ok=%v)", got, ok)
	}

	if err := s.Put("test", "again"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	all, err := s.All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 2 || all["test"] != "again" {
		t.Errorf("unexpected snapshot: %v", all)
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if _, ok, _ := s.Get("test"); ok {
		t.Errorf("expected variable to be gone after Reset")
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	exercise(t, s)
}

func TestMemorySnapshotIsACopy(t *testing.T) {
	s := NewMemory()
	s.Put("a", "1")
	all, _ := s.All()
	all["a"] = "changed"
	if got, _, _ := s.Get("a"); got != "1" {
		t.Errorf("snapshot mutation leaked into the store: %q", got)
	}
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vars.db")

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("Failed to create SQLite store: %v", err)
	}
	exercise(t, s)

	if err := s.Put("kept", "value"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	session := s.Session()
	s.Close()

	// Reopen the same session to verify persistence
	s2, err := OpenSession(path, session)
	if err != nil {
		t.Fatalf("Failed to reopen SQLite store: %v", err)
	}
	defer s2.Close()

	got, ok, err := s2.Get("kept")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || got != "value" {
		t.Errorf("expected 'value' after reopen, got '%s'", got)
	}
}

func TestSQLiteSessionsAreIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vars.db")

	a, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer a.Close()
	b, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer b.Close()

	a.Put("x", "from-a")
	if _, ok, _ := b.Get("x"); ok {
		t.Errorf("session b sees session a's variable")
	}

	b.Put("x", "from-b")
	b.Reset()
	if got, _, _ := a.Get("x"); got != "from-a" {
		t.Errorf("reset of session b affected session a: %q", got)
	}
}

func TestOpenSessionRejectsBadID(t *testing.T) {
	if _, err := OpenSession(filepath.Join(t.TempDir(), "vars.db"), "not-a-uuid"); err == nil {
		t.Errorf("expected error for invalid session id")
	}
}
