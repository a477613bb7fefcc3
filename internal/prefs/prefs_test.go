package prefs

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	})
	return store
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	if _, err := OpenSQLite("  "); err == nil {
		t.Fatal("expected error")
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, filepath.Join(t.TempDir(), "prefs.db"))

	if _, ok, err := store.GetInt(ctx, KeyHighScore); err != nil || ok {
		t.Fatalf("GetInt on empty store = ok %v, err %v", ok, err)
	}
	if got, err := Int(ctx, store, KeyHighScore, 0); err != nil || got != 0 {
		t.Fatalf("default = %d, %v", got, err)
	}

	if err := store.PutInt(ctx, KeyHighScore, 120); err != nil {
		t.Fatal(err)
	}
	if err := store.PutInt(ctx, KeyHighScore, 340); err != nil {
		t.Fatal(err)
	}
	if got, err := Int(ctx, store, KeyHighScore, 0); err != nil || got != 340 {
		t.Fatalf("HighScore = %d, %v; want 340", got, err)
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs.db")

	first, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := PutBool(ctx, first, KeyMuted, true); err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second := openTestStore(t, path)
	muted, err := Bool(ctx, second, KeyMuted, false)
	if err != nil || !muted {
		t.Fatalf("IsMuted after reopen = %v, %v", muted, err)
	}
}

func TestScopedKeysAreIsolated(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	alice := NewScoped(mem, "alice")
	bob := NewScoped(mem, "bob")

	if err := alice.PutInt(ctx, KeyHighScore, 50); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := bob.GetInt(ctx, KeyHighScore); ok {
		t.Fatal("bob sees alice's high score")
	}
	if v, ok, _ := mem.GetInt(ctx, "alice/"+KeyHighScore); !ok || v != 50 {
		t.Fatalf("underlying key = %d, %v", v, ok)
	}
}

func TestEmptyKeyRejected(t *testing.T) {
	ctx := context.Background()
	for name, s := range map[string]Store{
		"memory": NewMemory(),
		"scoped": NewScoped(NewMemory(), ""),
		"sqlite": openTestStore(t, filepath.Join(t.TempDir(), "prefs.db")),
	} {
		if err := s.PutInt(ctx, "", 1); !errors.Is(err, ErrKeyRequired) {
			t.Errorf("%s: PutInt(\"\") err = %v", name, err)
		}
	}
}
