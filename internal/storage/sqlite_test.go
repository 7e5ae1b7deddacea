package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSQLiteOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	kv, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer kv.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSQLiteGetSet(t *testing.T) {
	ctx := context.Background()
	kv, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer kv.Close()

	if _, ok, err := kv.Get(ctx, "missing"); err != nil || ok {
		t.Errorf("Get(missing) = ok %v, err %v; expected absent", ok, err)
	}

	if err := kv.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := kv.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("Set() overwrite failed: %v", err)
	}

	v, ok, err := kv.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get(k) = ok %v, err %v", ok, err)
	}
	if v != "v2" {
		t.Errorf("Expected v2, got %q", v)
	}
}

func TestSQLitePersistence(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	// First session: write a value
	kv1, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := kv1.Set(ctx, "@timeModeHighScore_easy", "42"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	kv1.Close()

	// Second session: read it back
	kv2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer kv2.Close()

	v, ok, err := kv2.Get(ctx, "@timeModeHighScore_easy")
	if err != nil || !ok || v != "42" {
		t.Errorf("Expected persisted 42, got %q (ok=%v, err=%v)", v, ok, err)
	}
}

func TestSQLiteInMemory(t *testing.T) {
	ctx := context.Background()
	kv, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer kv.Close()

	if err := kv.Set(ctx, "a", "b"); err != nil {
		t.Fatal(err)
	}
	if v, ok, _ := kv.Get(ctx, "a"); !ok || v != "b" {
		t.Errorf("Expected b, got %q", v)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/.balloonmath/scores.db")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".balloonmath", "scores.db"); got != want {
		t.Errorf("ExpandPath = %q, expected %q", got, want)
	}
	if got, _ := ExpandPath("/tmp/x.db"); got != "/tmp/x.db" {
		t.Errorf("Absolute path changed to %q", got)
	}
}

func TestMemoryKVClosed(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	kv.Close()
	if err := kv.Set(ctx, "a", "b"); err != ErrClosed {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
	if _, _, err := kv.Get(ctx, "a"); err != ErrClosed {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
}
