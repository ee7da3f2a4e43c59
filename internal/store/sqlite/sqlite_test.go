package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/MrSnakeDoc/startpage/internal/store/storetest"
)

func TestStoreContract(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "startpage.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	storetest.Run(t, s)
}

func TestReopenKeepsValuesAndSkipsAppliedMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "startpage.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	defer s.Close()

	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("Expected v after reopen, got %q, %v", got, err)
	}
}

func TestInMemory(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	storetest.Run(t, s)
}
