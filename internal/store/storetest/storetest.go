// Package storetest holds the behaviour every store.KV must share.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/MrSnakeDoc/startpage/internal/store"
)

// Run exercises kv against the store.KV contract. kv must start empty.
func Run(t *testing.T, kv store.KV) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		if _, err := kv.Get(ctx, "storetest:missing"); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Get() error = %v, want store.ErrNotFound", err)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		if err := kv.Set(ctx, "storetest:a", []byte(`{"x":1}`)); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, err := kv.Get(ctx, "storetest:a")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if string(got) != `{"x":1}` {
			t.Errorf("Get() = %q", got)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		if err := kv.Set(ctx, "storetest:a", []byte("second")); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, err := kv.Get(ctx, "storetest:a")
		if err != nil || string(got) != "second" {
			t.Errorf("Get() = %q, %v; want second", got, err)
		}
	})

	t.Run("returned bytes are a copy", func(t *testing.T) {
		got, err := kv.Get(ctx, "storetest:a")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		got[0] = 'X'
		again, _ := kv.Get(ctx, "storetest:a")
		if string(again) != "second" {
			t.Errorf("stored value changed through a returned slice: %q", again)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := kv.Delete(ctx, "storetest:a"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := kv.Get(ctx, "storetest:a"); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Get() after Delete() error = %v, want store.ErrNotFound", err)
		}
		if err := kv.Delete(ctx, "storetest:a"); err != nil {
			t.Errorf("Delete() of a missing key error = %v", err)
		}
	})

	t.Run("ping", func(t *testing.T) {
		if err := kv.Ping(ctx); err != nil {
			t.Errorf("Ping() error = %v", err)
		}
	})
}
