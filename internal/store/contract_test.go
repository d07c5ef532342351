package store

import (
	"context"
	"testing"
)

// testContract exercises the behaviour every backend must share.
func testContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("absent key", func(t *testing.T) {
		v, ok, err := s.Get(ctx, "missing")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if ok || v != "" {
			t.Errorf("Expected absent, got %q ok=%v", v, ok)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		if err := s.Set(ctx, KeyCart, `[{"quantity":1}]`); err != nil {
			t.Fatalf("Set: %v", err)
		}
		v, ok, err := s.Get(ctx, KeyCart)
		if err != nil || !ok {
			t.Fatalf("Get: ok=%v err=%v", ok, err)
		}
		if v != `[{"quantity":1}]` {
			t.Errorf("Expected stored value back, got %q", v)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		if err := s.Set(ctx, KeyOrders, "[]"); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if err := s.Set(ctx, KeyOrders, `[{"id":"o1"}]`); err != nil {
			t.Fatalf("Set: %v", err)
		}
		v, _, _ := s.Get(ctx, KeyOrders)
		if v != `[{"id":"o1"}]` {
			t.Errorf("Expected overwritten value, got %q", v)
		}
	})

	t.Run("remove", func(t *testing.T) {
		if err := s.Set(ctx, KeyCurrentUser, `{"id":"u1"}`); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if err := s.Remove(ctx, KeyCurrentUser); err != nil {
			t.Fatalf("Remove: %v", err)
		}
		if _, ok, _ := s.Get(ctx, KeyCurrentUser); ok {
			t.Error("Key should be gone after Remove")
		}
		if err := s.Remove(ctx, KeyCurrentUser); err != nil {
			t.Errorf("Removing a missing key should not fail: %v", err)
		}
	})
}
