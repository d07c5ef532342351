package store

import (
	"context"
	"errors"
	"sort"
	"testing"
)

func TestMemoryContract(t *testing.T) {
	testContract(t, NewMemory())
}

func TestMemoryKeys(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.Set(ctx, KeyUsers, "[]")
	m.Set(ctx, KeyCart, "[]")

	keys := m.Keys()
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != KeyCart || keys[1] != KeyUsers {
		t.Errorf("Unexpected keys %v", keys)
	}
}

func TestMemoryClosed(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, _, err := m.Get(ctx, KeyCart); !errors.Is(err, ErrClosed) {
		t.Errorf("Get after Close: expected ErrClosed, got %v", err)
	}
	if err := m.Set(ctx, KeyCart, "[]"); !errors.Is(err, ErrClosed) {
		t.Errorf("Set after Close: expected ErrClosed, got %v", err)
	}
	if err := m.Remove(ctx, KeyCart); !errors.Is(err, ErrClosed) {
		t.Errorf("Remove after Close: expected ErrClosed, got %v", err)
	}
}
