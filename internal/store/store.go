// Package store is the key-value persistence layer behind the storefront.
// Every component reads and writes whole JSON documents under a fixed key;
// no operation spans more than one key.
package store

import (
	"context"
	"errors"
)

// Keys written by the storefront components.
const (
	KeyCurrentUser   = "currentUser"
	KeyUsers         = "users"
	KeyCart          = "cart"
	KeyOrders        = "orders"
	KeyAdminProducts = "adminProducts"
)

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("store closed")

// Store is the contract every backend satisfies. Get reports absence with
// ok=false and a nil error. Remove of a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
