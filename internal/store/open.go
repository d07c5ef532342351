package store

import (
	"context"
	"fmt"
	"io"

	"github.com/safar/go-storefront/internal/config"
	"github.com/safar/go-storefront/internal/database"
)

// Backend is a Store that owns a connection.
type Backend interface {
	Store
	io.Closer
}

// Open builds the backend named by cfg.Store.Backend.
func Open(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory, "":
		return NewMemory(), nil

	case config.BackendPostgres:
		db, err := database.Open(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		return NewPostgres(db), nil

	case config.BackendRedis:
		return DialRedis(ctx, &cfg.Redis)

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
