package store

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// ParseError reports a stored value that is not valid JSON for its key.
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Decode unmarshals raw into a T, wrapping failures in *ParseError.
func Decode[T any](key, raw string) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		var zero T
		return zero, &ParseError{Key: key, Err: err}
	}
	return v, nil
}

// Load reads key and decodes it. Absent, unreadable and corrupt values all
// yield the zero T with ok=false; a corrupt value is removed from the store
// so the next write starts clean. Nothing here fails the caller.
func Load[T any](ctx context.Context, s Store, key string, logger *zap.Logger) (T, bool) {
	var zero T

	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		logger.Warn("store read failed", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	if !ok {
		return zero, false
	}

	v, err := Decode[T](key, raw)
	if err != nil {
		logger.Warn("discarding corrupt store value", zap.String("key", key), zap.Error(err))
		if rmErr := s.Remove(ctx, key); rmErr != nil {
			logger.Warn("store remove failed", zap.String("key", key), zap.Error(rmErr))
		}
		return zero, false
	}

	return v, true
}

// Save encodes v and writes it under key.
func Save(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(data))
}

// Persist is Save for callers whose policy is to log write failures and keep
// going with the in-memory state. It reports whether the write landed.
func Persist(ctx context.Context, s Store, key string, v any, logger *zap.Logger) bool {
	if err := Save(ctx, s, key, v); err != nil {
		logger.Error("store write failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Erase removes key, logging instead of failing.
func Erase(ctx context.Context, s Store, key string, logger *zap.Logger) bool {
	if err := s.Remove(ctx, key); err != nil {
		logger.Error("store remove failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}
