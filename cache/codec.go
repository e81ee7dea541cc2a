package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SchemaVersion is bumped whenever a cached value's shape changes, so entries
// written by an older build read as misses instead of half-decoded values.
const SchemaVersion = 1

var (
	// ErrCorrupt wraps any failure to decode a stored entry.
	ErrCorrupt = errors.New("cache: corrupt entry")
	// ErrVersionMismatch reports an entry written under a different SchemaVersion.
	ErrVersionMismatch = errors.New("cache: schema version mismatch")
)

type envelope[T any] struct {
	Version int `json:"v"`
	Data    T   `json:"data"`
}

func Encode[T any](v T) ([]byte, error) {
	return json.Marshal(envelope[T]{Version: SchemaVersion, Data: v})
}

func Decode[T any](b []byte) (T, error) {
	var env envelope[T]
	if err := json.Unmarshal(b, &env); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if env.Version != SchemaVersion {
		var zero T
		return zero, fmt.Errorf("%w: %w: got %d want %d", ErrCorrupt, ErrVersionMismatch, env.Version, SchemaVersion)
	}
	return env.Data, nil
}

// GetTyped reads and decodes key; ok is false on a miss. An entry that cannot
// be decoded yields an error wrapping ErrCorrupt, which callers treat as a miss.
func GetTyped[T any](ctx context.Context, s Store, key string) (v T, ok bool, err error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrMiss) {
		return v, false, nil
	}
	if err != nil {
		return v, false, err
	}
	v, err = Decode[T](raw)
	if err != nil {
		return v, false, err
	}
	return v, true, nil
}

func SetTyped[T any](ctx context.Context, s Store, key string, v T, ttl time.Duration) error {
	raw, err := Encode(v)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	return s.Set(ctx, key, raw, ttl)
}
