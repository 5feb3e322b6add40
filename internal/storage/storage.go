// Package storage keeps small per-client documents, the server-side
// counterpart of browser local storage.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	KeyUser     = "user"
	KeyWishlist = "wishlist"
	KeyCompare  = "compareList"
)

var ErrNoClient = errors.New("storage: empty client id")

type Storage interface {
	Get(ctx context.Context, client, key string) ([]byte, bool, error)
	Put(ctx context.Context, client, key string, value []byte) error
	Delete(ctx context.Context, client, key string) error
	Ping(ctx context.Context) error
}

// GetJSON decodes the value under key into dst. ok is false when the key is
// absent.
func GetJSON(ctx context.Context, s Storage, client, key string, dst any) (bool, error) {
	raw, ok, err := s.Get(ctx, client, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func PutJSON(ctx context.Context, s Storage, client, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Put(ctx, client, key, raw)
}
