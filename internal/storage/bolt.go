package storage

import (
	"context"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const openTimeout = 1 * time.Second

// BoltStorage keeps one bucket per client.
type BoltStorage struct {
	db *bolt.DB
}

func OpenBolt(path string) (*BoltStorage, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}
	return &BoltStorage{db: db}, nil
}

func (s *BoltStorage) Close() error {
	return s.db.Close()
}

func (s *BoltStorage) Ping(ctx context.Context) error {
	return s.db.View(func(tx *bolt.Tx) error { return nil })
}

func (s *BoltStorage) Get(ctx context.Context, client, key string) ([]byte, bool, error) {
	if client == "" {
		return nil, false, ErrNoClient
	}

	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(client))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, out != nil, nil
}

func (s *BoltStorage) Put(ctx context.Context, client, key string, value []byte) error {
	if client == "" {
		return ErrNoClient
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(client))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), value)
	})
}

func (s *BoltStorage) Delete(ctx context.Context, client, key string) error {
	if client == "" {
		return ErrNoClient
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(client))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}
