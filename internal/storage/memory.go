package storage

import (
	"context"
	"sync"
)

type MemStorage struct {
	mu sync.RWMutex
	m  map[string]map[string][]byte
}

func NewMemStorage() *MemStorage {
	return &MemStorage{m: make(map[string]map[string][]byte)}
}

func (s *MemStorage) Ping(ctx context.Context) error { return nil }

func (s *MemStorage) Get(ctx context.Context, client, key string) ([]byte, bool, error) {
	if client == "" {
		return nil, false, ErrNoClient
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.m[client][key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *MemStorage) Put(ctx context.Context, client, key string, value []byte) error {
	if client == "" {
		return ErrNoClient
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.m[client]
	if !ok {
		bucket = make(map[string][]byte)
		s.m[client] = bucket
	}
	bucket[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemStorage) Delete(ctx context.Context, client, key string) error {
	if client == "" {
		return ErrNoClient
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.m[client], key)
	return nil
}
