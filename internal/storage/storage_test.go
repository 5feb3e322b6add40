package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func backends(t *testing.T) map[string]Storage {
	t.Helper()

	b, err := OpenBolt(filepath.Join(t.TempDir(), "clients.db"))
	if err != nil {
		t.Fatalf("open bolt: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })

	return map[string]Storage{
		"memory": NewMemStorage(),
		"bolt":   b,
	}
}

func TestStorage_PutGetDelete(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := s.Get(ctx, "c1", KeyWishlist); err != nil || ok {
				t.Fatalf("empty get: ok=%v err=%v", ok, err)
			}

			if err := s.Put(ctx, "c1", KeyWishlist, []byte("[1,2]")); err != nil {
				t.Fatalf("put: %v", err)
			}

			got, ok, err := s.Get(ctx, "c1", KeyWishlist)
			if err != nil || !ok || string(got) != "[1,2]" {
				t.Fatalf("get: %q ok=%v err=%v", got, ok, err)
			}

			if _, ok, _ := s.Get(ctx, "c2", KeyWishlist); ok {
				t.Fatalf("value leaked to another client")
			}

			if err := s.Delete(ctx, "c1", KeyWishlist); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, ok, _ := s.Get(ctx, "c1", KeyWishlist); ok {
				t.Fatalf("value survived delete")
			}

			if err := s.Delete(ctx, "nobody", KeyUser); err != nil {
				t.Fatalf("delete on unknown client: %v", err)
			}
		})
	}
}

func TestStorage_RejectsEmptyClient(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Put(ctx, "", KeyUser, []byte("{}")); !errors.Is(err, ErrNoClient) {
				t.Fatalf("err=%v", err)
			}
		})
	}
}

func TestBolt_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "clients.db")

	s, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := PutJSON(ctx, s, "c1", KeyCompare, []int{3, 1}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = OpenBolt(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	var ids []int
	ok, err := GetJSON(ctx, s, "c1", KeyCompare, &ids)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 1 {
		t.Fatalf("ids=%v", ids)
	}
}
