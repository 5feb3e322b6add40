package lists

import (
	"context"
	"errors"
	"fmt"

	"Storefront/internal/auth"
	"Storefront/internal/catalog"
	"Storefront/internal/storage"
)

var (
	ErrLoginRequired  = errors.New("login required")
	ErrUnknownProduct = errors.New("unknown product")
)

type Kind string

const (
	Wishlist Kind = "wishlist"
	Compare  Kind = "compare"
)

func (k Kind) key() string {
	if k == Wishlist {
		return storage.KeyWishlist
	}
	return storage.KeyCompare
}

// SessionReader tells whether a client is logged in. *auth.Sessions
// satisfies it.
type SessionReader interface {
	State(ctx context.Context, client string) (auth.State, error)
}

// Service persists both sets per client. Wishlist changes require a
// session; compare changes do not.
type Service struct {
	Storage  storage.Storage
	Sessions SessionReader
	Catalog  CatalogLoader
}

// CatalogLoader is satisfied by *catalog.Store.
type CatalogLoader interface {
	Load(ctx context.Context) (catalog.Catalog, error)
}

func (s *Service) loggedIn(ctx context.Context, client string) (bool, error) {
	st, err := s.Sessions.State(ctx, client)
	if err != nil {
		return false, fmt.Errorf("read session: %w", err)
	}
	return st == auth.LoggedIn, nil
}

func (s *Service) Get(ctx context.Context, client string, kind Kind) (Set, error) {
	var set Set
	if _, err := storage.GetJSON(ctx, s.Storage, client, kind.key(), &set); err != nil {
		return nil, fmt.Errorf("read %s: %w", kind, err)
	}
	if set == nil {
		return Set{}, nil
	}
	return normalize(set), nil
}

func (s *Service) ToggleWishlist(ctx context.Context, client string, id int) (Set, error) {
	ok, err := s.loggedIn(ctx, client)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLoginRequired
	}
	return s.toggle(ctx, client, Wishlist, id)
}

func (s *Service) ToggleCompare(ctx context.Context, client string, id int) (Set, error) {
	return s.toggle(ctx, client, Compare, id)
}

func (s *Service) toggle(ctx context.Context, client string, kind Kind, id int) (Set, error) {
	cur, err := s.Get(ctx, client, kind)
	if err != nil {
		return nil, err
	}

	// Only catalog products can be added; stale ids can still be removed.
	if !cur.Contains(id) && s.Catalog != nil {
		c, _ := s.Catalog.Load(ctx)
		if _, ok := c.Get(id); !ok {
			return nil, ErrUnknownProduct
		}
	}

	next := Toggle(cur, id)
	if err := storage.PutJSON(ctx, s.Storage, client, kind.key(), next); err != nil {
		return nil, fmt.Errorf("write %s: %w", kind, err)
	}
	return next, nil
}

// Marks implements catalog.Marker.
func (s *Service) Marks(ctx context.Context, client string, id int) (catalog.Marks, error) {
	var m catalog.Marks

	loggedIn, err := s.loggedIn(ctx, client)
	if err != nil {
		return m, err
	}
	wish, err := s.Get(ctx, client, Wishlist)
	if err != nil {
		return m, err
	}
	cmp, err := s.Get(ctx, client, Compare)
	if err != nil {
		return m, err
	}

	m.LoggedIn = loggedIn
	m.InWishlist = wish.Contains(id)
	m.InCompare = cmp.Contains(id)
	return m, nil
}
