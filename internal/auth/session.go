package auth

import (
	"context"

	"Storefront/internal/storage"
)

type State string

const (
	LoggedOut State = "logged_out"
	LoggedIn  State = "logged_in"
)

// Session identifies the user logged in on one client.
type Session struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Sessions is the single read path for "who is logged in on this client".
// Only the Gate writes through it.
type Sessions struct {
	Storage storage.Storage
}

func NewSessions(s storage.Storage) *Sessions {
	return &Sessions{Storage: s}
}

func (s *Sessions) Current(ctx context.Context, client string) (Session, bool, error) {
	var sess Session
	ok, err := storage.GetJSON(ctx, s.Storage, client, storage.KeyUser, &sess)
	if err != nil || !ok {
		return Session{}, false, err
	}
	return sess, true, nil
}

func (s *Sessions) State(ctx context.Context, client string) (State, error) {
	_, ok, err := s.Current(ctx, client)
	if err != nil {
		return LoggedOut, err
	}
	if ok {
		return LoggedIn, nil
	}
	return LoggedOut, nil
}

func (s *Sessions) set(ctx context.Context, client string, sess Session) error {
	return storage.PutJSON(ctx, s.Storage, client, storage.KeyUser, sess)
}

func (s *Sessions) clear(ctx context.Context, client string) error {
	return s.Storage.Delete(ctx, client, storage.KeyUser)
}
