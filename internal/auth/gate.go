package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

const minPasswordLen = 6

// ValidationError is malformed user input. Nothing was changed.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

type Registration struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Gate owns every session transition of a client: it checks credentials
// against the user directory, persists the session, and announces the
// change on Events.
type Gate struct {
	Users    UserStore
	Sessions *Sessions
	Events   *Broadcaster
	Log      *zap.Logger
	Now      func() time.Time
}

func (g *Gate) Register(ctx context.Context, client string, in Registration) (Session, error) {
	switch {
	case in.Name == "" || in.Email == "" || in.Password == "" || in.ConfirmPassword == "":
		return Session{}, &ValidationError{Msg: "Please fill in all fields"}
	case in.Password != in.ConfirmPassword:
		return Session{}, &ValidationError{Msg: "Passwords do not match"}
	case utf8.RuneCountInString(in.Password) < minPasswordLen:
		return Session{}, &ValidationError{Msg: fmt.Sprintf("Password must be at least %d characters long", minPasswordLen)}
	}

	u := User{Name: in.Name, Email: in.Email, Password: in.Password}
	if err := g.Users.Create(ctx, u); err != nil {
		return Session{}, err
	}

	sess := Session{Name: u.Name, Email: u.Email}
	if err := g.establish(ctx, client, EventRegister, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (g *Gate) Login(ctx context.Context, client, email, password string) (Session, error) {
	if email == "" || password == "" {
		return Session{}, &ValidationError{Msg: "Please fill in all fields"}
	}

	u, err := g.Users.Verify(ctx, email, password)
	if err != nil {
		return Session{}, err
	}

	sess := Session{Name: u.Name, Email: u.Email}
	if err := g.establish(ctx, client, EventLogin, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Logout clears the session whether or not one exists.
func (g *Gate) Logout(ctx context.Context, client string) error {
	if err := g.Sessions.clear(ctx, client); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	g.publish(Event{Kind: EventLogout, Client: client, State: LoggedOut})
	return nil
}

func (g *Gate) establish(ctx context.Context, client string, kind EventKind, sess Session) error {
	if err := g.Sessions.set(ctx, client, sess); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	g.publish(Event{Kind: kind, Client: client, State: LoggedIn, Session: &sess})
	return nil
}

func (g *Gate) publish(e Event) {
	if g.Now != nil {
		e.At = g.Now()
	} else {
		e.At = time.Now().UTC()
	}

	if g.Events == nil {
		return
	}
	if dropped := g.Events.Publish(e); dropped > 0 && g.Log != nil {
		g.Log.Warn("session event dropped", zap.String("kind", string(e.Kind)), zap.Int("subscribers", dropped))
	}
}
