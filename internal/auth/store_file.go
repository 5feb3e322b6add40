package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps users in a single JSON array document. Passwords are
// stored and compared as plaintext.
//
// Create is a read-modify-write followed by a whole-document overwrite with
// no lock spanning the two. Two concurrent registrations of the same email
// can both pass the duplicate check, and a concurrent registration of a
// different email can be lost. Use SQLiteStore or PostgresStore where that
// matters.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Ping(ctx context.Context) error {
	_, err := s.read()
	return err
}

func (s *FileStore) Create(ctx context.Context, u User) error {
	users, err := s.read()
	if err != nil {
		return err
	}

	for _, existing := range users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}

	return s.replace(append(users, u))
}

func (s *FileStore) Verify(ctx context.Context, email, password string) (User, error) {
	users, err := s.read()
	if err != nil {
		return User{}, err
	}

	for _, u := range users {
		if u.Email == email && u.Password == password {
			return u, nil
		}
	}
	return User{}, ErrInvalidCredentials
}

// Users returns the whole document.
func (s *FileStore) Users(ctx context.Context) ([]User, error) {
	return s.read()
}

// A missing document is an empty directory.
func (s *FileStore) read() ([]User, error) {
	raw, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return []User{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}

	var users []User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	if users == nil {
		users = []User{}
	}
	return users, nil
}

func (s *FileStore) replace(users []User) error {
	raw, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".users-*.json")
	if err != nil {
		return fmt.Errorf("write users: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write users: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write users: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("replace users: %w", err)
	}
	return nil
}
