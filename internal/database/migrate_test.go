package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"
)

func testDatabaseURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	return url
}

func setupTestDB(t *testing.T) (*sql.DB, string) {
	t.Helper()

	url := testDatabaseURL(t)
	db, err := Open(context.Background(), url)
	if err != nil {
		t.Skipf("database unreachable: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, url
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read embedded dir: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("embedded %d files, want 4", len(entries))
	}
}

func TestRunMigrations_UpIsIdempotent(t *testing.T) {
	db, url := setupTestDB(t)

	if err := RunMigrations(url); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := RunMigrations(url); err != nil {
		t.Fatalf("second run: %v", err)
	}

	for _, table := range []string{"users", "products"} {
		var exists bool
		err := db.QueryRow(`SELECT EXISTS (
			SELECT 1 FROM information_schema.tables WHERE table_name = $1
		)`, table).Scan(&exists)
		if err != nil || !exists {
			t.Fatalf("table %s exists=%v err=%v", table, exists, err)
		}
	}
}

func TestUsersEmailUnique(t *testing.T) {
	db, url := setupTestDB(t)
	if err := RunMigrations(url); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	email := fmt.Sprintf("unique_%d@x.com", time.Now().UnixNano())
	insert := `INSERT INTO users (email, name, pass_hash) VALUES ($1, $2, $3)`
	if _, err := db.Exec(insert, email, "A", []byte("h")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	t.Cleanup(func() { _, _ = db.Exec(`DELETE FROM users WHERE email = $1`, email) })

	if _, err := db.Exec(insert, email, "B", []byte("h")); err == nil {
		t.Fatal("duplicate email accepted")
	}
}
