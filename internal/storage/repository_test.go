package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"financas/internal/store"
	"financas/internal/store/storetest"
)

func openSQLite(t *testing.T, now func() time.Time) *Repository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db", "financas.db")
	repo, err := Open(context.Background(), DialectSQLite, path, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo.WithClock(now)
}

func TestSQLiteRepository(t *testing.T) {
	storetest.Run(t, func(t *testing.T, now func() time.Time) store.Store {
		return openSQLite(t, now)
	})
}

// Postgres runs only when a disposable database is provided.
func TestPostgresRepository(t *testing.T) {
	dsn := os.Getenv("FINANCAS_TEST_POSTGRES_URL")
	if dsn == "" {
		t.Skip("FINANCAS_TEST_POSTGRES_URL not set")
	}
	storetest.Run(t, func(t *testing.T, now func() time.Time) store.Store {
		repo, err := Open(context.Background(), DialectPostgres, dsn, nil)
		if err != nil {
			t.Fatalf("open postgres: %v", err)
		}
		t.Cleanup(func() {
			repo.exec(context.Background(), "TRUNCATE transactions, categories, accounts, budgets, goals, profiles RESTART IDENTITY")
			repo.Close()
		})
		return repo.WithClock(now)
	})
}

func TestMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "financas.db")
	if err := RunMigrations(DialectSQLite, path); err != nil {
		t.Fatal(err)
	}
	if err := RunMigrations(DialectSQLite, path); err != nil {
		t.Fatalf("second run should be a no-op: %v", err)
	}
}

func TestRebind(t *testing.T) {
	pg := &Repository{dialect: DialectPostgres}
	if got := pg.rebind("SELECT * FROM t WHERE a = ? AND b = ?"); got != "SELECT * FROM t WHERE a = $1 AND b = $2" {
		t.Fatalf("got %q", got)
	}
	lite := &Repository{dialect: DialectSQLite}
	if got := lite.rebind("a = ?"); got != "a = ?" {
		t.Fatalf("got %q", got)
	}
}

func TestTimestampScan(t *testing.T) {
	var got time.Time
	want := time.Date(2025, 11, 1, 9, 30, 0, 123000000, time.UTC)
	if err := (timestamp{&got}).Scan(stamp(want)); err != nil || !got.Equal(want) {
		t.Fatalf("got %v, %v", got, err)
	}
	if err := (timestamp{&got}).Scan([]byte("2025-11-01 09:30:00")); err != nil {
		t.Fatal(err)
	}
	if err := (timestamp{&got}).Scan(3); err == nil {
		t.Fatal("expected error for int")
	}
}
