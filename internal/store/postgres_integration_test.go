package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"
)

// getPostgresTestConfig returns PostgreSQL config if available, nil otherwise.
// Set DUNGEONGEN_TEST_POSTGRES to run these tests, plus optionally:
//
//	DUNGEONGEN_TEST_POSTGRES_HOST (default: localhost)
//	DUNGEONGEN_TEST_POSTGRES_PORT (default: 5432)
//	DUNGEONGEN_TEST_POSTGRES_USER (default: dungeongen)
//	DUNGEONGEN_TEST_POSTGRES_PASSWORD (default: dungeongen)
//	DUNGEONGEN_TEST_POSTGRES_DATABASE (default: dungeongen_test)
func getPostgresTestConfig() *Config {
	if os.Getenv("DUNGEONGEN_TEST_POSTGRES") == "" {
		return nil
	}

	env := func(key, def string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return def
	}

	port := 5432
	if portStr := os.Getenv("DUNGEONGEN_TEST_POSTGRES_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &port)
	}

	return &Config{
		Driver: string(DialectPostgres),
		Postgres: PostgresConfig{
			Host:            env("DUNGEONGEN_TEST_POSTGRES_HOST", "localhost"),
			Port:            port,
			User:            env("DUNGEONGEN_TEST_POSTGRES_USER", "dungeongen"),
			Password:        env("DUNGEONGEN_TEST_POSTGRES_PASSWORD", "dungeongen"),
			Database:        env("DUNGEONGEN_TEST_POSTGRES_DATABASE", "dungeongen_test"),
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Minute,
		},
	}
}

func setupPostgresTestStore(t *testing.T) *Store {
	cfg := getPostgresTestConfig()
	if cfg == nil {
		t.Skip("Skipping PostgreSQL test: DUNGEONGEN_TEST_POSTGRES not set")
	}
	s, err := OpenWithConfig(*cfg)
	if err != nil {
		t.Fatalf("Failed to open PostgreSQL store: %v", err)
	}
	s.DB().Exec("DELETE FROM levels")
	t.Cleanup(func() {
		s.DB().Exec("DELETE FROM levels")
		s.Close()
	})
	return s
}

func TestPostgres_SaveLoadDeduplicate(t *testing.T) {
	s := setupPostgresTestStore(t)
	ctx := context.Background()

	rec := mazeRecord(t, 6)
	id, created, err := s.Save(ctx, rec)
	if err != nil || !created {
		t.Fatalf("Save = %d, %v, %v", id, created, err)
	}
	again, created, err := s.Save(ctx, mazeRecord(t, 6))
	if err != nil || created || again != id {
		t.Fatalf("second Save = %d, %v, %v; want %d, false", again, created, err, id)
	}

	got, err := s.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Fingerprint != rec.Fingerprint || got.Seed != 6 {
		t.Errorf("Load = %+v", got)
	}
}
