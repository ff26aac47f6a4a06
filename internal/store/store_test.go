package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lawnchairsociety/dungeongen/internal/maze"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "levels.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mazeRecord(t *testing.T, lvl int) *Record {
	t.Helper()
	rec, err := NewRecord(KindMaze, uint32(lvl), map[string]int{"level": lvl}, maze.Generate(lvl))
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	return rec
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "levels.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to open store with nested path: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}

	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM levels").Scan(&count); err != nil {
		t.Errorf("Failed to query levels table: %v", err)
	}
}

func TestOpenWithConfigRejectsUnknownDriver(t *testing.T) {
	if _, err := OpenWithConfig(Config{Driver: "mysql"}); err == nil {
		t.Error("OpenWithConfig accepted an unknown driver")
	}
}

func TestSaveAndLoad(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	rec := mazeRecord(t, 3)

	id, created, err := s.Save(ctx, rec)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !created || id == 0 {
		t.Fatalf("Save = %d, %v; want new row", id, created)
	}

	got, err := s.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Kind != KindMaze || got.Seed != 3 || got.Fingerprint != rec.Fingerprint {
		t.Errorf("Load = %+v", got)
	}
	if got.Params != "level: 3\n" {
		t.Errorf("Params = %q", got.Params)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	g, err := got.Grid()
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if !g.Equal(maze.Generate(3)) {
		t.Error("stored level does not round-trip")
	}
}

func TestSaveDeduplicatesByFingerprint(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first, _, err := s.Save(ctx, mazeRecord(t, 5))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	second, created, err := s.Save(ctx, mazeRecord(t, 5))
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if created || second != first {
		t.Errorf("second Save = %d, %v; want %d, false", second, created, first)
	}

	all, err := s.List(ctx, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("List returned %d levels, want 1", len(all))
	}
}

func TestFindByFingerprint(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	rec := mazeRecord(t, 8)
	id, _, err := s.Save(ctx, rec)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.FindByFingerprint(ctx, rec.Fingerprint)
	if err != nil {
		t.Fatalf("FindByFingerprint: %v", err)
	}
	if got.ID != id {
		t.Errorf("FindByFingerprint id = %d, want %d", got.ID, id)
	}

	if _, err := s.FindByFingerprint(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByFingerprint(missing) = %v, want ErrNotFound", err)
	}
}

func TestLoadNotFound(t *testing.T) {
	s := setupTestStore(t)
	if _, err := s.Load(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(999) = %v, want ErrNotFound", err)
	}
}

func TestListByKind(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for _, lvl := range []int{1, 2} {
		if _, _, err := s.Save(ctx, mazeRecord(t, lvl)); err != nil {
			t.Fatalf("Save(%d): %v", lvl, err)
		}
	}
	rooms := mazeRecord(t, 9)
	rooms.Kind = KindRooms
	if _, _, err := s.Save(ctx, rooms); err != nil {
		t.Fatalf("Save rooms: %v", err)
	}

	mazes, err := s.List(ctx, KindMaze)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(mazes) != 2 {
		t.Fatalf("List(maze) returned %d levels, want 2", len(mazes))
	}
	if mazes[0].Seed != 1 || mazes[1].Seed != 2 {
		t.Errorf("List order = %d,%d, want 1,2", mazes[0].Seed, mazes[1].Seed)
	}
	if mazes[0].Data != nil {
		t.Error("List returned level data")
	}
}

func TestDelete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	id, _, err := s.Save(ctx, mazeRecord(t, 4))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Load(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after Delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"sqlite", DefaultConfig("data/levels.db"), false},
		{"sqlite without path", Config{Driver: "sqlite"}, true},
		{"postgres", Config{Driver: "postgres", Postgres: PostgresConfig{Host: "db", Database: "levels"}}, false},
		{"postgres without database", Config{Driver: "postgres", Postgres: PostgresConfig{Host: "db"}}, true},
		{"unknown", Config{Driver: "oracle"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := DefaultPostgresConfig()
	cfg.User, cfg.Password, cfg.Database = "gen", "secret", "levels"
	want := "host=localhost port=5432 user=gen password=secret dbname=levels sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
