package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/dungeongen/internal/level"
)

// Generator kinds stored in the kind column.
const (
	KindMaze  = "maze"
	KindRooms = "rooms"
)

// ErrNotFound is returned when no level matches a lookup.
var ErrNotFound = errors.New("level not found")

// Record is one archived level. Data holds the level YAML document and
// Params the generator parameters it was built from, also as YAML.
type Record struct {
	ID          int64
	Kind        string
	Seed        uint32
	Params      string
	Fingerprint string
	Data        []byte
	CreatedAt   time.Time
}

// NewRecord encodes g and its generator parameters into a Record.
func NewRecord(kind string, seed uint32, params any, g *level.Grid) (*Record, error) {
	data, err := level.Marshal(g)
	if err != nil {
		return nil, err
	}
	var p []byte
	if params != nil {
		if p, err = yaml.Marshal(params); err != nil {
			return nil, fmt.Errorf("failed to encode params: %w", err)
		}
	}
	return &Record{
		Kind:        kind,
		Seed:        seed,
		Params:      string(p),
		Fingerprint: g.Fingerprint(),
		Data:        data,
	}, nil
}

// Grid decodes the stored level.
func (r *Record) Grid() (*level.Grid, error) {
	return level.Unmarshal(r.Data)
}

// Save stores rec unless a level with the same fingerprint exists. It
// returns the row id and whether a new row was written.
func (s *Store) Save(ctx context.Context, rec *Record) (int64, bool, error) {
	if existing, err := s.FindByFingerprint(ctx, rec.Fingerprint); err == nil {
		return existing.ID, false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return 0, false, err
	}

	query := s.dialect.BindInsert(
		"INSERT INTO levels (kind, seed, params, fingerprint, data) VALUES (?, ?, ?, ?, ?)", "id")
	args := []any{rec.Kind, int64(rec.Seed), rec.Params, rec.Fingerprint, rec.Data}

	var id int64
	if !s.dialect.Returning {
		result, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return s.duplicate(ctx, rec, err)
		}
		if id, err = result.LastInsertId(); err != nil {
			return 0, false, fmt.Errorf("failed to read level id: %w", err)
		}
	} else if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return s.duplicate(ctx, rec, err)
	}

	rec.ID = id
	return id, true, nil
}

// duplicate resolves an insert that lost a race with an identical level.
func (s *Store) duplicate(ctx context.Context, rec *Record, err error) (int64, bool, error) {
	if !s.dialect.IsDuplicateKeyError(err) {
		return 0, false, fmt.Errorf("failed to save level: %w", err)
	}
	existing, ferr := s.FindByFingerprint(ctx, rec.Fingerprint)
	if ferr != nil {
		return 0, false, ferr
	}
	return existing.ID, false, nil
}

const selectLevel = "SELECT id, kind, seed, params, fingerprint, data, created_at FROM levels"

// Load returns the level with the given id.
func (s *Store) Load(ctx context.Context, id int64) (*Record, error) {
	row := s.db.QueryRowContext(ctx, s.dialect.Bind(selectLevel+" WHERE id = ?"), id)
	return scanRecord(row)
}

// FindByFingerprint returns the level with the given fingerprint.
func (s *Store) FindByFingerprint(ctx context.Context, fingerprint string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, s.dialect.Bind(selectLevel+" WHERE fingerprint = ?"), fingerprint)
	return scanRecord(row)
}

// List returns the stored levels of a kind, oldest first, without their
// data. An empty kind lists every level.
func (s *Store) List(ctx context.Context, kind string) ([]Record, error) {
	query := "SELECT id, kind, seed, params, fingerprint, created_at FROM levels"
	var args []any
	if kind != "" {
		query += " WHERE kind = ?"
		args = append(args, kind)
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, s.dialect.Bind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var seed int64
		var created sql.NullTime
		if err := rows.Scan(&r.ID, &r.Kind, &seed, &r.Params, &r.Fingerprint, &created); err != nil {
			return nil, fmt.Errorf("failed to scan level: %w", err)
		}
		r.Seed = uint32(seed)
		r.CreatedAt = created.Time
		out = append(out, r)
	}
	return out, rows.Err()
}

// Delete removes the level with the given id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, s.dialect.Bind("DELETE FROM levels WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete level: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanRecord(row *sql.Row) (*Record, error) {
	var r Record
	var seed int64
	var created sql.NullTime
	err := row.Scan(&r.ID, &r.Kind, &seed, &r.Params, &r.Fingerprint, &r.Data, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load level: %w", err)
	}
	r.Seed = uint32(seed)
	r.CreatedAt = created.Time
	return &r, nil
}
