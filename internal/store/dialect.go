package store

import (
	"errors"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// DialectType identifies the database dialect.
type DialectType string

const (
	DialectSQLite   DialectType = "sqlite"
	DialectPostgres DialectType = "postgres"
)

// Dialect holds what differs between the SQLite and PostgreSQL backends.
// Queries are written once with ? placeholders and bound per dialect.
type Dialect struct {
	Type DialectType
	// Driver is the database/sql driver name.
	Driver string
	// Numbered placeholders ($1, $2, ...) replace ? when set.
	Numbered bool
	// Returning inserts report their id through a RETURNING clause
	// instead of Result.LastInsertId.
	Returning bool
	// SerialKey is the column definition of an auto-incrementing id.
	SerialKey string
	// Blob is the column type for raw level documents.
	Blob string
	// Init runs once after the connection opens.
	Init []string

	uniqueViolation []string
}

var dialects = map[DialectType]*Dialect{
	DialectSQLite: {
		Type:      DialectSQLite,
		Driver:    "sqlite",
		SerialKey: "INTEGER PRIMARY KEY AUTOINCREMENT",
		Blob:      "BLOB",
		Init: []string{
			"PRAGMA journal_mode = WAL",
			"PRAGMA busy_timeout = 5000",
		},
		uniqueViolation: []string{"UNIQUE constraint failed"},
	},
	DialectPostgres: {
		Type:            DialectPostgres,
		Driver:          "postgres",
		Numbered:        true,
		Returning:       true,
		SerialKey:       "BIGSERIAL PRIMARY KEY",
		Blob:            "BYTEA",
		uniqueViolation: []string{"duplicate key", "unique constraint"},
	},
}

// NewDialect returns the dialect for t. Unknown types fall back to SQLite.
func NewDialect(t DialectType) *Dialect {
	if d, ok := dialects[t]; ok {
		return d
	}
	return dialects[DialectSQLite]
}

// Bind rewrites the ? placeholders of query for the dialect.
//
//	input:    "SELECT id FROM levels WHERE kind = ? AND seed = ?"
//	SQLite:   unchanged
//	Postgres: "SELECT id FROM levels WHERE kind = $1 AND seed = $2"
func (d *Dialect) Bind(query string) string {
	if !d.Numbered || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	n := 0
	for _, part := range strings.SplitAfter(query, "?") {
		if !strings.HasSuffix(part, "?") {
			b.WriteString(part)
			continue
		}
		n++
		b.WriteString(part[:len(part)-1])
		b.WriteString("$" + strconv.Itoa(n))
	}
	return b.String()
}

// BindInsert is Bind for an INSERT whose new id is read back from column.
func (d *Dialect) BindInsert(query, column string) string {
	query = d.Bind(query)
	if d.Returning {
		query += " RETURNING " + column
	}
	return query
}

// IsDuplicateKeyError reports a unique constraint violation.
func (d *Dialect) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	msg := err.Error()
	for _, frag := range d.uniqueViolation {
		if strings.Contains(msg, frag) {
			return true
		}
	}
	return false
}
