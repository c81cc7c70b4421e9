package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/barryq93/promPGRestore/internal/types"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// SizeQuery lists every database on the server with its on-disk size in bytes.
const SizeQuery = "SELECT datname, pg_database_size(datname) FROM pg_database"

type DBClient struct {
	conn    *sql.DB
	section string
	closed  bool
}

// NewDBClient opens a single connection to the database described by conn.
func NewDBClient(ctx context.Context, conn types.Connection) (*DBClient, error) {
	db, err := sql.Open("pgx", DSN(conn))
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", types.ErrConnection, conn.Section, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// sql.Open is lazy, the ping is what actually dials the server.
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: connecting to %s: %v", types.ErrConnection, conn.Section, err)
	}
	return newDBClient(db, conn.Section), nil
}

func newDBClient(db *sql.DB, section string) *DBClient {
	return &DBClient{conn: db, section: section}
}

// DSN renders conn as a libpq key/value connection string.
func DSN(conn types.Connection) string {
	pairs := []struct{ key, value string }{
		{"host", conn.Host},
		{"port", conn.Port},
		{"user", conn.User},
		{"dbname", conn.Database},
		{"password", conn.Password},
		{"sslmode", conn.SSLMode},
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p.value == "" && (p.key == "port" || p.key == "sslmode") {
			continue
		}
		parts = append(parts, p.key+"="+quote(p.value))
	}
	return strings.Join(parts, " ")
}

func quote(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

// DatabaseSizes runs SizeQuery and returns every row.
func (c *DBClient) DatabaseSizes(ctx context.Context) ([]types.DatabaseSize, error) {
	rows, err := c.conn.QueryContext(ctx, SizeQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: executing size query on %s: %v", types.ErrQuery, c.section, err)
	}
	defer rows.Close()

	var results []types.DatabaseSize
	for rows.Next() {
		var (
			name string
			size int64
		)
		if err := rows.Scan(&name, &size); err != nil {
			return nil, fmt.Errorf("%w: scanning size row on %s: %v", types.ErrQuery, c.section, err)
		}
		if size < 0 {
			return nil, fmt.Errorf("%w: negative size %d for database %s", types.ErrQuery, size, name)
		}
		results = append(results, types.DatabaseSize{Name: name, SizeBytes: uint64(size)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading size rows on %s: %v", types.ErrQuery, c.section, err)
	}
	return results, nil
}

// Close releases the connection. Calls after the first are no-ops.
func (c *DBClient) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}
