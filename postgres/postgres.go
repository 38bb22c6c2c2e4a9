package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

//go:embed migration/*.sql
var migrationFS embed.FS

// DB wraps a pgx connection pool. Requests run concurrently, so every
// store operation checks its own connection out of the pool instead of
// sharing a single conn.
type DB struct {
	pool *pgxpool.Pool

	// Datasource name.
	connStr string

	// now returns the current time. Sampled once per transaction so all
	// writes inside it share one timestamp.
	now func() time.Time
}

func NewDB(connStr string) *DB {
	return &DB{
		connStr: connStr,
		now:     time.Now,
	}
}

// Open connects the pool and brings the schema up to date.
func (db *DB) Open(ctx context.Context) error {
	if db.connStr == "" {
		return fmt.Errorf("db connection string required")
	}

	pool, err := pgxpool.Connect(ctx, db.connStr)
	if err != nil {
		return err
	}
	db.pool = pool

	if err := db.migrate(ctx); err != nil {
		return fmt.Errorf("error whilst migrating: %w", err)
	}

	return nil
}

func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

func (db *DB) migrate(ctx context.Context) error {
	// The migrations table records which files have already run.
	if _, err := db.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("cannot create migrations table: %w", err)
	}

	names, err := fs.Glob(migrationFS, "migration/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		if err := db.migrateFile(ctx, name); err != nil {
			return fmt.Errorf("migration error: name=%q err=%w", name, err)
		}
	}
	return nil
}

// migrateFile runs one migration inside its own transaction, skipping it
// when a previous start already applied it.
func (db *DB) migrateFile(ctx context.Context, name string) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var n int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM migrations WHERE name = $1`, name).Scan(&n); err != nil {
		return err
	} else if n != 0 {
		return nil
	}

	buf, err := fs.ReadFile(migrationFS, name)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, string(buf)); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `INSERT INTO migrations (name) VALUES ($1)`, name); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Tx is a pool transaction carrying the timestamp its writes share.
type Tx struct {
	pgx.Tx
	db  *DB
	now time.Time
}

func (db *DB) BeginTx(ctx context.Context) (*Tx, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}

	return &Tx{
		Tx:  tx,
		db:  db,
		now: db.now().UTC().Truncate(time.Second),
	}, nil
}
