package store

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// DB wraps sqlx.DB so the rest of the code stays driver-agnostic. Queries are
// written with ? placeholders and rebound per driver via sqlx.
type DB struct {
	Client *sqlx.DB
}

// Open connects to the store named by databaseURL. A postgres:// URL selects
// the pgx driver; anything else is treated as a sqlite DSN.
func Open(databaseURL string) (*DB, error) {
	driver := "sqlite"
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		driver = "pgx"
	}
	db, err := sqlx.Open(driver, databaseURL)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// modernc sqlite serializes writers; a single connection also keeps
		// :memory: databases from silently forking per connection.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(time.Hour)
	}
	return &DB{Client: db}, db.PingContext(context.Background())
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}

// Migrate creates the schema when it does not exist yet.
func (d *DB) Migrate(ctx context.Context) error {
	stmts := sqliteSchema
	if d.Client.DriverName() == "pgx" {
		stmts = postgresSchema
	}
	for _, stmt := range stmts {
		if _, err := d.Client.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
