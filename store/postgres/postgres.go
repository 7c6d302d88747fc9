// Package postgres implements store.Store on PostgreSQL with sqlx and lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/kevinaaaquil/compro/store"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Config struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type DB struct {
	db *sqlx.DB
}

var _ store.Store = (*DB)(nil)

// Open connects and verifies the connection with a ping.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	db, err := sqlx.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return New(db), nil
}

func New(db *sqlx.DB) *DB {
	return &DB{db: db}
}

// gooseUp is swapped in tests.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

// Migrate applies the embedded schema migrations.
func (d *DB) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := gooseUp(ctx, d.db.DB, "migrations"); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DB) Close(context.Context) error {
	return d.db.Close()
}

var uniqueConstraintFields = map[string]string{
	"users_email_key":       "email",
	"users_username_key":    "username",
	"posts_slug_key":        "slug",
	"categories_name_key":   "name",
	"categories_slug_key":   "slug",
	"website_profile_pkey":  "id",
	"bootstrap_claims_pkey": "name",
}

// pgErr translates driver errors into *store.Error.
func pgErr(entity string, err error) error {
	if err == nil {
		return nil
	}
	var se *store.Error
	if errors.As(err, &se) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return store.NotFound(entity)
	}
	var pe *pq.Error
	if errors.As(err, &pe) {
		switch pe.Code {
		case "23505": // unique_violation
			return store.Unique(entity, uniqueConstraintFields[pe.Constraint], err)
		case "23503": // foreign_key_violation
			return store.Reference(entity, err)
		}
	}
	return store.Internal(entity, err)
}

// setter accumulates "col = $n" clauses for partial updates.
type setter struct {
	cols []string
	args []interface{}
}

func (s *setter) add(col string, v interface{}) {
	s.args = append(s.args, v)
	s.cols = append(s.cols, fmt.Sprintf("%s = $%d", col, len(s.args)))
}

// update builds "UPDATE table SET ..., updated_at = now() WHERE id = $n".
func (s *setter) update(table, id string) (string, []interface{}) {
	cols := append(s.cols, "updated_at = now()")
	args := append(s.args, id)
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(cols, ", "), len(args)), args
}

func rowsAffected(entity string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return store.Internal(entity, err)
	}
	if n == 0 {
		return store.NotFound(entity)
	}
	return nil
}

// withTx runs fn in a transaction, rolling back on error or panic.
func (d *DB) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
