// Package store is the Postgres persistence layer: ingredient catalog,
// nutrition plans, customers and coach logins.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName is returned when an ingredient name is already taken
	// (names are unique case-insensitively).
	ErrDuplicateName = errors.New("duplicate name")
)

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// Store wraps a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
	log  logrus.FieldLogger
}

// Open creates a connection pool. A pool (not a single conn) survives the
// hosted database closing idle connections.
func Open(ctx context.Context, databaseURL string, log logrus.FieldLogger) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	// Simple protocol avoids "cached plan must not change result type" errors
	// from server-side prepared statements after a migration.
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool, log: log}, nil
}

// Close releases every pooled connection.
func (s *Store) Close() { s.pool.Close() }

/* ─── Query helpers ───────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T by column name.
// pgx.ErrNoRows becomes ErrNotFound.
func queryOne[T any](ctx context.Context, s *Store, sql string, args pgx.NamedArgs) (T, error) {
	var zero T
	rows, err := s.pool.Query(ctx, sql, args)
	if err != nil {
		s.log.Errorf("[queryOne] query error: %v", err)
		return zero, translate(err)
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.log.Errorf("[queryOne] scan error: %v", err)
		}
		return zero, translate(err)
	}
	return result, nil
}

// queryMany runs a query and scans all rows into []T. The result is never nil.
func queryMany[T any](ctx context.Context, s *Store, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := s.pool.Query(ctx, sql, args)
	if err != nil {
		s.log.Errorf("[queryMany] query error: %v", err)
		return nil, translate(err)
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		s.log.Errorf("[queryMany] scan error: %v", err)
		return nil, translate(err)
	}
	if results == nil {
		results = []T{}
	}
	return results, nil
}

// exec runs a statement and reports ErrNotFound when it touched no rows.
func (s *Store) exec(ctx context.Context, sql string, args pgx.NamedArgs) error {
	tag, err := s.pool.Exec(ctx, sql, args)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// translate maps driver errors onto the package sentinels, keeping the cause.
func translate(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicateName, pgErr.ConstraintName)
	}
	return err
}
