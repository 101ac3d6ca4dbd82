// Package repository provides pgx helper functions for transaction
// management and query execution.
package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WithTx executes fn within a database transaction, handling Begin, Commit,
// and Rollback automatically.
func WithTx[T any](ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) (T, error)) (T, error) {
	var zero T

	tx, err := pool.Begin(ctx)
	if err != nil {
		return zero, err
	}
	defer tx.Rollback(ctx)

	result, err := fn(tx)
	if err != nil {
		return zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return zero, err
	}

	return result, nil
}

// ScanFunc converts a pgx.Row into a typed value. Domain packages define
// their own scan functions for entity types.
type ScanFunc[T any] func(pgx.Row) (T, error)

// QueryOne executes a query expected to return a single row.
func QueryOne[T any](ctx context.Context, tx pgx.Tx, sql string, args []any, scan ScanFunc[T]) (T, error) {
	var zero T
	result, err := scan(tx.QueryRow(ctx, sql, args...))
	if err != nil {
		return zero, err
	}
	return result, nil
}

// FindOne executes a pool-level query expected to return a single row.
func FindOne[T any](ctx context.Context, pool *pgxpool.Pool, sql string, args []any, scan ScanFunc[T]) (T, error) {
	var zero T
	result, err := scan(pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return zero, err
	}
	return result, nil
}

// QueryMany executes a pool-level query, scanning every row with scan.
func QueryMany[T any](ctx context.Context, pool *pgxpool.Pool, sql string, args []any, scan ScanFunc[T]) ([]T, error) {
	rows, err := pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// ExecExpectOne executes a statement expected to affect exactly one row.
// Returns pgx.ErrNoRows if no rows were affected.
func ExecExpectOne(ctx context.Context, tx pgx.Tx, sql string, args ...any) error {
	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}
