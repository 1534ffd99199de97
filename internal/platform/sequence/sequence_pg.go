package sequence

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dentio/clinic/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type generatorPG struct{ pool *pgxpool.Pool }

func NewGeneratorPG(pool *pgxpool.Pool) Generator { return &generatorPG{pool: pool} }

func (g *generatorPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return g.pool
}

// Next increments the counter row for (prefix, year) atomically. The upsert
// serializes concurrent callers on the row lock, so every caller sees a
// distinct value. When Next runs inside a transaction that later rolls back,
// the increment rolls back with it and the number is never reused out of
// order; a committed-then-abandoned document leaves a gap instead.
func (g *generatorPG) Next(ctx context.Context, prefix string, year int) (int, error) {
	var value int
	err := g.conn(ctx).QueryRow(ctx, `
		INSERT INTO document_sequence (prefix, year, value)
		VALUES ($1, $2, 1)
		ON CONFLICT (prefix, year) DO UPDATE SET value = document_sequence.value + 1
		RETURNING value`, prefix, year).Scan(&value)
	return value, err
}
