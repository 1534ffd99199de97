package settings

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

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *repoPG) Get(ctx context.Context) (*Settings, error) {
	var s Settings
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT clinic_name, address, phone, email, siret, currency, default_tax_rate,
			default_coverage_rate, opening_hours, updated_at
		FROM clinic_settings WHERE id = 1`).Scan(
		&s.ClinicName, &s.Address, &s.Phone, &s.Email, &s.SIRET, &s.Currency, &s.DefaultTaxRate,
		&s.DefaultCoverageRate, &s.OpeningHours, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repoPG) Update(ctx context.Context, s *Settings) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE clinic_settings SET clinic_name=$1, address=$2, phone=$3, email=$4, siret=$5,
			currency=$6, default_tax_rate=$7, default_coverage_rate=$8, opening_hours=$9, updated_at=NOW()
		WHERE id = 1`,
		s.ClinicName, s.Address, s.Phone, s.Email, s.SIRET,
		s.Currency, s.DefaultTaxRate, s.DefaultCoverageRate, s.OpeningHours)
	return err
}
