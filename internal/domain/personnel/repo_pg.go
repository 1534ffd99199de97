package personnel

import (
	"context"

	"github.com/google/uuid"
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

const staffCols = `id, first_name, last_name, role, specialty, phone, email,
	hired_at, salary, active, created_at, updated_at`

func (r *repoPG) scanStaff(row pgx.Row) (*StaffMember, error) {
	var m StaffMember
	err := row.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Role, &m.Specialty, &m.Phone, &m.Email,
		&m.HiredAt, &m.Salary, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	return &m, err
}

func (r *repoPG) Create(ctx context.Context, m *StaffMember) error {
	m.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO staff_member (id, first_name, last_name, role, specialty, phone, email, hired_at, salary, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		m.ID, m.FirstName, m.LastName, m.Role, m.Specialty, m.Phone, m.Email, m.HiredAt, m.Salary, m.Active)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*StaffMember, error) {
	return r.scanStaff(r.conn(ctx).QueryRow(ctx, `SELECT `+staffCols+` FROM staff_member WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, m *StaffMember) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE staff_member SET first_name=$2, last_name=$3, role=$4, specialty=$5, phone=$6,
			email=$7, hired_at=$8, salary=$9, active=$10, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.FirstName, m.LastName, m.Role, m.Specialty, m.Phone, m.Email, m.HiredAt, m.Salary, m.Active)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM staff_member WHERE id = $1`, id)
	return err
}

func (r *repoPG) collect(rows pgx.Rows) ([]*StaffMember, error) {
	defer rows.Close()
	var items []*StaffMember
	for rows.Next() {
		m, err := r.scanStaff(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, nil
}

func (r *repoPG) List(ctx context.Context, includeInactive bool, limit, offset int) ([]*StaffMember, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM staff_member WHERE active = true OR $1`, includeInactive).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+staffCols+` FROM staff_member
		WHERE active = true OR $1
		ORDER BY last_name, first_name LIMIT $2 OFFSET $3`, includeInactive, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.collect(rows)
	return items, total, err
}

func (r *repoPG) ListByRole(ctx context.Context, role string, limit, offset int) ([]*StaffMember, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM staff_member WHERE role = $1 AND active = true`, role).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+staffCols+` FROM staff_member
		WHERE role = $1 AND active = true
		ORDER BY last_name, first_name LIMIT $2 OFFSET $3`, role, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.collect(rows)
	return items, total, err
}

func (r *repoPG) AddAbsence(ctx context.Context, a *Absence) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO staff_absence (id, staff_id, starts_on, ends_on, reason)
		VALUES ($1,$2,$3,$4,$5)`,
		a.ID, a.StaffID, a.StartsOn, a.EndsOn, a.Reason)
	return err
}

func (r *repoPG) DeleteAbsence(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM staff_absence WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListAbsences(ctx context.Context, staffID uuid.UUID) ([]*Absence, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, staff_id, starts_on, ends_on, reason, created_at
		FROM staff_absence WHERE staff_id = $1 ORDER BY starts_on DESC`, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Absence
	for rows.Next() {
		var a Absence
		if err := rows.Scan(&a.ID, &a.StaffID, &a.StartsOn, &a.EndsOn, &a.Reason, &a.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &a)
	}
	return items, nil
}
