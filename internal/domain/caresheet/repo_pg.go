package caresheet

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

const sheetCols = `id, number, patient_id, practitioner_id, status, care_date,
	insurer_name, coverage_rate, total_amount, insurer_share, patient_share,
	note, created_at, updated_at`

func (r *repoPG) scanSheet(row pgx.Row) (*CareSheet, error) {
	var cs CareSheet
	err := row.Scan(&cs.ID, &cs.Number, &cs.PatientID, &cs.PractitionerID, &cs.Status, &cs.CareDate,
		&cs.InsurerName, &cs.CoverageRate, &cs.TotalAmount, &cs.InsurerShare, &cs.PatientShare,
		&cs.Note, &cs.CreatedAt, &cs.UpdatedAt)
	return &cs, err
}

func (r *repoPG) Create(ctx context.Context, cs *CareSheet) error {
	cs.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO care_sheet (id, number, patient_id, practitioner_id, status, care_date,
			insurer_name, coverage_rate, total_amount, insurer_share, patient_share, note)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		cs.ID, cs.Number, cs.PatientID, cs.PractitionerID, cs.Status, cs.CareDate,
		cs.InsurerName, cs.CoverageRate, cs.TotalAmount, cs.InsurerShare, cs.PatientShare, cs.Note)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*CareSheet, error) {
	return r.scanSheet(r.conn(ctx).QueryRow(ctx, `SELECT `+sheetCols+` FROM care_sheet WHERE id = $1`, id))
}

func (r *repoPG) GetByNumber(ctx context.Context, number string) (*CareSheet, error) {
	return r.scanSheet(r.conn(ctx).QueryRow(ctx, `SELECT `+sheetCols+` FROM care_sheet WHERE number = $1`, number))
}

func (r *repoPG) Update(ctx context.Context, cs *CareSheet) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE care_sheet SET status=$2, care_date=$3, insurer_name=$4, coverage_rate=$5,
			total_amount=$6, insurer_share=$7, patient_share=$8, note=$9, updated_at=NOW()
		WHERE id = $1`,
		cs.ID, cs.Status, cs.CareDate, cs.InsurerName, cs.CoverageRate,
		cs.TotalAmount, cs.InsurerShare, cs.PatientShare, cs.Note)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM care_sheet WHERE id = $1`, id)
	return err
}

func (r *repoPG) collect(rows pgx.Rows) ([]*CareSheet, error) {
	defer rows.Close()
	var items []*CareSheet
	for rows.Next() {
		cs, err := r.scanSheet(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, cs)
	}
	return items, nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*CareSheet, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM care_sheet`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+sheetCols+` FROM care_sheet ORDER BY care_date DESC, number DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.collect(rows)
	return items, total, err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*CareSheet, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM care_sheet WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+sheetCols+` FROM care_sheet WHERE patient_id = $1 ORDER BY care_date DESC, number DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.collect(rows)
	return items, total, err
}

func (r *repoPG) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*CareSheet, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM care_sheet WHERE status = $1`, status).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+sheetCols+` FROM care_sheet WHERE status = $1 ORDER BY care_date DESC, number DESC LIMIT $2 OFFSET $3`, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.collect(rows)
	return items, total, err
}

func (r *repoPG) AddAct(ctx context.Context, act *Act) error {
	act.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO care_sheet_act (id, care_sheet_id, sequence, code, description, tooth, fee)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		act.ID, act.CareSheetID, act.Sequence, act.Code, act.Description, act.Tooth, act.Fee)
	return err
}

func (r *repoPG) GetActs(ctx context.Context, careSheetID uuid.UUID) ([]*Act, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, care_sheet_id, sequence, code, description, tooth, fee
		FROM care_sheet_act WHERE care_sheet_id = $1 ORDER BY sequence`, careSheetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Act
	for rows.Next() {
		var a Act
		if err := rows.Scan(&a.ID, &a.CareSheetID, &a.Sequence, &a.Code, &a.Description, &a.Tooth, &a.Fee); err != nil {
			return nil, err
		}
		items = append(items, &a)
	}
	return items, nil
}

func (r *repoPG) DeleteActs(ctx context.Context, careSheetID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM care_sheet_act WHERE care_sheet_id = $1`, careSheetID)
	return err
}
