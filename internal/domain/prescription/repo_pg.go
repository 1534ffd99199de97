package prescription

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

const rxCols = `id, number, patient_id, practitioner_id, prescribed_date, note, created_at, updated_at`

func (r *repoPG) scanRx(row pgx.Row) (*Prescription, error) {
	var p Prescription
	err := row.Scan(&p.ID, &p.Number, &p.PatientID, &p.PractitionerID, &p.PrescribedDate,
		&p.Note, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Prescription) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO prescription (id, number, patient_id, practitioner_id, prescribed_date, note)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		p.ID, p.Number, p.PatientID, p.PractitionerID, p.PrescribedDate, p.Note)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	return r.scanRx(r.conn(ctx).QueryRow(ctx, `SELECT `+rxCols+` FROM prescription WHERE id = $1`, id))
}

func (r *repoPG) GetByNumber(ctx context.Context, number string) (*Prescription, error) {
	return r.scanRx(r.conn(ctx).QueryRow(ctx, `SELECT `+rxCols+` FROM prescription WHERE number = $1`, number))
}

func (r *repoPG) Update(ctx context.Context, p *Prescription) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE prescription SET practitioner_id=$2, prescribed_date=$3, note=$4, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.PractitionerID, p.PrescribedDate, p.Note)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM prescription WHERE id = $1`, id)
	return err
}

func (r *repoPG) collect(rows pgx.Rows) ([]*Prescription, error) {
	defer rows.Close()
	var items []*Prescription
	for rows.Next() {
		p, err := r.scanRx(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Prescription, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM prescription`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+rxCols+` FROM prescription ORDER BY prescribed_date DESC, number DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.collect(rows)
	return items, total, err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM prescription WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+rxCols+` FROM prescription WHERE patient_id = $1 ORDER BY prescribed_date DESC, number DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.collect(rows)
	return items, total, err
}

func (r *repoPG) AddItem(ctx context.Context, item *Item) error {
	item.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO prescription_item (id, prescription_id, sequence, medication, dosage, duration, instructions)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		item.ID, item.PrescriptionID, item.Sequence, item.Medication, item.Dosage, item.Duration, item.Instructions)
	return err
}

func (r *repoPG) GetItems(ctx context.Context, prescriptionID uuid.UUID) ([]*Item, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, prescription_id, sequence, medication, dosage, duration, instructions
		FROM prescription_item WHERE prescription_id = $1 ORDER BY sequence`, prescriptionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.PrescriptionID, &it.Sequence, &it.Medication, &it.Dosage, &it.Duration, &it.Instructions); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, nil
}

func (r *repoPG) DeleteItems(ctx context.Context, prescriptionID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM prescription_item WHERE prescription_id = $1`, prescriptionID)
	return err
}
