package patient

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

const patientCols = `id, first_name, last_name, birth_date, gender, phone, email, address,
	allergies, medical_history, insurer_name, insured_number, coverage_rate,
	archived, created_at, updated_at`

func (r *repoPG) scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.BirthDate, &p.Gender, &p.Phone, &p.Email, &p.Address,
		&p.Allergies, &p.MedicalHistory, &p.InsurerName, &p.InsuredNumber, &p.CoverageRate,
		&p.Archived, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient (id, first_name, last_name, birth_date, gender, phone, email, address,
			allergies, medical_history, insurer_name, insured_number, coverage_rate, archived)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		p.ID, p.FirstName, p.LastName, p.BirthDate, p.Gender, p.Phone, p.Email, p.Address,
		p.Allergies, p.MedicalHistory, p.InsurerName, p.InsuredNumber, p.CoverageRate, p.Archived)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return r.scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient SET first_name=$2, last_name=$3, birth_date=$4, gender=$5,
			phone=$6, email=$7, address=$8, allergies=$9, medical_history=$10,
			insurer_name=$11, insured_number=$12, coverage_rate=$13, archived=$14, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.FirstName, p.LastName, p.BirthDate, p.Gender,
		p.Phone, p.Email, p.Address, p.Allergies, p.MedicalHistory,
		p.InsurerName, p.InsuredNumber, p.CoverageRate, p.Archived)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	return err
}

func (r *repoPG) collect(rows pgx.Rows) ([]*Patient, error) {
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := r.scanPatient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, nil
}

func (r *repoPG) List(ctx context.Context, includeArchived bool, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patient WHERE archived = false OR $1`, includeArchived).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+patientCols+` FROM patient
		WHERE archived = false OR $1
		ORDER BY last_name, first_name LIMIT $2 OFFSET $3`, includeArchived, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.collect(rows)
	return items, total, err
}

func (r *repoPG) Search(ctx context.Context, query string, limit, offset int) ([]*Patient, int, error) {
	pattern := "%" + query + "%"
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM patient
		WHERE first_name ILIKE $1 OR last_name ILIKE $1 OR phone ILIKE $1 OR email ILIKE $1`, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+patientCols+` FROM patient
		WHERE first_name ILIKE $1 OR last_name ILIKE $1 OR phone ILIKE $1 OR email ILIKE $1
		ORDER BY last_name, first_name LIMIT $2 OFFSET $3`, pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.collect(rows)
	return items, total, err
}

func (r *repoPG) AddDocument(ctx context.Context, d *Document) error {
	d.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient_document (id, patient_id, filename, content_type, size_bytes, storage_path, label, uploaded_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		d.ID, d.PatientID, d.Filename, d.ContentType, d.SizeBytes, d.StoragePath, d.Label, d.UploadedBy)
	return err
}

func (r *repoPG) GetDocument(ctx context.Context, id uuid.UUID) (*Document, error) {
	var d Document
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, patient_id, filename, content_type, size_bytes, storage_path, label, uploaded_by, created_at
		FROM patient_document WHERE id = $1`, id).
		Scan(&d.ID, &d.PatientID, &d.Filename, &d.ContentType, &d.SizeBytes, &d.StoragePath, &d.Label, &d.UploadedBy, &d.CreatedAt)
	return &d, err
}

func (r *repoPG) ListDocuments(ctx context.Context, patientID uuid.UUID) ([]*Document, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, patient_id, filename, content_type, size_bytes, storage_path, label, uploaded_by, created_at
		FROM patient_document WHERE patient_id = $1 ORDER BY created_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.PatientID, &d.Filename, &d.ContentType, &d.SizeBytes, &d.StoragePath, &d.Label, &d.UploadedBy, &d.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &d)
	}
	return items, nil
}

func (r *repoPG) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient_document WHERE id = $1`, id)
	return err
}
