// Package postgres contains the gorm-backed implementations of the
// domain repository interfaces.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/medisys-io/ipdflow/internal/domain/patient"
	"gorm.io/gorm"
)

type PatientRepo struct {
	db *gorm.DB
}

func NewPatientRepo(db *gorm.DB) *PatientRepo {
	return &PatientRepo{db: db}
}

func (r *PatientRepo) Create(ctx context.Context, p *patient.Patient) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if isUniqueViolation(err, "") {
			return patient.ErrPatientAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PatientRepo) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	var p patient.Patient
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, patient.ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PatientRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status patient.Status) error {
	res := r.db.WithContext(ctx).
		Model(&patient.Patient{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return patient.ErrPatientNotFound
	}
	return nil
}

func (r *PatientRepo) List(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	tx := r.db.WithContext(ctx).Model(&patient.Patient{}).Where("deleted_at IS NULL")

	if q.Search != "" {
		like := "%" + q.Search + "%"
		tx = tx.Where("mrn ILIKE ? OR (first_name || ' ' || last_name) ILIKE ?", like, like)
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting patients: %w", err)
	}

	var patients []*patient.Patient
	err := tx.
		Order("created_at DESC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&patients).Error
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
	return &patient.PagedPatients{
		Patients:   patients,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages,
	}, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation, optionally on the named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code != "23505" {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
