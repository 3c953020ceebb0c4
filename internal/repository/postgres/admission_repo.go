package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/medisys-io/ipdflow/internal/domain/admission"
	"github.com/medisys-io/ipdflow/internal/domain/patient"
	"github.com/medisys-io/ipdflow/internal/domain/reference"
	"github.com/medisys-io/ipdflow/internal/domain/ward"
	"gorm.io/gorm"
)

type AdmissionRepo struct {
	db *gorm.DB
}

func NewAdmissionRepo(db *gorm.DB) *AdmissionRepo {
	return &AdmissionRepo{db: db}
}

func (r *AdmissionRepo) Create(ctx context.Context, a *admission.Admission) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		// The partial unique indexes reject the loser of two concurrent
		// admits that both passed the availability check.
		if isUniqueViolation(err, "uq_admissions_active_bed") {
			return admission.ErrBedNotAvailable
		}
		if isUniqueViolation(err, "uq_admissions_active_patient") {
			return admission.ErrAlreadyAdmitted
		}
		return err
	}
	return nil
}

func (r *AdmissionRepo) GetByID(ctx context.Context, id uuid.UUID) (*admission.Admission, error) {
	var a admission.Admission
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, admission.ErrAdmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdmissionRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*admission.Detail, error) {
	var admissions []*admission.Admission
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&admissions).Error
	if err != nil {
		return nil, err
	}
	if len(admissions) == 0 {
		return []*admission.Detail{}, nil
	}

	// Batch-resolve display names for the referenced records.
	wardIDs := make([]uuid.UUID, 0, len(admissions))
	categoryIDs := make([]uuid.UUID, 0, len(admissions))
	doctorIDs := make([]uuid.UUID, 0, len(admissions))
	for _, a := range admissions {
		wardIDs = append(wardIDs, a.WardID)
		categoryIDs = append(categoryIDs, a.RoomCategoryID)
		doctorIDs = append(doctorIDs, a.AdmittingDoctorID)
	}

	var p patient.Patient
	if err := r.db.WithContext(ctx).First(&p, "id = ?", patientID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	wardNames, err := namesByID[ward.Ward](r.db, ctx, wardIDs, "name")
	if err != nil {
		return nil, err
	}
	categoryNames, err := namesByID[reference.RoomCategory](r.db, ctx, categoryIDs, "name")
	if err != nil {
		return nil, err
	}
	doctorNames, err := namesByID[reference.Doctor](r.db, ctx, doctorIDs, "name")
	if err != nil {
		return nil, err
	}

	details := make([]*admission.Detail, 0, len(admissions))
	for _, a := range admissions {
		details = append(details, &admission.Detail{
			Admission:        *a,
			PatientMRN:       p.MRN,
			PatientName:      p.FullName(),
			WardName:         wardNames[a.WardID],
			RoomCategoryName: categoryNames[a.RoomCategoryID],
			DoctorName:       doctorNames[a.AdmittingDoctorID],
		})
	}
	return details, nil
}

func (r *AdmissionRepo) HasActiveForPatient(ctx context.Context, patientID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&admission.Admission{}).
		Where("patient_id = ? AND status = ?", patientID, admission.StatusAdmitted).
		Count(&count).Error
	return count > 0, err
}

func (r *AdmissionRepo) CountActiveForBed(ctx context.Context, wardID uuid.UUID, bedNumber string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&admission.Admission{}).
		Where("ward_id = ? AND bed_number = ? AND status = ?", wardID, bedNumber, admission.StatusAdmitted).
		Count(&count).Error
	return count, err
}

func (r *AdmissionRepo) UpdateStatus(ctx context.Context, a *admission.Admission) error {
	res := r.db.WithContext(ctx).
		Model(&admission.Admission{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"status":                a.Status,
			"actual_discharge_date": a.ActualDischargeDate,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return admission.ErrAdmissionNotFound
	}
	return nil
}

// namesByID loads the name column of model T for the given IDs.
func namesByID[T any](db *gorm.DB, ctx context.Context, ids []uuid.UUID, column string) (map[uuid.UUID]string, error) {
	type row struct {
		ID   uuid.UUID
		Name string
	}
	var rows []row
	var model T
	err := db.WithContext(ctx).
		Model(&model).
		Select("id, "+column+" AS name").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(rows))
	for _, r := range rows {
		names[r.ID] = r.Name
	}
	return names, nil
}

type ReportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

func (r *ReportRepo) Create(ctx context.Context, report *admission.DailyProgressReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *ReportRepo) ListByAdmission(ctx context.Context, admissionID uuid.UUID) ([]*admission.DailyProgressReport, error) {
	var reports []*admission.DailyProgressReport
	err := r.db.WithContext(ctx).
		Where("admission_id = ?", admissionID).
		Order("reported_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}
