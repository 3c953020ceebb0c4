package admission

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new admission. Returns ErrBedNotAvailable when
	// the store rejects a second Admitted admission for the same bed.
	Create(ctx context.Context, a *Admission) error

	// GetByID retrieves an admission by primary key. Returns
	// ErrAdmissionNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*Admission, error)

	// ListByPatient returns every admission for a patient, newest first,
	// with reference display fields expanded.
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Detail, error)

	// HasActiveForPatient reports whether the patient currently has an
	// Admitted admission.
	HasActiveForPatient(ctx context.Context, patientID uuid.UUID) (bool, error)

	// CountActiveForBed counts Admitted admissions for the given
	// (ward, bed number) pair. This is the authoritative availability
	// check: the bed's cached status is never consulted for it.
	CountActiveForBed(ctx context.Context, wardID uuid.UUID, bedNumber string) (int64, error)

	// UpdateStatus persists the status and discharge-date fields of an
	// already-loaded admission.
	UpdateStatus(ctx context.Context, a *Admission) error
}

type ReportRepository interface {
	Create(ctx context.Context, r *DailyProgressReport) error

	// ListByAdmission returns an admission's reports newest first.
	ListByAdmission(ctx context.Context, admissionID uuid.UUID) ([]*DailyProgressReport, error)
}
