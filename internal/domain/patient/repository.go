package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new patient. Returns ErrPatientAlreadyExists on duplicate MRN.
	Create(ctx context.Context, p *Patient) error

	// GetByID retrieves a patient by primary key. Returns ErrPatientNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	// UpdateStatus moves the patient's lifecycle status. Used by the
	// admission workflow on admit and discharge.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error

	// List returns a paginated, filtered list of patients.
	List(ctx context.Context, q *ListPatientsQuery) (*PagedPatients, error)
}
