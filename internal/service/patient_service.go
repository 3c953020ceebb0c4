package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/medisys-io/ipdflow/internal/domain/patient"
	"go.uber.org/zap"
)

type PatientService struct {
	repo     patient.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewPatientService(repo patient.Repository, auditSvc *AuditService, log *zap.Logger) *PatientService {
	return &PatientService{
		repo:     repo,
		auditSvc: auditSvc,
		log:      log,
	}
}

func (s *PatientService) CreatePatient(ctx context.Context, cmd *patient.CreatePatientCommand, callerID uuid.UUID, callerRole string, ip string) (*patient.Patient, error) {
	if err := validateCreatePatient(cmd); err != nil {
		return nil, err
	}

	p := &patient.Patient{
		MRN:         strings.TrimSpace(cmd.MRN),
		FirstName:   strings.TrimSpace(cmd.FirstName),
		LastName:    strings.TrimSpace(cmd.LastName),
		DateOfBirth: cmd.DateOfBirth,
		Gender:      cmd.Gender,
		ContactInfo: patient.ContactInfo{
			Phone:   strings.TrimSpace(cmd.Phone),
			Email:   strings.ToLower(strings.TrimSpace(cmd.Email)),
			Address: cmd.Address,
			City:    cmd.City,
			State:   cmd.State,
			Country: cmd.Country,
		},
		EmergencyContact: cmd.EmergencyContact,
		Allergies:        cmd.Allergies,
		Notes:            cmd.Notes,
		Status:           patient.StatusRegistered,
		CreatedBy:        cmd.CreatedBy,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("failed to create patient", zap.Error(err))
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "patient",
		ResourceID:   p.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("patient registered",
		zap.String("patient_id", p.ID.String()),
		zap.String("mrn", p.MRN),
	)

	return p, nil
}

func (s *PatientService) GetPatient(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PatientService) ListPatients(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.List(ctx, q)
}

func validateCreatePatient(cmd *patient.CreatePatientCommand) error {
	var errs []string

	if strings.TrimSpace(cmd.MRN) == "" {
		errs = append(errs, "mrn is required")
	}
	if strings.TrimSpace(cmd.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if strings.TrimSpace(cmd.LastName) == "" {
		errs = append(errs, "last_name is required")
	}
	if cmd.DateOfBirth.IsZero() {
		errs = append(errs, "date_of_birth is required")
	}
	if cmd.DateOfBirth.After(time.Now()) {
		errs = append(errs, "date_of_birth cannot be in the future")
	}
	if !cmd.Gender.IsValid() {
		errs = append(errs, "gender is invalid")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
