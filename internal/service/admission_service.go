package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/medisys-io/ipdflow/internal/domain/admission"
	"github.com/medisys-io/ipdflow/internal/domain/patient"
	"github.com/medisys-io/ipdflow/internal/domain/reference"
	"github.com/medisys-io/ipdflow/internal/domain/ward"
	"github.com/medisys-io/ipdflow/pkg/metrics"
	"github.com/medisys-io/ipdflow/pkg/ws"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AdmissionService orchestrates the inpatient admit/discharge workflow
// across the ward store and the admission store.
//
// The two stores are not wrapped in a cross-store transaction. A crash
// mid-sequence can leave a bed's cached status claiming "occupied" with
// no admission behind it (or the reverse); that is tolerated because
// availability is always re-derived from admission records before any
// decision, and the cache self-repairs on the next successful admit or
// discharge of the bed.
type AdmissionService struct {
	admissions admission.Repository
	reports    admission.ReportRepository
	wards      ward.Repository
	patients   patient.Repository
	refs       reference.Repository
	publisher  ws.EventPublisher
	auditSvc   *AuditService
	collector  *metrics.Collector
	log        *zap.Logger
}

func NewAdmissionService(
	admissions admission.Repository,
	reports admission.ReportRepository,
	wards ward.Repository,
	patients patient.Repository,
	refs reference.Repository,
	publisher ws.EventPublisher,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *AdmissionService {
	return &AdmissionService{
		admissions: admissions,
		reports:    reports,
		wards:      wards,
		patients:   patients,
		refs:       refs,
		publisher:  publisher,
		auditSvc:   auditSvc,
		collector:  collector,
		log:        log,
	}
}

// Admit places a patient in a bed and opens an admission.
//
// Sequence: duplicate-admission guard, reference resolution, bed match
// inside the ward, authoritative availability check against admission
// records, write-through bed cache update, admission insert, patient
// status flip. Failures surface immediately; there is no rollback of
// earlier steps.
func (s *AdmissionService) Admit(ctx context.Context, cmd *admission.AdmitCommand, callerID uuid.UUID, callerRole string, ip string) (*admission.Admission, error) {
	if err := validateAdmitCommand(cmd); err != nil {
		return nil, err
	}

	active, err := s.admissions.HasActiveForPatient(ctx, cmd.PatientID)
	if err != nil {
		return nil, fmt.Errorf("checking active admission: %w", err)
	}
	if active {
		return nil, admission.ErrAlreadyAdmitted
	}

	var (
		p *patient.Patient
		w *ward.Ward
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		p, err = s.patients.GetByID(gctx, cmd.PatientID)
		return err
	})
	g.Go(func() error {
		_, err := s.refs.GetVisit(gctx, cmd.VisitID)
		return err
	})
	g.Go(func() error {
		_, err := s.refs.GetDoctor(gctx, cmd.AdmittingDoctorID)
		return err
	})
	g.Go(func() error {
		var err error
		w, err = s.wards.GetByID(gctx, cmd.WardID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bed := w.FindBed(cmd.BedNumber)
	if bed == nil {
		return nil, ward.ErrBedNotFound
	}

	// The cached bed status is not consulted here: only a live Admitted
	// admission makes a bed unavailable. This closes the drift window
	// where the cache was never flipped back after a discharge.
	occupied, err := s.admissions.CountActiveForBed(ctx, cmd.WardID, bed.Number)
	if err != nil {
		return nil, fmt.Errorf("deriving bed availability: %w", err)
	}
	if occupied > 0 {
		return nil, admission.ErrBedNotAvailable
	}

	// Write-through cache repair: one bed row only, so unrelated bed
	// updates in the same ward are never clobbered.
	if err := s.wards.SetBedStatus(ctx, cmd.WardID, bed.Number, ward.BedOccupied); err != nil {
		return nil, fmt.Errorf("marking bed occupied: %w", err)
	}

	a := &admission.Admission{
		PatientID:             cmd.PatientID,
		VisitID:               cmd.VisitID,
		WardID:                cmd.WardID,
		BedNumber:             bed.Number, // canonical stored number, not the raw input
		RoomCategoryID:        cmd.RoomCategoryID,
		AdmittingDoctorID:     cmd.AdmittingDoctorID,
		Status:                admission.StatusAdmitted,
		ExpectedDischargeDate: cmd.ExpectedDischargeDate,
	}
	if err := s.admissions.Create(ctx, a); err != nil {
		s.log.Error("failed to create admission",
			zap.String("ward_id", cmd.WardID.String()),
			zap.String("bed_number", bed.Number),
			zap.Error(err),
		)
		return nil, err
	}

	if err := s.patients.UpdateStatus(ctx, p.ID, patient.StatusActive); err != nil {
		// The admission exists; the patient flag lags until the next
		// transition. Surface the error without undoing the admit.
		s.log.Error("failed to activate patient after admit",
			zap.String("patient_id", p.ID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("updating patient status: %w", err)
	}

	s.collector.AdmissionsTotal.Inc()
	s.collector.OccupiedBeds.Inc()

	s.notify(ctx, "ipd.admitted", a)

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "ipd_admission",
		ResourceID:   a.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("patient admitted",
		zap.String("admission_id", a.ID.String()),
		zap.String("patient_id", a.PatientID.String()),
		zap.String("ward_id", a.WardID.String()),
		zap.String("bed_number", a.BedNumber),
	)

	return a, nil
}

// Discharge closes an admission, frees the bed cache best-effort, and
// flips the patient's status. It is unconditional once the admission
// exists: unpaid bills do not block it, billing collection continues
// after discharge.
func (s *AdmissionService) Discharge(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*admission.Admission, error) {
	a, err := s.admissions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := a.Discharge(time.Now()); err != nil {
		return nil, err
	}

	// Bed-cache repair is advisory. A ward or bed that has since been
	// deleted or renumbered is skipped: the discharge itself must not
	// depend on it.
	if w, err := s.wards.GetByID(ctx, a.WardID); err == nil {
		if bed := w.FindBed(a.BedNumber); bed != nil {
			if err := s.wards.SetBedStatus(ctx, a.WardID, bed.Number, ward.BedAvailable); err != nil {
				s.log.Warn("failed to release bed cache on discharge",
					zap.String("admission_id", a.ID.String()),
					zap.String("bed_number", a.BedNumber),
					zap.Error(err),
				)
			}
		}
	}

	if err := s.admissions.UpdateStatus(ctx, a); err != nil {
		return nil, fmt.Errorf("closing admission: %w", err)
	}

	if err := s.patients.UpdateStatus(ctx, a.PatientID, patient.StatusDischarged); err != nil {
		s.log.Error("failed to mark patient discharged",
			zap.String("patient_id", a.PatientID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("updating patient status: %w", err)
	}

	s.collector.DischargesTotal.Inc()
	s.collector.OccupiedBeds.Dec()

	s.notify(ctx, "ipd.discharged", a)

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "ipd_admission",
		ResourceID:   a.ID.String(),
		IPAddress:    ip,
		Changes:      `{"status":"Discharged"}`,
	})

	s.log.Info("patient discharged",
		zap.String("admission_id", a.ID.String()),
		zap.String("patient_id", a.PatientID.String()),
	)

	return a, nil
}

// ListByPatient returns a patient's admissions with reference display
// fields expanded.
func (s *AdmissionService) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*admission.Detail, error) {
	return s.admissions.ListByPatient(ctx, patientID)
}

func (s *AdmissionService) CreateProgressReport(ctx context.Context, cmd *admission.CreateReportCommand) (*admission.DailyProgressReport, error) {
	var missing []string
	if cmd.AdmissionID == uuid.Nil {
		missing = append(missing, "admission_id is required")
	}
	if cmd.RecordedByUserID == uuid.Nil {
		missing = append(missing, "recorded_by_user_id is required")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	if _, err := s.admissions.GetByID(ctx, cmd.AdmissionID); err != nil {
		return nil, err
	}

	r := &admission.DailyProgressReport{
		AdmissionID:         cmd.AdmissionID,
		RecordedByUserID:    cmd.RecordedByUserID,
		Vitals:              cmd.Vitals,
		NurseNotes:          cmd.NurseNotes,
		Treatments:          cmd.Treatments,
		MedicineConsumption: cmd.MedicineConsumption,
	}
	if err := s.reports.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("creating progress report: %w", err)
	}
	return r, nil
}

func (s *AdmissionService) ListProgressReports(ctx context.Context, admissionID uuid.UUID) ([]*admission.DailyProgressReport, error) {
	return s.reports.ListByAdmission(ctx, admissionID)
}

// notify publishes admit/discharge events to the admitting doctor's
// topic and the reception desk. Fire and forget: publish errors are
// logged, never returned.
func (s *AdmissionService) notify(ctx context.Context, eventType string, a *admission.Admission) {
	data, err := json.Marshal(map[string]string{
		"admission_id": a.ID.String(),
		"patient_id":   a.PatientID.String(),
		"ward_id":      a.WardID.String(),
		"bed_number":   a.BedNumber,
		"status":       string(a.Status),
	})
	if err != nil {
		return
	}

	now := time.Now()
	for _, topic := range []string{ws.DoctorTopic(a.AdmittingDoctorID), ws.TopicReceptionists} {
		event := ws.Event{
			Type:         eventType,
			Topic:        topic,
			ResourceType: "ipd_admission",
			ResourceID:   a.ID.String(),
			Timestamp:    now,
			Data:         data,
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.log.Warn("failed to publish notification", zap.String("topic", topic), zap.Error(err))
		}
	}
}

func validateAdmitCommand(cmd *admission.AdmitCommand) error {
	var errs []string

	if cmd.PatientID == uuid.Nil {
		errs = append(errs, "patient_id is required")
	}
	if cmd.VisitID == uuid.Nil {
		errs = append(errs, "visit_id is required")
	}
	if cmd.WardID == uuid.Nil {
		errs = append(errs, "ward_id is required")
	}
	if strings.TrimSpace(cmd.BedNumber) == "" {
		errs = append(errs, "bed_number is required")
	}
	if cmd.RoomCategoryID == uuid.Nil {
		errs = append(errs, "room_category_id is required")
	}
	if cmd.AdmittingDoctorID == uuid.Nil {
		errs = append(errs, "admitting_doctor_id is required")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
