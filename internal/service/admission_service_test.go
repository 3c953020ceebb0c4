package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/medisys-io/ipdflow/internal/domain/admission"
	"github.com/medisys-io/ipdflow/internal/domain/patient"
	"github.com/medisys-io/ipdflow/internal/domain/reference"
	"github.com/medisys-io/ipdflow/internal/domain/ward"
	"github.com/medisys-io/ipdflow/pkg/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type admitFixture struct {
	svc        *AdmissionService
	admissions *fakeAdmissionRepo
	wards      *fakeWardRepo
	patients   *fakePatientRepo
	refs       *fakeReferenceRepo
	publisher  *recorderPublisher

	patient *patient.Patient
	ward    *ward.Ward
	visit   *reference.Visit
	doctor  *reference.Doctor
	catID   uuid.UUID
}

func newAdmitFixture(t *testing.T) *admitFixture {
	t.Helper()

	f := &admitFixture{
		admissions: newFakeAdmissionRepo(),
		wards:      newFakeWardRepo(),
		patients:   newFakePatientRepo(),
		refs:       newFakeReferenceRepo(),
		publisher:  &recorderPublisher{},
	}

	f.patient = f.patients.add(&patient.Patient{
		MRN: "MRN-1001", FirstName: "Asha", LastName: "Rao",
		Status: patient.StatusRegistered,
	})

	f.doctor = &reference.Doctor{ID: uuid.New(), Name: "Dr. Mehta"}
	f.refs.doctors[f.doctor.ID] = f.doctor

	f.visit = &reference.Visit{ID: uuid.New(), PatientID: f.patient.ID}
	f.refs.visits[f.visit.ID] = f.visit

	f.catID = uuid.New()
	f.refs.categories[f.catID] = &reference.RoomCategory{ID: f.catID, Name: "General"}

	f.ward = f.wards.add(&ward.Ward{
		Name:           "General Ward A",
		RoomCategoryID: f.catID,
		Beds: []ward.Bed{
			{Number: "1", Status: ward.BedAvailable},
			{Number: "2", Status: ward.BedAvailable},
			{Number: "12", Status: ward.BedAvailable},
		},
	})

	log := zap.NewNop()
	auditSvc := NewAuditService(&fakeAuditRepo{}, log)
	t.Cleanup(auditSvc.Shutdown)

	f.svc = NewAdmissionService(
		f.admissions, &fakeReportRepo{}, f.wards, f.patients, f.refs,
		f.publisher, auditSvc, testCollector, log,
	)
	return f
}

func (f *admitFixture) admitCmd() *admission.AdmitCommand {
	return &admission.AdmitCommand{
		PatientID:         f.patient.ID,
		VisitID:           f.visit.ID,
		WardID:            f.ward.ID,
		BedNumber:         "1",
		RoomCategoryID:    f.catID,
		AdmittingDoctorID: f.doctor.ID,
	}
}

func TestAdmit(t *testing.T) {
	f := newAdmitFixture(t)

	a, err := f.svc.Admit(context.Background(), f.admitCmd(), uuid.New(), "receptionist", "10.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, admission.StatusAdmitted, a.Status)
	assert.Equal(t, "1", a.BedNumber)
	assert.Equal(t, ward.BedOccupied, f.wards.bedStatus(f.ward.ID, "1"))
	assert.Equal(t, patient.StatusActive, f.patients.status(f.patient.ID))

	topics := f.publisher.topics()
	assert.Contains(t, topics, ws.DoctorTopic(f.doctor.ID))
	assert.Contains(t, topics, ws.TopicReceptionists)
}

func TestAdmitMatchesBedLoosely(t *testing.T) {
	f := newAdmitFixture(t)

	cmd := f.admitCmd()
	cmd.BedNumber = "  12 "

	a, err := f.svc.Admit(context.Background(), cmd, uuid.New(), "receptionist", "")
	require.NoError(t, err)

	// The stored number wins over the raw request value.
	assert.Equal(t, "12", a.BedNumber)
	assert.Equal(t, ward.BedOccupied, f.wards.bedStatus(f.ward.ID, "12"))
}

func TestAdmitRejectsSecondActiveAdmission(t *testing.T) {
	f := newAdmitFixture(t)
	ctx := context.Background()

	_, err := f.svc.Admit(ctx, f.admitCmd(), uuid.New(), "receptionist", "")
	require.NoError(t, err)

	cmd := f.admitCmd()
	cmd.BedNumber = "2"
	_, err = f.svc.Admit(ctx, cmd, uuid.New(), "receptionist", "")
	assert.ErrorIs(t, err, admission.ErrAlreadyAdmitted)
}

func TestAdmitRejectsOccupiedBed(t *testing.T) {
	f := newAdmitFixture(t)
	ctx := context.Background()

	_, err := f.svc.Admit(ctx, f.admitCmd(), uuid.New(), "receptionist", "")
	require.NoError(t, err)

	other := f.patients.add(&patient.Patient{MRN: "MRN-1002", FirstName: "Ravi", LastName: "Nair"})
	cmd := f.admitCmd()
	cmd.PatientID = other.ID
	_, err = f.svc.Admit(ctx, cmd, uuid.New(), "receptionist", "")
	assert.ErrorIs(t, err, admission.ErrBedNotAvailable)
}

func TestAdmitIgnoresStaleOccupiedCache(t *testing.T) {
	f := newAdmitFixture(t)

	// The cache says occupied but no admission backs it. Availability is
	// derived from admission records, so the admit must go through.
	require.NoError(t, f.wards.SetBedStatus(context.Background(), f.ward.ID, "1", ward.BedOccupied))

	a, err := f.svc.Admit(context.Background(), f.admitCmd(), uuid.New(), "receptionist", "")
	require.NoError(t, err)
	assert.Equal(t, "1", a.BedNumber)
}

func TestAdmitUnknownBed(t *testing.T) {
	f := newAdmitFixture(t)

	cmd := f.admitCmd()
	cmd.BedNumber = "99"
	_, err := f.svc.Admit(context.Background(), cmd, uuid.New(), "receptionist", "")
	assert.ErrorIs(t, err, ward.ErrBedNotFound)
}

func TestAdmitUnknownReferences(t *testing.T) {
	f := newAdmitFixture(t)
	ctx := context.Background()

	cmd := f.admitCmd()
	cmd.AdmittingDoctorID = uuid.New()
	_, err := f.svc.Admit(ctx, cmd, uuid.New(), "receptionist", "")
	assert.ErrorIs(t, err, reference.ErrDoctorNotFound)

	cmd = f.admitCmd()
	cmd.WardID = uuid.New()
	_, err = f.svc.Admit(ctx, cmd, uuid.New(), "receptionist", "")
	assert.ErrorIs(t, err, ward.ErrWardNotFound)
}

func TestAdmitValidatesRequiredFields(t *testing.T) {
	f := newAdmitFixture(t)

	_, err := f.svc.Admit(context.Background(), &admission.AdmitCommand{}, uuid.New(), "receptionist", "")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 6)
}

func TestDischarge(t *testing.T) {
	f := newAdmitFixture(t)
	ctx := context.Background()

	a, err := f.svc.Admit(ctx, f.admitCmd(), uuid.New(), "receptionist", "")
	require.NoError(t, err)

	d, err := f.svc.Discharge(ctx, a.ID, uuid.New(), "doctor", "")
	require.NoError(t, err)

	assert.Equal(t, admission.StatusDischarged, d.Status)
	require.NotNil(t, d.ActualDischargeDate)
	assert.Equal(t, ward.BedAvailable, f.wards.bedStatus(f.ward.ID, "1"))
	assert.Equal(t, patient.StatusDischarged, f.patients.status(f.patient.ID))

	// The freed bed can be admitted into again.
	other := f.patients.add(&patient.Patient{MRN: "MRN-1003", FirstName: "Mira", LastName: "Shah"})
	cmd := f.admitCmd()
	cmd.PatientID = other.ID
	_, err = f.svc.Admit(ctx, cmd, uuid.New(), "receptionist", "")
	assert.NoError(t, err)
}

func TestDischargeTwice(t *testing.T) {
	f := newAdmitFixture(t)
	ctx := context.Background()

	a, err := f.svc.Admit(ctx, f.admitCmd(), uuid.New(), "receptionist", "")
	require.NoError(t, err)

	_, err = f.svc.Discharge(ctx, a.ID, uuid.New(), "doctor", "")
	require.NoError(t, err)

	_, err = f.svc.Discharge(ctx, a.ID, uuid.New(), "doctor", "")
	assert.ErrorIs(t, err, admission.ErrAlreadyDischarged)
}

func TestDischargeUnknownAdmission(t *testing.T) {
	f := newAdmitFixture(t)

	_, err := f.svc.Discharge(context.Background(), uuid.New(), uuid.New(), "doctor", "")
	assert.ErrorIs(t, err, admission.ErrAdmissionNotFound)
}

func TestDischargeSurvivesMissingBedCache(t *testing.T) {
	f := newAdmitFixture(t)
	ctx := context.Background()

	a, err := f.svc.Admit(ctx, f.admitCmd(), uuid.New(), "receptionist", "")
	require.NoError(t, err)

	// Simulate the bed row disappearing between admit and discharge.
	require.NoError(t, f.wards.ReplaceBeds(ctx, f.ward.ID, []ward.Bed{{Number: "2", Status: ward.BedAvailable}}))

	d, err := f.svc.Discharge(ctx, a.ID, uuid.New(), "doctor", "")
	require.NoError(t, err)
	assert.Equal(t, admission.StatusDischarged, d.Status)
}

func TestCreateProgressReport(t *testing.T) {
	f := newAdmitFixture(t)
	ctx := context.Background()

	a, err := f.svc.Admit(ctx, f.admitCmd(), uuid.New(), "receptionist", "")
	require.NoError(t, err)

	nurse := uuid.New()
	r, err := f.svc.CreateProgressReport(ctx, &admission.CreateReportCommand{
		AdmissionID:      a.ID,
		RecordedByUserID: nurse,
		Vitals:           map[string]string{"bp": "120/80", "temp": "37.1"},
		NurseNotes:       "stable overnight",
	})
	require.NoError(t, err)
	assert.Equal(t, a.ID, r.AdmissionID)

	reports, err := f.svc.ListProgressReports(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, nurse, reports[0].RecordedByUserID)
}

func TestCreateProgressReportUnknownAdmission(t *testing.T) {
	f := newAdmitFixture(t)

	_, err := f.svc.CreateProgressReport(context.Background(), &admission.CreateReportCommand{
		AdmissionID:      uuid.New(),
		RecordedByUserID: uuid.New(),
	})
	assert.ErrorIs(t, err, admission.ErrAdmissionNotFound)
}
