package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/medisys-io/ipdflow/internal/domain"
	"github.com/medisys-io/ipdflow/internal/domain/admission"
	"github.com/medisys-io/ipdflow/internal/domain/patient"
	"github.com/medisys-io/ipdflow/internal/domain/reference"
	"github.com/medisys-io/ipdflow/internal/domain/ward"
	"github.com/medisys-io/ipdflow/pkg/metrics"
	"github.com/medisys-io/ipdflow/pkg/ws"
)

// One collector for the whole test package; promauto registers globally.
var testCollector = metrics.NewCollector("ipdflow_test")

type fakeAdmissionRepo struct {
	mu         sync.Mutex
	admissions map[uuid.UUID]*admission.Admission
}

func newFakeAdmissionRepo() *fakeAdmissionRepo {
	return &fakeAdmissionRepo{admissions: make(map[uuid.UUID]*admission.Admission)}
}

func (r *fakeAdmissionRepo) Create(_ context.Context, a *admission.Admission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	cp := *a
	r.admissions[a.ID] = &cp
	return nil
}

func (r *fakeAdmissionRepo) GetByID(_ context.Context, id uuid.UUID) (*admission.Admission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.admissions[id]
	if !ok {
		return nil, admission.ErrAdmissionNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAdmissionRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*admission.Detail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var details []*admission.Detail
	for _, a := range r.admissions {
		if a.PatientID == patientID {
			details = append(details, &admission.Detail{Admission: *a})
		}
	}
	return details, nil
}

func (r *fakeAdmissionRepo) HasActiveForPatient(_ context.Context, patientID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admissions {
		if a.PatientID == patientID && a.Status == admission.StatusAdmitted {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAdmissionRepo) CountActiveForBed(_ context.Context, wardID uuid.UUID, bedNumber string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, a := range r.admissions {
		if a.WardID == wardID && a.BedNumber == bedNumber && a.Status == admission.StatusAdmitted {
			n++
		}
	}
	return n, nil
}

func (r *fakeAdmissionRepo) UpdateStatus(_ context.Context, a *admission.Admission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.admissions[a.ID]
	if !ok {
		return admission.ErrAdmissionNotFound
	}
	stored.Status = a.Status
	stored.ActualDischargeDate = a.ActualDischargeDate
	return nil
}

type fakeReportRepo struct {
	mu      sync.Mutex
	reports []*admission.DailyProgressReport
}

func (r *fakeReportRepo) Create(_ context.Context, report *admission.DailyProgressReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	cp := *report
	r.reports = append(r.reports, &cp)
	return nil
}

func (r *fakeReportRepo) ListByAdmission(_ context.Context, admissionID uuid.UUID) ([]*admission.DailyProgressReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*admission.DailyProgressReport
	for _, rep := range r.reports {
		if rep.AdmissionID == admissionID {
			out = append(out, rep)
		}
	}
	return out, nil
}

type fakeWardRepo struct {
	mu    sync.Mutex
	wards map[uuid.UUID]*ward.Ward
}

func newFakeWardRepo() *fakeWardRepo {
	return &fakeWardRepo{wards: make(map[uuid.UUID]*ward.Ward)}
}

func (r *fakeWardRepo) add(w *ward.Ward) *ward.Ward {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	for i := range w.Beds {
		w.Beds[i].WardID = w.ID
	}
	r.wards[w.ID] = w
	return w
}

func (r *fakeWardRepo) Create(_ context.Context, w *ward.Ward) error {
	r.add(w)
	return nil
}

func (r *fakeWardRepo) CreateBatch(_ context.Context, wards []*ward.Ward) error {
	for _, w := range wards {
		r.add(w)
	}
	return nil
}

func (r *fakeWardRepo) GetByID(_ context.Context, id uuid.UUID) (*ward.Ward, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wards[id]
	if !ok {
		return nil, ward.ErrWardNotFound
	}
	cp := *w
	cp.Beds = append([]ward.Bed(nil), w.Beds...)
	return &cp, nil
}

func (r *fakeWardRepo) List(_ context.Context) ([]*ward.Ward, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*ward.Ward, 0, len(r.wards))
	for _, w := range r.wards {
		cp := *w
		cp.Beds = append([]ward.Bed(nil), w.Beds...)
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeWardRepo) SetBedStatus(_ context.Context, wardID uuid.UUID, bedNumber string, status ward.BedStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wards[wardID]
	if !ok {
		return ward.ErrWardNotFound
	}
	for i := range w.Beds {
		if w.Beds[i].Number == bedNumber {
			w.Beds[i].Status = status
			return nil
		}
	}
	return ward.ErrBedNotFound
}

func (r *fakeWardRepo) ReplaceBeds(_ context.Context, wardID uuid.UUID, beds []ward.Bed) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wards[wardID]
	if !ok {
		return ward.ErrWardNotFound
	}
	for i := range beds {
		beds[i].WardID = wardID
	}
	w.Beds = beds
	return nil
}

func (r *fakeWardRepo) bedStatus(wardID uuid.UUID, number string) ward.BedStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.wards[wardID].Beds {
		if b.Number == number {
			return b.Status
		}
	}
	return ""
}

type fakePatientRepo struct {
	mu       sync.Mutex
	patients map[uuid.UUID]*patient.Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: make(map[uuid.UUID]*patient.Patient)}
}

func (r *fakePatientRepo) add(p *patient.Patient) *patient.Patient {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.patients[p.ID] = p
	return p
}

func (r *fakePatientRepo) Create(_ context.Context, p *patient.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.patients {
		if existing.MRN == p.MRN {
			return patient.ErrPatientAlreadyExists
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.patients[p.ID] = p
	return nil
}

func (r *fakePatientRepo) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[id]
	if !ok {
		return nil, patient.ErrPatientNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePatientRepo) UpdateStatus(_ context.Context, id uuid.UUID, status patient.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[id]
	if !ok {
		return patient.ErrPatientNotFound
	}
	p.Status = status
	return nil
}

func (r *fakePatientRepo) List(_ context.Context, _ *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*patient.Patient, 0, len(r.patients))
	for _, p := range r.patients {
		out = append(out, p)
	}
	return &patient.PagedPatients{Patients: out, TotalCount: int64(len(out))}, nil
}

func (r *fakePatientRepo) status(id uuid.UUID) patient.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.patients[id].Status
}

type fakeReferenceRepo struct {
	doctors    map[uuid.UUID]*reference.Doctor
	visits     map[uuid.UUID]*reference.Visit
	categories map[uuid.UUID]*reference.RoomCategory
}

func newFakeReferenceRepo() *fakeReferenceRepo {
	return &fakeReferenceRepo{
		doctors:    make(map[uuid.UUID]*reference.Doctor),
		visits:     make(map[uuid.UUID]*reference.Visit),
		categories: make(map[uuid.UUID]*reference.RoomCategory),
	}
}

func (r *fakeReferenceRepo) GetDoctor(_ context.Context, id uuid.UUID) (*reference.Doctor, error) {
	d, ok := r.doctors[id]
	if !ok {
		return nil, reference.ErrDoctorNotFound
	}
	return d, nil
}

func (r *fakeReferenceRepo) GetVisit(_ context.Context, id uuid.UUID) (*reference.Visit, error) {
	v, ok := r.visits[id]
	if !ok {
		return nil, reference.ErrVisitNotFound
	}
	return v, nil
}

func (r *fakeReferenceRepo) GetRoomCategory(_ context.Context, id uuid.UUID) (*reference.RoomCategory, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, reference.ErrRoomCategoryNotFound
	}
	return c, nil
}

func (r *fakeReferenceRepo) FindRoomCategoryByName(_ context.Context, name string) (*reference.RoomCategory, error) {
	for _, c := range r.categories {
		if c.Name == name || c.Description == name {
			return c, nil
		}
	}
	return nil, reference.ErrRoomCategoryNotFound
}

// recorderPublisher captures published events for assertions.
type recorderPublisher struct {
	mu     sync.Mutex
	events []ws.Event
}

func (p *recorderPublisher) Publish(_ context.Context, event ws.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recorderPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Topic)
	}
	return out
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (r *fakeAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}
