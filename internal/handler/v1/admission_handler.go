package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/medisys-io/ipdflow/internal/domain/admission"
	"github.com/medisys-io/ipdflow/internal/handler/middleware"
	"github.com/medisys-io/ipdflow/internal/service"
)

type AdmissionHandler struct {
	svc *service.AdmissionService
}

func NewAdmissionHandler(svc *service.AdmissionService) *AdmissionHandler {
	return &AdmissionHandler{svc: svc}
}

type admitRequest struct {
	PatientID             uuid.UUID  `json:"patient_id"`
	VisitID               uuid.UUID  `json:"visit_id"`
	WardID                uuid.UUID  `json:"ward_id"`
	BedNumber             string     `json:"bed_number"`
	RoomCategoryID        uuid.UUID  `json:"room_category_id"`
	AdmittingDoctorID     uuid.UUID  `json:"admitting_doctor_id"`
	ExpectedDischargeDate *time.Time `json:"expected_discharge_date"`
}

// Admit handles POST /ipd/admissions.
func (h *AdmissionHandler) Admit(c *gin.Context) {
	var req admitRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := middleware.Claims(c)
	a, err := h.svc.Admit(c.Request.Context(), &admission.AdmitCommand{
		PatientID:             req.PatientID,
		VisitID:               req.VisitID,
		WardID:                req.WardID,
		BedNumber:             req.BedNumber,
		RoomCategoryID:        req.RoomCategoryID,
		AdmittingDoctorID:     req.AdmittingDoctorID,
		ExpectedDischargeDate: req.ExpectedDischargeDate,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, a)
}

// Discharge handles POST /ipd/admissions/:id/discharge.
func (h *AdmissionHandler) Discharge(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	claims := middleware.Claims(c)
	a, err := h.svc.Discharge(c.Request.Context(), id, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

// ListByPatient handles GET /ipd/admissions/patient/:patientId.
func (h *AdmissionHandler) ListByPatient(c *gin.Context) {
	patientID, ok := parseUUID(c, "patientId")
	if !ok {
		return
	}

	details, err := h.svc.ListByPatient(c.Request.Context(), patientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, details)
}

type createReportRequest struct {
	Vitals              map[string]string `json:"vitals"`
	NurseNotes          string            `json:"nurse_notes"`
	Treatments          string            `json:"treatments"`
	MedicineConsumption string            `json:"medicine_consumption"`
}

// CreateReport handles POST /ipd/admissions/:id/reports. The recording
// user comes from the token, never the body.
func (h *AdmissionHandler) CreateReport(c *gin.Context) {
	admissionID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req createReportRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := middleware.Claims(c)
	r, err := h.svc.CreateProgressReport(c.Request.Context(), &admission.CreateReportCommand{
		AdmissionID:         admissionID,
		RecordedByUserID:    claims.UserID,
		Vitals:              req.Vitals,
		NurseNotes:          req.NurseNotes,
		Treatments:          req.Treatments,
		MedicineConsumption: req.MedicineConsumption,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, r)
}

// ListReports handles GET /ipd/admissions/:id/reports.
func (h *AdmissionHandler) ListReports(c *gin.Context) {
	admissionID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	reports, err := h.svc.ListProgressReports(c.Request.Context(), admissionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, reports)
}
