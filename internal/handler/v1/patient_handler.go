package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medisys-io/ipdflow/internal/domain/patient"
	"github.com/medisys-io/ipdflow/internal/handler/middleware"
	"github.com/medisys-io/ipdflow/internal/service"
)

type PatientHandler struct {
	svc *service.PatientService
}

func NewPatientHandler(svc *service.PatientService) *PatientHandler {
	return &PatientHandler{svc: svc}
}

type createPatientRequest struct {
	MRN              string                    `json:"mrn"`
	FirstName        string                    `json:"first_name"`
	LastName         string                    `json:"last_name"`
	DateOfBirth      time.Time                 `json:"date_of_birth"`
	Gender           patient.Gender            `json:"gender"`
	Phone            string                    `json:"phone"`
	Email            string                    `json:"email"`
	Address          string                    `json:"address"`
	City             string                    `json:"city"`
	State            string                    `json:"state"`
	Country          string                    `json:"country"`
	EmergencyContact *patient.EmergencyContact `json:"emergency_contact"`
	Allergies        []string                  `json:"allergies"`
	Notes            string                    `json:"notes"`
}

// Create handles POST /patients.
func (h *PatientHandler) Create(c *gin.Context) {
	var req createPatientRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := middleware.Claims(c)
	p, err := h.svc.CreatePatient(c.Request.Context(), &patient.CreatePatientCommand{
		MRN:              req.MRN,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		DateOfBirth:      req.DateOfBirth,
		Gender:           req.Gender,
		Phone:            req.Phone,
		Email:            req.Email,
		Address:          req.Address,
		City:             req.City,
		State:            req.State,
		Country:          req.Country,
		EmergencyContact: req.EmergencyContact,
		Allergies:        req.Allergies,
		Notes:            req.Notes,
		CreatedBy:        claims.UserID,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, p)
}

// Get handles GET /patients/:id.
func (h *PatientHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.GetPatient(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, p)
}

// List handles GET /patients with search, status, and pagination.
func (h *PatientHandler) List(c *gin.Context) {
	q := &patient.ListPatientsQuery{
		Search:   c.Query("search"),
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("status"); raw != "" {
		status := patient.Status(raw)
		q.Status = &status
	}

	page, err := h.svc.ListPatients(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, page)
}
