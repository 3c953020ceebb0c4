package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/medisys-io/ipdflow/internal/domain/ward"
	"github.com/medisys-io/ipdflow/internal/service"
)

type WardHandler struct {
	svc *service.WardService
}

func NewWardHandler(svc *service.WardService) *WardHandler {
	return &WardHandler{svc: svc}
}

type createWardRequest struct {
	Name           string    `json:"name"`
	RoomCategoryID uuid.UUID `json:"room_category_id"`
	Beds           string    `json:"beds"`
}

// Create handles POST /wards. Beds is a spec string like "1 to 10, 15".
func (h *WardHandler) Create(c *gin.Context) {
	var req createWardRequest
	if !bindJSON(c, &req) {
		return
	}

	w, err := h.svc.CreateWard(c.Request.Context(), &ward.CreateWardCommand{
		Name:           req.Name,
		RoomCategoryID: req.RoomCategoryID,
		BedSpec:        req.Beds,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, w)
}

type bulkImportRequest struct {
	Rows []ward.ImportWardRow `json:"rows"`
}

// BulkImport handles POST /wards/bulk. All rows insert or none do.
func (h *WardHandler) BulkImport(c *gin.Context) {
	var req bulkImportRequest
	if !bindJSON(c, &req) {
		return
	}
	if len(req.Rows) == 0 {
		respondError(c, http.StatusBadRequest, "rows must not be empty")
		return
	}

	wards, err := h.svc.BulkImport(c.Request.Context(), req.Rows)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, wards)
}

// List handles GET /wards, returning each ward with derived occupancy.
func (h *WardHandler) List(c *gin.Context) {
	wards, err := h.svc.ListWards(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, wards)
}
