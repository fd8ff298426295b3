package handler

import (
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"

	procurementapp "github.com/furniflow/backend/internal/application/procurement"
)

// sheet uploads are capped separately from the global body limit
const maxSheetBytes = 10 << 20

// ProcurementHandler handles spreadsheet-vs-warehouse comparison endpoints
type ProcurementHandler struct {
	BaseHandler
	comparisons *procurementapp.ProcurementService
}

// NewProcurementHandler creates a new ProcurementHandler
func NewProcurementHandler(comparisons *procurementapp.ProcurementService) *ProcurementHandler {
	return &ProcurementHandler{comparisons: comparisons}
}

// List returns comparisons with filtering and pagination
func (h *ProcurementHandler) List(c *gin.Context) {
	var filter procurementapp.ComparisonListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	comparisons, total, err := h.comparisons.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, comparisons, total, filter.Page, filter.PageSize)
}

// GetByID returns one comparison with its rows
func (h *ProcurementHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid comparison ID format")
		return
	}

	comparison, err := h.comparisons.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, comparison)
}

// Create opens a comparison from an uploaded spreadsheet sent as
// multipart form data
func (h *ProcurementHandler) Create(c *gin.Context) {
	var req procurementapp.CreateComparisonRequest
	if err := c.ShouldBind(&req); err != nil {
		h.BindError(c, err)
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A spreadsheet file is required")
		return
	}
	if fileHeader.Size > maxSheetBytes {
		h.BadRequest(c, "Spreadsheet exceeds the upload limit")
		return
	}

	data, err := readUpload(fileHeader)
	if err != nil {
		h.BadRequest(c, "Unable to read the uploaded file")
		return
	}

	comparison, err := h.comparisons.Create(
		c.Request.Context(),
		req.SupplierID,
		fileHeader.Filename,
		data,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, comparison)
}

// RunMatching matches the comparison's rows against the warehouse
// catalogue. Re-running replaces the previous results.
func (h *ProcurementHandler) RunMatching(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid comparison ID format")
		return
	}

	comparison, err := h.comparisons.RunMatching(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, comparison)
}

// SetManualMatch pins one row to a warehouse item picked by the buyer
func (h *ProcurementHandler) SetManualMatch(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid comparison ID format")
		return
	}
	rowID, ok := parseIDParam(c, "rowId")
	if !ok {
		h.BadRequest(c, "Invalid row ID format")
		return
	}
	var req procurementapp.ManualMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	comparison, err := h.comparisons.SetManualMatch(c.Request.Context(), id, rowID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, comparison)
}

// Results returns the reconciliation view with matched warehouse items
// and quantity differences
func (h *ProcurementHandler) Results(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid comparison ID format")
		return
	}

	results, err := h.comparisons.Results(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, results)
}

// Delete removes a comparison
func (h *ProcurementHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid comparison ID format")
		return
	}

	if err := h.comparisons.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxSheetBytes))
}
