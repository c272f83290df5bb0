package lead

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"leadcrm/internal/pkg/response"
	"leadcrm/internal/pkg/validator"
)

// Handler exposes the lead collection over HTTP
type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// List handles GET /leads with an optional status filter
func (h *Handler) List(c *gin.Context) {
	leads := h.repo.List()

	if s := c.Query("status"); s != "" {
		status := Status(s)
		if !status.Valid() {
			response.Error(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown status "+s)
			return
		}
		filtered := leads[:0]
		for _, l := range leads {
			if l.Status == status {
				filtered = append(filtered, l)
			}
		}
		leads = filtered
	}

	response.Success(c, http.StatusOK, ListResponse{Leads: leads, Total: len(leads)})
}

// Get handles GET /leads/:id
func (h *Handler) Get(c *gin.Context) {
	l, err := h.repo.Get(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, l)
}

// Create handles POST /leads
func (h *Handler) Create(c *gin.Context) {
	var draft Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&draft); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid lead draft", errs)
		return
	}

	l, err := h.repo.Create(c.Request.Context(), draft)
	if err != nil {
		RespondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, l)
}

// Update handles PUT /leads/:id
func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid lead update", errs)
		return
	}

	cur, err := h.repo.Get(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	updated, err := h.repo.Update(c.Request.Context(), req.Apply(cur))
	if err != nil {
		RespondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, updated)
}

// Delete handles DELETE /leads/:id. The removal is optimistic: a gateway
// failure still leaves the lead gone from the local collection.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// Export handles GET /leads/export, streaming the snapshot as CSV
func (h *Handler) Export(c *gin.Context) {
	filename := fmt.Sprintf("leads-export-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := WriteCSV(c.Writer, h.repo.List()); err != nil {
		_ = c.Error(err)
	}
}

// ExportSummaries handles GET /leads/:id/summaries/export
func (h *Handler) ExportSummaries(c *gin.Context) {
	l, err := h.repo.Get(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	filename := fmt.Sprintf("%s-meetings-%s.csv", l.CompanyName, time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := WriteSummariesCSV(c.Writer, l); err != nil {
		_ = c.Error(err)
	}
}

// Import handles POST /leads/import with an xlsx file upload. Each row
// goes through Create, so the usual draft validation applies per row.
func (h *Handler) Import(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "MISSING_FILE", "Upload a workbook in the \"file\" form field")
		return
	}
	defer file.Close()

	drafts, err := ParseWorkbook(file)
	if err != nil {
		RespondError(c, err)
		return
	}

	report := ImportReport{}
	for i, d := range drafts {
		if _, err := h.repo.Create(c.Request.Context(), d); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		report.Created++
	}
	response.Success(c, http.StatusOK, report)
}

// RespondError maps domain errors onto the HTTP envelope. Shared by the
// meeting and dashboard handlers as well.
func RespondError(c *gin.Context, err error) {
	var ve *ValidationError
	var nf *NotFoundError
	var cf *ConflictError
	var ge *GatewayError
	switch {
	case errors.As(err, &ve):
		response.Error(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", ve.Error())
	case errors.As(err, &nf):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", nf.Error())
	case errors.As(err, &cf):
		response.Error(c, http.StatusConflict, "CONFLICT", cf.Error())
	case errors.As(err, &ge):
		response.Error(c, http.StatusBadGateway, "GATEWAY_ERROR", ge.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
