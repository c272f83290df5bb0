package meeting

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadcrm/internal/domain/lead"
	"leadcrm/internal/pkg/response"
)

type summaryRequest struct {
	Summary string `json:"summary"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Add handles POST /leads/:id/summaries
func (h *Handler) Add(c *gin.Context) {
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	s, err := h.service.Add(c.Request.Context(), c.Param("id"), req.Summary)
	if err != nil {
		lead.RespondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, s)
}

// Update handles PUT /summaries/:id
func (h *Handler) Update(c *gin.Context) {
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	s, err := h.service.Update(c.Request.Context(), c.Param("id"), req.Summary)
	if err != nil {
		lead.RespondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, s)
}

// Delete handles DELETE /summaries/:id; always succeeds for unknown ids
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		lead.RespondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// RegisterRoutes mounts the meeting-summary endpoints
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	r.POST("/leads/:id/summaries", handler.Add)
	summaries := r.Group("/summaries")
	{
		summaries.PUT("/:id", handler.Update)
		summaries.DELETE("/:id", handler.Delete)
	}
}
