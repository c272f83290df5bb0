package dashboard

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"leadcrm/internal/domain/lead"
	"leadcrm/internal/pkg/response"
)

// Overview is the full dashboard payload, derived on every request from
// the current collection snapshot and never stored.
type Overview struct {
	TotalLeads           int                         `json:"total_leads"`
	StatusCounts         map[lead.Status]int         `json:"status_counts"`
	ProposalStatusCounts map[lead.ProposalStatus]int `json:"proposal_status_counts"`
	PotentialRevenue     float64                     `json:"potential_revenue"`
	MonthlyConversion    []MonthBucket               `json:"monthly_conversion"`
	AveragePotential     map[lead.Status]float64     `json:"average_potential"`
	DueToday             []lead.Lead                 `json:"due_today"`
	Overdue              []lead.Lead                 `json:"overdue"`
	TodayMeetings        []lead.Lead                 `json:"today_meetings"`
}

type Handler struct {
	repo *lead.Repository
	now  func() time.Time
}

func NewHandler(repo *lead.Repository) *Handler {
	return &Handler{repo: repo, now: time.Now}
}

// Get handles GET /dashboard with optional window and bucket filters,
// applied in sequence before any aggregate is computed
func (h *Handler) Get(c *gin.Context) {
	window, ok := ParseDateWindow(c.Query("window"))
	if !ok {
		response.Error(c, http.StatusBadRequest, "INVALID_WINDOW", "Unknown date window "+c.Query("window"))
		return
	}
	bucket, ok := ParsePotentialBucket(c.Query("bucket"))
	if !ok {
		response.Error(c, http.StatusBadRequest, "INVALID_BUCKET", "Unknown potential bucket "+c.Query("bucket"))
		return
	}

	now := h.now()
	leads := h.repo.List()
	leads = FilterByDateWindow(leads, window, now)
	leads = FilterByPotentialBucket(leads, bucket)

	avg := make(map[lead.Status]float64, len(lead.AllStatuses))
	for _, s := range lead.AllStatuses {
		avg[s] = AveragePotential(leads, s)
	}

	response.Success(c, http.StatusOK, Overview{
		TotalLeads:           len(leads),
		StatusCounts:         StatusCounts(leads),
		ProposalStatusCounts: ProposalStatusCounts(leads),
		PotentialRevenue:     PotentialRevenue(leads),
		MonthlyConversion:    MonthlyConversion(leads, 6, now),
		AveragePotential:     avg,
		DueToday:             DueToday(leads, now),
		Overdue:              OverdueLeads(leads, now),
		TodayMeetings:        MeetingsToday(leads, now),
	})
}

// RegisterRoutes mounts the dashboard endpoint
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	r.GET("/dashboard", handler.Get)
}
