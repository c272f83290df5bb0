package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"leadcrm/internal/domain/lead"
)

var handlerNow = time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC)

func newDashboardRouter(leads ...lead.Lead) *gin.Engine {
	gin.SetMode(gin.TestMode)

	// mutations never happen here, so the repository needs no gateway
	repo := lead.NewRepository(nil)
	for i := range leads {
		l := leads[i]
		repo.Reconcile(lead.Event{Kind: lead.EventInsert, Table: lead.TableLeads, Lead: &l})
	}

	h := NewHandler(repo)
	h.now = func() time.Time { return handlerNow }

	r := gin.New()
	v1 := r.Group("/api/v1")
	RegisterRoutes(v1, h)
	return r
}

func getOverview(t *testing.T, router http.Handler, path string) (Overview, int) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var env struct {
		Success bool     `json:"success"`
		Data    Overview `json:"data"`
	}
	if rr.Code == http.StatusOK {
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	}
	return env.Data, rr.Code
}

func TestDashboardOverview(t *testing.T) {
	p80, p30, p60, p100, p20 := 80, 30, 60, 100, 20
	router := newDashboardRouter(
		lead.Lead{ID: "1", Status: lead.StatusNew, Potential: &p80, CreatedAt: handlerNow, UpdatedAt: handlerNow},
		lead.Lead{ID: "2", Status: lead.StatusNew, Potential: &p30, CreatedAt: handlerNow, UpdatedAt: handlerNow},
		lead.Lead{ID: "3", Status: lead.StatusContacted, Potential: &p60, CreatedAt: handlerNow, UpdatedAt: handlerNow},
		lead.Lead{ID: "4", Status: lead.StatusWon, Potential: &p100, CreatedAt: handlerNow, UpdatedAt: handlerNow},
		lead.Lead{ID: "5", Status: lead.StatusLost, Potential: &p20, CreatedAt: handlerNow, UpdatedAt: handlerNow},
	)

	ov, code := getOverview(t, router, "/api/v1/dashboard")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 5, ov.TotalLeads)
	assert.Equal(t, 2, ov.StatusCounts[lead.StatusNew])
	assert.Equal(t, 0, ov.StatusCounts[lead.StatusNegotiation])
	assert.Equal(t, float64(15000), ov.PotentialRevenue)
	assert.Len(t, ov.MonthlyConversion, 6)
	assert.Equal(t, float64(100), ov.AveragePotential[lead.StatusWon])
	assert.Equal(t, float64(55), ov.AveragePotential[lead.StatusNew])
}

func TestDashboardOverview_Filtered(t *testing.T) {
	p90, p10 := 90, 10
	router := newDashboardRouter(
		lead.Lead{ID: "recent-high", Status: lead.StatusWon, Potential: &p90, CreatedAt: handlerNow.AddDate(0, 0, -5), UpdatedAt: handlerNow},
		lead.Lead{ID: "recent-low", Status: lead.StatusWon, Potential: &p10, CreatedAt: handlerNow.AddDate(0, 0, -5), UpdatedAt: handlerNow},
		lead.Lead{ID: "old-high", Status: lead.StatusWon, Potential: &p90, CreatedAt: handlerNow.AddDate(0, 0, -60), UpdatedAt: handlerNow},
	)

	ov, code := getOverview(t, router, "/api/v1/dashboard?window=last30days&bucket=high")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, ov.TotalLeads)
	assert.Equal(t, float64(15000), ov.PotentialRevenue)
}

func TestDashboardOverview_RejectsUnknownFilters(t *testing.T) {
	router := newDashboardRouter()

	_, code := getOverview(t, router, "/api/v1/dashboard?window=fortnight")
	assert.Equal(t, http.StatusBadRequest, code)

	_, code = getOverview(t, router, "/api/v1/dashboard?bucket=huge")
	assert.Equal(t, http.StatusBadRequest, code)
}
