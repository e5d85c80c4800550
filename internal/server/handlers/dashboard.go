package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"uniformledger/internal/domain/models"
	"uniformledger/internal/service/dashboard"
)

// DashboardHandler serves the derived stock summary and time series.
type DashboardHandler struct {
	svc    *dashboard.Service
	logger *zap.Logger
}

// NewDashboardHandler constructs the HTTP handler adapter.
func NewDashboardHandler(svc *dashboard.Service, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{svc: svc, logger: logger}
}

// Summary handles GET /api/dashboard/summary.
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// TimeSeries handles GET /api/dashboard/timeseries?granularity=daily.
func (h *DashboardHandler) TimeSeries(c *gin.Context) {
	granularity, err := models.ParseGranularity(c.DefaultQuery("granularity", string(models.GranularityDaily)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	buckets, err := h.svc.TimeSeries(c.Request.Context(), granularity)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, buckets)
}
