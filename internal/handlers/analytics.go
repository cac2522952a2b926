package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"barangay-health-server/internal/analytics"
	"barangay-health-server/internal/utils"
)

// AnalyticsHandler serves the dashboard summary.
type AnalyticsHandler struct {
	Service *analytics.Service
	Timeout time.Duration
	Log     *zap.Logger
	Now     func() time.Time
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(s *analytics.Service, timeout time.Duration, log *zap.Logger) *AnalyticsHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AnalyticsHandler{Service: s, Timeout: timeout, Log: log, Now: time.Now}
}

// GetSummary handles GET /analytics?year=YYYY. The year defaults to the
// current one.
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	year := h.Now().Year()
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1 || y > 9999 {
			utils.BadRequest(c, "year must be a four digit year")
			return
		}
		year = y
	}

	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()
	sum, err := h.Service.Summary(ctx, year)
	if err != nil {
		h.Log.Error("analytics summary failed", zap.Int("year", year), zap.Error(err))
		utils.Unavailable(c, "Failed to load analytics. Please try again later.")
		return
	}
	utils.Success(c, "Analytics fetched successfully", sum)
}
