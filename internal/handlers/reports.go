package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"barangay-health-server/internal/models"
	"barangay-health-server/internal/pipeline"
	"barangay-health-server/internal/report"
	"barangay-health-server/internal/utils"
)

// ReportHandler exports record lists as spreadsheets.
type ReportHandler struct {
	Pipelines *pipeline.Set
	Timeout   time.Duration
	Log       *zap.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(set *pipeline.Set, timeout time.Duration, log *zap.Logger) *ReportHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportHandler{Pipelines: set, Timeout: timeout, Log: log}
}

// Export handles GET /reports/:file where file is "<kind>.xlsx".
func (h *ReportHandler) Export(c *gin.Context) {
	file := c.Param("file")
	name, ok := strings.CutSuffix(file, ".xlsx")
	if !ok {
		utils.NotFound(c, "Unknown report "+file)
		return
	}

	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	var (
		sheet   report.Sheet
		message string
		reason  pipeline.Reason
	)
	switch models.Kind(name) {
	case models.KindHousehold:
		res := h.Pipelines.Households.List(ctx)
		sheet, message, reason = report.Households(res.Payload), res.Message, res.Reason
	case models.KindPregnant:
		res := h.Pipelines.Pregnant.List(ctx)
		sheet, message, reason = report.Pregnant(res.Payload), res.Message, res.Reason
	case models.KindSeniorCitizen:
		res := h.Pipelines.SeniorCitizens.List(ctx)
		sheet, message, reason = report.SeniorCitizens(res.Payload), res.Message, res.Reason
	case models.KindFamilyPlanning:
		res := h.Pipelines.FamilyPlanning.List(ctx)
		sheet, message, reason = report.FamilyPlanning(res.Payload), res.Message, res.Reason
	default:
		utils.NotFound(c, "Unknown report "+file)
		return
	}
	if reason != "" {
		c.JSON(utils.StatusFor(string(reason)), utils.ResponseData{Message: message, Reason: string(reason)})
		return
	}

	data, err := report.Render(sheet)
	if err != nil {
		h.Log.Error("report rendering failed", zap.String("report", name), zap.Error(err))
		utils.InternalServerError(c, "Failed to build report")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+"-"+time.Now().Format("20060102")+`.xlsx"`)
	c.Data(http.StatusOK, report.ContentType, data)
}
