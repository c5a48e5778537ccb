package handler

import (
	"encoding/csv"
	"net/http"

	"parking_reservation/internal/domain"
	"parking_reservation/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reports *service.ReportService
}

func NewReportHandler(rs *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: rs}
}

// GET /api/v1/reports?date_from=&status=...&format=csv
func (h *ReportHandler) Query(c *gin.Context) {
	var filter domain.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report, err := h.reports.Query(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if c.Query("format") != "csv" {
		c.JSON(http.StatusOK, report)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="reservas.csv"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	w := csv.NewWriter(c.Writer)
	_ = w.Write(report.Header())
	_ = w.WriteAll(report.Records())
	if err := w.Error(); err != nil {
		_ = c.Error(err)
	}
}
