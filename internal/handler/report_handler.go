package handler

import (
	"net/http"

	"phoneshop/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reports service.ReportService
}

func NewReportHandler(reports service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// DailySales godoc
// @Summary  One day of sales, voids, refunds and per-method totals
// @Tags     reports
// @Produce  json
// @Param    date query string false "YYYY-MM-DD, defaults to today"
// @Success  200 {object} dto.DailySalesReport
// @Router   /reports/daily-sales [get]
func (h *ReportHandler) DailySales(c *gin.Context) {
	resp, err := h.reports.DailySales(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportHandler) StockAlerts(c *gin.Context) {
	items, err := h.reports.StockAlerts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (h *ReportHandler) ExpenseSummary(c *gin.Context) {
	resp, err := h.reports.ExpenseSummary(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
