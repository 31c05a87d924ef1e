package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sahan201/basic-inventory-management-system/internal/core/apperror"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/reports"
	"github.com/sahan201/basic-inventory-management-system/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles report requests.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

func (h *ReportsHandler) dateRange(c *gin.Context) (reports.DateRange, bool) {
	from, ok := h.ParseDateQuery(c, "from")
	if !ok {
		return reports.DateRange{}, false
	}
	to, ok := h.ParseDateQuery(c, "to")
	if !ok {
		return reports.DateRange{}, false
	}
	return reports.DateRange{From: from, To: to}, true
}

// SalesSummary handles GET /reports/sales-summary.
func (h *ReportsHandler) SalesSummary(c *gin.Context) {
	rng, ok := h.dateRange(c)
	if !ok {
		return
	}

	summary, err := h.service.GetSalesSummary(c.Request.Context(), rng)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, summary)
}

// PeriodSales handles GET /reports/period-sales.
func (h *ReportsHandler) PeriodSales(c *gin.Context) {
	rng, ok := h.dateRange(c)
	if !ok {
		return
	}

	granularity := reports.PeriodGranularity(c.DefaultQuery("granularity", string(reports.GranularityDaily)))
	items, err := h.service.GetPeriodSales(c.Request.Context(), reports.PeriodSalesFilter{
		Granularity: granularity,
		Range:       rng,
		Limit:       h.ParseIntQuery(c, "limit", 0),
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(items))
}

// TopSelling handles GET /reports/top-selling.
func (h *ReportsHandler) TopSelling(c *gin.Context) {
	rng, ok := h.dateRange(c)
	if !ok {
		return
	}

	items, err := h.service.GetTopSelling(c.Request.Context(), reports.TopSellingFilter{
		Range: rng,
		Limit: h.ParseIntQuery(c, "limit", 0),
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(items))
}

// SalesByCategory handles GET /reports/sales-by-category.
func (h *ReportsHandler) SalesByCategory(c *gin.Context) {
	rng, ok := h.dateRange(c)
	if !ok {
		return
	}

	items, err := h.service.GetSalesByCategory(c.Request.Context(), rng)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(items))
}

// LowStock handles GET /reports/low-stock. An optional threshold
// query overrides the per-product reorder level check.
func (h *ReportsHandler) LowStock(c *gin.Context) {
	var threshold *int64
	if raw := c.Query("threshold"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.Error(c, apperror.NewValidation("threshold must be an integer"))
			return
		}
		threshold = &v
	}

	items, err := h.service.GetLowStock(c.Request.Context(), threshold)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(items))
}

// Valuation handles GET /reports/valuation.
func (h *ReportsHandler) Valuation(c *gin.Context) {
	report, err := h.service.GetValuation(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// ProductCountByCategory handles GET /reports/product-count-by-category.
func (h *ReportsHandler) ProductCountByCategory(c *gin.Context) {
	items, err := h.service.GetProductCountByCategory(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(items))
}

// Dashboard handles GET /reports/dashboard.
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	dash, err := h.service.GetDashboard(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dash)
}
