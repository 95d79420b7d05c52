package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/SscSPs/backoffice_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
	agingService     portssvc.AgingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService, as portssvc.AgingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
		agingService:     as,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService, agingService portssvc.AgingService) {
	h := newReportingHandler(reportingService, agingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
		reportingGroup.GET("/chart-tree", h.getChartTree)
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
		reportingGroup.GET("/cash-flow", h.getCashFlow)
		reportingGroup.GET("/aging/summary", h.getAgingSummary)
		reportingGroup.GET("/aging/details", h.getAgingDetails)
	}
}

// parseRange converts the after/before query strings into a DateRange.
func parseRange(q dto.RangeQuery) (domain.DateRange, error) {
	after, err := dto.ParseOptionalDate(q.After)
	if err != nil {
		return domain.DateRange{}, err
	}
	before, err := dto.ParseOptionalDate(q.Before)
	if err != nil {
		return domain.DateRange{}, err
	}
	return domain.DateRange{After: after, Before: before}, nil
}

func badDate(c *gin.Context, logger *slog.Logger, err error) {
	logger.Warn("Invalid date in query", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Sums debits and credits per account for the optional date range
// @Tags reports
// @Produce json
// @Param after query string false "First day (YYYY-MM-DD)"
// @Param before query string false "Last day (YYYY-MM-DD)"
// @Success 200 {object} domain.TrialBalance
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var q dto.RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	rng, err := parseRange(q)
	if err != nil {
		badDate(c, logger, err)
		return
	}

	tb, err := h.reportingService.GetTrialBalance(c.Request.Context(), rng)
	if err != nil {
		respondError(c, logger, err, "Failed to generate trial balance report")
		return
	}

	logger.Info("Trial balance report generated", slog.Int("row_count", len(tb.Rows)), slog.Bool("balanced", tb.Balanced))
	c.JSON(http.StatusOK, tb)
}

// getChartTree godoc
// @Summary Chart of accounts tree
// @Description Returns the account hierarchy with own and rolled-up totals, optionally filtered by code or name
// @Tags reports
// @Produce json
// @Param after query string false "First day (YYYY-MM-DD)"
// @Param before query string false "Last day (YYYY-MM-DD)"
// @Param search query string false "Case-insensitive code or name filter"
// @Success 200 {object} domain.ChartTree
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build chart tree"
// @Security BearerAuth
// @Router /reports/chart-tree [get]
func (h *reportingHandler) getChartTree(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var q dto.ChartTreeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	rng, err := parseRange(q.RangeQuery)
	if err != nil {
		badDate(c, logger, err)
		return
	}

	tree, err := h.reportingService.GetChartTree(c.Request.Context(), rng, q.Search)
	if err != nil {
		respondError(c, logger, err, "Failed to build chart tree")
		return
	}

	c.JSON(http.StatusOK, tree)
}

// getBalanceSheet godoc
// @Summary Generate balance sheet report
// @Description Derives assets, liabilities and equity from the ledger as of a date
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} domain.BalanceSheet
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf, err := dto.ParseOptionalDate(c.Query("asOf"))
	if err != nil {
		badDate(c, logger, err)
		return
	}

	bs, err := h.reportingService.GetBalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to generate balance sheet report")
		return
	}

	c.JSON(http.StatusOK, bs)
}

// getCashFlow godoc
// @Summary Daily cash flow
// @Description Daily inflow and outflow series; defaults to the trailing 30 days
// @Tags reports
// @Produce json
// @Param after query string false "First day (YYYY-MM-DD)"
// @Param before query string false "Last day (YYYY-MM-DD)"
// @Success 200 {object} domain.CashFlow
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/cash-flow [get]
func (h *reportingHandler) getCashFlow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var q dto.RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	rng, err := parseRange(q)
	if err != nil {
		badDate(c, logger, err)
		return
	}

	cf, err := h.reportingService.GetCashFlow(c.Request.Context(), rng.After, rng.Before)
	if err != nil {
		respondError(c, logger, err, "Failed to generate cash flow report")
		return
	}

	c.JSON(http.StatusOK, cf)
}

func (h *reportingHandler) agingQuery(c *gin.Context, logger *slog.Logger) (dto.AgingQuery, bool) {
	var q dto.AgingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		logger.Warn("Invalid aging query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return q, false
	}
	return q, true
}

// getAgingSummary godoc
// @Summary Aging summary
// @Description Outstanding totals per days-past-due bucket
// @Tags reports
// @Produce json
// @Param asOf query string false "Evaluation date (YYYY-MM-DD)" default(current date)
// @Param direction query string false "payable or receivable" default(payable)
// @Success 200 {object} domain.AgingSummary
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/aging/summary [get]
func (h *reportingHandler) getAgingSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	q, ok := h.agingQuery(c, logger)
	if !ok {
		return
	}
	asOf, err := dto.ParseOptionalDate(q.AsOf)
	if err != nil {
		badDate(c, logger, err)
		return
	}

	summary, err := h.agingService.GetAgingSummary(c.Request.Context(), asOf, domain.AgingDirection(q.Direction))
	if err != nil {
		respondError(c, logger, err, "Failed to generate aging summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// getAgingDetails godoc
// @Summary Aging details
// @Description Every open document with its bucket, oldest first
// @Tags reports
// @Produce json
// @Param asOf query string false "Evaluation date (YYYY-MM-DD)" default(current date)
// @Param direction query string false "payable or receivable" default(payable)
// @Success 200 {object} domain.AgingDetails
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/aging/details [get]
func (h *reportingHandler) getAgingDetails(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	q, ok := h.agingQuery(c, logger)
	if !ok {
		return
	}
	asOf, err := dto.ParseOptionalDate(q.AsOf)
	if err != nil {
		badDate(c, logger, err)
		return
	}

	details, err := h.agingService.GetAgingDetails(c.Request.Context(), asOf, domain.AgingDirection(q.Direction))
	if err != nil {
		respondError(c, logger, err, "Failed to generate aging details")
		return
	}

	c.JSON(http.StatusOK, details)
}
