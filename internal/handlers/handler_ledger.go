package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/SscSPs/backoffice_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ledgerHandler struct {
	ledgerService portssvc.LedgerService
}

func newLedgerHandler(ledgerService portssvc.LedgerService) *ledgerHandler {
	return &ledgerHandler{ledgerService: ledgerService}
}

func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerService) {
	h := newLedgerHandler(ledgerService)
	rg.GET("/ledger", h.getLedger)
}

// getLedger godoc
// @Summary Account ledger with running balance
// @Description Lines of one account in date order with the balance after each line. Without accountId the first active account is used; an unknown account yields an empty ledger.
// @Tags ledger
// @Produce  json
// @Param   accountId query string false "Account ID"
// @Param   after query string false "First day (YYYY-MM-DD)"
// @Param   before query string false "Last day (YYYY-MM-DD)"
// @Success 200 {object} domain.Ledger
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build ledger"
// @Security BearerAuth
// @Router /ledger [get]
func (h *ledgerHandler) getLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var q dto.LedgerQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	rng, err := parseRange(q.RangeQuery)
	if err != nil {
		badDate(c, logger, err)
		return
	}

	logger = logger.With(slog.String("account_id", q.AccountID))

	ledger, err := h.ledgerService.GetLedger(c.Request.Context(), q.AccountID, rng)
	if err != nil {
		respondError(c, logger, err, "Failed to build ledger")
		return
	}

	logger.Debug("Ledger built", slog.Int("rows", len(ledger.Rows)))
	c.JSON(http.StatusOK, ledger)
}
