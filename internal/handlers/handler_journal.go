package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/SscSPs/backoffice_ledger/internal/middleware"
	"github.com/SscSPs/backoffice_ledger/internal/utils/mapping"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: journalService,
	}
}

// registerJournalRoutes registers journal entry routes
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.postJournalEntry)
		entries.GET("", h.listJournalEntries)
		entries.GET("/:id", h.getJournalEntry)
		entries.PATCH("/:id", h.updateJournalEntry)
		entries.POST("/:id/reverse", h.reverseJournalEntry)
	}
}

// postJournalEntry godoc
// @Summary Post a journal entry
// @Description Validates and posts a balanced entry. Lines with zero on both sides are dropped; amounts may be numbers or strings.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.PostJournalEntryRequest true "Entry with its lines"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Unbalanced, empty or otherwise invalid entry"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Could not allocate an entry number"
// @Failure 500 {object} map[string]string "Failed to post journal entry"
// @Security BearerAuth
// @Router /journal-entries [post]
func (h *journalHandler) postJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PostJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostJournalEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("creator_user_id", creatorUserID))

	entry, err := h.journalService.PostJournalEntry(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, logger, err, "Failed to post journal entry")
		return
	}

	c.JSON(http.StatusCreated, mapping.ToJournalEntryResponse(entry))
}

// getJournalEntry godoc
// @Summary Get a journal entry
// @Tags journal-entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 500 {object} map[string]string "Failed to retrieve journal entry"
// @Security BearerAuth
// @Router /journal-entries/{id} [get]
func (h *journalHandler) getJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	entry, err := h.journalService.GetJournalEntry(c.Request.Context(), entryID)
	if err != nil {
		respondError(c, logger.With(slog.String("entry_id", entryID)), err, "Failed to retrieve journal entry")
		return
	}

	c.JSON(http.StatusOK, mapping.ToJournalEntryResponse(entry))
}

// listJournalEntries godoc
// @Summary List journal entries
// @Description Newest first, paginated with an opaque token
// @Tags journal-entries
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list journal entries"
// @Security BearerAuth
// @Router /journal-entries [get]
func (h *journalHandler) listJournalEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListJournalEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.journalService.ListJournalEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list journal entries")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateJournalEntry godoc
// @Summary Edit the text of a journal entry
// @Description Only reference and description can change; amounts are corrected by reversal
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   id path string true "Entry ID"
// @Param   entry body dto.UpdateJournalEntryRequest true "Fields to update"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 500 {object} map[string]string "Failed to update journal entry"
// @Security BearerAuth
// @Router /journal-entries/{id} [patch]
func (h *journalHandler) updateJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	var req dto.UpdateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateJournalEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("entry_id", entryID), slog.String("updater_user_id", userID))

	entry, err := h.journalService.UpdateJournalEntryText(c.Request.Context(), entryID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update journal entry")
		return
	}

	c.JSON(http.StatusOK, mapping.ToJournalEntryResponse(entry))
}

// reverseJournalEntry godoc
// @Summary Reverse a journal entry
// @Description Posts the mirror image of an entry and marks the original as reversed
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   id path string true "Entry ID to reverse"
// @Param   reversal body dto.ReverseJournalEntryRequest false "Optional reversal date and description"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Entry already reversed or is itself a reversal"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Could not allocate an entry number"
// @Failure 500 {object} map[string]string "Failed to reverse journal entry"
// @Security BearerAuth
// @Router /journal-entries/{id}/reverse [post]
func (h *journalHandler) reverseJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	var req dto.ReverseJournalEntryRequest
	// The body is optional.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("Failed to bind JSON for ReverseJournalEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("entry_id", entryID), slog.String("user_id", userID))

	reversal, err := h.journalService.ReverseJournalEntry(c.Request.Context(), entryID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to reverse journal entry")
		return
	}

	c.JSON(http.StatusCreated, mapping.ToJournalEntryResponse(reversal))
}
