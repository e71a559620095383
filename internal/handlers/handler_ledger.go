package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/dailybalance/internal/core/ports/services"
	"github.com/SscSPs/dailybalance/internal/dto"
	"github.com/SscSPs/dailybalance/internal/middleware"
	"github.com/SscSPs/dailybalance/internal/utils/money"
	"github.com/SscSPs/dailybalance/internal/utils/pagination"
)

// ledgerHandler handles HTTP requests for day buckets and their entries.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// RegisterLedgerRoutes registers routes related to days, entries and history.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	days := rg.Group("/days/:date")
	{
		days.GET("", h.getDay)
		days.PUT("/starting-balance", h.setStartingBalance)
		days.POST("/entries", h.createEntry)
		days.PATCH("/entries/:entryID", h.updateEntry)
		days.DELETE("/entries/:entryID", h.deleteEntry)
	}
	rg.GET("/history", h.listHistory)
	rg.DELETE("/data", h.eraseAllData)
}

// respondDay writes the bucket of date with freshly computed totals.
func (h *ledgerHandler) respondDay(c *gin.Context, logger *slog.Logger, userID, date string, status int) {
	ctx := c.Request.Context()
	bucket, err := h.ledgerService.GetDayBucket(ctx, userID, date)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve day")
		return
	}
	totals, err := h.ledgerService.CalculateTotals(ctx, userID, bucket)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to calculate totals")
		return
	}
	c.JSON(status, dto.ToDayResponse(bucket, totals))
}

// getDay godoc
// @Summary Get a day
// @Description Returns the day's starting balance, entries (most recent first) and totals. Days with no data are returned empty.
// @Tags ledger
// @Produce  json
// @Param   date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.DayResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to retrieve day"
// @Security BearerAuth
// @Router /days/{date} [get]
func (h *ledgerHandler) getDay(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	h.respondDay(c, logger, userID, c.Param("date"), http.StatusOK)
}

// setStartingBalance godoc
// @Summary Set a day's starting balance
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   date path string true "Date (YYYY-MM-DD)"
// @Param   body body dto.SetStartingBalanceRequest true "Starting balance"
// @Success 200 {object} dto.DayResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to set starting balance"
// @Security BearerAuth
// @Router /days/{date}/starting-balance [put]
func (h *ledgerHandler) setStartingBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetStartingBalanceRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	date := c.Param("date")
	logger = logger.With(slog.String("date", date))

	if _, err := h.ledgerService.SetStartingBalance(c.Request.Context(), userID, date, *req.Amount); err != nil {
		respondServiceError(c, logger, err, "Failed to set starting balance")
		return
	}
	logger.Info("Starting balance set", slog.String("amount", money.Format(*req.Amount)))
	h.respondDay(c, logger, userID, date, http.StatusOK)
}

// createEntry godoc
// @Summary Add an entry
// @Description Adds an income or expense entry at the head of the day's list
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   date path string true "Date (YYYY-MM-DD)"
// @Param   entry body dto.CreateEntryRequest true "Entry details"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create entry"
// @Security BearerAuth
// @Router /days/{date}/entries [post]
func (h *ledgerHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEntryRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	date := c.Param("date")
	logger = logger.With(slog.String("date", date))

	entry, err := h.ledgerService.AddEntry(c.Request.Context(), userID, date, req.ToNewEntry())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create entry")
		return
	}
	logger.Info("Entry created", slog.String("entry_id", entry.ID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(*entry))
}

// updateEntry godoc
// @Summary Update an entry
// @Description Merges the provided fields into the entry; omitted fields are kept
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   date path string true "Date (YYYY-MM-DD)"
// @Param   entryID path string true "Entry ID"
// @Param   entry body dto.UpdateEntryRequest true "Fields to change"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to update entry"
// @Security BearerAuth
// @Router /days/{date}/entries/{entryID} [patch]
func (h *ledgerHandler) updateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateEntryRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	date, entryID := c.Param("date"), c.Param("entryID")
	logger = logger.With(slog.String("date", date), slog.String("entry_id", entryID))

	patch := req.ToPatch()
	if patch.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	entry, err := h.ledgerService.UpdateEntry(c.Request.Context(), userID, date, entryID, patch)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update entry")
		return
	}
	logger.Info("Entry updated")
	c.JSON(http.StatusOK, dto.ToEntryResponse(*entry))
}

// deleteEntry godoc
// @Summary Delete an entry
// @Tags ledger
// @Param   date path string true "Date (YYYY-MM-DD)"
// @Param   entryID path string true "Entry ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to delete entry"
// @Security BearerAuth
// @Router /days/{date}/entries/{entryID} [delete]
func (h *ledgerHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	date, entryID := c.Param("date"), c.Param("entryID")
	logger = logger.With(slog.String("date", date), slog.String("entry_id", entryID))

	if err := h.ledgerService.DeleteEntry(c.Request.Context(), userID, date, entryID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete entry")
		return
	}
	logger.Info("Entry deleted")
	c.Status(http.StatusNoContent)
}

// listHistory godoc
// @Summary List dates with data
// @Description Lists every date that has a stored day, most recent first, with token pagination
// @Tags ledger
// @Produce  json
// @Param   limit query int false "Page size (default 30, max 366)"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.HistoryResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list history"
// @Security BearerAuth
// @Router /history [get]
func (h *ledgerHandler) listHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListHistoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind history query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	dates, err := h.ledgerService.GetHistoryDates(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list history")
		return
	}
	page, next, err := pagination.PageDates(dates, params.Limit, params.NextToken)
	if err != nil {
		logger.Warn("Invalid history token", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := dto.HistoryResponse{Dates: page}
	if next != "" {
		resp.NextToken = &next
	}
	c.JSON(http.StatusOK, resp)
}

// eraseAllData godoc
// @Summary Erase all data
// @Description Permanently removes every day, entry, debt and borrow of the caller
// @Tags ledger
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to erase data"
// @Security BearerAuth
// @Router /data [delete]
func (h *ledgerHandler) eraseAllData(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	if err := h.ledgerService.EraseAllData(c.Request.Context(), userID); err != nil {
		respondServiceError(c, logger, err, "Failed to erase data")
		return
	}
	logger.Warn("All user data erased")
	c.Status(http.StatusNoContent)
}
