package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/dailybalance/internal/core/ports/services"
	"github.com/SscSPs/dailybalance/internal/dto"
	"github.com/SscSPs/dailybalance/internal/middleware"
)

// settlementHandler handles HTTP requests for debts and borrows.
type settlementHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// RegisterSettlementRoutes registers the debt and borrow routes.
func RegisterSettlementRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := &settlementHandler{ledgerService: ledgerService}

	debts := rg.Group("/debts")
	{
		debts.GET("", h.listDebts)
		debts.POST("", h.createDebt)
		debts.PUT("/:id/status", h.setDebtStatus)
	}
	borrows := rg.Group("/borrows")
	{
		borrows.GET("", h.listBorrows)
		borrows.POST("", h.createBorrow)
		borrows.PUT("/:id/status", h.setBorrowStatus)
	}
}

// listDebts godoc
// @Summary List debts
// @Description Lists money owed to the caller, newest first, with the unpaid total
// @Tags debts
// @Produce  json
// @Success 200 {object} dto.ListDebtsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list debts"
// @Security BearerAuth
// @Router /debts [get]
func (h *settlementHandler) listDebts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	debts, err := h.ledgerService.ListDebts(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list debts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListDebtsResponse(debts))
}

// createDebt godoc
// @Summary Record a debt
// @Tags debts
// @Accept  json
// @Produce  json
// @Param   debt body dto.CreateDebtRequest true "Debt details"
// @Success 201 {object} dto.DebtResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create debt"
// @Security BearerAuth
// @Router /debts [post]
func (h *settlementHandler) createDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateDebtRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	debt, err := h.ledgerService.AddDebt(c.Request.Context(), userID, req.ToNewDebt())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create debt")
		return
	}
	logger.Info("Debt created", slog.String("debt_id", debt.ID))
	c.JSON(http.StatusCreated, dto.ToDebtResponse(*debt))
}

// setDebtStatus godoc
// @Summary Mark a debt paid or unpaid
// @Tags debts
// @Accept  json
// @Produce  json
// @Param   id path string true "Debt ID"
// @Param   status body dto.SetStatusRequest true "New status"
// @Success 200 {object} dto.DebtResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Debt not found"
// @Failure 500 {object} map[string]string "Failed to update debt"
// @Security BearerAuth
// @Router /debts/{id}/status [put]
func (h *settlementHandler) setDebtStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetStatusRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	debtID := c.Param("id")
	logger = logger.With(slog.String("debt_id", debtID))

	debt, err := h.ledgerService.SetDebtStatus(c.Request.Context(), userID, debtID, req.Status)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update debt")
		return
	}
	logger.Info("Debt status updated", slog.String("status", string(debt.Status)))
	c.JSON(http.StatusOK, dto.ToDebtResponse(*debt))
}

// listBorrows godoc
// @Summary List borrows
// @Description Lists money the caller owes, newest first, with the unpaid total
// @Tags borrows
// @Produce  json
// @Success 200 {object} dto.ListBorrowsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list borrows"
// @Security BearerAuth
// @Router /borrows [get]
func (h *settlementHandler) listBorrows(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	borrows, err := h.ledgerService.ListBorrows(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list borrows")
		return
	}
	c.JSON(http.StatusOK, dto.ToListBorrowsResponse(borrows))
}

// createBorrow godoc
// @Summary Record a borrow
// @Tags borrows
// @Accept  json
// @Produce  json
// @Param   borrow body dto.CreateBorrowRequest true "Borrow details"
// @Success 201 {object} dto.BorrowResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create borrow"
// @Security BearerAuth
// @Router /borrows [post]
func (h *settlementHandler) createBorrow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBorrowRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	borrow, err := h.ledgerService.AddBorrow(c.Request.Context(), userID, req.ToNewDebt())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create borrow")
		return
	}
	logger.Info("Borrow created", slog.String("borrow_id", borrow.ID))
	c.JSON(http.StatusCreated, dto.ToBorrowResponse(*borrow))
}

// setBorrowStatus godoc
// @Summary Mark a borrow paid or unpaid
// @Tags borrows
// @Accept  json
// @Produce  json
// @Param   id path string true "Borrow ID"
// @Param   status body dto.SetStatusRequest true "New status"
// @Success 200 {object} dto.BorrowResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Borrow not found"
// @Failure 500 {object} map[string]string "Failed to update borrow"
// @Security BearerAuth
// @Router /borrows/{id}/status [put]
func (h *settlementHandler) setBorrowStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetStatusRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	borrowID := c.Param("id")
	logger = logger.With(slog.String("borrow_id", borrowID))

	borrow, err := h.ledgerService.SetBorrowStatus(c.Request.Context(), userID, borrowID, req.Status)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update borrow")
		return
	}
	logger.Info("Borrow status updated", slog.String("status", string(borrow.Status)))
	c.JSON(http.StatusOK, dto.ToBorrowResponse(*borrow))
}
