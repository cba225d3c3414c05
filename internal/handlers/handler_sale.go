package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/bizbook/bizbook_backend/internal/core/ports/services"
	"github.com/bizbook/bizbook_backend/internal/dto"
	"github.com/bizbook/bizbook_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// saleHandler handles the sale document lifecycle and receipt allocation.
type saleHandler struct {
	settlementSvc portssvc.SettlementSvcFacade
}

func newSaleHandler(settlementSvc portssvc.SettlementSvcFacade) *saleHandler {
	return &saleHandler{settlementSvc: settlementSvc}
}

// registerSaleRoutes registers routes related to sales and receipts.
func registerSaleRoutes(rg *gin.RouterGroup, settlementSvc portssvc.SettlementSvcFacade) {
	h := newSaleHandler(settlementSvc)

	sales := rg.Group("/sales")
	{
		sales.POST("", h.createSale)
		sales.GET("", h.listSales)
		sales.GET("/overdue", h.listOverdueSales)
		sales.GET("/:id", h.getSale)
		sales.POST("/:id/cancel", h.cancelSale)
	}

	receipts := rg.Group("/receipts")
	{
		receipts.POST("", h.allocateReceipt)
		receipts.DELETE("/:id", h.deleteReceipt)
		receipts.POST("/:id/clear", h.clearReceipt)
	}
}

// createSale godoc
// @Summary Create a sale
// @Description Records a sale, appends the receivable journal entry and deducts stock for any inventory lines in one transaction
// @Tags sales
// @Accept  json
// @Produce  json
// @Param   sale body dto.CreateSaleRequest true "Sale details"
// @Success 201 {object} domain.Sale
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "Duplicate sale number"
// @Failure 422 {object} map[string]string "Insufficient stock"
// @Security BearerAuth
// @Router /sales [post]
func (h *saleHandler) createSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateSale", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sale, err := h.settlementSvc.CreateSale(c.Request.Context(), userID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Sale created", slog.String("sale_id", sale.SaleID), slog.String("sale_number", sale.SaleNumber))
	c.JSON(http.StatusCreated, sale)
}

// getSale godoc
// @Summary Get a sale by ID
// @Tags sales
// @Produce  json
// @Param   id path string true "Sale ID"
// @Success 200 {object} domain.Sale
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /sales/{id} [get]
func (h *saleHandler) getSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sale, err := h.settlementSvc.GetSale(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// listSales godoc
// @Summary List sales
// @Tags sales
// @Produce  json
// @Param   limit query int false "Page size" default(25)
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /sales [get]
func (h *saleHandler) listSales(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, nextToken := paginationParams(c)
	sales, newToken, err := h.settlementSvc.ListSales(c.Request.Context(), userID, limit, nextToken)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": sales, "nextToken": newToken})
}

// listOverdueSales godoc
// @Summary List overdue sales
// @Description Returns unsettled sales whose due date has passed. Overdue is derived at read time, never stored.
// @Tags sales
// @Produce  json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /sales/overdue [get]
func (h *saleHandler) listOverdueSales(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sales, err := h.settlementSvc.ListOverdueSales(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": sales})
}

// cancelSale godoc
// @Summary Cancel a sale
// @Description Cancels an unpaid sale, appends the offsetting journal entry and restores deducted stock
// @Tags sales
// @Accept  json
// @Produce  json
// @Param   id path string true "Sale ID"
// @Param   cancellation body dto.CancelDocumentRequest true "Cancellation reason"
// @Success 200 {object} domain.Sale
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "Sale has payments or is already cancelled"
// @Security BearerAuth
// @Router /sales/{id}/cancel [post]
func (h *saleHandler) cancelSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CancelDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CancelSale", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sale, err := h.settlementSvc.CancelSale(c.Request.Context(), userID, c.Param("id"), req.Reason, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Sale cancelled", slog.String("sale_id", sale.SaleID))
	c.JSON(http.StatusOK, sale)
}

// allocateReceipt godoc
// @Summary Record a customer receipt
// @Description Allocates a payment against a sale (or on account), appends the credit journal entry and advances the sale's payment status
// @Tags receipts
// @Accept  json
// @Produce  json
// @Param   receipt body dto.CreateReceiptRequest true "Receipt details"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "Sale not payable"
// @Failure 422 {object} map[string]string "Amount exceeds remaining balance"
// @Security BearerAuth
// @Router /receipts [post]
func (h *saleHandler) allocateReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AllocateReceipt", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	receipt, sale, err := h.settlementSvc.AllocateReceipt(c.Request.Context(), userID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Receipt allocated", slog.String("receipt_id", receipt.ReceiptID))
	c.JSON(http.StatusCreated, gin.H{"receipt": receipt, "sale": sale})
}

// deleteReceipt godoc
// @Summary Reverse a receipt
// @Description Deletes an uncleared receipt, appends the offsetting journal entry and rolls the sale's paid amount back
// @Tags receipts
// @Accept  json
// @Produce  json
// @Param   id path string true "Receipt ID"
// @Param   reversal body dto.CancelDocumentRequest true "Reversal reason"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "Cleared cheque receipts cannot be reversed"
// @Security BearerAuth
// @Router /receipts/{id} [delete]
func (h *saleHandler) deleteReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CancelDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for DeleteReceipt", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sale, err := h.settlementSvc.DeleteReceipt(c.Request.Context(), userID, c.Param("id"), req.Reason, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Receipt reversed", slog.String("receipt_id", c.Param("id")))
	c.JSON(http.StatusOK, gin.H{"sale": sale})
}

// clearReceipt godoc
// @Summary Mark a cheque receipt as cleared
// @Tags receipts
// @Produce  json
// @Param   id path string true "Receipt ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "Receipt is not pending clearance"
// @Security BearerAuth
// @Router /receipts/{id}/clear [post]
func (h *saleHandler) clearReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.settlementSvc.ClearReceipt(c.Request.Context(), userID, c.Param("id"), userID); err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Receipt cleared", slog.String("receipt_id", c.Param("id")))
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
