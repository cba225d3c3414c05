package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/bizbook/bizbook_backend/internal/core/ports/services"
	"github.com/bizbook/bizbook_backend/internal/dto"
	"github.com/bizbook/bizbook_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// invoiceHandler handles the purchase invoice lifecycle and payment allocation.
type invoiceHandler struct {
	settlementSvc portssvc.SettlementSvcFacade
}

func newInvoiceHandler(settlementSvc portssvc.SettlementSvcFacade) *invoiceHandler {
	return &invoiceHandler{settlementSvc: settlementSvc}
}

// registerInvoiceRoutes registers routes related to invoices and payments.
func registerInvoiceRoutes(rg *gin.RouterGroup, settlementSvc portssvc.SettlementSvcFacade) {
	h := newInvoiceHandler(settlementSvc)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/overdue", h.listOverdueInvoices)
		invoices.GET("/:id", h.getInvoice)
		invoices.POST("/:id/cancel", h.cancelInvoice)
	}

	payments := rg.Group("/invoice-payments")
	{
		payments.POST("", h.allocatePayment)
		payments.DELETE("/:id", h.deletePayment)
		payments.POST("/:id/clear", h.clearPayment)
	}
}

// createInvoice godoc
// @Summary Record a purchase invoice
// @Description Records an invoice, appends the payable journal entry and receives stock for any inventory lines in one transaction
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} domain.Invoice
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "Duplicate invoice number"
// @Security BearerAuth
// @Router /invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.settlementSvc.CreateInvoice(c.Request.Context(), userID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Invoice created", slog.String("invoice_id", invoice.InvoiceID), slog.String("invoice_number", invoice.InvoiceNumber))
	c.JSON(http.StatusCreated, invoice)
}

// getInvoice godoc
// @Summary Get an invoice by ID
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {object} domain.Invoice
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.settlementSvc.GetInvoice(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// listInvoices godoc
// @Summary List invoices
// @Tags invoices
// @Produce  json
// @Param   limit query int false "Page size" default(25)
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, nextToken := paginationParams(c)
	invoices, newToken, err := h.settlementSvc.ListInvoices(c.Request.Context(), userID, limit, nextToken)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": invoices, "nextToken": newToken})
}

// listOverdueInvoices godoc
// @Summary List overdue invoices
// @Description Returns unsettled invoices whose due date has passed. Overdue is derived at read time, never stored.
// @Tags invoices
// @Produce  json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /invoices/overdue [get]
func (h *invoiceHandler) listOverdueInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoices, err := h.settlementSvc.ListOverdueInvoices(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

// cancelInvoice godoc
// @Summary Cancel an invoice
// @Description Cancels an unpaid invoice, appends the offsetting journal entry and removes received stock. Fails when the stock has already been sold.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Param   cancellation body dto.CancelDocumentRequest true "Cancellation reason"
// @Success 200 {object} domain.Invoice
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "Invoice has payments or is already cancelled"
// @Failure 422 {object} map[string]string "Received stock already consumed"
// @Security BearerAuth
// @Router /invoices/{id}/cancel [post]
func (h *invoiceHandler) cancelInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CancelDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CancelInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.settlementSvc.CancelInvoice(c.Request.Context(), userID, c.Param("id"), req.Reason, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Invoice cancelled", slog.String("invoice_id", invoice.InvoiceID))
	c.JSON(http.StatusOK, invoice)
}

// allocatePayment godoc
// @Summary Record a payment to a party
// @Description Allocates a payment against an invoice (or on account), appends the debit journal entry and advances the invoice's payment status
// @Tags invoice-payments
// @Accept  json
// @Produce  json
// @Param   payment body dto.CreateInvoicePaymentRequest true "Payment details"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "Invoice not payable"
// @Failure 422 {object} map[string]string "Amount exceeds remaining balance"
// @Security BearerAuth
// @Router /invoice-payments [post]
func (h *invoiceHandler) allocatePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateInvoicePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AllocateInvoicePayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payment, invoice, err := h.settlementSvc.AllocateInvoicePayment(c.Request.Context(), userID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Invoice payment allocated", slog.String("payment_id", payment.PaymentID))
	c.JSON(http.StatusCreated, gin.H{"payment": payment, "invoice": invoice})
}

// deletePayment godoc
// @Summary Reverse an invoice payment
// @Description Deletes an uncleared payment, appends the offsetting journal entry and rolls the invoice's paid amount back
// @Tags invoice-payments
// @Accept  json
// @Produce  json
// @Param   id path string true "Payment ID"
// @Param   reversal body dto.CancelDocumentRequest true "Reversal reason"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "Cleared payments cannot be reversed"
// @Security BearerAuth
// @Router /invoice-payments/{id} [delete]
func (h *invoiceHandler) deletePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CancelDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for DeleteInvoicePayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.settlementSvc.DeleteInvoicePayment(c.Request.Context(), userID, c.Param("id"), req.Reason, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Invoice payment reversed", slog.String("payment_id", c.Param("id")))
	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

// clearPayment godoc
// @Summary Record clearance of an invoice payment
// @Tags invoice-payments
// @Accept  json
// @Produce  json
// @Param   id path string true "Payment ID"
// @Param   clearance body dto.ClearPaymentRequest false "Clearance timestamp, defaults to now"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "Payment already cleared"
// @Security BearerAuth
// @Router /invoice-payments/{id}/clear [post]
func (h *invoiceHandler) clearPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	// The body is optional; an absent body means "cleared now".
	var req dto.ClearPaymentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for ClearInvoicePayment", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.settlementSvc.ClearInvoicePayment(c.Request.Context(), userID, c.Param("id"), req, userID); err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Invoice payment cleared", slog.String("payment_id", c.Param("id")))
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
