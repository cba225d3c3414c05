package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/bizbook/bizbook_backend/internal/core/ports/services"
	"github.com/bizbook/bizbook_backend/internal/dto"
	"github.com/bizbook/bizbook_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// customerHandler handles HTTP requests for the customer registry and the
// credit limit guard.
type customerHandler struct {
	partySvc  portssvc.PartySvcFacade
	creditSvc portssvc.CreditSvcFacade
}

func newCustomerHandler(partySvc portssvc.PartySvcFacade, creditSvc portssvc.CreditSvcFacade) *customerHandler {
	return &customerHandler{partySvc: partySvc, creditSvc: creditSvc}
}

// registerCustomerRoutes registers routes related to customers.
func registerCustomerRoutes(rg *gin.RouterGroup, partySvc portssvc.PartySvcFacade, creditSvc portssvc.CreditSvcFacade) {
	h := newCustomerHandler(partySvc, creditSvc)

	customers := rg.Group("/customers")
	{
		customers.POST("", h.createCustomer)
		customers.GET("", h.listCustomers)
		customers.GET("/:id", h.getCustomer)
		customers.PUT("/:id", h.updateCustomer)
		customers.PUT("/:id/credit-limit", h.updateCreditLimit)
	}
}

// createCustomer godoc
// @Summary Create a customer
// @Tags customers
// @Accept  json
// @Produce  json
// @Param   customer body dto.CreateCustomerRequest true "Customer details"
// @Success 201 {object} domain.Customer
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /customers [post]
func (h *customerHandler) createCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCustomer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	customer, err := h.partySvc.CreateCustomer(c.Request.Context(), userID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Customer created", slog.String("customer_id", customer.CustomerID))
	c.JSON(http.StatusCreated, customer)
}

// getCustomer godoc
// @Summary Get a customer by ID
// @Tags customers
// @Produce  json
// @Param   id path string true "Customer ID"
// @Success 200 {object} domain.Customer
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /customers/{id} [get]
func (h *customerHandler) getCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	customer, err := h.partySvc.GetCustomer(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// listCustomers godoc
// @Summary List customers
// @Tags customers
// @Produce  json
// @Param   limit query int false "Page size" default(25)
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /customers [get]
func (h *customerHandler) listCustomers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, nextToken := paginationParams(c)
	customers, newToken, err := h.partySvc.ListCustomers(c.Request.Context(), userID, limit, nextToken)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers, "nextToken": newToken})
}

// updateCustomer godoc
// @Summary Update customer contact details
// @Tags customers
// @Accept  json
// @Produce  json
// @Param   id path string true "Customer ID"
// @Param   customer body dto.UpdateCustomerRequest true "Fields to update"
// @Success 200 {object} domain.Customer
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /customers/{id} [put]
func (h *customerHandler) updateCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateCustomer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	customer, err := h.partySvc.UpdateCustomer(c.Request.Context(), userID, c.Param("id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// updateCreditLimit godoc
// @Summary Change a customer's credit limit
// @Description Updates the advisory credit limit and records an audit entry in the journal
// @Tags customers
// @Accept  json
// @Produce  json
// @Param   id path string true "Customer ID"
// @Param   limit body dto.UpdateCreditLimitRequest true "New limit"
// @Success 200 {object} domain.Customer
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /customers/{id}/credit-limit [put]
func (h *customerHandler) updateCreditLimit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateCreditLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateCreditLimit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	customer, err := h.creditSvc.UpdateCreditLimit(c.Request.Context(), userID, c.Param("id"), req.CreditLimit, req.Reason, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Credit limit updated", slog.String("customer_id", customer.CustomerID))
	c.JSON(http.StatusOK, customer)
}
