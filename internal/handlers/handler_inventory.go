package handlers

import (
	"log/slog"
	"net/http"

	"github.com/bizbook/bizbook_backend/internal/core/domain"
	portssvc "github.com/bizbook/bizbook_backend/internal/core/ports/services"
	"github.com/bizbook/bizbook_backend/internal/dto"
	"github.com/bizbook/bizbook_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// inventoryHandler handles item master data and manual stock operations.
type inventoryHandler struct {
	inventorySvc portssvc.InventorySvcFacade
}

func newInventoryHandler(inventorySvc portssvc.InventorySvcFacade) *inventoryHandler {
	return &inventoryHandler{inventorySvc: inventorySvc}
}

// registerInventoryRoutes registers routes related to inventory.
func registerInventoryRoutes(rg *gin.RouterGroup, inventorySvc portssvc.InventorySvcFacade) {
	h := newInventoryHandler(inventorySvc)

	items := rg.Group("/items")
	{
		items.POST("", h.createItem)
		items.GET("", h.listItems)
		items.GET("/:id", h.getItem)
		items.PUT("/:id", h.updateItem)
		items.GET("/:id/movements", h.listMovements)
		items.POST("/:id/stock/add", h.addStock)
		items.POST("/:id/stock/reduce", h.reduceStock)
		items.POST("/:id/stock/adjust", h.adjustStock)
		items.POST("/:id/stock/restore", h.restoreStock)
	}

	rg.POST("/inventory/availability", h.checkAvailability)
}

// createItem godoc
// @Summary Create an inventory item
// @Description Creates the item and, when an opening stock is given, records it as the item's first IN movement
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   item body dto.CreateItemRequest true "Item details"
// @Success 201 {object} domain.InventoryItem
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /items [post]
func (h *inventoryHandler) createItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	item, err := h.inventorySvc.CreateItem(c.Request.Context(), userID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Inventory item created", slog.String("item_id", item.ItemID))
	c.JSON(http.StatusCreated, item)
}

// getItem godoc
// @Summary Get an inventory item by ID
// @Tags inventory
// @Produce  json
// @Param   id path string true "Item ID"
// @Success 200 {object} domain.InventoryItem
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /items/{id} [get]
func (h *inventoryHandler) getItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	item, err := h.inventorySvc.GetItem(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// listItems godoc
// @Summary List inventory items
// @Tags inventory
// @Produce  json
// @Param   limit query int false "Page size" default(25)
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /items [get]
func (h *inventoryHandler) listItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, nextToken := paginationParams(c)
	items, newToken, err := h.inventorySvc.ListItems(c.Request.Context(), userID, limit, nextToken)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "nextToken": newToken})
}

// updateItem godoc
// @Summary Update item master data
// @Description Updates descriptive fields and thresholds. Stock levels only change through stock operations.
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   id path string true "Item ID"
// @Param   item body dto.UpdateItemRequest true "Fields to update"
// @Success 200 {object} domain.InventoryItem
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /items/{id} [put]
func (h *inventoryHandler) updateItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	item, err := h.inventorySvc.UpdateItem(c.Request.Context(), userID, c.Param("id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// listMovements godoc
// @Summary List stock movements for an item
// @Tags inventory
// @Produce  json
// @Param   id path string true "Item ID"
// @Param   limit query int false "Page size" default(25)
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /items/{id}/movements [get]
func (h *inventoryHandler) listMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, nextToken := paginationParams(c)
	movements, newToken, err := h.inventorySvc.ListMovements(c.Request.Context(), userID, c.Param("id"), limit, nextToken)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"movements": movements, "nextToken": newToken})
}

// addStock godoc
// @Summary Add stock
// @Description Records an IN movement. A unit price also updates last-purchase metadata.
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   id path string true "Item ID"
// @Param   operation body dto.StockOperationRequest true "Quantity and optional purchase price"
// @Success 200 {object} domain.StockMovement
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /items/{id}/stock/add [post]
func (h *inventoryHandler) addStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.StockOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddStock", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	movement, err := h.inventorySvc.AddStock(c.Request.Context(), userID, c.Param("id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Stock added", slog.String("item_id", c.Param("id")), slog.String("quantity", req.Quantity.String()))
	c.JSON(http.StatusOK, movement)
}

// reduceStock godoc
// @Summary Reduce stock
// @Description Records an OUT movement. Fails when the quantity exceeds current stock.
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   id path string true "Item ID"
// @Param   operation body dto.StockOperationRequest true "Quantity to remove"
// @Success 200 {object} domain.StockMovement
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string "Insufficient stock"
// @Security BearerAuth
// @Router /items/{id}/stock/reduce [post]
func (h *inventoryHandler) reduceStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.StockOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReduceStock", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	movement, err := h.inventorySvc.ReduceStock(c.Request.Context(), userID, c.Param("id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Stock reduced", slog.String("item_id", c.Param("id")), slog.String("quantity", req.Quantity.String()))
	c.JSON(http.StatusOK, movement)
}

// adjustStock godoc
// @Summary Adjust stock
// @Description Applies a signed manual correction as an ADJUST movement. Negative quantities reduce stock and cannot take it below zero.
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   id path string true "Item ID"
// @Param   operation body dto.StockOperationRequest true "Signed quantity"
// @Success 200 {object} domain.StockMovement
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string "Adjustment would make stock negative"
// @Security BearerAuth
// @Router /items/{id}/stock/adjust [post]
func (h *inventoryHandler) adjustStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.StockOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AdjustStock", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	movement, err := h.inventorySvc.AdjustStock(c.Request.Context(), userID, c.Param("id"), req.Quantity, req.Reference, req.Notes, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Stock adjusted", slog.String("item_id", c.Param("id")), slog.String("quantity", req.Quantity.String()))
	c.JSON(http.StatusOK, movement)
}

// restoreStock godoc
// @Summary Restore stock
// @Description Puts stock back after a cancellation or customer return as an IN movement
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   id path string true "Item ID"
// @Param   operation body dto.RestoreStockRequest true "Quantity and reason"
// @Success 200 {object} domain.StockMovement
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /items/{id}/stock/restore [post]
func (h *inventoryHandler) restoreStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RestoreStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RestoreStock", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	movement, err := h.inventorySvc.RestoreStock(c.Request.Context(), userID, c.Param("id"), req.Quantity, req.Reference, domain.RestoreReason(req.Reason), userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Stock restored", slog.String("item_id", c.Param("id")), slog.String("quantity", req.Quantity.String()))
	c.JSON(http.StatusOK, movement)
}

// checkAvailability godoc
// @Summary Check stock availability
// @Description Advisory pre-check of the requested quantities. The authoritative check runs inside the settlement transaction.
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   request body dto.CheckAvailabilityRequest true "Items and quantities"
// @Success 200 {object} domain.AvailabilityResult
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /inventory/availability [post]
func (h *inventoryHandler) checkAvailability(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CheckAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CheckAvailability", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.inventorySvc.CheckAvailability(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
