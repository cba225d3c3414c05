package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/bizbook/bizbook_backend/internal/core/ports/services"
	"github.com/bizbook/bizbook_backend/internal/dto"
	"github.com/bizbook/bizbook_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// partyHandler handles HTTP requests for the supplier registry.
type partyHandler struct {
	partySvc portssvc.PartySvcFacade
}

func newPartyHandler(partySvc portssvc.PartySvcFacade) *partyHandler {
	return &partyHandler{partySvc: partySvc}
}

// registerPartyRoutes registers routes related to parties.
func registerPartyRoutes(rg *gin.RouterGroup, partySvc portssvc.PartySvcFacade) {
	h := newPartyHandler(partySvc)

	parties := rg.Group("/parties")
	{
		parties.POST("", h.createParty)
		parties.GET("", h.listParties)
		parties.GET("/:id", h.getParty)
		parties.PUT("/:id", h.updateParty)
	}
}

// createParty godoc
// @Summary Create a party (supplier)
// @Tags parties
// @Accept  json
// @Produce  json
// @Param   party body dto.CreatePartyRequest true "Party details"
// @Success 201 {object} domain.Party
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /parties [post]
func (h *partyHandler) createParty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateParty", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	party, err := h.partySvc.CreateParty(c.Request.Context(), userID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Party created", slog.String("party_id", party.PartyID))
	c.JSON(http.StatusCreated, party)
}

// getParty godoc
// @Summary Get a party by ID
// @Tags parties
// @Produce  json
// @Param   id path string true "Party ID"
// @Success 200 {object} domain.Party
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /parties/{id} [get]
func (h *partyHandler) getParty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	party, err := h.partySvc.GetParty(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, party)
}

// listParties godoc
// @Summary List parties
// @Tags parties
// @Produce  json
// @Param   limit query int false "Page size" default(25)
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /parties [get]
func (h *partyHandler) listParties(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, nextToken := paginationParams(c)
	parties, newToken, err := h.partySvc.ListParties(c.Request.Context(), userID, limit, nextToken)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"parties": parties, "nextToken": newToken})
}

// updateParty godoc
// @Summary Update party contact details
// @Tags parties
// @Accept  json
// @Produce  json
// @Param   id path string true "Party ID"
// @Param   party body dto.UpdatePartyRequest true "Fields to update"
// @Success 200 {object} domain.Party
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /parties/{id} [put]
func (h *partyHandler) updateParty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateParty", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	party, err := h.partySvc.UpdateParty(c.Request.Context(), userID, c.Param("id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, party)
}
