package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/bizbook/bizbook_backend/internal/core/domain"
	portssvc "github.com/bizbook/bizbook_backend/internal/core/ports/services"
	"github.com/bizbook/bizbook_backend/internal/dto"
	"github.com/bizbook/bizbook_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler exposes balance derivation, statements and adjustments.
type ledgerHandler struct {
	ledgerSvc portssvc.LedgerSvcFacade
}

func newLedgerHandler(ledgerSvc portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerSvc: ledgerSvc}
}

// registerLedgerRoutes registers routes related to the journal.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerSvc portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerSvc)

	ledger := rg.Group("/ledger")
	{
		ledger.GET("/balance", h.getBalance)
		ledger.GET("/statement", h.getStatement)
		ledger.GET("/summary", h.getSummary)
		ledger.POST("/adjustments", h.recordAdjustment)
	}
}

// accountRefFromQuery builds the account reference from the kind/partyID query
// parameters shared by the balance and statement endpoints.
func accountRefFromQuery(c *gin.Context) (domain.AccountRef, bool) {
	partyID := c.Query("partyID")
	if partyID == "" {
		return domain.AccountRef{}, false
	}
	switch c.Query("kind") {
	case string(domain.KindCustomer):
		return domain.CustomerRef(partyID), true
	case string(domain.KindParty):
		return domain.PartyRef(partyID), true
	default:
		return domain.AccountRef{}, false
	}
}

// getBalance godoc
// @Summary Derive an account balance
// @Description Folds the account's journal entries into a balance, optionally as of a past date. Balances are never stored.
// @Tags ledger
// @Produce  json
// @Param   kind query string true "Account kind" Enums(CUSTOMER, PARTY)
// @Param   partyID query string true "Customer or party ID"
// @Param   asOf query string false "RFC3339 cutoff; entries after it are excluded"
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /ledger/balance [get]
func (h *ledgerHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ref, ok := accountRefFromQuery(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be CUSTOMER or PARTY and partyID is required"})
		return
	}

	var asOf *time.Time
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "asOf must be an RFC3339 timestamp"})
			return
		}
		asOf = &parsed
	}

	balance, err := h.ledgerSvc.CalculateBalance(c.Request.Context(), userID, ref, asOf)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{Account: ref, Balance: balance})
}

// getStatement godoc
// @Summary Get an account statement
// @Description Returns the account's journal entries newest first along with the full derived balance
// @Tags ledger
// @Produce  json
// @Param   kind query string true "Account kind" Enums(CUSTOMER, PARTY)
// @Param   partyID query string true "Customer or party ID"
// @Param   limit query int false "Page size" default(25)
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.StatementResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /ledger/statement [get]
func (h *ledgerHandler) getStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ref, ok := accountRefFromQuery(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be CUSTOMER or PARTY and partyID is required"})
		return
	}

	limit, nextToken := paginationParams(c)
	statement, err := h.ledgerSvc.GetStatement(c.Request.Context(), userID, ref, limit, nextToken)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, statement)
}

// getSummary godoc
// @Summary Summarize receivables and payables
// @Description Totals the derived balances of every customer and party account
// @Tags ledger
// @Produce  json
// @Success 200 {object} dto.SummaryResponse
// @Security BearerAuth
// @Router /ledger/summary [get]
func (h *ledgerHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	summary, err := h.ledgerSvc.GetSummary(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// recordAdjustment godoc
// @Summary Append a correcting adjustment
// @Description Appends an ADJUSTMENT journal entry. Entries are never edited or deleted; mistakes are corrected by appending.
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   adjustment body dto.CreateAdjustmentRequest true "Adjustment details"
// @Success 201 {object} domain.LedgerEntry
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /ledger/adjustments [post]
func (h *ledgerHandler) recordAdjustment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordAdjustment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.ledgerSvc.RecordAdjustment(c.Request.Context(), userID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Adjustment recorded", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, entry)
}
