package handlers

import (
	"net/http"

	"github.com/ArowuTest/lotto-backend/internal/models"
	"github.com/ArowuTest/lotto-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// SettlementHandler handles the administrative settlement routes
type SettlementHandler struct {
	settlementService services.SettlementService
}

// NewSettlementHandler creates a new SettlementHandler
func NewSettlementHandler(settlementService services.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementService: settlementService}
}

// PendingMatches handles GET /admin/settlement/pending?drawId=
func (h *SettlementHandler) PendingMatches(c *gin.Context) {
	drawID, ok := queryInt(c, "drawId", 0)
	if !ok {
		return
	}
	candidates, err := h.settlementService.PendingMatches(c.Request.Context(), int64(drawID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": candidates, "count": len(candidates)})
}

// Match handles POST /admin/settlement/match
func (h *SettlementHandler) Match(c *gin.Context) {
	var req models.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.settlementService.MatchTicket(c.Request.Context(), req.TicketID, req.Rank)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Reconcile handles POST /admin/settlement/reconcile
func (h *SettlementHandler) Reconcile(c *gin.Context) {
	var req models.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.settlementService.Reconcile(c.Request.Context(), req.DrawID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RedeemTicket handles POST /admin/settlement/tickets/:ticketId/redeem
func (h *SettlementHandler) RedeemTicket(c *gin.Context) {
	ticketID, ok := paramID(c, "ticketId")
	if !ok {
		return
	}
	result, err := h.settlementService.RedeemTicket(c.Request.Context(), ticketID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
