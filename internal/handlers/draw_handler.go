package handlers

import (
	"net/http"

	"github.com/ArowuTest/lotto-backend/internal/models"
	"github.com/ArowuTest/lotto-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// DrawHandler handles draw-related HTTP requests
type DrawHandler struct {
	drawService       services.DrawService
	settlementService services.SettlementService
}

// NewDrawHandler creates a new DrawHandler
func NewDrawHandler(drawService services.DrawService, settlementService services.SettlementService) *DrawHandler {
	return &DrawHandler{
		drawService:       drawService,
		settlementService: settlementService,
	}
}

// GenerateDraw handles POST /admin/draws
func (h *DrawHandler) GenerateDraw(c *gin.Context) {
	var req models.GenerateDrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	draw, err := h.drawService.GenerateDraw(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, draw)
}

// ListDraws handles GET /admin/draws
func (h *DrawHandler) ListDraws(c *gin.Context) {
	draws, err := h.drawService.ListDraws(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": draws, "count": len(draws)})
}

// GetDrawByID handles GET /admin/draws/:id
func (h *DrawHandler) GetDrawByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	draw, err := h.drawService.GetDraw(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draw)
}

// ListTickets handles GET /draws/:id/tickets?status=&page=&limit=
func (h *DrawHandler) ListTickets(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", 20)
	if !ok {
		return
	}
	status := models.TicketStatus(c.Query("status"))

	tickets, total, err := h.drawService.ListTickets(c.Request.Context(), id, status, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  tickets,
		"page":  page,
		"limit": limit,
		"total": total,
	})
}

// RandomTicket handles GET /admin/draws/:id/random
func (h *DrawHandler) RandomTicket(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ticket, err := h.drawService.RandomTicket(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// DeclareReward handles POST /admin/draws/:id/rewards
func (h *DrawHandler) DeclareReward(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.DeclareRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reward, err := h.drawService.DeclareReward(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reward)
}

// ListRewards handles GET /draws/:id/rewards
func (h *DrawHandler) ListRewards(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	rewards, err := h.drawService.ListRewards(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rewards, "count": len(rewards)})
}

// RewardSuffixes handles GET /rewards/suffixes?rank=&length=
func (h *DrawHandler) RewardSuffixes(c *gin.Context) {
	rank, ok := queryInt(c, "rank", models.ConsolationRank)
	if !ok {
		return
	}
	length, ok := queryInt(c, "length", 0)
	if !ok {
		return
	}
	suffixes, err := h.drawService.RewardSuffixes(c.Request.Context(), rank, length)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": suffixes, "count": len(suffixes)})
}

// LockDraw handles POST /admin/draws/:id/lock
func (h *DrawHandler) LockDraw(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	draw, err := h.drawService.LockDraw(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draw)
}

// CloseDraw handles POST /admin/draws/:id/close
func (h *DrawHandler) CloseDraw(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	result, err := h.settlementService.CloseDraw(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Reset handles DELETE /admin/reset
func (h *DrawHandler) Reset(c *gin.Context) {
	if err := h.drawService.Reset(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Draw data reset"})
}
