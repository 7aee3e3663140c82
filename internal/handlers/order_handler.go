package handlers

import (
	"net/http"

	"github.com/ArowuTest/lotto-backend/internal/models"
	"github.com/ArowuTest/lotto-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// OrderHandler handles purchase and collection requests
type OrderHandler struct {
	orderService      services.OrderService
	settlementService services.SettlementService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService services.OrderService, settlementService services.SettlementService) *OrderHandler {
	return &OrderHandler{
		orderService:      orderService,
		settlementService: settlementService,
	}
}

// Purchase handles POST /orders
func (h *OrderHandler) Purchase(c *gin.Context) {
	var req models.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.orderService.Purchase(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Collect handles POST /orders/:id/collect
func (h *OrderHandler) Collect(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	result, err := h.settlementService.Collect(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
