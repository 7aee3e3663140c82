package handlers

import (
	"net/http"

	"github.com/ArowuTest/lotto-backend/internal/models"
	"github.com/ArowuTest/lotto-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	accountService    services.AccountService
	settlementService services.SettlementService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService services.AccountService, settlementService services.SettlementService) *AccountHandler {
	return &AccountHandler{
		accountService:    accountService,
		settlementService: settlementService,
	}
}

// Register handles POST /accounts
func (h *AccountHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	account, err := h.accountService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

// Login handles POST /accounts/login
func (h *AccountHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	account, err := h.accountService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// GetProfile handles GET /accounts/:id
func (h *AccountHandler) GetProfile(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	account, err := h.accountService.GetProfile(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// UpdateWallet handles PUT /accounts/:id/wallet
func (h *AccountHandler) UpdateWallet(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.WalletUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	account, err := h.accountService.AdjustWallet(c.Request.Context(), id, req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// ActiveTickets handles GET /accounts/:id/tickets
func (h *AccountHandler) ActiveTickets(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	entries, err := h.settlementService.ActiveTickets(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries, "count": len(entries)})
}

// Winnings handles GET /accounts/:id/winnings?state=pending|history|all
func (h *AccountHandler) Winnings(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	filter := models.WinningsFilter(c.DefaultQuery("state", string(models.WinningsAll)))
	entries, err := h.settlementService.Winnings(c.Request.Context(), id, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  entries,
		"count": len(entries),
		"total": models.SumPayouts(entries),
	})
}
