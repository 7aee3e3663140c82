package routes

import (
	"time"

	"github.com/ArowuTest/lotto-backend/internal/config"
	"github.com/ArowuTest/lotto-backend/internal/handlers"
	"github.com/ArowuTest/lotto-backend/internal/metrics"
	"github.com/ArowuTest/lotto-backend/internal/middleware"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// HandlerDependencies groups the handlers wired into the router
type HandlerDependencies struct {
	HealthHandler     *handlers.HealthHandler
	AccountHandler    *handlers.AccountHandler
	DrawHandler       *handlers.DrawHandler
	OrderHandler      *handlers.OrderHandler
	SettlementHandler *handlers.SettlementHandler
}

// SetupRouter sets up the router. The returned stop function ends background
// housekeeping started for the middleware.
func SetupRouter(cfg *config.Config, deps HandlerDependencies) (*gin.Engine, func()) {
	router := gin.New()

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	stop := make(chan struct{})
	limiter.StartCleanup(time.Minute, stop)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Public routes
	public := router.Group("/api/v1")
	public.Use(limiter.Handler())
	{
		public.GET("/health", deps.HealthHandler.Health)

		accounts := public.Group("/accounts")
		{
			accounts.POST("", deps.AccountHandler.Register)
			accounts.POST("/login", deps.AccountHandler.Login)
			accounts.GET("/:id", deps.AccountHandler.GetProfile)
			accounts.PUT("/:id/wallet", deps.AccountHandler.UpdateWallet)
			accounts.GET("/:id/tickets", deps.AccountHandler.ActiveTickets)
			accounts.GET("/:id/winnings", deps.AccountHandler.Winnings)
		}

		draws := public.Group("/draws")
		{
			draws.GET("/:id/tickets", deps.DrawHandler.ListTickets)
			draws.GET("/:id/rewards", deps.DrawHandler.ListRewards)
		}

		public.GET("/rewards/suffixes", deps.DrawHandler.RewardSuffixes)

		orders := public.Group("/orders")
		{
			orders.POST("", deps.OrderHandler.Purchase)
			orders.GET("/:id", deps.OrderHandler.GetOrder)
			orders.POST("/:id/collect", deps.OrderHandler.Collect)
		}
	}

	// Admin routes
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.AdminAuthMiddleware(cfg.JWT.Secret))
	{
		draws := admin.Group("/draws")
		{
			draws.POST("", deps.DrawHandler.GenerateDraw)
			draws.GET("", deps.DrawHandler.ListDraws)
			draws.GET("/:id", deps.DrawHandler.GetDrawByID)
			draws.GET("/:id/random", deps.DrawHandler.RandomTicket)
			draws.POST("/:id/lock", deps.DrawHandler.LockDraw)
			draws.POST("/:id/rewards", deps.DrawHandler.DeclareReward)
			draws.POST("/:id/close", deps.DrawHandler.CloseDraw)
		}

		settlement := admin.Group("/settlement")
		{
			settlement.GET("/pending", deps.SettlementHandler.PendingMatches)
			settlement.POST("/match", deps.SettlementHandler.Match)
			settlement.POST("/reconcile", deps.SettlementHandler.Reconcile)
			settlement.POST("/tickets/:ticketId/redeem", deps.SettlementHandler.RedeemTicket)
		}

		admin.DELETE("/reset", deps.DrawHandler.Reset)
	}

	return router, func() { close(stop) }
}
