package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Lynndabel/Bloconnect/internal/config"
	"github.com/Lynndabel/Bloconnect/internal/http/handlers"
	"github.com/Lynndabel/Bloconnect/internal/http/middleware"
	"github.com/Lynndabel/Bloconnect/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	jobHandler *handlers.JobHandler,
	proposalHandler *handlers.ProposalHandler,
	milestoneHandler *handlers.MilestoneHandler,
	disputeHandler *handlers.DisputeHandler,
	adminHandler *handlers.AdminHandler,
	statsHandler *handlers.StatsHandler,
	walletHandler *handlers.WalletHandler,
	journalHandler *handlers.JournalHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/identity", authHandler.CreateIdentity)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/arbitrator", authHandler.ArbitratorLogin)
	}

	// Публичные маршруты: чтение состояния леджера доступно всем.
	api.GET("/ws", wsHandler.Handle)

	api.GET("/jobs", jobHandler.ListActiveJobs)
	api.GET("/jobs/batch", jobHandler.BatchJobs)
	api.GET("/jobs/:id", middleware.IDValidator("id"), jobHandler.GetJob)
	api.GET("/jobs/:id/proposals", middleware.IDValidator("id"), jobHandler.GetJobProposals)
	api.GET("/jobs/:id/milestones", middleware.IDValidator("id"), jobHandler.GetJobMilestones)
	api.GET("/proposals/:id", middleware.IDValidator("id"), proposalHandler.GetProposal)
	api.GET("/milestones/:id", middleware.IDValidator("id"), milestoneHandler.GetMilestone)
	api.GET("/disputes/:id", middleware.IDValidator("id"), disputeHandler.GetDispute)

	api.GET("/users/:id", profileHandler.GetUser)
	api.GET("/users/:id/registered", profileHandler.IsRegistered)
	api.GET("/users/:id/stats", profileHandler.GetUserStats)
	api.GET("/users/:id/jobs", profileHandler.GetUserJobs)
	api.GET("/users/:id/proposals", profileHandler.GetUserProposals)

	api.GET("/stats", statsHandler.PlatformStats)
	api.GET("/stats/counters", statsHandler.Counters)
	api.GET("/stats/escrow", statsHandler.Escrow)
	api.GET("/stats/config", statsHandler.Config)

	// Защищённые маршруты: любая мутация требует токен.
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.POST("/users", profileHandler.Register)
		protected.PUT("/users/me", profileHandler.UpdateProfile)

		protected.POST("/jobs", jobHandler.PostJob)
		protected.POST("/jobs/:id/cancel", middleware.IDValidator("id"), jobHandler.CancelJob)
		protected.POST("/jobs/:id/complete", middleware.IDValidator("id"), jobHandler.CompleteJob)
		protected.POST("/jobs/:id/proposals", middleware.IDValidator("id"), proposalHandler.SubmitProposal)
		protected.POST("/jobs/:id/milestones", middleware.IDValidator("id"), milestoneHandler.CreateMilestone)

		protected.POST("/proposals/:id/accept", middleware.IDValidator("id"), proposalHandler.AcceptProposal)
		protected.POST("/proposals/:id/reject", middleware.IDValidator("id"), proposalHandler.RejectProposal)
		protected.POST("/proposals/:id/withdraw", middleware.IDValidator("id"), proposalHandler.WithdrawProposal)

		protected.POST("/milestones/:id/start", middleware.IDValidator("id"), milestoneHandler.StartMilestone)
		protected.POST("/milestones/:id/submit", middleware.IDValidator("id"), milestoneHandler.SubmitMilestone)
		protected.POST("/milestones/:id/approve", middleware.IDValidator("id"), milestoneHandler.ApproveMilestone)
		protected.POST("/milestones/:id/dispute", middleware.IDValidator("id"), disputeHandler.RaiseDispute)

		protected.POST("/wallet/deposit", walletHandler.Deposit)
		protected.GET("/wallet/balance", walletHandler.Balance)

		if journalHandler != nil {
			protected.GET("/events", journalHandler.ListMyEvents)
		}
	}

	// Маршруты арбитра.
	admin := api.Group("/")
	admin.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireArbitrator())
	{
		admin.POST("/disputes/:id/resolve", middleware.IDValidator("id"), disputeHandler.ResolveDispute)
		admin.PUT("/admin/fee", adminHandler.UpdateFee)
		admin.POST("/admin/pause", adminHandler.TogglePause)
		admin.POST("/admin/withdraw", adminHandler.EmergencyWithdraw)
	}

	return r
}
