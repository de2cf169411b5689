package routes

import (
	"github.com/confreview/backend/internal/config"
	"github.com/confreview/backend/internal/controllers"
	"github.com/confreview/backend/internal/middleware"
	"github.com/confreview/backend/internal/repository"
	"github.com/confreview/backend/internal/roles"
	"github.com/confreview/backend/internal/services"
	"github.com/confreview/backend/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Dependencies are the long-lived collaborators owned by the caller. Redis
// may be nil, which disables rate limiting.
type Dependencies struct {
	Store     *repository.Store
	Tokens    *services.TokenManager
	Files     *storage.LocalStorage
	Jobs      *services.JobService
	Reminders *services.ReminderService
	LLM       *services.LLMService
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
	Debug     bool
}

const (
	author      = string(roles.Author)
	reviewer    = string(roles.Reviewer)
	coordinator = string(roles.Coordinator)
	admin       = string(roles.Admin)
)

// SetupRoutes configures all application routes
func SetupRoutes(r *gin.Engine, deps Dependencies) {
	// Tracks may contain an encoded slash.
	r.UseRawPath = true
	r.UnescapePathValues = true

	// Initialize services
	stats := services.NewStatsService(deps.Store)
	eventService := services.NewEventService(deps.Store, deps.Jobs)
	paperService := services.NewPaperService(deps.Store)
	assignmentService := services.NewAssignmentService(deps.Store, stats)
	reviewService := services.NewReviewService(deps.Store)
	userService := services.NewUserService(deps.Store)
	authService := services.NewAuthService(deps.Store, deps.Tokens)

	// Initialize controllers
	healthController := controllers.NewHealthController(deps.Store)
	authController := controllers.NewAuthController(authService)
	userController := controllers.NewUserController(userService)
	eventController := controllers.NewEventController(eventService, paperService, assignmentService, reviewService, stats, deps.Files)
	paperController := controllers.NewPaperController(eventService, paperService, reviewService, deps.Files)
	adminController := controllers.NewAdminController(userService, paperService)
	jobController := controllers.NewJobController(deps.Jobs)

	authenticate := middleware.Authenticate(deps.Tokens)
	requireRoles := middleware.RequireRoles

	r.GET("/health", healthController.Health)

	// API routes
	api := r.Group("/api/v1")
	{
		api.GET("/health", healthController.Health)

		// Auth routes
		auth := api.Group("/auth")
		auth.Use(middleware.RateLimit(deps.RateLimit, deps.Redis))
		{
			auth.POST("/register", authController.Register)
			auth.POST("/login", authController.Login)
			auth.POST("/refresh", authController.Refresh)
		}

		users := api.Group("/users", authenticate)
		{
			users.GET("/me", userController.Me)
		}

		events := api.Group("/events")
		{
			events.GET("", eventController.List)
			events.POST("", authenticate, requireRoles(coordinator), eventController.Create)
			events.DELETE("/:eventId", authenticate, requireRoles(coordinator), eventController.Delete)

			events.POST("/:eventId/submit", authenticate, requireRoles(author), eventController.Submit)
			events.GET("/:eventId/my-papers", authenticate, requireRoles(author), eventController.MyPapers)

			events.POST("/:eventId/assign", authenticate, requireRoles(coordinator), eventController.Assign)
			events.GET("/:eventId/assignments", authenticate, requireRoles(coordinator), eventController.Assignments)
			events.GET("/:eventId/assigned", authenticate, requireRoles(reviewer), eventController.Assigned)

			events.POST("/:eventId/reviews/:paperId", authenticate, requireRoles(reviewer), eventController.SubmitReview)
			events.PATCH("/:eventId/papers/:paperId/decision", authenticate, requireRoles(reviewer, coordinator), eventController.Decide)

			events.GET("/:eventId/accepted", authenticate, requireRoles(coordinator), eventController.Accepted)
			events.GET("/:eventId/accepted.xlsx", authenticate, requireRoles(coordinator), eventController.AcceptedWorkbook)
			events.GET("/:eventId/reviewers/pending", authenticate, requireRoles(coordinator), eventController.PendingReviewers)
			events.GET("/:eventId/stats", authenticate, requireRoles(coordinator), eventController.Stats)
		}

		papers := api.Group("/papers", authenticate)
		{
			papers.POST("/upload", requireRoles(author), paperController.Upload)
			papers.GET("/my", requireRoles(author), paperController.My)
			papers.GET("/track/:track", requireRoles(reviewer), paperController.ByTrack)
			papers.GET("/:paperId/reviews", paperController.Reviews)
		}

		// The admin guard admits coordinators through alias expansion.
		adminGroup := api.Group("/admin", authenticate, requireRoles(admin))
		{
			adminGroup.GET("/users", adminController.Users)
			adminGroup.GET("/papers", adminController.Papers)
			adminGroup.PATCH("/papers/:id/status", adminController.SetStatus)
		}

		jobs := api.Group("/jobs", authenticate, requireRoles(coordinator))
		{
			jobs.GET("", jobController.ListForPaper)
			jobs.GET("/:jobId", jobController.Get)
		}

		if deps.Debug {
			debugController := controllers.NewDebugController(eventService, assignmentService, stats, deps.Reminders, deps.LLM)

			debug := api.Group("/debug", authenticate)
			{
				debug.GET("/whoami", debugController.WhoAmI)
				debug.GET("/assignments", requireRoles(coordinator), debugController.Assignments)
				debug.POST("/mail/reminders", requireRoles(coordinator), debugController.SendReminders)
				debug.POST("/mail/report", requireRoles(coordinator), debugController.SendReport)
				debug.GET("/accepted/:eventId", requireRoles(coordinator), debugController.AcceptedWorkbook)
				debug.GET("/llm/calls", requireRoles(coordinator), debugController.LLMCalls)
				debug.DELETE("/llm/calls", requireRoles(coordinator), debugController.ClearLLMCalls)
				debug.GET("/llm/health", requireRoles(coordinator), debugController.LLMHealth)
			}
		}
	}
}
