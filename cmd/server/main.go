package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yukikurage/freelance-marketplace-api/internal/board"
	"github.com/yukikurage/freelance-marketplace-api/internal/config"
	"github.com/yukikurage/freelance-marketplace-api/internal/handlers"
	"github.com/yukikurage/freelance-marketplace-api/internal/logger"
	"github.com/yukikurage/freelance-marketplace-api/internal/middleware"
	"github.com/yukikurage/freelance-marketplace-api/internal/poller"
	"github.com/yukikurage/freelance-marketplace-api/internal/repository"
	"github.com/yukikurage/freelance-marketplace-api/internal/services"
	"github.com/yukikurage/freelance-marketplace-api/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	zlog := logger.New(cfg.GinMode)
	defer zlog.Sync()

	// Open the JSON data directory
	st, err := store.New(cfg.DataDir, zlog)
	if err != nil {
		log.Fatalf("Failed to open data directory: %v", err)
	}

	// Repositories over the flat-file collections
	userRepo := repository.NewUserRepository(st)
	orgRepo := repository.NewOrganizationRepository(st)
	projectRepo := repository.NewProjectRepository(st)
	taskRepo := repository.NewTaskRepository(st)
	proposalRepo := repository.NewProposalRepository(st)
	invoiceRepo := repository.NewInvoiceRepository(st)

	// Services
	tracker := board.NewReviewTracker(nil)
	authService := services.NewAuthService(userRepo, orgRepo)
	orgService := services.NewOrganizationService(orgRepo)
	projectService := services.NewProjectService(projectRepo, taskRepo, orgService)
	taskService := services.NewTaskService(taskRepo, projectRepo, tracker)
	boardService := services.NewBoardService(projectRepo, taskRepo, orgService, tracker, nil)
	invoiceService := services.NewInvoiceService(invoiceRepo, proposalRepo, orgService, nil)
	proposalService := services.NewProposalService(proposalRepo, orgService, invoiceService, nil)

	// Auto-movement coordinator: per-column refresh loops plus the
	// project completion sweep.
	coordinator := poller.New(poller.Config{
		Log:      zlog,
		Snapshot: boardService.Snapshot,
		Sweep:    projectService.SweepCompletion,
	})
	coordinator.Subscribe(func(column board.Column, cards []board.Card) {
		zlog.Info("column membership changed",
			zap.String("column", string(column)),
			zap.Int("cards", len(cards)),
		)
	})
	coordinator.Start()
	defer coordinator.Stop()

	// Initialize Gin router
	r := gin.Default()
	r.Use(middleware.Metrics())

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	sessionStore, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions("marketplace_session", sessionStore))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	orgHandler := handlers.NewOrganizationHandler(orgService)
	projectHandler := handlers.NewProjectHandler(projectService, coordinator)
	taskHandler := handlers.NewTaskHandler(taskService, projectService, coordinator)
	boardHandler := handlers.NewBoardHandler(boardService)
	proposalHandler := handlers.NewProposalHandler(proposalService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Freelance Marketplace API is running",
		})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Organization routes (protected)
		orgs := api.Group("/organizations")
		orgs.Use(middleware.RequireAuth())
		{
			orgs.POST("", orgHandler.CreateOrganization)
			orgs.GET("", orgHandler.ListOrganizations)
			orgs.POST("/join", orgHandler.JoinOrganization)
			orgs.GET("/:id", orgHandler.GetOrganization)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", middleware.RequireProjectAccess(projectService), projectHandler.GetProject)
			projects.POST("/:id/pause", middleware.RequireProjectAccess(projectService), projectHandler.PauseProject)
			projects.POST("/:id/resume", middleware.RequireProjectAccess(projectService), projectHandler.ResumeProject)

			// Task lifecycle, scoped to a project
			tasks := projects.Group("/:id/tasks")
			tasks.Use(middleware.RequireProjectAccess(projectService))
			{
				tasks.POST("", taskHandler.CreateTask)
				tasks.PATCH("/:taskId", taskHandler.UpdateTask)
				tasks.POST("/:taskId/submit", taskHandler.SubmitTask)
				tasks.POST("/:taskId/approve", taskHandler.ApproveTask)
				tasks.POST("/:taskId/reject", taskHandler.RejectTask)
				tasks.POST("/:taskId/push-back", taskHandler.PushBackTask)
			}
		}

		// Flat task-group listing for the board client
		api.GET("/project-tasks", middleware.RequireAuth(), taskHandler.ListProjectTasks)

		// Board columns (protected)
		api.GET("/board/:column", middleware.RequireAuth(), boardHandler.GetColumn)

		// Proposal routes (protected)
		proposals := api.Group("/proposals")
		proposals.Use(middleware.RequireAuth())
		{
			proposals.GET("", proposalHandler.ListProposals)
			proposals.POST("/drafts", proposalHandler.CreateDraft)
			proposals.PUT("/drafts/:id", proposalHandler.SaveDraft)
			proposals.GET("/:id", proposalHandler.GetProposal)
			proposals.POST("/:id/milestones", proposalHandler.AddMilestone)
			proposals.DELETE("/:id/milestones/:milestoneId", proposalHandler.RemoveMilestone)
			proposals.POST("/:id/send", proposalHandler.SendProposal)
			proposals.POST("/:id/accept", proposalHandler.AcceptProposal)
			proposals.POST("/:id/reject", proposalHandler.RejectProposal)
		}

		// Invoice routes (protected)
		invoices := api.Group("/invoices")
		invoices.Use(middleware.RequireAuth())
		{
			invoices.GET("", invoiceHandler.ListInvoices)
			invoices.POST("/generate", invoiceHandler.GenerateInvoice)
			invoices.POST("/:id/pay", invoiceHandler.PayInvoice)
		}
	}

	// Start server
	zlog.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
