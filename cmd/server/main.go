package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/saivarshithnaidu/village-connect-backend/internal/config"
	"github.com/saivarshithnaidu/village-connect-backend/internal/database"
	"github.com/saivarshithnaidu/village-connect-backend/internal/handlers"
	"github.com/saivarshithnaidu/village-connect-backend/internal/middleware"
	"github.com/saivarshithnaidu/village-connect-backend/internal/models"
	"github.com/saivarshithnaidu/village-connect-backend/internal/repository"
	"github.com/saivarshithnaidu/village-connect-backend/internal/services"
	"github.com/saivarshithnaidu/village-connect-backend/internal/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	problemRepo := repository.NewProblemRepository(db)
	solutionRepo := repository.NewSolutionRepository(db)
	forumRepo := repository.NewForumRepository(db)

	// Initialize services
	tokenUtil := utils.NewTokenUtil(cfg.JWTSecret, cfg.JWTExpiryHours)
	authService := services.NewAuthService(userRepo)
	problemService := services.NewProblemService(problemRepo)
	solutionService := services.NewSolutionService(solutionRepo)
	forumService := services.NewForumService(forumRepo)
	adminService := services.NewAdminService(userRepo, problemRepo, solutionRepo, forumRepo)

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, tokenUtil)
	problemHandler := handlers.NewProblemHandler(problemService, aiService)
	solutionHandler := handlers.NewSolutionHandler(solutionService)
	forumHandler := handlers.NewForumHandler(forumService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Initialize Gin router
	r := gin.Default()

	// Cross-origin requests: explicit allow-list, credentials enabled
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	requireAuth := middleware.RequireAuth(tokenUtil)
	optionalAuth := middleware.OptionalAuth(tokenUtil)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// API routes
	api := r.Group("/api")
	{
		// Health check endpoint
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"message": "Village Connect API is running",
			})
		})

		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		// Problem routes
		problems := api.Group("/problems")
		{
			problems.GET("", optionalAuth, problemHandler.List)
			problems.GET("/:id", optionalAuth, problemHandler.Get)
			problems.POST("", requireAuth, problemHandler.Create)
			problems.PUT("/:id", requireAuth, problemHandler.Update)
			problems.POST("/:id/upvote", requireAuth, problemHandler.ToggleUpvote)
			problems.PUT("/:id/status", requireAuth, adminOnly, problemHandler.SetStatus)
			problems.PUT("/:id/verify", requireAuth, adminOnly, problemHandler.Verify)
			problems.GET("/assigned/me", requireAuth, middleware.RequireRole(models.RoleVillager), problemHandler.ListAssignedToMe)
			problems.PUT("/:id/complete", requireAuth, problemHandler.Complete)
			problems.PUT("/:id/verify-completion", requireAuth, adminOnly, problemHandler.VerifyCompletion)
			problems.DELETE("/:id", requireAuth, adminOnly, problemHandler.Delete)
			problems.POST("/suggest-triage", requireAuth, problemHandler.SuggestTriage)
		}

		// Solution routes
		solutions := api.Group("/solutions")
		{
			solutions.GET("", optionalAuth, solutionHandler.List)
			solutions.GET("/:id", optionalAuth, solutionHandler.Get)
			solutions.POST("", requireAuth, solutionHandler.Create)
			solutions.PUT("/:id", requireAuth, solutionHandler.Update)
			solutions.POST("/:id/upvote", requireAuth, solutionHandler.ToggleUpvote)
			solutions.POST("/:id/comments", requireAuth, solutionHandler.AddComment)
			solutions.PUT("/:id/status", requireAuth, adminOnly, solutionHandler.SetStatus)
			solutions.DELETE("/:id", requireAuth, solutionHandler.Delete)
		}

		// Forum routes
		forum := api.Group("/forum")
		{
			forum.GET("", optionalAuth, forumHandler.List)
			forum.GET("/:id", optionalAuth, forumHandler.Get)
			forum.POST("", requireAuth, forumHandler.Create)
			forum.PUT("/:id", requireAuth, forumHandler.Update)
			forum.POST("/:id/upvote", requireAuth, forumHandler.ToggleUpvote)
			forum.POST("/:id/comments", requireAuth, forumHandler.AddComment)
			forum.POST("/:id/comments/:commentId/upvote", requireAuth, forumHandler.ToggleCommentUpvote)
			forum.PUT("/:id/pin", requireAuth, adminOnly, forumHandler.TogglePin)
			forum.DELETE("/:id", requireAuth, forumHandler.Delete)
		}

		// Admin routes: the whole group is admin-only
		admin := api.Group("/admin")
		admin.Use(requireAuth, adminOnly)
		{
			admin.GET("/stats", adminHandler.GetStats)
			admin.GET("/users", adminHandler.ListUsers)
			admin.PUT("/users/:id/role", adminHandler.ChangeRole)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
			admin.GET("/problems", adminHandler.ListProblems)
			admin.GET("/solutions", adminHandler.ListSolutions)
			admin.PUT("/problems/:id/assign", adminHandler.AssignProblem)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
