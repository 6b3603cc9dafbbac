package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/clearcove/task-tracker-api/internal/config"
	"github.com/clearcove/task-tracker-api/internal/database"
	"github.com/clearcove/task-tracker-api/internal/handlers"
	"github.com/clearcove/task-tracker-api/internal/middleware"
	"github.com/clearcove/task-tracker-api/internal/repository"
	"github.com/clearcove/task-tracker-api/internal/services"
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

	db := database.GetDB()

	// Initialize repositories
	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, cfg.AdminInviteToken)
	taskService := services.NewTaskService(taskRepo)
	dashboardService := services.NewDashboardService(taskRepo, taskService)
	orgService := services.NewOrganizationService(orgRepo, userRepo)
	userService := services.NewUserService(userRepo, taskService)
	reportService := services.NewReportService(taskRepo, userRepo, taskService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecret)
	taskHandler := handlers.NewTaskHandler(taskService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	orgHandler := handlers.NewOrganizationHandler(orgService)
	userHandler := handlers.NewUserHandler(userService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Initialize Gin router
	r := gin.Default()

	requireAuth := middleware.RequireAuth(cfg.JWTSecret, userRepo)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task Tracker API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/profile", requireAuth, authHandler.GetProfile)
			auth.PUT("/profile", requireAuth, authHandler.UpdateProfile)
		}

		// Organization routes (protected)
		org := api.Group("/org")
		org.Use(requireAuth)
		{
			org.POST("/create-org", orgHandler.CreateOrganization)
			org.POST("/join", orgHandler.JoinOrganization)
			org.GET("/org-details", orgHandler.GetOrganization)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", middleware.RequireOrgAdmin(), taskHandler.CreateTask)
			tasks.GET("/dashboard-data", dashboardHandler.GetDashboard)
			tasks.GET("/user-dashboard-data", dashboardHandler.GetUserDashboard)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.PUT("/:id/status", taskHandler.UpdateStatus)
			tasks.PUT("/:id/todo", taskHandler.UpdateChecklist)
		}

		// User administration routes (protected)
		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", middleware.RequireSuperAdmin(), userHandler.ListUsers)
			users.GET("/org-users", middleware.RequireOrgAdmin(), userHandler.ListOrganizationMembers)
			users.GET("/:id", userHandler.GetUser)
			users.DELETE("/:id", middleware.RequireSuperAdmin(), userHandler.DeleteUser)
		}

		// Report routes (protected, admin rank)
		reports := api.Group("/reports")
		reports.Use(requireAuth, middleware.RequireAdminRank())
		{
			reports.GET("/export/tasks", reportHandler.ExportTasks)
			reports.GET("/export/users", reportHandler.ExportUsers)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
