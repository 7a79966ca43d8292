package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/MrSirThe1st/blob-app-sub001/api"
	"github.com/MrSirThe1st/blob-app-sub001/config"
	"github.com/MrSirThe1st/blob-app-sub001/database"
	"github.com/MrSirThe1st/blob-app-sub001/middleware"
	"github.com/MrSirThe1st/blob-app-sub001/models"
	"github.com/MrSirThe1st/blob-app-sub001/repository"
	"github.com/MrSirThe1st/blob-app-sub001/services"

	"gorm.io/gorm"
)

func main() {
	// Load application configuration
	config.LoadConfig()

	// Initialize database connection
	db, err := database.Init()
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to initialize database: %v", err)
	}

	// Auto-migrate database schema
	runMigrations(db)

	// Initialize Repositories
	taskRepo := repository.NewTaskRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	xpRepo := repository.NewXPRepository(db)
	prefRepo := repository.NewPreferenceRepository(db)
	log.Println("INFO: [Main] Repositories initialized.")

	// Initialize Services
	reasoning := services.NewReasoningClient()
	gatherer := services.NewConstraintGatherer(taskRepo, prefRepo)
	analyzer := services.NewEnergyAnalyzer()
	scheduleService := services.NewScheduleService(gatherer, analyzer, reasoning, taskRepo, scheduleRepo)
	generationService := services.NewTaskGenerationService(reasoning, taskRepo)
	lifecycleService := services.NewTaskLifecycleService(taskRepo, xpRepo)
	log.Println("INFO: [Main] Services initialized.")

	// Initialize API Handler with all dependencies
	apiHandler := api.NewAPIHandler(
		scheduleService,
		generationService,
		lifecycleService,
		taskRepo,
		xpRepo,
		prefRepo,
	)
	log.Println("INFO: [Main] API Handler initialized.")

	// Create Gin engine
	r := gin.Default()
	r.SetTrustedProxies(nil)

	// Register middlewares
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Cors())
	log.Println("INFO: [Main] Middlewares registered.")

	// Register routes
	registerRoutes(r, apiHandler)
	log.Println("INFO: [Main] Routes registered.")

	// Start the server
	serverPort := ":" + config.AppConfig.Server.Port
	if config.AppConfig.Server.Port == "" {
		log.Println("WARN: [Main] Server port not configured, using default :8080.")
		serverPort = ":8080"
	}
	log.Printf("INFO: [Main] Starting server on port %s", serverPort)
	if err := r.Run(serverPort); err != nil {
		log.Fatalf("FATAL: [Main] Server failed to start: %v", err)
	}
}

func runMigrations(db *gorm.DB) {
	log.Println("INFO: [Main] Running database migrations...")
	err := db.AutoMigrate(
		&models.Task{},
		&models.Schedule{},
		&models.UserXP{},
		&models.UserPreferences{},
	)
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to auto-migrate database: %v", err)
	}
	log.Println("INFO: [Main] Database migration completed.")
}

func registerRoutes(r *gin.Engine, handler *api.APIHandler) {
	apiGroup := r.Group("/api")
	{
		scheduleGroup := apiGroup.Group("/schedule")
		{
			scheduleGroup.POST("/generate", handler.GenerateScheduleHandler)
			scheduleGroup.GET("/:userID/:date", handler.GetScheduleHandler)
		}

		taskGroup := apiGroup.Group("/tasks")
		{
			taskGroup.POST("/generate/goal", handler.GenerateGoalTasksHandler)
			taskGroup.POST("/generate/onboarding", handler.GenerateOnboardingTasksHandler)
			taskGroup.GET("/user/:userID", handler.GetTasksForUserHandler)
			taskGroup.POST("/:taskID/start", handler.StartTaskHandler)
			taskGroup.POST("/:taskID/complete", handler.CompleteTaskHandler)
			taskGroup.POST("/:taskID/reschedule", handler.RescheduleTaskHandler)
		}

		userGroup := apiGroup.Group("/users")
		{
			userGroup.GET("/:userID/xp", handler.GetXPHandler)
			userGroup.GET("/:userID/preferences", handler.GetPreferencesHandler)
			userGroup.PUT("/:userID/preferences", handler.PutPreferencesHandler)
		}
	}
}
