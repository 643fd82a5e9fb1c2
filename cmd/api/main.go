package main

import (
	"log"
	"time"

	_ "backend/api/swagger" // swagger docs
	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/mailer"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/upload"
	"backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Real Estate Admin API
// @version         1.0
// @description     Administration backend for a rental and sale listings platform.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	cfg := config.Load()

	db, err := database.NewConnection(cfg.DB.DSN())
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	if cfg.Seed {
		if err := database.Seed(db); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
	}

	wsHub := websocket.NewHub()
	go wsHub.Run()

	mail := mailer.New(cfg.SMTP)
	uploads := upload.NewStore(cfg.Upload)
	auth := middleware.NewAuth(db, cfg.JWT)
	loginLimit := middleware.NewInMemoryRateLimiter(10, time.Minute)

	// Repositories
	txManager := repository.NewTransactionManager(db)
	adminRepo := repository.NewAdminRepository(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	taxonomyRepo := repository.NewTaxonomyRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// Services
	activity := service.NewActivityRecorder(activityRepo, wsHub)
	authService := service.NewAuthService(adminRepo, userRepo, mail, cfg.JWT)
	adminService := service.NewAdminService(adminRepo, roleRepo, txManager)
	userService := service.NewUserService(userRepo, mail, activity)
	propertyService := service.NewPropertyService(propertyRepo, taxonomyRepo, userRepo, uploads, mail, activity, txManager)
	taxonomyService := service.NewTaxonomyService(taxonomyRepo)
	staffService := service.NewStaffService(staffRepo, roleRepo, propertyRepo, activity)
	subscriptionService := service.NewSubscriptionService(subRepo, userRepo, activity)
	paymentService := service.NewPaymentService(paymentRepo, userRepo, subRepo, cfg.Gateway, activity)
	dashboardService := service.NewDashboardService(userRepo, propertyRepo, staffRepo, subRepo, paymentRepo, activity)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, auth, loginLimit, cfg.Server.FrontendURL)
	adminHandler := handler.NewAdminHandler(adminService, auth)
	userHandler := handler.NewUserHandler(userService, auth)
	propertyHandler := handler.NewPropertyHandler(propertyService, auth)
	taxonomyHandler := handler.NewTaxonomyHandler(taxonomyService, auth)
	staffHandler := handler.NewStaffHandler(staffService, auth)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService, auth)
	paymentHandler := handler.NewPaymentHandler(paymentService, auth)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, auth, wsHub, []byte(cfg.JWT.Secret))

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.FrontendURL, "http://127.0.0.1:5173"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Uploaded files are served straight from disk.
	router.Static("/uploads", cfg.Upload.Dir)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// Register API Routes
	root := router.Group("")
	authHandler.RegisterRoutes(root)
	adminHandler.RegisterRoutes(root)
	userHandler.RegisterRoutes(root)
	propertyHandler.RegisterRoutes(root)
	taxonomyHandler.RegisterRoutes(root)
	staffHandler.RegisterRoutes(root)
	subscriptionHandler.RegisterRoutes(root)
	paymentHandler.RegisterRoutes(root)
	dashboardHandler.RegisterRoutes(root)

	log.Printf("Server listening on :%s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
