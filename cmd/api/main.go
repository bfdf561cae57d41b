package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/agroscan-api/internal/config"
	"github.com/yourusername/agroscan-api/internal/handler"
	"github.com/yourusername/agroscan-api/internal/middleware"
	pgRepo "github.com/yourusername/agroscan-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/agroscan-api/internal/repository/redis"
	"github.com/yourusername/agroscan-api/internal/service"
	"github.com/yourusername/agroscan-api/pkg/auth"
	"github.com/yourusername/agroscan-api/pkg/database"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Loading configuration from %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	redisClient, err := database.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Repositories
	accountRepo := pgRepo.NewAccountRepo(db)
	farmRepo := pgRepo.NewFarmRepo(db)
	farmImageRepo := pgRepo.NewFarmImageRepo(db)
	reportRepo := pgRepo.NewReportRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpirationHrs)*time.Hour)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Code delivery: real Resend client in production, log-only otherwise.
	var dispatcher service.NotificationDispatcher
	if cfg.Email.Enabled {
		resendDispatcher, errDisp := service.NewResendDispatcher(cfg.Email.APIKey, cfg.Email.From, cfg.Auth.CodeTTL())
		if errDisp != nil {
			log.Printf("Failed to initialize Resend dispatcher: %v", errDisp)
			os.Exit(1)
		}
		dispatcher = resendDispatcher
		log.Println("Email delivery enabled (Resend)")
	} else {
		dispatcher = &service.NoopDispatcher{}
		log.Println("Email delivery disabled, codes will only be logged")
	}

	// Services
	registrationService, err := service.NewRegistrationService(accountRepo, dispatcher, cfg.Auth.CodeTTL())
	if err != nil {
		log.Printf("Failed to initialize RegistrationService: %v", err)
		os.Exit(1)
	}
	recoveryService, err := service.NewRecoveryService(accountRepo, dispatcher, cfg.Auth.CodeTTL())
	if err != nil {
		log.Printf("Failed to initialize RecoveryService: %v", err)
		os.Exit(1)
	}
	authService, err := service.NewAuthService(accountRepo, jwtService)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	farmService, err := service.NewFarmService(farmRepo, farmImageRepo)
	if err != nil {
		log.Printf("Failed to initialize FarmService: %v", err)
		os.Exit(1)
	}
	reportService, err := service.NewReportService(reportRepo, farmRepo, cacheRepo)
	if err != nil {
		log.Printf("Failed to initialize ReportService: %v", err)
		os.Exit(1)
	}

	// Handlers
	authHandler := handler.NewAuthHandler(registrationService, recoveryService, authService)
	farmHandler := handler.NewFarmHandler(farmService)
	reportHandler := handler.NewReportHandler(reportService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	isProduction := gin.Mode() == gin.ReleaseMode

	router := gin.Default()

	// Trusted proxies affect c.ClientIP(), which the rate limiter keys on.
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.Use(rateLimiter.Limit(middleware.DefaultAuthRateLimitConfig()))
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)

			// Code issuance and confirmation get a tighter limit to slow
			// down brute-forcing of 6-character codes.
			strictAuth := authGroup.Group("")
			strictAuth.Use(rateLimiter.Limit(middleware.StrictAuthRateLimitConfig()))
			{
				strictAuth.POST("/register/confirm", authHandler.ConfirmRegistration)
				strictAuth.POST("/register/resend", authHandler.ResendCode)
				strictAuth.POST("/forgot", authHandler.Forgot)
				strictAuth.POST("/forgot/confirm", authHandler.ForgotConfirm)
			}

			authedAuth := authGroup.Group("")
			authedAuth.Use(authMiddleware.RequireAuth())
			{
				authedAuth.GET("/me", authHandler.Me)
			}
		}

		farms := api.Group("/farms")
		farms.Use(authMiddleware.RequireAuth())
		{
			farms.POST("", farmHandler.CreateFarm)
			farms.GET("", farmHandler.ListFarms)
			farms.GET("/:id", farmHandler.GetFarm)
			farms.PUT("/:id", farmHandler.UpdateFarm)
			farms.DELETE("/:id", farmHandler.DeleteFarm)

			farms.POST("/:id/images", farmHandler.AddImage)
			farms.GET("/:id/images", farmHandler.ListImages)

			farms.POST("/:id/reports", reportHandler.CreateReport)
			farms.GET("/:id/reports", reportHandler.ListReports)
			farms.GET("/:id/reports/export", reportHandler.ExportReports)
			farms.GET("/:id/summary", reportHandler.GetFarmSummary)
		}

		reports := api.Group("/reports")
		reports.Use(authMiddleware.RequireAuth())
		{
			reports.GET("/:public_id", reportHandler.GetReport)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Failed to close Redis client: %v", err)
	}

	log.Println("Server exited")
}
