package main

import (
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/trailpaw/custody-api/internal/config"
	"github.com/trailpaw/custody-api/internal/constants"
	"github.com/trailpaw/custody-api/internal/database"
	"github.com/trailpaw/custody-api/internal/handlers"
	"github.com/trailpaw/custody-api/internal/logger"
	"github.com/trailpaw/custody-api/internal/metrics"
	"github.com/trailpaw/custody-api/internal/middleware"
	"github.com/trailpaw/custody-api/internal/repository"
	"github.com/trailpaw/custody-api/internal/roles"
	"github.com/trailpaw/custody-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger.Init(cfg)
	log := logger.Get()

	metrics.Init(cfg)

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	db := database.Get()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	petRepo := repository.NewPetRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, orgRepo)
	petService := services.NewPetService(petRepo, orgRepo)
	orgService := services.NewOrganizationService(orgRepo, userRepo)
	dashboardService := services.NewDashboardService(petRepo)
	billingService := services.NewBillingService(petRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	petHandler := handlers.NewPetHandler(petService)
	orgHandler := handlers.NewOrganizationHandler(orgService, billingService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	trackingHandler := handlers.NewTrackingHandler(petService)

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	r.Use(metrics.Middleware())

	// Setup session middleware with Redis
	redisAddr := cfg.Redis.Host + ":" + cfg.Redis.Port
	store, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"",
		"",
		[]byte(cfg.Session.Secret),
	)
	if err != nil {
		log.Fatal("Failed to create Redis store", zap.Error(err))
	}
	isProduction := cfg.Server.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.Session.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Health check and metrics endpoints
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Custody Tracking API is running",
		})
	})
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
			auth.GET("/me", middleware.RequireAuth(), middleware.RequireTenant(authService), authHandler.GetCurrentUser)
		}

		// Family-facing tracking lookup (public)
		api.GET("/track/:code", trackingHandler.Track)

		// Tenant routes (protected)
		tenant := api.Group("")
		tenant.Use(middleware.RequireAuth(), middleware.RequireTenant(authService))
		{
			tenant.GET("/dashboard/stats", dashboardHandler.GetStats)

			org := tenant.Group("/organization")
			{
				org.GET("", orgHandler.GetOrganization)
				org.PUT("", middleware.RequireCapability(roles.CapTeam), orgHandler.UpdateOrganization)
				org.GET("/members", middleware.RequireCapability(roles.CapTeam), orgHandler.ListMembers)
				org.POST("/members", middleware.RequireCapability(roles.CapInvite), orgHandler.InviteMember)
				org.DELETE("/members/:user_id", middleware.RequireCapability(roles.CapTeam), orgHandler.DeactivateMember)
				org.GET("/usage", middleware.RequireCapability(roles.CapBilling), orgHandler.GetUsage)
				org.GET("/checkpoint-settings", middleware.RequireCapability(roles.CapTeam), orgHandler.GetCheckpointSettings)
				org.PUT("/checkpoint-settings", middleware.RequireCapability(roles.CapTeam), orgHandler.UpdateCheckpointSetting)
			}

			pets := tenant.Group("/pets")
			{
				pets.GET("", petHandler.ListPets)
				pets.POST("", middleware.RequireCapability(roles.CapCaseRW), petHandler.CreatePet)
				pets.GET("/:id", petHandler.GetPet)
				pets.GET("/:id/checkpoints", petHandler.ListCheckpoints)
				pets.POST("/:id/transition", middleware.RequireCapability(roles.CapCaseRW), petHandler.Transition)
			}
		}
	}

	// Start server
	addr := ":" + cfg.Server.Port
	log.Info("Server starting", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
