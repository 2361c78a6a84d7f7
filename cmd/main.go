package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/wellnest-app/wellnest-backend/internal/catalog"
	"github.com/wellnest-app/wellnest-backend/internal/clients/gcp"
	"github.com/wellnest-app/wellnest-backend/internal/clients/redis"
	"github.com/wellnest-app/wellnest-backend/internal/db"
	"github.com/wellnest-app/wellnest-backend/internal/handlers"
	"github.com/wellnest-app/wellnest-backend/internal/logger"
	"github.com/wellnest-app/wellnest-backend/internal/middleware"
	"github.com/wellnest-app/wellnest-backend/internal/repos"
	"github.com/wellnest-app/wellnest-backend/internal/server"
	"github.com/wellnest-app/wellnest-backend/internal/services"
	"github.com/wellnest-app/wellnest-backend/internal/sse"
	"github.com/wellnest-app/wellnest-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	port := utils.GetEnv("PORT", "8080", log)

	// Metric catalog
	cat, err := catalog.Load(os.Getenv("METRIC_CATALOG_PATH"))
	if err != nil {
		log.Error("Could not load metric catalog", "error", err)
		os.Exit(1)
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	dailyEntryRepo := repos.NewDailyEntryRepo(thePG, log)
	metricRatingRepo := repos.NewMetricRatingRepo(thePG, log)
	productRepo := repos.NewProductRepo(thePG, log)
	spaceRepo := repos.NewSpaceRepo(thePG, log)
	spaceMemberRepo := repos.NewSpaceMemberRepo(thePG, log)
	spaceMessageRepo := repos.NewSpaceMessageRepo(thePG, log)

	// SSE
	log.Info("Setting up SSE hub now...")
	sseHub := sse.NewSSEHub(log)

	// Redis event bus is optional: without it events still reach clients on
	// this instance, they just don't fan out across replicas.
	var eventBus redis.EventBus
	eventBus, err = redis.NewEventBus(log)
	if err != nil {
		log.Warn("Could not init redis event bus; running single-instance", "error", err)
		eventBus = nil
	} else {
		if err := eventBus.StartForwarder(context.Background(), sseHub.Broadcast); err != nil {
			log.Warn("Could not start redis forwarder", "error", err)
		}
	}

	// Services
	log.Info("Setting up Services from main...")
	bucketService, err := gcp.NewBucketService(log)
	if err != nil {
		log.Warn("Could not init BucketService", "error", err)
	}
	var avatarService services.AvatarService
	avatarService, err = services.NewAvatarService(log, bucketService)
	if err != nil {
		log.Warn("Could not init AvatarService; avatars disabled", "error", err)
		avatarService = nil
	}
	notifier := services.NewNotifier(log, sseHub, eventBus)
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, avatarService, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	userService := services.NewUserService(thePG, log, userRepo, avatarService)
	wellnessService := services.NewWellnessService(thePG, log, cat, dailyEntryRepo, metricRatingRepo, notifier)
	babyStepsService := services.NewBabyStepsService(thePG, log, dailyEntryRepo, metricRatingRepo, userRepo, notifier)
	marketplaceService := services.NewMarketplaceService(thePG, log, productRepo, bucketService)
	spaceService := services.NewSpaceService(thePG, log, spaceRepo, spaceMemberRepo, spaceMessageRepo, notifier)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	catalogHandler := handlers.NewCatalogHandler(cat)
	wellnessHandler := handlers.NewWellnessHandler(wellnessService)
	babyStepsHandler := handlers.NewBabyStepsHandler(babyStepsService)
	marketplaceHandler := handlers.NewMarketplaceHandler(marketplaceService)
	spaceHandler := handlers.NewSpaceHandler(spaceService)
	sseHandler := handlers.NewSSEHandler(sseHub, spaceMemberRepo)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.AuthMiddleware(authService, log)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:        authHandler,
		AuthMiddleware:     authMiddleware,
		UserHandler:        userHandler,
		CatalogHandler:     catalogHandler,
		WellnessHandler:    wellnessHandler,
		BabyStepsHandler:   babyStepsHandler,
		MarketplaceHandler: marketplaceHandler,
		SpaceHandler:       spaceHandler,
		SSEHandler:         sseHandler,
	})

	log.Info("Starting server...", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
