package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/wellnest-app/wellnest-backend/internal/handlers"
)

type RouterConfig struct {
	AuthHandler        *handlers.AuthHandler
	AuthMiddleware     gin.HandlerFunc
	UserHandler        *handlers.UserHandler
	CatalogHandler     *handlers.CatalogHandler
	WellnessHandler    *handlers.WellnessHandler
	BabyStepsHandler   *handlers.BabyStepsHandler
	MarketplaceHandler *handlers.MarketplaceHandler
	SpaceHandler       *handlers.SpaceHandler
	SSEHandler         *handlers.SSEHandler
	AllowOrigins       []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware)

	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)

	// User
	protected.GET("/user", cfg.UserHandler.GetMe)
	protected.PUT("/user/name", cfg.UserHandler.UpdateName)
	protected.PUT("/user/avatar/color", cfg.UserHandler.UpdateAvatarColor)
	protected.POST("/user/avatar", cfg.UserHandler.UploadAvatar)
	protected.GET("/stars", cfg.UserHandler.GetStars)

	// Wellness
	protected.GET("/metrics", cfg.CatalogHandler.ListMetrics)
	protected.POST("/wellness/entries", cfg.WellnessHandler.SubmitDay)
	protected.GET("/wellness/history", cfg.WellnessHandler.GetHistory)

	// Baby steps
	protected.GET("/babysteps", cfg.BabyStepsHandler.GetLedger)
	protected.GET("/babysteps/active", cfg.BabyStepsHandler.GetActive)
	protected.POST("/babysteps/:metricId/toggle", cfg.BabyStepsHandler.ToggleCompletion)
	protected.PUT("/babysteps/:metricId/text", cfg.BabyStepsHandler.UpdateText)

	// Marketplace
	protected.GET("/products", cfg.MarketplaceHandler.ListProducts)
	protected.GET("/products/:productId", cfg.MarketplaceHandler.GetProduct)
	protected.POST("/products", cfg.MarketplaceHandler.CreateProduct)
	protected.PUT("/products/:productId", cfg.MarketplaceHandler.UpdateProduct)
	protected.POST("/products/:productId/image", cfg.MarketplaceHandler.UploadProductImage)

	// Spaces
	protected.POST("/spaces", cfg.SpaceHandler.CreateSpace)
	protected.GET("/spaces", cfg.SpaceHandler.ListSpaces)
	protected.POST("/spaces/:spaceId/join", cfg.SpaceHandler.JoinSpace)
	protected.POST("/spaces/:spaceId/leave", cfg.SpaceHandler.LeaveSpace)
	protected.GET("/spaces/:spaceId/messages", cfg.SpaceHandler.ListMessages)
	protected.POST("/spaces/:spaceId/messages", cfg.SpaceHandler.PostMessage)

	// SSE
	protected.GET("/sse/stream", cfg.SSEHandler.Stream)
	protected.POST("/sse/subscribe", cfg.SSEHandler.Subscribe)
	protected.POST("/sse/unsubscribe", cfg.SSEHandler.Unsubscribe)

	return router
}
