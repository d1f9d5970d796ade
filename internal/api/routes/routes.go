package routes

import (
	"time"

	"wall-service/internal/api/handlers"
	"wall-service/internal/api/middleware"
	"wall-service/internal/config"
	"wall-service/internal/websocket"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	authRateLimit = 50
	wsRateLimit   = 30
)

// AccountService is implemented by services.UserService
type AccountService interface {
	handlers.AuthService
	handlers.UserService
}

// Dependencies wires the router. Limiter may be nil to disable rate limiting.
type Dependencies struct {
	Hub      *websocket.Hub
	Accounts AccountService
	Messages handlers.MessageService
	Hashtags handlers.HashtagService
	Limiter  middleware.RateLimiter
}

type Router struct {
	engine         *gin.Engine
	cfg            *config.Config
	wsHandler      *handlers.WSHandler
	authHandler    *handlers.AuthHandler
	userHandler    *handlers.UserHandler
	messageHandler *handlers.MessageHandler
	hashtagHandler *handlers.HashtagHandler
	rateLimitMW    *middleware.RateLimitMiddleware
	authMW         *middleware.AuthMiddleware
}

func NewRouter(cfg *config.Config, deps Dependencies) *Router {
	engine := gin.New()

	// Add middlewares
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORS(cfg.WebSocket.AllowedOrigins))
	engine.Use(middleware.LogApi())

	return &Router{
		engine:         engine,
		cfg:            cfg,
		wsHandler:      handlers.NewWSHandler(deps.Hub, cfg.WebSocket.AllowedOrigins, cfg.WebSocket.SendBuffer),
		authHandler:    handlers.NewAuthHandler(deps.Accounts),
		userHandler:    handlers.NewUserHandler(deps.Accounts),
		messageHandler: handlers.NewMessageHandler(deps.Messages),
		hashtagHandler: handlers.NewHashtagHandler(deps.Hashtags),
		rateLimitMW:    middleware.NewRateLimitMiddleware(deps.Limiter),
		authMW:         middleware.NewAuthMiddleware(cfg.JWT.Secret),
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/health", r.wsHandler.Health)
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.engine.Group("/api/v1")

	// The wall channel is open to anonymous users, so it is limited per IP
	api.GET("/ws",
		r.rateLimitMW.WebSocketRateLimit(wsRateLimit, time.Minute),
		r.wsHandler.HandleWebSocket,
	)

	// Public routes (no authentication required)
	authRoutes := api.Group("/auth")
	authRoutes.POST("/login", r.rateLimitMW.RateLimitIP(authRateLimit, time.Minute), r.authHandler.Login)

	// Authenticated routes
	auth := api.Group("/")
	auth.Use(r.authMW.RequireAuth())
	auth.Use(r.rateLimitMW.RateLimit(r.cfg.Server.RateLimit, r.cfg.Server.RateWindow))
	{
		auth.POST("/auth/logout", r.authHandler.Logout)
		auth.GET("/user/:id", r.userHandler.GetUser)
		auth.GET("/connected-users", r.userHandler.ConnectedUsers)

		messages := auth.Group("/messages")
		{
			messages.GET("", r.messageHandler.ListMessages)
			messages.POST("/:id/like", r.messageHandler.LikeMessage)
			messages.POST("/:id/comment", r.messageHandler.CommentMessage)
			messages.POST("/:id/share", r.messageHandler.ShareMessage)
		}

		hashtags := auth.Group("/hashtags")
		{
			hashtags.GET("", r.hashtagHandler.ListHashtags)
			hashtags.POST("", r.hashtagHandler.CreateHashtag)
			hashtags.GET("/popular", r.hashtagHandler.PopularHashtags)
			hashtags.POST("/sync", r.hashtagHandler.SyncHashtags)
			hashtags.GET("/messages/:hashtag", r.hashtagHandler.MessagesByHashtag)
			hashtags.GET("/:id", r.hashtagHandler.GetHashtag)
			hashtags.PUT("/:id", r.hashtagHandler.UpdateHashtag)
			hashtags.DELETE("/:id", r.hashtagHandler.DeleteHashtag)
			hashtags.GET("/:id/position/:word", r.hashtagHandler.WordPosition)
		}
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
