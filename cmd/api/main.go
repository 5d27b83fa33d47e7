package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"socialhub/internal/config"
	"socialhub/internal/database"
	"socialhub/internal/domain/auth"
	"socialhub/internal/domain/chat"
	"socialhub/internal/domain/friend"
	"socialhub/internal/domain/user"
	logpkg "socialhub/internal/log"
	"socialhub/internal/metrics"
	"socialhub/internal/middleware"
	jwtsvc "socialhub/internal/pkg/jwt"
	"socialhub/internal/ws"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logpkg.Init(cfg.AppEnv)

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.AutoMigrate(
		&user.User{},
		&friend.Request{},
		&friend.Edge{},
		&chat.Message{},
		&chat.UnreadCount{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate schema")
	}
	if err := auth.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate auth schema")
	}

	jwtService := jwtsvc.New(
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		cfg.AccessTTL,
		cfg.RefreshTTL,
	)

	userRepo := user.NewRepository(db)
	mailer := auth.NewDevConsoleMailer(cfg.DevMailEnabled)
	hub := ws.NewHub()

	authService := auth.NewService(
		userRepo,
		jwtService,
		mailer,
		db,
		cfg.VerifyCodePepper,
		cfg.VerifyCodeTTL,
		cfg.VerifyResendCooldown,
	)
	authHandler := auth.NewHandler(authService)

	friendService := friend.NewService(friend.NewRepository(db), userRepo, hub)
	friendHandler := friend.NewHandler(friendService)

	chatService := chat.NewService(chat.NewRepository(db), userRepo, hub)
	chatHandler := chat.NewHandler(chatService)

	wsHandler := ws.NewHandler(hub, jwtService)

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(metrics.GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1, middleware.RateLimit(rate.Limit(1), 3))

		v1.GET("/ws", wsHandler.HandleWebSocket)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(jwtService))
		{
			authHandler.RegisterProtectedRoutes(protected)
			friendHandler.RegisterRoutes(protected)
			chatHandler.RegisterRoutes(protected)
		}
	}

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
