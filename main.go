package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"msg-api/internal/config"
	"msg-api/internal/db"
	"msg-api/internal/handlers"
	"msg-api/internal/logging"
	"msg-api/internal/middleware"
	"msg-api/internal/observability"
	"msg-api/internal/rabbitmq"
	"msg-api/internal/repositories"
	"msg-api/internal/security"
	"msg-api/internal/sessions"
	"msg-api/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(cfg.Environment)
	ctx := context.Background()

	database, err := db.Connect(cfg.Postgres, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to db")
	}

	redisClient, err := sessions.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}

	tracingEndpoint := ""
	if cfg.Tracing.Enabled {
		tracingEndpoint = cfg.Tracing.Endpoint
	}
	shutdownTracing, err := telemetry.SetupTracing(ctx, "msg-api", tracingEndpoint)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to set up tracing")
	}

	publisher := rabbitmq.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, logger)
	emitter := telemetry.NewAuditEmitter(publisher, "audit.msg-api", "msg-api", cfg.Environment)

	hasher := security.NewDefaultHasher()
	sessionStore := sessions.NewRedisStore(redisClient)
	authenticator := sessions.NewAuthenticator(sessionStore, hasher, cfg.Security.SessionTTL)

	userRepo := repositories.NewUserRepo(database)
	conversationRepo := repositories.NewConversationRepo(database)
	messageRepo := repositories.NewMessageRepo(database)

	userHandler := handlers.NewUserHandler(userRepo, hasher, emitter, logger)
	authHandler := handlers.NewAuthHandler(userRepo, hasher, authenticator, emitter, logger)
	conversationHandler := handlers.NewConversationHandler(conversationRepo)
	messageHandler := handlers.NewMessageHandler(conversationRepo, messageRepo, emitter)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(observability.HTTPMetricsMiddleware())
	router.Use(otelgin.Middleware("msg-api"))

	sessionAuth := middleware.SessionAuth(authenticator)

	router.POST("/users", userHandler.Register)
	router.POST("/auth/login", authHandler.Login)

	router.POST("/conversations/new", sessionAuth, conversationHandler.Create)
	router.GET("/conversations", sessionAuth, conversationHandler.List)
	router.POST("/conversations/:conversation_id/messages", sessionAuth, messageHandler.Post)
	router.GET("/conversations/:conversation_id/messages", sessionAuth, messageHandler.List)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterHealthRoutes(router, database, redisClient)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-signalCtx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("tracer shutdown failed")
	}
	if err := publisher.Close(); err != nil {
		logger.Warn().Err(err).Msg("amqp close failed")
	}
	_ = redisClient.Close()
	_ = database.Close()
}
