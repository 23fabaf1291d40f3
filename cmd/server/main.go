package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/prabaharan-saminathan/Teacher-Connect/internal/config"
	"github.com/prabaharan-saminathan/Teacher-Connect/internal/database"
	"github.com/prabaharan-saminathan/Teacher-Connect/internal/handlers"
	"github.com/prabaharan-saminathan/Teacher-Connect/internal/logger"
	"github.com/prabaharan-saminathan/Teacher-Connect/internal/middleware"
	"github.com/prabaharan-saminathan/Teacher-Connect/internal/repository"
	"github.com/prabaharan-saminathan/Teacher-Connect/internal/router"
	"github.com/prabaharan-saminathan/Teacher-Connect/internal/services"
	"github.com/prabaharan-saminathan/Teacher-Connect/internal/signaling"
	"github.com/prabaharan-saminathan/Teacher-Connect/internal/websocket"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	log := logger.New(cfg.Env)
	defer log.Sync()
	log.Info("starting Teacher-Connect backend", zap.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pool.Close()

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal("redis connection failed", zap.Error(err))
	}
	defer redisClients.Close()

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(ctx, pool); err != nil {
		log.Fatal("database migration failed", zap.Error(err))
	}
	if version, err := database.MigrationVersion(ctx, pool); err == nil {
		log.Info("database migrations applied", zap.Int64("version", version))
	}

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	appointmentRepo := repository.NewAppointmentRepo(pool)
	videoCallRepo := repository.NewVideoCallRepo(pool)
	messageRepo := repository.NewMessageRepo(pool)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret, cfg.AccessTokenTTL)
	notifier := services.NewRedisNotifier(redisClients.KV, log)
	authService := services.NewAuthService(userRepo, services.NewRedisTokenStore(redisClients.KV), jwtAuth, cfg.RefreshTokenTTL, log)
	teacherService := services.NewTeacherService(userRepo, log)
	appointmentService := services.NewAppointmentService(appointmentRepo, userRepo, notifier, log)
	videoCallService := services.NewVideoCallService(videoCallRepo, appointmentRepo, notifier, log)
	chatService := services.NewChatService(messageRepo, appointmentRepo, notifier, log)
	adminService := services.NewAdminService(userRepo, appointmentRepo, notifier, log)

	// ──── Step 5: Start WebSocket Hub and Signaling Relay ────
	wsHub := websocket.NewHub(redisClients.PubSub, jwtAuth, log)
	defer wsHub.Close()

	var broker signaling.Broker
	switch cfg.SignalingBroker {
	case "memory":
		broker = signaling.NewMemoryBroker()
	default:
		broker = signaling.NewRedisBroker(redisClients.KV, redisClients.PubSub, log)
	}
	relay := signaling.NewRelay(broker, jwtAuth, log)
	if err := relay.Start(ctx); err != nil {
		log.Fatal("signaling relay failed to start", zap.Error(err))
	}
	defer relay.Close()
	log.Info("signaling relay started", zap.String("broker", cfg.SignalingBroker))

	// ──── Step 6: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		middleware.NewRateLimiter(redisClients.KV, "auth", cfg.AuthRateLimit, time.Minute, log),
		handlers.NewAuthHandler(authService),
		handlers.NewTeacherHandler(teacherService),
		handlers.NewAppointmentHandler(appointmentService),
		handlers.NewVideoCallHandler(videoCallService),
		handlers.NewMessageHandler(chatService),
		handlers.NewAdminHandler(adminService),
		wsHub,
		relay,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", zap.Error(err))
		}
	}()

	log.Info("Teacher-Connect backend ready",
		zap.String("api", fmt.Sprintf("http://localhost:%s/api/v1", cfg.Port)),
		zap.String("ws", fmt.Sprintf("ws://localhost:%s/api/v1/ws", cfg.Port)),
	)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}
