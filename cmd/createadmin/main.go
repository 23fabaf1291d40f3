package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/prabaharan-saminathan/Teacher-Connect/internal/config"
	"github.com/prabaharan-saminathan/Teacher-Connect/internal/database"
	"github.com/prabaharan-saminathan/Teacher-Connect/internal/logger"
	"github.com/prabaharan-saminathan/Teacher-Connect/internal/repository"
	"github.com/prabaharan-saminathan/Teacher-Connect/internal/services"
)

// createadmin bootstraps the admin account from ADMIN_NAME, ADMIN_EMAIL and
// ADMIN_PASSWORD. Running it again is a no-op. Only DATABASE_URL is required
// besides the admin credentials.
func main() {
	cfg := config.LoadBootstrap()
	log := logger.New(cfg.Env)
	defer log.Sync()

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool); err != nil {
		log.Fatal("database migration failed", zap.Error(err))
	}

	// No tokens are issued here, so neither a token store nor a signer is wired.
	authService := services.NewAuthService(repository.NewUserRepo(pool), nil, nil, 0, log)

	user, created, err := authService.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		log.Fatal("admin bootstrap failed", zap.Error(err))
	}
	if created {
		log.Info("admin created", zap.Stringer("user_id", user.ID), zap.String("email", user.Email))
		return
	}
	log.Info("admin already exists", zap.Stringer("user_id", user.ID), zap.String("email", user.Email))
}
