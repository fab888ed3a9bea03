package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/shadownet/contract-desk/internal/api"
	"github.com/shadownet/contract-desk/internal/api/metrics"
	"github.com/shadownet/contract-desk/internal/api/middleware"
	"github.com/shadownet/contract-desk/internal/core/ports"
	"github.com/shadownet/contract-desk/internal/core/service"
	gormdb "github.com/shadownet/contract-desk/internal/infrastructure/db/gorm"
	redisdb "github.com/shadownet/contract-desk/internal/infrastructure/db/redis"
	"github.com/shadownet/contract-desk/internal/infrastructure/notify"
	"github.com/shadownet/contract-desk/internal/pkg/config"
	"github.com/shadownet/contract-desk/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	pruneInterval   = 10 * time.Minute
)

func main() {
	app := &cli.App{
		Name:  "contract-desk",
		Usage: "Contract submission service with an operator console",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the HTTP server",
				Action: func(c *cli.Context) error {
					ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
					defer stop()
					return serve(ctx)
				},
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.Production(),
	})

	db, err := gormdb.Open(cfg.Database.Path, log)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	defer sqlDB.Close()

	users := gormdb.NewUserRepository(db)
	contracts := gormdb.NewContractRepository(db)
	sessions := gormdb.NewSessionRepository(db)

	redisClient, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer redisClient.Close()

	authService := service.NewAuthService(users, log)
	if err := authService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		return err
	}

	var notifier ports.Notifier
	if cfg.Resend.APIKey != "" && cfg.Resend.To != "" {
		notifier = notify.NewResendNotifier(cfg.Resend.APIKey, cfg.Resend.From, cfg.Resend.To, log)
	} else {
		log.Warn().Msg("resend not configured, contract notifications disabled")
	}
	contractService := service.NewContractService(contracts, notifier, log)

	sessionManager := middleware.NewSessionManager(
		sessions,
		users,
		sessionHashKey(cfg, log),
		sessionBlockKey(cfg),
		cfg.Session.TTL,
		cfg.Production(),
		log,
	)

	e := api.NewRouter(api.Dependencies{
		Sessions:  sessionManager,
		Auth:      authService,
		Contracts: contractService,
		Limiter:   redisdb.NewFixedWindowLimiter(redisClient),
		DBProbe: func(ctx context.Context) error {
			return sqlDB.PingContext(ctx)
		},
		RedisProbe: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
		StartedAt: time.Now(),
		Log:       log,
	})

	go pruneSessions(ctx, sessions, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// pruneSessions removes expired sessions on a fixed cadence and keeps the
// active-sessions gauge current.
func pruneSessions(ctx context.Context, sessions ports.SessionRepository, log zerolog.Logger) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now().UTC()
			removed, err := sessions.DeleteExpired(ctx, now)
			if err != nil {
				log.Error().Err(err).Msg("session prune failed")
				continue
			}
			if removed > 0 {
				log.Debug().Int64("removed", removed).Msg("expired sessions pruned")
			}
			if active, err := sessions.CountActive(ctx, now); err == nil {
				metrics.SessionsActive.Set(float64(active))
			}
		}
	}
}

// sessionHashKey derives the cookie signing key. Development runs without a
// configured secret get a random per-process key, which invalidates cookies
// on restart.
func sessionHashKey(cfg *config.Config, log zerolog.Logger) []byte {
	if cfg.Session.Secret != "" {
		return []byte(cfg.Session.Secret)
	}
	log.Warn().Msg("SESSION_SECRET unset, using an ephemeral signing key")
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatal().Err(err).Msg("generate ephemeral session key")
	}
	return key
}

func sessionBlockKey(cfg *config.Config) []byte {
	if cfg.Session.BlockKey == "" {
		return nil
	}
	return []byte(cfg.Session.BlockKey)
}
