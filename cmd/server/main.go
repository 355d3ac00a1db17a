// @title        Project LV Accounts API
// @version      1.0
// @description  User accounts: registration, login, password reset and role management.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the session token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/projectlv/accounts/internal/api"
	"github.com/projectlv/accounts/internal/api/handler"
	"github.com/projectlv/accounts/internal/api/metrics"
	"github.com/projectlv/accounts/internal/core/ports"
	"github.com/projectlv/accounts/internal/core/security"
	"github.com/projectlv/accounts/internal/core/service"
	"github.com/projectlv/accounts/internal/infrastructure/db/memory"
	mongodb "github.com/projectlv/accounts/internal/infrastructure/db/mongo"
	redisdb "github.com/projectlv/accounts/internal/infrastructure/db/redis"
	"github.com/projectlv/accounts/internal/infrastructure/mail"
	"github.com/projectlv/accounts/internal/pkg/config"
	"github.com/projectlv/accounts/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	connectRetries  = 5
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "accounts",
		Env:     cfg.Env,
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		repo     ports.UserRepository
		limiter  ports.RateLimiter
		checkers []handler.Checker
	)

	// --- Credential store ---
	switch cfg.StoreDriver {
	case config.StoreMongo:
		var (
			client *mongo.Client
			db     *mongo.Database
		)
		err := connectWithRetry(ctx, log, "mongodb", func(ctx context.Context) (err error) {
			client, db, err = mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
			return err
		})
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()

		users := mongodb.NewUserRepository(db)
		if err := users.EnsureIndexes(ctx); err != nil {
			return err
		}
		repo = users
		checkers = append(checkers, mongodb.NewPinger(db))
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")
	default:
		repo = memory.NewUserRepository()
		log.Warn().Msg("using in-memory user store; data is lost on restart")
	}

	// --- Forgot-password limiter ---
	if cfg.Redis.Addr != "" {
		var rdb *redis.Client
		err := connectWithRetry(ctx, log, "redis", func(ctx context.Context) (err error) {
			rdb, err = redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
			return err
		})
		if err != nil {
			return err
		}
		defer rdb.Close()

		limiter = redisdb.NewFixedWindowLimiter(rdb, api.ForgotPasswordScope, cfg.Reset.RateLimit, cfg.Reset.RateWindow)
		checkers = append(checkers, redisdb.NewPinger(rdb))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	} else {
		limiter = memory.NewFixedWindowLimiter(cfg.Reset.RateLimit, cfg.Reset.RateWindow)
	}

	// --- Email ---
	var mailer ports.Mailer = mail.DisabledMailer{}
	smtp, err := mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		TLS:      cfg.SMTP.TLS,
		Timeout:  cfg.SMTP.Timeout,
	})
	switch {
	case errors.Is(err, mail.ErrNotConfigured):
		log.Warn().Msg("SMTP_HOST not set; password reset emails are disabled")
	case err != nil:
		return err
	default:
		mailer = smtp
	}

	// --- Core services ---
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	issuer, err := security.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	if err != nil {
		return err
	}
	authService, err := service.NewAuthService(repo, hasher, issuer, log, service.AuthOptions{
		SessionTTL:    cfg.Auth.SessionTTL,
		RequireActive: cfg.Auth.RequireActive,
	})
	if err != nil {
		return err
	}
	resetService := service.NewResetService(repo, hasher, mailer, log, service.ResetOptions{
		TokenTTL:    cfg.Reset.TokenTTL,
		FrontendURL: cfg.Reset.FrontendURL,
	})
	userService := service.NewUserService(repo, log)

	janitor := service.NewResetTokenJanitor(repo, log, metrics.RecordExpiredResetTokens)
	go janitor.Run(ctx, cfg.Reset.CleanupInterval)

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Auth:         authService,
		Reset:        resetService,
		Users:        userService,
		ResetLimiter: limiter,
		Checkers:     checkers,
		Cookie: handler.CookieConfig{
			Secure: cfg.HTTP.CookieSecure,
			Domain: cfg.HTTP.CookieDomain,
		},
		CORSOrigins: cfg.HTTP.CORSOrigins,
		BodyLimit:   cfg.HTTP.BodyLimit,
		Log:         log,
	})

	return serve(ctx, e, ":"+cfg.Port, log)
}

// connectWithRetry retries a startup connection with exponential backoff so the
// service tolerates dependencies that come up after it.
func connectWithRetry(ctx context.Context, log zerolog.Logger, name string, connect func(context.Context) error) error {
	backoff := retry.WithMaxRetries(connectRetries, retry.NewExponential(500*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := connect(ctx); err != nil {
			log.Warn().Err(err).Str("dependency", name).Msg("connect failed, retrying")
			return retry.RetryableError(err)
		}
		return nil
	})
}

// serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests.
func serve(ctx context.Context, e *echo.Echo, addr string, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
