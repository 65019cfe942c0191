package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"highspirit-app-go/internal/config"
	"highspirit-app-go/internal/db"
	boxingdomain "highspirit-app-go/internal/domain/boxing"
	dashboarddomain "highspirit-app-go/internal/domain/dashboard"
	importerdomain "highspirit-app-go/internal/domain/importer"
	membershipdomain "highspirit-app-go/internal/domain/membership"
	userdomain "highspirit-app-go/internal/domain/user"
	"highspirit-app-go/internal/repository/inmemory"
	boxingrepo "highspirit-app-go/internal/repository/postgres/boxing"
	dashboardrepo "highspirit-app-go/internal/repository/postgres/dashboard"
	importerrepo "highspirit-app-go/internal/repository/postgres/importer"
	membershiprepo "highspirit-app-go/internal/repository/postgres/membership"
	userrepo "highspirit-app-go/internal/repository/postgres/user"
	redisrepo "highspirit-app-go/internal/repository/redis"
	"highspirit-app-go/internal/transport/httpserver"
	"highspirit-app-go/internal/transport/httpserver/handler"
	authmw "highspirit-app-go/internal/transport/httpserver/middleware"
	"highspirit-app-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	redis      *goredis.Client
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(dbConn, log); err != nil {
		closeDB(dbConn)
		return nil, err
	}

	calendar := membershipdomain.NewCalendar(cfg.Club.Location(), cfg.Club.ExpiringWindowDays)

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		log.Warn("auth: AUTH_JWT_SECRET not set, using an ephemeral secret", "skip_auth", cfg.Auth.SkipAuth)
	}
	sessions := userdomain.NewSessions(secret, cfg.Auth.TokenTTL)
	users := userdomain.NewService(userrepo.NewPostgres(dbConn), sessions)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	created, err := users.EnsureOwner(ctx, userdomain.OwnerSeed{
		Username:     cfg.Auth.OwnerUsername,
		Password:     cfg.Auth.OwnerPassword,
		PasswordHash: cfg.Auth.OwnerPasswordHash,
	})
	switch {
	case errors.Is(err, userdomain.ErrOwnerNotConfigured):
		log.Warn("auth: owner account missing, set AUTH_OWNER_PASSWORD to create it", "username", cfg.Auth.OwnerUsername)
	case err != nil:
		closeDB(dbConn)
		return nil, err
	case created:
		log.Info("auth: owner account created", "username", cfg.Auth.OwnerUsername)
	}

	log.Info("app: initializing dashboard cache")
	cache, redisClient := newDashboardCache(ctx, cfg.Redis, log)

	services := handler.Services{
		Customers: membershipdomain.NewService(membershiprepo.NewPostgres(dbConn), calendar),
		Boxing:    boxingdomain.NewService(boxingrepo.NewPostgres(dbConn), calendar.Today),
		Imports:   importerdomain.NewService(importerrepo.NewPostgres(dbConn), calendar.Today, log),
		Dashboard: dashboarddomain.NewService(dashboardrepo.NewPostgres(dbConn), calendar, cache, cfg.Dashboard.CacheTTL),
		Users:     users,
	}

	handlers := handler.New(services, handler.Options{
		CookieName:     cfg.Auth.CookieName,
		CookieSecure:   cfg.Auth.CookieSecure,
		PageSize:       cfg.Club.PageSize,
		MaxUploadBytes: cfg.Import.MaxUploadBytes,
	}, log)

	log.Info("app: initializing router")
	auth := authmw.NewSessionAuth(cfg.Auth, users, log)
	router := httpserver.NewRouter(cfg, handlers, auth, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
		redis:      redisClient,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.db != nil {
		sqlDB, err := a.db.DB()
		if err != nil {
			errs = append(errs, err)
		} else if err := sqlDB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// newDashboardCache prefers Redis and falls back to the in-memory cache when
// Redis is not configured or does not answer.
func newDashboardCache(ctx context.Context, cfg config.RedisConfig, log logger.Logger) (dashboarddomain.Cache, *goredis.Client) {
	client, err := redisrepo.NewClient(ctx, cfg)
	if err != nil {
		log.Warn("app: redis unavailable, using in-memory dashboard cache", "addr", cfg.Addr, "error", err.Error())
		return inmemory.NewDashboardCache(), nil
	}
	if client == nil {
		return inmemory.NewDashboardCache(), nil
	}
	return redisrepo.NewDashboardCache(client, log), client
}

func closeDB(conn *gorm.DB) {
	if sqlDB, err := conn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
