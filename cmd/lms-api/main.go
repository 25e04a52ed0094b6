// Command lms-api serves the learning management REST API.
//
//	@title						LMS API
//	@version					1.0
//	@description				Authentication, role based access control and resources of the learning management system.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hbiu/lms-backend/internal/api"
	"github.com/hbiu/lms-backend/internal/core/ports"
	"github.com/hbiu/lms-backend/internal/core/service"
	"github.com/hbiu/lms-backend/internal/infrastructure/db/mongo"
	"github.com/hbiu/lms-backend/internal/infrastructure/db/redis"
	"github.com/hbiu/lms-backend/internal/infrastructure/db/sql"
	"github.com/hbiu/lms-backend/internal/infrastructure/http/handlers"
	"github.com/hbiu/lms-backend/internal/infrastructure/memory"
	"github.com/hbiu/lms-backend/internal/pkg/config"
	"github.com/hbiu/lms-backend/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "lms-api",
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	store, closeStore, err := openStore(ctx, cfg, logger.Component("store"))
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("open store")
	}
	defer closeStore()

	checks := map[string]handlers.Check{}
	var limiter ports.RateLimiter
	var rdb *goredis.Client
	if cfg.RateLimit.Enabled {
		rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, rate limiting per process")
			limiter = memory.NewRateLimiter(cfg.RateLimit.Max, cfg.RateLimit.Window)
		} else {
			limiter = redis.NewRateLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.Window)
			checks["redis"] = redis.Pinger(rdb)
		}
	}

	e := api.NewRouter(api.Deps{
		Config:  cfg,
		Logger:  log,
		Store:   store,
		Tokens:  service.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.JWTExpire),
		Hasher:  service.NewBcryptHasher(cfg.Auth.BcryptCost),
		Limiter: limiter,
		Checks:  checks,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Str("driver", cfg.Store.Driver).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("close redis")
		}
	}
}

// openStore connects the configured backend and prepares its schema.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.Store, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return ports.Store{}, nil, err
		}
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return ports.Store{}, nil, err
		}
		return mongo.NewStore(db), func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Error().Err(err).Msg("disconnect mongo")
			}
		}, nil

	default:
		db, err := sql.Open(sql.Config{
			Driver: cfg.Store.Driver,
			DSN:    cfg.Store.DatabaseURL,
			Debug:  cfg.LogLevel == "debug" || cfg.LogLevel == "trace",
		}, log)
		if err != nil {
			return ports.Store{}, nil, err
		}
		if err := sql.Migrate(db); err != nil {
			_ = sql.Close(db)
			return ports.Store{}, nil, err
		}
		return sql.NewStore(db), func() {
			if err := sql.Close(db); err != nil {
				log.Error().Err(err).Msg("close database")
			}
		}, nil
	}
}
