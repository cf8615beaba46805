package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/fx"

	"wanderai/cmd/fx/cache_fx"
	"wanderai/cmd/fx/config_fx"
	"wanderai/cmd/fx/controllers_fx"
	"wanderai/cmd/fx/db_fx"
	"wanderai/cmd/fx/generation_fx"
	"wanderai/cmd/fx/memcache_fx"
	"wanderai/cmd/fx/trip_fx"
	"wanderai/internal/api"
	"wanderai/internal/api/controllers"
	"wanderai/pkg/config"
	"wanderai/pkg/logger"
	"wanderai/pkg/middleware"
)

func main() {
	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		cache_fx.Module,
		generation_fx.Module,
		trip_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           withCORS(cfg, engine),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("starting HTTP server", "port", cfg.Port)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("HTTP server stopped", "err", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	cfg *config.Config,
	limiter *middleware.RateLimiter,
	tripController *controllers.TripController,
	healthController *controllers.HealthController) (*gin.Engine, error) {

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	return api.NewRouter([]byte(cfg.JWTSecret), limiter, tripController, healthController), nil
}

func withCORS(cfg *config.Config, h http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.TraceIDHeader},
		ExposedHeaders:   []string{middleware.TraceIDHeader},
		AllowCredentials: false,
	}).Handler(h)
}
