package controllers_fx

import (
	"go.uber.org/fx"

	"wanderai/internal/api/controllers"
	"wanderai/internal/planner"
	"wanderai/internal/repositories"
	"wanderai/pkg/config"
	"wanderai/pkg/middleware"
)

var Module = fx.Options(
	fx.Provide(controllers.NewTripController),
	fx.Provide(provideHealthController),
	fx.Provide(provideRateLimiter))

func provideHealthController(tripRepo repositories.TripRepository, cache repositories.TripCache, p *planner.Planner) *controllers.HealthController {
	return controllers.NewHealthController(tripRepo, cache, p.Candidates())
}

func provideRateLimiter(cfg *config.Config) *middleware.RateLimiter {
	return middleware.NewRateLimiter(cfg.GenerateRatePerMin)
}
