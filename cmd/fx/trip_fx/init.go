package trip_fx

import (
	"go.uber.org/fx"

	"wanderai/internal/repositories"
	"wanderai/internal/services"
	"wanderai/pkg/config"
)

var Module = fx.Provide(provideTripService)

func provideTripService(
	generator services.TravelPlanGenerator,
	tripRepo repositories.TripRepository,
	cache repositories.TripCache,
	cfg *config.Config,
) services.TripServiceInterface {
	return services.NewTripService(generator, tripRepo, cache, cfg.MaxTripDays)
}
