package cache_fx

import (
	"context"
	"time"

	"go.uber.org/fx"

	"wanderai/internal/infra"
	"wanderai/internal/repositories"
	"wanderai/pkg/config"
	"wanderai/pkg/logger"
	mem "wanderai/pkg/memcache"
)

var Module = fx.Provide(provideTripCache)

// provideTripCache uses redis when REDIS_URL is set and the in-process store otherwise.
func provideTripCache(lc fx.Lifecycle, cfg *config.Config, store mem.TTLStore) (repositories.TripCache, error) {
	if cfg.RedisURL == "" {
		logger.Info("REDIS_URL not set, caching trips in process")
		return repositories.NewMemoryTripCache(store, cfg.TripCacheTTL), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := infra.InitRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return repositories.NewRedisTripCache(client, cfg.TripCacheTTL), nil
}
