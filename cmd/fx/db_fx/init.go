package db_fx

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"

	"wanderai/internal/infra"
	"wanderai/internal/repositories"
	"wanderai/pkg/config"
)

const connectTimeout = 10 * time.Second

var Module = fx.Provide(
	provideTripRepo)

func provideTripRepo(lc fx.Lifecycle, cfg *config.Config) (repositories.TripRepository, error) {
	switch cfg.TripStore {
	case config.StorePostgres:
		db, err := infra.InitPostgresql(cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				infra.ClosePostgresql(db)
				return nil
			},
		})
		return repositories.NewTripRepository(db), nil

	case config.StoreMongo:
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		client, db, err := infra.InitMongo(ctx, cfg.MongoURL, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return client.Disconnect(ctx)
			},
		})
		return repositories.NewMongoTripRepository(db), nil
	}
	return nil, fmt.Errorf("unsupported TRIP_STORE %q, use %q or %q", cfg.TripStore, config.StorePostgres, config.StoreMongo)
}
