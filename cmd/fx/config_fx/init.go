package config_fx

import (
	"go.uber.org/fx"

	"wanderai/pkg/config"
	"wanderai/pkg/logger"
)

var Module = fx.Provide(provideConfig)

// provideConfig loads the environment and brings up the global logger before anything else logs.
func provideConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile}); err != nil {
		return nil, err
	}
	return cfg, nil
}
