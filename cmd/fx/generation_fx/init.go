package generation_fx

import (
	"context"
	"time"

	"go.uber.org/fx"

	"wanderai/internal/planner"
	"wanderai/internal/services"
	"wanderai/pkg/config"
	"wanderai/pkg/llm"
	"wanderai/pkg/logger"
)

const maxBackoff = 8 * time.Second

var Module = fx.Provide(
	provideBackends,
	providePlanner,
	provideGenerator)

func provideBackends(lc fx.Lifecycle, cfg *config.Config) ([]llm.Backend, error) {
	backends, err := llm.BuildCandidates(context.Background(), cfg.Candidates, KeysFromConfig(cfg))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			llm.Close(backends)
			return nil
		},
	})
	return backends, nil
}

func providePlanner(cfg *config.Config, backends []llm.Backend) *planner.Planner {
	p := planner.NewPlanner(backends,
		planner.Config{MinHotels: cfg.MinHotels, MaxDays: cfg.MaxTripDays},
		PlannerOptions(cfg)...)
	logger.Info("trip planner ready", "candidates", p.Candidates())
	return p
}

func provideGenerator(p *planner.Planner) services.TravelPlanGenerator {
	return p
}

// KeysFromConfig collects provider credentials. Shared with the tripgen CLI.
func KeysFromConfig(cfg *config.Config) llm.Keys {
	return llm.Keys{
		Gemini:        cfg.GeminiAPIKey,
		OpenAI:        cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		Claude:        cfg.ClaudeAPIKey,
		ClaudeBaseURL: cfg.ClaudeBaseURL,
	}
}

func PlannerOptions(cfg *config.Config) []planner.InvokerOption {
	backoffCap := maxBackoff
	if cfg.GenerationBackoff > backoffCap {
		backoffCap = cfg.GenerationBackoff
	}
	return []planner.InvokerOption{
		planner.WithAttempts(cfg.GenerationAttempts),
		planner.WithBackoff(cfg.GenerationBackoff, backoffCap),
		planner.WithAttemptTimeout(cfg.GenerationTimeout),
	}
}
