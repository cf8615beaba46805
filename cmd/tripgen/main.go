package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"

	"wanderai/cmd/fx/generation_fx"
	"wanderai/internal/planner"
	"wanderai/pkg/config"
	"wanderai/pkg/llm"
	"wanderai/pkg/logger"
)

// GenerateCmd runs one generation against the configured backends and prints the plan.
type GenerateCmd struct {
	Destination string        `help:"Destination to plan for." required:""`
	Days        int           `help:"Number of itinerary days." default:"3"`
	Traveler    string        `help:"Solo, Couple, Family or Friends." default:"Solo"`
	Budget      string        `help:"Budget, Mid-Range or Luxury." default:"Mid-Range"`
	Candidates  []string      `help:"Ordered provider:model ids. Defaults to GENERATION_CANDIDATES." sep:","`
	Timeout     time.Duration `help:"Overall deadline." default:"2m"`
	Pretty      bool          `help:"Indent the JSON output."`
}

var CLI struct {
	LogLevel string `help:"Log level." default:"warn" env:"LOG_LEVEL"`

	Generate GenerateCmd `cmd:"" help:"Generate a travel plan." default:"withargs"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("tripgen"),
		kong.Description("Generate a travel plan from the command line"),
		kong.UsageOnError(),
	)

	if err := logger.Init(logger.Config{Level: CLI.LogLevel, Prefix: "tripgen"}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := ctx.Run(config.Load()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (g *GenerateCmd) Run(cfg *config.Config) error {
	traveler, err := planner.ParseTravelerType(g.Traveler)
	if err != nil {
		return err
	}
	budget, err := planner.ParseBudgetTier(g.Budget)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	ids := g.Candidates
	if len(ids) == 0 {
		ids = cfg.Candidates
	}
	backends, err := llm.BuildCandidates(ctx, ids, generation_fx.KeysFromConfig(cfg))
	if err != nil {
		return err
	}
	defer llm.Close(backends)

	p := planner.NewPlanner(backends,
		planner.Config{MinHotels: cfg.MinHotels, MaxDays: cfg.MaxTripDays},
		generation_fx.PlannerOptions(cfg)...)

	plan, err := p.GenerateTravelPlan(ctx, g.Destination, g.Days, traveler, budget)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	if g.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(plan)
}
