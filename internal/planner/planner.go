// Package planner turns a trip request into a day-by-day travel plan using
// text-generation backends.
package planner

import (
	"context"
	"fmt"

	"wanderai/pkg/llm"
	"wanderai/pkg/logger"
)

const (
	DefaultMinHotels = 3
	DefaultMaxDays   = 15
)

type Config struct {
	MinHotels int
	MaxDays   int
}

// Planner runs the generation pipeline against a fixed, ordered candidate list.
type Planner struct {
	candidates []llm.Backend
	invoker    *Invoker
	reconciler *Reconciler
	minHotels  int
	maxDays    int
}

func NewPlanner(candidates []llm.Backend, cfg Config, opts ...InvokerOption) *Planner {
	if cfg.MinHotels <= 0 {
		cfg.MinHotels = DefaultMinHotels
	}
	if cfg.MaxDays <= 0 {
		cfg.MaxDays = DefaultMaxDays
	}
	invoker := NewInvoker(opts...)
	return &Planner{
		candidates: append([]llm.Backend(nil), candidates...),
		invoker:    invoker,
		reconciler: NewReconciler(invoker),
		minHotels:  cfg.MinHotels,
		maxDays:    cfg.MaxDays,
	}
}

// Candidates returns the backend ids in priority order.
func (p *Planner) Candidates() []string {
	ids := make([]string, 0, len(p.candidates))
	for _, c := range p.candidates {
		ids = append(ids, c.ID())
	}
	return ids
}

func (p *Planner) MaxDays() int { return p.maxDays }

// GenerateTravelPlan produces a plan with exactly days itinerary days. It fails only for
// an invalid request, exhaustion of every backend, or cancellation of ctx. Degraded
// content is reported through Metadata.Success.
func (p *Planner) GenerateTravelPlan(ctx context.Context, destination string, days int, traveler TravelerType, budget BudgetTier) (*TravelPlan, error) {
	req := TripRequest{Destination: destination, Days: days, Traveler: traveler, Budget: budget}
	if err := req.Validate(p.maxDays); err != nil {
		return nil, err
	}

	raw, attempts, err := p.invoker.Invoke(ctx, BuildPrompt(req), p.candidates)
	if err != nil {
		return nil, fmt.Errorf("generate plan for %s: %w", destination, err)
	}

	plan, err := Parse(raw)
	if err != nil {
		logger.Warn("model response unusable, reconciling from an empty plan",
			"backend", raw.Backend, "err", err)
		plan = ParsedPlan{}
	}

	res := p.reconciler.Reconcile(ctx, plan, req, p.candidates)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generate plan for %s: %w", destination, err)
	}

	out := Assemble(res.Plan, req, p.minHotels, Stats{
		Attempts:         attempts + res.Attempts,
		Backend:          raw.Backend,
		PlaceholderDays:  res.PlaceholderDays,
		ContinuationUsed: res.ContinuationUsed,
	})

	logger.Info("travel plan generated",
		"destination", destination,
		"days", days,
		"backend", out.Metadata.Backend,
		"hotels", out.Metadata.GeneratedHotels,
		"placeholders", out.Metadata.PlaceholderDays,
		"success", out.Metadata.Success)
	return &out, nil
}
