package planner

import (
	"context"
	"fmt"

	"wanderai/pkg/llm"
	"wanderai/pkg/logger"
)

// Reconciler makes an itinerary match the requested day count.
type Reconciler struct {
	invoker *Invoker
}

func NewReconciler(invoker *Invoker) *Reconciler {
	return &Reconciler{invoker: invoker}
}

type ReconcileResult struct {
	Plan             ParsedPlan
	PlaceholderDays  int
	ContinuationUsed bool
	// Attempts counts backend calls made for the continuation.
	Attempts int
}

// Reconcile never fails. Extra days are truncated. Missing days are requested once
// through a continuation prompt; a continuation day numbered inside the missing range
// fills that day, and any day still missing afterwards becomes a placeholder day.
// The returned itinerary always has exactly req.Days days labelled "Day 1".."Day N".
// Callers should check ctx.Err() afterwards.
func (r *Reconciler) Reconcile(ctx context.Context, plan ParsedPlan, req TripRequest, candidates []llm.Backend) ReconcileResult {
	days := append([]DayPlan(nil), plan.Itinerary...)
	result := ReconcileResult{Plan: ParsedPlan{Hotels: plan.Hotels}}

	if len(days) > req.Days {
		logger.Info("truncating extra itinerary days", "requested", req.Days, "produced", len(days))
		days = days[:req.Days]
	}

	if len(days) < req.Days && ctx.Err() == nil {
		result.ContinuationUsed = true
		slots, attempts := r.continueDays(ctx, req, days, candidates)
		result.Attempts = attempts
		for n := len(days) + 1; n <= req.Days; n++ {
			day, ok := slots[n]
			if !ok {
				day = placeholderDay(req.Destination)
				result.PlaceholderDays++
			}
			days = append(days, day)
		}
	}

	for len(days) < req.Days {
		days = append(days, placeholderDay(req.Destination))
		result.PlaceholderDays++
	}
	if result.PlaceholderDays > 0 {
		logger.Warn("filled itinerary with placeholder days",
			"destination", req.Destination, "placeholders", result.PlaceholderDays)
	}

	relabel(days, 1)
	result.Plan.Itinerary = days
	if result.Plan.Hotels == nil {
		result.Plan.Hotels = []HotelOffer{}
	}
	return result
}

// continueDays requests the missing range once and returns the usable days keyed by day number.
func (r *Reconciler) continueDays(ctx context.Context, req TripRequest, produced []DayPlan, candidates []llm.Backend) (map[int]DayPlan, int) {
	from := len(produced) + 1
	prompt := BuildContinuationPrompt(req, from, req.Days, produced)

	raw, attempts, err := r.invoker.Invoke(ctx, prompt, candidates)
	if err != nil {
		logger.Warn("continuation request failed", "from", from, "to", req.Days, "err", err)
		return nil, attempts
	}

	_, days, err := parseSections(raw.Text)
	if err != nil {
		logger.Warn("continuation response unusable", "backend", raw.Backend, "err", err)
		return nil, attempts
	}

	slots := fitContinuation(days, from, req.Days)
	logger.Info("continuation produced days",
		"backend", raw.Backend, "returned", len(days), "kept", len(slots))
	return slots, attempts
}

// fitContinuation places continuation days into the range from..to. A numbered day
// goes to its own slot and is dropped outside the range, so days the plan already has
// are never repeated. Unnumbered days fill the earliest free slots in order.
func fitContinuation(days []numberedDay, from, to int) map[int]DayPlan {
	slots := make(map[int]DayPlan, to-from+1)
	var loose []DayPlan
	for _, d := range days {
		switch {
		case d.number == 0:
			loose = append(loose, d.plan)
		case d.number < from || d.number > to:
		default:
			if _, taken := slots[d.number]; !taken {
				slots[d.number] = d.plan
			}
		}
	}

	next := from
	for _, d := range loose {
		for next <= to {
			if _, taken := slots[next]; !taken {
				break
			}
			next++
		}
		if next > to {
			break
		}
		slots[next] = d
		next++
	}
	return slots
}

func placeholderDay(destination string) DayPlan {
	return DayPlan{
		Placeholder: true,
		Activities: []Activity{
			{
				Time:        "Morning",
				PlaceName:   fmt.Sprintf("Explore %s", destination),
				Details:     fmt.Sprintf("Free time to wander around %s at your own pace.", destination),
				TicketPrice: "Free",
				TravelTime:  "N/A",
			},
			{
				Time:        "Evening",
				PlaceName:   fmt.Sprintf("Local dining in %s", destination),
				Details:     fmt.Sprintf("Try a local restaurant in %s.", destination),
				TicketPrice: "Free",
				TravelTime:  "N/A",
			},
		},
	}
}
