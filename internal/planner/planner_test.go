package planner_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderai/internal/planner"
	"wanderai/pkg/llm"
)

func newTestPlanner(candidates []llm.Backend) *planner.Planner {
	return planner.NewPlanner(candidates, planner.Config{}, planner.WithBackoff(0, 0))
}

func TestGenerateTravelPlanParisScenario(t *testing.T) {
	budget, err := planner.ParseBudgetTier("Budget-Friendly")
	require.NoError(t, err)
	backend := newBackend("gemini:gemini-2.0-flash",
		ok("```json\n"+planJSON(2, 1, 2, 3)+"\n```"),
		ok(continuationJSON(4, 5)),
	)

	plan, err := newTestPlanner(backends(backend)).
		GenerateTravelPlan(context.Background(), "Paris", 5, planner.TravelerSolo, budget)

	require.NoError(t, err)
	require.Len(t, plan.Itinerary, 5)
	assert.Equal(t, []string{"Day 1", "Day 2", "Day 3", "Day 4", "Day 5"}, dayLabels(plan.Itinerary))
	assert.Len(t, plan.Hotels, 2)

	meta := plan.Metadata
	assert.Equal(t, 5, meta.RequestedDays)
	assert.Equal(t, 5, meta.GeneratedDays)
	assert.Equal(t, 2, meta.GeneratedHotels)
	assert.Zero(t, meta.PlaceholderDays)
	assert.True(t, meta.ContinuationUsed)
	assert.Equal(t, 2, meta.Attempts)
	assert.Equal(t, "gemini:gemini-2.0-flash", meta.Backend)
	assert.False(t, meta.Success)
}

func TestGenerateTravelPlanSuccess(t *testing.T) {
	backend := newBackend("gemini:a", ok(planJSON(3, 1, 2)))

	plan, err := newTestPlanner(backends(backend)).
		GenerateTravelPlan(context.Background(), "Rome", 2, planner.TravelerCouple, planner.BudgetLuxury)

	require.NoError(t, err)
	assert.True(t, plan.Metadata.Success)
	assert.False(t, plan.Metadata.ContinuationUsed)
	assert.Equal(t, 1, plan.Metadata.Attempts)
	assert.Contains(t, backend.prompt(0), "Rome")
}

func TestGenerateTravelPlanPlaceholdersMarkFailure(t *testing.T) {
	backend := newBackend("gemini:a", ok(planJSON(3, 1)), fail(llm.ReasonPermanent))

	plan, err := newTestPlanner(backends(backend)).
		GenerateTravelPlan(context.Background(), "Oslo", 3, planner.TravelerFamily, planner.BudgetMedium)

	require.NoError(t, err)
	require.Len(t, plan.Itinerary, 3)
	assert.Equal(t, 2, plan.Metadata.PlaceholderDays)
	assert.Equal(t, 1, plan.Metadata.GeneratedDays)
	assert.False(t, plan.Metadata.Success)
}

func TestGenerateTravelPlanUnparseableFirstResponse(t *testing.T) {
	backend := newBackend("gemini:a", ok("no json here"), ok(planJSON(0, 1, 2)))

	plan, err := newTestPlanner(backends(backend)).
		GenerateTravelPlan(context.Background(), "Cairo", 2, planner.TravelerFriends, planner.BudgetLow)

	require.NoError(t, err)
	require.Len(t, plan.Itinerary, 2)
	assert.Zero(t, plan.Metadata.PlaceholderDays)
	assert.Empty(t, plan.Hotels)
	assert.False(t, plan.Metadata.Success)
}

func TestGenerateTravelPlanExhausted(t *testing.T) {
	a := newBackend("gemini:a", fail(llm.ReasonPermanent))
	b := newBackend("gemini:b", fail(llm.ReasonQuota))

	plan, err := newTestPlanner(backends(a, b)).
		GenerateTravelPlan(context.Background(), "Paris", 3, planner.TravelerSolo, planner.BudgetLow)

	assert.Nil(t, plan)
	assert.ErrorIs(t, err, planner.ErrAllBackendsExhausted)
}

func TestGenerateTravelPlanInvalidRequest(t *testing.T) {
	backend := newBackend("gemini:a")

	_, err := newTestPlanner(backends(backend)).
		GenerateTravelPlan(context.Background(), "Paris", 16, planner.TravelerSolo, planner.BudgetLow)

	assert.ErrorIs(t, err, planner.ErrInvalidRequest)
	assert.Zero(t, backend.calls())
}

func TestGenerateTravelPlanCancelled(t *testing.T) {
	backend := newBackend("gemini:a", ok(planJSON(3, 1, 2)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	plan, err := newTestPlanner(backends(backend)).
		GenerateTravelPlan(ctx, "Paris", 2, planner.TravelerSolo, planner.BudgetLow)

	assert.Nil(t, plan)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateTravelPlanDayCountProperty(t *testing.T) {
	for days := 1; days <= 15; days++ {
		backend := newBackend("gemini:a", ok(planJSON(3, seq(1, days/2)...)), ok(continuationJSON(1)))

		plan, err := newTestPlanner(backends(backend)).
			GenerateTravelPlan(context.Background(), "Hanoi", days, planner.TravelerSolo, planner.BudgetLow)

		require.NoError(t, err)
		require.Len(t, plan.Itinerary, days)
		for i, d := range plan.Itinerary {
			assert.Equal(t, planner.DayLabel(i+1), d.Day)
		}
		assert.Equal(t, plan.Metadata.PlaceholderDays == 0 && len(plan.Hotels) >= 3, plan.Metadata.Success)
	}
}

func TestPlannerCandidates(t *testing.T) {
	p := newTestPlanner(backends(newBackend("gemini:a"), newBackend("claude:b")))

	assert.Equal(t, []string{"gemini:a", "claude:b"}, p.Candidates())
	assert.Equal(t, planner.DefaultMaxDays, p.MaxDays())
}
