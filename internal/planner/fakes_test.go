package planner_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"wanderai/pkg/llm"
)

type reply struct {
	text string
	err  error
}

// scriptedBackend answers Generate calls from a fixed list of replies.
type scriptedBackend struct {
	id string

	mu      sync.Mutex
	replies []reply
	prompts []string
}

func newBackend(id string, replies ...reply) *scriptedBackend {
	return &scriptedBackend{id: id, replies: replies}
}

func (b *scriptedBackend) ID() string { return b.id }

func (b *scriptedBackend) Generate(ctx context.Context, prompt string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.prompts = append(b.prompts, prompt)
	if len(b.replies) == 0 {
		return "", &llm.BackendError{Backend: b.id, Reason: llm.ReasonPermanent, Err: errors.New("no scripted reply")}
	}
	r := b.replies[0]
	b.replies = b.replies[1:]
	return r.text, r.err
}

func (b *scriptedBackend) calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.prompts)
}

func (b *scriptedBackend) prompt(i int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.prompts[i]
}

// blockingBackend waits for its context to end.
type blockingBackend struct{ id string }

func (b blockingBackend) ID() string { return b.id }

func (b blockingBackend) Generate(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func ok(text string) reply { return reply{text: text} }

func fail(reason llm.Reason) reply {
	return reply{err: &llm.BackendError{Reason: reason, Err: fmt.Errorf("%s failure", reason)}}
}

func backends(bs ...*scriptedBackend) []llm.Backend {
	out := make([]llm.Backend, 0, len(bs))
	for _, b := range bs {
		out = append(out, b)
	}
	return out
}

// planJSON renders a response in the prompt schema with the given hotel count and day numbers.
func planJSON(hotels int, dayNumbers ...int) string {
	var hs []string
	for i := 1; i <= hotels; i++ {
		hs = append(hs, fmt.Sprintf(`{"hotelName":"Hotel %d","hotelAddress":"%d Rue Test","price":"$%d0-$%d5","hotelImageUrl":"https://img/%d.jpg","geoCoordinates":{"latitude":48.8%d,"longitude":2.3%d},"rating":4.%d,"description":"Nice"}`,
			i, i, i, i, i, i, i, i))
	}
	var ds []string
	for _, n := range dayNumbers {
		ds = append(ds, fmt.Sprintf(`{"day":"Day %d","plan":[{"time":"Morning","placeName":"Place %d-A","placeDetails":"Visit","placeImageUrl":"","geoCoordinates":{"latitude":48.86,"longitude":2.35},"ticketPricing":"Free","timeToTravel":"10 min"},{"time":"Evening","placeName":"Place %d-B","placeDetails":"Dinner","ticketPricing":"$20","timeToTravel":"5 min"}]}`,
			n, n, n))
	}
	return fmt.Sprintf(`{"hotels":[%s],"itinerary":[%s]}`, strings.Join(hs, ","), strings.Join(ds, ","))
}

func continuationJSON(dayNumbers ...int) string {
	full := planJSON(0, dayNumbers...)
	return strings.Replace(full, `"hotels":[],`, "", 1)
}

func seq(from, to int) []int {
	var out []int
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}
