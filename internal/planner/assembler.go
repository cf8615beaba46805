package planner

// Stats carries what the pipeline observed while producing a plan.
type Stats struct {
	Attempts         int
	Backend          string
	PlaceholderDays  int
	ContinuationUsed bool
}

// Assemble merges hotels and the reconciled itinerary and computes the metadata.
// A plan is successful only when every requested day is real model output and
// at least minHotels hotels were suggested.
func Assemble(plan ParsedPlan, req TripRequest, minHotels int, stats Stats) TravelPlan {
	hotels := plan.Hotels
	if hotels == nil {
		hotels = []HotelOffer{}
	}
	itinerary := plan.Itinerary
	if itinerary == nil {
		itinerary = []DayPlan{}
	}

	meta := GenerationMetadata{
		RequestedDays:    req.Days,
		GeneratedDays:    len(itinerary) - stats.PlaceholderDays,
		GeneratedHotels:  len(hotels),
		PlaceholderDays:  stats.PlaceholderDays,
		ContinuationUsed: stats.ContinuationUsed,
		Attempts:         stats.Attempts,
		Backend:          stats.Backend,
	}
	meta.Success = len(itinerary) == req.Days &&
		stats.PlaceholderDays == 0 &&
		len(hotels) >= minHotels

	return TravelPlan{Hotels: hotels, Itinerary: itinerary, Metadata: meta}
}
