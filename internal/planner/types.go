package planner

import (
	"fmt"
	"strings"
)

type TravelerType string

const (
	TravelerSolo    TravelerType = "Solo"
	TravelerCouple  TravelerType = "Couple"
	TravelerFamily  TravelerType = "Family"
	TravelerFriends TravelerType = "Friends"
)

// Describe is the phrase used inside prompts.
func (t TravelerType) Describe() string {
	switch t {
	case TravelerSolo:
		return "a solo traveler"
	case TravelerCouple:
		return "a couple"
	case TravelerFamily:
		return "a family with kids"
	case TravelerFriends:
		return "a group of friends"
	}
	return string(t)
}

type BudgetTier string

const (
	BudgetLow    BudgetTier = "Budget"
	BudgetMedium BudgetTier = "Mid-Range"
	BudgetLuxury BudgetTier = "Luxury"
)

func (b BudgetTier) Describe() string {
	switch b {
	case BudgetLow:
		return "a cheap, budget-conscious"
	case BudgetMedium:
		return "a moderate, mid-range"
	case BudgetLuxury:
		return "a luxury, high-end"
	}
	return string(b)
}

// ParseTravelerType accepts canonical names and the phrasings used by the trip form.
func ParseTravelerType(s string) (TravelerType, error) {
	switch normalizeToken(s) {
	case "solo", "just me", "me", "alone", "single":
		return TravelerSolo, nil
	case "couple", "a couple", "two", "partner":
		return TravelerCouple, nil
	case "family", "families", "family with kids":
		return TravelerFamily, nil
	case "friends", "group", "group of friends":
		return TravelerFriends, nil
	}
	return "", fmt.Errorf("%w: unknown traveler type %q", ErrInvalidRequest, s)
}

func ParseBudgetTier(s string) (BudgetTier, error) {
	switch normalizeToken(s) {
	case "budget", "cheap", "budget friendly", "low", "economy":
		return BudgetLow, nil
	case "mid range", "midrange", "moderate", "medium", "standard":
		return BudgetMedium, nil
	case "luxury", "high end", "premium", "expensive":
		return BudgetLuxury, nil
	}
	return "", fmt.Errorf("%w: unknown budget tier %q", ErrInvalidRequest, s)
}

func normalizeToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// TripRequest is a single generation request. Treat it as immutable.
type TripRequest struct {
	Destination string
	Days        int
	Traveler    TravelerType
	Budget      BudgetTier
}

func (r TripRequest) Validate(maxDays int) error {
	if strings.TrimSpace(r.Destination) == "" {
		return fmt.Errorf("%w: destination is required", ErrInvalidRequest)
	}
	if r.Days < 1 || (maxDays > 0 && r.Days > maxDays) {
		return fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidRequest, maxDays)
	}
	if _, err := ParseTravelerType(string(r.Traveler)); err != nil {
		return err
	}
	if _, err := ParseBudgetTier(string(r.Budget)); err != nil {
		return err
	}
	return nil
}

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type HotelOffer struct {
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	PriceRange  string   `json:"priceRange"`
	ImageURL    string   `json:"imageUrl"`
	Geo         GeoPoint `json:"geoCoordinates"`
	Rating      float64  `json:"rating"`
	Description string   `json:"description"`
}

type Activity struct {
	Time        string   `json:"time"`
	PlaceName   string   `json:"placeName"`
	Details     string   `json:"placeDetails"`
	ImageURL    string   `json:"placeImageUrl"`
	Geo         GeoPoint `json:"geoCoordinates"`
	TicketPrice string   `json:"ticketPricing"`
	TravelTime  string   `json:"travelTime"`
}

type DayPlan struct {
	Day         string     `json:"day"`
	Activities  []Activity `json:"activities"`
	Placeholder bool       `json:"placeholder,omitempty"`
}

// ParsedPlan is the typed form of a model response. Itinerary order is day order.
type ParsedPlan struct {
	Hotels    []HotelOffer `json:"hotels"`
	Itinerary []DayPlan    `json:"itinerary"`
}

// RawModelResponse is the unparsed text of one successful backend call.
type RawModelResponse struct {
	Text    string
	Backend string
}

type GenerationMetadata struct {
	RequestedDays    int    `json:"requestedDays"`
	GeneratedDays    int    `json:"generatedDays"`
	GeneratedHotels  int    `json:"generatedHotels"`
	PlaceholderDays  int    `json:"placeholderDays"`
	ContinuationUsed bool   `json:"continuationUsed"`
	Attempts         int    `json:"attempts"`
	Backend          string `json:"backend"`
	Success          bool   `json:"success"`
}

type TravelPlan struct {
	Hotels    []HotelOffer       `json:"hotels"`
	Itinerary []DayPlan          `json:"itinerary"`
	Metadata  GenerationMetadata `json:"metadata"`
}

// DayLabel renders the canonical label of day n.
func DayLabel(n int) string { return fmt.Sprintf("Day %d", n) }
