package response_models

import "wanderai/internal/planner"

const (
	TripStatusGenerated        = "generated"
	TripStatusWithPlaceholders = "generated_with_placeholders"
	TripStatusIncomplete       = "generated_incomplete" // all days real, too few hotels
)

type TripResponse struct {
	ID           string                     `json:"id"`
	OwnerID      string                     `json:"ownerId"`
	OwnerEmail   string                     `json:"ownerEmail,omitempty"`
	Destination  string                     `json:"destination"`
	Days         int                        `json:"days"`
	TravelerType string                     `json:"travelerType"`
	Budget       string                     `json:"budget"`
	Status       string                     `json:"status"`
	Hotels       []planner.HotelOffer       `json:"hotels"`
	Itinerary    []planner.DayPlan          `json:"itinerary"`
	Metadata     planner.GenerationMetadata `json:"metadata"`
	CreatedAt    int64                      `json:"createdAt"`
}

type TripSummary struct {
	ID           string `json:"id"`
	Destination  string `json:"destination"`
	Days         int    `json:"days"`
	TravelerType string `json:"travelerType"`
	Budget       string `json:"budget"`
	Status       string `json:"status"`
	Success      bool   `json:"success"`
	CreatedAt    int64  `json:"createdAt"`
}
