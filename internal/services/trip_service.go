package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"wanderai/internal/models/db_models"
	"wanderai/internal/models/request_models"
	"wanderai/internal/models/response_models"
	"wanderai/internal/planner"
	"wanderai/internal/repositories"
	"wanderai/pkg/logger"
	"wanderai/pkg/utils"
)

const (
	maxPageSize     = 100
	defaultSearchN  = 20
	maxSearchResult = 100
)

// Identity is the caller as asserted by the identity provider.
type Identity struct {
	UserID string
	Email  string
}

// TravelPlanGenerator is satisfied by *planner.Planner.
type TravelPlanGenerator interface {
	GenerateTravelPlan(ctx context.Context, destination string, days int, traveler planner.TravelerType, budget planner.BudgetTier) (*planner.TravelPlan, error)
}

type TripServiceInterface interface {
	GenerateTrip(ctx context.Context, owner Identity, req request_models.GenerateTripRequest) (*response_models.TripResponse, error)
	GetTrip(ctx context.Context, ownerID string, tripID string) (*response_models.TripResponse, error)
	ListTrips(ctx context.Context, ownerID string, page int, pageSize int) ([]response_models.TripSummary, error)
	SearchTripsByPlace(ctx context.Context, ownerID string, place string, limit int) ([]response_models.TripSummary, error)
}

type TripService struct {
	generator TravelPlanGenerator
	tripRepo  repositories.TripRepository
	cache     repositories.TripCache
	maxDays   int
}

func NewTripService(
	generator TravelPlanGenerator,
	tripRepo repositories.TripRepository,
	cache repositories.TripCache,
	maxDays int,
) TripServiceInterface {
	if maxDays <= 0 {
		maxDays = planner.DefaultMaxDays
	}
	return &TripService{
		generator: generator,
		tripRepo:  tripRepo,
		cache:     cache,
		maxDays:   maxDays,
	}
}

func (s *TripService) GenerateTrip(ctx context.Context, owner Identity, req request_models.GenerateTripRequest) (*response_models.TripResponse, error) {
	if owner.UserID == "" {
		return nil, utils.ErrUnauthorized
	}

	traveler, err := planner.ParseTravelerType(req.TravelerType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrInvalidInput, err)
	}
	budget, err := planner.ParseBudgetTier(req.Budget)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrInvalidInput, err)
	}
	tripReq := planner.TripRequest{
		Destination: strings.TrimSpace(req.Destination),
		Days:        req.Days,
		Traveler:    traveler,
		Budget:      budget,
	}
	if err := tripReq.Validate(s.maxDays); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrInvalidInput, err)
	}

	plan, err := s.generator.GenerateTravelPlan(ctx, tripReq.Destination, tripReq.Days, tripReq.Traveler, tripReq.Budget)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		case errors.Is(err, planner.ErrInvalidRequest):
			return nil, fmt.Errorf("%w: %v", utils.ErrInvalidInput, err)
		default:
			return nil, fmt.Errorf("%w: %v", utils.ErrGenerationFailed, err)
		}
	}

	planJSON, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}

	trip := &db_models.Trip{
		OwnerID:         owner.UserID,
		OwnerEmail:      owner.Email,
		Destination:     tripReq.Destination,
		Days:            tripReq.Days,
		TravelerType:    string(tripReq.Traveler),
		Budget:          string(tripReq.Budget),
		Status:          statusOf(plan),
		Success:         plan.Metadata.Success,
		PlaceholderDays: plan.Metadata.PlaceholderDays,
		Backend:         plan.Metadata.Backend,
		Places:          placesOf(plan),
		Plan:            datatypes.JSON(planJSON),
	}
	trip.ID = uuid.New()

	if err := s.tripRepo.CreateTrip(ctx, trip); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	out := toTripResponse(trip, plan)
	if err := s.cache.Set(ctx, out); err != nil {
		logger.Warn("could not cache trip", "trip_id", out.ID, "err", err)
	}
	return out, nil
}

// GetTrip returns the trip only to its owner. Other callers get ErrTripNotFound.
func (s *TripService) GetTrip(ctx context.Context, ownerID string, tripID string) (*response_models.TripResponse, error) {
	if ownerID == "" {
		return nil, utils.ErrUnauthorized
	}
	id, err := uuid.Parse(strings.TrimSpace(tripID))
	if err != nil {
		return nil, fmt.Errorf("%w: trip id must be a uuid", utils.ErrInvalidInput)
	}

	cached, err := s.cache.Get(ctx, id.String())
	switch {
	case errors.Is(err, repositories.ErrCorruptCacheEntry):
		logger.Warn("evicting unreadable cached trip", "trip_id", id, "err", err)
		if err := s.cache.Delete(ctx, id.String()); err != nil {
			logger.Warn("trip cache eviction failed", "trip_id", id, "err", err)
		}
	case err != nil:
		logger.Warn("trip cache read failed", "trip_id", id, "err", err)
	case cached != nil:
		if cached.OwnerID != ownerID {
			return nil, utils.ErrTripNotFound
		}
		return cached, nil
	}

	trip, err := s.tripRepo.GetTripByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if trip == nil || trip.OwnerID != ownerID {
		return nil, utils.ErrTripNotFound
	}

	var plan planner.TravelPlan
	if err := json.Unmarshal(trip.Plan, &plan); err != nil {
		return nil, fmt.Errorf("%w: decode plan of trip %s: %v", utils.ErrDatabaseError, id, err)
	}

	out := toTripResponse(trip, &plan)
	if err := s.cache.Set(ctx, out); err != nil {
		logger.Warn("could not cache trip", "trip_id", out.ID, "err", err)
	}
	return out, nil
}

func (s *TripService) ListTrips(ctx context.Context, ownerID string, page int, pageSize int) ([]response_models.TripSummary, error) {
	if ownerID == "" {
		return nil, utils.ErrUnauthorized
	}
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > maxPageSize {
		return nil, utils.ErrInvalidPageSize
	}

	trips, err := s.tripRepo.ListTripsByOwner(ctx, ownerID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return toSummaries(trips), nil
}

func (s *TripService) SearchTripsByPlace(ctx context.Context, ownerID string, place string, limit int) ([]response_models.TripSummary, error) {
	if ownerID == "" {
		return nil, utils.ErrUnauthorized
	}
	place = strings.TrimSpace(place)
	if place == "" {
		return nil, fmt.Errorf("%w: place is required", utils.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultSearchN
	}
	if limit > maxSearchResult {
		limit = maxSearchResult
	}

	trips, err := s.tripRepo.ListTripsVisiting(ctx, ownerID, place, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return toSummaries(trips), nil
}

func statusOf(plan *planner.TravelPlan) string {
	switch {
	case plan.Metadata.PlaceholderDays > 0:
		return response_models.TripStatusWithPlaceholders
	case !plan.Metadata.Success:
		return response_models.TripStatusIncomplete
	}
	return response_models.TripStatusGenerated
}

// placesOf lists the distinct place names of real (non-placeholder) days in visit order.
func placesOf(plan *planner.TravelPlan) []string {
	seen := make(map[string]bool)
	places := []string{}
	for _, day := range plan.Itinerary {
		if day.Placeholder {
			continue
		}
		for _, a := range day.Activities {
			if a.PlaceName == "" || seen[a.PlaceName] {
				continue
			}
			seen[a.PlaceName] = true
			places = append(places, a.PlaceName)
		}
	}
	return places
}

func toTripResponse(trip *db_models.Trip, plan *planner.TravelPlan) *response_models.TripResponse {
	return &response_models.TripResponse{
		ID:           trip.ID.String(),
		OwnerID:      trip.OwnerID,
		OwnerEmail:   trip.OwnerEmail,
		Destination:  trip.Destination,
		Days:         trip.Days,
		TravelerType: trip.TravelerType,
		Budget:       trip.Budget,
		Status:       trip.Status,
		Hotels:       plan.Hotels,
		Itinerary:    plan.Itinerary,
		Metadata:     plan.Metadata,
		CreatedAt:    trip.CreatedAt,
	}
}

func toSummaries(trips []db_models.Trip) []response_models.TripSummary {
	out := make([]response_models.TripSummary, 0, len(trips))
	for _, t := range trips {
		out = append(out, response_models.TripSummary{
			ID:           t.ID.String(),
			Destination:  t.Destination,
			Days:         t.Days,
			TravelerType: t.TravelerType,
			Budget:       t.Budget,
			Status:       t.Status,
			Success:      t.Success,
			CreatedAt:    t.CreatedAt,
		})
	}
	return out
}
