package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wanderai/internal/models/request_models"
	"wanderai/internal/services"
	"wanderai/pkg/middleware"
	"wanderai/pkg/utils"
)

type TripController struct {
	tripService services.TripServiceInterface
}

func NewTripController(tripService services.TripServiceInterface) *TripController {
	return &TripController{
		tripService: tripService,
	}
}

// GenerateTrip godoc
// @Summary Generate a trip
// @Description Generate hotels and a day-by-day itinerary for a destination
// @Tags Trips
// @Accept json
// @Produce json
// @Param request body request_models.GenerateTripRequest true "Destination, days, traveler type and budget"
// @Success 201 {object} response_models.TripResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips/generate [post]
func (t *TripController) GenerateTrip(c *gin.Context) {
	var req request_models.GenerateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "destination, days, travelerType and budget are required")
		return
	}

	owner := services.Identity{
		UserID: c.GetString(middleware.UserIDKey),
		Email:  c.GetString(middleware.UserEmailKey),
	}

	trip, err := t.tripService.GenerateTrip(c.Request.Context(), owner, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondWithStatus(c, http.StatusCreated, trip, "Trip generated successfully")
}

// GetTrip godoc
// @Summary Get trip by ID
// @Tags Trips
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {object} response_models.TripResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips/{tripId} [get]
func (t *TripController) GetTrip(c *gin.Context) {
	tripId := c.Param("tripId")
	if tripId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Trip ID is required")
		return
	}

	trip, err := t.tripService.GetTrip(c.Request.Context(), c.GetString(middleware.UserIDKey), tripId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, trip, "Trip fetched successfully")
}

// ListMyTrips godoc
// @Summary List trips of the authenticated user
// @Tags Trips
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {array} response_models.TripSummary
// @Security BearerAuth
// @Router /trips [get]
func (t *TripController) ListMyTrips(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page number")
		return
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page size (must be 1-100)")
		return
	}

	trips, err := t.tripService.ListTrips(c.Request.Context(), c.GetString(middleware.UserIDKey), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, trips, "Trips fetched successfully")
}

// SearchTrips godoc
// @Summary Find the authenticated user's trips that visit a place
// @Tags Trips
// @Produce json
// @Param place query string true "Place name"
// @Param limit query int false "Maximum results" default(20)
// @Success 200 {array} response_models.TripSummary
// @Security BearerAuth
// @Router /trips/search [get]
func (t *TripController) SearchTrips(c *gin.Context) {
	var query request_models.SearchTripsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "place is required")
		return
	}

	trips, err := t.tripService.SearchTripsByPlace(c.Request.Context(), c.GetString(middleware.UserIDKey), query.Place, query.Limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, trips, "Trips fetched successfully")
}
