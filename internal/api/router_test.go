package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderai/internal/api"
	"wanderai/internal/api/controllers"
	"wanderai/internal/models/db_models"
	"wanderai/internal/models/request_models"
	"wanderai/internal/models/response_models"
	"wanderai/internal/planner"
	"wanderai/internal/services"
	"wanderai/pkg/middleware"
	"wanderai/pkg/utils"
)

var jwtSecret = []byte("router-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeTripService struct {
	generated   []services.Identity
	lastRequest request_models.GenerateTripRequest
	generateErr error
	trip        *response_models.TripResponse
	listOwner   string
	listPage    int
	listSize    int
	searchPlace string
	searchOwner string
}

func (f *fakeTripService) GenerateTrip(_ context.Context, owner services.Identity, req request_models.GenerateTripRequest) (*response_models.TripResponse, error) {
	f.generated = append(f.generated, owner)
	f.lastRequest = req
	if f.generateErr != nil {
		return nil, f.generateErr
	}
	return f.trip, nil
}

func (f *fakeTripService) GetTrip(_ context.Context, ownerID string, tripID string) (*response_models.TripResponse, error) {
	if f.trip == nil || f.trip.ID != tripID || f.trip.OwnerID != ownerID {
		return nil, utils.ErrTripNotFound
	}
	return f.trip, nil
}

func (f *fakeTripService) ListTrips(_ context.Context, ownerID string, page int, pageSize int) ([]response_models.TripSummary, error) {
	f.listOwner, f.listPage, f.listSize = ownerID, page, pageSize
	if pageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}
	return []response_models.TripSummary{{ID: f.trip.ID, Destination: f.trip.Destination}}, nil
}

func (f *fakeTripService) SearchTripsByPlace(_ context.Context, ownerID string, place string, _ int) ([]response_models.TripSummary, error) {
	f.searchOwner, f.searchPlace = ownerID, place
	return []response_models.TripSummary{}, nil
}

type pingable struct{ err error }

func (p pingable) CreateTrip(context.Context, *db_models.Trip) error { return nil }
func (p pingable) GetTripByID(context.Context, uuid.UUID) (*db_models.Trip, error) {
	return nil, nil
}
func (p pingable) ListTripsByOwner(context.Context, string, int, int) ([]db_models.Trip, error) {
	return nil, nil
}
func (p pingable) ListTripsVisiting(context.Context, string, string, int) ([]db_models.Trip, error) {
	return nil, nil
}
func (p pingable) Ping(context.Context) error { return p.err }

type fakeCache struct{ err error }

func (c fakeCache) Get(context.Context, string) (*response_models.TripResponse, error) {
	return nil, nil
}
func (c fakeCache) Set(context.Context, *response_models.TripResponse) error { return nil }
func (c fakeCache) Delete(context.Context, string) error { return nil }
func (c fakeCache) Ping(context.Context) error { return c.err }

func sampleTrip() *response_models.TripResponse {
	return &response_models.TripResponse{
		ID:           uuid.NewString(),
		OwnerID:      "user-1",
		Destination:  "Paris",
		Days:         2,
		TravelerType: "Couple",
		Budget:       "Luxury",
		Status:       response_models.TripStatusGenerated,
		Hotels:       []planner.HotelOffer{{Name: "Hotel A"}},
		Itinerary:    []planner.DayPlan{{Day: "Day 1"}, {Day: "Day 2"}},
		Metadata:     planner.GenerationMetadata{RequestedDays: 2, GeneratedDays: 2, Success: true},
	}
}

func newTestRouter(svc *fakeTripService, storeErr error, perMinute int) *gin.Engine {
	return api.NewRouter(
		jwtSecret,
		middleware.NewRateLimiter(perMinute),
		controllers.NewTripController(svc),
		controllers.NewHealthController(pingable{err: storeErr}, fakeCache{}, []string{"gemini:gemini-1.5-flash"}),
	)
}

func bearer(t *testing.T, uid string) string {
	t.Helper()
	token, err := utils.CreateToken(jwtSecret, uid, uid+"@example.com", time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func do(r *gin.Engine, method, path, body, auth string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const generateBody = `{"destination":"Paris","days":2,"travelerType":"Couple","budget":"Luxury"}`

func TestGenerateTripRoute(t *testing.T) {
	svc := &fakeTripService{trip: sampleTrip()}
	r := newTestRouter(svc, nil, 10)

	w := do(r, http.MethodPost, "/api/trips/generate", generateBody, bearer(t, "user-1"))
	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Code    int                          `json:"code"`
		TraceID string                       `json:"trace_id"`
		Data    response_models.TripResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusCreated, body.Code)
	assert.NotEmpty(t, body.TraceID)
	assert.Equal(t, "Paris", body.Data.Destination)
	assert.Len(t, body.Data.Itinerary, 2)

	require.Len(t, svc.generated, 1)
	assert.Equal(t, "user-1", svc.generated[0].UserID)
	assert.Equal(t, "user-1@example.com", svc.generated[0].Email)
	assert.Equal(t, 2, svc.lastRequest.Days)
}

func TestGenerateTripRoute_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		auth   bool
		err    error
		status int
	}{
		{"no token", generateBody, false, nil, http.StatusUnauthorized},
		{"missing fields", `{"destination":"Paris"}`, true, nil, http.StatusBadRequest},
		{"invalid input", generateBody, true, utils.ErrInvalidInput, http.StatusBadRequest},
		{"backends exhausted", generateBody, true, errors.Join(utils.ErrGenerationFailed, planner.ErrAllBackendsExhausted), http.StatusBadGateway},
		{"timeout", generateBody, true, context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"store down", generateBody, true, utils.ErrDatabaseError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeTripService{trip: sampleTrip(), generateErr: tt.err}
			r := newTestRouter(svc, nil, 10)
			auth := ""
			if tt.auth {
				auth = bearer(t, "user-1")
			}
			w := do(r, http.MethodPost, "/api/trips/generate", tt.body, auth)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestGenerateTripRoute_RateLimited(t *testing.T) {
	svc := &fakeTripService{trip: sampleTrip()}
	r := newTestRouter(svc, nil, 1)
	auth := bearer(t, "user-1")

	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/trips/generate", generateBody, auth).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/api/trips/generate", generateBody, auth).Code)
	assert.Len(t, svc.generated, 1)

	// limits are per user
	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/trips/generate", generateBody, bearer(t, "user-2")).Code)
}

func TestGetTripRoute(t *testing.T) {
	svc := &fakeTripService{trip: sampleTrip()}
	r := newTestRouter(svc, nil, 10)

	w := do(r, http.MethodGet, "/api/trips/"+svc.trip.ID, "", bearer(t, "user-1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), svc.trip.ID)

	w = do(r, http.MethodGet, "/api/trips/"+uuid.NewString(), "", bearer(t, "user-1"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	// trips are private to their owner
	w = do(r, http.MethodGet, "/api/trips/"+svc.trip.ID, "", bearer(t, "user-2"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(r, http.MethodGet, "/api/trips/"+svc.trip.ID, "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListMyTripsRoute(t *testing.T) {
	svc := &fakeTripService{trip: sampleTrip()}
	r := newTestRouter(svc, nil, 10)

	w := do(r, http.MethodGet, "/api/trips?page=2&pageSize=5", "", bearer(t, "user-7"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-7", svc.listOwner)
	assert.Equal(t, 2, svc.listPage)
	assert.Equal(t, 5, svc.listSize)

	w = do(r, http.MethodGet, "/api/trips", "", bearer(t, "user-7"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.listPage)
	assert.Equal(t, 10, svc.listSize)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/trips?page=x", "", bearer(t, "user-7")).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/trips?pageSize=500", "", bearer(t, "user-7")).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/trips", "", "").Code)
}

func TestSearchTripsRoute(t *testing.T) {
	svc := &fakeTripService{trip: sampleTrip()}
	r := newTestRouter(svc, nil, 10)

	w := do(r, http.MethodGet, "/api/trips/search?place=Louvre", "", bearer(t, "user-3"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Louvre", svc.searchPlace)
	assert.Equal(t, "user-3", svc.searchOwner)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/trips/search", "", bearer(t, "user-3")).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/trips/search?place=Louvre", "", "").Code)
}

func TestHealthRoute(t *testing.T) {
	r := newTestRouter(&fakeTripService{}, nil, 10)
	w := do(r, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gemini:gemini-1.5-flash")

	r = newTestRouter(&fakeTripService{}, errors.New("connection refused"), 10)
	w = do(r, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}
