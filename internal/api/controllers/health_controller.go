package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"wanderai/internal/repositories"
	"wanderai/pkg/utils"
)

const healthTimeout = 2 * time.Second

type HealthController struct {
	tripRepo   repositories.TripRepository
	cache      repositories.TripCache
	candidates []string
}

type HealthReport struct {
	Store      string   `json:"store"`
	Cache      string   `json:"cache"`
	Candidates []string `json:"candidates"`
}

func NewHealthController(tripRepo repositories.TripRepository, cache repositories.TripCache, candidates []string) *HealthController {
	return &HealthController{
		tripRepo:   tripRepo,
		cache:      cache,
		candidates: candidates,
	}
}

// Health godoc
// @Summary Liveness of the trip store and cache
// @Tags Health
// @Produce json
// @Success 200 {object} HealthReport
// @Failure 503 {object} utils.APIResponse
// @Router /health [get]
func (h *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	report := HealthReport{Store: "ok", Cache: "ok", Candidates: h.candidates}

	var g errgroup.Group
	g.Go(func() error {
		err := h.tripRepo.Ping(ctx)
		if err != nil {
			report.Store = err.Error()
		}
		return err
	})
	g.Go(func() error {
		err := h.cache.Ping(ctx)
		if err != nil {
			report.Cache = err.Error()
		}
		return err
	})

	if err := g.Wait(); err != nil {
		utils.RespondWithStatus(c, http.StatusServiceUnavailable, report, "Degraded")
		return
	}
	utils.RespondSuccess(c, report, "OK")
}
