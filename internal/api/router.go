package api

import (
	"github.com/gin-gonic/gin"

	"wanderai/internal/api/controllers"
	"wanderai/pkg/middleware"
)

func NewRouter(
	jwtSecret []byte,
	limiter *middleware.RateLimiter,
	tripController *controllers.TripController,
	healthController *controllers.HealthController) *gin.Engine {

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	RegisterRoutes(r, jwtSecret, limiter, tripController, healthController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	jwtSecret []byte,
	limiter *middleware.RateLimiter,
	tripController *controllers.TripController,
	healthController *controllers.HealthController) {

	apiGroup := r.Group("/api")
	apiGroup.GET("/health", healthController.Health)

	tripsGroup := apiGroup.Group("/trips", middleware.JWTAuthMiddleware(jwtSecret))
	tripsGroup.GET("", tripController.ListMyTrips)
	tripsGroup.GET("/search", tripController.SearchTrips)
	tripsGroup.GET("/:tripId", tripController.GetTrip)
	tripsGroup.POST("/generate", limiter.Limit(), tripController.GenerateTrip)
}
