package api

import (
	"net/http"

	"ride-hailing/internal/api/middleware"
	"ride-hailing/internal/models"
	"ride-hailing/internal/modules/captains"
	"ride-hailing/internal/modules/rides"
	"ride-hailing/internal/modules/users"
	"ride-hailing/internal/ws"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes sets up all the API endpoints for the application.
func SetupRoutes(
	e *echo.Echo,
	jwtSecret string,
	userHandler *users.Handler,
	captainHandler *captains.Handler,
	rideHandler *rides.Handler,
	hub *ws.Hub,
) {
	authMiddleware := middleware.JWTAuth(jwtSecret)
	captainOnly := middleware.RoleRequired(models.RoleCaptain)
	userOnly := middleware.RoleRequired(models.RoleUser)
	adminOnly := middleware.RoleRequired(models.RoleAdmin)

	// --- Public Routes ---
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Socket relay: free-form payloads broadcast to every connected client,
	// never interpreted by the ride core.
	e.GET("/ws", ws.Serve(hub))

	v1 := e.Group("/api/v1")

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", userHandler.Signup)
		authGroup.POST("/login", userHandler.Login)
		authGroup.GET("/google", userHandler.GoogleLogin)
		authGroup.GET("/google/callback", userHandler.GoogleCallback)
	}

	captainGroup := v1.Group("/captain")
	{
		captainGroup.POST("/register", captainHandler.Register)
		captainGroup.POST("/login", captainHandler.Login)
		captainGroup.GET("/profile", captainHandler.GetMyProfile, authMiddleware, captainOnly)
		captainGroup.PATCH("/status", captainHandler.UpdateMyStatus, authMiddleware, captainOnly)
	}

	profileGroup := v1.Group("/profile", authMiddleware, userOnly)
	{
		profileGroup.GET("", userHandler.GetMyProfile)
		profileGroup.PUT("", userHandler.UpdateMyProfile)
	}

	// operations read surface over riders
	usersGroup := v1.Group("/users", authMiddleware, adminOnly)
	{
		usersGroup.GET("", userHandler.ListUsers)
		usersGroup.GET("/:userId", userHandler.GetUser)
	}

	// --- Ride Routes ---
	// Actor ids come from the token; bodies never carry them.
	rideGroup := v1.Group("/rides", authMiddleware)
	{
		rideGroup.POST("/request", rideHandler.RequestRide, userOnly)
		rideGroup.POST("/accept/:rideId", rideHandler.AcceptRide, captainOnly)
		rideGroup.POST("/decline/:rideId", rideHandler.DeclineRide, captainOnly)
		rideGroup.POST("/start/:rideId", rideHandler.StartRide, captainOnly)
		rideGroup.POST("/complete/:rideId", rideHandler.CompleteRide, captainOnly)
		rideGroup.POST("/cancel/:rideId", rideHandler.CancelRide, userOnly)
		rideGroup.POST("/retry/:rideId", rideHandler.RetryRide, userOnly)
		rideGroup.GET("", rideHandler.ListMyRides)
		rideGroup.GET("/status/:rideId", rideHandler.GetRideStatus)
		rideGroup.GET("/:rideId", rideHandler.GetRideDetails)

		// reconciliation escape hatch, admin-only
		rideGroup.POST("/update/:rideId", rideHandler.OverrideRideStatus, adminOnly)
	}
}
