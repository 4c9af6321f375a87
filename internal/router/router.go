package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/alex8098/opentable-clone/internal/handler"    // import the handlers that implement business logic
	"github.com/alex8098/opentable-clone/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/alex8098/opentable-clone/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication‑related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Register, login and refresh do not require an existing session.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout accepts a refresh_token in the body and needs no JWT.
	g.POST("/logout", a.Logout)

	// Profile endpoints require a valid access token of any known role.
	auth := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer, model.RoleOwner, model.RoleAdmin),
	)
	auth.GET("/me", a.Me)
	auth.PUT("/me", a.UpdateMe)
	// Logout-of-all-sessions variant: JWT identifies the user when the
	// body carries no refresh token.
	auth.POST("/logout", a.Logout)
}

// RegisterPublic registers unauthenticated browse endpoints.  Guests can
// search restaurants, view details, read reviews and query availability
// without a session.
func RegisterPublic(e *echo.Echo, r *handler.RestaurantHandler, av *handler.AvailabilityHandler, rv *handler.ReviewHandler) {
	e.GET("/v1/restaurants", r.Search)
	e.GET("/v1/restaurants/:id", r.Get)
	e.GET("/v1/restaurants/:id/availability", av.Slots)
	e.GET("/v1/restaurants/:id/reviews", rv.List)
}
