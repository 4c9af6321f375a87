package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/alex8098/opentable-clone/internal/handler"    // restaurant management handlers
	"github.com/alex8098/opentable-clone/internal/middleware" // JWT + role middlewares
	"github.com/alex8098/opentable-clone/internal/model"
)

// RegisterOwner registers restaurant-management endpoints under /v1.
// All routes require a valid JWT and the OWNER or ADMIN role; row-level
// ownership is enforced inside the handlers so admins can operate on
// any restaurant.
func RegisterOwner(e *echo.Echo, r *handler.RestaurantHandler, t *handler.TableHandler, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOwner, model.RoleAdmin),
	)

	// ---- Restaurants ----
	g.POST("/restaurants", r.Create)
	g.GET("/my/restaurants", r.Mine)
	g.PUT("/restaurants/:id", r.Update)
	g.DELETE("/restaurants/:id", r.Delete)

	// ---- Tables ----
	g.POST("/restaurants/:id/tables", t.Create)
	g.GET("/restaurants/:id/tables", t.List)
	g.PUT("/tables/:id", t.Update)
	g.PATCH("/tables/:id", t.Update)
	g.DELETE("/tables/:id", t.Delete)

	// ---- Bookings at the restaurant ----
	g.GET("/bookings/restaurant/:id", b.ListForRestaurant)
}
