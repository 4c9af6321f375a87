package router

import (
	"github.com/labstack/echo/v4"

	"github.com/alex8098/opentable-clone/internal/handler"
	"github.com/alex8098/opentable-clone/internal/middleware"
	"github.com/alex8098/opentable-clone/internal/model"
)

// RegisterCustomer registers booking and review endpoints under /v1.
// Creation and my-bookings are customer operations; the per-booking
// routes accept all roles because owners manage the bookings at their
// restaurants and the handlers resolve the caller into a state-machine
// actor before permitting anything.
func RegisterCustomer(e *echo.Echo, b *handler.BookingHandler, rv *handler.ReviewHandler, jwtSecret string) {
	customer := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer, model.RoleAdmin),
	)
	customer.POST("/bookings", b.Create)
	customer.GET("/bookings/my-bookings", b.ListMine)
	customer.POST("/restaurants/:id/reviews", rv.Create)

	shared := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer, model.RoleOwner, model.RoleAdmin),
	)
	shared.GET("/bookings/:id", b.Get)
	shared.PUT("/bookings/:id", b.Update)
	shared.PATCH("/bookings/:id/status", b.UpdateStatus)
	shared.POST("/bookings/:id/cancel", b.Cancel)
}
