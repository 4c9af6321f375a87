package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alex8098/opentable-clone/internal/booking"
	"github.com/alex8098/opentable-clone/internal/repository"
)

// AvailabilityHandler answers the public availability query: which
// 30-minute slots of a restaurant's opening hours still accept a party
// of the requested size on a given day.
type AvailabilityHandler struct {
	Restaurants *repository.RestaurantRepo
	Bookings    *repository.BookingRepo
	Policy      booking.ConflictPolicy
}

func NewAvailabilityHandler(r *repository.RestaurantRepo, b *repository.BookingRepo, pol booking.ConflictPolicy) *AvailabilityHandler {
	if r == nil || b == nil {
		panic("nil repository passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{Restaurants: r, Bookings: b, Policy: pol}
}

// Slots handles GET /v1/restaurants/:id/availability.
// Query parameters: date (YYYY-MM-DD, required) and party_size
// (defaults to 2).
func (h *AvailabilityHandler) Slots(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	date := c.QueryParam("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	partySize := 2
	if raw := c.QueryParam("party_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid party_size"})
		}
		partySize = n
	}
	if partySize < booking.MinPartySize || partySize > booking.MaxPartySize {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "party_size must be between 1 and 20"})
	}

	ctx := c.Request().Context()
	rest, err := h.Restaurants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	existing, err := h.Bookings.SlotBookings(ctx, id, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	slots := booking.AvailableSlots(
		booking.Capacity{TotalTables: rest.TotalTables, Seats: rest.Capacity},
		rest.OpeningTime, rest.ClosingTime, existing, h.Policy,
	)
	// A party larger than the whole restaurant never fits.
	if partySize > rest.Capacity {
		slots = []string{}
	} else if partySize > 1 {
		filtered := make([]string, 0, len(slots))
		for _, s := range slots {
			if booking.Check(booking.Capacity{TotalTables: rest.TotalTables, Seats: rest.Capacity},
				existing, s, partySize, h.Policy) == nil {
				filtered = append(filtered, s)
			}
		}
		slots = filtered
	}

	return c.JSON(http.StatusOK, echo.Map{
		"restaurant_id":   id,
		"date":            date,
		"party_size":      partySize,
		"available_slots": slots,
	})
}
