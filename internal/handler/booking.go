package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alex8098/opentable-clone/internal/booking"
	"github.com/alex8098/opentable-clone/internal/model"
	"github.com/alex8098/opentable-clone/internal/queue"
	"github.com/alex8098/opentable-clone/internal/repository"
	queue_publisher "github.com/alex8098/opentable-clone/internal/service"
)

// BookingHandler implements the booking lifecycle: creation with the
// availability check, listing for customers and owners, edits, and
// status transitions.  Creation serializes per restaurant/date/time
// slot via SlotLock and re-reads the restaurant FOR UPDATE inside the
// transaction, so two concurrent requests for the last table cannot
// both pass the check.
type BookingHandler struct {
	Bookings    *repository.BookingRepo
	Restaurants *repository.RestaurantRepo
	Locks       *booking.SlotLock
	Policy      booking.ConflictPolicy
}

func NewBookingHandler(b *repository.BookingRepo, r *repository.RestaurantRepo, locks *booking.SlotLock, pol booking.ConflictPolicy) *BookingHandler {
	if b == nil || r == nil || locks == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: b, Restaurants: r, Locks: locks, Policy: pol}
}

// maxSpecialRequests caps the free-text note a guest can attach to a
// booking.
const maxSpecialRequests = 500

type createBookingReq struct {
	RestaurantID    uint64 `json:"restaurant_id"`
	Date            string `json:"date"` // YYYY-MM-DD
	Time            string `json:"time"` // HH:MM
	PartySize       int    `json:"party_size"`
	SpecialRequests string `json:"special_requests"`
}

type bookingResp struct {
	ID              uint64 `json:"id"`
	UserID          uint64 `json:"user_id"`
	RestaurantID    uint64 `json:"restaurant_id"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	PartySize       int    `json:"party_size"`
	Status          string `json:"status"`
	SpecialRequests string `json:"special_requests,omitempty"`
	CreatedAt       string `json:"created_at"`
}

func toBookingResp(b *model.Booking) bookingResp {
	return bookingResp{
		ID:              b.ID,
		UserID:          b.UserID,
		RestaurantID:    b.RestaurantID,
		Date:            b.Date.Format("2006-01-02"),
		Time:            b.Time,
		PartySize:       b.PartySize,
		Status:          b.Status,
		SpecialRequests: b.SpecialRequests,
		CreatedAt:       b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// validateSlot checks date, time and party size against the restaurant's
// hours and the global party bounds.  Returns a client-facing message.
func validateSlot(rest *model.Restaurant, date, at string, partySize int) string {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "date must be YYYY-MM-DD"
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if day.Before(today) {
		return "date must not be in the past"
	}
	slot, err := booking.ParseClock(at)
	if err != nil {
		return "time must be HH:MM"
	}
	open, errO := booking.ParseClock(rest.OpeningTime)
	closing, errC := booking.ParseClock(rest.ClosingTime)
	if errO == nil && errC == nil {
		if slot.Before(open) || !slot.Before(closing) {
			return "time is outside opening hours"
		}
	}
	if partySize < booking.MinPartySize || partySize > booking.MaxPartySize {
		return "party_size must be between 1 and 20"
	}
	return ""
}

// Create handles POST /v1/bookings (CUSTOMER or ADMIN).
func (h *BookingHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	role, ok := getRole(c)
	if !ok || !role.CanCreateBookings() {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.RestaurantID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "restaurant_id is required"})
	}
	if len(req.SpecialRequests) > maxSpecialRequests {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "special_requests must be at most 500 characters"})
	}

	ctx := c.Request().Context()
	rest, err := h.Restaurants.GetByID(ctx, req.RestaurantID)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if msg := validateSlot(rest, req.Date, req.Time, req.PartySize); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	// Zero-pad the hour ("9:30" -> "09:30") so both spellings share one
	// lock key and one stored form.
	slot, _ := booking.ParseClock(req.Time)
	req.Time = slot.String()

	// Serialize concurrent creations for the same restaurant/date/time
	// so the availability check and the insert are atomic per slot.
	release := h.Locks.Acquire(booking.SlotKey(req.RestaurantID, req.Date, req.Time))
	defer release()

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Re-read the restaurant FOR UPDATE so the aggregate numbers cannot
	// change under the check.
	locked, err := h.Restaurants.GetByIDTx(ctx, tx, req.RestaurantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	existing, err := h.Bookings.SlotBookingsTx(ctx, tx, req.RestaurantID, req.Date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	cap := booking.Capacity{TotalTables: locked.TotalTables, Seats: locked.Capacity}
	if err := booking.Check(cap, existing, req.Time, req.PartySize, h.Policy); err != nil {
		if errors.Is(err, booking.ErrNotEnoughAvailability) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "not enough availability at this time"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	day, _ := time.Parse("2006-01-02", req.Date)
	b := &model.Booking{
		UserID:          uid,
		RestaurantID:    req.RestaurantID,
		Date:            day,
		Time:            req.Time,
		PartySize:       req.PartySize,
		Status:          string(booking.StatusPending),
		SpecialRequests: req.SpecialRequests,
	}
	if err := h.Bookings.CreateTx(ctx, tx, b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	// Publish after commit; delivery failures must not fail the request.
	go func(ev queue.BookingCreatedEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishBookingCreated(ctx, ev)
	}(queue.BookingCreatedEvent{
		BookingID:       b.ID,
		UserID:          b.UserID,
		RestaurantID:    b.RestaurantID,
		RestaurantName:  rest.Name,
		Date:            req.Date,
		Time:            b.Time,
		PartySize:       b.PartySize,
		Status:          b.Status,
		SpecialRequests: b.SpecialRequests,
		CreatedAt:       b.CreatedAt.UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, toBookingResp(b))
}

// ListMine handles GET /v1/bookings/my-bookings.
func (h *BookingHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	status := ""
	if raw := c.QueryParam("status"); raw != "" {
		s, ok := booking.ParseStatus(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		status = string(s)
	}
	page, limit := pagination(c)
	list, total, err := h.Bookings.ListByUser(c.Request().Context(), uid, status, page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"bookings":   list,
		"pagination": pageMeta{Page: page, Limit: limit, Total: total},
	})
}

// ListForRestaurant handles GET /v1/bookings/restaurant/:id (owner or
// ADMIN).
func (h *BookingHandler) ListForRestaurant(c echo.Context) error {
	restaurantID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	role, _ := getRole(c)
	rest, err := h.Restaurants.GetByID(c.Request().Context(), restaurantID)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if rest.OwnerID != uid && role != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	status := ""
	if raw := c.QueryParam("status"); raw != "" {
		s, ok := booking.ParseStatus(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		status = string(s)
	}
	date := c.QueryParam("date")
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
	}
	page, limit := pagination(c)
	list, total, err := h.Bookings.ListByRestaurant(c.Request().Context(), restaurantID, status, date, page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"bookings":   list,
		"pagination": pageMeta{Page: page, Limit: limit, Total: total},
	})
}

// loadWithActor fetches a booking and resolves the caller into a
// state-machine actor.
func (h *BookingHandler) loadWithActor(c echo.Context, id uint64) (*model.Booking, booking.Actor, int, string) {
	uid, err := getUserID(c)
	if err != nil {
		return nil, booking.Actor{}, http.StatusUnauthorized, "unauthorized"
	}
	role, _ := getRole(c)
	b, ownerID, err := h.Bookings.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, booking.Actor{}, http.StatusNotFound, "booking not found"
		}
		return nil, booking.Actor{}, http.StatusInternalServerError, "query failed"
	}
	actor := booking.Actor{
		Role:              role,
		IsBookingCustomer: b.UserID == uid,
		IsRestaurantOwner: ownerID == uid,
	}
	return b, actor, 0, ""
}

// Get handles GET /v1/bookings/:id.  Visible to the booking's customer,
// the restaurant's owner, and admins.
func (h *BookingHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, actor, status, msg := h.loadWithActor(c, id)
	if b == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}
	if !actor.IsBookingCustomer && !actor.IsRestaurantOwner && actor.Role != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

type updateBookingReq struct {
	Date            string `json:"date"`
	Time            string `json:"time"`
	PartySize       int    `json:"party_size"`
	SpecialRequests string `json:"special_requests"`
}

// Update handles PUT /v1/bookings/:id.  Only the booking's customer and
// admins may edit, and only while the booking is non-terminal.
func (h *BookingHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, actor, status, msg := h.loadWithActor(c, id)
	if b == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}
	cur, _ := booking.ParseStatus(b.Status)
	if err := booking.CanEdit(cur, actor); err != nil {
		return mapStateErr(c, err)
	}

	var req updateBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Date != "" {
		day, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
		b.Date = day
	}
	if req.Time != "" {
		slot, err := booking.ParseClock(req.Time)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "time must be HH:MM"})
		}
		b.Time = slot.String()
	}
	if req.PartySize != 0 {
		if req.PartySize < booking.MinPartySize || req.PartySize > booking.MaxPartySize {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "party_size must be between 1 and 20"})
		}
		b.PartySize = req.PartySize
	}
	if req.SpecialRequests != "" {
		if len(req.SpecialRequests) > maxSpecialRequests {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "special_requests must be at most 500 characters"})
		}
		b.SpecialRequests = req.SpecialRequests
	}

	if err := h.Bookings.UpdateFields(c.Request().Context(), b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

type statusReq struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /v1/bookings/:id/status.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	target, ok := booking.ParseStatus(req.Status)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	return h.transition(c, id, target)
}

// Cancel handles POST /v1/bookings/:id/cancel, a shorthand for the
// CANCELLED transition.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	return h.transition(c, id, booking.StatusCancelled)
}

func (h *BookingHandler) transition(c echo.Context, id uint64, target booking.Status) error {
	b, actor, status, msg := h.loadWithActor(c, id)
	if b == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}
	cur, _ := booking.ParseStatus(b.Status)
	if err := booking.Transition(cur, target, actor); err != nil {
		return mapStateErr(c, err)
	}
	if err := h.Bookings.UpdateStatus(c.Request().Context(), id, string(target)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	go func(ev queue.BookingStatusEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishBookingStatus(ctx, ev)
	}(queue.BookingStatusEvent{
		BookingID:    b.ID,
		UserID:       b.UserID,
		RestaurantID: b.RestaurantID,
		OldStatus:    string(cur),
		NewStatus:    string(target),
		ChangedAt:    time.Now().UTC().Format(time.RFC3339),
	})

	b.Status = string(target)
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// mapStateErr translates state-machine errors onto HTTP statuses:
// terminal-state violations are 400, authorization failures 403.
func mapStateErr(c echo.Context, err error) error {
	var terminal *booking.TerminalStateError
	if errors.As(err, &terminal) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": terminal.Error()})
	}
	var notAllowed *booking.NotAllowedError
	if errors.As(err, &notAllowed) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": notAllowed.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
