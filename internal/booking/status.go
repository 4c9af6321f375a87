package booking

import (
	"fmt"
	"strings"

	"github.com/alex8098/opentable-clone/internal/model"
)

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
	StatusNoShow    Status = "NO_SHOW"
)

// ParseStatus normalizes a raw status string.  The second return value
// reports whether the input named a known status.
func ParseStatus(raw string) (Status, bool) {
	switch Status(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, true
	case StatusConfirmed:
		return StatusConfirmed, true
	case StatusCancelled:
		return StatusCancelled, true
	case StatusCompleted:
		return StatusCompleted, true
	case StatusNoShow:
		return StatusNoShow, true
	default:
		return "", false
	}
}

// Terminal reports whether the status permits no further transitions or
// field edits.  NO_SHOW is deliberately not terminal: staff regularly
// flip a mistaken no-show back to COMPLETED.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Actor describes who is attempting an operation on a booking, resolved
// by the handler from the authenticated identity and the loaded rows.
type Actor struct {
	Role              model.Role
	IsBookingCustomer bool // actor created the booking
	IsRestaurantOwner bool // actor owns the booked restaurant
}

// TerminalStateError rejects an operation on a CANCELLED or COMPLETED
// booking.  Its message names the blocking state so the client can show
// it verbatim ("cannot modify a completed booking").  Handlers map it to
// HTTP 400.
type TerminalStateError struct {
	Current Status
}

func (e *TerminalStateError) Error() string {
	return fmt.Sprintf("cannot modify a %s booking", strings.ToLower(string(e.Current)))
}

// NotAllowedError rejects a transition or edit the actor is not
// authorized to perform.  Handlers map it to HTTP 403.
type NotAllowedError struct {
	Reason string
}

func (e *NotAllowedError) Error() string { return e.Reason }

// Transition validates that the actor may move a booking from current to
// target.  The rules:
//
//   - nothing leaves a terminal state (CANCELLED, COMPLETED);
//   - the booking's customer may only transition to CANCELLED;
//   - the restaurant's owner and admins may transition to any state;
//   - anyone else is rejected.
//
// It returns nil when the transition is permitted, *TerminalStateError
// when the current state blocks it, and *NotAllowedError when the actor
// may not perform it.
func Transition(current, target Status, actor Actor) error {
	if current.Terminal() {
		return &TerminalStateError{Current: current}
	}
	switch actor.Role {
	case model.RoleAdmin:
		return nil
	case model.RoleOwner:
		if actor.IsRestaurantOwner {
			return nil
		}
	case model.RoleCustomer:
		// fall through to the customer-cancel rule below
	default:
		return &NotAllowedError{Reason: "not authorized to update this booking"}
	}
	if actor.IsBookingCustomer {
		if target != StatusCancelled {
			return &NotAllowedError{Reason: "customers can only cancel bookings"}
		}
		return nil
	}
	return &NotAllowedError{Reason: "not authorized to update this booking"}
}

// CanEdit validates that the actor may change a booking's date, time,
// party size or special requests.  Edits are limited to the booking's
// own customer and admins, and only while the booking is non-terminal.
func CanEdit(current Status, actor Actor) error {
	if current.Terminal() {
		return &TerminalStateError{Current: current}
	}
	switch actor.Role {
	case model.RoleAdmin:
		return nil
	case model.RoleCustomer, model.RoleOwner:
		if actor.IsBookingCustomer {
			return nil
		}
	}
	return &NotAllowedError{Reason: "not authorized to modify this booking"}
}
