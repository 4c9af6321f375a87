// Package booking holds the reservation rules that the handlers apply:
// the availability check performed when a booking is created, the slot
// enumeration used by the availability endpoint, the booking status
// machine, and the per-slot guard that serialises concurrent booking
// attempts for the same restaurant, date and time.
package booking

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinPartySize and MaxPartySize bound the accepted party_size on a booking.
const (
	MinPartySize = 1
	MaxPartySize = 20
)

// ErrNotEnoughAvailability is returned by Check when the requested slot
// cannot seat the candidate party.  Handlers translate this into an
// HTTP 409 response.
var ErrNotEnoughAvailability = errors.New("not enough availability at this time")

// Capacity carries the restaurant-level totals the availability rules
// compare against.  The check is aggregate: individual tables are never
// consulted.
type Capacity struct {
	TotalTables int // number of bookings that may coexist in one slot
	Seats       int // total concurrent seats across all tables
}

// SlotBooking is the projection of an existing, non-cancelled booking
// that the availability rules need: its slot time and party size.
// Cancelled bookings must be filtered out before they reach this package.
type SlotBooking struct {
	Time      string // "HH:MM"
	PartySize int
}

// ConflictPolicy decides which existing bookings count against a
// candidate time.  With a zero ServiceDuration two bookings conflict only
// when their "HH:MM" strings are identical, which mirrors how the service
// has historically accounted slots (19:00 and 19:15 never collide).  A
// positive ServiceDuration instead treats each booking as occupying the
// interval [t, t+d) and counts any overlap.
type ConflictPolicy struct {
	ServiceDuration time.Duration
}

// Conflicts reports whether a booking at `existing` counts against a
// candidate booking at `candidate`.  Both values are "HH:MM" strings;
// comparisons go through ParseClock so the spellings "9:30" and "09:30"
// name the same slot.  Unparseable times fall back to exact string
// comparison so that a malformed row cannot silently widen availability.
func (p ConflictPolicy) Conflicts(candidate, existing string) bool {
	a, errA := ParseClock(candidate)
	b, errB := ParseClock(existing)
	if errA != nil || errB != nil {
		return candidate == existing
	}
	if p.ServiceDuration <= 0 {
		return a == b
	}
	d := int(p.ServiceDuration / time.Minute)
	am, bm := a.Minutes(), b.Minutes()
	return am < bm+d && bm < am+d
}

// slotLoad sums the bookings that conflict with `at` under the policy.
func slotLoad(existing []SlotBooking, at string, pol ConflictPolicy) (count, seats int) {
	for _, b := range existing {
		if pol.Conflicts(at, b.Time) {
			count++
			seats += b.PartySize
		}
	}
	return count, seats
}

// Check decides whether a new booking of partySize guests can be accepted
// at the slot `at`.  The existing slice must contain the restaurant's
// non-cancelled bookings for the same calendar date.  It returns
// ErrNotEnoughAvailability when either the table count or the seat
// capacity rule rejects the request:
//
//	count(conflicting) >= TotalTables, or
//	sum(partySize of conflicting) + partySize > Seats.
//
// Note the count rule rejects at equality while the seat rule only
// rejects past capacity; a slot may be filled exactly to Seats.
func Check(cap Capacity, existing []SlotBooking, at string, partySize int, pol ConflictPolicy) error {
	count, seats := slotLoad(existing, at, pol)
	if count >= cap.TotalTables {
		return ErrNotEnoughAvailability
	}
	if seats+partySize > cap.Seats {
		return ErrNotEnoughAvailability
	}
	return nil
}

// Clock is a time of day with minute resolution, parsed from "HH:MM".
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses a strict 24h "HH:MM" string.  A single-digit hour is
// accepted ("9:30") since clients have sent both forms.
func ParseClock(s string) (Clock, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || len(parts[1]) != 2 {
		return Clock{}, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return Clock{}, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("invalid minute in %q", s)
	}
	return Clock{Hour: h, Minute: m}, nil
}

// Minutes returns the clock as minutes since midnight.
func (c Clock) Minutes() int { return c.Hour*60 + c.Minute }

// Before reports whether c is strictly earlier than other.
func (c Clock) Before(other Clock) bool { return c.Minutes() < other.Minutes() }

// String formats the clock back to zero-padded "HH:MM".
func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }
