package booking

// SlotIntervalMinutes is the fixed granularity of bookable time slots.
const SlotIntervalMinutes = 30

// AvailableSlots enumerates the bookable slots of a single day.  Starting
// at opening time it steps forward 30 minutes at a time up to, but not
// including, closing time.  A slot is included only while it still has a
// free table AND free seats under the conflict policy:
//
//	count(conflicting) < TotalTables and sum(partySize) < Seats.
//
// Both comparisons are strict, while Check rejects the count dimension at
// equality and the seat dimension only past capacity.  A slot filled to
// exactly Seats is therefore not advertised here even though Check never
// accepts another guest into it.  This asymmetry is the historical
// behavior of the service and is kept as is.
//
// opening == closing yields an empty (non-nil) slice.  Malformed opening
// or closing times also yield an empty slice; the restaurant handlers
// validate the stored format on write.
func AvailableSlots(cap Capacity, opening, closing string, existing []SlotBooking, pol ConflictPolicy) []string {
	slots := []string{}
	open, err := ParseClock(opening)
	if err != nil {
		return slots
	}
	close, err := ParseClock(closing)
	if err != nil {
		return slots
	}
	for cur := open; cur.Before(close); cur = cur.add(SlotIntervalMinutes) {
		count, seats := slotLoad(existing, cur.String(), pol)
		if count < cap.TotalTables && seats < cap.Seats {
			slots = append(slots, cur.String())
		}
	}
	return slots
}

// add advances the clock by the given number of minutes, rolling the
// minute counter over 60 into the hour.
func (c Clock) add(minutes int) Clock {
	c.Minute += minutes
	for c.Minute >= 60 {
		c.Minute -= 60
		c.Hour++
	}
	return c
}
