package booking

import (
	"testing"
	"time"
)

func TestCheckTableCountRule(t *testing.T) {
	// One table, four seats: a single existing booking fills the table
	// count, so any further party is rejected no matter how small.
	cap := Capacity{TotalTables: 1, Seats: 4}
	existing := []SlotBooking{{Time: "19:00", PartySize: 3}}

	if err := Check(cap, existing, "19:00", 1, ConflictPolicy{}); err != ErrNotEnoughAvailability {
		t.Fatalf("expected ErrNotEnoughAvailability, got %v", err)
	}
	// A different slot on the same day is unaffected.
	if err := Check(cap, existing, "19:30", 1, ConflictPolicy{}); err != nil {
		t.Fatalf("19:30 should be free, got %v", err)
	}
}

func TestCheckSeatCapacityRule(t *testing.T) {
	// Plenty of tables but only four seats: 3 existing + 2 new = 5 > 4.
	cap := Capacity{TotalTables: 5, Seats: 4}
	existing := []SlotBooking{{Time: "19:00", PartySize: 3}}

	if err := Check(cap, existing, "19:00", 2, ConflictPolicy{}); err != ErrNotEnoughAvailability {
		t.Fatalf("expected ErrNotEnoughAvailability, got %v", err)
	}
	// Filling the room to exactly capacity is allowed.
	if err := Check(cap, existing, "19:00", 1, ConflictPolicy{}); err != nil {
		t.Fatalf("filling to capacity should be accepted, got %v", err)
	}
}

func TestCheckRejectsOnceTablesFull(t *testing.T) {
	cap := Capacity{TotalTables: 3, Seats: 100}
	existing := []SlotBooking{
		{Time: "18:00", PartySize: 2},
		{Time: "18:00", PartySize: 2},
		{Time: "18:00", PartySize: 2},
	}
	for _, size := range []int{1, 5, 20} {
		if err := Check(cap, existing, "18:00", size, ConflictPolicy{}); err != ErrNotEnoughAvailability {
			t.Fatalf("party of %d: expected rejection with all tables taken, got %v", size, err)
		}
	}
}

func TestAcceptedSequenceNeverExceedsCapacity(t *testing.T) {
	// Greedily admit parties; whenever Check accepts, the running seat
	// sum must stay within capacity.
	cap := Capacity{TotalTables: 10, Seats: 12}
	var existing []SlotBooking
	sum := 0
	for _, size := range []int{4, 4, 3, 2, 1, 1, 1} {
		err := Check(cap, existing, "20:00", size, ConflictPolicy{})
		if err == nil {
			existing = append(existing, SlotBooking{Time: "20:00", PartySize: size})
			sum += size
		}
		if sum > cap.Seats {
			t.Fatalf("accepted sequence exceeded capacity: %d > %d", sum, cap.Seats)
		}
	}
	if sum != 12 {
		t.Fatalf("expected the slot to fill to exactly 12 seats, got %d", sum)
	}
}

func TestCancelledBookingsDoNotCount(t *testing.T) {
	// Cancelled rows are filtered before they reach Check; simulate a
	// cancellation by removing the row and verify the slot reopens.
	cap := Capacity{TotalTables: 1, Seats: 4}
	existing := []SlotBooking{{Time: "19:00", PartySize: 4}}

	if err := Check(cap, existing, "19:00", 2, ConflictPolicy{}); err == nil {
		t.Fatal("slot should be full before the cancellation")
	}
	existing = existing[:0]
	if err := Check(cap, existing, "19:00", 2, ConflictPolicy{}); err != nil {
		t.Fatalf("slot should reopen after cancellation, got %v", err)
	}
}

func TestConflictPolicyExactMatch(t *testing.T) {
	pol := ConflictPolicy{}
	if !pol.Conflicts("19:00", "19:00") {
		t.Fatal("identical times must conflict")
	}
	if pol.Conflicts("19:00", "19:15") {
		t.Fatal("exact-match policy must ignore neighbouring times")
	}
}

func TestConflictPolicyPadsSingleDigitHours(t *testing.T) {
	// "9:30" and "09:30" are the same wall-clock slot; neither spelling
	// may slip past the other's bookings.
	pol := ConflictPolicy{}
	if !pol.Conflicts("9:30", "09:30") {
		t.Fatal("spellings of the same time must conflict")
	}
	cap := Capacity{TotalTables: 1, Seats: 4}
	existing := []SlotBooking{{Time: "09:30", PartySize: 4}}
	if err := Check(cap, existing, "9:30", 1, pol); err == nil {
		t.Fatal("unpadded spelling must see the slot as full")
	}
}

func TestConflictPolicyServiceWindow(t *testing.T) {
	pol := ConflictPolicy{ServiceDuration: 90 * time.Minute}
	cases := []struct {
		a, b string
		want bool
	}{
		{"19:00", "19:15", true},  // overlapping seatings
		{"19:00", "20:29", true},  // ends just inside the window
		{"19:00", "20:30", false}, // back to back
		{"20:30", "19:00", false}, // symmetric
		{"12:00", "10:31", true},
	}
	for _, tc := range cases {
		if got := pol.Conflicts(tc.a, tc.b); got != tc.want {
			t.Errorf("Conflicts(%s, %s) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{in: "09:30", want: Clock{9, 30}},
		{in: "9:30", want: Clock{9, 30}},
		{in: "23:59", want: Clock{23, 59}},
		{in: "00:00", want: Clock{0, 0}},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "12:5", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseClock(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
