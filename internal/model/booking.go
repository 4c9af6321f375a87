package model

import "time"

// Booking records a customer's reservation at a restaurant for a given
// calendar day and time slot.  Bookings are never physically deleted;
// cancellation is a status transition so that the row stays available
// for history and reporting.
//
// Fields:
//  ID              – primary key identifier.
//  UserID          – customer who made the booking.
//  RestaurantID    – restaurant being booked.
//  Date            – calendar day of the reservation (time-of-day zeroed).
//  Time            – slot time as "HH:MM".
//  PartySize       – number of guests, 1 through 20.
//  Status          – booking lifecycle state (see the booking package).
//  SpecialRequests – optional free-text note to the restaurant.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Booking struct {
	ID              uint64    // bookings.id
	UserID          uint64    // bookings.user_id
	RestaurantID    uint64    // bookings.restaurant_id
	Date            time.Time // bookings.date (DATE column)
	Time            string    // bookings.time ("HH:MM")
	PartySize       int       // bookings.party_size
	Status          string    // bookings.status
	SpecialRequests string    // bookings.special_requests
	CreatedAt       time.Time // bookings.created_at
	UpdatedAt       time.Time // bookings.updated_at
}
