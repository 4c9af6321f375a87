// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedEvent is published when a table booking is successfully
// created.  It contains enough information for downstream consumers to log,
// notify, or trigger analytics without querying the primary database.
type BookingCreatedEvent struct {
	BookingID       uint64 `json:"booking_id"`
	UserID          uint64 `json:"user_id"`
	RestaurantID    uint64 `json:"restaurant_id"`
	RestaurantName  string `json:"restaurant_name"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	PartySize       int    `json:"party_size"`
	Status          string `json:"status"`
	SpecialRequests string `json:"special_requests,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// BookingStatusEvent is published when a booking changes lifecycle state,
// including cancellation.
type BookingStatusEvent struct {
	BookingID    uint64 `json:"booking_id"`
	UserID       uint64 `json:"user_id"`
	RestaurantID uint64 `json:"restaurant_id"`
	OldStatus    string `json:"old_status"`
	NewStatus    string `json:"new_status"`
	ChangedAt    string `json:"changed_at"`
}
