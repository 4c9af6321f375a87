package model

import "time"

// Table is a physical table inside a restaurant.  Tables exist so owners
// can track their floor inventory; bookings are accounted against the
// restaurant's aggregate TotalTables and Capacity, never against a
// specific table row.
//
// Fields:
//  ID           – primary key identifier.
//  RestaurantID – restaurant the table belongs to.
//  Label        – short label shown to staff (e.g. "T4", "patio-2").
//  Capacity     – number of seats at the table (typically 2/4/6/8).
//  IsActive     – inactive tables are kept for history but not counted.
type Table struct {
	ID           uint64    // tables.id
	RestaurantID uint64    // tables.restaurant_id
	Label        string    // tables.label
	Capacity     int       // tables.capacity
	IsActive     bool      // tables.is_active
	CreatedAt    time.Time // tables.created_at
	UpdatedAt    time.Time // tables.updated_at
}
