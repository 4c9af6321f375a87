// Package repository contains the data access layer: raw SQL queries
// against the MySQL schema, separated from HTTP handlers.  This file
// defines sentinel error values shared across repositories so that
// handlers can map failure scenarios onto HTTP statuses with errors.Is.
package repository

import "errors"

// ErrRestaurantNotFound is returned when a restaurant lookup matches no row.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// ErrBookingNotFound is returned when a booking lookup matches no row.
var ErrBookingNotFound = errors.New("booking not found")

// ErrTableNotFound is returned when a table lookup matches no row.
var ErrTableNotFound = errors.New("table not found")
