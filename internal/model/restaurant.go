package model

import "time"

// Restaurant represents a venue owned by a user.  A restaurant keeps an
// aggregate table count and seat capacity which the availability rules
// compare against; individual tables are managed separately and are not
// consulted by the conflict check.
//
// Fields:
//  ID          – primary key identifier.
//  OwnerID     – user ID of the restaurant owner.
//  Name        – display name.
//  Description – optional free-text description.
//  Address     – street address.
//  City        – city used for browse filtering.
//  State       – state or region.
//  ZipCode     – postal code.
//  Phone       – contact phone number.
//  Email       – optional contact email.
//  Website     – optional website URL.
//  Cuisine     – comma-joined cuisine tags (e.g. "italian,pizza").
//  PriceRange  – 1 (cheap) through 4 (expensive).
//  ImageURL    – optional hero image.
//  OpeningTime – daily opening time as "HH:MM".
//  ClosingTime – daily closing time as "HH:MM".
//  TotalTables – number of tables that can be booked concurrently.
//  Capacity    – total number of seats across all tables.
//  Rating      – aggregate review rating, recomputed on review creation.
//  ReviewCount – number of reviews behind Rating.
type Restaurant struct {
	ID          uint64    // restaurants.id
	OwnerID     uint64    // restaurants.owner_id
	Name        string    // restaurants.name
	Description string    // restaurants.description
	Address     string    // restaurants.address
	City        string    // restaurants.city
	State       string    // restaurants.state
	ZipCode     string    // restaurants.zip_code
	Phone       string    // restaurants.phone
	Email       string    // restaurants.email
	Website     string    // restaurants.website
	Cuisine     string    // restaurants.cuisine
	PriceRange  int       // restaurants.price_range
	ImageURL    string    // restaurants.image_url
	OpeningTime string    // restaurants.opening_time ("HH:MM")
	ClosingTime string    // restaurants.closing_time ("HH:MM")
	TotalTables int       // restaurants.total_tables
	Capacity    int       // restaurants.capacity
	Rating      float64   // restaurants.rating (derived)
	ReviewCount int       // restaurants.review_count (derived)
	CreatedAt   time.Time // restaurants.created_at
	UpdatedAt   time.Time // restaurants.updated_at
}
