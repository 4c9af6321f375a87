package model

import "time"

// Review is a customer's rating of a restaurant.  Creating a review
// recomputes the restaurant's aggregate Rating and ReviewCount inside
// the same transaction.
//
// Fields:
//  ID           – primary key identifier.
//  UserID       – author of the review.
//  RestaurantID – restaurant being reviewed.
//  Rating       – 1 through 5.
//  Comment      – optional free-text comment.
type Review struct {
	ID           uint64    // reviews.id
	UserID       uint64    // reviews.user_id
	RestaurantID uint64    // reviews.restaurant_id
	Rating       int       // reviews.rating
	Comment      string    // reviews.comment
	CreatedAt    time.Time // reviews.created_at
	UpdatedAt    time.Time // reviews.updated_at
}
