package repository

import (
	"context"
	"database/sql"

	"github.com/alex8098/opentable-clone/internal/model"
)

// ReviewRepo stores restaurant reviews.  Creation happens inside a
// transaction so that the restaurant's denormalized rating and review
// count are refreshed atomically with the new row.
type ReviewRepo struct {
	db *sql.DB
}

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// DB exposes the pool so handlers can open the transaction shared with
// RestaurantRepo.UpdateRatingTx.
func (r *ReviewRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a review within an existing transaction and fills in
// the generated ID and timestamps.
func (r *ReviewRepo) CreateTx(ctx context.Context, tx *sql.Tx, rv *model.Review) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO reviews (user_id, restaurant_id, rating, comment) VALUES (?,?,?,?)",
		rv.UserID, rv.RestaurantID, rv.Rating, rv.Comment)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = uint64(id)
	return tx.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM reviews WHERE id=?", rv.ID).
		Scan(&rv.CreatedAt, &rv.UpdatedAt)
}

// ReviewDetail is a review joined with its author's display name.
type ReviewDetail struct {
	ID        uint64 `json:"id"`
	UserID    uint64 `json:"user_id"`
	UserName  string `json:"user_name"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ListByRestaurant returns a page of a restaurant's reviews, newest
// first, along with the total count.
func (r *ReviewRepo) ListByRestaurant(ctx context.Context, restaurantID uint64, page, limit int) ([]ReviewDetail, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reviews WHERE restaurant_id=?", restaurantID).Scan(&total); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	const q = `SELECT v.id, v.user_id, CONCAT(u.first_name, ' ', u.last_name),
		v.rating, v.comment, v.created_at
		FROM reviews v JOIN users u ON u.id = v.user_id
		WHERE v.restaurant_id = ?
		ORDER BY v.created_at DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, restaurantID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]ReviewDetail, 0)
	for rows.Next() {
		var d ReviewDetail
		var comment sql.NullString
		var created sql.NullTime
		if err := rows.Scan(&d.ID, &d.UserID, &d.UserName, &d.Rating, &comment, &created); err != nil {
			return nil, 0, err
		}
		d.Comment = comment.String
		if created.Valid {
			d.CreatedAt = created.Time.UTC().Format("2006-01-02T15:04:05Z")
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
