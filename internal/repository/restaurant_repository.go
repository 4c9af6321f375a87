package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/alex8098/opentable-clone/internal/model"
)

// RestaurantRepo encapsulates all database queries on the restaurants
// table, including the filtered browse listing used by the public API.
type RestaurantRepo struct {
	db *sql.DB
}

// NewRestaurantRepo constructs a RestaurantRepo bound to the given DB.
func NewRestaurantRepo(db *sql.DB) *RestaurantRepo { return &RestaurantRepo{db: db} }

// DB exposes the underlying pool so handlers can open transactions that
// span multiple repositories.
func (r *RestaurantRepo) DB() *sql.DB { return r.db }

const restaurantColumns = `id, owner_id, name, description, address, city, state, zip_code,
	phone, email, website, cuisine, price_range, image_url,
	opening_time, closing_time, total_tables, capacity,
	rating, review_count, created_at, updated_at`

// SearchFilter narrows the public restaurant listing.  Zero values mean
// "no filter".  Page is 1-based.
type SearchFilter struct {
	City       string
	Cuisine    string
	PriceRange int
	MinRating  float64
	Search     string
	Page       int
	Limit      int
}

// Create inserts a new restaurant and populates the generated ID and
// timestamp fields on the provided record.
func (r *RestaurantRepo) Create(ctx context.Context, rest *model.Restaurant) error {
	const q = `INSERT INTO restaurants
		(owner_id, name, description, address, city, state, zip_code, phone, email, website,
		 cuisine, price_range, image_url, opening_time, closing_time, total_tables, capacity)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		rest.OwnerID, rest.Name, rest.Description, rest.Address, rest.City, rest.State,
		rest.ZipCode, rest.Phone, rest.Email, rest.Website, rest.Cuisine, rest.PriceRange,
		rest.ImageURL, rest.OpeningTime, rest.ClosingTime, rest.TotalTables, rest.Capacity)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rest.ID = uint64(id)
	// Query back the row so callers receive the defaulted timestamps.
	got, err := r.GetByID(ctx, rest.ID)
	if err != nil {
		return err
	}
	*rest = *got
	return nil
}

// GetByID fetches a restaurant by its ID regardless of owner.  It
// returns ErrRestaurantNotFound when no row matches.
func (r *RestaurantRepo) GetByID(ctx context.Context, id uint64) (*model.Restaurant, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+restaurantColumns+" FROM restaurants WHERE id = ?", id)
	return scanRestaurant(row)
}

// GetByIDTx is GetByID within an existing transaction.  The row is read
// with FOR UPDATE so the capacity totals cannot change under a booking
// creation that holds the transaction open.
func (r *RestaurantRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Restaurant, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT "+restaurantColumns+" FROM restaurants WHERE id = ? FOR UPDATE", id)
	return scanRestaurant(row)
}

// ListByOwner returns every restaurant owned by the given user.
func (r *RestaurantRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Restaurant, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+restaurantColumns+" FROM restaurants WHERE owner_id = ? ORDER BY id", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRestaurants(rows)
}

// Search returns a page of restaurants matching the filter, ordered by
// rating descending, together with the total match count for pagination.
func (r *RestaurantRepo) Search(ctx context.Context, f SearchFilter) ([]*model.Restaurant, int, error) {
	where := make([]string, 0, 5)
	args := make([]interface{}, 0, 8)
	if f.City != "" {
		where = append(where, "city LIKE ?")
		args = append(args, "%"+f.City+"%")
	}
	if f.Cuisine != "" {
		where = append(where, "FIND_IN_SET(?, cuisine) > 0")
		args = append(args, strings.ToLower(strings.TrimSpace(f.Cuisine)))
	}
	if f.PriceRange > 0 {
		where = append(where, "price_range = ?")
		args = append(args, f.PriceRange)
	}
	if f.MinRating > 0 {
		where = append(where, "rating >= ?")
		args = append(args, f.MinRating)
	}
	if f.Search != "" {
		where = append(where, "(name LIKE ? OR description LIKE ? OR FIND_IN_SET(?, cuisine) > 0)")
		like := "%" + f.Search + "%"
		args = append(args, like, like, strings.ToLower(strings.TrimSpace(f.Search)))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM restaurants"+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, limit := f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	listArgs := append(append([]interface{}{}, args...), limit, (page-1)*limit)
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+restaurantColumns+" FROM restaurants"+cond+" ORDER BY rating DESC, id LIMIT ? OFFSET ?",
		listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectRestaurants(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update rewrites the editable fields of a restaurant.  The caller is
// responsible for ownership checks; the repository only persists.
func (r *RestaurantRepo) Update(ctx context.Context, rest *model.Restaurant) error {
	const q = `UPDATE restaurants SET
		name=?, description=?, address=?, city=?, state=?, zip_code=?, phone=?, email=?,
		website=?, cuisine=?, price_range=?, image_url=?, opening_time=?, closing_time=?,
		total_tables=?, capacity=?
		WHERE id=?`
	res, err := r.db.ExecContext(ctx, q,
		rest.Name, rest.Description, rest.Address, rest.City, rest.State, rest.ZipCode,
		rest.Phone, rest.Email, rest.Website, rest.Cuisine, rest.PriceRange, rest.ImageURL,
		rest.OpeningTime, rest.ClosingTime, rest.TotalTables, rest.Capacity, rest.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Zero affected rows can also mean an identical update; confirm
		// existence before reporting not found.
		if _, err := r.GetByID(ctx, rest.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a restaurant row.  Dependent tables, bookings and
// reviews cascade via foreign keys.
func (r *RestaurantRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM restaurants WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrRestaurantNotFound
	}
	return nil
}

// UpdateRatingTx recomputes the aggregate rating and review count from
// the reviews table inside the given transaction.  COALESCE keeps the
// rating at zero while no reviews exist.
func (r *RestaurantRepo) UpdateRatingTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	const q = `UPDATE restaurants SET
		rating = COALESCE((SELECT ROUND(AVG(rating),1) FROM reviews WHERE restaurant_id = ?), 0),
		review_count = (SELECT COUNT(*) FROM reviews WHERE restaurant_id = ?)
		WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, id, id, id)
	return err
}

func scanRestaurant(row *sql.Row) (*model.Restaurant, error) {
	var rest model.Restaurant
	var description, email, website, cuisine, imageURL sql.NullString
	err := row.Scan(&rest.ID, &rest.OwnerID, &rest.Name, &description, &rest.Address,
		&rest.City, &rest.State, &rest.ZipCode, &rest.Phone, &email, &website,
		&cuisine, &rest.PriceRange, &imageURL, &rest.OpeningTime, &rest.ClosingTime,
		&rest.TotalTables, &rest.Capacity, &rest.Rating, &rest.ReviewCount,
		&rest.CreatedAt, &rest.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	rest.Description = description.String
	rest.Email = email.String
	rest.Website = website.String
	rest.Cuisine = cuisine.String
	rest.ImageURL = imageURL.String
	return &rest, nil
}

func collectRestaurants(rows *sql.Rows) ([]*model.Restaurant, error) {
	out := make([]*model.Restaurant, 0)
	for rows.Next() {
		var rest model.Restaurant
		var description, email, website, cuisine, imageURL sql.NullString
		if err := rows.Scan(&rest.ID, &rest.OwnerID, &rest.Name, &description, &rest.Address,
			&rest.City, &rest.State, &rest.ZipCode, &rest.Phone, &email, &website,
			&cuisine, &rest.PriceRange, &imageURL, &rest.OpeningTime, &rest.ClosingTime,
			&rest.TotalTables, &rest.Capacity, &rest.Rating, &rest.ReviewCount,
			&rest.CreatedAt, &rest.UpdatedAt); err != nil {
			return nil, err
		}
		rest.Description = description.String
		rest.Email = email.String
		rest.Website = website.String
		rest.Cuisine = cuisine.String
		rest.ImageURL = imageURL.String
		out = append(out, &rest)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
