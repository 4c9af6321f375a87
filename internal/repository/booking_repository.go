package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/alex8098/opentable-clone/internal/booking"
	"github.com/alex8098/opentable-clone/internal/model"
)

// BookingRepo provides CRUD operations for bookings.  Bookings are never
// deleted; cancellation and completion are status updates so that rows
// remain for history.  The date column is a DATE and the time column a
// fixed "HH:MM" string, which is what the availability rules compare.
type BookingRepo struct {
	db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the pool for handlers that need a transaction spanning the
// availability check and the insert.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a new booking within an existing transaction and
// populates the generated ID and timestamps on the record.  The caller
// commits or rolls back.  Status should already be a valid state name.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings
		(user_id, restaurant_id, date, time, party_size, status, special_requests)
		VALUES (?,?,?,?,?,?,?)`
	res, err := tx.ExecContext(ctx, q, b.UserID, b.RestaurantID,
		b.Date.Format("2006-01-02"), b.Time, b.PartySize, b.Status, b.SpecialRequests)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return tx.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM bookings WHERE id=?", b.ID).
		Scan(&b.CreatedAt, &b.UpdatedAt)
}

// SlotBookingsTx returns the time and party size of every non-cancelled
// booking a restaurant has on the given calendar date ("YYYY-MM-DD"),
// inside a transaction.  This is the input of the availability check.
func (r *BookingRepo) SlotBookingsTx(ctx context.Context, tx *sql.Tx, restaurantID uint64, date string) ([]booking.SlotBooking, error) {
	const q = `SELECT time, party_size FROM bookings
		WHERE restaurant_id = ? AND date = ? AND status <> 'CANCELLED'`
	rows, err := tx.QueryContext(ctx, q, restaurantID, date)
	if err != nil {
		return nil, err
	}
	return collectSlotBookings(rows)
}

// SlotBookings is SlotBookingsTx without a transaction, used by the
// read-only availability endpoint.
func (r *BookingRepo) SlotBookings(ctx context.Context, restaurantID uint64, date string) ([]booking.SlotBooking, error) {
	const q = `SELECT time, party_size FROM bookings
		WHERE restaurant_id = ? AND date = ? AND status <> 'CANCELLED'`
	rows, err := r.db.QueryContext(ctx, q, restaurantID, date)
	if err != nil {
		return nil, err
	}
	return collectSlotBookings(rows)
}

func collectSlotBookings(rows *sql.Rows) ([]booking.SlotBooking, error) {
	defer rows.Close()
	out := make([]booking.SlotBooking, 0)
	for rows.Next() {
		var sb booking.SlotBooking
		if err := rows.Scan(&sb.Time, &sb.PartySize); err != nil {
			return nil, err
		}
		out = append(out, sb)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID loads a booking together with the owner of its restaurant.
// Handlers need the owner ID for every authorization decision, so the
// join happens here instead of a second query.  Returns
// ErrBookingNotFound when no row matches.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, uint64, error) {
	const q = `SELECT b.id, b.user_id, b.restaurant_id, b.date, b.time, b.party_size,
		b.status, b.special_requests, b.created_at, b.updated_at, r.owner_id
		FROM bookings b JOIN restaurants r ON r.id = b.restaurant_id
		WHERE b.id = ?`
	var b model.Booking
	var special sql.NullString
	var ownerID uint64
	err := r.db.QueryRowContext(ctx, q, id).Scan(&b.ID, &b.UserID, &b.RestaurantID,
		&b.Date, &b.Time, &b.PartySize, &b.Status, &special,
		&b.CreatedAt, &b.UpdatedAt, &ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrBookingNotFound
		}
		return nil, 0, err
	}
	b.SpecialRequests = special.String
	return &b, ownerID, nil
}

// BookingDetail is the customer-facing projection of a booking joined
// with its restaurant, returned by ListByUser.
type BookingDetail struct {
	ID              uint64  `json:"id"`
	RestaurantID    uint64  `json:"restaurant_id"`
	RestaurantName  string  `json:"restaurant_name"`
	Address         string  `json:"address"`
	Phone           string  `json:"phone"`
	ImageURL        *string `json:"image_url,omitempty"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	PartySize       int     `json:"party_size"`
	Status          string  `json:"status"`
	SpecialRequests string  `json:"special_requests,omitempty"`
}

// ListByUser returns a page of the user's bookings, newest first, with
// an optional status filter, along with the total count for pagination.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64, status string, page, limit int) ([]BookingDetail, int, error) {
	cond := "WHERE b.user_id = ?"
	args := []interface{}{userID}
	if status != "" {
		cond += " AND b.status = ?"
		args = append(args, status)
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings b "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	q := `SELECT b.id, b.restaurant_id, r.name, r.address, r.phone, r.image_url,
		b.date, b.time, b.party_size, b.status, b.special_requests
		FROM bookings b JOIN restaurants r ON r.id = b.restaurant_id ` +
		cond + " ORDER BY b.created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, (page-1)*limit)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		var imageURL, special sql.NullString
		var date sql.NullTime
		if err := rows.Scan(&d.ID, &d.RestaurantID, &d.RestaurantName, &d.Address,
			&d.Phone, &imageURL, &date, &d.Time, &d.PartySize, &d.Status, &special); err != nil {
			return nil, 0, err
		}
		if imageURL.Valid {
			u := imageURL.String
			d.ImageURL = &u
		}
		if date.Valid {
			d.Date = date.Time.Format("2006-01-02")
		}
		d.SpecialRequests = special.String
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// OwnerBookingDetail is the restaurant-facing projection of a booking
// joined with its customer, returned by ListByRestaurant.
type OwnerBookingDetail struct {
	ID              uint64 `json:"id"`
	UserID          uint64 `json:"user_id"`
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone,omitempty"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	PartySize       int    `json:"party_size"`
	Status          string `json:"status"`
	SpecialRequests string `json:"special_requests,omitempty"`
}

// ListByRestaurant returns a page of a restaurant's bookings ordered by
// reservation date, with optional status and date ("YYYY-MM-DD")
// filters, along with the total count.
func (r *BookingRepo) ListByRestaurant(ctx context.Context, restaurantID uint64, status, date string, page, limit int) ([]OwnerBookingDetail, int, error) {
	cond := "WHERE b.restaurant_id = ?"
	args := []interface{}{restaurantID}
	if status != "" {
		cond += " AND b.status = ?"
		args = append(args, status)
	}
	if date != "" {
		cond += " AND b.date = ?"
		args = append(args, date)
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings b "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	q := `SELECT b.id, b.user_id, CONCAT(u.first_name, ' ', u.last_name), u.email, u.phone,
		b.date, b.time, b.party_size, b.status, b.special_requests
		FROM bookings b JOIN users u ON u.id = b.user_id ` +
		cond + " ORDER BY b.date ASC, b.time ASC LIMIT ? OFFSET ?"
	args = append(args, limit, (page-1)*limit)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]OwnerBookingDetail, 0)
	for rows.Next() {
		var d OwnerBookingDetail
		var phone, special sql.NullString
		var bdate sql.NullTime
		if err := rows.Scan(&d.ID, &d.UserID, &d.CustomerName, &d.CustomerEmail, &phone,
			&bdate, &d.Time, &d.PartySize, &d.Status, &special); err != nil {
			return nil, 0, err
		}
		d.CustomerPhone = phone.String
		if bdate.Valid {
			d.Date = bdate.Time.Format("2006-01-02")
		}
		d.SpecialRequests = special.String
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// UpdateFields rewrites a booking's editable fields.  Status is handled
// separately by UpdateStatus; the state machine validates both paths in
// the handler before the repository is reached.
func (r *BookingRepo) UpdateFields(ctx context.Context, b *model.Booking) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET date=?, time=?, party_size=?, special_requests=? WHERE id=?",
		b.Date.Format("2006-01-02"), b.Time, b.PartySize, b.SpecialRequests, b.ID)
	return err
}

// UpdateStatus sets a booking's lifecycle state.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET status=? WHERE id=?", status, id)
	return err
}
