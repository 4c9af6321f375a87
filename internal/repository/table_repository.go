package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/alex8098/opentable-clone/internal/model"
)

// TableRepo manages the physical-table inventory of restaurants.  The
// availability rules never consult individual tables; this data exists
// for owners to keep their floor plan in sync with the aggregate
// total_tables and capacity numbers on the restaurant row.
type TableRepo struct {
	db *sql.DB
}

func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// Create inserts a table for a restaurant and populates the generated ID.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO tables (restaurant_id, label, capacity, is_active) VALUES (?,?,?,?)",
		t.RestaurantID, t.Label, t.Capacity, t.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM tables WHERE id=?", t.ID).
		Scan(&t.CreatedAt, &t.UpdatedAt)
}

// GetByID fetches a single table together with the owner of its
// restaurant, which the handler needs for its authorization check.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, uint64, error) {
	const q = `SELECT t.id, t.restaurant_id, t.label, t.capacity, t.is_active,
		t.created_at, t.updated_at, r.owner_id
		FROM tables t JOIN restaurants r ON r.id = t.restaurant_id
		WHERE t.id = ?`
	var t model.Table
	var ownerID uint64
	err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.RestaurantID, &t.Label,
		&t.Capacity, &t.IsActive, &t.CreatedAt, &t.UpdatedAt, &ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrTableNotFound
		}
		return nil, 0, err
	}
	return &t, ownerID, nil
}

// ListByRestaurant returns all tables of a restaurant ordered by label.
func (r *TableRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]*model.Table, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, restaurant_id, label, capacity, is_active, created_at, updated_at
		 FROM tables WHERE restaurant_id = ? ORDER BY label, id`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Table, 0)
	for rows.Next() {
		var t model.Table
		if err := rows.Scan(&t.ID, &t.RestaurantID, &t.Label, &t.Capacity,
			&t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites a table's label, capacity and active flag.
func (r *TableRepo) Update(ctx context.Context, t *model.Table) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE tables SET label=?, capacity=?, is_active=? WHERE id=?",
		t.Label, t.Capacity, t.IsActive, t.ID)
	return err
}

// Delete removes a table row.
func (r *TableRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tables WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrTableNotFound
	}
	return nil
}
