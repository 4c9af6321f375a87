package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var restaurantCols = []string{
	"id", "owner_id", "name", "description", "address", "city", "state", "zip_code",
	"phone", "email", "website", "cuisine", "price_range", "image_url",
	"opening_time", "closing_time", "total_tables", "capacity",
	"rating", "review_count", "created_at", "updated_at",
}

func restaurantRow() []driver.Value {
	now := time.Now().UTC()
	return []driver.Value{
		uint64(3), uint64(11), "Trattoria", nil, "1 Main St", "Springfield", "IL", "62701",
		"555-0100", nil, nil, "italian,pizza", 2, nil,
		"11:00", "22:00", 10, 40,
		4.5, 12, now, now,
	}
}

func TestRestaurantGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM restaurants WHERE id").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows(restaurantCols).AddRow(restaurantRow()...))

	repo := NewRestaurantRepo(db)
	rest, err := repo.GetByID(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if rest.Name != "Trattoria" || rest.TotalTables != 10 || rest.Capacity != 40 {
		t.Fatalf("unexpected restaurant: %+v", rest)
	}
	if rest.Description != "" || rest.ImageURL != "" {
		t.Fatalf("NULL columns should scan to empty strings")
	}
}

func TestRestaurantGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM restaurants WHERE id").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows(restaurantCols))

	repo := NewRestaurantRepo(db)
	if _, err := repo.GetByID(context.Background(), 99); !errors.Is(err, ErrRestaurantNotFound) {
		t.Fatalf("want ErrRestaurantNotFound, got %v", err)
	}
}

func TestRestaurantSearchFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// City and cuisine filters contribute args in declaration order, and
	// the list query appends limit and offset.
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("%Springfield%", "italian").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("FROM restaurants WHERE city LIKE").
		WithArgs("%Springfield%", "italian", 20, 0).
		WillReturnRows(sqlmock.NewRows(restaurantCols).AddRow(restaurantRow()...))

	repo := NewRestaurantRepo(db)
	list, total, err := repo.Search(context.Background(), SearchFilter{
		City:    "Springfield",
		Cuisine: "italian",
		Page:    1,
		Limit:   20,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Fatalf("want total=1 len=1, got total=%d len=%d", total, len(list))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRestaurantUpdateRatingTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE restaurants SET").
		WithArgs(uint64(3), uint64(3), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewRestaurantRepo(db)
	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := repo.UpdateRatingTx(ctx, tx, 3); err != nil {
		t.Fatalf("UpdateRatingTx: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRestaurantDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM restaurants").
		WithArgs(uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewRestaurantRepo(db)
	if err := repo.Delete(context.Background(), 99); !errors.Is(err, ErrRestaurantNotFound) {
		t.Fatalf("want ErrRestaurantNotFound, got %v", err)
	}
}
