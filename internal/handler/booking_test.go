package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/alex8098/opentable-clone/internal/booking"
	"github.com/alex8098/opentable-clone/internal/repository"
)

func TestBookingCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	// Pre-check read, then the serialized transaction: locked re-read,
	// existing bookings, insert, timestamp query-back.
	mock.ExpectQuery("FROM restaurants WHERE id").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows(restaurantCols).AddRow(smallRestaurantRow()...))
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows(restaurantCols).AddRow(smallRestaurantRow()...))
	mock.ExpectQuery(`status <> 'CANCELLED'`).
		WithArgs(uint64(3), "2030-05-15").
		WillReturnRows(sqlmock.NewRows([]string{"time", "party_size"}))
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(uint64(7), uint64(3), "2030-05-15", "19:00", 2, "PENDING", "").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectQuery("SELECT created_at, updated_at FROM bookings").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectCommit()

	h := NewBookingHandler(
		repository.NewBookingRepo(db),
		repository.NewRestaurantRepo(db),
		booking.NewSlotLock(),
		booking.ConflictPolicy{},
	)

	body := `{"restaurant_id":3,"date":"2030-05-15","time":"19:00","party_size":2}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(7))
	c.Set("role", "CUSTOMER")

	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		ID     uint64 `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != 42 || resp.Status != "PENDING" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingCreateSlotFull(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM restaurants WHERE id").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows(restaurantCols).AddRow(smallRestaurantRow()...))
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows(restaurantCols).AddRow(smallRestaurantRow()...))
	// One table, already booked at the requested time.
	mock.ExpectQuery(`status <> 'CANCELLED'`).
		WithArgs(uint64(3), "2030-05-15").
		WillReturnRows(sqlmock.NewRows([]string{"time", "party_size"}).AddRow("19:00", 2))
	mock.ExpectRollback()

	h := NewBookingHandler(
		repository.NewBookingRepo(db),
		repository.NewRestaurantRepo(db),
		booking.NewSlotLock(),
		booking.ConflictPolicy{},
	)

	body := `{"restaurant_id":3,"date":"2030-05-15","time":"19:00","party_size":2}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(7))
	c.Set("role", "CUSTOMER")

	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("want 409, got %d: %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingCreateRejectsOwnerRole(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	h := NewBookingHandler(
		repository.NewBookingRepo(db),
		repository.NewRestaurantRepo(db),
		booking.NewSlotLock(),
		booking.ConflictPolicy{},
	)

	body := `{"restaurant_id":3,"date":"2030-05-15","time":"19:00","party_size":2}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(11))
	c.Set("role", "OWNER")

	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("want 403, got %d", rec.Code)
	}
}

func TestBookingCreateRejectsPastDate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM restaurants WHERE id").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows(restaurantCols).AddRow(smallRestaurantRow()...))

	h := NewBookingHandler(
		repository.NewBookingRepo(db),
		repository.NewRestaurantRepo(db),
		booking.NewSlotLock(),
		booking.ConflictPolicy{},
	)

	body := `{"restaurant_id":3,"date":"2020-01-01","time":"19:00","party_size":2}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(7))
	c.Set("role", "CUSTOMER")

	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBookingCreateNormalizesTime(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// Same restaurant, but open in the morning so a single-digit hour is
	// inside opening hours.
	morning := smallRestaurantRow()
	morning[14], morning[15] = "09:00", "12:00"

	now := time.Now().UTC()
	mock.ExpectQuery("FROM restaurants WHERE id").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows(restaurantCols).AddRow(morning...))
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows(restaurantCols).AddRow(morning...))
	mock.ExpectQuery(`status <> 'CANCELLED'`).
		WithArgs(uint64(3), "2030-05-15").
		WillReturnRows(sqlmock.NewRows([]string{"time", "party_size"}))
	// The unpadded "9:30" must be stored zero-padded.
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(uint64(7), uint64(3), "2030-05-15", "09:30", 2, "PENDING", "").
		WillReturnResult(sqlmock.NewResult(43, 1))
	mock.ExpectQuery("SELECT created_at, updated_at FROM bookings").
		WithArgs(uint64(43)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectCommit()

	h := NewBookingHandler(
		repository.NewBookingRepo(db),
		repository.NewRestaurantRepo(db),
		booking.NewSlotLock(),
		booking.ConflictPolicy{},
	)

	body := `{"restaurant_id":3,"date":"2030-05-15","time":"9:30","party_size":2}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(7))
	c.Set("role", "CUSTOMER")

	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Time string `json:"time"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Time != "09:30" {
		t.Fatalf("want normalized time 09:30, got %q", resp.Time)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingCreateRejectsLongSpecialRequests(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	h := NewBookingHandler(
		repository.NewBookingRepo(db),
		repository.NewRestaurantRepo(db),
		booking.NewSlotLock(),
		booking.ConflictPolicy{},
	)

	note := strings.Repeat("x", 501)
	body := `{"restaurant_id":3,"date":"2030-05-15","time":"19:00","party_size":2,"special_requests":"` + note + `"}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(7))
	c.Set("role", "CUSTOMER")

	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "special_requests") {
		t.Fatalf("error should name the offending field: %s", rec.Body.String())
	}
}

func TestBookingUpdateRejectsLongSpecialRequests(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	day, _ := time.Parse("2006-01-02", "2030-05-15")
	mock.ExpectQuery("FROM bookings b JOIN restaurants r").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "restaurant_id", "date", "time", "party_size",
			"status", "special_requests", "created_at", "updated_at", "owner_id",
		}).AddRow(42, 7, 3, day, "19:00", 2, "PENDING", nil, now, now, 11))

	h := NewBookingHandler(
		repository.NewBookingRepo(db),
		repository.NewRestaurantRepo(db),
		booking.NewSlotLock(),
		booking.ConflictPolicy{},
	)

	note := strings.Repeat("x", 501)
	body := `{"special_requests":"` + note + `"}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/v1/bookings/42", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/bookings/:id")
	c.SetParamNames("id")
	c.SetParamValues("42")
	c.Set("user_id", float64(7))
	c.Set("role", "CUSTOMER")

	if err := h.Update(c); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBookingCancelByCustomer(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	day, _ := time.Parse("2006-01-02", "2030-05-15")
	mock.ExpectQuery("FROM bookings b JOIN restaurants r").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "restaurant_id", "date", "time", "party_size",
			"status", "special_requests", "created_at", "updated_at", "owner_id",
		}).AddRow(42, 7, 3, day, "19:00", 2, "PENDING", nil, now, now, 11))
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs("CANCELLED", uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	h := NewBookingHandler(
		repository.NewBookingRepo(db),
		repository.NewRestaurantRepo(db),
		booking.NewSlotLock(),
		booking.ConflictPolicy{},
	)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings/42/cancel", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/bookings/:id/cancel")
	c.SetParamNames("id")
	c.SetParamValues("42")
	c.Set("user_id", float64(7))
	c.Set("role", "CUSTOMER")

	if err := h.Cancel(c); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "CANCELLED" {
		t.Fatalf("want CANCELLED, got %s", resp.Status)
	}
}

func TestBookingCancelCompletedIsRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	day, _ := time.Parse("2006-01-02", "2026-05-15")
	mock.ExpectQuery("FROM bookings b JOIN restaurants r").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "restaurant_id", "date", "time", "party_size",
			"status", "special_requests", "created_at", "updated_at", "owner_id",
		}).AddRow(42, 7, 3, day, "19:00", 2, "COMPLETED", nil, now, now, 11))

	h := NewBookingHandler(
		repository.NewBookingRepo(db),
		repository.NewRestaurantRepo(db),
		booking.NewSlotLock(),
		booking.ConflictPolicy{},
	)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings/42/cancel", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/bookings/:id/cancel")
	c.SetParamNames("id")
	c.SetParamValues("42")
	c.Set("user_id", float64(7))
	c.Set("role", "CUSTOMER")

	if err := h.Cancel(c); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "completed") {
		t.Fatalf("error should name the blocking state: %s", rec.Body.String())
	}
}
