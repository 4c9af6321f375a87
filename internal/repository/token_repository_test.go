package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestValidateRefresh(t *testing.T) {
	future := time.Now().UTC().Add(24 * time.Hour)
	past := time.Now().UTC().Add(-time.Hour)
	revoked := time.Now().UTC().Add(-time.Minute)

	cases := []struct {
		name      string
		expiresAt time.Time
		revokedAt interface{}
		wantUser  uint64
		wantErr   bool
	}{
		{name: "valid", expiresAt: future, revokedAt: nil, wantUser: 7},
		{name: "expired", expiresAt: past, revokedAt: nil, wantErr: true},
		{name: "revoked", expiresAt: future, revokedAt: revoked, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("sqlmock init error: %v", err)
			}
			defer db.Close()

			mock.ExpectQuery("FROM refresh_tokens WHERE token_hash").
				WithArgs("abc123").
				WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
					AddRow(7, tc.expiresAt, tc.revokedAt))

			repo := NewTokenRepo(db)
			uid, err := repo.ValidateRefresh(context.Background(), "abc123")
			if tc.wantErr {
				if !errors.Is(err, sql.ErrNoRows) {
					t.Fatalf("want sql.ErrNoRows, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateRefresh: %v", err)
			}
			if uid != tc.wantUser {
				t.Fatalf("want user %d, got %d", tc.wantUser, uid)
			}
		})
	}
}

func TestValidateRefreshUnknownHash(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM refresh_tokens WHERE token_hash").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}))

	repo := NewTokenRepo(db)
	if _, err := repo.ValidateRefresh(context.Background(), "nope"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("want sql.ErrNoRows, got %v", err)
	}
}
