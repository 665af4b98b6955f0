package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/morekat/boat-charter/internal/model"
)

func TestHasOverlapTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepo(db)
	start := time.Date(2026, 7, 10, 12, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)

	overlapQ := regexp.QuoteMeta(`SELECT 1 FROM bookings`)

	t.Run("conflict found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(overlapQ).
			WithArgs(uint64(7), "PENDING", "CONFIRMED", "PAID", end, start).
			WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

		tx, err := db.BeginTx(context.Background(), nil)
		if err != nil {
			t.Fatalf("begin: %v", err)
		}
		defer tx.Rollback()

		got, err := repo.HasOverlapTx(context.Background(), tx, 7, start, end)
		if err != nil {
			t.Fatalf("HasOverlapTx: %v", err)
		}
		if !got {
			t.Fatalf("expected overlap to be reported")
		}
	})

	t.Run("no conflict", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(overlapQ).
			WithArgs(uint64(7), "PENDING", "CONFIRMED", "PAID", end, start).
			WillReturnRows(sqlmock.NewRows([]string{"1"}))

		tx, err := db.BeginTx(context.Background(), nil)
		if err != nil {
			t.Fatalf("begin: %v", err)
		}
		defer tx.Rollback()

		got, err := repo.HasOverlapTx(context.Background(), tx, 7, start, end)
		if err != nil {
			t.Fatalf("HasOverlapTx: %v", err)
		}
		if got {
			t.Fatalf("expected no overlap")
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateTxInsertsPendingBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepo(db)
	start := time.Date(2026, 7, 10, 12, 0, 0, 0, time.UTC)
	now := time.Date(2026, 7, 1, 9, 30, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO bookings`)).
		WithArgs(uint64(7), uint64(42), start, start.Add(3*time.Hour), uint32(3), uint32(5),
			int64(45000), "PENDING", "Ivan Petrov", "+79161234567", nil, nil).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT created_at, updated_at FROM bookings WHERE id = ?`)).
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback()

	b := &model.Booking{
		BoatID:        7,
		UserID:        42,
		StartDate:     start,
		EndDate:       start.Add(3 * time.Hour),
		Hours:         3,
		Passengers:    5,
		TotalPrice:    45000,
		Status:        model.BookingStatusPending,
		CustomerName:  "Ivan Petrov",
		CustomerPhone: "+79161234567",
	}
	if err := repo.CreateTx(context.Background(), tx, b); err != nil {
		t.Fatalf("CreateTx: %v", err)
	}
	if b.ID != 11 {
		t.Fatalf("expected id 11, got %d", b.ID)
	}
	if !b.CreatedAt.Equal(now) {
		t.Fatalf("expected created_at to be populated")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateStatusTxNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE bookings SET status = ?, cancelled_at = NOW() WHERE id = ?`)).
		WithArgs("CANCELLED", uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback()

	err = repo.UpdateStatusTx(context.Background(), tx, 99, model.BookingStatusCancelled)
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetByIDTranslatesNoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepo(db)

	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE id = \?`).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.GetByID(context.Background(), 5)
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
