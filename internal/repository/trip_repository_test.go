package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func beginTestTx(t *testing.T, db *sql.DB, mock sqlmock.Sqlmock) *sql.Tx {
	t.Helper()
	mock.ExpectBegin()
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	t.Cleanup(func() { _ = tx.Rollback() })
	return tx
}

func tripRow(id uint64, status string, seats int32, capacity uint32) *sqlmock.Rows {
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "type", "price", "max_capacity", "available_seats", "departure_date", "status", "created_at", "updated_at",
	}).AddRow(id, "FISHING", int64(2000), capacity, seats, now.Add(240*time.Hour), status, now, now)
}

func TestReserveSeatsTxDecrementsAndFlipsFull(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewTripRepo(db)

	tx := beginTestTx(t, db, mock)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE group_trips
		SET available_seats = available_seats - ?
		WHERE id = ? AND status = ? AND available_seats >= ?`)).
		WithArgs(uint32(3), uint64(4), "SCHEDULED", uint32(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE group_trips
		SET status = ? WHERE id = ? AND status = ? AND available_seats = 0`)).
		WithArgs("FULL", uint64(4), "SCHEDULED").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.ReserveSeatsTx(context.Background(), tx, 4, 3); err != nil {
		t.Fatalf("ReserveSeatsTx: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReserveSeatsTxInsufficientSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewTripRepo(db)

	tx := beginTestTx(t, db, mock)
	// The guarded decrement touches nothing, so the repo re-reads the
	// trip to classify the failure.
	mock.ExpectExec(`UPDATE group_trips`).
		WithArgs(uint32(5), uint64(4), "SCHEDULED", uint32(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT .+ FROM group_trips WHERE id = \?`).
		WithArgs(uint64(4)).
		WillReturnRows(tripRow(4, "SCHEDULED", 2, 12))

	err = repo.ReserveSeatsTx(context.Background(), tx, 4, 5)
	if !errors.Is(err, ErrInsufficientSeats) {
		t.Fatalf("expected ErrInsufficientSeats, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReserveSeatsTxCancelledTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewTripRepo(db)

	tx := beginTestTx(t, db, mock)
	mock.ExpectExec(`UPDATE group_trips`).
		WithArgs(uint32(1), uint64(4), "SCHEDULED", uint32(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT .+ FROM group_trips WHERE id = \?`).
		WithArgs(uint64(4)).
		WillReturnRows(tripRow(4, "CANCELLED", 8, 12))

	err = repo.ReserveSeatsTx(context.Background(), tx, 4, 1)
	if !errors.Is(err, ErrResourceUnavailable) {
		t.Fatalf("expected ErrResourceUnavailable, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReserveSeatsTxFullTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewTripRepo(db)

	tx := beginTestTx(t, db, mock)
	mock.ExpectExec(`UPDATE group_trips`).
		WithArgs(uint32(1), uint64(4), "SCHEDULED", uint32(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT .+ FROM group_trips WHERE id = \?`).
		WithArgs(uint64(4)).
		WillReturnRows(tripRow(4, "FULL", 0, 12))

	err = repo.ReserveSeatsTx(context.Background(), tx, 4, 1)
	if !errors.Is(err, ErrInsufficientSeats) {
		t.Fatalf("expected ErrInsufficientSeats for a FULL trip, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReleaseSeatsTxRevertsFullToScheduled(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewTripRepo(db)

	tx := beginTestTx(t, db, mock)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE group_trips
		SET available_seats = available_seats + ?
		WHERE id = ? AND available_seats + ? <= max_capacity`)).
		WithArgs(uint32(2), uint64(4), uint32(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE group_trips
		SET status = ? WHERE id = ? AND status = ? AND available_seats > 0`)).
		WithArgs("SCHEDULED", uint64(4), "FULL").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.ReleaseSeatsTx(context.Background(), tx, 4, 2); err != nil {
		t.Fatalf("ReleaseSeatsTx: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReleaseSeatsTxOverCapacity(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewTripRepo(db)

	tx := beginTestTx(t, db, mock)
	mock.ExpectExec(`UPDATE group_trips`).
		WithArgs(uint32(20), uint64(4), uint32(20)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT .+ FROM group_trips WHERE id = \?`).
		WithArgs(uint64(4)).
		WillReturnRows(tripRow(4, "SCHEDULED", 10, 12))

	err = repo.ReleaseSeatsTx(context.Background(), tx, 4, 20)
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
