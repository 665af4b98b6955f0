package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morekat/boat-charter/internal/repository"
)

func confirmedTripTicketRow(id, tripID uint64, adults, children uint32) *sqlmock.Rows {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "trip_id", "service_type", "user_id", "customer_name", "customer_phone",
		"customer_email", "desired_date", "adult_tickets", "child_tickets", "adult_price", "child_price",
		"total_price", "status", "confirmed_at", "cancelled_at", "created_at", "updated_at",
	}).AddRow(id, int64(tripID), "FISHING", uint64(42), "Anna Ivanova", "89161234567",
		nil, nil, adults, children, int64(2000), int64(1000),
		int64(adults)*2000+int64(children)*1000, "CONFIRMED", now, nil, now, now)
}

func TestSetTicketStatusCancelReleasesSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	h := NewAdminHandler(repository.NewBoatRepo(db), repository.NewBookingRepo(db),
		repository.NewTripRepo(db), repository.NewServiceRepo(db),
		repository.NewTicketRepo(db), repository.NewUserRepo(db))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM group_trip_tickets WHERE id = \? FOR UPDATE`).
		WithArgs(uint64(9)).
		WillReturnRows(confirmedTripTicketRow(9, 5, 2, 1))
	// All three seats come back to trip 5 and a sold-out trip reopens,
	// inside the same transaction as the status write.
	mock.ExpectExec(`UPDATE group_trips\s+SET available_seats = available_seats \+ \?`).
		WithArgs(uint32(3), uint64(5), uint32(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE group_trips\s+SET status = \?`).
		WithArgs("SCHEDULED", uint64(5), "FULL").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE group_trip_tickets SET status = \?, cancelled_at = NOW\(\)`).
		WithArgs("CANCELLED", uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, rec := newTestContext(t, http.MethodPatch, "/v1/admin/tickets/9/status", `{"status":"CANCELLED"}`)
	c.SetParamNames("id")
	c.SetParamValues("9")

	require.NoError(t, h.SetTicketStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"CANCELLED"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetTicketStatusRejectsReviveAfterCancel(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	h := NewAdminHandler(repository.NewBoatRepo(db), repository.NewBookingRepo(db),
		repository.NewTripRepo(db), repository.NewServiceRepo(db),
		repository.NewTicketRepo(db), repository.NewUserRepo(db))
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	cancelled := sqlmock.NewRows([]string{
		"id", "trip_id", "service_type", "user_id", "customer_name", "customer_phone",
		"customer_email", "desired_date", "adult_tickets", "child_tickets", "adult_price", "child_price",
		"total_price", "status", "confirmed_at", "cancelled_at", "created_at", "updated_at",
	}).AddRow(9, int64(5), "FISHING", uint64(42), "Anna Ivanova", "89161234567",
		nil, nil, 2, 0, int64(2000), int64(1000), int64(4000), "CANCELLED", nil, now, now, now)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM group_trip_tickets WHERE id = \? FOR UPDATE`).
		WithArgs(uint64(9)).
		WillReturnRows(cancelled)
	mock.ExpectRollback()

	c, rec := newTestContext(t, http.MethodPatch, "/v1/admin/tickets/9/status", `{"status":"CONFIRMED"}`)
	c.SetParamNames("id")
	c.SetParamValues("9")

	require.NoError(t, h.SetTicketStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "cannot change")
	assert.NoError(t, mock.ExpectationsWereMet())
}
