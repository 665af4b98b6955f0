package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morekat/boat-charter/internal/repository"
)

func scheduledTripRow(id uint64, seats int32, capacity uint32, departure time.Time) *sqlmock.Rows {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "type", "price", "max_capacity", "available_seats", "departure_date", "status", "created_at", "updated_at",
	}).AddRow(id, "FISHING", int64(2000), capacity, seats, departure, "SCHEDULED", now, now)
}

func purchaseBody(adults, children uint32) string {
	return fmt.Sprintf(`{"adult_tickets":%d,"child_tickets":%d,`+
		`"customer_name":"Anna Ivanova","customer_phone":"89161234567"}`, adults, children)
}

func TestPurchaseTripTicketsInsufficientSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	h := NewTicketHandler(repository.NewTripRepo(db), repository.NewServiceRepo(db),
		repository.NewTicketRepo(db), repository.NewUserRepo(db))
	departure := time.Now().UTC().Add(72 * time.Hour)

	mock.ExpectExec(`UPDATE users`).
		WithArgs("89161234567", nil, uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM group_trips WHERE id = \?`).
		WithArgs(uint64(4)).
		WillReturnRows(scheduledTripRow(4, 2, 12, departure))
	mock.ExpectExec(`UPDATE group_trips`).
		WithArgs(uint32(5), uint64(4), "SCHEDULED", uint32(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT .+ FROM group_trips WHERE id = \?`).
		WithArgs(uint64(4)).
		WillReturnRows(scheduledTripRow(4, 2, 12, departure))
	mock.ExpectRollback()

	c, rec := newTestContext(t, http.MethodPost, "/v1/group-trips/4/tickets", purchaseBody(3, 2))
	c.SetParamNames("id")
	c.SetParamValues("4")
	c.Set("user_id", uint64(42))

	require.NoError(t, h.PurchaseTripTickets(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not enough available seats")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseTripTicketsRejectsDepartedTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	h := NewTicketHandler(repository.NewTripRepo(db), repository.NewServiceRepo(db),
		repository.NewTicketRepo(db), repository.NewUserRepo(db))

	mock.ExpectExec(`UPDATE users`).
		WithArgs("89161234567", nil, uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM group_trips WHERE id = \?`).
		WithArgs(uint64(4)).
		WillReturnRows(scheduledTripRow(4, 8, 12, time.Now().UTC().Add(-time.Hour)))
	mock.ExpectRollback()

	c, rec := newTestContext(t, http.MethodPost, "/v1/group-trips/4/tickets", purchaseBody(1, 0))
	c.SetParamNames("id")
	c.SetParamValues("4")
	c.Set("user_id", uint64(42))

	require.NoError(t, h.PurchaseTripTickets(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseTripTicketsRejectsUnpricedTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	h := NewTicketHandler(repository.NewTripRepo(db), repository.NewServiceRepo(db),
		repository.NewTicketRepo(db), repository.NewUserRepo(db))
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	departure := time.Now().UTC().Add(72 * time.Hour)
	unpriced := sqlmock.NewRows([]string{
		"id", "type", "price", "max_capacity", "available_seats", "departure_date", "status", "created_at", "updated_at",
	}).AddRow(4, "FISHING", int64(0), uint32(12), int32(8), departure, "SCHEDULED", now, now)

	mock.ExpectExec(`UPDATE users`).
		WithArgs("89161234567", nil, uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM group_trips WHERE id = \?`).
		WithArgs(uint64(4)).
		WillReturnRows(unpriced)
	mock.ExpectRollback()

	c, rec := newTestContext(t, http.MethodPost, "/v1/group-trips/4/tickets", purchaseBody(1, 0))
	c.SetParamNames("id")
	c.SetParamValues("4")
	c.Set("user_id", uint64(42))

	require.NoError(t, h.PurchaseTripTickets(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "resource unavailable")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseTripTicketsRejectsOversizedParty(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	h := NewTicketHandler(repository.NewTripRepo(db), repository.NewServiceRepo(db),
		repository.NewTicketRepo(db), repository.NewUserRepo(db))

	c, rec := newTestContext(t, http.MethodPost, "/v1/group-trips/4/tickets", purchaseBody(8, 3))
	c.SetParamNames("id")
	c.SetParamValues("4")
	c.Set("user_id", uint64(42))

	require.NoError(t, h.PurchaseTripTickets(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
