package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morekat/boat-charter/internal/repository"
)

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func bookableBoatRow(id uint64, capacity uint32, pricePerHour int64) *sqlmock.Rows {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "name", "description", "type", "capacity", "length_m", "year",
		"price_per_hour", "price_per_day", "minimum_hours", "location", "pier",
		"has_captain", "has_crew", "is_active", "is_available", "owner_id", "created_at", "updated_at",
	}).AddRow(id, "Laguna", "Day cruiser", "YACHT", capacity, 12.5, 2019,
		pricePerHour, pricePerHour*8, 2, "Sochi", "Pier 3",
		true, false, true, true, nil, now, now)
}

func bookingBody(boatID uint64, start time.Time, hours, passengers uint32) string {
	return fmt.Sprintf(`{"boat_id":%d,"start_date":%q,"hours":%d,"passengers":%d,`+
		`"customer_name":"Ivan Petrov","customer_phone":"+79161234567"}`,
		boatID, start.Format(time.RFC3339), hours, passengers)
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	h := NewBookingHandler(repository.NewBoatRepo(db), repository.NewBookingRepo(db), repository.NewUserRepo(db))
	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)

	mock.ExpectExec(`UPDATE users`).
		WithArgs("+79161234567", nil, uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM boats WHERE id = \? FOR UPDATE`).
		WithArgs(uint64(7)).
		WillReturnRows(bookableBoatRow(7, 8, 15000))
	mock.ExpectQuery(`SELECT 1 FROM bookings`).
		WithArgs(uint64(7), "PENDING", "CONFIRMED", "PAID", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectRollback()

	c, rec := newTestContext(t, http.MethodPost, "/v1/bookings", bookingBody(7, start, 3, 4))
	c.Set("user_id", uint64(42))

	require.NoError(t, h.CreateBooking(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already booked")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingCommitsAndPricesByHour(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	h := NewBookingHandler(repository.NewBoatRepo(db), repository.NewBookingRepo(db), repository.NewUserRepo(db))
	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	now := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE users`).
		WithArgs("+79161234567", nil, uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM boats WHERE id = \? FOR UPDATE`).
		WithArgs(uint64(7)).
		WillReturnRows(bookableBoatRow(7, 8, 15000))
	mock.ExpectQuery(`SELECT 1 FROM bookings`).
		WithArgs(uint64(7), "PENDING", "CONFIRMED", "PAID", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(uint64(7), uint64(42), sqlmock.AnyArg(), sqlmock.AnyArg(), uint32(3), uint32(4),
			int64(45000), "PENDING", "Ivan Petrov", "+79161234567", nil, nil).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery(`SELECT created_at, updated_at FROM bookings WHERE id = \?`).
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectCommit()

	c, rec := newTestContext(t, http.MethodPost, "/v1/bookings", bookingBody(7, start, 3, 4))
	c.Set("user_id", uint64(42))

	require.NoError(t, h.CreateBooking(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_price":45000`)
	assert.Contains(t, rec.Body.String(), `"status":"PENDING"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingRejectsTooManyPassengers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	h := NewBookingHandler(repository.NewBoatRepo(db), repository.NewBookingRepo(db), repository.NewUserRepo(db))
	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)

	mock.ExpectExec(`UPDATE users`).
		WithArgs("+79161234567", nil, uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM boats WHERE id = \? FOR UPDATE`).
		WithArgs(uint64(7)).
		WillReturnRows(bookableBoatRow(7, 8, 15000))
	mock.ExpectRollback()

	c, rec := newTestContext(t, http.MethodPost, "/v1/bookings", bookingBody(7, start, 3, 9))
	c.Set("user_id", uint64(42))

	require.NoError(t, h.CreateBooking(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingValidation(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	h := NewBookingHandler(repository.NewBoatRepo(db), repository.NewBookingRepo(db), repository.NewUserRepo(db))

	cases := []struct {
		name string
		body string
	}{
		{"past start date", bookingBody(7, time.Now().UTC().Add(-time.Hour), 3, 4)},
		{"zero hours", bookingBody(7, time.Now().UTC().Add(48*time.Hour), 0, 4)},
		{"bad phone", `{"boat_id":7,"start_date":"2027-07-10T12:00:00Z","hours":3,"passengers":4,` +
			`"customer_name":"Ivan","customer_phone":"12345"}`},
		{"missing name", `{"boat_id":7,"start_date":"2027-07-10T12:00:00Z","hours":3,"passengers":4,` +
			`"customer_name":"  ","customer_phone":"+79161234567"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestContext(t, http.MethodPost, "/v1/bookings", tc.body)
			c.Set("user_id", uint64(42))
			require.NoError(t, h.CreateBooking(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
