package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/morekat/boat-charter/internal/model"
)

// BookingRepo persists boat bookings.  The write path is transactional:
// the caller opens a transaction, locks the boat row through
// BoatRepo.LockForBookingTx, checks the window with HasOverlapTx and
// inserts with CreateTx.  The boat row lock serializes concurrent
// attempts on the same boat, so the check-then-insert pair cannot race.
type BookingRepo struct {
	DB *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

const bookingColumns = `id, boat_id, user_id, start_date, end_date, hours, passengers,
	total_price, status, customer_name, customer_phone, customer_email, customer_notes,
	confirmed_at, cancelled_at, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var b model.Booking
	var email, notes sql.NullString
	var confirmedAt, cancelledAt sql.NullTime
	err := row.Scan(
		&b.ID, &b.BoatID, &b.UserID, &b.StartDate, &b.EndDate, &b.Hours, &b.Passengers,
		&b.TotalPrice, &b.Status, &b.CustomerName, &b.CustomerPhone, &email, &notes,
		&confirmedAt, &cancelledAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if email.Valid {
		b.CustomerEmail = &email.String
	}
	if notes.Valid {
		b.CustomerNotes = &notes.String
	}
	if confirmedAt.Valid {
		b.ConfirmedAt = &confirmedAt.Time
	}
	if cancelledAt.Valid {
		b.CancelledAt = &cancelledAt.Time
	}
	return &b, nil
}

func statusPlaceholders(statuses []string) (string, []any) {
	args := make([]any, len(statuses))
	for i, s := range statuses {
		args[i] = s
	}
	return strings.TrimSuffix(strings.Repeat("?,", len(statuses)), ","), args
}

// HasOverlapTx reports whether any active booking on the boat overlaps
// the half-open window [start, end).  Two windows overlap exactly when
// existing.start < end AND existing.end > start, so back-to-back
// bookings (one ends at 14:00, the next starts at 14:00) do not
// conflict.  Must be called with the boat row locked.
func (r *BookingRepo) HasOverlapTx(ctx context.Context, tx *sql.Tx, boatID uint64, start, end time.Time) (bool, error) {
	ph, statusArgs := statusPlaceholders(model.BookingActiveStatuses)
	args := append([]any{boatID}, statusArgs...)
	args = append(args, end, start)
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM bookings
		WHERE boat_id = ? AND status IN (`+ph+`)
		  AND start_date < ? AND end_date > ?
		LIMIT 1`, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateTx inserts a new PENDING booking inside the caller's
// transaction and queries back the generated id and timestamps.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	res, err := tx.ExecContext(ctx, `INSERT INTO bookings
		(boat_id, user_id, start_date, end_date, hours, passengers, total_price, status,
		 customer_name, customer_phone, customer_email, customer_notes)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.BoatID, b.UserID, b.StartDate, b.EndDate, b.Hours, b.Passengers, b.TotalPrice,
		b.Status, b.CustomerName, b.CustomerPhone, nullableStr(b.CustomerEmail), nullableStr(b.CustomerNotes))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	row := tx.QueryRowContext(ctx, `SELECT created_at, updated_at FROM bookings WHERE id = ?`, b.ID)
	return row.Scan(&b.CreatedAt, &b.UpdatedAt)
}

// GetByID returns a booking by id or ErrBookingNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	return b, err
}

// GetByIDTx is GetByID with a row lock, used by the status-change path
// so two admins cannot apply conflicting transitions.
func (r *BookingRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ? FOR UPDATE`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	return b, err
}

// ListByBoat returns bookings for one boat, newest first, optionally
// filtered by status.
func (r *BookingRepo) ListByBoat(ctx context.Context, boatID uint64, status string) ([]model.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE boat_id = ?`
	args := []any{boatID}
	if status != "" {
		q += ` AND status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY start_date DESC`
	return r.list(ctx, q, args...)
}

// ListAll returns every booking for the admin back office, newest
// first, optionally filtered by status.
func (r *BookingRepo) ListAll(ctx context.Context, status string) ([]model.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings`
	args := []any{}
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC`
	return r.list(ctx, q, args...)
}

// ListByUser returns one customer's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id = ? ORDER BY created_at DESC`, userID)
}

func (r *BookingRepo) list(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// UpdateStatusTx applies an already-validated status change, stamping
// confirmed_at/cancelled_at as appropriate.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	var q string
	switch status {
	case model.BookingStatusConfirmed:
		q = `UPDATE bookings SET status = ?, confirmed_at = NOW() WHERE id = ?`
	case model.BookingStatusCancelled:
		q = `UPDATE bookings SET status = ?, cancelled_at = NOW() WHERE id = ?`
	default:
		q = `UPDATE bookings SET status = ? WHERE id = ?`
	}
	res, err := tx.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func nullableStr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
