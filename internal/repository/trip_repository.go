package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/morekat/boat-charter/internal/model"
)

// TripRepo persists group trips and owns the seat ledger.  Every change
// to available_seats happens through ReserveSeatsTx or ReleaseSeatsTx,
// which are conditional single-row updates: the WHERE clause re-checks
// the precondition, so concurrent purchases that would oversell the
// trip lose the race at the database instead of at read time.
type TripRepo struct {
	DB *sql.DB
}

// NewTripRepo returns a TripRepo bound to the given database.
func NewTripRepo(db *sql.DB) *TripRepo { return &TripRepo{DB: db} }

const tripColumns = `id, type, price, max_capacity, available_seats, departure_date, status, created_at, updated_at`

func scanTrip(row interface{ Scan(...any) error }) (*model.GroupTrip, error) {
	var t model.GroupTrip
	err := row.Scan(&t.ID, &t.Type, &t.Price, &t.MaxCapacity, &t.AvailableSeats,
		&t.DepartureDate, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByID returns a trip by id or ErrTripNotFound.
func (r *TripRepo) GetByID(ctx context.Context, id uint64) (*model.GroupTrip, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+tripColumns+` FROM group_trips WHERE id = ?`, id)
	t, err := scanTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTripNotFound
	}
	return t, err
}

// GetByIDTx is GetByID inside a transaction, without a row lock.  The
// seat updates below carry their own preconditions, so purchases read
// the trip only to capture prices and reject closed statuses early.
func (r *TripRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.GroupTrip, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+tripColumns+` FROM group_trips WHERE id = ?`, id)
	t, err := scanTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTripNotFound
	}
	return t, err
}

// ListUpcoming returns SCHEDULED and FULL trips departing after now,
// soonest first.  FULL trips stay listed so customers can see them.
func (r *TripRepo) ListUpcoming(ctx context.Context) ([]model.GroupTrip, error) {
	return r.list(ctx, `SELECT `+tripColumns+` FROM group_trips
		WHERE status IN (?, ?) AND departure_date > NOW()
		ORDER BY departure_date ASC`, model.TripStatusScheduled, model.TripStatusFull)
}

// ListAll returns every trip for the admin back office, optionally
// filtered by status, newest departure first.
func (r *TripRepo) ListAll(ctx context.Context, status string) ([]model.GroupTrip, error) {
	q := `SELECT ` + tripColumns + ` FROM group_trips`
	args := []any{}
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY departure_date DESC`
	return r.list(ctx, q, args...)
}

func (r *TripRepo) list(ctx context.Context, q string, args ...any) ([]model.GroupTrip, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.GroupTrip, 0)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// Create inserts a trip with a full seat pool (available_seats starts
// at max_capacity).
func (r *TripRepo) Create(ctx context.Context, t *model.GroupTrip) error {
	res, err := r.DB.ExecContext(ctx, `INSERT INTO group_trips
		(type, price, max_capacity, available_seats, departure_date, status)
		VALUES (?,?,?,?,?,?)`,
		t.Type, t.Price, t.MaxCapacity, t.AvailableSeats, t.DepartureDate, t.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	row := r.DB.QueryRowContext(ctx, `SELECT created_at, updated_at FROM group_trips WHERE id = ?`, t.ID)
	return row.Scan(&t.CreatedAt, &t.UpdatedAt)
}

// UpdateStatus sets a trip's status directly.  Used for the admin
// COMPLETED/CANCELLED transitions; the FULL/SCHEDULED pair is managed
// only by the seat operations below.
func (r *TripRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE group_trips SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrTripNotFound
	}
	return nil
}

// ReserveSeatsTx atomically takes n seats from the trip.  The UPDATE
// only fires when the trip is SCHEDULED and has at least n seats left;
// zero rows affected means the precondition failed and the caller's
// transaction should roll back.  A follow-up UPDATE flips the trip to
// FULL in the same transaction when the pool hits zero, so the
// status/seat coupling is never observable out of sync.
func (r *TripRepo) ReserveSeatsTx(ctx context.Context, tx *sql.Tx, tripID uint64, n uint32) error {
	res, err := tx.ExecContext(ctx, `UPDATE group_trips
		SET available_seats = available_seats - ?
		WHERE id = ? AND status = ? AND available_seats >= ?`,
		n, tripID, model.TripStatusScheduled, n)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return r.classifyReserveFailure(ctx, tx, tripID)
	}
	_, err = tx.ExecContext(ctx, `UPDATE group_trips
		SET status = ? WHERE id = ? AND status = ? AND available_seats = 0`,
		model.TripStatusFull, tripID, model.TripStatusScheduled)
	return err
}

// classifyReserveFailure turns a zero-row reserve into the precise
// business error: missing trip, closed trip, or too few seats.
func (r *TripRepo) classifyReserveFailure(ctx context.Context, tx *sql.Tx, tripID uint64) error {
	t, err := r.GetByIDTx(ctx, tx, tripID)
	if err != nil {
		return err
	}
	if t.Status != model.TripStatusScheduled {
		if t.Status == model.TripStatusFull {
			return ErrInsufficientSeats
		}
		return ErrResourceUnavailable
	}
	return ErrInsufficientSeats
}

// ReleaseSeatsTx returns n seats to the trip's pool, capped at
// max_capacity by the WHERE clause, and reverts FULL back to SCHEDULED
// when seats reappear.  Releasing into a COMPLETED or CANCELLED trip is
// a no-op on status but still restores the counter so the ledger stays
// balanced.
func (r *TripRepo) ReleaseSeatsTx(ctx context.Context, tx *sql.Tx, tripID uint64, n uint32) error {
	res, err := tx.ExecContext(ctx, `UPDATE group_trips
		SET available_seats = available_seats + ?
		WHERE id = ? AND available_seats + ? <= max_capacity`,
		n, tripID, n)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := r.GetByIDTx(ctx, tx, tripID); err != nil {
			return err
		}
		return ErrCapacityExceeded
	}
	_, err = tx.ExecContext(ctx, `UPDATE group_trips
		SET status = ? WHERE id = ? AND status = ? AND available_seats > 0`,
		model.TripStatusScheduled, tripID, model.TripStatusFull)
	return err
}
