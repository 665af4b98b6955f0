package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/morekat/boat-charter/internal/model"
)

// TicketRepo persists group trip tickets.  Ticket writes that touch the
// seat ledger (purchase, cancel, trip assignment) run inside the same
// transaction as the corresponding TripRepo seat operation.
type TicketRepo struct {
	DB *sql.DB
}

// NewTicketRepo returns a TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{DB: db} }

const ticketColumns = `id, trip_id, service_type, user_id, customer_name, customer_phone,
	customer_email, desired_date, adult_tickets, child_tickets, adult_price, child_price,
	total_price, status, confirmed_at, cancelled_at, created_at, updated_at`

func scanTicket(row interface{ Scan(...any) error }) (*model.GroupTripTicket, error) {
	var t model.GroupTripTicket
	var tripID sql.NullInt64
	var email sql.NullString
	var desired, confirmedAt, cancelledAt sql.NullTime
	err := row.Scan(
		&t.ID, &tripID, &t.ServiceType, &t.UserID, &t.CustomerName, &t.CustomerPhone,
		&email, &desired, &t.AdultTickets, &t.ChildTickets, &t.AdultPrice, &t.ChildPrice,
		&t.TotalPrice, &t.Status, &confirmedAt, &cancelledAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if tripID.Valid {
		id := uint64(tripID.Int64)
		t.TripID = &id
	}
	if email.Valid {
		t.CustomerEmail = &email.String
	}
	if desired.Valid {
		t.DesiredDate = &desired.Time
	}
	if confirmedAt.Valid {
		t.ConfirmedAt = &confirmedAt.Time
	}
	if cancelledAt.Valid {
		t.CancelledAt = &cancelledAt.Time
	}
	return &t, nil
}

// CreateTx inserts a ticket inside the caller's transaction and queries
// back the generated id and timestamps.
func (r *TicketRepo) CreateTx(ctx context.Context, tx *sql.Tx, t *model.GroupTripTicket) error {
	res, err := tx.ExecContext(ctx, `INSERT INTO group_trip_tickets
		(trip_id, service_type, user_id, customer_name, customer_phone, customer_email,
		 desired_date, adult_tickets, child_tickets, adult_price, child_price, total_price, status)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		nullableID(t.TripID), t.ServiceType, t.UserID, t.CustomerName, t.CustomerPhone,
		nullableStr(t.CustomerEmail), nullableTime(t.DesiredDate),
		t.AdultTickets, t.ChildTickets, t.AdultPrice, t.ChildPrice, t.TotalPrice, t.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	row := tx.QueryRowContext(ctx, `SELECT created_at, updated_at FROM group_trip_tickets WHERE id = ?`, t.ID)
	return row.Scan(&t.CreatedAt, &t.UpdatedAt)
}

// GetByID returns a ticket by id or ErrTicketNotFound.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (*model.GroupTripTicket, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+ticketColumns+` FROM group_trip_tickets WHERE id = ?`, id)
	t, err := scanTicket(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTicketNotFound
	}
	return t, err
}

// GetByIDTx locks and returns a ticket row.  Status changes and trip
// assignment read the ticket under this lock so the seat math they
// derive from it cannot go stale mid-transaction.
func (r *TicketRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.GroupTripTicket, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+ticketColumns+` FROM group_trip_tickets WHERE id = ? FOR UPDATE`, id)
	t, err := scanTicket(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTicketNotFound
	}
	return t, err
}

// ListByUser returns one customer's tickets, newest first.
func (r *TicketRepo) ListByUser(ctx context.Context, userID uint64) ([]model.GroupTripTicket, error) {
	return r.list(ctx, `SELECT `+ticketColumns+` FROM group_trip_tickets
		WHERE user_id = ? ORDER BY created_at DESC`, userID)
}

// ListByTrip returns all tickets sold for a trip, oldest first.
func (r *TicketRepo) ListByTrip(ctx context.Context, tripID uint64) ([]model.GroupTripTicket, error) {
	return r.list(ctx, `SELECT `+ticketColumns+` FROM group_trip_tickets
		WHERE trip_id = ? ORDER BY created_at ASC`, tripID)
}

// ListUnassigned returns service tickets awaiting a trip, optionally
// filtered by service type, oldest first.
func (r *TicketRepo) ListUnassigned(ctx context.Context, serviceType string) ([]model.GroupTripTicket, error) {
	q := `SELECT ` + ticketColumns + ` FROM group_trip_tickets WHERE trip_id IS NULL AND status <> ?`
	args := []any{model.TicketStatusCancelled}
	if serviceType != "" {
		q += ` AND service_type = ?`
		args = append(args, serviceType)
	}
	q += ` ORDER BY created_at ASC`
	return r.list(ctx, q, args...)
}

func (r *TicketRepo) list(ctx context.Context, q string, args ...any) ([]model.GroupTripTicket, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.GroupTripTicket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// UpdateStatusTx applies an already-validated status change, stamping
// confirmed_at/cancelled_at as appropriate.
func (r *TicketRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	var q string
	switch status {
	case model.TicketStatusConfirmed:
		q = `UPDATE group_trip_tickets SET status = ?, confirmed_at = NOW() WHERE id = ?`
	case model.TicketStatusCancelled:
		q = `UPDATE group_trip_tickets SET status = ?, cancelled_at = NOW() WHERE id = ?`
	default:
		q = `UPDATE group_trip_tickets SET status = ? WHERE id = ?`
	}
	res, err := tx.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrTicketNotFound
	}
	return nil
}

// AssignTripTx attaches an unassigned service ticket to a trip.  The
// WHERE clause insists the ticket is still unassigned, so two admins
// assigning the same ticket cannot both take seats for it.
func (r *TicketRepo) AssignTripTx(ctx context.Context, tx *sql.Tx, ticketID, tripID uint64) error {
	res, err := tx.ExecContext(ctx, `UPDATE group_trip_tickets
		SET trip_id = ? WHERE id = ? AND trip_id IS NULL`, tripID, ticketID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		if _, err := r.GetByIDTx(ctx, tx, ticketID); err != nil {
			return err
		}
		return ValidationError{Field: "ticket", Msg: "already assigned to a trip"}
	}
	return nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
