package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/morekat/boat-charter/internal/model"
)

// BoatRepo provides persistence for boats.  Boats are read-only input
// to the booking flow; the admin back office is the only writer.
type BoatRepo struct {
	DB *sql.DB
}

// NewBoatRepo returns a BoatRepo bound to the given database.
func NewBoatRepo(db *sql.DB) *BoatRepo { return &BoatRepo{DB: db} }

const boatColumns = `id, name, description, type, capacity, length_m, year,
	price_per_hour, price_per_day, minimum_hours, location, pier,
	has_captain, has_crew, is_active, is_available, owner_id, created_at, updated_at`

func scanBoat(row interface{ Scan(...any) error }) (*model.Boat, error) {
	var b model.Boat
	var year sql.NullInt32
	var ownerID sql.NullInt64
	err := row.Scan(
		&b.ID, &b.Name, &b.Description, &b.Type, &b.Capacity, &b.LengthM, &year,
		&b.PricePerHour, &b.PricePerDay, &b.MinimumHours, &b.Location, &b.Pier,
		&b.HasCaptain, &b.HasCrew, &b.IsActive, &b.IsAvailable, &ownerID,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if year.Valid {
		y := uint16(year.Int32)
		b.Year = &y
	}
	if ownerID.Valid {
		o := uint64(ownerID.Int64)
		b.OwnerID = &o
	}
	return &b, nil
}

// GetByID returns a boat regardless of its flags.  Returns
// ErrBoatNotFound when no row exists.
func (r *BoatRepo) GetByID(ctx context.Context, id uint64) (*model.Boat, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+boatColumns+` FROM boats WHERE id = ?`, id)
	b, err := scanBoat(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBoatNotFound
	}
	return b, err
}

// ListActive returns boats visible on the storefront, optionally
// filtered by type.  Inactive boats are hidden entirely; unavailable
// boats are listed (they are shown as not bookable).
func (r *BoatRepo) ListActive(ctx context.Context, boatType string) ([]model.Boat, error) {
	q := `SELECT ` + boatColumns + ` FROM boats WHERE is_active = 1`
	args := []any{}
	if boatType != "" {
		q += ` AND type = ?`
		args = append(args, boatType)
	}
	q += ` ORDER BY price_per_hour ASC, id ASC`
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	boats := make([]model.Boat, 0)
	for rows.Next() {
		b, err := scanBoat(rows)
		if err != nil {
			return nil, err
		}
		boats = append(boats, *b)
	}
	return boats, rows.Err()
}

// ListAll returns every boat for the admin back office.
func (r *BoatRepo) ListAll(ctx context.Context) ([]model.Boat, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+boatColumns+` FROM boats ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	boats := make([]model.Boat, 0)
	for rows.Next() {
		b, err := scanBoat(rows)
		if err != nil {
			return nil, err
		}
		boats = append(boats, *b)
	}
	return boats, rows.Err()
}

// Create inserts a boat and populates its generated id and timestamps.
func (r *BoatRepo) Create(ctx context.Context, b *model.Boat) error {
	res, err := r.DB.ExecContext(ctx, `INSERT INTO boats
		(name, description, type, capacity, length_m, year, price_per_hour, price_per_day,
		 minimum_hours, location, pier, has_captain, has_crew, is_active, is_available, owner_id)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.Name, b.Description, b.Type, b.Capacity, b.LengthM, nullableYear(b.Year),
		b.PricePerHour, b.PricePerDay, b.MinimumHours, b.Location, b.Pier,
		b.HasCaptain, b.HasCrew, b.IsActive, b.IsAvailable, nullableID(b.OwnerID))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	row := r.DB.QueryRowContext(ctx, `SELECT created_at, updated_at FROM boats WHERE id = ?`, b.ID)
	return row.Scan(&b.CreatedAt, &b.UpdatedAt)
}

// Update rewrites all mutable boat fields.  Returns ErrBoatNotFound
// when the boat does not exist.
func (r *BoatRepo) Update(ctx context.Context, b *model.Boat) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE boats SET
		name=?, description=?, type=?, capacity=?, length_m=?, year=?,
		price_per_hour=?, price_per_day=?, minimum_hours=?, location=?, pier=?,
		has_captain=?, has_crew=?, is_active=?, is_available=?
		WHERE id=?`,
		b.Name, b.Description, b.Type, b.Capacity, b.LengthM, nullableYear(b.Year),
		b.PricePerHour, b.PricePerDay, b.MinimumHours, b.Location, b.Pier,
		b.HasCaptain, b.HasCrew, b.IsActive, b.IsAvailable, b.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish "missing" from "unchanged": RowsAffected is 0 for
		// both on MySQL, so check existence explicitly.
		var exists uint64
		if err := r.DB.QueryRowContext(ctx, `SELECT id FROM boats WHERE id = ?`, b.ID).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBoatNotFound
			}
			return err
		}
	}
	return nil
}

// Deactivate hides a boat from the storefront.  Boats with booking
// history are never physically deleted.
func (r *BoatRepo) Deactivate(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE boats SET is_active = 0, is_available = 0 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists uint64
		if err := r.DB.QueryRowContext(ctx, `SELECT id FROM boats WHERE id = ?`, id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBoatNotFound
			}
			return err
		}
	}
	return nil
}

// LockForBookingTx locks the boat row for the duration of the caller's
// transaction and returns its current flags and price.  Concurrent
// booking attempts for the same boat serialize on this lock, which is
// what makes the overlap check + insert race-free.  Returns
// ErrBoatNotFound when the boat does not exist and
// ErrResourceUnavailable when it is inactive or unavailable.
func (r *BoatRepo) LockForBookingTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Boat, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+boatColumns+` FROM boats WHERE id = ? FOR UPDATE`, id)
	b, err := scanBoat(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBoatNotFound
	}
	if err != nil {
		return nil, err
	}
	if !b.IsActive || !b.IsAvailable {
		return nil, ErrResourceUnavailable
	}
	return b, nil
}

func nullableYear(y *uint16) any {
	if y == nil {
		return nil
	}
	return *y
}

func nullableID(id *uint64) any {
	if id == nil {
		return nil
	}
	return *id
}
