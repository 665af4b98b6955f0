package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/morekat/boat-charter/internal/model"
)

// ServiceRepo persists the standing group trip offers (one row per trip
// type).
type ServiceRepo struct {
	DB *sql.DB
}

// NewServiceRepo returns a ServiceRepo bound to the given database.
func NewServiceRepo(db *sql.DB) *ServiceRepo { return &ServiceRepo{DB: db} }

const serviceColumns = `id, type, title, description, duration, price, is_active, created_at, updated_at`

func scanService(row interface{ Scan(...any) error }) (*model.GroupTripService, error) {
	var s model.GroupTripService
	err := row.Scan(&s.ID, &s.Type, &s.Title, &s.Description, &s.Duration,
		&s.Price, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByType returns the service for a trip type or ErrServiceNotFound.
func (r *ServiceRepo) GetByType(ctx context.Context, tripType string) (*model.GroupTripService, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+serviceColumns+` FROM group_trip_services WHERE type = ?`, tripType)
	s, err := scanService(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	return s, err
}

// ListActive returns the services shown on the storefront.
func (r *ServiceRepo) ListActive(ctx context.Context) ([]model.GroupTripService, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+serviceColumns+` FROM group_trip_services WHERE is_active = 1 ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.GroupTripService, 0)
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// Upsert creates or replaces the service for a trip type.  The type
// column is unique, so admins edit offers by type rather than id.
func (r *ServiceRepo) Upsert(ctx context.Context, s *model.GroupTripService) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO group_trip_services
		(type, title, description, duration, price, is_active)
		VALUES (?,?,?,?,?,?)
		ON DUPLICATE KEY UPDATE
		title = VALUES(title), description = VALUES(description),
		duration = VALUES(duration), price = VALUES(price), is_active = VALUES(is_active)`,
		s.Type, s.Title, s.Description, s.Duration, s.Price, s.IsActive)
	if err != nil {
		return err
	}
	saved, err := r.GetByType(ctx, s.Type)
	if err != nil {
		return err
	}
	*s = *saved
	return nil
}
