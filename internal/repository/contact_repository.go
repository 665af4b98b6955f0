package repository

import (
	"context"
	"database/sql"

	"github.com/morekat/boat-charter/internal/model"
)

// ContactRepo stores messages left through the contact form.
type ContactRepo struct {
	DB *sql.DB
}

// NewContactRepo returns a ContactRepo bound to the given database.
func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{DB: db} }

// Create inserts a contact request and populates its id and timestamp.
func (r *ContactRepo) Create(ctx context.Context, c *model.ContactRequest) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO contact_requests (name, phone, message) VALUES (?,?,?)`,
		c.Name, c.Phone, c.Message)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	row := r.DB.QueryRowContext(ctx, `SELECT created_at FROM contact_requests WHERE id = ?`, c.ID)
	return row.Scan(&c.CreatedAt)
}

// ListAll returns contact requests for the admin back office, newest
// first.
func (r *ContactRepo) ListAll(ctx context.Context) ([]model.ContactRequest, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, phone, message, created_at FROM contact_requests ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ContactRequest, 0)
	for rows.Next() {
		var c model.ContactRequest
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Message, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
