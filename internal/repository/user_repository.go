package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/morekat/boat-charter/internal/model"
	"github.com/morekat/boat-charter/internal/utils"
)

// UserRepo persists customers and back-office accounts in the single
// `users` table.  Customers are keyed by telegram_id; web customers who
// never opened the Telegram app get a generated placeholder id.
type UserRepo struct{ DB *sql.DB }

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, telegram_id, telegram_username, first_name, last_name, phone, email,
	COALESCE(password_hash, ''), role, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	var username, lastName, phone, email sql.NullString
	err := row.Scan(&u.ID, &u.TelegramID, &username, &u.FirstName, &lastName, &phone, &email,
		&u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if username.Valid {
		u.TelegramUsername = &username.String
	}
	if lastName.Valid {
		u.LastName = &lastName.String
	}
	if phone.Valid {
		u.Phone = &phone.String
	}
	if email.Valid {
		u.Email = &email.String
	}
	return &u, nil
}

// GetByID fetches a user by id or returns ErrUserNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ? LIMIT 1`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// GetByEmail fetches a back-office account by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ? LIMIT 1`, email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// GetByTelegramID fetches a customer by Telegram id.
func (r *UserRepo) GetByTelegramID(ctx context.Context, telegramID string) (*model.User, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE telegram_id = ? LIMIT 1`, telegramID)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// CreatePlaceholder creates a throwaway customer identity for an
// anonymous web booking.  The generated telegram_id ("temp_<unix-ms>")
// can later be replaced when the customer authenticates via Telegram.
func (r *UserRepo) CreatePlaceholder(ctx context.Context, name, phone string) (*model.User, error) {
	first, last := model.SplitCustomerName(name)
	telegramID := fmt.Sprintf("temp_%d", time.Now().UnixMilli())
	res, err := r.DB.ExecContext(ctx, `INSERT INTO users
		(telegram_id, first_name, last_name, phone, role)
		VALUES (?,?,?,?,?)`,
		telegramID, first, nullableStr(last), phone, model.RoleUser)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// UpsertTelegram creates or refreshes a customer record from a verified
// Telegram identity and returns the stored row.
func (r *UserRepo) UpsertTelegram(ctx context.Context, telegramID, firstName string, lastName, username *string) (*model.User, error) {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO users
		(telegram_id, telegram_username, first_name, last_name, role)
		VALUES (?,?,?,?,?)
		ON DUPLICATE KEY UPDATE
		telegram_username = VALUES(telegram_username),
		first_name = VALUES(first_name),
		last_name = VALUES(last_name)`,
		telegramID, nullableStr(username), firstName, nullableStr(lastName), model.RoleUser)
	if err != nil {
		return nil, err
	}
	return r.GetByTelegramID(ctx, telegramID)
}

// CreateAdmin provisions a back-office account.  Email is normalized
// and hashed credentials are stored; a duplicate email maps to
// ErrEmailExists.
func (r *UserRepo) CreateAdmin(ctx context.Context, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	telegramID := fmt.Sprintf("admin_%s", email)
	res, err := r.DB.ExecContext(ctx, `INSERT INTO users
		(telegram_id, first_name, email, password_hash, role)
		VALUES (?,?,?,?,?)`,
		telegramID, email, email, hash, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// UpdateContact fills in phone/email on an existing customer when a
// later purchase supplies them.
func (r *UserRepo) UpdateContact(ctx context.Context, id uint64, phone string, email *string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users
		SET phone = COALESCE(NULLIF(?, ''), phone), email = COALESCE(?, email)
		WHERE id = ?`, phone, nullableStr(email), id)
	return err
}
