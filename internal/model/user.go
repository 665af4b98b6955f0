package model

import (
	"strings"
	"time"
)

// User roles.  USER is any storefront customer (Telegram or placeholder);
// ADMIN and OWNER may log into the back office.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
	RoleOwner = "OWNER"
)

// User represents a record in the `users` table.  Customers reached
// through the Telegram mini-app carry their real Telegram id; customers
// who book anonymously from the web get a placeholder identity
// (telegram_id of the form "temp_<unix-ms>") that can later be
// reconciled when they authenticate through Telegram.  Admin accounts
// additionally carry a bcrypt password hash.
type User struct {
	ID               uint64    `json:"id"`
	TelegramID       string    `json:"telegram_id"`
	TelegramUsername *string   `json:"telegram_username,omitempty"`
	FirstName        string    `json:"first_name"`
	LastName         *string   `json:"last_name,omitempty"`
	Phone            *string   `json:"phone,omitempty"`
	Email            *string   `json:"email,omitempty"`
	PasswordHash     string    `json:"-"`
	Role             string    `json:"role"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IsPlaceholder reports whether the user was created without a real
// Telegram identity.
func (u *User) IsPlaceholder() bool {
	return strings.HasPrefix(u.TelegramID, "temp_")
}

// SplitCustomerName splits a free-form customer name into first and
// last name parts the way the storefront stores placeholder users.
func SplitCustomerName(name string) (first string, last *string) {
	parts := strings.Fields(strings.TrimSpace(name))
	if len(parts) == 0 {
		return "", nil
	}
	first = parts[0]
	if len(parts) > 1 {
		rest := strings.Join(parts[1:], " ")
		last = &rest
	}
	return first, last
}

// RefreshToken models a row in the `refresh_tokens` table.  Only the
// SHA-256 hash of the issued token is stored.
type RefreshToken struct {
	ID        uint64     `json:"id"`
	UserID    uint64     `json:"user_id"`
	TokenHash string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ContactRequest is a message left through the contact form.
type ContactRequest struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
