package users

import (
	"net/mail"
	"strings"

	"github.com/jrsteele09/go-tms-client/internal/errors"
)

// User is the account returned by /auth/api/auth/me. It is read-only on the client.
type User struct {
	ID        int64  `json:"id"`                   // Unique identifier for the user
	Email     string `json:"email,omitempty"`      // User's email address
	Username  string `json:"username,omitempty"`   // Login name; the backend maps emails onto it
	FirstName string `json:"first_name,omitempty"` // First name of the user
	LastName  string `json:"last_name,omitempty"`  // Last name of the user
}

// DisplayName prefers the full name, then the email, then the username.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	if u.Email != "" {
		return u.Email
	}
	return u.Username
}

// RegisterRequest is the payload for /auth/api/auth/register.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Normalize trims the free-text fields. The password is left untouched.
func (r *RegisterRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

// Validate checks required fields only; password policy belongs to the backend.
func (r RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return errors.Required("email")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return errors.Wrapf(errors.ErrInvalidRequest, "invalid email format %q", r.Email)
	}
	if r.Password == "" {
		return errors.Required("password")
	}
	return nil
}
