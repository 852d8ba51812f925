package user

import (
	"strings"
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProfileChanges lists the fields a profile update may touch. Nil means unchanged.
type ProfileChanges struct {
	Name     *string
	Email    *string
	Password *string
}

// NormalizeEmail trims and lowercases; emails are unique in this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
