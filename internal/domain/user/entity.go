package user

import (
	"strings"
	"time"
)

type User struct {
	ID              string
	Email           string
	PasswordHash    *string
	FirstName       string
	MiddleName      *string
	LastName        string
	DateOfBirth     *time.Time
	OTPSecret       *string
	EmailVerified   bool
	OAuthProvider   *string
	OAuthProviderID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FullName returns the display name with the middle name when present.
func (u *User) FullName() string {
	parts := []string{u.FirstName}
	if u.MiddleName != nil && *u.MiddleName != "" {
		parts = append(parts, *u.MiddleName)
	}
	parts = append(parts, u.LastName)
	return strings.Join(parts, " ")
}

// EmailMatches compares an email address against the user's,
// case-insensitively.
func (u *User) EmailMatches(email string) bool {
	return strings.EqualFold(u.Email, email)
}
