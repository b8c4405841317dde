package domain

import (
	"time"

	"github.com/i-himanshu29/Authentication-System/pkg/constant"
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         constant.Role
	IsVerified   bool

	VerificationToken        string
	VerificationTokenExpiry  time.Time
	PasswordResetToken       string
	PasswordResetTokenExpiry time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RefreshSession is one logged-in device. The token value is rotated in
// place on every refresh use; the row identity stays the same for the
// lifetime of the device session.
type RefreshSession struct {
	ID                string
	UserID            string
	Token             string
	DeviceFingerprint string
	IPAddress         string
	IssuedAt          time.Time
	LastUsed          time.Time
	ExpiresAt         time.Time
}

// Expired reports whether the session is logically absent at the given
// instant, regardless of whether the row has been physically swept.
func (s *RefreshSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
