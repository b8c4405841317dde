package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination=../../mocks/mock_repositories.go -package=mocks github.com/i-himanshu29/Authentication-System/internal/auth/domain UserRepository,SessionRepository,TokenBlacklist,Mailer

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByVerificationToken(ctx context.Context, token string) (*User, error)
	GetByResetToken(ctx context.Context, token string) (*User, error)
	Create(ctx context.Context, user *User) error
	SetVerified(ctx context.Context, id string) error
	SetVerificationToken(ctx context.Context, id, token string, expiry time.Time) error
	SetResetToken(ctx context.Context, id, token string, expiry time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// SessionRepository persists refresh sessions. Reads treat rows past
// their expiry as absent, except GetByToken; physical removal is a
// background sweep.
type SessionRepository interface {
	// GetByToken returns the row even when expired, so the caller can
	// tell an expired token from an unknown one.
	GetByToken(ctx context.Context, token string) (*RefreshSession, error)
	GetByID(ctx context.Context, id string) (*RefreshSession, error)
	GetByUserAndFingerprint(ctx context.Context, userID, fingerprint string) (*RefreshSession, error)
	// GetAllByUserID returns live sessions most-recently-used first.
	GetAllByUserID(ctx context.Context, userID string) ([]RefreshSession, error)
	Insert(ctx context.Context, session *RefreshSession) error
	// Rotate swaps the token value in place, conditioned on the current
	// token. It reports false when the condition did not match, which is
	// how a concurrent rotation loser observes that it lost.
	Rotate(ctx context.Context, id, oldToken, newToken string, expiresAt, lastUsed time.Time, ipAddress string) (bool, error)
	Delete(ctx context.Context, id string) error
	DeleteByToken(ctx context.Context, token string) error
	DeleteAllForUserExcept(ctx context.Context, userID, keepToken string) error
	DeleteAllForUser(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// TokenBlacklist records revoked access tokens until their natural expiry.
type TokenBlacklist interface {
	Insert(ctx context.Context, token, userID string, expiresAt time.Time) error
	Exists(ctx context.Context, token string) (bool, error)
}

// Mailer is fire-and-forget: callers log failures and keep going.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, token string) error
	SendPasswordResetEmail(ctx context.Context, to, token string) error
}
