package errors

import (
	"errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrEmailAlreadyInUse  = errors.New("email already in use")

	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrSessionNotFound     = errors.New("session not found")

	ErrDuplicateSessionToken = errors.New("duplicate session token")

	ErrInvalidVerificationToken = errors.New("invalid verification token")
	ErrVerificationTokenExpired = errors.New("verification token expired")
	ErrInvalidResetToken        = errors.New("invalid reset token")
	ErrResetTokenExpired        = errors.New("reset token expired")

	ErrTokenBlacklisted = errors.New("token blacklisted")
	ErrUserNotFound     = errors.New("user not found")
	ErrForbidden        = errors.New("forbidden")
)
