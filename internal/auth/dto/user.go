package dto

import (
	"time"

	"github.com/i-himanshu29/Authentication-System/internal/auth/domain"
)

type UserOutput struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewUserOutput(u *domain.User) UserOutput {
	return UserOutput{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       string(u.Role),
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}

type SessionOutput struct {
	ID                string    `json:"id"`
	DeviceFingerprint string    `json:"device_fingerprint"`
	IPAddress         string    `json:"ip_address"`
	IssuedAt          time.Time `json:"issued_at"`
	LastUsed          time.Time `json:"last_used"`
	ExpiresAt         time.Time `json:"expires_at"`
}

func NewSessionOutput(s *domain.RefreshSession) SessionOutput {
	return SessionOutput{
		ID:                s.ID,
		DeviceFingerprint: s.DeviceFingerprint,
		IPAddress:         s.IPAddress,
		IssuedAt:          s.IssuedAt,
		LastUsed:          s.LastUsed,
		ExpiresAt:         s.ExpiresAt,
	}
}
