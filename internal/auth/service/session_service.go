package service

//go:generate mockgen -destination=../../mocks/mock_credential_verifier.go -package=mocks github.com/i-himanshu29/Authentication-System/internal/auth/service CredentialVerifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/i-himanshu29/Authentication-System/config"
	"github.com/i-himanshu29/Authentication-System/internal/auth/domain"
	"github.com/i-himanshu29/Authentication-System/internal/auth/dto"
	autherror "github.com/i-himanshu29/Authentication-System/internal/errors"
)

// CredentialVerifier is the piece of the user service the session engine
// needs for login.
type CredentialVerifier interface {
	VerifyCredentials(ctx context.Context, email, password string) (*domain.User, error)
}

// SessionService is the policy engine for the session lifecycle: device
// reuse vs new session on login, LRU eviction to the device cap, and
// single-use refresh-token rotation.
type SessionService struct {
	sessions     domain.SessionRepository
	users        domain.UserRepository
	blacklist    domain.TokenBlacklist
	verifier     CredentialVerifier
	tokenService TokenGenerator
	cfg          *config.Config
}

func NewSessionService(sessions domain.SessionRepository, users domain.UserRepository,
	blacklist domain.TokenBlacklist, verifier CredentialVerifier,
	tokenService TokenGenerator, cfg *config.Config) *SessionService {
	return &SessionService{
		sessions:     sessions,
		users:        users,
		blacklist:    blacklist,
		verifier:     verifier,
		tokenService: tokenService,
		cfg:          cfg,
	}
}

// Login verifies credentials and either rotates the existing session for
// this device fingerprint or creates a new one, evicting the
// least-recently-used sessions when the device cap is reached.
func (s *SessionService) Login(ctx context.Context, input dto.LoginInput) (*dto.LoginOutput, error) {
	user, err := s.verifier.VerifyCredentials(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	accessToken, refreshToken, refreshExpiry, err := s.tokenService.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	now := time.Now()

	existing, err := s.sessions.GetByUserAndFingerprint(ctx, user.ID, input.Fingerprint)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		// Same device logging in again: update the row in place, never
		// grow a second session for one fingerprint.
		rotated, err := s.sessions.Rotate(ctx, existing.ID, existing.Token, refreshToken,
			refreshExpiry, now, input.IPAddress)
		if err != nil {
			return nil, err
		}
		if !rotated {
			return nil, fmt.Errorf("session for device %q changed concurrently", input.Fingerprint)
		}
	} else {
		if err := s.enforceDeviceCap(ctx, user.ID); err != nil {
			return nil, err
		}

		session := &domain.RefreshSession{
			ID:                uuid.NewString(),
			UserID:            user.ID,
			Token:             refreshToken,
			DeviceFingerprint: input.Fingerprint,
			IPAddress:         input.IPAddress,
			IssuedAt:          now,
			LastUsed:          now,
			ExpiresAt:         refreshExpiry,
		}
		if err := s.sessions.Insert(ctx, session); err != nil {
			return nil, err
		}
	}

	return &dto.LoginOutput{
		TokenResponse: dto.TokenResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	}, nil
}

// enforceDeviceCap deletes least-recently-used sessions until one slot
// is free. GetAllByUserID orders most-recent first with issued_at as the
// tie-break, so eviction walks the tail.
func (s *SessionService) enforceDeviceCap(ctx context.Context, userID string) error {
	live, err := s.sessions.GetAllByUserID(ctx, userID)
	if err != nil {
		return err
	}

	for i := len(live) - 1; i >= 0 && len(live) > s.cfg.MaxDevicesPerUser-1; i-- {
		if err := s.sessions.Delete(ctx, live[i].ID); err != nil {
			return fmt.Errorf("failed to evict session %s: %w", live[i].ID, err)
		}
		live = live[:i]
	}

	return nil
}

// Refresh rotates a refresh token. The old token becomes invalid the
// moment rotation commits; a concurrent caller presenting the same token
// loses the conditional update and is rejected.
func (s *SessionService) Refresh(ctx context.Context, input dto.RefreshInput) (*dto.TokenResponse, error) {
	session, err := s.sessions.GetByToken(ctx, input.RefreshToken)
	if err != nil {
		return nil, err
	}
	if session == nil {
		// Forged, or already rotated away.
		return nil, autherror.ErrInvalidRefreshToken
	}

	now := time.Now()
	if session.Expired(now) {
		if err := s.sessions.Delete(ctx, session.ID); err != nil {
			slog.Warn("failed to delete expired session", "session_id", session.ID, "error", err)
		}
		return nil, autherror.ErrRefreshTokenExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	accessToken, newRefreshToken, refreshExpiry, err := s.tokenService.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	rotated, err := s.sessions.Rotate(ctx, session.ID, input.RefreshToken, newRefreshToken,
		refreshExpiry, now, input.IPAddress)
	if err != nil {
		return nil, err
	}
	if !rotated {
		return nil, autherror.ErrInvalidRefreshToken
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout deletes the refresh session and blacklists the paired access
// token for its remaining lifetime. Both side effects are attempted even
// if one fails; failures are reported together.
func (s *SessionService) Logout(ctx context.Context, input dto.LogoutInput) error {
	blacklistErr := s.blacklistAccessToken(ctx, input.AccessToken)

	var deleteErr error
	if input.RefreshToken != "" {
		deleteErr = s.sessions.DeleteByToken(ctx, input.RefreshToken)
	}

	return errors.Join(blacklistErr, deleteErr)
}

func (s *SessionService) blacklistAccessToken(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}

	claims, err := s.tokenService.VerifyAccessToken(accessToken)
	if err != nil {
		// An unverifiable or already-expired token cannot authenticate
		// anything, so there is nothing to deny.
		return nil
	}

	return s.blacklist.Insert(ctx, accessToken, claims.UserID, claims.ExpiresAt.Time)
}

// ListSessions returns the account's live sessions, most recently used
// first.
func (s *SessionService) ListSessions(ctx context.Context, userID string) ([]dto.SessionOutput, error) {
	sessions, err := s.sessions.GetAllByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SessionOutput, 0, len(sessions))
	for i := range sessions {
		out = append(out, dto.NewSessionOutput(&sessions[i]))
	}

	return out, nil
}

// TerminateSession deletes one of the account's sessions by id. When the
// target is the caller's own current session this is a logout, so the
// caller's access token is blacklisted as well.
func (s *SessionService) TerminateSession(ctx context.Context, userID, sessionID, accessToken, currentRefreshToken string) error {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil || session.UserID != userID {
		// Not distinguishing "someone else's session" from "no session".
		return autherror.ErrSessionNotFound
	}

	var blacklistErr error
	if session.Token == currentRefreshToken {
		blacklistErr = s.blacklistAccessToken(ctx, accessToken)
	}

	return errors.Join(blacklistErr, s.sessions.Delete(ctx, session.ID))
}

// LogoutAllOtherDevices deletes every session of the account except the
// one matching the presented refresh token. Access tokens of the
// terminated sessions are not blacklisted: they are not persisted per
// session, and they die at their short natural expiry.
func (s *SessionService) LogoutAllOtherDevices(ctx context.Context, userID, currentRefreshToken string) error {
	session, err := s.sessions.GetByToken(ctx, currentRefreshToken)
	if err != nil {
		return err
	}
	if session == nil || session.UserID != userID || session.Expired(time.Now()) {
		return autherror.ErrInvalidRefreshToken
	}

	return s.sessions.DeleteAllForUserExcept(ctx, userID, currentRefreshToken)
}

// SweepExpiredSessions physically removes rows past expiry. Reads already
// ignore them; this keeps the table small.
func (s *SessionService) SweepExpiredSessions(ctx context.Context) {
	deleted, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		slog.Warn("session sweep failed", "error", err)
		return
	}
	if deleted > 0 {
		slog.Info("swept expired sessions", "count", deleted)
	}
}
