package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/i-himanshu29/Authentication-System/internal/auth/domain"
	autherror "github.com/i-himanshu29/Authentication-System/internal/errors"
)

// SessionRepository persists refresh sessions. Reads exclude rows past
// their expiry so a stale row is logically gone the instant it expires,
// independent of the background sweep.
type SessionRepository struct {
	db PgxIface
}

func NewSessionRepository(db PgxIface) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `id, user_id, token, device_fingerprint, ip_address, issued_at, last_used, expires_at`

func scanSession(row pgx.Row) (*domain.RefreshSession, error) {
	var s domain.RefreshSession

	err := row.Scan(&s.ID, &s.UserID, &s.Token, &s.DeviceFingerprint, &s.IPAddress,
		&s.IssuedAt, &s.LastUsed, &s.ExpiresAt)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *SessionRepository) getBy(ctx context.Context, where string, args ...any) (*domain.RefreshSession, error) {
	query := fmt.Sprintf(`SELECT %s FROM refresh_sessions WHERE %s AND expires_at > now() LIMIT 1;`,
		sessionColumns, where)

	session, err := scanSession(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get refresh session: %w", err)
	}

	return session, nil
}

// GetByToken returns the row even when expired: the policy engine needs
// to distinguish found-but-expired (delete, report expiry) from absent.
// It checks expiry itself before trusting the row.
func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*domain.RefreshSession, error) {
	query := fmt.Sprintf(`SELECT %s FROM refresh_sessions WHERE token = $1 LIMIT 1;`, sessionColumns)

	session, err := scanSession(r.db.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get refresh session: %w", err)
	}

	return session, nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*domain.RefreshSession, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *SessionRepository) GetByUserAndFingerprint(ctx context.Context, userID, fingerprint string) (*domain.RefreshSession, error) {
	return r.getBy(ctx, "user_id = $1 AND device_fingerprint = $2", userID, fingerprint)
}

// GetAllByUserID returns live sessions most-recently-used first. The
// secondary ordering on issued_at is the eviction tie-break.
func (r *SessionRepository) GetAllByUserID(ctx context.Context, userID string) ([]domain.RefreshSession, error) {
	query := fmt.Sprintf(`SELECT %s FROM refresh_sessions
		WHERE user_id = $1 AND expires_at > now()
		ORDER BY last_used DESC, issued_at DESC;`, sessionColumns)

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list refresh sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.RefreshSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan refresh session: %w", err)
		}
		sessions = append(sessions, *session)
	}

	return sessions, rows.Err()
}

func (r *SessionRepository) Insert(ctx context.Context, session *domain.RefreshSession) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO refresh_sessions (id, user_id, token, device_fingerprint, ip_address, issued_at, last_used, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, session.ID, session.UserID, session.Token, session.DeviceFingerprint, session.IPAddress,
		session.IssuedAt, session.LastUsed, session.ExpiresAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		// Should never happen given 256-bit token entropy.
		return autherror.ErrDuplicateSessionToken
	}

	return err
}

// Rotate replaces the token value in place. The update is conditioned on
// the current token so that of two concurrent rotations presenting the
// same token exactly one wins; the loser gets rotated=false.
func (r *SessionRepository) Rotate(ctx context.Context, id, oldToken, newToken string,
	expiresAt, lastUsed time.Time, ipAddress string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE refresh_sessions
		SET token = $3, expires_at = $4, last_used = $5, ip_address = $6
		WHERE id = $1 AND token = $2
	`, id, oldToken, newToken, expiresAt, lastUsed, ipAddress)
	if err != nil {
		return false, fmt.Errorf("failed to rotate refresh session: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM refresh_sessions WHERE id = $1`, id)
	return err
}

func (r *SessionRepository) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM refresh_sessions WHERE token = $1`, token)
	return err
}

func (r *SessionRepository) DeleteAllForUserExcept(ctx context.Context, userID, keepToken string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM refresh_sessions WHERE user_id = $1 AND token <> $2`,
		userID, keepToken)
	return err
}

func (r *SessionRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM refresh_sessions WHERE user_id = $1`, userID)
	return err
}

// DeleteExpired physically removes rows that reads already ignore.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM refresh_sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired sessions: %w", err)
	}

	return tag.RowsAffected(), nil
}
