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
	"github.com/i-himanshu29/Authentication-System/pkg/constant"
)

// PgxIface is the subset of pgxpool.Pool the repositories use. pgxmock
// pools satisfy it in tests.
type PgxIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UserRepository struct {
	db PgxIface
}

func NewUserRepository(db PgxIface) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, password_hash, role, is_verified,
		       verification_token, verification_token_expiry,
		       password_reset_token, password_reset_token_expiry,
		       created_at, updated_at`

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user     domain.User
		role     string
		verifTok *string
		verifExp *time.Time
		resetTok *string
		resetExp *time.Time
	)

	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &role, &user.IsVerified,
		&verifTok, &verifExp, &resetTok, &resetExp, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	user.Role = constant.ParseRole(role)
	if verifTok != nil {
		user.VerificationToken = *verifTok
	}
	if verifExp != nil {
		user.VerificationTokenExpiry = *verifExp
	}
	if resetTok != nil {
		user.PasswordResetToken = *resetTok
	}
	if resetExp != nil {
		user.PasswordResetTokenExpiry = *resetExp
	}

	return &user, nil
}

func (r *UserRepository) getBy(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s LIMIT 1;`, userColumns, where)

	user, err := r.scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, "email = $1", email)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *UserRepository) GetByVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	return r.getBy(ctx, "verification_token = $1", token)
}

func (r *UserRepository) GetByResetToken(ctx context.Context, token string) (*domain.User, error) {
	return r.getBy(ctx, "password_reset_token = $1", token)
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, is_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, user.ID, user.Name, user.Email, user.PasswordHash, string(user.Role), user.IsVerified,
		user.CreatedAt, user.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return autherror.ErrEmailAlreadyInUse
	}

	return err
}

// SetVerified marks the account verified and clears the verification
// token columns in one statement.
func (r *UserRepository) SetVerified(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET is_verified = TRUE,
		    verification_token = NULL,
		    verification_token_expiry = NULL,
		    updated_at = now()
		WHERE id = $1
	`, id)

	return err
}

func (r *UserRepository) SetVerificationToken(ctx context.Context, id, token string, expiry time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET verification_token = $2, verification_token_expiry = $3, updated_at = now()
		WHERE id = $1
	`, id, token, expiry)

	return err
}

func (r *UserRepository) SetResetToken(ctx context.Context, id, token string, expiry time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET password_reset_token = $2, password_reset_token_expiry = $3, updated_at = now()
		WHERE id = $1
	`, id, token, expiry)

	return err
}

// UpdatePassword stores a new hash and clears any outstanding reset token.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET password_hash = $2,
		    password_reset_token = NULL,
		    password_reset_token_expiry = NULL,
		    updated_at = now()
		WHERE id = $1
	`, id, passwordHash)

	return err
}
