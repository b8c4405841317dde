package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i-himanshu29/Authentication-System/internal/auth/domain"
	repo "github.com/i-himanshu29/Authentication-System/internal/auth/repository/postgres"
	autherror "github.com/i-himanshu29/Authentication-System/internal/errors"
	"github.com/i-himanshu29/Authentication-System/pkg/constant"
)

var userColumns = []string{
	"id", "name", "email", "password_hash", "role", "is_verified",
	"verification_token", "verification_token_expiry",
	"password_reset_token", "password_reset_token_expiry",
	"created_at", "updated_at",
}

func userRow(id, email, role string, verified bool) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(userColumns).
		AddRow(id, "Test User", email, "hash", role, verified,
			nil, nil, nil, nil, now, now)
}

func TestUserRepositoryGetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewUserRepository(mock)
	ctx := context.Background()
	email := "test@example.com"

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, email").
			WithArgs(email).
			WillReturnRows(userRow("user-123", email, "admin", true))

		user, err := r.GetByEmail(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, "user-123", user.ID)
		assert.Equal(t, constant.RoleAdmin, user.Role)
		assert.True(t, user.IsVerified)
	})

	t.Run("token columns populated", func(t *testing.T) {
		expiry := time.Now().Add(10 * time.Minute)
		rows := pgxmock.NewRows(userColumns).
			AddRow("user-123", "Test User", email, "hash", "user", false,
				"verify-token", expiry, nil, nil, time.Now(), time.Now())

		mock.ExpectQuery("SELECT id, name, email").
			WithArgs(email).
			WillReturnRows(rows)

		user, err := r.GetByEmail(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, "verify-token", user.VerificationToken)
		assert.WithinDuration(t, expiry, user.VerificationTokenExpiry, time.Second)
		assert.Empty(t, user.PasswordResetToken)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, email").
			WithArgs(email).
			WillReturnError(pgx.ErrNoRows)

		user, err := r.GetByEmail(ctx, email)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, email").
			WithArgs(email).
			WillReturnError(fmt.Errorf("db error"))

		_, err := r.GetByEmail(ctx, email)
		assert.Error(t, err)
	})
}

func TestUserRepositoryGetByVerificationToken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewUserRepository(mock)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, email").
			WithArgs("verify-token").
			WillReturnRows(userRow("user-123", "test@example.com", "user", false))

		user, err := r.GetByVerificationToken(ctx, "verify-token")
		require.NoError(t, err)
		assert.Equal(t, "user-123", user.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, email").
			WithArgs("bogus").
			WillReturnError(pgx.ErrNoRows)

		user, err := r.GetByVerificationToken(ctx, "bogus")
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestUserRepositoryCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewUserRepository(mock)
	ctx := context.Background()

	now := time.Now()
	user := &domain.User{
		ID:           "user-123",
		Name:         "Test User",
		Email:        "new@example.com",
		PasswordHash: "new-hash",
		Role:         constant.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Name, user.Email, user.PasswordHash, "user", false,
				user.CreatedAt, user.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		assert.NoError(t, r.Create(ctx, user))
	})

	t.Run("duplicate email", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Name, user.Email, user.PasswordHash, "user", false,
				user.CreatedAt, user.UpdatedAt).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := r.Create(ctx, user)
		assert.ErrorIs(t, err, autherror.ErrEmailAlreadyInUse)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Name, user.Email, user.PasswordHash, "user", false,
				user.CreatedAt, user.UpdatedAt).
			WillReturnError(fmt.Errorf("db error"))

		assert.Error(t, r.Create(ctx, user))
	})
}

func TestUserRepositorySetVerified(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewUserRepository(mock)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").
			WithArgs("user-123").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, r.SetVerified(ctx, "user-123"))
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").
			WithArgs("user-123").
			WillReturnError(fmt.Errorf("db error"))

		assert.Error(t, r.SetVerified(ctx, "user-123"))
	})
}

func TestUserRepositorySetVerificationToken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewUserRepository(mock)
	ctx := context.Background()
	expiry := time.Now().Add(10 * time.Minute)

	mock.ExpectExec("UPDATE users").
		WithArgs("user-123", "verify-token", expiry).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, r.SetVerificationToken(ctx, "user-123", "verify-token", expiry))
}

func TestUserRepositorySetResetToken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewUserRepository(mock)
	ctx := context.Background()
	expiry := time.Now().Add(10 * time.Minute)

	mock.ExpectExec("UPDATE users").
		WithArgs("user-123", "reset-token", expiry).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, r.SetResetToken(ctx, "user-123", "reset-token", expiry))
}

func TestUserRepositoryUpdatePassword(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewUserRepository(mock)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").
			WithArgs("user-123", "new-hash").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, r.UpdatePassword(ctx, "user-123", "new-hash"))
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").
			WithArgs("user-123", "new-hash").
			WillReturnError(fmt.Errorf("db error"))

		assert.Error(t, r.UpdatePassword(ctx, "user-123", "new-hash"))
	})
}
