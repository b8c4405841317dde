package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/i-himanshu29/Authentication-System/config"
	"github.com/i-himanshu29/Authentication-System/internal/auth/domain"
	"github.com/i-himanshu29/Authentication-System/internal/auth/dto"
	"github.com/i-himanshu29/Authentication-System/internal/auth/service"
	autherror "github.com/i-himanshu29/Authentication-System/internal/errors"
	"github.com/i-himanshu29/Authentication-System/internal/mocks"
	"github.com/i-himanshu29/Authentication-System/pkg/constant"
)

type userServiceFixture struct {
	users    *mocks.MockUserRepository
	sessions *mocks.MockSessionRepository
	tokens   *mocks.MockTokenGenerator
	mailer   *mocks.MockMailer
	svc      *service.UserService
}

func newUserServiceFixture(t *testing.T) *userServiceFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &userServiceFixture{
		users:    mocks.NewMockUserRepository(ctrl),
		sessions: mocks.NewMockSessionRepository(ctrl),
		tokens:   mocks.NewMockTokenGenerator(ctrl),
		mailer:   mocks.NewMockMailer(ctrl),
	}
	cfg := &config.Config{VerificationExpiryMin: 10, ResetExpiryMin: 10}
	f.svc = service.NewUserService(f.users, f.sessions, f.tokens, f.mailer, cfg)

	return f
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func TestUserService_Register(t *testing.T) {
	input := dto.RegisterInput{Name: "Test User", Email: "new@example.com", Password: "password123"}

	t.Run("creates an unverified account and sends the token", func(t *testing.T) {
		f := newUserServiceFixture(t)

		f.users.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(nil, nil)
		f.users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, u *domain.User) error {
				assert.Equal(t, input.Email, u.Email)
				assert.Equal(t, constant.RoleUser, u.Role)
				assert.False(t, u.IsVerified)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(input.Password)))
				return nil
			})
		f.tokens.EXPECT().GenerateOpaqueToken(constant.ActionTokenBytes).Return("verify-token", nil)
		f.users.EXPECT().SetVerificationToken(gomock.Any(), gomock.Any(), "verify-token", gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ string, expiry time.Time) error {
				assert.WithinDuration(t, time.Now().Add(10*time.Minute), expiry, 5*time.Second)
				return nil
			})
		f.mailer.EXPECT().SendVerificationEmail(gomock.Any(), input.Email, "verify-token").Return(nil)

		out, err := f.svc.Register(context.Background(), input)

		require.NoError(t, err)
		assert.Equal(t, input.Email, out.Email)
		assert.False(t, out.IsVerified)
		assert.True(t, out.EmailSent)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newUserServiceFixture(t)

		f.users.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(&domain.User{ID: "existing"}, nil)

		_, err := f.svc.Register(context.Background(), input)

		assert.ErrorIs(t, err, autherror.ErrEmailAlreadyInUse)
	})

	t.Run("failed email send is not an error", func(t *testing.T) {
		f := newUserServiceFixture(t)

		f.users.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(nil, nil)
		f.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		f.tokens.EXPECT().GenerateOpaqueToken(constant.ActionTokenBytes).Return("verify-token", nil)
		f.users.EXPECT().SetVerificationToken(gomock.Any(), gomock.Any(), "verify-token", gomock.Any()).Return(nil)
		f.mailer.EXPECT().SendVerificationEmail(gomock.Any(), input.Email, "verify-token").
			Return(errors.New("smtp unreachable"))

		out, err := f.svc.Register(context.Background(), input)

		require.NoError(t, err)
		assert.False(t, out.EmailSent)
	})
}

func TestUserService_VerifyAccount(t *testing.T) {
	t.Run("valid token sets the flag", func(t *testing.T) {
		f := newUserServiceFixture(t)

		user := &domain.User{ID: "user-123", VerificationTokenExpiry: time.Now().Add(5 * time.Minute)}

		f.users.EXPECT().GetByVerificationToken(gomock.Any(), "verify-token").Return(user, nil)
		f.users.EXPECT().SetVerified(gomock.Any(), "user-123").Return(nil)

		assert.NoError(t, f.svc.VerifyAccount(context.Background(), "verify-token"))
	})

	t.Run("unknown token", func(t *testing.T) {
		f := newUserServiceFixture(t)

		f.users.EXPECT().GetByVerificationToken(gomock.Any(), "bogus").Return(nil, nil)

		err := f.svc.VerifyAccount(context.Background(), "bogus")

		assert.ErrorIs(t, err, autherror.ErrInvalidVerificationToken)
	})

	t.Run("expired token does not verify", func(t *testing.T) {
		f := newUserServiceFixture(t)

		user := &domain.User{ID: "user-123", VerificationTokenExpiry: time.Now().Add(-time.Minute)}

		f.users.EXPECT().GetByVerificationToken(gomock.Any(), "late-token").Return(user, nil)
		// SetVerified must not be called.

		err := f.svc.VerifyAccount(context.Background(), "late-token")

		assert.ErrorIs(t, err, autherror.ErrVerificationTokenExpired)
	})
}

func TestUserService_VerifyCredentials(t *testing.T) {
	email := "test@example.com"
	password := "correct-password"

	t.Run("valid credentials", func(t *testing.T) {
		f := newUserServiceFixture(t)

		user := &domain.User{ID: "user-123", Email: email, PasswordHash: hashPassword(t, password), IsVerified: true}

		f.users.EXPECT().GetByEmail(gomock.Any(), email).Return(user, nil)

		got, err := f.svc.VerifyCredentials(context.Background(), email, password)

		require.NoError(t, err)
		assert.Equal(t, "user-123", got.ID)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		f := newUserServiceFixture(t)

		user := &domain.User{ID: "user-123", Email: email, PasswordHash: hashPassword(t, password), IsVerified: true}

		f.users.EXPECT().GetByEmail(gomock.Any(), "nobody@example.com").Return(nil, nil)
		f.users.EXPECT().GetByEmail(gomock.Any(), email).Return(user, nil)

		_, errUnknown := f.svc.VerifyCredentials(context.Background(), "nobody@example.com", password)
		_, errWrong := f.svc.VerifyCredentials(context.Background(), email, "wrong-password")

		assert.ErrorIs(t, errUnknown, autherror.ErrInvalidCredentials)
		assert.ErrorIs(t, errWrong, autherror.ErrInvalidCredentials)
	})

	t.Run("unverified account is reported distinctly", func(t *testing.T) {
		f := newUserServiceFixture(t)

		user := &domain.User{ID: "user-123", Email: email, PasswordHash: hashPassword(t, password), IsVerified: false}

		f.users.EXPECT().GetByEmail(gomock.Any(), email).Return(user, nil)

		_, err := f.svc.VerifyCredentials(context.Background(), email, password)

		assert.ErrorIs(t, err, autherror.ErrEmailNotVerified)
	})
}

func TestUserService_ForgotPassword(t *testing.T) {
	t.Run("issues and mails a reset token", func(t *testing.T) {
		f := newUserServiceFixture(t)

		user := &domain.User{ID: "user-123", Email: "test@example.com"}

		f.users.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)
		f.tokens.EXPECT().GenerateOpaqueToken(constant.ActionTokenBytes).Return("reset-token", nil)
		f.users.EXPECT().SetResetToken(gomock.Any(), "user-123", "reset-token", gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ string, expiry time.Time) error {
				assert.WithinDuration(t, time.Now().Add(10*time.Minute), expiry, 5*time.Second)
				return nil
			})
		f.mailer.EXPECT().SendPasswordResetEmail(gomock.Any(), user.Email, "reset-token").Return(nil)

		assert.NoError(t, f.svc.ForgotPassword(context.Background(), user.Email))
	})

	t.Run("unknown email is a silent no-op", func(t *testing.T) {
		f := newUserServiceFixture(t)

		f.users.EXPECT().GetByEmail(gomock.Any(), "nobody@example.com").Return(nil, nil)

		assert.NoError(t, f.svc.ForgotPassword(context.Background(), "nobody@example.com"))
	})
}

func TestUserService_ResetPassword(t *testing.T) {
	t.Run("rehashes the password and terminates all sessions", func(t *testing.T) {
		f := newUserServiceFixture(t)

		user := &domain.User{ID: "user-123", PasswordResetTokenExpiry: time.Now().Add(5 * time.Minute)}

		f.users.EXPECT().GetByResetToken(gomock.Any(), "reset-token").Return(user, nil)
		f.users.EXPECT().UpdatePassword(gomock.Any(), "user-123", gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, hash string) error {
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("new-password")))
				return nil
			})
		f.sessions.EXPECT().DeleteAllForUser(gomock.Any(), "user-123").Return(nil)

		assert.NoError(t, f.svc.ResetPassword(context.Background(), "reset-token", "new-password"))
	})

	t.Run("unknown token", func(t *testing.T) {
		f := newUserServiceFixture(t)

		f.users.EXPECT().GetByResetToken(gomock.Any(), "bogus").Return(nil, nil)

		err := f.svc.ResetPassword(context.Background(), "bogus", "new-password")

		assert.ErrorIs(t, err, autherror.ErrInvalidResetToken)
	})

	t.Run("expired token", func(t *testing.T) {
		f := newUserServiceFixture(t)

		user := &domain.User{ID: "user-123", PasswordResetTokenExpiry: time.Now().Add(-time.Minute)}

		f.users.EXPECT().GetByResetToken(gomock.Any(), "late-token").Return(user, nil)

		err := f.svc.ResetPassword(context.Background(), "late-token", "new-password")

		assert.ErrorIs(t, err, autherror.ErrResetTokenExpired)
	})
}

func TestUserService_GetProfile(t *testing.T) {
	t.Run("returns the account", func(t *testing.T) {
		f := newUserServiceFixture(t)

		user := &domain.User{ID: "user-123", Name: "Test User", Email: "test@example.com", IsVerified: true}

		f.users.EXPECT().GetByID(gomock.Any(), "user-123").Return(user, nil)

		out, err := f.svc.GetProfile(context.Background(), "user-123")

		require.NoError(t, err)
		assert.Equal(t, "test@example.com", out.Email)
	})

	t.Run("missing account", func(t *testing.T) {
		f := newUserServiceFixture(t)

		f.users.EXPECT().GetByID(gomock.Any(), "gone").Return(nil, nil)

		_, err := f.svc.GetProfile(context.Background(), "gone")

		assert.ErrorIs(t, err, autherror.ErrUserNotFound)
	})
}
