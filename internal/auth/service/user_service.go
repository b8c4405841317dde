package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/i-himanshu29/Authentication-System/config"
	"github.com/i-himanshu29/Authentication-System/internal/auth/domain"
	"github.com/i-himanshu29/Authentication-System/internal/auth/dto"
	autherror "github.com/i-himanshu29/Authentication-System/internal/errors"
	"github.com/i-himanshu29/Authentication-System/pkg/constant"
)

// dummyHash keeps VerifyCredentials timing uniform for unknown emails:
// the bcrypt compare runs whether or not the account exists.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

type UserService struct {
	users        domain.UserRepository
	sessions     domain.SessionRepository
	tokenService TokenGenerator
	mailer       domain.Mailer
	cfg          *config.Config
}

func NewUserService(users domain.UserRepository, sessions domain.SessionRepository,
	tokenService TokenGenerator, mailer domain.Mailer, cfg *config.Config) *UserService {
	return &UserService{
		users:        users,
		sessions:     sessions,
		tokenService: tokenService,
		mailer:       mailer,
		cfg:          cfg,
	}
}

// Register creates an unverified account and emails a verification
// token. A failed send is logged and reported in the output, never an
// error: the account exists either way.
func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*dto.RegisterOutput, error) {
	existing, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, autherror.ErrEmailAlreadyInUse
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashed),
		Role:         constant.RoleUser,
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokenService.GenerateOpaqueToken(constant.ActionTokenBytes)
	if err != nil {
		return nil, err
	}

	expiry := now.Add(s.cfg.VerificationTokenExpiry())
	if err := s.users.SetVerificationToken(ctx, user.ID, token, expiry); err != nil {
		return nil, err
	}

	emailSent := true
	if err := s.mailer.SendVerificationEmail(ctx, user.Email, token); err != nil {
		slog.Warn("verification email could not be sent", "email", user.Email, "error", err)
		emailSent = false
	}

	return &dto.RegisterOutput{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		IsVerified: user.IsVerified,
		EmailSent:  emailSent,
	}, nil
}

// VerifyAccount consumes a verification token. An expired token does not
// set the verified flag.
func (s *UserService) VerifyAccount(ctx context.Context, token string) error {
	user, err := s.users.GetByVerificationToken(ctx, token)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrInvalidVerificationToken
	}

	if time.Now().After(user.VerificationTokenExpiry) {
		return autherror.ErrVerificationTokenExpired
	}

	return s.users.SetVerified(ctx, user.ID)
}

// VerifyCredentials checks email/password against the stored hash.
// Unknown email and wrong password collapse into ErrInvalidCredentials;
// an unverified account is reported distinctly.
func (s *UserService) VerifyCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, autherror.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, autherror.ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, autherror.ErrEmailNotVerified
	}

	return user, nil
}

// ForgotPassword issues a reset token and emails it. An unknown email is
// a silent no-op so the endpoint cannot be used to enumerate accounts.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	token, err := s.tokenService.GenerateOpaqueToken(constant.ActionTokenBytes)
	if err != nil {
		return err
	}

	expiry := time.Now().Add(s.cfg.ResetTokenExpiry())
	if err := s.users.SetResetToken(ctx, user.ID, token, expiry); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordResetEmail(ctx, user.Email, token); err != nil {
		slog.Warn("password reset email could not be sent", "email", user.Email, "error", err)
	}

	return nil
}

// ResetPassword consumes a reset token, re-hashes the credential, and
// terminates every refresh session the account has.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.users.GetByResetToken(ctx, token)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrInvalidResetToken
	}

	if time.Now().After(user.PasswordResetTokenExpiry) {
		return autherror.ErrResetTokenExpired
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		return err
	}

	if err := s.sessions.DeleteAllForUser(ctx, user.ID); err != nil {
		slog.Warn("failed to terminate sessions after password reset", "user_id", user.ID, "error", err)
	}

	return nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*dto.UserOutput, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	out := dto.NewUserOutput(user)

	return &out, nil
}
