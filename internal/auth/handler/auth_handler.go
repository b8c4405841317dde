package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/i-himanshu29/Authentication-System/internal/auth/dto"
	"github.com/i-himanshu29/Authentication-System/internal/auth/service"
	autherror "github.com/i-himanshu29/Authentication-System/internal/errors"
)

type AuthHandler struct {
	userService    *service.UserService
	sessionService *service.SessionService
}

func NewAuthHandler(userService *service.UserService, sessionService *service.SessionService) *AuthHandler {
	return &AuthHandler{userService: userService, sessionService: sessionService}
}

// statusForError maps the service error taxonomy onto HTTP statuses.
// Unauthorized cases keep a generic message so a caller cannot tell
// which check failed.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, autherror.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, autherror.ErrEmailNotVerified):
		return fiber.StatusForbidden, "email not verified"
	case errors.Is(err, autherror.ErrEmailAlreadyInUse):
		return fiber.StatusConflict, "email already in use"
	case errors.Is(err, autherror.ErrInvalidRefreshToken),
		errors.Is(err, autherror.ErrRefreshTokenExpired),
		errors.Is(err, autherror.ErrTokenBlacklisted):
		return fiber.StatusUnauthorized, "invalid or expired token"
	case errors.Is(err, autherror.ErrInvalidVerificationToken),
		errors.Is(err, autherror.ErrInvalidResetToken):
		return fiber.StatusBadRequest, "invalid token"
	case errors.Is(err, autherror.ErrVerificationTokenExpired),
		errors.Is(err, autherror.ErrResetTokenExpired):
		return fiber.StatusGone, "token expired"
	case errors.Is(err, autherror.ErrSessionNotFound),
		errors.Is(err, autherror.ErrUserNotFound):
		return fiber.StatusNotFound, "not found"
	case errors.Is(err, autherror.ErrForbidden):
		return fiber.StatusForbidden, "forbidden"
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	status, msg := statusForError(err)
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	if input.Name == "" || input.Email == "" || input.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "all fields are required"})
	}

	out, err := h.userService.Register(c.Context(), input)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *AuthHandler) VerifyAccount(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "token is required"})
	}

	if err := h.userService.VerifyAccount(c.Context(), token); err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "account verified"})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	input.IPAddress = c.IP()
	input.Fingerprint = c.Get("X-Device-Fingerprint")
	if input.Fingerprint == "" {
		input.Fingerprint = string(c.Request().Header.UserAgent())
	}

	out, err := h.sessionService.Login(c.Context(), input)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var input dto.RefreshInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	if input.RefreshToken == "" {
		input.RefreshToken = c.Cookies("refresh_token")
	}
	input.IPAddress = c.IP()

	tokens, err := h.sessionService.Refresh(c.Context(), input)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var input dto.ForgotPasswordInput
	if err := c.BodyParser(&input); err != nil || input.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email is required"})
	}

	if err := h.userService.ForgotPassword(c.Context(), input.Email); err != nil {
		return errorResponse(c, err)
	}

	// Same response whether or not the account exists.
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "if the account exists, a reset email has been sent",
	})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var input dto.ResetPasswordInput
	if err := c.BodyParser(&input); err != nil || input.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "password is required"})
	}

	if err := h.userService.ResetPassword(c.Context(), c.Params("token"), input.Password); err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "password updated"})
}
