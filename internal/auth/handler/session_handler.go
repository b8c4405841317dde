package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/i-himanshu29/Authentication-System/internal/auth/dto"
	"github.com/i-himanshu29/Authentication-System/internal/auth/service"
)

type SessionHandler struct {
	userService    *service.UserService
	sessionService *service.SessionService
}

func NewSessionHandler(userService *service.UserService, sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{userService: userService, sessionService: sessionService}
}

func callerID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

func callerAccessToken(c *fiber.Ctx) string {
	token, _ := c.Locals(localAccessToken).(string)
	return token
}

func refreshTokenFromRequest(c *fiber.Ctx) string {
	var input dto.LogoutInput
	if err := c.BodyParser(&input); err == nil && input.RefreshToken != "" {
		return input.RefreshToken
	}

	return c.Cookies("refresh_token")
}

func (h *SessionHandler) Profile(c *fiber.Ctx) error {
	out, err := h.userService.GetProfile(c.Context(), callerID(c))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

// Logout deletes the caller's refresh session and blacklists the access
// token that authenticated this request.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	input := dto.LogoutInput{
		AccessToken:  callerAccessToken(c),
		RefreshToken: refreshTokenFromRequest(c),
	}

	err := h.sessionService.Logout(c.Context(), input)

	// The credential cookies are cleared even when revocation partially
	// failed, so the client does not keep replaying dead tokens.
	c.ClearCookie("access_token", "refresh_token")

	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "logged out"})
}

func (h *SessionHandler) ListSessions(c *fiber.Ctx) error {
	sessions, err := h.sessionService.ListSessions(c.Context(), callerID(c))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"sessions": sessions})
}

func (h *SessionHandler) TerminateSession(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "session id is required"})
	}

	err := h.sessionService.TerminateSession(c.Context(), callerID(c), sessionID,
		callerAccessToken(c), refreshTokenFromRequest(c))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "session terminated"})
}

func (h *SessionHandler) LogoutAllOtherDevices(c *fiber.Ctx) error {
	refreshToken := refreshTokenFromRequest(c)
	if refreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "refresh token is required"})
	}

	if err := h.sessionService.LogoutAllOtherDevices(c.Context(), callerID(c), refreshToken); err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "other sessions terminated"})
}

// AdminListSessions lets an admin inspect another account's sessions.
func (h *SessionHandler) AdminListSessions(c *fiber.Ctx) error {
	sessions, err := h.sessionService.ListSessions(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"sessions": sessions})
}
