package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/i-himanshu29/Authentication-System/internal/auth/domain"
	"github.com/i-himanshu29/Authentication-System/internal/auth/service"
	"github.com/i-himanshu29/Authentication-System/pkg/constant"
)

const (
	localUserID      = "userID"
	localUserRole    = "userRole"
	localAccessToken = "accessToken"
)

type AuthMiddleware struct {
	tokenService service.TokenGenerator
	blacklist    domain.TokenBlacklist
}

func NewAuthMiddleware(tokenService service.TokenGenerator, blacklist domain.TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{tokenService: tokenService, blacklist: blacklist}
}

func extractAccessToken(c *fiber.Ctx) string {
	if auth := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}

	return c.Cookies("access_token")
}

// Protect rejects requests whose access token is missing, blacklisted,
// or fails verification. The blacklist check runs before signature
// verification so a revoked token is dead even while its claims are
// otherwise valid.
func (m *AuthMiddleware) Protect(c *fiber.Ctx) error {
	token := extractAccessToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "not authorized",
		})
	}

	blacklisted, err := m.blacklist.Exists(c.Context(), token)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
	if blacklisted {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "session expired, please login again",
		})
	}

	claims, err := m.tokenService.VerifyAccessToken(token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "not authorized",
		})
	}

	c.Locals(localUserID, claims.UserID)
	c.Locals(localUserRole, constant.ParseRole(claims.Role))
	c.Locals(localAccessToken, token)

	return c.Next()
}

// RequireRole allows the request through only when the authenticated
// role is in the given set. Must run after Protect.
func (m *AuthMiddleware) RequireRole(roles ...constant.Role) fiber.Handler {
	allowed := make(map[constant.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(localUserRole).(constant.Role)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "not authorized",
			})
		}

		if _, ok := allowed[role]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "insufficient role",
			})
		}

		return c.Next()
	}
}
