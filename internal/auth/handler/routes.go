package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/i-himanshu29/Authentication-System/pkg/constant"
)

func RegisterRoutes(app *fiber.App, auth *AuthHandler, sessions *SessionHandler, mw *AuthMiddleware) {
	v1 := app.Group("/api/v1")

	v1.Post("/register", auth.Register)
	v1.Get("/verify/:token", auth.VerifyAccount)
	v1.Post("/login", auth.Login)
	v1.Post("/refresh", auth.Refresh)
	v1.Post("/forgot-password", auth.ForgotPassword)
	v1.Put("/reset-password/:token", auth.ResetPassword)

	protected := v1.Group("", mw.Protect)
	protected.Get("/profile", sessions.Profile)
	protected.Post("/logout", sessions.Logout)
	protected.Get("/sessions", sessions.ListSessions)
	protected.Delete("/sessions/:id", sessions.TerminateSession)
	protected.Post("/logout-all-devices", sessions.LogoutAllOtherDevices)

	admin := protected.Group("/admin", mw.RequireRole(constant.RoleAdmin))
	admin.Get("/user/:id/sessions", sessions.AdminListSessions)
}
