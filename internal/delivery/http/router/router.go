// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"authpal/internal/delivery/http/middleware"
	"authpal/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler          *handler.AuthHandler
	PasswordResetHandler *handler.PasswordResetHandler
	SessionHandler       *handler.SessionHandler
	AuthMiddleware       *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler          *handler.AuthHandler
	passwordResetHandler *handler.PasswordResetHandler
	sessionHandler       *handler.SessionHandler
	authMiddleware       *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:          params.AuthHandler,
		passwordResetHandler: params.PasswordResetHandler,
		sessionHandler:       params.SessionHandler,
		authMiddleware:       params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.GET("/google", r.authHandler.GoogleLogin)
		authGroup.GET("/google/callback", r.authHandler.GoogleCallback)

		// Password reset: request link, consume emailed link, submit new password.
		authGroup.POST("/password/forgot", r.passwordResetHandler.Forgot)
		authGroup.GET("/reset-password/:token", r.passwordResetHandler.ConsumeResetLink)
		authGroup.POST("/password/reset", r.passwordResetHandler.Reset)

		// Routes behind the session gate.
		gated := authGroup.Group("", r.authMiddleware.Authenticate)
		gated.POST("/logout", r.authHandler.Logout)
		gated.GET("/me", r.authHandler.Me)
		gated.POST("/verify-email", r.authHandler.VerifyEmail)
		gated.POST("/resend-otp", r.authHandler.ResendOTP)
	}

	// Session management, session required.
	sessionGroup := e.Group("/sessions")
	sessionGroup.Use(r.authMiddleware.Authenticate)
	{
		sessionGroup.GET("", r.sessionHandler.List)
		sessionGroup.DELETE("", r.sessionHandler.RevokeOthers)
	}
}
