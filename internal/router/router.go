// Package router wires the HTTP surface: public storefront reads,
// customer purchases, auth and the admin back office.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/morekat/boat-charter/internal/handler"
	"github.com/morekat/boat-charter/internal/middleware"
	"github.com/morekat/boat-charter/internal/model"
)

// RegisterRoutes registers routes that require no authentication.
// Currently that is only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers authentication routes and applies the necessary
// middleware.  /v1/auth serves the back office (email + password);
// /v1/telegram/auth serves Mini App customers.  Protected session
// endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, tg *handler.TelegramHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	// Back-office login.  There is no register endpoint: accounts are
	// provisioned out of band.
	g.POST("/login", a.Login)
	// Rotate the refresh token and issue a new pair.
	g.POST("/refresh", a.Refresh)
	// Issue a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts either a bearer access token (revoke all sessions)
	// or a refresh token in the body (revoke one session).
	g.POST("/logout", a.Logout)
	e.POST("/v1/logout", a.Logout)

	// Customers authenticate by posting the init data their Telegram
	// Mini App received; a verified payload yields a normal token pair.
	e.POST("/v1/telegram/auth", tg.Auth)

	// Session introspection for any authenticated role.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleUser, model.RoleAdmin, model.RoleOwner))
	auth.GET("/me", a.Me)
}
