package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	_ "github.com/shadownet/contract-desk/docs"
	"github.com/shadownet/contract-desk/internal/api/handler"
	"github.com/shadownet/contract-desk/internal/api/middleware"
	"github.com/shadownet/contract-desk/internal/core/ports"
)

// Rate limit windows, matching the public site's abuse policy: login budgets
// only shrink on failure, registration counts every attempt.
var (
	loginLimit = middleware.RateLimitConfig{
		Scope:        "login",
		Window:       15 * time.Minute,
		Max:          5,
		FailuresOnly: true,
		Message:      "Too many login attempts. Please try again after 15 minutes.",
	}
	registerLimit = middleware.RateLimitConfig{
		Scope:   "register",
		Window:  time.Hour,
		Max:     3,
		Message: "Too many registration attempts. Please try again after an hour.",
	}
)

// Dependencies carries everything the router wires together. All services are
// constructed once at startup and injected; no handler reaches for globals.
type Dependencies struct {
	Sessions   *middleware.SessionManager
	Auth       ports.AuthService
	Contracts  ports.ContractService
	Limiter    ports.RateLimiter
	DBProbe    handler.Probe
	RedisProbe handler.Probe
	StartedAt  time.Time
	Log        zerolog.Logger
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("contract_desk"))
	e.Use(deps.Sessions.Resolve())

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Sessions)
	contractHandler := handler.NewContractHandler(deps.Contracts)
	statusHandler := handler.NewStatusHandler(deps.Contracts, deps.DBProbe, deps.RedisProbe, deps.StartedAt)

	loginLimiter := middleware.RateLimit(deps.Limiter, loginLimit, deps.Log)
	registerLimiter := middleware.RateLimit(deps.Limiter, registerLimit, deps.Log)

	api := e.Group("/api")

	// --- Auth ---
	api.POST("/client/register", authHandler.Register, registerLimiter)
	api.POST("/client/login", authHandler.ClientLogin, loginLimiter)
	api.POST("/login", authHandler.AdminLogin, loginLimiter)
	api.POST("/logout", authHandler.Logout)
	api.GET("/user", authHandler.CurrentUser, middleware.RequireAuthenticated())

	// --- Contracts ---
	api.POST("/contracts", contractHandler.Create) // public, optional auth
	api.GET("/contracts", contractHandler.List, middleware.RequireAdmin())
	api.GET("/contracts/:id", contractHandler.Get, middleware.RequireAuthenticated())
	api.PATCH("/contracts/:id/status", contractHandler.UpdateStatus, middleware.RequireAdmin())
	api.DELETE("/contracts/:id", contractHandler.Delete, middleware.RequireAdmin())
	api.GET("/client/contracts", contractHandler.ListMine, middleware.RequireClient())

	// --- Diagnostics ---
	api.GET("/status", statusHandler.Get)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
