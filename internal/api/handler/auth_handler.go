package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shadownet/contract-desk/internal/api/metrics"
	"github.com/shadownet/contract-desk/internal/api/middleware"
	"github.com/shadownet/contract-desk/internal/core/domain"
	"github.com/shadownet/contract-desk/internal/core/ports"
)

// AuthHandler exposes registration, the two login paths, logout and the
// current-user probe.
type AuthHandler struct {
	auth     ports.AuthService
	sessions *middleware.SessionManager
}

func NewAuthHandler(auth ports.AuthService, sessions *middleware.SessionManager) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,password"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

func profile(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

// Register creates a client account and logs it in.
//
// @Summary      Register a new client
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /client/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.auth.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.Inc()

	// Auto-login: the fresh account gets a session immediately.
	if err := h.sessions.Issue(c, user, false); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, profile(user))
}

// ClientLogin authenticates a client and establishes a session.
//
// @Summary      Client login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  userResponse
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /client/login [post]
func (h *AuthHandler) ClientLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("client", "failure").Inc()
		return err
	}

	if err := h.sessions.Issue(c, user, false); err != nil {
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("client", "success").Inc()
	return c.JSON(http.StatusOK, profile(user))
}

// AdminLogin authenticates an admin and establishes an admin-flagged session.
// Any pre-existing session is destroyed before authentication, and valid
// credentials for a non-admin account are refused outright.
//
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  userResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.sessions.Destroy(c); err != nil {
		return err
	}

	user, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("admin", "failure").Inc()
		return err
	}
	if !user.IsAdmin() {
		metrics.LoginAttemptsTotal.WithLabelValues("admin", "denied").Inc()
		return domain.ErrNotAdmin
	}

	// The admin flag lives on the session, not the user row: only this path
	// sets it, and only sessions issued here pass the admin guard.
	if err := h.sessions.Issue(c, user, true); err != nil {
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("admin", "success").Inc()
	return c.JSON(http.StatusOK, userResponse{ID: user.ID, Username: user.Username, Role: user.Role})
}

// Logout destroys the current session. Calling it without a session is fine.
//
// @Summary      Logout
// @Tags         auth
// @Success      200
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.Destroy(c); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// CurrentUser returns the authenticated user's profile.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  userResponse
// @Failure      401  {object}  map[string]string
// @Router       /user [get]
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	user := middleware.CurrentUser(c)
	return c.JSON(http.StatusOK, profile(user))
}
