package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/identitylab/identity-service/internal/api/metrics"
	"github.com/identitylab/identity-service/internal/core/domain"
	"github.com/identitylab/identity-service/internal/core/ports"
)

// AuthHandler exposes signup and login over HTTP.
type AuthHandler struct {
	authService ports.AuthService
	throttle    ports.LoginThrottle
	log         zerolog.Logger
}

// NewAuthHandler creates an AuthHandler. throttle may be nil, in which case
// login attempts are not rate limited.
func NewAuthHandler(authService ports.AuthService, throttle ports.LoginThrottle, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, throttle: throttle, log: log}
}

type signupRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=72"`
	Role     string `json:"role"     validate:"required,oneof=USER ADMIN"`
}

type authenticateRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignUp creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "User registration details"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		metrics.SignupsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		metrics.SignupsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, err := h.authService.SignUp(c.Request().Context(), req.Username, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserExists):
			metrics.SignupsTotal.WithLabelValues("conflict").Inc()
			return c.JSON(http.StatusConflict, map[string]string{"error": "username already taken"})
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.SignupsTotal.WithLabelValues("invalid").Inc()
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		metrics.SignupsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	metrics.SignupsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, user)
}

// Authenticate verifies credentials and returns a signed bearer token as a
// plain string body.
//
// @Summary      Authenticate and obtain a token
// @Tags         auth
// @Accept       json
// @Produce      plain
// @Param        body  body      authenticateRequest  true  "Login credentials"
// @Success      200   {string}  string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /authenticate [post]
func (h *AuthHandler) Authenticate(c echo.Context) error {
	var req authenticateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ctx := c.Request().Context()

	if h.throttle != nil {
		ok, err := h.throttle.Allowed(ctx, req.Username)
		if err != nil {
			// Throttle backend trouble must not lock everyone out.
			h.log.Warn().Err(err).Msg("login throttle check failed")
		} else if !ok {
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many login attempts"})
		}
	}

	token, _, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
			if h.throttle != nil {
				if terr := h.throttle.RecordFailure(ctx, req.Username); terr != nil {
					h.log.Warn().Err(terr).Msg("recording failed login attempt")
				}
			}
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	if h.throttle != nil {
		if terr := h.throttle.Reset(ctx, req.Username); terr != nil {
			h.log.Warn().Err(terr).Msg("resetting login throttle")
		}
	}

	return c.String(http.StatusOK, token)
}
