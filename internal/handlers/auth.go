package handlers

import (
	"errors"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"session_auth/internal/metrics"
	"session_auth/internal/service"
)

// User-visible flash messages.
const (
	msgUsernameTaken   = "Username already taken. Please choose another."
	msgRegistered      = "Registration successful! You can now log in."
	msgInvalidLogin    = "Invalid username or password."
	msgLoggedOut       = "You have been logged out."
	msgMissingFields   = "Username and password are required."
	msgInvalidUsername = "Username must be between 1 and 100 characters."
)

// Single, shared credentials payload for both registration and login.
type authCredentials struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// bindFormOrFlash binds the posted form into dst. On failure it flashes and
// redirects to back, returning false.
func (h *Handler) bindFormOrFlash(c *gin.Context, dst any, back string) bool {
	if err := c.ShouldBind(dst); err != nil {
		h.log.Infow("auth_bad_request_body", "path", c.Request.URL.Path, "err", err)
		h.redirectWithFlash(c, back, msgMissingFields)
		return false
	}
	return true
}

// @Summary      Register
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Param        username    formData  string  true  "Username (1-100 characters)"
// @Param        password    formData  string  true  "Password"
// @Param        csrf_token  formData  string  true  "CSRF token from the form"
// @Success      302  "Redirect to / on success, /register on failure"
// @Failure      400  {string}  string  "CSRF token missing or invalid"
// @Router       /register [post]
func (h *Handler) register(c *gin.Context) {
	var input authCredentials
	if ok := h.bindFormOrFlash(c, &input, "/register"); !ok {
		return
	}

	id, err := h.services.Register(c.Request.Context(), input.Username, input.Password)
	switch {
	case err == nil:
		h.metrics.Registration(metrics.OutcomeSuccess)
		h.log.Infow("auth_registered", "username", input.Username, "id", id)
		h.redirectWithFlash(c, "/", msgRegistered)
	case errors.Is(err, service.ErrDuplicateUsername):
		h.metrics.Registration(metrics.OutcomeDuplicate)
		h.log.Infow("auth_register_duplicate", "username", input.Username)
		h.redirectWithFlash(c, "/register", msgUsernameTaken)
	case errors.Is(err, service.ErrInvalidUsername):
		h.metrics.Registration(metrics.OutcomeInvalid)
		h.redirectWithFlash(c, "/register", msgInvalidUsername)
	case errors.Is(err, service.ErrEmptyPassword):
		h.metrics.Registration(metrics.OutcomeInvalid)
		h.redirectWithFlash(c, "/register", msgMissingFields)
	default:
		h.metrics.Registration(metrics.OutcomeError)
		h.internalError(c, "auth_register_failed", err)
	}
}

// @Summary      Log in
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Param        username    formData  string  true  "Username"
// @Param        password    formData  string  true  "Password"
// @Param        csrf_token  formData  string  true  "CSRF token from the form"
// @Success      302  "Redirect to /dashboard on success, / on failure"
// @Failure      400  {string}  string  "CSRF token missing or invalid"
// @Router       /login [post]
func (h *Handler) login(c *gin.Context) {
	var input authCredentials
	if ok := h.bindFormOrFlash(c, &input, "/"); !ok {
		return
	}

	ctx := c.Request.Context()
	token, err := h.services.Authenticate(ctx, input.Username, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.metrics.Login(metrics.OutcomeInvalid)
			h.log.Infow("auth_sign_in_failed", "username", input.Username, "err", err)
			h.redirectWithFlash(c, "/", msgInvalidLogin)
			return
		}
		h.metrics.Login(metrics.OutcomeError)
		h.internalError(c, "auth_sign_in_error", err)
		return
	}

	// Replace any previous association so a pre-login handle never survives.
	if previous := sessionToken(c); previous != "" && previous != token {
		if err := h.services.Logout(ctx, previous); err != nil {
			h.log.Warnw("auth_previous_session_cleanup_failed", "err", err)
		}
	}

	s := sessions.Default(c)
	s.Set(sessionKeyToken, token)
	if _, err := rotateCSRF(s); err != nil {
		h.internalError(c, "csrf_token_failed", err)
		return
	}

	h.metrics.Login(metrics.OutcomeSuccess)
	h.log.Infow("auth_signed_in", "username", input.Username)
	h.redirect(c, "/dashboard")
}

// @Summary      Log out
// @Description  Idempotent: logging out an anonymous client still succeeds.
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Param        csrf_token  formData  string  true  "CSRF token from the form"
// @Success      302  "Redirect to /"
// @Failure      400  {string}  string  "CSRF token missing or invalid"
// @Router       /logout [post]
func (h *Handler) logout(c *gin.Context) {
	if err := h.services.Logout(c.Request.Context(), sessionToken(c)); err != nil {
		h.internalError(c, "auth_logout_failed", err)
		return
	}

	sessions.Default(c).Delete(sessionKeyToken)
	h.metrics.Logout()
	h.redirectWithFlash(c, "/", msgLoggedOut)
}
