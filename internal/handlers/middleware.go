package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const ctxUserKey = "username"

const (
	hstsValue = "max-age=31536000; includeSubDomains"
	cspValue  = "default-src 'self'; object-src 'none'; base-uri 'self'"
)

// requireLogin lets the request through only when the client's session
// token is bound to a user; anonymous clients are sent to the login page.
func (h *Handler) requireLogin(c *gin.Context) {
	username, ok, err := h.services.CurrentUser(c.Request.Context(), sessionToken(c))
	if err != nil {
		h.internalError(c, "session_lookup_failed", err)
		c.Abort()
		return
	}
	if !ok {
		c.Redirect(http.StatusFound, "/")
		c.Abort()
		return
	}

	c.Set(ctxUserKey, username)
	c.Next()
}

// verifyCSRF rejects form posts whose csrf_token does not match the session.
func (h *Handler) verifyCSRF(c *gin.Context) {
	expected, _ := sessions.Default(c).Get(sessionKeyCSRF).(string)
	received := c.PostForm(csrfFormField)
	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(received)) != 1 {
		h.log.Infow("csrf_rejected", "path", c.Request.URL.Path, "missing", expected == "" || received == "")
		c.String(http.StatusBadRequest, "Bad Request: the CSRF token is missing or invalid.")
		c.Abort()
		return
	}
	c.Next()
}

// securityHeaders sets a fixed set of hardening headers and, when
// ForceHTTPS is enabled, upgrades plain HTTP requests.
func (h *Handler) securityHeaders(c *gin.Context) {
	if h.opts.ForceHTTPS {
		if !isHTTPS(c.Request) {
			target := "https://" + c.Request.Host + c.Request.URL.RequestURI()
			c.Redirect(http.StatusMovedPermanently, target)
			c.Abort()
			return
		}
		c.Header("Strict-Transport-Security", hstsValue)
	}

	c.Header("X-Frame-Options", "SAMEORIGIN")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Content-Security-Policy", cspValue)
	c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
	c.Next()
}

func isHTTPS(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}

// requestLogger writes one access-log line per request.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency", time.Since(start),
		"client_ip", c.ClientIP(),
	)
}

func (h *Handler) recoverPanic(c *gin.Context, recovered any) {
	h.log.Errorw("panic_recovered", "path", c.Request.URL.Path, "panic", recovered)
	c.HTML(http.StatusInternalServerError, "500.html", nil)
	c.Abort()
}
