package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Cookie session keys. The cookie carries only the opaque server session
// token, the CSRF token and pending flash messages.
const (
	sessionKeyToken = "sid"
	sessionKeyCSRF  = "csrf_token"

	csrfFormField = "csrf_token"
	csrfTokenLen  = 32
)

// sessionToken returns the server session token held by the client, or "".
func sessionToken(c *gin.Context) string {
	tok, _ := sessions.Default(c).Get(sessionKeyToken).(string)
	return tok
}

// csrfToken returns the client's CSRF token, creating one if needed.
// The caller must save the session.
func csrfToken(c *gin.Context) (string, error) {
	s := sessions.Default(c)
	if tok, ok := s.Get(sessionKeyCSRF).(string); ok && tok != "" {
		return tok, nil
	}
	return rotateCSRF(s)
}

func rotateCSRF(s sessions.Session) (string, error) {
	tok, err := generateToken(csrfTokenLen)
	if err != nil {
		return "", err
	}
	s.Set(sessionKeyCSRF, tok)
	return tok, nil
}

func addFlash(c *gin.Context, msg string) {
	sessions.Default(c).AddFlash(msg)
}

// popFlashes drains queued flash messages. The caller must save the session.
func popFlashes(c *gin.Context) []string {
	raw := sessions.Default(c).Flashes()
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func generateToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
