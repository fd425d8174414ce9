package handlers

import (
	"embed"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// render draws a named view. Pending flash messages and the CSRF token are
// added to data, and the cookie session is saved before the body is written.
func (h *Handler) render(c *gin.Context, status int, view string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	token, err := csrfToken(c)
	if err != nil {
		h.internalError(c, "csrf_token_failed", err)
		return
	}
	data["csrf_token"] = token
	data["flashes"] = popFlashes(c)

	if err := sessions.Default(c).Save(); err != nil {
		h.internalError(c, "session_save_failed", err)
		return
	}
	c.HTML(status, view, data)
}

// redirectWithFlash queues msg and redirects to location.
func (h *Handler) redirectWithFlash(c *gin.Context, location, msg string) {
	addFlash(c, msg)
	h.redirect(c, location)
}

func (h *Handler) redirect(c *gin.Context, location string) {
	if err := sessions.Default(c).Save(); err != nil {
		h.internalError(c, "session_save_failed", err)
		return
	}
	c.Redirect(http.StatusFound, location)
}

func (h *Handler) internalError(c *gin.Context, event string, err error) {
	h.log.Errorw(event, "path", c.Request.URL.Path, "err", err)
	c.HTML(http.StatusInternalServerError, "500.html", nil)
}
