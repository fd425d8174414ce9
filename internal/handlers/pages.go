package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const statusOK = "ok"

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Login form
// @Tags         pages
// @Produce      html
// @Success      200
// @Router       / [get]
func (h *Handler) home(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", nil)
}

// @Summary      Registration form
// @Tags         pages
// @Produce      html
// @Success      200
// @Router       /register [get]
func (h *Handler) registerPage(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", nil)
}

// @Summary      Protected dashboard
// @Description  Anonymous clients are redirected to the login form.
// @Tags         pages
// @Produce      html
// @Success      200
// @Failure      302
// @Router       /dashboard [get]
func (h *Handler) dashboard(c *gin.Context) {
	h.render(c, http.StatusOK, "dashboard.html", gin.H{
		"username": c.GetString(ctxUserKey),
	})
}
