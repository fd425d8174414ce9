package handlers

import (
	"html/template"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "session_auth/docs"
	"session_auth/internal/logger"
	"session_auth/internal/metrics"
	"session_auth/internal/service"
)

// Options carries the cookie and transport settings the HTTP layer needs.
type Options struct {
	SecretKey      string
	CookieName     string
	CookieSecure   bool
	CookieHTTPOnly bool
	CookieSameSite http.SameSite
	ForceHTTPS     bool
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	metrics  *metrics.Metrics
	opts     Options
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, m *metrics.Metrics, opts Options) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	if opts.CookieName == "" {
		opts.CookieName = "session"
	}
	return &Handler{services: services, log: log, metrics: m, opts: opts}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	router.Use(h.requestLogger, gin.CustomRecovery(h.recoverPanic), h.securityHeaders)
	router.Use(sessions.Sessions(h.opts.CookieName, h.newCookieStore()))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.metrics.Registry, promhttp.HandlerOpts{})))
	}

	h.registerPageRoutes(router)
	h.registerAuthRoutes(router)

	return router
}

func (h *Handler) newCookieStore() sessions.Store {
	store := cookie.NewStore([]byte(h.opts.SecretKey))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   0, // browser-session cookie; the server decides when a login ends
		Secure:   h.opts.CookieSecure,
		HttpOnly: h.opts.CookieHTTPOnly,
		SameSite: h.opts.CookieSameSite,
	})
	return store
}

func (h *Handler) registerPageRoutes(r *gin.Engine) {
	r.GET("/", h.home)
	r.GET("/register", h.registerPage)
	r.GET("/dashboard", h.requireLogin, h.dashboard)
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	forms := r.Group("/", h.verifyCSRF)
	{
		forms.POST("/register", h.register)
		forms.POST("/login", h.login)
		forms.POST("/logout", h.logout)
	}
}
