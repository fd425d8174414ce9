package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"session_auth/internal/metrics"
	"session_auth/internal/models"
	"session_auth/internal/repository"
	"session_auth/internal/repository/db"
	"session_auth/internal/service"
)

// ---- Service Mocks ----

type mockCredentials struct {
	registerID  int
	registerErr error
	registerFn  func(username, password string) (int, error)

	lastUsername string
	lastPassword string
}

func (m *mockCredentials) Register(_ context.Context, username, password string) (int, error) {
	m.lastUsername = username
	m.lastPassword = password
	if m.registerFn != nil {
		return m.registerFn(username, password)
	}
	return m.registerID, m.registerErr
}

func (m *mockCredentials) FindByUsername(context.Context, string) (*models.User, error) {
	return nil, nil
}

type mockAuthenticator struct {
	token   string
	authErr error

	currentUser string
	currentErr  error
	logoutErr   error

	logouts []string
}

func (m *mockAuthenticator) Authenticate(context.Context, string, string) (string, error) {
	return m.token, m.authErr
}

func (m *mockAuthenticator) Logout(_ context.Context, token string) error {
	m.logouts = append(m.logouts, token)
	return m.logoutErr
}

func (m *mockAuthenticator) CurrentUser(_ context.Context, token string) (string, bool, error) {
	if m.currentErr != nil {
		return "", false, m.currentErr
	}
	if token == "" || token != m.token {
		return "", false, nil
	}
	return m.currentUser, true, nil
}

// ---- Shared Test Helpers ----

const testSecret = "test-secret"

func newTestHandler(s *service.Service, opts Options) *Handler {
	gin.SetMode(gin.TestMode)
	if opts.SecretKey == "" {
		opts.SecretKey = testSecret
	}
	opts.CookieHTTPOnly = true
	opts.CookieSameSite = http.SameSiteLaxMode
	return NewHandler(s, nil, metrics.New(), opts)
}

// newRealService wires the actual services to a temp sqlite database.
func newRealService(t *testing.T) *service.Service {
	t.Helper()

	conn, err := db.InitDB(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = db.Migrate(context.Background(), conn, repository.DialectSQLite)
	require.NoError(t, err)

	repos := repository.NewRepository(conn, repository.DialectSQLite)
	return service.NewService(repos, service.NewPBKDF2Hasher(1000, 0))
}

var csrfPattern = regexp.MustCompile(`name="csrf_token" value="([0-9a-f]+)"`)

// browser is a cookie-keeping client that does not follow redirects.
type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newBrowser(t *testing.T, handler http.Handler) *browser {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &browser{
		t:    t,
		base: srv.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *browser) get(path string) (*http.Response, string) {
	b.t.Helper()
	resp, err := b.client.Get(b.base + path)
	require.NoError(b.t, err)
	return resp, readBody(b.t, resp)
}

func (b *browser) post(path string, form url.Values) (*http.Response, string) {
	b.t.Helper()
	resp, err := b.client.PostForm(b.base+path, form)
	require.NoError(b.t, err)
	return resp, readBody(b.t, resp)
}

// csrf loads a page and returns the token embedded in its form.
func (b *browser) csrf(path string) string {
	b.t.Helper()
	_, body := b.get(path)
	m := csrfPattern.FindStringSubmatch(body)
	require.Len(b.t, m, 2, "no csrf token on %s", path)
	return m[1]
}

// submit posts a form from page to action with the page's CSRF token.
func (b *browser) submit(page, action string, fields map[string]string) *http.Response {
	b.t.Helper()
	form := url.Values{"csrf_token": {b.csrf(page)}}
	for k, v := range fields {
		form.Set(k, v)
	}
	resp, _ := b.post(action, form)
	return resp
}

// follow asserts a 302 to location and returns the target page body.
func (b *browser) follow(resp *http.Response, location string) string {
	b.t.Helper()
	require.Equal(b.t, http.StatusFound, resp.StatusCode)
	require.Equal(b.t, location, resp.Header.Get("Location"))
	_, body := b.get(location)
	return body
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}
