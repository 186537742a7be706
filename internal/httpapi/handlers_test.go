package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"movemate-admin/internal/auth"
	"movemate-admin/internal/config"
	"movemate-admin/internal/metrics"
	"movemate-admin/internal/secret"
	"movemate-admin/internal/seed"
	"movemate-admin/internal/session"
	"movemate-admin/internal/store/memory"
)

func init() {
	secret.BcryptCost = bcrypt.MinCost
}

type testEnv struct {
	srv     *Server
	hs      *httptest.Server
	storage *session.MemoryStore
}

// Helper to create a test server with an in-memory directory and storage.
func newTestServer(t *testing.T, checks map[string]func(context.Context) error) *testEnv {
	t.Helper()
	return newTestServerWithConfig(t, config.Config{JWTSecret: "test-secret"}, checks)
}

func newTestServerWithConfig(t *testing.T, cfg config.Config, checks map[string]func(context.Context) error) *testEnv {
	t.Helper()
	users, err := seed.Build(seed.Default(), time.Now().UTC())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	reg := prometheus.NewRegistry()
	ctrl := auth.NewController(memory.NewStore(users), auth.Options{Metrics: metrics.New(reg)})
	storage := session.NewMemoryStore(0, 0)

	srv := NewServer(cfg, Deps{
		Controller: ctrl,
		Storage:    storage,
		Gatherer:   reg,
		Checks:     checks,
	})
	hs := httptest.NewServer(srv.Handler())
	t.Cleanup(hs.Close)
	return &testEnv{srv: srv, hs: hs, storage: storage}
}

type testClient struct {
	t    *testing.T
	base string
	c    *http.Client
}

func (e *testEnv) client(t *testing.T) *testClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &testClient{
		t:    t,
		base: e.hs.URL,
		c: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// clientID returns the id carried by the client's identity cookie.
func (e *testEnv) clientID(c *testClient) string {
	c.t.Helper()
	u, err := url.Parse(c.base)
	if err != nil {
		c.t.Fatalf("parse base url: %v", err)
	}
	for _, ck := range c.c.Jar.Cookies(u) {
		if ck.Name != clientCookie {
			continue
		}
		id, err := e.srv.signer.parse(ck.Value)
		if err != nil {
			c.t.Fatalf("parse client cookie: %v", err)
		}
		return id
	}
	c.t.Fatalf("no client cookie issued")
	return ""
}

func (c *testClient) do(method, path string, body any) (*http.Response, map[string]any) {
	c.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.base+path, rd)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := c.c.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()

	out := map[string]any{}
	if strings.HasPrefix(res.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
			c.t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return res, out
}

func (c *testClient) expectStatus(res *http.Response, want int) {
	c.t.Helper()
	if res.StatusCode != want {
		c.t.Fatalf("%s %s: expected status %d, got %d", res.Request.Method, res.Request.URL.Path, want, res.StatusCode)
	}
}

func (c *testClient) expectRedirect(res *http.Response, location string) {
	c.t.Helper()
	c.expectStatus(res, http.StatusSeeOther)
	if got := res.Header.Get("Location"); got != location {
		c.t.Fatalf("%s: expected redirect to %q, got %q", res.Request.URL.Path, location, got)
	}
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func errorMessage(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	msg, _ := e["message"].(string)
	return msg
}

func errorFields(body map[string]any) map[string]any {
	e, _ := body["error"].(map[string]any)
	f, _ := e["fields"].(map[string]any)
	return f
}

func TestHealth(t *testing.T) {
	env := newTestServer(t, map[string]func(context.Context) error{
		"store": func(context.Context) error { return nil },
	})
	c := env.client(t)

	res, body := c.do(http.MethodGet, "/health", nil)
	c.expectStatus(res, http.StatusOK)
	if body["ok"] != true {
		t.Fatalf("expected ok=true, got %v", body["ok"])
	}

	failing := newTestServer(t, map[string]func(context.Context) error{
		"redis": func(context.Context) error { return errors.New("connection refused") },
	})
	fc := failing.client(t)
	res, body = fc.do(http.MethodGet, "/health", nil)
	fc.expectStatus(res, http.StatusServiceUnavailable)
	checks, _ := body["checks"].(map[string]any)
	if checks["redis"] != "connection refused" {
		t.Fatalf("unexpected checks: %v", checks)
	}
}

func TestAdminRequiresLogin(t *testing.T) {
	env := newTestServer(t, nil)
	c := env.client(t)

	for _, path := range []string{"/admin", "/admin/orders", "/admin/me", "/admin/whatever"} {
		res, _ := c.do(http.MethodGet, path, nil)
		c.expectRedirect(res, "/admin-login")
	}
}

func TestLoginAndDashboard(t *testing.T) {
	env := newTestServer(t, nil)
	c := env.client(t)

	res, body := c.do(http.MethodPost, "/admin-login", map[string]string{"email": "not-an-email", "password": ""})
	c.expectStatus(res, http.StatusBadRequest)
	fields := errorFields(body)
	if fields["email"] != "Please enter a valid email address" || fields["password"] != "Password is required" {
		t.Fatalf("unexpected validation fields: %v", fields)
	}

	res, body = c.do(http.MethodPost, "/admin-login", map[string]string{"email": "admin@movemate.com", "password": "nope12"})
	c.expectStatus(res, http.StatusUnauthorized)
	if errorCode(body) != "invalid_credentials" || errorMessage(body) != "Invalid email or password" {
		t.Fatalf("unexpected error body: %v", body)
	}

	res, body = c.do(http.MethodGet, "/admin-login", nil)
	c.expectStatus(res, http.StatusOK)
	if body["error"] != "Invalid email or password" {
		t.Fatalf("expected last error on login page, got %v", body)
	}

	res, body = c.do(http.MethodPost, "/admin-login", map[string]string{"email": "Admin@MoveMate.com", "password": "admin123"})
	c.expectStatus(res, http.StatusOK)
	user, _ := body["user"].(map[string]any)
	if user["email"] != "admin@movemate.com" || body["redirect"] != "/admin" {
		t.Fatalf("unexpected login body: %v", body)
	}
	if _, leaked := user["PasswordHash"]; leaked {
		t.Fatalf("password hash leaked: %v", user)
	}

	res, _ = c.do(http.MethodGet, "/admin-login", nil)
	c.expectRedirect(res, "/admin")

	res, body = c.do(http.MethodGet, "/admin", nil)
	c.expectStatus(res, http.StatusOK)
	summary, _ := body["summary"].(map[string]any)
	if summary["total_orders"] != float64(7) {
		t.Fatalf("unexpected summary: %v", summary)
	}

	res, body = c.do(http.MethodGet, "/admin/orders?status=Completed", nil)
	c.expectStatus(res, http.StatusOK)
	if body["total"] != float64(3) {
		t.Fatalf("expected 3 completed orders, got %v", body["total"])
	}

	res, body = c.do(http.MethodGet, "/admin/drivers?search=queens&page=abc", nil)
	c.expectStatus(res, http.StatusOK)
	if body["total"] != float64(1) || body["page"] != float64(1) {
		t.Fatalf("unexpected driver page: %v", body)
	}

	res, body = c.do(http.MethodGet, "/admin/orders/1002", nil)
	c.expectStatus(res, http.StatusOK)
	order, _ := body["order"].(map[string]any)
	if order["customer"] != "Lisa Johnson" {
		t.Fatalf("unexpected order: %v", order)
	}

	res, _ = c.do(http.MethodGet, "/admin/drivers/9999", nil)
	c.expectStatus(res, http.StatusNotFound)

	res, _ = c.do(http.MethodGet, "/admin/settings", nil)
	c.expectRedirect(res, "/admin")

	res, body = c.do(http.MethodPost, "/admin-logout", nil)
	c.expectStatus(res, http.StatusOK)
	if body["redirect"] != "/admin-login" {
		t.Fatalf("unexpected logout body: %v", body)
	}

	res, _ = c.do(http.MethodGet, "/admin", nil)
	c.expectRedirect(res, "/admin-login")
}

func TestSessionsAreIsolatedPerClient(t *testing.T) {
	env := newTestServer(t, nil)
	a := env.client(t)
	b := env.client(t)

	res, _ := a.do(http.MethodPost, "/admin-login", map[string]string{"email": "john@movemate.com", "password": "john123"})
	a.expectStatus(res, http.StatusOK)

	res, _ = a.do(http.MethodGet, "/admin/me", nil)
	a.expectStatus(res, http.StatusOK)

	res, _ = b.do(http.MethodGet, "/admin/me", nil)
	b.expectRedirect(res, "/admin-login")
}

func TestTamperedClientCookieIsReplaced(t *testing.T) {
	env := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin-login", nil)
	req.AddCookie(&http.Cookie{Name: clientCookie, Value: "garbage"})
	rec := httptest.NewRecorder()
	env.srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != clientCookie || cookies[0].Value == "garbage" {
		t.Fatalf("expected a fresh client cookie, got %v", cookies)
	}
	if _, err := env.srv.signer.parse(cookies[0].Value); err != nil {
		t.Fatalf("issued cookie does not verify: %v", err)
	}
}

func TestResetPagesRequireState(t *testing.T) {
	env := newTestServer(t, nil)
	c := env.client(t)

	res, _ := c.do(http.MethodGet, "/admin-reset-security?token=abc", nil)
	c.expectRedirect(res, "/admin-forgot-password")

	res, _ = c.do(http.MethodPost, "/admin-reset-security?token=abc", map[string]string{"answer": "toyota"})
	c.expectRedirect(res, "/admin-forgot-password")

	res, _ = c.do(http.MethodGet, "/admin-reset-password", nil)
	c.expectRedirect(res, "/admin-forgot-password")

	res, _ = c.do(http.MethodPost, "/admin-reset-password", map[string]string{"password": "abcdef", "confirm_password": "abcdef"})
	c.expectRedirect(res, "/admin-forgot-password")

	res, _ = c.do(http.MethodGet, "/admin-forgot-password", nil)
	c.expectStatus(res, http.StatusOK)
}

func TestPasswordResetEndToEnd(t *testing.T) {
	env := newTestServer(t, nil)
	c := env.client(t)

	res, body := c.do(http.MethodPost, "/admin-forgot-password", map[string]string{"email": "ghost@movemate.com"})
	c.expectStatus(res, http.StatusNotFound)
	if errorMessage(body) != "No account found with that email address." {
		t.Fatalf("unexpected error: %v", body)
	}

	res, body = c.do(http.MethodPost, "/admin-forgot-password", map[string]string{"email": "admin@movemate.com"})
	c.expectStatus(res, http.StatusOK)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("expected token, got %v", body)
	}
	if body["redirect"] != "/admin-reset-security?token="+token {
		t.Fatalf("unexpected redirect: %v", body["redirect"])
	}
	if body["security_question"] != "What was your first car?" {
		t.Fatalf("unexpected question: %v", body["security_question"])
	}

	res, body = c.do(http.MethodGet, "/admin-reset-security?token="+token, nil)
	c.expectStatus(res, http.StatusOK)
	if body["security_question"] != "What was your first car?" || body["email"] != "admin@movemate.com" {
		t.Fatalf("unexpected security page: %v", body)
	}

	res, body = c.do(http.MethodPost, "/admin-reset-security?token="+token, map[string]string{"answer": "   "})
	c.expectStatus(res, http.StatusBadRequest)
	if errorFields(body)["answer"] != "Security answer is required" {
		t.Fatalf("unexpected validation: %v", body)
	}

	res, body = c.do(http.MethodPost, "/admin-reset-security?token="+token, map[string]string{"answer": "honda"})
	c.expectStatus(res, http.StatusUnprocessableEntity)
	if errorCode(body) != "incorrect_answer" {
		t.Fatalf("unexpected error: %v", body)
	}

	res, _ = c.do(http.MethodGet, "/admin-reset-password", nil)
	c.expectRedirect(res, "/admin-forgot-password")

	res, body = c.do(http.MethodPost, "/admin-reset-security?token="+token, map[string]string{"answer": "Toyota"})
	c.expectStatus(res, http.StatusOK)
	if body["redirect"] != "/admin-reset-password" || body["message"] != auth.MsgAnswerVerified {
		t.Fatalf("unexpected verify body: %v", body)
	}

	res, _ = c.do(http.MethodGet, "/admin-reset-password", nil)
	c.expectStatus(res, http.StatusOK)

	res, body = c.do(http.MethodPost, "/admin-reset-password", map[string]string{"password": "newpass123", "confirm_password": "newpass124"})
	c.expectStatus(res, http.StatusBadRequest)
	if errorFields(body)["confirm_password"] != "Passwords do not match" {
		t.Fatalf("unexpected validation: %v", body)
	}

	res, body = c.do(http.MethodPost, "/admin-reset-password", map[string]string{"password": "newpass123", "confirm_password": "newpass123"})
	c.expectStatus(res, http.StatusOK)
	if body["redirect"] != "/admin-login" || body["message"] != auth.MsgPasswordReset {
		t.Fatalf("unexpected reset body: %v", body)
	}

	// Reset state is gone once the password has changed.
	res, _ = c.do(http.MethodGet, "/admin-reset-password", nil)
	c.expectRedirect(res, "/admin-forgot-password")

	res, _ = c.do(http.MethodPost, "/admin-login", map[string]string{"email": "admin@movemate.com", "password": "admin123"})
	c.expectStatus(res, http.StatusUnauthorized)
	res, _ = c.do(http.MethodPost, "/admin-login", map[string]string{"email": "admin@movemate.com", "password": "newpass123"})
	c.expectStatus(res, http.StatusOK)
}

func TestResetWithSupersededToken(t *testing.T) {
	env := newTestServer(t, nil)
	c := env.client(t)

	_, body := c.do(http.MethodPost, "/admin-forgot-password", map[string]string{"email": "sarah@movemate.com"})
	first, _ := body["token"].(string)
	res, _ := c.do(http.MethodPost, "/admin-reset-security?token="+first, map[string]string{"answer": "chicago"})
	c.expectStatus(res, http.StatusOK)

	// A second request from another browser replaces the ticket.
	other := env.client(t)
	res, _ = other.do(http.MethodPost, "/admin-forgot-password", map[string]string{"email": "sarah@movemate.com"})
	other.expectStatus(res, http.StatusOK)

	res, body = c.do(http.MethodPost, "/admin-reset-password", map[string]string{"password": "abcdef", "confirm_password": "abcdef"})
	c.expectStatus(res, http.StatusBadRequest)
	if errorCode(body) != "invalid_token" {
		t.Fatalf("unexpected error: %v", body)
	}

	res, _ = c.do(http.MethodGet, "/admin-reset-password", nil)
	c.expectRedirect(res, "/admin-forgot-password")
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestServer(t, nil)
	c := env.client(t)

	res, _ := c.do(http.MethodPost, "/admin-login", map[string]string{"email": "sarah@movemate.com", "password": "sarah123"})
	c.expectStatus(res, http.StatusOK)

	res, err := c.c.Get(env.hs.URL + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer res.Body.Close()
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), `movemate_admin_logins_total{result="success"} 1`) {
		t.Fatalf("login counter missing from metrics output:\n%s", b)
	}
}

func TestSweepSessions(t *testing.T) {
	env := newTestServer(t, nil)
	c := env.client(t)

	res, _ := c.do(http.MethodGet, "/admin-login", nil)
	c.expectStatus(res, http.StatusOK)
	if n := env.srv.sessions.Len(); n != 1 {
		t.Fatalf("expected 1 cached session, got %d", n)
	}

	if n := env.srv.SweepSessions(time.Hour); n != 0 {
		t.Fatalf("expected nothing swept, got %d", n)
	}
	if n := env.srv.SweepSessions(-time.Second); n != 1 {
		t.Fatalf("expected 1 swept, got %d", n)
	}
}

func TestLoginRejectsShortPassword(t *testing.T) {
	env := newTestServer(t, nil)
	c := env.client(t)

	res, body := c.do(http.MethodPost, "/admin-login", map[string]string{"email": "admin@movemate.com", "password": "admin"})
	c.expectStatus(res, http.StatusBadRequest)
	if errorFields(body)["password"] != "Password must be at least 6 characters" {
		t.Fatalf("unexpected validation: %v", body)
	}

	res, _ = c.do(http.MethodGet, "/admin/me", nil)
	c.expectRedirect(res, "/admin-login")
}

func TestSecurityStepRejectsTokenOfAnotherAccount(t *testing.T) {
	env := newTestServer(t, nil)
	c := env.client(t)

	res, body := c.do(http.MethodPost, "/admin-forgot-password", map[string]string{"email": "admin@movemate.com"})
	c.expectStatus(res, http.StatusOK)
	adminToken, _ := body["token"].(string)

	res, body = c.do(http.MethodPost, "/admin-forgot-password", map[string]string{"email": "sarah@movemate.com"})
	c.expectStatus(res, http.StatusOK)
	sarahToken, _ := body["token"].(string)

	res, body = c.do(http.MethodPost, "/admin-reset-security?token="+adminToken, map[string]string{"answer": "chicago"})
	c.expectStatus(res, http.StatusBadRequest)
	if errorCode(body) != "invalid_token" {
		t.Fatalf("unexpected error: %v", body)
	}

	res, body = c.do(http.MethodPost, "/admin-reset-security", map[string]string{"token": adminToken, "answer": "chicago"})
	c.expectStatus(res, http.StatusBadRequest)
	if errorCode(body) != "invalid_token" {
		t.Fatalf("unexpected error: %v", body)
	}

	// Nothing was verified, so the final step is still closed.
	res, _ = c.do(http.MethodPost, "/admin-reset-password", map[string]string{"password": "hijack1", "confirm_password": "hijack1"})
	c.expectRedirect(res, "/admin-forgot-password")

	res, _ = c.do(http.MethodPost, "/admin-login", map[string]string{"email": "admin@movemate.com", "password": "admin123"})
	c.expectStatus(res, http.StatusOK)
	res, _ = c.do(http.MethodPost, "/admin-logout", nil)
	c.expectStatus(res, http.StatusOK)

	// The account's own token still works.
	res, _ = c.do(http.MethodPost, "/admin-reset-security?token="+sarahToken, map[string]string{"answer": "chicago"})
	c.expectStatus(res, http.StatusOK)
	res, _ = c.do(http.MethodPost, "/admin-reset-password", map[string]string{"password": "sarah456", "confirm_password": "sarah456"})
	c.expectStatus(res, http.StatusOK)
	res, _ = c.do(http.MethodPost, "/admin-login", map[string]string{"email": "sarah@movemate.com", "password": "sarah456"})
	c.expectStatus(res, http.StatusOK)
}

func TestSecurityPageRedirectsForUnknownAccount(t *testing.T) {
	env := newTestServer(t, nil)
	c := env.client(t)

	res, _ := c.do(http.MethodGet, "/admin-forgot-password", nil)
	c.expectStatus(res, http.StatusOK)

	tab := env.storage.Tab(env.clientID(c))
	if err := tab.Set(context.Background(), session.KeyResetEmail, "ghost@movemate.com"); err != nil {
		t.Fatalf("set reset email: %v", err)
	}

	res, _ = c.do(http.MethodGet, "/admin-reset-security?token=abc", nil)
	c.expectRedirect(res, "/admin-forgot-password")
}

func TestCORSIsOffByDefault(t *testing.T) {
	preflight := func(env *testEnv, origin string) *http.Response {
		req, err := http.NewRequest(http.MethodOptions, env.hs.URL+"/admin-login", nil)
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		res, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("preflight: %v", err)
		}
		res.Body.Close()
		return res
	}

	def := newTestServer(t, nil)
	if got := preflight(def, "https://evil.test").Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no CORS headers by default, got %q", got)
	}

	env := newTestServerWithConfig(t, config.Config{
		JWTSecret:   "test-secret",
		CORSOrigins: []string{"https://admin.movemate.test"},
	}, nil)

	res := preflight(env, "https://admin.movemate.test")
	if got := res.Header.Get("Access-Control-Allow-Origin"); got != "https://admin.movemate.test" {
		t.Fatalf("expected configured origin to be allowed, got %q", got)
	}
	if res.Header.Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatalf("expected credentials for a listed origin")
	}
	if got := preflight(env, "https://evil.test").Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected unlisted origin to be refused, got %q", got)
	}
}
