package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/content"
	"github.com/Zachkp/folio/gallery"
)

const testProjects = `[
  {"id": "mail", "title": "Mail TUI", "description": "Terminal email client.",
   "technologies": ["Go"], "github": "https://github.com/example/mail"},
  {"id": "music", "title": "Music TUI", "technologies": ["Go", "React"],
   "video": "https://www.youtube.com/watch?v=XYZ", "featured": true},
  null,
  {"id": "shop", "title": "Shop Front", "technologies": ["React"]}
]`

type fakeMailer struct {
	mu   sync.Mutex
	sent []ContactMessage
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type testServer struct {
	*server
	router *gin.Engine
	mailer *fakeMailer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "projects.json"), []byte(testProjects), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := content.NewSource(dir, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	store, err := openStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	key := securecookie.GenerateRandomKey(32)
	mailer := &fakeMailer{}
	s := &server{
		cfg: Config{
			AdminUsername:    "admin",
			AdminPassword:    "secret",
			VisitorRetention: time.Hour,
		},
		log:           zap.NewNop(),
		content:       src,
		galleries:     gallery.NewRegistry(src.Projects, time.Hour, 100),
		store:         store,
		mailer:        mailer,
		cookies:       securecookie.New(key, nil),
		adminSessions: newAdminStore(key, false),
		salt:          "test-salt",
	}
	s.csrf = s.csrfProtect(csrfKey(key), false)
	r, err := s.router()
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	return &testServer{server: s, router: r, mailer: mailer}
}

// client replays cookies between requests like a browser would.
type client struct {
	t       *testing.T
	ts      *testServer
	cookies map[string]*http.Cookie
}

func (ts *testServer) client(t *testing.T) *client {
	return &client{t: t, ts: ts, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("HX-Request", "true")
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	c.ts.router.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return rec
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(http.MethodGet, path, nil)
}

func (c *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return c.do(http.MethodPost, path, form)
}

var csrfInput = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

// formToken loads page and returns the CSRF token of its form.
func (c *client) formToken(page string) string {
	c.t.Helper()
	m := csrfInput.FindStringSubmatch(c.get(page).Body.String())
	if m == nil {
		c.t.Fatalf("no csrf token on %s", page)
	}
	return m[1]
}
