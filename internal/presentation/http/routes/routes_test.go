package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/AtRiskMedia/praxis/internal/application/container"
	"github.com/AtRiskMedia/praxis/internal/domain/demo"
	"github.com/AtRiskMedia/praxis/internal/domain/lead"
	"github.com/AtRiskMedia/praxis/internal/domain/user"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/caching/manager"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/security"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memLeads struct {
	mu      sync.Mutex
	rows    []lead.Submission
	findErr error
}

func (r *memLeads) failReads(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findErr = err
}

func (r *memLeads) Insert(_ context.Context, s *lead.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = security.GenerateULID()
	s.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	r.rows = append(r.rows, *s)
	return nil
}

func (r *memLeads) FindAll(context.Context) ([]lead.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	return append([]lead.Submission(nil), r.rows...), nil
}

func (r *memLeads) FindByID(_ context.Context, id string) (*lead.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			s := r.rows[i]
			return &s, nil
		}
	}
	return nil, lead.ErrNotFound
}

func (r *memLeads) UpdateStatus(_ context.Context, id string, status lead.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows[i].Status = status
			return nil
		}
	}
	return lead.ErrNotFound
}

type memUsers map[string]*user.User

func (m memUsers) FindByEmail(_ context.Context, email string) (*user.User, error) {
	if u, ok := m[user.NormalizeEmail(email)]; ok {
		return u, nil
	}
	return nil, user.ErrNotFound
}

func (m memUsers) Store(_ context.Context, u *user.User) error {
	m[u.Email] = u
	return nil
}

const testPassword = "correct-horse"

type site struct {
	srv   *httptest.Server
	leads *memLeads
}

func newSite(t *testing.T) *site {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logging.NewDiscardLogger()
	hash, err := security.HashPassword(testPassword)
	require.NoError(t, err)
	users := memUsers{}
	for _, email := range []string{"admin@example.it", "visitor@example.it"} {
		users[email] = &user.User{ID: security.GenerateULID(), Email: email, PasswordHash: hash}
	}

	leads := &memLeads{}
	fsys := fstest.MapFS{"document-intake.html": {Data: []byte(`<p id="intake">intake demo</p>`)}}
	app, err := container.NewContainer(container.Dependencies{
		Logger:   logger,
		Leads:    leads,
		Users:    users,
		Sessions: manager.NewSessionManager(stores.NewMemoryProfilingStore(time.Hour, logger), time.Hour, 100, logger),
		Demos: demo.NewCatalog(fsys, demo.Demo{Slug: "document-intake", Profession: "commercialisti",
			Fragment: "document-intake.html", Title: map[string]string{"it": "Raccolta documenti", "en": "Document intake"}}),
	}, container.Settings{
		JWTSecret:     "test-secret",
		AuthTokenTTL:  time.Hour,
		AdminEmails:   []string{"Admin@Example.it"},
		DefaultLocale: "it",
	})
	require.NoError(t, err)

	router, err := SetupRoutes(app)
	require.NoError(t, err)
	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		app.LeadService.Wait()
	})
	return &site{srv: srv, leads: leads}
}

func (s *site) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (s *site) get(t *testing.T, c *http.Client, path string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(s.srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (s *site) send(t *testing.T, c *http.Client, method, path, payload string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, s.srv.URL+path, strings.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (s *site) login(t *testing.T, c *http.Client, email string) {
	t.Helper()
	resp, _ := s.send(t, c, http.MethodPost, "/api/v1/auth/login",
		fmt.Sprintf(`{"email":%q,"password":%q}`, email, testPassword))
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHomeIssuesSessionAndNegotiatesLocale(t *testing.T) {
	s := newSite(t)
	c := s.client(t)

	resp, body := s.get(t, c, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Meno burocrazia")
	var session *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == "praxis_session" {
			session = ck
		}
	}
	require.NotNil(t, session)
	assert.True(t, security.IsULID(session.Value))
	assert.True(t, session.HttpOnly)

	_, body = s.get(t, c, "/?lang=en")
	assert.Contains(t, body, "Less paperwork")

	// remembered through the lang cookie
	_, body = s.get(t, c, "/calcolatore")
	assert.Contains(t, body, "How much time")
}

func TestProfessionPages(t *testing.T) {
	s := newSite(t)
	c := s.client(t)

	resp, body := s.get(t, c, "/professioni/commercialisti")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "40%")

	resp, _ = s.get(t, c, "/professioni/astronauti")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, body = s.send(t, c, http.MethodGet, "/api/v1/profile", "")
	assert.Contains(t, body, `"profession":"commercialisti"`)
}

func TestCalculatorPageAndAPI(t *testing.T) {
	s := newSite(t)
	c := s.client(t)

	_, body := s.get(t, c, "/calcolatore?profession=commercialisti&clients=40&weeklyHours=20")
	assert.Contains(t, body, "8,0")
	assert.Contains(t, body, "1.212")

	resp, body := s.send(t, c, http.MethodPost, "/api/v1/roi?lang=en", `{"profession":"unknown","weeklyHours":20}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var est struct {
		HoursLabel string `json:"hoursLabel"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &est))
	assert.Equal(t, "6.6", est.HoursLabel)

	resp, _ = s.send(t, c, http.MethodPost, "/api/v1/roi", `{"weeklyHours":-3}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDemoAreaRequiresSignIn(t *testing.T) {
	s := newSite(t)
	c := s.client(t)

	resp, _ := s.get(t, c, "/demo")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?next="+url.QueryEscape("/demo"), resp.Header.Get("Location"))

	s.login(t, c, "visitor@example.it")

	resp, body := s.get(t, c, "/demo")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "/demo/document-intake")

	resp, body = s.get(t, c, "/demo/document-intake")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `sandbox="allow-scripts"`)
	assert.Contains(t, body, "&lt;p id=&#34;intake&#34;&gt;")

	resp, _ = s.get(t, c, "/demo/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, body = s.send(t, c, http.MethodGet, "/api/v1/profile", "")
	assert.Contains(t, body, `"demosViewed":["document-intake"]`)
}

func TestLoginFormShowsSingleMessage(t *testing.T) {
	s := newSite(t)
	c := s.client(t)

	resp, err := c.PostForm(s.srv.URL+"/login", url.Values{"email": {"visitor@example.it"}, "password": {"wrong"}, "next": {"/demo"}})
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "Email o password non corretti.")

	resp, err = c.PostForm(s.srv.URL+"/login", url.Values{"email": {"visitor@example.it"}, "password": {testPassword}, "next": {"//evil.example"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/demo", resp.Header.Get("Location"))
}

func TestAdminGates(t *testing.T) {
	s := newSite(t)

	anon := s.client(t)
	resp, _ := s.get(t, anon, "/admin")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/login"))
	resp, _ = s.get(t, anon, "/api/v1/admin/stats")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	visitor := s.client(t)
	s.login(t, visitor, "visitor@example.it")
	resp, _ = s.get(t, visitor, "/admin")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/demo", resp.Header.Get("Location"))
	resp, _ = s.get(t, visitor, "/api/v1/admin/stats")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	admin := s.client(t)
	s.login(t, admin, "admin@example.it")
	resp, _ = s.get(t, admin, "/admin")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminPageHidesStorageErrors(t *testing.T) {
	s := newSite(t)
	admin := s.client(t)
	s.login(t, admin, "admin@example.it")
	s.leads.failReads(errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	resp, body := s.get(t, admin, "/admin")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, "Qualcosa è andato storto")
	assert.NotContains(t, body, "10.0.0.5")

	resp, body = s.get(t, admin, "/admin?lang=en")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, "Something went wrong")
}

func TestContactAPI(t *testing.T) {
	s := newSite(t)
	c := s.client(t)

	resp, body := s.send(t, c, http.MethodPost, "/api/v1/contact", `{"name":"","email":"not-an-email","message":"hi"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.JSONEq(t, `{"error":"validation failed","fields":{"name":"required","email":"email"}}`, body)
	assert.Empty(t, s.leads.rows)

	resp, _ = s.send(t, c, http.MethodPost, "/api/v1/profile/events", `{"type":"profession_selected","profession":"avvocati"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = s.send(t, c, http.MethodPost, "/api/v1/contact", `{"name":" Anna ","email":"anna@example.it","company":"","message":"Salve"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	require.Len(t, s.leads.rows, 1)
	stored := s.leads.rows[0]
	assert.Equal(t, "Anna", stored.Name)
	assert.Nil(t, stored.Company)
	require.NotNil(t, stored.Context)
	assert.Equal(t, "avvocati", stored.Context.Profession)
}

func TestProfileEventsRejectInvalidPayload(t *testing.T) {
	s := newSite(t)
	c := s.client(t)

	resp, _ := s.send(t, c, http.MethodPost, "/api/v1/profile/events", `{"type":"demo_progress","demo":"document-intake","progress":500}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = s.send(t, c, http.MethodPost, "/api/v1/profile/events", `{"type":"demo_viewed","demo":"unknown-demo"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminStatusUpdateAndFeed(t *testing.T) {
	s := newSite(t)
	admin := s.client(t)
	s.login(t, admin, "admin@example.it")

	u, err := url.Parse(s.srv.URL)
	require.NoError(t, err)
	header := http.Header{}
	for _, ck := range admin.Jar.Cookies(u) {
		header.Add("Cookie", ck.String())
	}
	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(s.srv.URL, "http")+"/api/v1/admin/feed", header)
	require.NoError(t, err)
	defer ws.Close()

	// wait until the feed client is registered
	require.Eventually(t, func() bool {
		_, body := s.get(t, admin, "/healthz")
		return strings.Contains(body, `"feedClients":1`)
	}, 2*time.Second, 20*time.Millisecond)

	visitor := s.client(t)
	resp, body := s.send(t, visitor, http.MethodPost, "/api/v1/contact", `{"name":"Marco","email":"marco@example.it","message":"Ciao"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &created))

	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := ws.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), `"type":"lead_created"`)
	assert.Contains(t, string(msg), created.ID)

	resp, _ = s.send(t, admin, http.MethodPut, "/api/v1/admin/submissions/"+created.ID+"/status", `{"status":"won"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = s.send(t, admin, http.MethodPut, "/api/v1/admin/submissions/missing/status", `{"status":"archived"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, body = s.send(t, admin, http.MethodPut, "/api/v1/admin/submissions/"+created.ID+"/status", `{"status":"Contacted"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, fmt.Sprintf(`{"id":%q,"status":"contacted"}`, created.ID), body)

	_, msg, err = ws.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), `"type":"status_updated"`)

	_, body = s.get(t, admin, "/api/v1/admin/submissions?status=contacted")
	assert.Contains(t, body, created.ID)
	_, body = s.get(t, admin, "/api/v1/admin/stats")
	assert.Contains(t, body, `"contacted":1`)
}
