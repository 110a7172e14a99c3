// Package fakebackend is an in-process stand-in for the test-management gateway: the auth,
// orgs and tms services behind one chi router on an httptest.Server. Tokens are real HS256
// JWTs so callers can decode their claims.
package fakebackend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-tms-client/tenants"
	"github.com/jrsteele09/go-tms-client/tms"
	"github.com/jrsteele09/go-tms-client/users"
)

// List envelopes the fake can answer with.
const (
	EnvelopeResults = "results"
	EnvelopeData    = "data"
	EnvelopeArray   = "array"
)

const (
	defaultAccessTTL = 15 * time.Minute
	tenantHeader     = "X-Tenant-ID"
)

// Request is a recorded inbound request.
type Request struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

type account struct {
	user     users.User
	password string
}

type scripted struct {
	status int
	body   string
}

// Backend holds the fake's state. All methods are safe for concurrent use.
type Backend struct {
	server *httptest.Server
	secret []byte

	mu            sync.Mutex
	accounts      map[string]*account // by username and email
	tenants       []tenants.Tenant
	memberships   []tenants.Membership
	invitations   []tenants.Invitation
	projects      []tms.Project
	sections      []tms.Section
	testCases     []tms.TestCase
	plans         []tms.Plan
	runs          []tms.Run
	releases      []tms.Release
	activeAccess  map[string]bool // jti -> valid
	activeRefresh map[string]bool // raw token -> valid
	failures      map[string][]scripted
	requests      []Request
	nextID        int64
	accessTTL     time.Duration
	rotateRefresh bool
	pageSize      int
	envelope      string
	now           func() time.Time
}

// New starts a fake gateway that is closed when t finishes.
func New(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		secret:        []byte("fake-backend-secret-" + uuid.NewString()),
		accounts:      map[string]*account{},
		activeAccess:  map[string]bool{},
		activeRefresh: map[string]bool{},
		failures:      map[string][]scripted{},
		nextID:        100,
		accessTTL:     defaultAccessTTL,
		envelope:      EnvelopeResults,
		now:           time.Now,
	}
	b.server = httptest.NewServer(b.routes())
	t.Cleanup(b.server.Close)
	return b
}

// URL is the gateway base address.
func (b *Backend) URL() string {
	return b.server.URL
}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(b.recordMiddleware)
	r.Use(b.scriptedFailureMiddleware)

	r.Route("/auth/api/auth", func(rr chi.Router) {
		rr.Post("/token", b.handleToken)
		rr.Post("/token/refresh", b.handleRefresh)
		rr.Post("/register", b.handleRegister)
		rr.With(b.requireAuth).Get("/me", b.handleMe)
		rr.With(b.requireAuth).Post("/switch-tenant", b.handleSwitchTenant)
	})

	r.Route("/orgs/api", func(rr chi.Router) {
		rr.Use(b.requireAuth)
		rr.Get("/tenants/", b.handleListTenants)
		rr.Post("/tenants/", b.handleCreateTenant)
		rr.Patch("/tenants/{id}/", b.handleUpdateTenant)
		rr.Get("/memberships/", b.handleListMemberships)
		rr.Delete("/memberships/{id}/", b.handleDeleteMembership)
		rr.Post("/invitations/", b.handleCreateInvitation)
	})

	r.Route("/tms/api", func(rr chi.Router) {
		rr.Use(b.requireAuth)
		rr.Use(b.requireTenant)
		rr.Get("/projects/", b.handleListProjects)
		rr.Post("/projects/", b.handleCreateProject)
		rr.Get("/sections/", listByProject(b, func() []tms.Section { return b.sections }, func(s tms.Section) int64 { return s.ProjectID }))
		rr.Post("/sections/", b.handleCreateSection)
		rr.Get("/testcases/", listByProject(b, func() []tms.TestCase { return b.testCases }, func(c tms.TestCase) int64 { return c.ProjectID }))
		rr.Post("/testcases/", b.handleCreateTestCase)
		rr.Get("/plans/", listByProject(b, func() []tms.Plan { return b.plans }, func(p tms.Plan) int64 { return p.ProjectID }))
		rr.Post("/plans/", b.handleCreatePlan)
		rr.Patch("/plans/{id}/", b.handleUpdatePlan)
		rr.Get("/runs/", listByProject(b, func() []tms.Run { return b.runs }, func(r tms.Run) int64 { return r.ProjectID }))
		rr.Post("/runs/", b.handleCreateRun)
		rr.Get("/releases/", listByProject(b, func() []tms.Release { return b.releases }, func(r tms.Release) int64 { return r.ProjectID }))
		rr.Post("/releases/", b.handleCreateRelease)
	})
	return r
}

// --- configuration ---

// SetRotateRefresh makes the refresh endpoint issue a new refresh token and revoke the old one.
func (b *Backend) SetRotateRefresh(rotate bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rotateRefresh = rotate
}

// SetPageSize splits list responses into cursor pages of size n. Zero disables paging.
func (b *Backend) SetPageSize(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pageSize = n
}

// SetEnvelope selects how list responses are wrapped.
func (b *Backend) SetEnvelope(envelope string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.envelope = envelope
}

func (b *Backend) SetAccessTTL(ttl time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accessTTL = ttl
}

// FailNext makes the next request to method+path answer status with body, once per call.
func (b *Backend) FailNext(method, path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := method + " " + path
	b.failures[key] = append(b.failures[key], scripted{status: status, body: body})
}

// ExpireAccessTokens invalidates every access token issued so far.
func (b *Backend) ExpireAccessTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.activeAccess = map[string]bool{}
}

// RevokeRefreshTokens invalidates every refresh token issued so far.
func (b *Backend) RevokeRefreshTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.activeRefresh = map[string]bool{}
}

// --- seeding ---

func (b *Backend) AddUser(u users.User, password string) users.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	if u.ID == 0 {
		u.ID = b.newID()
	}
	if u.Username == "" {
		u.Username = u.Email
	}
	acc := &account{user: u, password: password}
	b.accounts[strings.ToLower(u.Username)] = acc
	if u.Email != "" {
		b.accounts[strings.ToLower(u.Email)] = acc
	}
	return u
}

func (b *Backend) AddTenant(t tenants.Tenant) tenants.Tenant {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t.ID == 0 {
		t.ID = b.newID()
	}
	b.tenants = append(b.tenants, t)
	return t
}

func (b *Backend) AddMembership(m tenants.Membership) tenants.Membership {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m.ID == 0 {
		m.ID = b.newID()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = b.now()
	}
	b.memberships = append(b.memberships, m)
	return m
}

func (b *Backend) AddProject(p tms.Project) tms.Project {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p.ID == 0 {
		p.ID = b.newID()
	}
	b.projects = append(b.projects, p)
	return p
}

// IssueTokens mints a valid access/refresh pair as if the user had logged in.
func (b *Backend) IssueTokens(userID, tenantID int64) (access, refresh string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mintAccess(userID, tenantID), b.mintRefresh(userID)
}

// --- inspection ---

// Calls counts the recorded requests to method+path (query excluded).
func (b *Backend) Calls(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Requests returns a copy of every recorded request in arrival order.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// LastRequest returns the most recent request to method+path.
func (b *Backend) LastRequest(method, path string) (Request, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.requests) - 1; i >= 0; i-- {
		if r := b.requests[i]; r.Method == method && r.Path == path {
			return r, true
		}
	}
	return Request{}, false
}

func (b *Backend) Tenants() []tenants.Tenant {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]tenants.Tenant(nil), b.tenants...)
}

func (b *Backend) Memberships() []tenants.Membership {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]tenants.Membership(nil), b.memberships...)
}

func (b *Backend) Invitations() []tenants.Invitation {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]tenants.Invitation(nil), b.invitations...)
}

// --- tokens ---

func (b *Backend) mintAccess(userID, tenantID int64) string {
	jti := uuid.NewString()
	now := b.now()
	claims := jwtlib.MapClaims{
		"token_type": "access",
		"user_id":    userID,
		"jti":        jti,
		"iat":        now.Unix(),
		"exp":        now.Add(b.accessTTL).Unix(),
	}
	if tenantID != 0 {
		claims["tenant_id"] = tenantID
	}
	if acc := b.accountByID(userID); acc != nil {
		claims["email"] = acc.user.Email
		claims["name"] = acc.user.DisplayName()
	}
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		panic(fmt.Sprintf("fakebackend: sign access token: %v", err))
	}
	b.activeAccess[jti] = true
	return raw
}

func (b *Backend) mintRefresh(userID int64) string {
	claims := jwtlib.MapClaims{
		"token_type": "refresh",
		"user_id":    userID,
		"jti":        uuid.NewString(),
		"exp":        b.now().Add(24 * time.Hour).Unix(),
	}
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		panic(fmt.Sprintf("fakebackend: sign refresh token: %v", err))
	}
	b.activeRefresh[raw] = true
	return raw
}

// parse verifies raw and returns its claims. The caller holds b.mu.
func (b *Backend) parse(raw, tokenType string) (jwtlib.MapClaims, bool) {
	claims := jwtlib.MapClaims{}
	tok, err := jwtlib.ParseWithClaims(raw, claims, func(*jwtlib.Token) (any, error) {
		return b.secret, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return nil, false
	}
	if claims["token_type"] != tokenType {
		return nil, false
	}
	return claims, true
}

func (b *Backend) accountByID(userID int64) *account {
	for _, acc := range b.accounts {
		if acc.user.ID == userID {
			return acc
		}
	}
	return nil
}

func (b *Backend) newID() int64 {
	b.nextID++
	return b.nextID
}

// --- middleware ---

type ctxKey struct{}

type principal struct {
	userID   int64
	tenantID int64
}

func (b *Backend) recordMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := readBody(r)
		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		})
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) scriptedFailureMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		b.mu.Lock()
		queue := b.failures[key]
		var failure *scripted
		if len(queue) > 0 {
			failure = &queue[0]
			b.failures[key] = queue[1:]
		}
		b.mu.Unlock()

		if failure != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(failure.status)
			_, _ = w.Write([]byte(failure.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}
		b.mu.Lock()
		claims, valid := b.parse(raw, "access")
		if valid {
			jti, _ := claims["jti"].(string)
			valid = b.activeAccess[jti]
		}
		b.mu.Unlock()
		if !valid {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"detail": "Given token not valid for any token type",
				"code":   "token_not_valid",
			})
			return
		}
		p := principal{userID: claimID(claims["user_id"]), tenantID: claimID(claims["tenant_id"])}
		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), p)))
	})
}

func (b *Backend) requireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := strconv.ParseInt(r.Header.Get(tenantHeader), 10, 64); err != nil {
			writeDetail(w, http.StatusBadRequest, "X-Tenant-ID header is required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- list rendering ---

// writeList renders items with the configured envelope, paging by ?cursor=<offset>.
func writeList[T any](b *Backend, w http.ResponseWriter, r *http.Request, items []T) {
	b.mu.Lock()
	pageSize, envelope := b.pageSize, b.envelope
	b.mu.Unlock()

	if items == nil {
		items = []T{}
	}
	if envelope == EnvelopeArray {
		writeJSON(w, http.StatusOK, items)
		return
	}

	var next *string
	if pageSize > 0 {
		offset, _ := strconv.Atoi(r.URL.Query().Get("cursor"))
		end := min(offset+pageSize, len(items))
		if offset > len(items) {
			offset = end
		}
		if end < len(items) {
			q := r.URL.Query()
			q.Set("cursor", strconv.Itoa(end))
			link := b.server.URL + r.URL.Path + "?" + q.Encode()
			next = &link
		}
		items = items[offset:end]
	}

	if envelope == EnvelopeData {
		writeJSON(w, http.StatusOK, map[string]any{"data": items})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"next": next, "previous": nil, "results": items})
}

func listByProject[T any](b *Backend, all func() []T, projectOf func(T) int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, _ := strconv.ParseInt(r.URL.Query().Get("project"), 10, 64)
		b.mu.Lock()
		var out []T
		for _, item := range all() {
			if projectID == 0 || projectOf(item) == projectID {
				out = append(out, item)
			}
		}
		b.mu.Unlock()
		writeList(b, w, r, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func claimID(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case json.Number:
		id, _ := n.Int64()
		return id
	}
	return 0
}
