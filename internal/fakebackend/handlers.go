package fakebackend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-tms-client/tenants"
	"github.com/jrsteele09/go-tms-client/tms"
	"github.com/jrsteele09/go-tms-client/users"
)

func withPrincipal(ctx context.Context, p principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func principalFrom(r *http.Request) principal {
	p, _ := r.Context().Value(ctxKey{}).(principal)
	return p
}

// readBody reads the request body and puts it back for the next handler.
func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	data, err := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(data))
	return data, err
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return false
	}
	return true
}

func fieldError(w http.ResponseWriter, field, message string) {
	writeJSON(w, http.StatusBadRequest, map[string][]string{field: {message}})
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id
}

// --- auth service ---

func (b *Backend) handleToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		TenantID int64  `json:"tenant_id"`
	}
	if !decode(w, r, &req) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	acc, ok := b.accounts[strings.ToLower(req.Username)]
	if !ok || acc.password != req.Password {
		writeDetail(w, http.StatusUnauthorized, "No active account found with the given credentials")
		return
	}
	if req.TenantID != 0 && !b.isMember(acc.user.ID, req.TenantID) {
		writeDetail(w, http.StatusForbidden, "Not a member of this tenant")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"access":  b.mintAccess(acc.user.ID, req.TenantID),
		"refresh": b.mintRefresh(acc.user.ID),
	})
}

func (b *Backend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if !decode(w, r, &req) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	claims, ok := b.parse(req.Refresh, "refresh")
	if !ok || !b.activeRefresh[req.Refresh] {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "Token is invalid or expired",
			"code":   "token_not_valid",
		})
		return
	}
	userID := claimID(claims["user_id"])
	resp := map[string]string{"access": b.mintAccess(userID, 0)}
	if b.rotateRefresh {
		delete(b.activeRefresh, req.Refresh)
		resp["refresh"] = b.mintRefresh(userID)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req users.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Email == "" {
		fieldError(w, "email", "This field is required.")
		return
	}
	if req.Password == "" {
		fieldError(w, "password", "This field is required.")
		return
	}

	b.mu.Lock()
	_, taken := b.accounts[strings.ToLower(req.Email)]
	b.mu.Unlock()
	if taken {
		fieldError(w, "email", "A user with that email already exists.")
		return
	}
	created := b.AddUser(users.User{
		Email:     req.Email,
		Username:  req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}, req.Password)
	writeJSON(w, http.StatusCreated, created)
}

func (b *Backend) handleMe(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r)
	b.mu.Lock()
	acc := b.accountByID(p.userID)
	b.mu.Unlock()
	if acc == nil {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, acc.user)
}

func (b *Backend) handleSwitchTenant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TenantID int64 `json:"tenant_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	p := principalFrom(r)

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.isMember(p.userID, req.TenantID) {
		writeDetail(w, http.StatusForbidden, "Not a member of this tenant")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access": b.mintAccess(p.userID, req.TenantID)})
}

// isMember reports whether userID belongs to tenantID. The caller holds b.mu.
func (b *Backend) isMember(userID, tenantID int64) bool {
	_, ok := b.membership(userID, tenantID)
	return ok
}

func (b *Backend) membership(userID, tenantID int64) (tenants.Membership, bool) {
	for _, m := range b.memberships {
		if m.UserID == userID && m.TenantID == tenantID {
			return m, true
		}
	}
	return tenants.Membership{}, false
}

// --- orgs service ---

func (b *Backend) handleListTenants(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r)
	b.mu.Lock()
	var out []tenants.Tenant
	for _, t := range b.tenants {
		if b.isMember(p.userID, t.ID) {
			out = append(out, t)
		}
	}
	b.mu.Unlock()
	writeList(b, w, r, out)
}

func (b *Backend) handleCreateTenant(w http.ResponseWriter, r *http.Request) {
	var in tenants.Input
	if !decode(w, r, &in) {
		return
	}
	if in.Name == "" {
		fieldError(w, "name", "This field is required.")
		return
	}
	p := principalFrom(r)

	b.mu.Lock()
	if tenants.SlugTaken(b.tenants, in.Slug) {
		b.mu.Unlock()
		fieldError(w, "slug", "tenant with this slug already exists.")
		return
	}
	owner := p.userID
	t := tenants.Tenant{ID: b.newID(), Name: in.Name, Slug: in.Slug, OwnerUserID: &owner, CreatedAt: b.now()}
	b.tenants = append(b.tenants, t)
	b.memberships = append(b.memberships, tenants.Membership{
		ID: b.newID(), TenantID: t.ID, UserID: p.userID, RoleKey: tenants.RoleOwner, CreatedAt: b.now(),
	})
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, t)
}

func (b *Backend) handleUpdateTenant(w http.ResponseWriter, r *http.Request) {
	var in tenants.Input
	if !decode(w, r, &in) {
		return
	}
	id := pathID(r)
	p := principalFrom(r)

	b.mu.Lock()
	defer b.mu.Unlock()
	m, ok := b.membership(p.userID, id)
	if !ok || !m.CanManage() {
		writeDetail(w, http.StatusForbidden, "You do not have permission to perform this action.")
		return
	}
	for i := range b.tenants {
		if b.tenants[i].ID != id {
			continue
		}
		if in.Name != "" {
			b.tenants[i].Name = in.Name
		}
		if in.Slug != "" {
			b.tenants[i].Slug = in.Slug
		}
		b.tenants[i].UpdatedAt = b.now()
		writeJSON(w, http.StatusOK, b.tenants[i])
		return
	}
	writeDetail(w, http.StatusNotFound, "Not found.")
}

func (b *Backend) handleListMemberships(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID, _ := strconv.ParseInt(q.Get("user_id"), 10, 64)
	tenantID, _ := strconv.ParseInt(q.Get("tenant"), 10, 64)

	b.mu.Lock()
	var out []tenants.Membership
	for _, m := range b.memberships {
		if (userID == 0 || m.UserID == userID) && (tenantID == 0 || m.TenantID == tenantID) {
			out = append(out, m)
		}
	}
	b.mu.Unlock()
	writeList(b, w, r, out)
}

func (b *Backend) handleDeleteMembership(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, m := range b.memberships {
		if m.ID == id {
			b.memberships = append(b.memberships[:i], b.memberships[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Not found.")
}

func (b *Backend) handleCreateInvitation(w http.ResponseWriter, r *http.Request) {
	var inv tenants.Invitation
	if !decode(w, r, &inv) {
		return
	}
	if inv.Email == "" {
		fieldError(w, "email", "This field is required.")
		return
	}
	b.mu.Lock()
	inv.ID = b.newID()
	inv.Status = "pending"
	inv.CreatedAt = b.now()
	b.invitations = append(b.invitations, inv)
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, inv)
}

// --- tms service ---

func tenantOf(r *http.Request) int64 {
	id, _ := strconv.ParseInt(r.Header.Get(tenantHeader), 10, 64)
	return id
}

func (b *Backend) handleListProjects(w http.ResponseWriter, r *http.Request) {
	tenantID := tenantOf(r)
	b.mu.Lock()
	var out []tms.Project
	for _, p := range b.projects {
		if p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	b.mu.Unlock()
	writeList(b, w, r, out)
}

func (b *Backend) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var in tms.NewProject
	if !decode(w, r, &in) {
		return
	}
	if in.Key == "" {
		fieldError(w, "key", "This field is required.")
		return
	}
	b.mu.Lock()
	p := tms.Project{ID: b.newID(), TenantID: tenantOf(r), Key: in.Key, Name: in.Name, Description: in.Description, CreatedAt: b.now()}
	b.projects = append(b.projects, p)
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, p)
}

func (b *Backend) handleCreateSection(w http.ResponseWriter, r *http.Request) {
	var in tms.NewSection
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	s := tms.Section{ID: b.newID(), ProjectID: in.ProjectID, ParentID: in.ParentID, Name: in.Name, Description: in.Description, CreatedAt: b.now()}
	b.sections = append(b.sections, s)
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, s)
}

func (b *Backend) handleCreateTestCase(w http.ResponseWriter, r *http.Request) {
	var in tms.NewTestCase
	if !decode(w, r, &in) {
		return
	}
	status := in.Status
	if status == "" {
		status = tms.CaseStatusDraft
	}
	b.mu.Lock()
	tc := tms.TestCase{
		ID: b.newID(), ProjectID: in.ProjectID, SectionID: in.SectionID, Title: in.Title,
		Description: in.Description, Steps: in.Steps, Tags: in.Tags, Status: status, Version: 1, CreatedAt: b.now(),
	}
	b.testCases = append(b.testCases, tc)
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, tc)
}

func (b *Backend) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var in tms.NewPlan
	if !decode(w, r, &in) {
		return
	}
	creator := principalFrom(r).userID
	b.mu.Lock()
	p := tms.Plan{ID: b.newID(), ProjectID: in.ProjectID, Name: in.Name, Description: in.Description, ReleaseID: in.ReleaseID, CreatedByUserID: &creator, CreatedAt: b.now()}
	b.plans = append(b.plans, p)
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, p)
}

func (b *Backend) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	var in tms.PlanUpdate
	if !decode(w, r, &in) {
		return
	}
	id := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.plans {
		if b.plans[i].ID != id {
			continue
		}
		if in.Name != nil {
			b.plans[i].Name = *in.Name
		}
		if in.Description != nil {
			b.plans[i].Description = *in.Description
		}
		if in.ReleaseID != nil {
			b.plans[i].ReleaseID = in.ReleaseID
		}
		b.plans[i].UpdatedAt = b.now()
		writeJSON(w, http.StatusOK, b.plans[i])
		return
	}
	writeDetail(w, http.StatusNotFound, "Not found.")
}

func (b *Backend) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var in tms.NewRun
	if !decode(w, r, &in) {
		return
	}
	creator := principalFrom(r).userID
	b.mu.Lock()
	run := tms.Run{
		ID: b.newID(), ProjectID: in.ProjectID, PlanID: in.PlanID, Name: in.Name, Status: tms.RunStatusPlanned,
		ScheduledAt: in.ScheduledAt, CreatedByUserID: &creator, CreatedAt: b.now(),
	}
	b.runs = append(b.runs, run)
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, run)
}

func (b *Backend) handleCreateRelease(w http.ResponseWriter, r *http.Request) {
	var in tms.NewRelease
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	rel := tms.Release{ID: b.newID(), ProjectID: in.ProjectID, Name: in.Name, Version: in.Version, DueDate: in.DueDate, CreatedAt: b.now()}
	b.releases = append(b.releases, rel)
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, rel)
}
