package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/jrsteele09/go-tms-client/authctx"
	"github.com/jrsteele09/go-tms-client/client"
	"github.com/jrsteele09/go-tms-client/internal/errors"
	"github.com/jrsteele09/go-tms-client/sessions"
	"github.com/jrsteele09/go-tms-client/tenants"
	pkgerrors "github.com/pkg/errors"
)

// AccountView covers profile preferences and tenant administration.
type AccountView struct {
	base
	auth  authctx.Context
	api   OrgsAPI
	prefs PrefsStore
}

func NewAccountView(auth authctx.Context, api OrgsAPI, prefs PrefsStore, options ...Option) *AccountView {
	return &AccountView{base: newBase(options), auth: auth, api: api, prefs: prefs}
}

// Profile returns the stored preferences, defaulting the display name to the user's.
func (v *AccountView) Profile(ctx context.Context) sessions.ProfilePrefs {
	prefs, err := v.prefs.ProfilePrefs(ctx)
	if err != nil {
		v.log.Debug().Err(err).Msg("profile preferences unavailable")
		prefs = sessions.ProfilePrefs{Theme: sessions.ThemeSystem}
	}
	if prefs.DisplayName == "" {
		if user := v.auth.User(); user != nil {
			prefs.DisplayName = user.DisplayName()
		}
	}
	return prefs
}

// SaveProfile validates and stores prefs. A preferred tenant must be one the user belongs to.
func (v *AccountView) SaveProfile(ctx context.Context, prefs sessions.ProfilePrefs) Status {
	prefs.DisplayName = strings.TrimSpace(prefs.DisplayName)
	if prefs.Theme == "" {
		prefs.Theme = sessions.ThemeSystem
	}
	if err := prefs.Validate(); err != nil {
		return v.fail(err, "save profile")
	}
	if prefs.PreferredTenant != nil {
		if _, ok := tenants.ForTenant(v.auth.Memberships(), *prefs.PreferredTenant); !ok {
			return v.fail(fmt.Errorf("preferred tenant %d: %w", *prefs.PreferredTenant, errors.ErrUnauthorizedTenant), "save profile")
		}
	}
	if err := v.prefs.SaveProfilePrefs(ctx, prefs); err != nil {
		return v.fail(err, "save profile")
	}
	return Success("Profile saved")
}

// Members lists the memberships of tenantID (the active tenant when 0).
func (v *AccountView) Members(ctx context.Context, tenantID int64) ([]tenants.Membership, Status) {
	tenantID, status := v.tenantOrCurrent(tenantID)
	if status.IsError() {
		return nil, status
	}
	members, err := v.api.ListMemberships(ctx, client.MembershipFilter{TenantID: tenantID})
	if err != nil {
		return nil, v.fail(pkgerrors.Wrapf(err, "loading members of tenant %d", tenantID), "members")
	}
	return members, Status{}
}

// UpdateTenant renames a tenant the caller owns or administers.
func (v *AccountView) UpdateTenant(ctx context.Context, tenantID int64, in tenants.Input) Status {
	tenantID, status := v.manageable(tenantID)
	if status.IsError() {
		return status
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		return v.fail(err, "update tenant")
	}
	for _, t := range v.auth.Tenants() {
		if t.ID != tenantID && strings.EqualFold(t.Slug, in.Slug) {
			return v.fail(fmt.Errorf("slug %q: %w", in.Slug, errors.ErrTenantSlugTaken), "update tenant")
		}
	}

	updated, err := v.api.UpdateTenant(ctx, tenantID, in)
	if err != nil {
		return v.fail(err, "update tenant")
	}
	if err := v.auth.RefreshTenants(ctx); err != nil {
		v.log.Warn().Err(err).Msg("tenants not refreshed after update")
	}
	return Success("Tenant %s updated", updated.Name)
}

// Invite sends an invitation into a tenant the caller owns or administers.
func (v *AccountView) Invite(ctx context.Context, tenantID int64, email string, roleID *int64) Status {
	tenantID, status := v.manageable(tenantID)
	if status.IsError() {
		return status
	}
	inv := tenants.Invitation{TenantID: tenantID, Email: strings.TrimSpace(email), RoleID: roleID}
	if err := inv.Validate(); err != nil {
		return v.fail(err, "invite")
	}
	if _, err := v.api.CreateInvitation(ctx, inv); err != nil {
		return v.fail(err, "invite")
	}
	return Success("Invitation sent to %s", inv.Email)
}

// RemoveMember deletes a membership of tenantID. The caller must own or administer the
// tenant and cannot remove themselves.
func (v *AccountView) RemoveMember(ctx context.Context, tenantID, membershipID int64) Status {
	tenantID, status := v.manageable(tenantID)
	if status.IsError() {
		return status
	}

	members, status := v.Members(ctx, tenantID)
	if status.IsError() {
		return status
	}
	var target *tenants.Membership
	for i := range members {
		if members[i].ID == membershipID {
			target = &members[i]
			break
		}
	}
	if target == nil {
		return v.fail(fmt.Errorf("membership %d: %w", membershipID, errors.ErrNotFound), "remove member")
	}
	if user := v.auth.User(); user != nil && target.UserID == user.ID {
		return v.fail(fmt.Errorf("you cannot remove yourself: %w", errors.ErrForbidden), "remove member")
	}

	if err := v.api.DeleteMembership(ctx, membershipID); err != nil {
		return v.fail(err, "remove member")
	}
	if err := v.auth.RefreshMemberships(ctx); err != nil {
		v.log.Warn().Err(err).Msg("memberships not refreshed after removal")
	}
	return Success("Member removed")
}

func (v *AccountView) SwitchTenant(ctx context.Context, tenantID int64) Status {
	if err := v.auth.SwitchTenant(ctx, tenantID); err != nil {
		return v.fail(err, "switch tenant")
	}
	return Success("Switched to %s", v.auth.TenantNameByID(tenantID))
}

func (v *AccountView) tenantOrCurrent(tenantID int64) (int64, Status) {
	if tenantID == 0 {
		tenantID = v.auth.CurrentTenant()
	}
	if tenantID == 0 {
		return 0, v.fail(errors.ErrNoTenant, "tenant")
	}
	return tenantID, Status{}
}

// manageable resolves tenantID and checks the caller is owner or admin there.
func (v *AccountView) manageable(tenantID int64) (int64, Status) {
	tenantID, status := v.tenantOrCurrent(tenantID)
	if status.IsError() {
		return 0, status
	}
	m, ok := tenants.ForTenant(v.auth.Memberships(), tenantID)
	if !ok || !m.CanManage() {
		return 0, v.fail(fmt.Errorf("%s: %w", v.auth.TenantNameByID(tenantID), errors.ErrUnauthorizedTenant), "manage tenant")
	}
	return tenantID, Status{}
}
