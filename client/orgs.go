package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-tms-client/internal/errors"
	"github.com/jrsteele09/go-tms-client/tenants"
)

const (
	PathTenants     = "/orgs/api/tenants/"
	PathMemberships = "/orgs/api/memberships/"
	PathInvitations = "/orgs/api/invitations/"
)

// MembershipFilter narrows ListMemberships. Zero fields are not sent.
type MembershipFilter struct {
	UserID   int64
	TenantID int64
}

func (c *Client) ListTenants(ctx context.Context) ([]tenants.Tenant, error) {
	return listAll[tenants.Tenant](ctx, c, PathTenants)
}

// CreateTenant validates in (deriving the slug from the name if needed) and creates it.
func (c *Client) CreateTenant(ctx context.Context, in tenants.Input) (tenants.Tenant, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return tenants.Tenant{}, err
	}
	var created tenants.Tenant
	if err := c.Request(ctx, http.MethodPost, PathTenants, in, &created); err != nil {
		return tenants.Tenant{}, err
	}
	return created, nil
}

// UpdateTenant patches the tenant's name and slug.
func (c *Client) UpdateTenant(ctx context.Context, tenantID int64, in tenants.Input) (tenants.Tenant, error) {
	if tenantID == 0 {
		return tenants.Tenant{}, errors.Required("tenant")
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		return tenants.Tenant{}, err
	}
	var updated tenants.Tenant
	if err := c.Request(ctx, http.MethodPatch, fmt.Sprintf("%s%d/", PathTenants, tenantID), in, &updated); err != nil {
		return tenants.Tenant{}, err
	}
	return updated, nil
}

func (c *Client) ListMemberships(ctx context.Context, filter MembershipFilter) ([]tenants.Membership, error) {
	return listAll[tenants.Membership](ctx, c, withQuery(PathMemberships, map[string]int64{
		"user_id": filter.UserID,
		"tenant":  filter.TenantID,
	}))
}

func (c *Client) DeleteMembership(ctx context.Context, membershipID int64) error {
	if membershipID == 0 {
		return errors.Required("membership")
	}
	return c.Request(ctx, http.MethodDelete, fmt.Sprintf("%s%d/", PathMemberships, membershipID), nil, nil)
}

func (c *Client) CreateInvitation(ctx context.Context, inv tenants.Invitation) (tenants.Invitation, error) {
	if err := inv.Validate(); err != nil {
		return tenants.Invitation{}, err
	}
	var created tenants.Invitation
	if err := c.Request(ctx, http.MethodPost, PathInvitations, inv, &created); err != nil {
		return tenants.Invitation{}, err
	}
	return created, nil
}
