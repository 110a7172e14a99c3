package tenants

import "time"

// Role keys assigned by the orgs service. Tenants may define more; they pass through untouched.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Membership binds a user to a tenant with a role.
type Membership struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant"`
	UserID    int64     `json:"user_id"`
	RoleID    int64     `json:"role,omitempty"`
	RoleKey   string    `json:"role_key"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// CanManage reports whether the role may edit the tenant and its members.
func (m Membership) CanManage() bool {
	return m.RoleKey == RoleOwner || m.RoleKey == RoleAdmin
}

// SelectPreferred picks the tenant to activate when the caller did not request one:
// the first owner membership, else the first admin membership, else the first membership.
func SelectPreferred(memberships []Membership) (Membership, bool) {
	if len(memberships) == 0 {
		return Membership{}, false
	}
	for _, role := range []string{RoleOwner, RoleAdmin} {
		for _, m := range memberships {
			if m.RoleKey == role {
				return m, true
			}
		}
	}
	return memberships[0], true
}

// ForTenant returns the membership held in tenantID.
func ForTenant(memberships []Membership, tenantID int64) (Membership, bool) {
	for _, m := range memberships {
		if m.TenantID == tenantID {
			return m, true
		}
	}
	return Membership{}, false
}
