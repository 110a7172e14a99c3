package tenants

import (
	"fmt"
	"strings"
	"time"

	"github.com/jrsteele09/go-tms-client/internal/errors"
	"github.com/jrsteele09/go-tms-client/internal/utils"
)

// Tenant is an isolated organisational namespace managed by the orgs service.
type Tenant struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	OwnerUserID *int64    `json:"owner_user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// Input is the create/update payload for /orgs/api/tenants/.
type Input struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Normalize trims the name and derives the slug from it when none was given.
func (in *Input) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	if in.Slug == "" {
		in.Slug = utils.Slugify(in.Name)
	}
}

func (in Input) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.Required("name")
	}
	if strings.TrimSpace(in.Slug) == "" {
		return errors.Required("slug")
	}
	return nil
}

// NameByID returns the tenant name for id, or "Tenant <id>" when the list does not know it.
func NameByID(list []Tenant, id int64) string {
	for _, t := range list {
		if t.ID == id {
			return t.Name
		}
	}
	return fmt.Sprintf("Tenant %d", id)
}

// SlugTaken reports whether slug (case-insensitive) is already used by a tenant in list.
func SlugTaken(list []Tenant, slug string) bool {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return false
	}
	for _, t := range list {
		if strings.ToLower(t.Slug) == slug {
			return true
		}
	}
	return false
}

// Find returns the tenant with id.
func Find(list []Tenant, id int64) (Tenant, bool) {
	for _, t := range list {
		if t.ID == id {
			return t, true
		}
	}
	return Tenant{}, false
}

// Invitation invites an email address into a tenant.
type Invitation struct {
	ID        int64      `json:"id,omitempty"`
	TenantID  int64      `json:"tenant"`
	Email     string     `json:"email"`
	RoleID    *int64     `json:"role,omitempty"`
	Status    string     `json:"status,omitempty"`
	CreatedAt time.Time  `json:"created_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func (inv Invitation) Validate() error {
	if inv.TenantID == 0 {
		return errors.Required("tenant")
	}
	if strings.TrimSpace(inv.Email) == "" {
		return errors.Required("email")
	}
	return nil
}
