package tenants_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-tms-client/internal/errors"
	"github.com/jrsteele09/go-tms-client/tenants"
	"github.com/stretchr/testify/require"
)

func TestSelectPreferred(t *testing.T) {
	tests := []struct {
		name        string
		memberships []tenants.Membership
		wantTenant  int64
		wantOK      bool
	}{
		{
			name: "owner preferred over earlier member",
			memberships: []tenants.Membership{
				{TenantID: 5, RoleKey: tenants.RoleMember},
				{TenantID: 7, RoleKey: tenants.RoleOwner},
			},
			wantTenant: 7,
			wantOK:     true,
		},
		{
			name: "admin when no owner",
			memberships: []tenants.Membership{
				{TenantID: 3, RoleKey: tenants.RoleMember},
				{TenantID: 9, RoleKey: tenants.RoleAdmin},
			},
			wantTenant: 9,
			wantOK:     true,
		},
		{
			name: "owner beats admin",
			memberships: []tenants.Membership{
				{TenantID: 9, RoleKey: tenants.RoleAdmin},
				{TenantID: 4, RoleKey: tenants.RoleOwner},
			},
			wantTenant: 4,
			wantOK:     true,
		},
		{
			name: "first membership otherwise",
			memberships: []tenants.Membership{
				{TenantID: 11, RoleKey: "viewer"},
				{TenantID: 12, RoleKey: tenants.RoleMember},
			},
			wantTenant: 11,
			wantOK:     true,
		},
		{
			name:   "no memberships",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tenants.SelectPreferred(tt.memberships)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.wantTenant, got.TenantID)
		})
	}
}

func TestMembership_CanManage(t *testing.T) {
	require.True(t, tenants.Membership{RoleKey: tenants.RoleOwner}.CanManage())
	require.True(t, tenants.Membership{RoleKey: tenants.RoleAdmin}.CanManage())
	require.False(t, tenants.Membership{RoleKey: tenants.RoleMember}.CanManage())
}

func TestCache_IsStale(t *testing.T) {
	fetched := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	c := tenants.Cache{FetchedAt: fetched}

	require.False(t, c.IsStale(fetched, tenants.DefaultCacheTTL))
	require.False(t, c.IsStale(fetched.Add(6*time.Hour-time.Nanosecond), tenants.DefaultCacheTTL))
	require.True(t, c.IsStale(fetched.Add(6*time.Hour), tenants.DefaultCacheTTL))
	require.True(t, c.IsStale(fetched.Add(7*time.Hour), tenants.DefaultCacheTTL))

	t.Run("zero ttl falls back to default", func(t *testing.T) {
		require.False(t, c.IsStale(fetched.Add(time.Hour), 0))
	})

	t.Run("unknown fetch time is stale", func(t *testing.T) {
		require.True(t, tenants.Cache{}.IsStale(fetched, tenants.DefaultCacheTTL))
	})
}

func TestInput(t *testing.T) {
	t.Run("slug derived from name", func(t *testing.T) {
		in := tenants.Input{Name: "  Acme QA Team! "}
		in.Normalize()
		require.Equal(t, "Acme QA Team!", in.Name)
		require.Equal(t, "acme-qa-team", in.Slug)
		require.NoError(t, in.Validate())
	})

	t.Run("explicit slug lower-cased", func(t *testing.T) {
		in := tenants.Input{Name: "Acme", Slug: " ACME-Main "}
		in.Normalize()
		require.Equal(t, "acme-main", in.Slug)
	})

	t.Run("name required", func(t *testing.T) {
		err := tenants.Input{Slug: "x"}.Validate()
		require.ErrorIs(t, err, errors.ErrRequiredField)
	})

	t.Run("slug required", func(t *testing.T) {
		in := tenants.Input{Name: "!!!"}
		in.Normalize()
		require.ErrorIs(t, in.Validate(), errors.ErrRequiredField)
	})
}

func TestLookups(t *testing.T) {
	list := []tenants.Tenant{{ID: 1, Name: "Acme", Slug: "acme"}, {ID: 2, Name: "Globex", Slug: "globex"}}

	require.Equal(t, "Globex", tenants.NameByID(list, 2))
	require.Equal(t, "Tenant 42", tenants.NameByID(list, 42))
	require.True(t, tenants.SlugTaken(list, " ACME "))
	require.False(t, tenants.SlugTaken(list, "initech"))
	require.False(t, tenants.SlugTaken(list, ""))

	got, ok := tenants.Find(list, 1)
	require.True(t, ok)
	require.Equal(t, "acme", got.Slug)
}

func TestInvitation_Validate(t *testing.T) {
	require.NoError(t, tenants.Invitation{TenantID: 1, Email: "a@b.com"}.Validate())
	require.ErrorIs(t, tenants.Invitation{Email: "a@b.com"}.Validate(), errors.ErrRequiredField)
	require.ErrorIs(t, tenants.Invitation{TenantID: 1}.Validate(), errors.ErrRequiredField)
}
