package client

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-tms-client/internal/errors"
	"github.com/jrsteele09/go-tms-client/sessions"
	"github.com/jrsteele09/go-tms-client/users"
)

const (
	PathToken        = "/auth/api/auth/token"
	PathTokenRefresh = "/auth/api/auth/token/refresh"
	PathRegister     = "/auth/api/auth/register"
	PathMe           = "/auth/api/auth/me"
	PathSwitchTenant = "/auth/api/auth/switch-tenant"
)

// TokenPair is the credential exchange response. Refresh is empty when the backend does
// not rotate it.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TenantID int64  `json:"tenant_id,omitempty"`
}

// Login exchanges credentials for tokens and stores them with tenantID (0 for none).
func (c *Client) Login(ctx context.Context, username, password string, tenantID int64) (TokenPair, error) {
	var pair TokenPair
	err := c.Request(ctx, http.MethodPost, PathToken, loginRequest{
		Username: username,
		Password: password,
		TenantID: tenantID,
	}, &pair)
	if err != nil {
		return TokenPair{}, err
	}
	if pair.Access == "" {
		return TokenPair{}, errors.Wrapf(errors.ErrNotAuthenticated, "[Login] token response without access token")
	}

	if err := c.store.SetAuth(ctx, pair.Access, tenantID, pair.Refresh); err != nil {
		c.log.Warn().Err(err).Msg("login succeeded but the session was not persisted")
	}
	return pair, nil
}

// refreshToken picks the refresh token to spend. The persisted one wins because another
// process sharing the session may have rotated it.
func (c *Client) refreshToken(ctx context.Context) (persisted, current sessions.Session, refresh string, err error) {
	persisted, err = c.store.Persisted(ctx)
	if err != nil && !errors.Is(err, errors.ErrNotFound) {
		c.log.Debug().Err(err).Msg("refresh: persisted session unreadable, using in-memory token")
	}
	current = c.store.Session()

	refresh = persisted.RefreshToken
	if refresh == "" {
		refresh = current.RefreshToken
	}
	if refresh == "" {
		return persisted, current, "", errors.ErrNoRefreshToken
	}
	return persisted, current, refresh, nil
}

// RefreshAccess trades the stored refresh token for a new access token. It reports success
// and never returns an error: every failure is logged and yields false.
func (c *Client) RefreshAccess(ctx context.Context) bool {
	persisted, current, refresh, err := c.refreshToken(ctx)
	if err != nil {
		c.log.Debug().Err(err).Msg("refresh: skipped")
		return false
	}

	target, err := c.resolve(PathTokenRefresh)
	if err != nil {
		c.log.Debug().Err(err).Msg("refresh: bad endpoint")
		return false
	}
	payload, err := encodeBody(map[string]string{"refresh": refresh})
	if err != nil {
		return false
	}
	headers := http.Header{}
	headers.Set(HeaderContentType, contentTypeJSON)

	resp, err := c.send(ctx, uuid.NewString(), http.MethodPost, target, payload, headers)
	if err != nil {
		c.log.Debug().Err(err).Msg("refresh: transport failure")
		return false
	}
	if resp.status < 200 || resp.status > 299 {
		c.log.Debug().Int("status", resp.status).Msg("refresh: rejected")
		return false
	}

	var pair TokenPair
	if err := decodeBody(resp.body, &pair); err != nil || pair.Access == "" {
		c.log.Debug().Err(err).Msg("refresh: response without access token")
		return false
	}

	tenantID := current.TenantID
	if tenantID == 0 {
		tenantID = persisted.TenantID
	}
	if pair.Refresh != "" {
		refresh = pair.Refresh
	}
	if err := c.store.SetAuth(ctx, pair.Access, tenantID, refresh); err != nil {
		c.log.Debug().Err(err).Msg("refresh: new token kept in memory only")
	}
	return true
}

// SwitchTenant re-scopes the access token to tenantID. The refresh token is kept.
func (c *Client) SwitchTenant(ctx context.Context, tenantID int64) (TokenPair, error) {
	var pair TokenPair
	if err := c.Request(ctx, http.MethodPost, PathSwitchTenant, map[string]int64{"tenant_id": tenantID}, &pair); err != nil {
		return TokenPair{}, err
	}
	if pair.Access != "" {
		if err := c.store.SetAuth(ctx, pair.Access, tenantID, ""); err != nil {
			c.log.Warn().Err(err).Int64("tenant_id", tenantID).Msg("tenant switched but the session was not persisted")
		}
	}
	return pair, nil
}

// Register creates an account. It does not log the new user in.
func (c *Client) Register(ctx context.Context, req users.RegisterRequest) (users.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return users.User{}, err
	}
	var created users.User
	if err := c.Request(ctx, http.MethodPost, PathRegister, req, &created); err != nil {
		return users.User{}, err
	}
	return created, nil
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (users.User, error) {
	var me users.User
	if err := c.Request(ctx, http.MethodGet, PathMe, nil, &me); err != nil {
		return users.User{}, err
	}
	return me, nil
}
