package client

import (
	"context"
	"time"

	"github.com/jrsteele09/go-tms-client/internal/errors"
	"github.com/jrsteele09/go-tms-client/token"
	"golang.org/x/oauth2"
)

// expiryLeeway refreshes slightly early so a token does not expire in flight.
const expiryLeeway = 30 * time.Second

type sessionTokenSource struct {
	ctx    context.Context
	client *Client
}

// TokenSource exposes the session's access token as an oauth2.TokenSource, for handing the
// session to code that speaks golang.org/x/oauth2. A token whose exp claim has passed is
// refreshed once before being returned.
func (c *Client) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &sessionTokenSource{ctx: ctx, client: c}
}

func (s *sessionTokenSource) Token() (*oauth2.Token, error) {
	access := s.client.store.Session().AccessToken
	if access == "" {
		return nil, errors.ErrNotAuthenticated
	}

	claims, err := token.Inspect(access)
	if err == nil && claims.Expired(expiryLeeway) {
		if _, _, _, err := s.client.refreshToken(s.ctx); err != nil {
			return nil, err
		}
		if !s.client.RefreshAccess(s.ctx) {
			return nil, errors.ErrRefreshFailed
		}
		access = s.client.store.Session().AccessToken
		claims, err = token.Inspect(access)
	}

	tok := &oauth2.Token{AccessToken: access, TokenType: "Bearer"}
	if err == nil {
		tok.Expiry = claims.ExpiresAt
	}
	return tok, nil
}
