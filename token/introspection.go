package token

import (
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Introspection is what the client can read from an access token without the signing key.
// The backend remains the only authority on validity.
type Introspection struct {
	UserID    int64     // user_id claim
	TenantID  int64     // tenant_id claim, 0 when the token is not tenant-scoped
	Email     string    // email claim
	Name      string    // name claim
	TokenType string    // token_type claim ("access" or "refresh")
	JTI       string    // jti claim
	IssuedAt  time.Time // iat claim
	ExpiresAt time.Time // exp claim, zero when absent
}

// Expired reports whether exp has passed, allowing leeway for clock skew.
// A token without exp never expires from the client's point of view.
func (i *Introspection) Expired(leeway time.Duration) bool {
	if i == nil || i.ExpiresAt.IsZero() {
		return false
	}
	return !NowTimeFunc().Add(leeway).Before(i.ExpiresAt)
}

// Inspect decodes rawToken's claims without verifying the signature.
func Inspect(rawToken string) (*Introspection, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, errors.New("empty token")
	}

	unverifiedToken, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return nil, err
	}

	claims, ok := unverifiedToken.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.New("error extracting claims")
	}

	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	tokenType, _ := claims["token_type"].(string)
	jti, _ := claims["jti"].(string)

	i := &Introspection{
		UserID:    numericClaim(claims["user_id"]),
		TenantID:  numericClaim(claims["tenant_id"]),
		Email:     email,
		Name:      name,
		TokenType: tokenType,
		JTI:       jti,
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		i.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		i.IssuedAt = iat.Time
	}
	return i, nil
}

// numericClaim accepts ids encoded as JSON numbers or numeric strings.
func numericClaim(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case string:
		var id int64
		for _, r := range n {
			if r < '0' || r > '9' {
				return 0
			}
			id = id*10 + int64(r-'0')
		}
		return id
	default:
		return 0
	}
}
