package views

import (
	"context"
	"strings"

	"github.com/jrsteele09/go-tms-client/authctx"
	"github.com/jrsteele09/go-tms-client/internal/errors"
	"github.com/jrsteele09/go-tms-client/internal/utils"
	"github.com/jrsteele09/go-tms-client/sessions"
	"github.com/jrsteele09/go-tms-client/users"
)

// LoginForm is the sign-in form. TenantID 0 lets the context pick a tenant.
type LoginForm struct {
	Username string
	Password string
	TenantID int64
	Remember bool
}

type LoginView struct {
	base
	auth  authctx.Context
	api   Registrar
	prefs PrefsStore
}

func NewLoginView(auth authctx.Context, api Registrar, prefs PrefsStore, options ...Option) *LoginView {
	return &LoginView{base: newBase(options), auth: auth, api: api, prefs: prefs}
}

// Load pre-fills the form from the remembered preferences. Unreadable preferences give
// an empty form with Remember on.
func (v *LoginView) Load(ctx context.Context) LoginForm {
	prefs, err := v.prefs.LoginPrefs(ctx)
	if err != nil {
		v.log.Debug().Err(err).Msg("login preferences unavailable")
		return LoginForm{Remember: true}
	}
	return LoginForm{
		Username: prefs.Email,
		TenantID: utils.Value(prefs.TenantID),
		Remember: prefs.Remember,
	}
}

// Submit remembers (or forgets) the form and signs in.
func (v *LoginView) Submit(ctx context.Context, form LoginForm) Status {
	form.Username = strings.TrimSpace(form.Username)
	if form.Username == "" {
		return v.fail(errors.Required("username"), "login")
	}
	if form.Password == "" {
		return v.fail(errors.Required("password"), "login")
	}

	prefs := sessions.LoginPrefs{Remember: form.Remember}
	if form.Remember {
		prefs.Email = form.Username
		prefs.TenantID = utils.NonZeroPtr(form.TenantID)
	}
	if err := v.prefs.SaveLoginPrefs(ctx, prefs); err != nil {
		v.log.Debug().Err(err).Msg("login preferences not saved")
	}

	if err := v.auth.Login(ctx, form.Username, form.Password, form.TenantID); err != nil {
		return v.fail(err, "login")
	}

	name := form.Username
	if user := v.auth.User(); user != nil {
		name = user.DisplayName()
	}
	if tenantID := v.auth.CurrentTenant(); tenantID != 0 {
		return Success("Signed in as %s (%s)", name, v.auth.TenantNameByID(tenantID))
	}
	return Success("Signed in as %s", name)
}

// Register creates an account. It does not sign in.
func (v *LoginView) Register(ctx context.Context, req users.RegisterRequest) Status {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return v.fail(err, "register")
	}
	created, err := v.api.Register(ctx, req)
	if err != nil {
		return v.fail(err, "register")
	}
	email := created.Email
	if email == "" {
		email = req.Email
	}
	return Success("Account created for %s, you can sign in now", email)
}
