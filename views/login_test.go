package views_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jrsteele09/go-tms-client/authctx"
	"github.com/jrsteele09/go-tms-client/client"
	"github.com/jrsteele09/go-tms-client/internal/utils"
	"github.com/jrsteele09/go-tms-client/sessions"
	"github.com/jrsteele09/go-tms-client/users"
	"github.com/jrsteele09/go-tms-client/views"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestLoginView_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("remembered", func(t *testing.T) {
		f := setupViews(t)
		f.prefs.EXPECT().LoginPrefs(gomock.Any()).
			Return(sessions.LoginPrefs{Remember: true, Email: "ada@example.com", TenantID: utils.Ptr(betaID)}, nil)

		form := views.NewLoginView(f.auth, f.registrar, f.prefs).Load(ctx)
		require.Equal(t, views.LoginForm{Username: "ada@example.com", TenantID: betaID, Remember: true}, form)
	})

	t.Run("unreadable", func(t *testing.T) {
		f := setupViews(t)
		f.prefs.EXPECT().LoginPrefs(gomock.Any()).Return(sessions.LoginPrefs{}, errors.New("corrupt"))

		form := views.NewLoginView(f.auth, f.registrar, f.prefs).Load(ctx)
		require.Equal(t, views.LoginForm{Remember: true}, form)
	})
}

func TestLoginView_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("remembers the form", func(t *testing.T) {
		f := setupViews(t)
		f.auth.CurrentState = authctx.StateAnonymous
		f.prefs.EXPECT().SaveLoginPrefs(gomock.Any(), sessions.LoginPrefs{
			Remember: true,
			Email:    "ada@example.com",
			TenantID: utils.Ptr(betaID),
		}).Return(nil)

		status := views.NewLoginView(f.auth, f.registrar, f.prefs).
			Submit(ctx, views.LoginForm{Username: " ada@example.com ", Password: "pw", TenantID: betaID, Remember: true})

		require.Equal(t, views.Success("Signed in as Ada Lovelace (Beta)"), status)
		require.Equal(t, authctx.StateAuthenticated, f.auth.State())
		require.Len(t, f.auth.LoginCalls, 1)
		require.Equal(t, "ada@example.com", f.auth.LoginCalls[0].Username)
	})

	t.Run("forgets the form", func(t *testing.T) {
		f := setupViews(t)
		f.prefs.EXPECT().SaveLoginPrefs(gomock.Any(), sessions.LoginPrefs{Remember: false}).Return(nil)

		status := views.NewLoginView(f.auth, f.registrar, f.prefs).
			Submit(ctx, views.LoginForm{Username: "ada@example.com", Password: "pw"})

		require.Equal(t, views.StatusSuccess, status.Kind)
		require.Equal(t, acmeID, f.auth.CurrentTenant())
	})

	t.Run("preference failure does not block sign in", func(t *testing.T) {
		f := setupViews(t)
		f.prefs.EXPECT().SaveLoginPrefs(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

		status := views.NewLoginView(f.auth, f.registrar, f.prefs).
			Submit(ctx, views.LoginForm{Username: "ada@example.com", Password: "pw"})
		require.False(t, status.IsError())
	})

	t.Run("backend rejection", func(t *testing.T) {
		f := setupViews(t)
		f.auth.LoginErr = &client.APIError{StatusCode: http.StatusUnauthorized, Message: "No active account found with the given credentials"}
		f.prefs.EXPECT().SaveLoginPrefs(gomock.Any(), gomock.Any()).Return(nil)

		status := views.NewLoginView(f.auth, f.registrar, f.prefs).
			Submit(ctx, views.LoginForm{Username: "ada@example.com", Password: "bad"})

		require.True(t, status.IsError())
		require.Equal(t, "No active account found with the given credentials", status.Message)
		require.Equal(t, authctx.StateAnonymous, f.auth.State())
	})

	for _, tc := range []struct {
		name    string
		form    views.LoginForm
		message string
	}{
		{name: "no username", form: views.LoginForm{Username: "  ", Password: "pw"}, message: "username: required field missing"},
		{name: "no password", form: views.LoginForm{Username: "ada"}, message: "password: required field missing"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := setupViews(t)
			status := views.NewLoginView(f.auth, f.registrar, f.prefs).Submit(ctx, tc.form)
			require.Equal(t, views.Status{Kind: views.StatusError, Message: tc.message}, status)
			require.Empty(t, f.auth.LoginCalls)
		})
	}
}

func TestLoginView_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("created", func(t *testing.T) {
		f := setupViews(t)
		f.registrar.EXPECT().
			Register(gomock.Any(), users.RegisterRequest{Email: "new@example.com", Password: "pw", FirstName: "New"}).
			Return(users.User{ID: 7, Email: "new@example.com"}, nil)

		status := views.NewLoginView(f.auth, f.registrar, f.prefs).
			Register(ctx, users.RegisterRequest{Email: " new@example.com", Password: "pw", FirstName: "New "})
		require.Equal(t, views.Success("Account created for new@example.com, you can sign in now"), status)
		require.Empty(t, f.auth.LoginCalls)
	})

	t.Run("invalid email never reaches the backend", func(t *testing.T) {
		f := setupViews(t)
		status := views.NewLoginView(f.auth, f.registrar, f.prefs).
			Register(ctx, users.RegisterRequest{Email: "not-an-email", Password: "pw"})
		require.True(t, status.IsError())
	})

	t.Run("backend field error", func(t *testing.T) {
		f := setupViews(t)
		f.registrar.EXPECT().Register(gomock.Any(), gomock.Any()).
			Return(users.User{}, &client.APIError{StatusCode: http.StatusBadRequest, Field: "email", Message: "A user with that email already exists."})

		status := views.NewLoginView(f.auth, f.registrar, f.prefs).
			Register(ctx, users.RegisterRequest{Email: "ada@example.com", Password: "pw"})
		require.Equal(t, "email: A user with that email already exists.", status.Message)
	})
}
