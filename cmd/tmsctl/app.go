package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-tms-client/authctx"
	"github.com/jrsteele09/go-tms-client/client"
	"github.com/jrsteele09/go-tms-client/internal/config"
	"github.com/jrsteele09/go-tms-client/internal/errors"
	"github.com/jrsteele09/go-tms-client/internal/logging"
	"github.com/jrsteele09/go-tms-client/sessions"
	"github.com/jrsteele09/go-tms-client/sessions/filerepo"
	"github.com/jrsteele09/go-tms-client/sessions/redisrepo"
	"github.com/jrsteele09/go-tms-client/views"
)

type globalFlags struct {
	output  string
	query   string
	profile string
	debug   bool
}

// app holds what every command shares. It is built once per process by setup.
type app struct {
	flags globalFlags

	cfg   config.Config
	log   zerolog.Logger
	store *sessions.Store
	api   *client.Client
	auth  *authctx.Provider

	out     renderer
	errOut  io.Writer
	closers []func()
}

func (a *app) setup(cmd *cobra.Command) error {
	format, err := parseFormat(a.flags.output)
	if err != nil {
		return err
	}
	a.out = renderer{w: cmd.OutOrStdout(), format: format, query: a.flags.query}
	a.errOut = cmd.ErrOrStderr()

	overrides := map[string]string{}
	if a.flags.profile != "" {
		overrides["TMS_PROFILE"] = a.flags.profile
	}
	a.cfg, err = config.Load(overrides)
	if err != nil {
		return err
	}
	a.log = logging.New(a.errOut, a.flags.debug, true)

	repo, err := a.openRepo()
	if err != nil {
		return err
	}
	a.store = sessions.NewStore(repo, sessions.WithLogger(a.log))

	a.api, err = client.New(a.cfg.GetAPIBase(), a.store,
		client.WithLogger(a.log),
		client.WithTimeout(a.cfg.GetHTTPTimeout()),
		client.WithPageLimit(a.cfg.GetPageLimit()),
		client.WithWireLogging(a.flags.debug),
	)
	if err != nil {
		return err
	}

	a.auth, err = authctx.NewProvider(a.api, a.store,
		authctx.WithLogger(a.log),
		authctx.WithTenantCacheTTL(a.cfg.GetTenantCacheTTL()),
	)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, a.auth.Close)

	return a.auth.Bootstrap(cmd.Context())
}

func (a *app) openRepo() (sessions.Repo, error) {
	switch a.cfg.GetSessionBackend() {
	case config.SessionBackendRedis:
		rc := redisrepo.NewClient(a.cfg.GetRedisAddr(), a.cfg.GetRedisPassword(), a.cfg.GetRedisDB())
		a.closers = append(a.closers, func() {
			if err := rc.Close(); err != nil {
				a.log.Debug().Err(err).Msg("redis client close")
			}
		})
		return redisrepo.New(rc, a.cfg.GetRedisPrefix(), a.cfg.GetProfile()), nil
	case config.SessionBackendFile:
		return filerepo.New(a.cfg.GetSessionFile(), filerepo.WithPassphrase(a.cfg.GetSessionPassphrase())), nil
	default:
		return nil, fmt.Errorf("session backend %q: %w", a.cfg.GetSessionBackend(), errors.ErrInvalidRequest)
	}
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *app) requireAuth() error {
	if a.auth.State() != authctx.StateAuthenticated {
		return fmt.Errorf("%w: run `tmsctl login` first", errors.ErrNotAuthenticated)
	}
	return nil
}

func (a *app) requireTenant() error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	if a.auth.CurrentTenant() == 0 {
		return fmt.Errorf("%w: run `tmsctl tenants switch <id>` first", errors.ErrNoTenant)
	}
	return nil
}

// report prints a non-error status to stderr and turns an error status into the command error.
func (a *app) report(status views.Status) error {
	if status.IsError() {
		return statusError{status}
	}
	if !status.Empty() {
		fmt.Fprintln(a.errOut, status.Message)
	}
	return nil
}

func (a *app) viewOptions() []views.Option {
	return []views.Option{views.WithLogger(a.log)}
}

func (a *app) loginView() *views.LoginView {
	return views.NewLoginView(a.auth, a.api, a.store, a.viewOptions()...)
}

func (a *app) dashboardView() *views.DashboardView {
	return views.NewDashboardView(a.auth, a.api, a.viewOptions()...)
}

func (a *app) accountView() *views.AccountView {
	return views.NewAccountView(a.auth, a.api, a.store, a.viewOptions()...)
}

type statusError struct {
	status views.Status
}

func (e statusError) Error() string {
	return e.status.Message
}
