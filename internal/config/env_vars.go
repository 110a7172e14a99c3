package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const defaultTenantCacheTTL = 6 * time.Hour

// EnvVars holds every TMS_* variable. Storage settings live in storage_config.go.
type EnvVars struct {
	AppName     string        `env:"APP_NAME"     envDefault:"tmsctl"`
	Env         string        `env:"ENV"          envDefault:"DEV"`
	Profile     string        `env:"PROFILE"      envDefault:"default"`
	APIBase     string        `env:"API_BASE"     envDefault:"http://localhost"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"0s"`
	PageLimit   int           `env:"PAGE_LIMIT"   envDefault:"50"`

	TenantCacheTTL time.Duration `env:"TENANT_CACHE_TTL" envDefault:"6h"`

	Storage
}

const envPrefix = "TMS_"

// Load reads an optional .env file and then parses TMS_* variables from the process environment.
// overrides (TMS_-prefixed keys, typically from command-line flags) win over the environment.
func Load(overrides map[string]string) (Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}
	if len(overrides) == 0 {
		return parse(env.Options{Prefix: envPrefix})
	}
	vars := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	for k, v := range overrides {
		vars[k] = v
	}
	return parse(env.Options{Prefix: envPrefix, Environment: vars})
}

// LoadFromMap parses configuration from vars instead of the process environment.
// Keys carry the TMS_ prefix, as they would in the environment.
func LoadFromMap(vars map[string]string) (Config, error) {
	return parse(env.Options{Prefix: envPrefix, Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var vars EnvVars
	if err := env.ParseWithOptions(&vars, opts); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := vars.Sanitize(); err != nil {
		return nil, err
	}
	return mainConfig{EnvVars: vars}, nil
}

// Sanitize applies guardrails to values loaded from the environment.
func (e *EnvVars) Sanitize() error {
	e.APIBase = strings.TrimRight(strings.TrimSpace(e.APIBase), "/")
	if e.APIBase == "" {
		return errors.New("TMS_API_BASE must not be empty")
	}
	if e.HTTPTimeout < 0 {
		e.HTTPTimeout = 0
	}
	if e.PageLimit <= 0 {
		e.PageLimit = 50
	}
	if e.TenantCacheTTL <= 0 {
		e.TenantCacheTTL = defaultTenantCacheTTL
	}
	if strings.TrimSpace(e.Profile) == "" {
		e.Profile = "default"
	}
	e.Env = strings.ToUpper(e.Env)
	return e.Storage.Sanitize(e.Profile)
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	return e.Env
}

func (e EnvVars) IsDev() bool {
	return e.Env == "DEV"
}

func (e EnvVars) GetProfile() string {
	return e.Profile
}

// GetAPIBase returns the backend origin (e.g. "http://localhost"); service prefixes such as
// /auth, /orgs and /tms are part of each request path.
func (e EnvVars) GetAPIBase() string {
	return e.APIBase
}

// GetHTTPTimeout returns the per-request timeout. Zero leaves the transport defaults in charge.
func (e EnvVars) GetHTTPTimeout() time.Duration {
	return e.HTTPTimeout
}

func (e EnvVars) GetPageLimit() int {
	return e.PageLimit
}

func (e EnvVars) GetTenantCacheTTL() time.Duration {
	return e.TenantCacheTTL
}
