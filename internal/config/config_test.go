package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-tms-client/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoadFromMap_Defaults(t *testing.T) {
	cfg, err := config.LoadFromMap(map[string]string{})
	require.NoError(t, err)

	require.Equal(t, "tmsctl", cfg.GetAppName())
	require.Equal(t, "http://localhost", cfg.GetAPIBase())
	require.Equal(t, time.Duration(0), cfg.GetHTTPTimeout())
	require.Equal(t, 6*time.Hour, cfg.GetTenantCacheTTL())
	require.Equal(t, config.SessionBackendFile, cfg.GetSessionBackend())
	require.Contains(t, cfg.GetSessionFile(), "default.session.json")
	require.True(t, cfg.IsDev())
}

func TestLoadFromMap_Overrides(t *testing.T) {
	cfg, err := config.LoadFromMap(map[string]string{
		"TMS_API_BASE":        "https://tms.example.com/",
		"TMS_HTTP_TIMEOUT":    "5s",
		"TMS_SESSION_BACKEND": "REDIS",
		"TMS_REDIS_DB":        "3",
		"TMS_PROFILE":         "staging",
		"TMS_ENV":             "prod",
		"TMS_PAGE_LIMIT":      "-4",
	})
	require.NoError(t, err)

	require.Equal(t, "https://tms.example.com", cfg.GetAPIBase())
	require.Equal(t, 5*time.Second, cfg.GetHTTPTimeout())
	require.Equal(t, config.SessionBackendRedis, cfg.GetSessionBackend())
	require.Equal(t, 3, cfg.GetRedisDB())
	require.Equal(t, "staging", cfg.GetProfile())
	require.Contains(t, cfg.GetSessionFile(), "staging.session.json")
	require.Equal(t, 50, cfg.GetPageLimit())
	require.False(t, cfg.IsDev())
}

func TestLoadFromMap_InvalidBackend(t *testing.T) {
	_, err := config.LoadFromMap(map[string]string{"TMS_SESSION_BACKEND": "sqlite"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid session backend")
}

func TestLoad_OverridesWinOverEnvironment(t *testing.T) {
	t.Setenv("TMS_API_BASE", "https://env.example.com")
	t.Setenv("TMS_PROFILE", "env")

	cfg, err := config.Load(map[string]string{"TMS_PROFILE": "flag"})
	require.NoError(t, err)
	require.Equal(t, "https://env.example.com", cfg.GetAPIBase())
	require.Equal(t, "flag", cfg.GetProfile())
}
