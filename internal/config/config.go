package config

import "time"

type Config interface {
	EnvConfig
	ClientConfig
	StorageConfig
	CacheConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetProfile() string
	IsDev() bool
}

type ClientConfig interface {
	GetAPIBase() string
	GetHTTPTimeout() time.Duration
	GetPageLimit() int
}

type CacheConfig interface {
	GetTenantCacheTTL() time.Duration
}

type mainConfig struct {
	EnvVars
}

var _ Config = mainConfig{}

// New returns the configuration with every variable at its default.
func New() Config {
	cfg, err := LoadFromMap(map[string]string{})
	if err != nil {
		// Defaults are static; a failure here is a programming error.
		panic(err)
	}
	return cfg
}
