package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type SessionBackend string

const (
	SessionBackendFile  SessionBackend = "file"
	SessionBackendRedis SessionBackend = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionBackend.
func (b *SessionBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch SessionBackend(v) {
	case SessionBackendFile, SessionBackendRedis:
		*b = SessionBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid session backend: %q (valid options: file, redis)", v)
	}
}

type StorageConfig interface {
	GetSessionBackend() SessionBackend
	GetSessionFile() string
	GetSessionPassphrase() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisPrefix() string
}

type Storage struct {
	Backend    SessionBackend `env:"SESSION_BACKEND"    envDefault:"file"`
	File       string         `env:"SESSION_FILE"`
	Passphrase string         `env:"SESSION_PASSPHRASE"`

	RedisAddr     string `env:"REDIS_ADDR"     envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB"       envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX"   envDefault:"tmsctl:"`
}

// Sanitize fills in the per-profile session file under the user config directory when none is set.
func (s *Storage) Sanitize(profile string) error {
	if s.File != "" {
		return nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	s.File = filepath.Join(dir, "tmsctl", profile+".session.json")
	return nil
}

func (s Storage) GetSessionBackend() SessionBackend {
	return s.Backend
}

func (s Storage) GetSessionFile() string {
	return s.File
}

// GetSessionPassphrase returns the passphrase used to seal the session file. Empty means plain JSON.
func (s Storage) GetSessionPassphrase() string {
	return s.Passphrase
}

func (s Storage) GetRedisAddr() string {
	return s.RedisAddr
}

func (s Storage) GetRedisPassword() string {
	return s.RedisPassword
}

func (s Storage) GetRedisDB() int {
	return s.RedisDB
}

func (s Storage) GetRedisPrefix() string {
	return s.RedisPrefix
}
