package sessions

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jrsteele09/go-tms-client/internal/errors"
)

// LoginPrefs remembers the login form between runs.
type LoginPrefs struct {
	Remember bool   `json:"remember"`
	Email    string `json:"email"`
	TenantID *int64 `json:"tenant_id"`
}

// Theme values for ProfilePrefs.
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

// ProfilePrefs are account-page display preferences.
type ProfilePrefs struct {
	DisplayName     string `json:"displayName"`
	Theme           string `json:"theme"`
	PreferredTenant *int64 `json:"preferredTenant"`
}

func (p ProfilePrefs) Validate() error {
	switch p.Theme {
	case ThemeSystem, ThemeLight, ThemeDark:
		return nil
	default:
		return fmt.Errorf("theme %q (valid options: system, light, dark): %w", p.Theme, errors.ErrInvalidRequest)
	}
}

// LoginPrefs returns the remembered login form; Remember defaults to true.
func (s *Store) LoginPrefs(ctx context.Context) (LoginPrefs, error) {
	prefs := LoginPrefs{Remember: true}
	if err := s.readJSON(ctx, KeyLoginPrefs, &prefs); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return LoginPrefs{Remember: true}, nil
		}
		return LoginPrefs{Remember: true}, err
	}
	return prefs, nil
}

// SaveLoginPrefs stores prefs, or forgets them entirely when Remember is off.
func (s *Store) SaveLoginPrefs(ctx context.Context, prefs LoginPrefs) error {
	if !prefs.Remember {
		return s.repo.Delete(ctx, KeyLoginPrefs)
	}
	return s.writeJSON(ctx, KeyLoginPrefs, prefs)
}

// ProfilePrefs returns the stored display preferences, theme defaulting to system.
func (s *Store) ProfilePrefs(ctx context.Context) (ProfilePrefs, error) {
	prefs := ProfilePrefs{Theme: ThemeSystem}
	if err := s.readJSON(ctx, KeyProfilePrefs, &prefs); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return ProfilePrefs{Theme: ThemeSystem}, nil
		}
		return ProfilePrefs{Theme: ThemeSystem}, err
	}
	if prefs.Theme == "" {
		prefs.Theme = ThemeSystem
	}
	return prefs, nil
}

func (s *Store) SaveProfilePrefs(ctx context.Context, prefs ProfilePrefs) error {
	if prefs.Theme == "" {
		prefs.Theme = ThemeSystem
	}
	if err := prefs.Validate(); err != nil {
		return err
	}
	return s.writeJSON(ctx, KeyProfilePrefs, prefs)
}

func (s *Store) readJSON(ctx context.Context, key string, v any) error {
	data, err := s.repo.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "decode %s", key)
	}
	return nil
}

func (s *Store) writeJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}
	return s.repo.Set(ctx, key, data)
}
