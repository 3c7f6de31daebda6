package pref

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vango-dev/statekit/pkg/reactive"
)

// Theme is a UI colour theme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// AppStoreKey is the persistence key of the application store.
const AppStoreKey = "global-application"

// AppStore holds application-wide UI state. Only the current theme is
// persisted; everything else starts fresh.
type AppStore struct {
	// CurrentTheme is the active theme, persisted across restarts.
	CurrentTheme *Pref[Theme]

	// SidebarOpen is session-only UI state.
	SidebarOpen *Pref[bool]

	isDark *reactive.Memo[bool]
}

// NewAppStore creates a store with the light theme.
func NewAppStore() *AppStore {
	s := &AppStore{
		CurrentTheme: New("currentTheme", ThemeLight),
		SidebarOpen:  New("sidebarOpen", true, Transient()),
	}
	s.isDark = reactive.NewMemo(func() bool {
		return s.CurrentTheme.Get() == ThemeDark
	})
	return s
}

// IsDark reports whether the dark theme is active.
func (s *AppStore) IsDark() bool {
	return s.isDark.Get()
}

// IsDarkMemo returns the derived value behind IsDark.
func (s *AppStore) IsDarkMemo() *reactive.Memo[bool] {
	return s.isDark
}

// SetTheme switches the theme.
func (s *AppStore) SetTheme(t Theme) error {
	if !t.Valid() {
		return fmt.Errorf("pref: unknown theme %q", t)
	}
	s.CurrentTheme.Set(t)
	return nil
}

// ToggleTheme flips between light and dark.
func (s *AppStore) ToggleTheme() {
	if s.CurrentTheme.Peek() == ThemeDark {
		s.CurrentTheme.Set(ThemeLight)
		return
	}
	s.CurrentTheme.Set(ThemeDark)
}

// appStoreRecord is the persisted subset of AppStore.
type appStoreRecord struct {
	CurrentTheme Theme     `json:"currentTheme"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Save persists the persisted subset of the store under AppStoreKey.
func (s *AppStore) Save(ctx context.Context, persister Persister) error {
	data, err := json.Marshal(appStoreRecord{
		CurrentTheme: s.CurrentTheme.Peek(),
		UpdatedAt:    s.CurrentTheme.UpdatedAt(),
	})
	if err != nil {
		return fmt.Errorf("app store: encode: %w", err)
	}
	if err := persister.Save(ctx, AppStoreKey, data); err != nil {
		return fmt.Errorf("app store: save: %w", err)
	}
	return nil
}

// Load restores the persisted subset. A missing record keeps the defaults;
// an unknown theme is ignored.
func (s *AppStore) Load(ctx context.Context, persister Persister) error {
	data, err := persister.Load(ctx, AppStoreKey)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("app store: load: %w", err)
	}

	var rec appStoreRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("app store: decode: %w", err)
	}
	if rec.CurrentTheme.Valid() {
		s.CurrentTheme.SetFromRemote(rec.CurrentTheme, rec.UpdatedAt)
	}
	return nil
}
