package ui

import (
	"net/http"
	"time"
)

// Theme is the persisted colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ThemeKey is the single client-side storage key holding the preference.
const ThemeKey = "theme"

// ParseTheme maps stored values to a Theme, defaulting to light.
func ParseTheme(v string) Theme {
	if Theme(v) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// Toggled returns the opposite theme.
func (t Theme) Toggled() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Icon returns the toggle button glyph for the active theme.
func (t Theme) Icon() string {
	if t == ThemeDark {
		return "bi-sun-fill"
	}
	return "bi-moon-fill"
}

// ThemeStore is durable storage for the theme preference.
type ThemeStore interface {
	Load() Theme
	Save(Theme)
}

// CookieThemeStore keeps the preference in a long lived browser cookie.
type CookieThemeStore struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool
}

// NewCookieThemeStore binds the store to one request/response pair.
func NewCookieThemeStore(w http.ResponseWriter, r *http.Request, secure bool) *CookieThemeStore {
	return &CookieThemeStore{w: w, r: r, secure: secure}
}

// Load implements ThemeStore.
func (s *CookieThemeStore) Load() Theme {
	if s.r == nil {
		return ThemeLight
	}
	c, err := s.r.Cookie(ThemeKey)
	if err != nil {
		return ThemeLight
	}
	return ParseTheme(c.Value)
}

// Save implements ThemeStore.
func (s *CookieThemeStore) Save(t Theme) {
	http.SetCookie(s.w, &http.Cookie{
		Name:     ThemeKey,
		Value:    string(t),
		Path:     "/",
		Expires:  time.Now().AddDate(1, 0, 0),
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ToggleTheme flips and persists the preference.
func ToggleTheme(store ThemeStore) Theme {
	t := store.Load().Toggled()
	store.Save(t)
	return t
}
