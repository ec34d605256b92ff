package http

import (
	"net/http"
	"time"
)

// DefaultCookieName is the refresh-token cookie key when none is configured.
const DefaultCookieName = "refresh_token"

// CookieConfig describes where and how the refresh-token cookie is set. The
// cookie is always http-only and same-site strict; only its name, scope and
// the Secure bit are configurable.
type CookieConfig struct {
	Name   string
	Path   string
	Domain string
	Secure bool

	// TTL sets the cookie expiry and must match the refresh-token lifetime.
	TTL time.Duration
}

func (c CookieConfig) name() string {
	if c.Name == "" {
		return DefaultCookieName
	}
	return c.Name
}

func (c CookieConfig) path() string {
	if c.Path == "" {
		return "/"
	}
	return c.Path
}

// setRefreshCookie stores the refresh token client-side. Every pair-minting
// endpoint re-sets this cookie so rotation supersedes the old token.
func setRefreshCookie(w http.ResponseWriter, cfg CookieConfig, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.name(),
		Value:    token,
		Path:     cfg.path(),
		Domain:   cfg.Domain,
		Expires:  time.Now().Add(cfg.TTL),
		MaxAge:   int(cfg.TTL.Seconds()),
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearRefreshCookie expires the cookie immediately. Logout is purely this
// client-side clear; the token itself is stateless and cannot be recalled.
func clearRefreshCookie(w http.ResponseWriter, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.name(),
		Value:    "",
		Path:     cfg.path(),
		Domain:   cfg.Domain,
		MaxAge:   -1,
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// refreshCookie returns the raw refresh token from the request, or "" when
// the cookie is absent.
func refreshCookie(r *http.Request, cfg CookieConfig) string {
	c, err := r.Cookie(cfg.name())
	if err != nil {
		return ""
	}
	return c.Value
}
