package config

import (
	"net/http"
	"strings"
	"time"
)

type Auth struct {
	JWTSecret       string        `env:"JWT_SECRET"`
	GoogleClientID  string        `env:"GOOGLE_CLIENT_ID"`
	RedirectURL     string        `env:"AUTH_REDIRECT_URL" envDefault:"/"`
	CookieDomain    string        `env:"COOKIE_DOMAIN"`
	CookieSameSite  string        `env:"COOKIE_SAMESITE" envDefault:"lax"`
	CookieSecure    bool          `env:"COOKIE_SECURE" envDefault:"true"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`
	AdminUsernames  []string      `env:"ADMIN_USERNAMES" envSeparator:","`
}

func (c Auth) SameSite() http.SameSite {
	switch strings.ToLower(c.CookieSameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
