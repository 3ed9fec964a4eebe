package handler

import (
	"net/http"
	"time"
)

// CookieSettings controls how the auth token is delivered to browsers.
type CookieSettings struct {
	Name   string
	TTL    time.Duration
	Secure bool // production: Secure + SameSite=None for cross-site clients
}

func (c CookieSettings) set(w http.ResponseWriter, token string) {
	http.SetCookie(w, c.cookie(token, int(c.TTL/time.Second)))
}

func (c CookieSettings) clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie("", -1))
}

func (c CookieSettings) cookie(value string, maxAge int) *http.Cookie {
	cookie := &http.Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if c.Secure {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	}
	return cookie
}
