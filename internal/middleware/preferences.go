package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"bridgeway_site_echo/internal/i18n"
	"bridgeway_site_echo/internal/render"
)

// Preference cookie names
const (
	ThemeCookie = "theme"
	LangCookie  = "lang"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// preferenceMaxAge keeps preferences for one year
const preferenceMaxAge = 365 * 24 * time.Hour

// ValidTheme reports whether theme is a known theme name
func ValidTheme(theme string) bool {
	return theme == ThemeLight || theme == ThemeDark
}

// OppositeTheme returns the theme a toggle switches to
func OppositeTheme(theme string) string {
	if theme == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// PreferenceCookie builds a long-lived, non-HttpOnly cookie so the page script
// can read it too.
func PreferenceCookie(name, value string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(preferenceMaxAge / time.Second),
		Expires:  time.Now().Add(preferenceMaxAge),
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Theme returns a middleware that reads the theme cookie into the context.
// Missing or unknown values use defaultTheme.
func Theme(defaultTheme string) echo.MiddlewareFunc {
	if !ValidTheme(defaultTheme) {
		defaultTheme = ThemeLight
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			theme := defaultTheme
			if cookie, err := c.Cookie(ThemeCookie); err == nil && ValidTheme(cookie.Value) {
				theme = cookie.Value
			}
			c.Set(render.ThemeKey, theme)
			return next(c)
		}
	}
}

// CurrentTheme returns the theme resolved by the Theme middleware
func CurrentTheme(c echo.Context) string {
	if theme, ok := c.Get(render.ThemeKey).(string); ok && theme != "" {
		return theme
	}
	return ThemeLight
}

// Locale returns a middleware that resolves the visitor's language from the
// lang query parameter, then the lang cookie, then Accept-Language. A valid
// query value is persisted in the cookie.
func Locale(bundle *i18n.Bundle, secureCookies bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookieValue := ""
			if cookie, err := c.Cookie(LangCookie); err == nil {
				cookieValue = cookie.Value
			}

			tag, fromQuery := i18n.Resolve(
				c.QueryParam("lang"),
				cookieValue,
				c.Request().Header.Get("Accept-Language"),
			)
			localizer := bundle.For(tag)
			if fromQuery && localizer.Lang() != cookieValue {
				c.SetCookie(PreferenceCookie(LangCookie, localizer.Lang(), secureCookies))
			}

			c.Set(render.LocalizerKey, localizer)
			c.Response().Header().Add(echo.HeaderVary, echo.HeaderCookie)
			c.Response().Header().Add(echo.HeaderVary, "Accept-Language")
			return next(c)
		}
	}
}
