package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"bridgeway_site_echo/internal/middleware"
)

type PreferenceHandler struct {
	secureCookies bool
}

func NewPreferenceHandler(secureCookies bool) *PreferenceHandler {
	return &PreferenceHandler{secureCookies: secureCookies}
}

// ToggleTheme sets the theme cookie. A valid "theme" form value is used as
// is, otherwise the current theme is flipped. Script callers asking for JSON
// get the new theme; form posts are redirected back to the page they came from.
func (h *PreferenceHandler) ToggleTheme(c echo.Context) error {
	theme := c.FormValue("theme")
	if !middleware.ValidTheme(theme) {
		theme = middleware.OppositeTheme(middleware.CurrentTheme(c))
	}
	c.SetCookie(middleware.PreferenceCookie(middleware.ThemeCookie, theme, h.secureCookies))

	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) {
		return c.JSON(http.StatusOK, map[string]string{"theme": theme})
	}
	return c.Redirect(http.StatusSeeOther, redirectTarget(c))
}

// redirectTarget returns the "redirect" form value or the Referer's path,
// provided it stays on this site; otherwise "/".
func redirectTarget(c echo.Context) string {
	if target := c.FormValue("redirect"); safeLocalPath(target) {
		return target
	}

	ref, err := url.Parse(c.Request().Referer())
	if err == nil && ref.Host == c.Request().Host {
		target := ref.EscapedPath()
		if ref.RawQuery != "" {
			target += "?" + ref.RawQuery
		}
		if safeLocalPath(target) {
			return target
		}
	}
	return "/"
}

// safeLocalPath accepts absolute paths on this host only, rejecting
// scheme-relative ("//evil") and backslash tricks.
func safeLocalPath(p string) bool {
	if p == "" || p[0] != '/' {
		return false
	}
	if len(p) > 1 && (p[1] == '/' || p[1] == '\\') {
		return false
	}
	return !strings.ContainsAny(p, "\r\n")
}
