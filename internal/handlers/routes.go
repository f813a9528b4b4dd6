package handlers

import (
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bridgeway_site_echo/internal/content"
)

// LegacyRedirects maps paths from the previous site onto current routes
var LegacyRedirects = map[string]string{
	"/settlement":      "/services/settlement-support",
	"/aged-care":       "/services/aged-care",
	"/community":       "/services/community-engagement",
	"/our-team":        "/team",
	"/news-and-events": "/news",
	"/get-involved":    "/volunteer",
	"/contact-us":      "/contact",
	"/faqs":            "/faq",
	"/help-now":        "/emergency",
}

// Deps are everything the routes need. Store and Checks may be nil.
type Deps struct {
	Site             *content.Site
	News             ArticleLister
	Testimonials     TestimonialSource
	Store            EnquiryStore
	CoordinatorEmail string
	SecureCookies    bool
	Static           fs.FS
	Checks           map[string]Checker
	Logger           *zap.Logger
}

// Register wires every route onto e
func Register(e *echo.Echo, deps Deps) {
	pages := NewPageHandler(deps.Site, deps.News, deps.Testimonials)
	newsHandler := NewNewsHandler(deps.News)
	testimonialsHandler := NewTestimonialsHandler(deps.Testimonials)
	preferences := NewPreferenceHandler(deps.SecureCookies)
	volunteer := NewVolunteerHandler(deps.Site, deps.Store, deps.CoordinatorEmail, deps.Logger)
	health := NewHealthHandler(deps.Checks)

	if deps.Static != nil {
		e.StaticFS("/static", deps.Static)
	}

	e.GET("/", pages.Home)
	e.GET("/about", pages.About)
	e.GET("/services", pages.Services)
	e.GET("/services/:slug", pages.Program)
	e.GET("/team", pages.Team)
	e.GET("/faq", pages.FAQ)
	e.GET("/news", newsHandler.Page)
	e.GET("/emergency", pages.Emergency)
	e.GET("/volunteer", volunteer.Show)
	e.GET("/contact", pages.Contact)
	e.GET("/privacy", pages.Static("privacy.html", "privacy.title"))
	e.GET("/terms", pages.Static("terms.html", "terms.title"))
	e.GET("/accessibility", pages.Static("accessibility.html", "accessibility.title"))

	e.POST("/preferences/theme", preferences.ToggleTheme)
	e.POST("/volunteer/enquiry", volunteer.Submit)

	api := e.Group("/api")
	api.GET("/news", newsHandler.API)
	api.GET("/testimonials", testimonialsHandler.API)

	e.GET("/healthz", health.Health)

	for from, to := range LegacyRedirects {
		e.GET(from, redirect(to))
	}
}

// redirect permanently moves a legacy path, keeping its query string
func redirect(to string) echo.HandlerFunc {
	return func(c echo.Context) error {
		target := to
		if q := c.Request().URL.RawQuery; q != "" {
			target += "?" + q
		}
		return c.Redirect(http.StatusMovedPermanently, target)
	}
}
