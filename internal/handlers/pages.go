package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bridgeway_site_echo/internal/content"
	"bridgeway_site_echo/internal/news"
	"bridgeway_site_echo/internal/render"
)

// homeNewsLimit is how many articles the home page teaser shows
const homeNewsLimit = 3

// PageHandler serves the content pages
type PageHandler struct {
	site         *content.Site
	news         ArticleLister
	testimonials TestimonialSource
}

func NewPageHandler(site *content.Site, articles ArticleLister, quotes TestimonialSource) *PageHandler {
	return &PageHandler{site: site, news: articles, testimonials: quotes}
}

// Home renders the landing page
func (h *PageHandler) Home(c echo.Context) error {
	ctx := c.Request().Context()
	data := HomeData{
		Programs:     h.site.Programs,
		Testimonials: h.testimonials.Load(ctx),
		News:         h.news.Articles(ctx, news.Filter{Limit: homeNewsLimit}),
	}
	return c.Render(http.StatusOK, "home.html", &render.PageData{Data: data})
}

// About renders the organisation overview with the leadership team
func (h *PageHandler) About(c echo.Context) error {
	data := AboutData{Leadership: h.site.TeamsByName()["Leadership"]}
	return c.Render(http.StatusOK, "about.html", page(c, "about.title", data))
}

// Services lists every program
func (h *PageHandler) Services(c echo.Context) error {
	return c.Render(http.StatusOK, "services.html", page(c, "services.title", ServicesData{Programs: h.site.Programs}))
}

// Program renders one program by slug
func (h *PageHandler) Program(c echo.Context) error {
	program, ok := h.site.Program(c.Param("slug"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "We couldn't find that service.")
	}

	others := make([]content.Program, 0, len(h.site.Programs))
	for _, p := range h.site.Programs {
		if p.Slug != program.Slug {
			others = append(others, p)
		}
	}

	pd := &render.PageData{
		Title:       program.Title,
		Description: program.Summary,
		Breadcrumbs: []render.Breadcrumb{
			{Title: translate(c, "nav.home"), URL: "/"},
			{Title: translate(c, "services.title"), URL: "/services"},
			{Title: program.Title},
		},
		Data: ProgramData{Program: program, Others: others},
	}
	return c.Render(http.StatusOK, "program.html", pd)
}

// Team renders the staff directory grouped by team
func (h *PageHandler) Team(c echo.Context) error {
	return c.Render(http.StatusOK, "team.html", page(c, "team.title", TeamData{Teams: h.site.TeamsByName()}))
}

// FAQ renders the questions as an accordion grouped by category
func (h *PageHandler) FAQ(c echo.Context) error {
	return c.Render(http.StatusOK, "faq.html", page(c, "faq.title", FAQData{Groups: h.site.FAQsByCategory()}))
}

// Emergency lists crisis and support lines
func (h *PageHandler) Emergency(c echo.Context) error {
	return c.Render(http.StatusOK, "emergency.html", page(c, "emergency.title", EmergencyData{Resources: h.site.Emergency}))
}

// Contact renders the organisation's contact details
func (h *PageHandler) Contact(c echo.Context) error {
	return c.Render(http.StatusOK, "contact.html", page(c, "contact.title", nil))
}

// Static returns a handler for a page that needs no data, such as the policies
func (h *PageHandler) Static(template, titleKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(http.StatusOK, template, page(c, titleKey, nil))
	}
}
