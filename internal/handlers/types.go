package handlers

import (
	"context"

	"github.com/labstack/echo/v4"

	"bridgeway_site_echo/internal/content"
	"bridgeway_site_echo/internal/i18n"
	"bridgeway_site_echo/internal/models"
	"bridgeway_site_echo/internal/news"
	"bridgeway_site_echo/internal/render"
	"bridgeway_site_echo/internal/testimonials"
)

// ArticleLister is satisfied by news.Service
type ArticleLister interface {
	Articles(ctx context.Context, f news.Filter) []news.Article
	Listing(ctx context.Context, f news.Filter) ([]news.Article, []string)
}

// TestimonialSource is satisfied by testimonials.Loader
type TestimonialSource interface {
	Load(ctx context.Context) testimonials.Feed
}

// EnquiryStore is satisfied by services.EnquiryStore
type EnquiryStore interface {
	Submit(ctx context.Context, enquiry *models.VolunteerEnquiry) error
}

// HomeData is the data for the home page
type HomeData struct {
	Programs     []content.Program
	Testimonials testimonials.Feed
	News         []news.Article
}

type AboutData struct {
	Leadership []content.TeamMember
}

type ServicesData struct {
	Programs []content.Program
}

type ProgramData struct {
	Program content.Program
	Others  []content.Program
}

type TeamData struct {
	Teams map[string][]content.TeamMember
}

type FAQData struct {
	Groups []content.FAQGroup
}

// NewsData is the data for the news listing. Topic is "" when unfiltered.
type NewsData struct {
	Articles []news.Article
	Topics   []string
	Topic    string
}

type EmergencyData struct {
	Resources []content.EmergencyResource
}

// VolunteerForm holds the submitted enquiry fields for re-display
type VolunteerForm struct {
	Name    string
	Email   string
	Phone   string
	Role    string
	Message string
}

// VolunteerData is the data for the volunteer page. Errors maps form field
// names to messages.
type VolunteerData struct {
	Roles            []content.VolunteerRole
	Form             VolunteerForm
	Errors           map[string]string
	Submitted        bool
	Offline          bool
	CoordinatorEmail string
}

// translate looks key up in the request's language
func translate(c echo.Context, key string) string {
	if l, ok := c.Get(render.LocalizerKey).(*i18n.Localizer); ok && l != nil {
		return l.T(key)
	}
	return key
}

// page builds PageData titled by an i18n key, with Home > title breadcrumbs
func page(c echo.Context, titleKey string, data interface{}, trail ...render.Breadcrumb) *render.PageData {
	title := translate(c, titleKey)
	crumbs := []render.Breadcrumb{{Title: translate(c, "nav.home"), URL: "/"}}
	crumbs = append(crumbs, trail...)
	crumbs = append(crumbs, render.Breadcrumb{Title: title})

	return &render.PageData{
		Title:       title,
		Breadcrumbs: crumbs,
		Data:        data,
	}
}
