package handlers

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bridgeway_site_echo/internal/content"
	"bridgeway_site_echo/internal/i18n"
	"bridgeway_site_echo/internal/models"
	"bridgeway_site_echo/internal/render"
)

// Field limits for volunteer enquiries
const (
	maxMessageLength = 2000
	maxNameLength    = 200
	maxEmailLength   = 320
	maxPhoneLength   = 50
)

type VolunteerHandler struct {
	site        *content.Site
	store       EnquiryStore
	coordinator string
	logger      *zap.Logger
}

// NewVolunteerHandler creates the handler. A nil store means enquiries cannot
// be saved and visitors are pointed at the coordinator's email instead.
func NewVolunteerHandler(site *content.Site, store EnquiryStore, coordinatorEmail string, logger *zap.Logger) *VolunteerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VolunteerHandler{site: site, store: store, coordinator: coordinatorEmail, logger: logger}
}

// Show renders the volunteer roles and the enquiry form
func (h *VolunteerHandler) Show(c echo.Context) error {
	return h.render(c, http.StatusOK, VolunteerData{})
}

// Submit validates and stores an enquiry. Invalid input re-renders the form
// with 422; storage failures still thank the visitor and show the
// coordinator's address.
func (h *VolunteerHandler) Submit(c echo.Context) error {
	form := VolunteerForm{
		Name:    strings.TrimSpace(c.FormValue("name")),
		Email:   strings.TrimSpace(c.FormValue("email")),
		Phone:   strings.TrimSpace(c.FormValue("phone")),
		Role:    strings.TrimSpace(c.FormValue("role")),
		Message: strings.TrimSpace(c.FormValue("message")),
	}

	if errs := h.validate(form); len(errs) > 0 {
		for field, key := range errs {
			errs[field] = translate(c, key)
		}
		return h.render(c, http.StatusUnprocessableEntity, VolunteerData{Form: form, Errors: errs})
	}

	if h.store == nil {
		return h.render(c, http.StatusOK, VolunteerData{Submitted: true, Offline: true})
	}

	enquiry := &models.VolunteerEnquiry{
		Name:     form.Name,
		Email:    form.Email,
		Phone:    form.Phone,
		Role:     form.Role,
		Message:  form.Message,
		Language: requestLang(c),
	}
	if err := h.store.Submit(c.Request().Context(), enquiry); err != nil {
		h.logger.Error("failed to save volunteer enquiry", zap.Error(err))
		return h.render(c, http.StatusOK, VolunteerData{Submitted: true, Offline: true})
	}

	h.logger.Info("volunteer enquiry received", zap.Uint("enquiry_id", enquiry.ID), zap.String("role", enquiry.Role))
	return h.render(c, http.StatusOK, VolunteerData{Submitted: true})
}

// validate returns i18n message keys keyed by field name
func (h *VolunteerHandler) validate(form VolunteerForm) map[string]string {
	errs := make(map[string]string)

	if form.Name == "" || utf8.RuneCountInString(form.Name) > maxNameLength {
		errs["name"] = "volunteer.error.name"
	}
	if !validEmail(form.Email) {
		errs["email"] = "volunteer.error.email"
	}
	if form.Role != "" {
		if _, ok := h.site.VolunteerRole(form.Role); !ok {
			errs["role"] = "volunteer.error.role"
		}
	}
	if utf8.RuneCountInString(form.Message) > maxMessageLength {
		errs["message"] = "volunteer.error.message"
	}
	if utf8.RuneCountInString(form.Phone) > maxPhoneLength {
		errs["phone"] = "volunteer.error.phone"
	}
	return errs
}

// validEmail is a loose check: something@something, one line, sane length
func validEmail(email string) bool {
	if email == "" || len(email) > maxEmailLength || strings.ContainsAny(email, " \r\n") {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && at < len(email)-1
}

func requestLang(c echo.Context) string {
	if l, ok := c.Get(render.LocalizerKey).(*i18n.Localizer); ok && l != nil {
		return l.Lang()
	}
	return i18n.Default.String()
}

func (h *VolunteerHandler) render(c echo.Context, code int, data VolunteerData) error {
	data.Roles = h.site.Volunteer
	data.CoordinatorEmail = h.coordinator
	return c.Render(code, "volunteer.html", page(c, "volunteer.title", data))
}
