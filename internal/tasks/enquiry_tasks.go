package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"bridgeway_site_echo/internal/models"
)

// Mailer is satisfied by services.EmailService
type Mailer interface {
	SendEmail(to []string, subject, body string) error
}

// NotifyEnquiryArgs defines the arguments for an enquiry notification task
type NotifyEnquiryArgs struct {
	EnquiryID uint `json:"enquiry_id"`
}

// NotifyEnquiryTaskDef emails the volunteer coordinator about a new enquiry
type NotifyEnquiryTaskDef struct {
	mailer      Mailer
	coordinator string
}

// NotifyEnquiryTask builds task records without handler dependencies, for
// callers that only enqueue.
var NotifyEnquiryTask = &NotifyEnquiryTaskDef{}

// TaskID returns the unique identifier for this task
func (t *NotifyEnquiryTaskDef) TaskID() string {
	return "notify_volunteer_enquiry"
}

// CreateTask builds a one-time ScheduledTask due immediately
func (t *NotifyEnquiryTaskDef) CreateTask(enquiryID uint) (*models.ScheduledTask, error) {
	return BuildScheduledTask(t.TaskID(), NotifyEnquiryArgs{EnquiryID: enquiryID}, time.Now(), nil, models.ScheduledTaskTypeOneTime, 3)
}

// HandleExecution sends the notification and stamps the enquiry. Enquiries
// already notified are skipped so retries never send twice.
func (t *NotifyEnquiryTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, args map[string]interface{}) (map[string]interface{}, error) {
	var parsedArgs NotifyEnquiryArgs
	if err := parseArgs(args, &parsedArgs); err != nil {
		return nil, err
	}
	if parsedArgs.EnquiryID == 0 {
		return nil, errors.New("enquiry_id is required")
	}

	var enquiry models.VolunteerEnquiry
	if err := db.WithContext(ctx).First(&enquiry, parsedArgs.EnquiryID).Error; err != nil {
		return nil, fmt.Errorf("load enquiry %d: %w", parsedArgs.EnquiryID, err)
	}
	if enquiry.NotifiedAt != nil {
		return map[string]interface{}{"status": "skipped", "reason": "already notified"}, nil
	}

	subject, body := EnquiryEmail(enquiry)
	if err := t.mailer.SendEmail([]string{t.coordinator}, subject, body); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := db.WithContext(ctx).Model(&enquiry).Update("notified_at", &now).Error; err != nil {
		return nil, fmt.Errorf("stamp enquiry %d: %w", enquiry.ID, err)
	}

	return map[string]interface{}{
		"status":     "success",
		"enquiry_id": enquiry.ID,
		"sent_to":    t.coordinator,
	}, nil
}

// EnquiryEmail renders the coordinator notification for an enquiry
func EnquiryEmail(e models.VolunteerEnquiry) (subject, body string) {
	role := e.Role
	if role == "" {
		role = "any"
	}
	subject = fmt.Sprintf("New volunteer enquiry from %s", e.Name)

	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", e.Name)
	fmt.Fprintf(&b, "Email: %s\n", e.Email)
	if e.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", e.Phone)
	}
	fmt.Fprintf(&b, "Role: %s\n", role)
	if e.Language != "" {
		fmt.Fprintf(&b, "Site language: %s\n", e.Language)
	}
	fmt.Fprintf(&b, "Received: %s\n", e.CreatedAt.Format("2 January 2006 15:04"))
	if e.Message != "" {
		fmt.Fprintf(&b, "\n%s\n", e.Message)
	}
	return subject, b.String()
}
