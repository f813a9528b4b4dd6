package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"bridgeway_site_echo/internal/models"
	"bridgeway_site_echo/internal/tasks"
)

// EnquiryStore persists volunteer enquiries
type EnquiryStore struct {
	db *gorm.DB
}

func NewEnquiryStore(db *gorm.DB) *EnquiryStore {
	return &EnquiryStore{db: db}
}

// Submit saves the enquiry and enqueues its coordinator notification in one
// transaction, so an enquiry is never stored without its task.
func (s *EnquiryStore) Submit(ctx context.Context, enquiry *models.VolunteerEnquiry) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(enquiry).Error; err != nil {
			return fmt.Errorf("save enquiry: %w", err)
		}

		task, err := tasks.NotifyEnquiryTask.CreateTask(enquiry.ID)
		if err != nil {
			return err
		}
		if err := tx.Create(task).Error; err != nil {
			return fmt.Errorf("enqueue enquiry notification: %w", err)
		}
		return nil
	})
}
