package models

import (
	"time"

	"gorm.io/gorm"
)

// VolunteerEnquiry is an expression of interest submitted from the volunteer page
type VolunteerEnquiry struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name       string     `gorm:"type:varchar(200);not null" json:"name"`
	Email      string     `gorm:"type:varchar(320);not null;index" json:"email"`
	Phone      string     `gorm:"type:varchar(50)" json:"phone"`
	Role       string     `gorm:"type:varchar(100)" json:"role"` // volunteer role slug, empty for "any"
	Message    string     `gorm:"type:text" json:"message"`
	Language   string     `gorm:"type:varchar(20)" json:"language"`
	NotifiedAt *time.Time `json:"notified_at"`
}
