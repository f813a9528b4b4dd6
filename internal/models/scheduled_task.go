package models

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"
	"gorm.io/gorm"
)

// ScheduledTaskStatus is the lifecycle state of a scheduled task
type ScheduledTaskStatus string

const (
	ScheduledTaskStatusActive   ScheduledTaskStatus = "active"
	ScheduledTaskStatusDone     ScheduledTaskStatus = "done"
	ScheduledTaskStatusFailure  ScheduledTaskStatus = "failure"
	ScheduledTaskStatusDisabled ScheduledTaskStatus = "disabled"
)

// ScheduledTaskType distinguishes one-off jobs from RRULE driven ones
type ScheduledTaskType string

const (
	ScheduledTaskTypeOneTime   ScheduledTaskType = "onetime"
	ScheduledTaskTypeRecurring ScheduledTaskType = "recurring"
)

// TaskRunStatus is the outcome of a single attempt, stored in the history
type TaskRunStatus string

const (
	TaskRunSuccess         TaskRunStatus = "success"
	TaskRunFailure         TaskRunStatus = "failure"
	TaskRunHandlerNotFound TaskRunStatus = "handler_not_found"
)

var errNoRecurrence = errors.New("task has no recurrence rule")

// ScheduledTask is a row the worker picks up once Due has passed. The site
// uses it for the news refresh and for volunteer enquiry notifications.
type ScheduledTask struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	TaskName          string                 `gorm:"type:varchar(255)" json:"task_name"`
	Arguments         map[string]interface{} `gorm:"serializer:json" json:"arguments"`
	LastRun           *time.Time             `json:"last_run"`
	Due               time.Time              `gorm:"index:idx_scheduled_tasks_status_due,priority:2,where:deleted_at IS NULL" json:"due"`
	RecurringInterval *string                `gorm:"type:text" json:"recurring_interval"`
	Status            ScheduledTaskStatus    `gorm:"type:varchar(20);index:idx_scheduled_tasks_status_due,priority:1,where:deleted_at IS NULL" json:"status"`
	TaskType          ScheduledTaskType      `gorm:"type:varchar(20);default:'onetime'" json:"task_type"`
	MaxAttempt        int                    `json:"max_attempt"`
}

// IsRecurring reports whether the task repeats on a recurrence rule
func (t ScheduledTask) IsRecurring() bool {
	return t.TaskType == ScheduledTaskTypeRecurring
}

// Recurrence parses the task's rule anchored at its current Due
func (t ScheduledTask) Recurrence() (*rrule.RRule, error) {
	if t.RecurringInterval == nil || *t.RecurringInterval == "" {
		return nil, errNoRecurrence
	}
	rule, err := rrule.StrToRRule(*t.RecurringInterval)
	if err != nil {
		return nil, err
	}
	rule.DTStart(t.Due)
	return rule, nil
}

// NextDueAfter returns the first occurrence strictly after now. One-time
// tasks, and recurring tasks whose rule is missing, invalid or exhausted,
// keep their current Due.
func (t ScheduledTask) NextDueAfter(now time.Time) time.Time {
	if !t.IsRecurring() {
		return t.Due
	}
	rule, err := t.Recurrence()
	if err != nil {
		return t.Due
	}
	if next := rule.After(now, false); !next.IsZero() {
		return next
	}
	return t.Due
}

// Outcome decides the task's status after its final attempt at ranAt, and the
// new due time when it stays scheduled. A recurring task keeps its schedule
// after a failed run; it is only retired once its rule yields nothing later.
func (t ScheduledTask) Outcome(succeeded bool, ranAt time.Time) (ScheduledTaskStatus, *time.Time) {
	if t.IsRecurring() {
		if next := t.NextDueAfter(ranAt); next.After(t.Due) {
			return ScheduledTaskStatusActive, &next
		}
	}
	if succeeded {
		return ScheduledTaskStatusDone, nil
	}
	return ScheduledTaskStatusFailure, nil
}

// ValidateRecurrence checks that rule parses as an RRULE
func ValidateRecurrence(rule string) error {
	_, err := rrule.StrToRRule(rule)
	return err
}

// ScheduledTaskHistory records one attempt of a scheduled task
type ScheduledTaskHistory struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	ScheduledTaskID uint           `gorm:"index" json:"scheduled_task_id"`

	TaskName      string                 `gorm:"type:varchar(255)" json:"task_name"`
	RunAt         time.Time              `json:"run_at"`
	Runtime       int                    `json:"runtime"` // milliseconds
	Status        TaskRunStatus          `gorm:"type:varchar(50)" json:"status"`
	AttemptNumber int                    `json:"attempt_number"`
	Arguments     map[string]interface{} `gorm:"serializer:json" json:"arguments"`
	Result        map[string]interface{} `gorm:"serializer:json" json:"result"`
}
