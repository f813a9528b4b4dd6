package tasks

import (
	"context"
	"time"

	"gorm.io/gorm"

	"bridgeway_site_echo/internal/models"
	"bridgeway_site_echo/internal/news"
)

// DefaultNewsRefreshRule re-scrapes news every six hours, matching the
// default cache TTL.
const DefaultNewsRefreshRule = "FREQ=HOURLY;INTERVAL=6"

// NewsRefresher is satisfied by news.Service
type NewsRefresher interface {
	Refresh(ctx context.Context) news.RefreshResult
}

// RefreshNewsTaskDef warms the news metadata cache
type RefreshNewsTaskDef struct {
	refresher NewsRefresher
}

// TaskID returns the unique identifier for this task
func (t *RefreshNewsTaskDef) TaskID() string {
	return "refresh_news"
}

// CreateTask builds a recurring ScheduledTask for this task, first due at due
func (t *RefreshNewsTaskDef) CreateTask(due time.Time, rule string) (*models.ScheduledTask, error) {
	if rule == "" {
		rule = DefaultNewsRefreshRule
	}
	return BuildScheduledTask(t.TaskID(), map[string]interface{}{}, due, &rule, models.ScheduledTaskTypeRecurring, 2)
}

// HandleExecution scrapes every news source again and reports the counts
func (t *RefreshNewsTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, args map[string]interface{}) (map[string]interface{}, error) {
	res := t.refresher.Refresh(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"status":  "success",
		"total":   res.Total,
		"scraped": res.Scraped,
		"failed":  res.Failed,
	}, nil
}

// Ensure creates the recurring refresh task unless an active one exists
func (t *RefreshNewsTaskDef) Ensure(ctx context.Context, db *gorm.DB, now time.Time) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&models.ScheduledTask{}).
		Where("task_name = ? AND status = ?", t.TaskID(), models.ScheduledTaskStatusActive).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	task, err := t.CreateTask(now, DefaultNewsRefreshRule)
	if err != nil {
		return false, err
	}
	if err := db.WithContext(ctx).Create(task).Error; err != nil {
		return false, err
	}
	return true, nil
}

// RefreshNewsTask builds and ensures refresh task records
var RefreshNewsTask = &RefreshNewsTaskDef{}
