package tasks

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"bridgeway_site_echo/internal/models"
)

// runLockName guards against two workers processing the same tick
const runLockName = "worker:scheduled_tasks"

// Locker is an optional distributed lock, satisfied by services.RedisCache.
// TryLock returns "" when the lock is held elsewhere.
type Locker interface {
	TryLock(ctx context.Context, name string, ttl time.Duration) (string, error)
	Unlock(ctx context.Context, name, token string) error
}

// Runner executes due scheduled tasks
type Runner struct {
	db       *gorm.DB
	registry *Registry
	logger   *zap.Logger
	lock     Locker
	lockTTL  time.Duration
	now      func() time.Time
}

// NewRunner creates a Runner. lock may be nil for a single worker.
func NewRunner(db *gorm.DB, registry *Registry, logger *zap.Logger, lock Locker) *Runner {
	return &Runner{
		db:       db,
		registry: registry,
		logger:   logger,
		lock:     lock,
		lockTTL:  10 * time.Minute,
		now:      time.Now,
	}
}

// Run processes due tasks immediately and then on every tick until ctx is done
func (r *Runner) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.ProcessDue(ctx)
	for {
		select {
		case <-ticker.C:
			r.ProcessDue(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// ProcessDue runs every active task whose due time has passed
func (r *Runner) ProcessDue(ctx context.Context) {
	if r.lock != nil {
		token, err := r.lock.TryLock(ctx, runLockName, r.lockTTL)
		if err != nil {
			r.logger.Warn("worker lock unavailable, running unlocked", zap.Error(err))
		} else if token == "" {
			r.logger.Debug("another worker holds the lock, skipping tick")
			return
		} else {
			defer func() {
				if err := r.lock.Unlock(context.WithoutCancel(ctx), runLockName, token); err != nil {
					r.logger.Warn("failed to release worker lock", zap.Error(err))
				}
			}()
		}
	}

	var pendingTasks []models.ScheduledTask
	err := r.db.WithContext(ctx).
		Where("status = ? AND due <= ?", models.ScheduledTaskStatusActive, r.now()).
		Order("due").
		Find(&pendingTasks).Error
	if err != nil {
		r.logger.Error("error fetching pending tasks", zap.Error(err))
		return
	}

	if len(pendingTasks) == 0 {
		r.logger.Debug("no pending tasks found")
		return
	}
	r.logger.Info("found pending tasks", zap.Int("count", len(pendingTasks)))

	for _, task := range pendingTasks {
		if ctx.Err() != nil {
			return
		}
		r.execute(ctx, task)
	}
}

// execute runs one task, retrying up to MaxAttempt, and records every attempt
func (r *Runner) execute(ctx context.Context, task models.ScheduledTask) {
	log := r.logger.With(zap.String("task", task.TaskName), zap.Uint("task_id", task.ID))
	log.Info("processing task")

	// Inject MaxAttempt into arguments if not present
	if task.Arguments == nil {
		task.Arguments = make(map[string]interface{})
	}
	task.Arguments["max_attempt"] = task.MaxAttempt

	handler, found := r.registry.Get(task.TaskName)
	if !found {
		log.Warn("task handler not found, marking as failure")
		now := r.now()
		r.db.WithContext(ctx).Model(&task).Updates(map[string]interface{}{
			"status":   models.ScheduledTaskStatusFailure,
			"last_run": &now,
		})
		r.db.WithContext(ctx).Create(&models.ScheduledTaskHistory{
			ScheduledTaskID: task.ID,
			TaskName:        task.TaskName,
			RunAt:           now,
			Status:          models.TaskRunHandlerNotFound,
			AttemptNumber:   1,
			Arguments:       task.Arguments,
			Result:          map[string]interface{}{"error": "Handler not found"},
		})
		return
	}

	maxAttempt := task.MaxAttempt
	if maxAttempt < 1 {
		maxAttempt = 1
	}

	var startTime time.Time
	succeeded := false
	for attempt := 1; attempt <= maxAttempt && !succeeded; attempt++ {
		if ctx.Err() != nil {
			return
		}

		startTime = r.now()
		result, err := handler(ctx, r.db, task.Arguments)
		runtime := r.now().Sub(startTime)

		history := models.ScheduledTaskHistory{
			ScheduledTaskID: task.ID,
			TaskName:        task.TaskName,
			RunAt:           startTime,
			Runtime:         int(runtime.Milliseconds()),
			Status:          models.TaskRunSuccess,
			AttemptNumber:   attempt,
			Arguments:       task.Arguments,
			Result:          result,
		}
		if err != nil {
			history.Status = models.TaskRunFailure
			history.Result = map[string]interface{}{"error": err.Error()}
			log.Warn("task attempt failed", zap.Int("attempt", attempt), zap.Error(err))
		} else {
			succeeded = true
			log.Info("task completed successfully", zap.Int("attempt", attempt))
		}
		r.db.WithContext(ctx).Create(&history)
	}

	r.db.WithContext(ctx).Model(&task).Updates(settle(task, succeeded, startTime))
}

// settle computes the task's column updates after its final attempt
func settle(task models.ScheduledTask, succeeded bool, ranAt time.Time) map[string]interface{} {
	status, nextDue := task.Outcome(succeeded, ranAt)
	updates := map[string]interface{}{
		"status":   status,
		"last_run": &ranAt,
	}
	if nextDue != nil {
		updates["due"] = *nextDue
	}
	return updates
}
