package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bridgeway_site_echo/internal/config"
	"bridgeway_site_echo/internal/logging"
	"bridgeway_site_echo/internal/models"
	"bridgeway_site_echo/internal/services"
	"bridgeway_site_echo/internal/tasks"
)

// dueLayout is the local-time format accepted besides RFC3339
const dueLayout = "2006-01-02 15:04"

type options struct {
	taskName   string
	arguments  string
	due        string
	taskType   string
	recurring  string
	maxAttempt int
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "schedule_task",
		Short: "Enqueue a scheduled task for the worker",
		Example: `  schedule_task --task-name log_info --arguments '{"message":"hello"}' --due "2024-07-01 09:00"
  schedule_task --task-name refresh_news --due now --tasktype recurring --recurring "FREQ=HOURLY;INTERVAL=6"`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := buildTask(opts, time.Now())
			if err != nil {
				return err
			}
			return create(cmd, task)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.taskName, "task-name", "", "Name of the task")
	flags.StringVar(&opts.arguments, "arguments", "{}", "JSON object of task arguments")
	flags.StringVar(&opts.due, "due", "", `Due time: "now", RFC3339, or "2006-01-02 15:04" in local time`)
	flags.StringVar(&opts.taskType, "tasktype", string(models.ScheduledTaskTypeOneTime), "Task type: onetime or recurring")
	flags.StringVar(&opts.recurring, "recurring", "", "RRULE for recurring tasks, e.g. FREQ=DAILY")
	flags.IntVar(&opts.maxAttempt, "max-attempt", 3, "Attempts per run before the task is marked failed")
	_ = cmd.MarkFlagRequired("task-name")
	_ = cmd.MarkFlagRequired("due")

	return cmd
}

func create(cmd *cobra.Command, task *models.ScheduledTask) error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}

	logger, err := logging.New(cfg.Env, "warn")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := services.InitDB(cfg.DatabaseURL, true, logger)
	if err != nil {
		return err
	}

	if err := db.WithContext(cmd.Context()).Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	logger.Debug("task created", zap.Uint("id", task.ID))
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Successfully created task ID: %d\n", task.ID)
	fmt.Fprintf(out, "Task: %s\nDue: %s\nType: %s\n", task.TaskName, task.Due.Format(time.RFC3339), task.TaskType)
	return nil
}

// buildTask validates the flags and assembles the task record
func buildTask(opts options, now time.Time) (*models.ScheduledTask, error) {
	if opts.taskName == "" {
		return nil, errors.New("--task-name is required")
	}

	var args map[string]interface{}
	if opts.arguments != "" {
		if err := json.Unmarshal([]byte(opts.arguments), &args); err != nil {
			return nil, fmt.Errorf("invalid JSON arguments: %w", err)
		}
	}

	due, err := parseDue(opts.due, now)
	if err != nil {
		return nil, err
	}

	taskType := models.ScheduledTaskType(opts.taskType)
	var recurring *string
	switch taskType {
	case models.ScheduledTaskTypeOneTime:
		if opts.recurring != "" {
			return nil, errors.New("--recurring requires --tasktype recurring")
		}
	case models.ScheduledTaskTypeRecurring:
		if opts.recurring == "" {
			return nil, errors.New("--recurring is required for recurring tasks")
		}
		if err := models.ValidateRecurrence(opts.recurring); err != nil {
			return nil, fmt.Errorf("invalid --recurring rule: %w", err)
		}
		recurring = &opts.recurring
	default:
		return nil, fmt.Errorf("unknown --tasktype %q", opts.taskType)
	}

	if opts.maxAttempt < 1 {
		return nil, errors.New("--max-attempt must be at least 1")
	}

	return tasks.BuildScheduledTask(opts.taskName, args, due, recurring, taskType, opts.maxAttempt)
}

func parseDue(raw string, now time.Time) (time.Time, error) {
	switch raw {
	case "":
		return time.Time{}, errors.New("--due is required")
	case "now":
		return now, nil
	}
	if due, err := time.Parse(time.RFC3339, raw); err == nil {
		return due, nil
	}
	due, err := time.ParseInLocation(dueLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q: use now, RFC3339 or %q", raw, dueLayout)
	}
	return due, nil
}
