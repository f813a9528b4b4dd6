package tasks

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LogInfoTaskDef encapsulates the log info task
type LogInfoTaskDef struct {
	logger *zap.Logger
}

// TaskID returns the unique identifier for this task
func (t *LogInfoTaskDef) TaskID() string {
	return "log_info"
}

// HandleExecution handles logging information
func (t *LogInfoTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, args map[string]interface{}) (map[string]interface{}, error) {
	message, ok := args["message"].(string)
	if !ok {
		message = "No message provided"
	}
	t.logger.Info("log_info task", zap.String("message", message))

	return map[string]interface{}{
		"status":            "success",
		"message":           message,
		"max_attempts_info": args["max_attempt"],
	}, nil
}
