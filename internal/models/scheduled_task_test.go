package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestNextDueAfter(t *testing.T) {
	due := time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		task ScheduledTask
		want time.Time
	}{
		{
			name: "one time keeps due",
			task: ScheduledTask{TaskType: ScheduledTaskTypeOneTime, Due: due},
			want: due,
		},
		{
			name: "daily advances past now",
			task: ScheduledTask{TaskType: ScheduledTaskTypeRecurring, Due: due, RecurringInterval: strPtr("FREQ=DAILY")},
			want: time.Date(2024, 1, 11, 3, 0, 0, 0, time.UTC),
		},
		{
			name: "every six hours",
			task: ScheduledTask{TaskType: ScheduledTaskTypeRecurring, Due: due, RecurringInterval: strPtr("FREQ=HOURLY;INTERVAL=6")},
			want: time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC),
		},
		{
			name: "exhausted rule keeps due",
			task: ScheduledTask{TaskType: ScheduledTaskTypeRecurring, Due: due, RecurringInterval: strPtr("FREQ=DAILY;COUNT=2")},
			want: due,
		},
		{
			name: "invalid rule keeps due",
			task: ScheduledTask{TaskType: ScheduledTaskTypeRecurring, Due: due, RecurringInterval: strPtr("EVERY TUESDAY")},
			want: due,
		},
		{
			name: "missing rule keeps due",
			task: ScheduledTask{TaskType: ScheduledTaskTypeRecurring, Due: due},
			want: due,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.NextDueAfter(now))
		})
	}
}

func TestValidateRecurrence(t *testing.T) {
	assert.NoError(t, ValidateRecurrence("FREQ=HOURLY;INTERVAL=6"))
	assert.Error(t, ValidateRecurrence("sometimes"))
}

func TestOutcome(t *testing.T) {
	due := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	ranAt := due.Add(time.Minute)
	weekly := "FREQ=WEEKLY"

	recurring := ScheduledTask{TaskType: ScheduledTaskTypeRecurring, Due: due, RecurringInterval: &weekly}
	status, next := recurring.Outcome(false, ranAt)
	assert.Equal(t, ScheduledTaskStatusActive, status)
	if assert.NotNil(t, next) {
		assert.Equal(t, due.AddDate(0, 0, 7), *next)
	}

	oneTime := ScheduledTask{TaskType: ScheduledTaskTypeOneTime, Due: due}
	status, next = oneTime.Outcome(true, ranAt)
	assert.Equal(t, ScheduledTaskStatusDone, status)
	assert.Nil(t, next)

	broken := ScheduledTask{TaskType: ScheduledTaskTypeRecurring, Due: due}
	status, next = broken.Outcome(false, ranAt)
	assert.Equal(t, ScheduledTaskStatusFailure, status)
	assert.Nil(t, next)
	_, err := broken.Recurrence()
	assert.Error(t, err)
}
