package models

import (
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// TaskType defines the recurrence category of a task.
type TaskType string

const (
	TaskTypeDailyHabit TaskType = "daily_habit"
	TaskTypeWeeklyTask TaskType = "weekly_task"
	TaskTypeOneTime    TaskType = "one_time"
)

// IsValid reports whether the task type is one of the known enum values.
func (t TaskType) IsValid() bool {
	switch t {
	case TaskTypeDailyHabit, TaskTypeWeeklyTask, TaskTypeOneTime:
		return true
	}
	return false
}

// TaskPriority defines the urgency level of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// IsValid reports whether the priority is one of the known enum values.
func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// TaskStatus defines the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusPending     TaskStatus = "pending"
	TaskStatusInProgress  TaskStatus = "in_progress"
	TaskStatusCompleted   TaskStatus = "completed"
	TaskStatusRescheduled TaskStatus = "rescheduled"
)

// EnergyLevel defines how much energy a task demands (or a block provides).
type EnergyLevel string

const (
	EnergyLow    EnergyLevel = "low"
	EnergyMedium EnergyLevel = "medium"
	EnergyHigh   EnergyLevel = "high"
)

// IsValid reports whether the energy level is one of the known enum values.
func (e EnergyLevel) IsValid() bool {
	switch e {
	case EnergyLow, EnergyMedium, EnergyHigh:
		return true
	}
	return false
}

// Task represents a single unit of work a user wants scheduled.
// Tasks are created by the task generation pipeline (AI-derived) or directly
// by the user, and are never hard-deleted by the core (soft lifecycle only).
type Task struct {
	ID                  uint         `gorm:"primarykey" json:"id"`
	UserID              string       `gorm:"index;not null" json:"user_id"`
	Title               string       `gorm:"not null" json:"title"`
	Description         string       `gorm:"type:text" json:"description"`
	Type                TaskType     `gorm:"type:varchar(50);not null" json:"type"`
	Priority            TaskPriority `gorm:"type:varchar(20);default:'medium';not null" json:"priority"`
	Status              TaskStatus   `gorm:"type:varchar(20);default:'pending';not null;index" json:"status"`
	EstimatedDuration   int          `gorm:"default:30" json:"estimated_duration"` // minutes
	EnergyLevelRequired EnergyLevel  `gorm:"type:varchar(20);default:'medium'" json:"energy_level_required"`
	DifficultyLevel     int          `gorm:"default:5" json:"difficulty_level"` // 1-10
	SuggestedTimeSlot   string       `json:"suggested_time_slot"`
	ScheduledDate       string       `gorm:"index" json:"scheduled_date"` // YYYY-MM-DD
	RelatedGoalID       *uint        `gorm:"index" json:"related_goal_id,omitempty"`
	SuccessCriteria     string       `gorm:"type:text" json:"success_criteria"`
	CompletedAt         sql.NullTime `json:"completed_at"`
	CreatedAt           time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Task model.
func (Task) TableName() string {
	return "tasks"
}
