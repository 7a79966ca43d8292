package models

import (
	"time"
)

// TimeBlock is an atomic schedule entry: one task placed into one HH:MM interval.
type TimeBlock struct {
	StartTime          string       `json:"startTime"` // HH:MM, same-day
	EndTime            string       `json:"endTime"`   // HH:MM, must be after StartTime
	TaskID             uint         `json:"taskId"`
	Title              string       `json:"title"`
	Priority           TaskPriority `json:"priority"`
	EnergyLevel        EnergyLevel  `json:"energyLevel"`
	FocusType          string       `json:"focusType"` // free-text category, used to detect context switches
	OptimizationReason string       `json:"optimizationReason"`
}

// BufferBlock is a reserved, task-free interval.
type BufferBlock struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Purpose   string `json:"purpose"`
}

// EnergyOptimization summarizes how the schedule maps tasks onto the user's
// energy curve.
type EnergyOptimization struct {
	HighEnergyTasks []uint   `json:"highEnergyTasks"`
	LowEnergyTasks  []uint   `json:"lowEnergyTasks"`
	SuggestedBreaks []string `json:"suggestedBreaks"` // HH:MM timestamps
}

// WorkLifeBalance summarizes the day's split between work, personal and break
// time. BalanceScore is 0-1.
type WorkLifeBalance struct {
	WorkTime     float64 `json:"workTime"`     // hours
	PersonalTime float64 `json:"personalTime"` // hours
	BreakTime    float64 `json:"breakTime"`    // hours
	BalanceScore float64 `json:"balanceScore"`
}

// Schedule is the per-(user, date) daily plan aggregate. Regenerating a
// schedule for the same date overwrites the prior one (upsert, no versioning).
type Schedule struct {
	ID                 uint               `gorm:"primarykey" json:"id"`
	UserID             string             `gorm:"uniqueIndex:idx_schedules_user_date;not null" json:"user_id"`
	Date               string             `gorm:"uniqueIndex:idx_schedules_user_date;not null" json:"date"` // YYYY-MM-DD
	TimeBlocks         []TimeBlock        `gorm:"serializer:json" json:"timeBlocks"`
	BufferBlocks       []BufferBlock      `gorm:"serializer:json" json:"bufferBlocks"`
	Recommendations    []string           `gorm:"serializer:json" json:"recommendations"`
	EnergyOptimization EnergyOptimization `gorm:"serializer:json" json:"energyOptimization"`
	WorkLifeBalance    WorkLifeBalance    `gorm:"serializer:json" json:"workLifeBalance"`
	OptimizationScore  float64            `json:"optimizationScore"` // 0-100
	AdaptabilityScore  float64            `json:"adaptabilityScore"` // 0-1
	CreatedAt          time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Schedule model.
func (Schedule) TableName() string {
	return "schedules"
}
