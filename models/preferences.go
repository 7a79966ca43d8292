package models

import (
	"time"
)

// UserPreferences stores a user's fixed scheduling boundaries. Missing rows
// resolve to documented defaults at read time, never to an error.
type UserPreferences struct {
	ID             uint         `gorm:"primarykey" json:"id"`
	UserID         string       `gorm:"uniqueIndex;not null" json:"user_id"`
	WorkStart      string       `gorm:"default:'09:00'" json:"work_start"` // HH:MM
	WorkEnd        string       `gorm:"default:'17:00'" json:"work_end"`   // HH:MM
	Breaks         []TimeWindow `gorm:"serializer:json" json:"breaks"`
	BlockedTimes   []TimeWindow `gorm:"serializer:json" json:"blocked_times"`
	PreferredTimes []TimeWindow `gorm:"serializer:json" json:"preferred_times"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the UserPreferences model.
func (UserPreferences) TableName() string {
	return "user_preferences"
}
