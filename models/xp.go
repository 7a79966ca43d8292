package models

import (
	"time"
)

// UserXP holds a user's running gamification point total. Increments go
// through an atomic store-level update so concurrent completions cannot
// under-credit the total.
type UserXP struct {
	UserID    string    `gorm:"primarykey" json:"user_id"`
	TotalXP   int       `gorm:"default:0;not null" json:"total_xp"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the UserXP model.
func (UserXP) TableName() string {
	return "user_xp"
}
