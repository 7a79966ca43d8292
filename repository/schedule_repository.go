package repository

import (
	"errors"
	"fmt"
	"log"

	"github.com/MrSirThe1st/blob-app-sub001/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScheduleRepository defines the interface for persisting generated schedules.
// A schedule is owned exclusively by its (user, date) pair; regenerating for
// the same date overwrites the prior row (last write wins).
type ScheduleRepository interface {
	UpsertSchedule(schedule *models.Schedule) error
	GetScheduleByUserAndDate(userID string, date string) (*models.Schedule, error)
}

type scheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository creates a new instance of ScheduleRepository.
func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

// UpsertSchedule inserts or replaces the schedule for (user, date).
func (r *scheduleRepository) UpsertSchedule(schedule *models.Schedule) error {
	if schedule == nil {
		return errors.New("schedule cannot be nil")
	}
	if schedule.UserID == "" || schedule.Date == "" {
		return errors.New("schedule must have a userID and date")
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"time_blocks", "buffer_blocks", "recommendations",
			"energy_optimization", "work_life_balance",
			"optimization_score", "adaptability_score", "updated_at",
		}),
	}).Create(schedule).Error
	if err != nil {
		log.Printf("ERROR: [ScheduleRepository] Failed to upsert schedule for userID %s on %s: %v", schedule.UserID, schedule.Date, err)
		return fmt.Errorf("failed to upsert schedule for %s on %s: %w", schedule.UserID, schedule.Date, err)
	}
	log.Printf("INFO: [ScheduleRepository] Upserted schedule for userID %s on %s (%d time blocks).", schedule.UserID, schedule.Date, len(schedule.TimeBlocks))
	return nil
}

// GetScheduleByUserAndDate retrieves the schedule for (user, date).
// Returns (nil, nil) when not found.
func (r *scheduleRepository) GetScheduleByUserAndDate(userID string, date string) (*models.Schedule, error) {
	var schedule models.Schedule
	err := r.db.Where("user_id = ? AND date = ?", userID, date).First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("ERROR: [ScheduleRepository] Failed to retrieve schedule for userID %s on %s: %v", userID, date, err)
		return nil, fmt.Errorf("failed to retrieve schedule for %s on %s: %w", userID, date, err)
	}
	return &schedule, nil
}
