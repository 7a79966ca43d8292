package repository

import (
	"errors"
	"fmt"
	"log"

	"github.com/MrSirThe1st/blob-app-sub001/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceRepository defines the interface for stored scheduling preferences.
type PreferenceRepository interface {
	// GetPreferences returns (nil, nil) when the user has no stored row.
	GetPreferences(userID string) (*models.UserPreferences, error)
	UpsertPreferences(prefs *models.UserPreferences) error
}

type preferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository creates a new instance of PreferenceRepository.
func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

// GetPreferences retrieves the user's stored preferences.
func (r *preferenceRepository) GetPreferences(userID string) (*models.UserPreferences, error) {
	var prefs models.UserPreferences
	err := r.db.Where("user_id = ?", userID).First(&prefs).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("ERROR: [PreferenceRepository] Failed to retrieve preferences for userID %s: %v", userID, err)
		return nil, fmt.Errorf("failed to retrieve preferences for userID %s: %w", userID, err)
	}
	return &prefs, nil
}

// UpsertPreferences inserts or replaces the user's preference row.
func (r *preferenceRepository) UpsertPreferences(prefs *models.UserPreferences) error {
	if prefs == nil {
		return errors.New("preferences cannot be nil")
	}
	if prefs.UserID == "" {
		return errors.New("preferences must have a userID")
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"work_start", "work_end", "breaks", "blocked_times", "preferred_times", "updated_at",
		}),
	}).Create(prefs).Error
	if err != nil {
		log.Printf("ERROR: [PreferenceRepository] Failed to upsert preferences for userID %s: %v", prefs.UserID, err)
		return fmt.Errorf("failed to upsert preferences for userID %s: %w", prefs.UserID, err)
	}
	log.Printf("INFO: [PreferenceRepository] Upserted preferences for userID %s.", prefs.UserID)
	return nil
}
