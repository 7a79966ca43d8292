package repository

import (
	"errors"
	"fmt"
	"log"

	"github.com/MrSirThe1st/blob-app-sub001/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// XPRepository defines the interface for the per-user XP total.
type XPRepository interface {
	// AddXP atomically adds points to the user's total and returns the new total.
	AddXP(userID string, points int) (int, error)
	GetTotalXP(userID string) (int, error)
}

type xpRepository struct {
	db *gorm.DB
}

// NewXPRepository creates a new instance of XPRepository.
func NewXPRepository(db *gorm.DB) XPRepository {
	return &xpRepository{db: db}
}

// AddXP increments the user's XP total with a store-level upsert expression,
// so two concurrent completions cannot overwrite each other's update.
func (r *xpRepository) AddXP(userID string, points int) (int, error) {
	if userID == "" {
		return 0, errors.New("userID cannot be empty")
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_xp": gorm.Expr("total_xp + ?", points),
		}),
	}).Create(&models.UserXP{UserID: userID, TotalXP: points}).Error
	if err != nil {
		log.Printf("ERROR: [XPRepository] Failed to add %d XP for userID %s: %v", points, userID, err)
		return 0, fmt.Errorf("failed to add XP for userID %s: %w", userID, err)
	}

	total, err := r.GetTotalXP(userID)
	if err != nil {
		return 0, err
	}
	log.Printf("INFO: [XPRepository] Added %d XP for userID %s (total now %d).", points, userID, total)
	return total, nil
}

// GetTotalXP returns the user's current XP total. A missing row reads as 0.
func (r *xpRepository) GetTotalXP(userID string) (int, error) {
	var record models.UserXP
	err := r.db.Where("user_id = ?", userID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		log.Printf("ERROR: [XPRepository] Failed to read XP total for userID %s: %v", userID, err)
		return 0, fmt.Errorf("failed to read XP total for userID %s: %w", userID, err)
	}
	return record.TotalXP, nil
}
