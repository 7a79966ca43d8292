package services

import (
	"log"

	"github.com/MrSirThe1st/blob-app-sub001/models"
	"github.com/MrSirThe1st/blob-app-sub001/utils"
)

const (
	fallbackStartMinutes    = 9 * 60 // 09:00
	fallbackGapMinutes      = 15
	fallbackDefaultDuration = 45
	fallbackMaxTasks        = 6

	// FallbackDisclosure is the single recommendation every fallback schedule
	// carries so callers can tell which path produced it.
	FallbackDisclosure = "This schedule was generated with the basic scheduler because the AI planner was unavailable. Regenerate later for an optimized plan."
)

// BuildFallbackSchedule deterministically places up to the first six candidate
// tasks into sequential time blocks starting at 09:00, separated by fixed
// 15-minute gaps. It makes no external calls and always succeeds, including
// for an empty task list.
//
// The two fixed buffers are appended regardless of where task blocks fall, so
// they can overlap long plans. Known gap; see the overlap validation on the
// AI path for the stricter behavior.
func BuildFallbackSchedule(userID string, date string, tasks []*models.Task) *models.Schedule {
	if len(tasks) > fallbackMaxTasks {
		log.Printf("INFO: [FallbackScheduler] %d candidate tasks for userID %s; placing the first %d and dropping the rest.", len(tasks), userID, fallbackMaxTasks)
		tasks = tasks[:fallbackMaxTasks]
	}

	var blocks []models.TimeBlock
	cursor := fallbackStartMinutes
	workMinutes := 0
	for _, task := range tasks {
		duration := task.EstimatedDuration
		if duration <= 0 {
			duration = fallbackDefaultDuration
		}
		block := models.TimeBlock{
			StartTime:          utils.FormatClock(cursor),
			EndTime:            utils.FormatClock(cursor + duration),
			TaskID:             task.ID,
			Title:              task.Title,
			Priority:           task.Priority,
			EnergyLevel:        task.EnergyLevelRequired,
			FocusType:          string(task.Type),
			OptimizationReason: "Sequential placement (fallback scheduler)",
		}
		blocks = append(blocks, block)
		cursor += duration + fallbackGapMinutes
		workMinutes += duration
	}

	buffers := []models.BufferBlock{
		{StartTime: "12:00", EndTime: "13:00", Purpose: "Lunch break"},
		{StartTime: "15:30", EndTime: "15:45", Purpose: "Afternoon break"},
	}
	breakMinutes := 60 + 15

	var highEnergy, lowEnergy []uint
	for _, task := range tasks {
		if task.EnergyLevelRequired == models.EnergyHigh {
			highEnergy = append(highEnergy, task.ID)
		} else if task.EnergyLevelRequired == models.EnergyLow {
			lowEnergy = append(lowEnergy, task.ID)
		}
	}

	workHours := float64(workMinutes) / 60.0
	breakHours := float64(breakMinutes) / 60.0

	return &models.Schedule{
		UserID:          userID,
		Date:            date,
		TimeBlocks:      blocks,
		BufferBlocks:    buffers,
		Recommendations: []string{FallbackDisclosure},
		EnergyOptimization: models.EnergyOptimization{
			HighEnergyTasks: highEnergy,
			LowEnergyTasks:  lowEnergy,
			SuggestedBreaks: []string{"12:00", "15:30"},
		},
		WorkLifeBalance: models.WorkLifeBalance{
			WorkTime:     workHours,
			PersonalTime: balancePersonalHours(workHours, breakHours),
			BreakTime:    breakHours,
			BalanceScore: 0.7,
		},
	}
}

// balancePersonalHours treats the rest of a 16-hour waking day as personal time.
func balancePersonalHours(workHours, breakHours float64) float64 {
	personal := 16.0 - workHours - breakHours
	if personal < 0 {
		return 0
	}
	return personal
}
