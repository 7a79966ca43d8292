package services

import (
	"fmt"
	"log"

	"github.com/MrSirThe1st/blob-app-sub001/models"
)

const (
	energyHistoryLimit = 50

	// Hours outside 06:00-22:00 are ignored when ranking completion density.
	energyWindowStartHour = 6
	energyWindowEndHour   = 22

	defaultPeakWindow      = "09:00-11:00"
	defaultLowWindow       = "14:00-16:00" // documented post-lunch default
	defaultSecondaryWindow = "19:00-21:00"
	morningWindow          = "09:00-11:00"
	eveningWindow          = "19:00-21:00"
)

// EnergyAnalyzer infers a user's daily energy pattern from historical
// task-completion timestamps. This is a heuristic density ranking, not a
// statistical model.
type EnergyAnalyzer interface {
	AnalyzeEnergyPattern(completedTasks []*models.Task) models.EnergyPattern
}

type energyAnalyzer struct{}

// NewEnergyAnalyzer creates a new instance of EnergyAnalyzer.
func NewEnergyAnalyzer() EnergyAnalyzer {
	return &energyAnalyzer{}
}

// AnalyzeEnergyPattern buckets completions by hour of day and picks the
// densest hour as the start of a 2-hour peak window. The low window is fixed
// to the post-lunch default. With zero usable history it returns the default
// pattern.
func (a *energyAnalyzer) AnalyzeEnergyPattern(completedTasks []*models.Task) models.EnergyPattern {
	if len(completedTasks) > energyHistoryLimit {
		completedTasks = completedTasks[:energyHistoryLimit]
	}

	counts := make(map[int]int)
	total := 0
	for _, task := range completedTasks {
		if task == nil || !task.CompletedAt.Valid {
			continue
		}
		hour := task.CompletedAt.Time.Hour()
		if hour < energyWindowStartHour || hour >= energyWindowEndHour {
			continue
		}
		counts[hour]++
		total++
	}

	if total == 0 {
		log.Printf("INFO: [EnergyAnalyzer] No usable completion history; returning default energy pattern.")
		return models.EnergyPattern{
			Type:          "balanced",
			Peak:          defaultPeakWindow,
			Low:           defaultLowWindow,
			SecondaryPeak: defaultSecondaryWindow,
		}
	}

	// Densest hour wins; ties resolve to the earliest hour so the result is
	// deterministic for a fixed history.
	peakHour := -1
	peakCount := 0
	for hour := energyWindowStartHour; hour < energyWindowEndHour; hour++ {
		if counts[hour] > peakCount {
			peakHour = hour
			peakCount = counts[hour]
		}
	}

	pattern := models.EnergyPattern{
		Peak: fmt.Sprintf("%02d:00-%02d:00", peakHour, peakHour+2),
		Low:  defaultLowWindow,
	}
	if peakHour < 12 {
		pattern.Type = "morning_person"
		pattern.SecondaryPeak = eveningWindow
	} else if peakHour >= 17 {
		pattern.Type = "night_owl"
		pattern.SecondaryPeak = morningWindow
	} else {
		pattern.Type = "balanced"
		pattern.SecondaryPeak = morningWindow
	}

	log.Printf("INFO: [EnergyAnalyzer] Inferred energy pattern '%s' (peak %s) from %d completions.", pattern.Type, pattern.Peak, total)
	return pattern
}
