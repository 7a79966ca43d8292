package services

import (
	"strings"

	"github.com/MrSirThe1st/blob-app-sub001/models"
	"github.com/MrSirThe1st/blob-app-sub001/utils"
)

// Schedule scoring. Both scores are pure functions over a finished schedule
// and the energy pattern that produced it; they work identically whether the
// schedule came from the AI path or the fallback scheduler, and are recomputed
// in full on every generation.

// CalculateOptimizationScore returns a 0-100 composite quality metric:
// energy alignment (30), context-switch minimization (20), work-life balance
// (20), buffer adequacy (15) and priority alignment (15).
func CalculateOptimizationScore(schedule *models.Schedule, pattern models.EnergyPattern) float64 {
	if schedule == nil {
		return 0
	}

	score := 0.0
	score += 30 * energyAlignmentRatio(schedule.TimeBlocks, pattern)
	score += 20 * contextSwitchRatio(schedule.TimeBlocks)
	score += 20 * balanceComponent(schedule.WorkLifeBalance)
	score += 15 * bufferAdequacyRatio(schedule)
	score += 15 * priorityAlignmentRatio(schedule.TimeBlocks, pattern)

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// CalculateAdaptabilityScore returns a 0-1 metric of how much slack the
// schedule retains: the buffer/scheduled minute ratio mapped onto fixed bands.
func CalculateAdaptabilityScore(schedule *models.Schedule) float64 {
	if schedule == nil {
		return 0
	}
	scheduled := totalBlockMinutes(schedule.TimeBlocks)
	if scheduled == 0 {
		// Nothing scheduled means the whole day is slack.
		return 1.0
	}
	ratio := float64(totalBufferMinutes(schedule.BufferBlocks)) / float64(scheduled)

	switch {
	case ratio >= 0.15 && ratio <= 0.25:
		return 1.0
	case ratio >= 0.10 && ratio <= 0.35:
		return 0.8
	case ratio >= 0.05 && ratio <= 0.45:
		return 0.6
	default:
		return 0.4
	}
}

// energyAlignmentRatio is the fraction of high-energy blocks whose start time
// falls inside the peak window. No high-energy blocks counts as aligned.
func energyAlignmentRatio(blocks []models.TimeBlock, pattern models.EnergyPattern) float64 {
	total := 0
	aligned := 0
	for _, block := range blocks {
		if block.EnergyLevel != models.EnergyHigh {
			continue
		}
		total++
		if startsInWindow(block.StartTime, pattern.Peak) {
			aligned++
		}
	}
	if total == 0 {
		return 1.0
	}
	return float64(aligned) / float64(total)
}

// contextSwitchRatio is 1 - switches/transitions, where a switch is any
// adjacent pair of blocks with differing focus types. Fewer than two blocks
// means no transitions and a perfect sub-score.
func contextSwitchRatio(blocks []models.TimeBlock) float64 {
	if len(blocks) < 2 {
		return 1.0
	}
	switches := 0
	for i := 1; i < len(blocks); i++ {
		if blocks[i].FocusType != blocks[i-1].FocusType {
			switches++
		}
	}
	transitions := len(blocks) - 1
	return 1.0 - float64(switches)/float64(transitions)
}

// balanceComponent uses the schedule's own balance score, defaulting to 0.7
// when none was set.
func balanceComponent(balance models.WorkLifeBalance) float64 {
	if balance.BalanceScore <= 0 {
		return 0.7
	}
	if balance.BalanceScore > 1 {
		return 1.0
	}
	return balance.BalanceScore
}

// bufferAdequacyRatio scores 1.0 when total buffer time is 15-20% of total
// scheduled time, degrading linearly to 0 at the 10% and 25% boundaries.
func bufferAdequacyRatio(schedule *models.Schedule) float64 {
	scheduled := totalBlockMinutes(schedule.TimeBlocks)
	if scheduled == 0 {
		return 1.0
	}
	ratio := float64(totalBufferMinutes(schedule.BufferBlocks)) / float64(scheduled)

	switch {
	case ratio >= 0.15 && ratio <= 0.20:
		return 1.0
	case ratio > 0.10 && ratio < 0.15:
		return (ratio - 0.10) / 0.05
	case ratio > 0.20 && ratio < 0.25:
		return (0.25 - ratio) / 0.05
	default:
		return 0.0
	}
}

// priorityAlignmentRatio is the fraction of high-priority blocks whose start
// falls inside either the peak or the secondary-peak window.
func priorityAlignmentRatio(blocks []models.TimeBlock, pattern models.EnergyPattern) float64 {
	total := 0
	aligned := 0
	for _, block := range blocks {
		if block.Priority != models.PriorityHigh {
			continue
		}
		total++
		if startsInWindow(block.StartTime, pattern.Peak) || startsInWindow(block.StartTime, pattern.SecondaryPeak) {
			aligned++
		}
	}
	if total == 0 {
		return 1.0
	}
	return float64(aligned) / float64(total)
}

// startsInWindow reports whether an HH:MM start time falls inside an
// "HH:MM-HH:MM" window. Malformed inputs count as outside.
func startsInWindow(start string, window string) bool {
	parts := strings.SplitN(window, "-", 2)
	if len(parts) != 2 {
		return false
	}
	startMin, err := utils.ParseClock(start)
	if err != nil {
		return false
	}
	winStart, err := utils.ParseClock(parts[0])
	if err != nil {
		return false
	}
	winEnd, err := utils.ParseClock(parts[1])
	if err != nil {
		return false
	}
	return startMin >= winStart && startMin < winEnd
}

func totalBlockMinutes(blocks []models.TimeBlock) int {
	total := 0
	for _, block := range blocks {
		start, err1 := utils.ParseClock(block.StartTime)
		end, err2 := utils.ParseClock(block.EndTime)
		if err1 != nil || err2 != nil || end <= start {
			continue
		}
		total += end - start
	}
	return total
}

func totalBufferMinutes(buffers []models.BufferBlock) int {
	total := 0
	for _, buffer := range buffers {
		start, err1 := utils.ParseClock(buffer.StartTime)
		end, err2 := utils.ParseClock(buffer.EndTime)
		if err1 != nil || err2 != nil || end <= start {
			continue
		}
		total += end - start
	}
	return total
}
