package services

import (
	"fmt"
	"testing"

	"github.com/MrSirThe1st/blob-app-sub001/models"
	"github.com/MrSirThe1st/blob-app-sub001/utils"

	"github.com/stretchr/testify/assert"
)

func fallbackTasks(n int) []*models.Task {
	tasks := make([]*models.Task, 0, n)
	for i := 0; i < n; i++ {
		tasks = append(tasks, &models.Task{
			ID:                  uint(i + 1),
			UserID:              "user1",
			Title:               fmt.Sprintf("Task %d", i+1),
			Type:                models.TaskTypeOneTime,
			Priority:            models.PriorityMedium,
			EstimatedDuration:   30,
			EnergyLevelRequired: models.EnergyMedium,
			DifficultyLevel:     5,
		})
	}
	return tasks
}

func TestBuildFallbackSchedule(t *testing.T) {
	t.Run("Places tasks sequentially from 09:00 with 15-minute gaps", func(t *testing.T) {
		tasks := fallbackTasks(3)
		schedule := BuildFallbackSchedule("user1", "2026-08-24", tasks)

		assert.Len(t, schedule.TimeBlocks, 3)
		assert.Equal(t, "09:00", schedule.TimeBlocks[0].StartTime)
		assert.Equal(t, "09:30", schedule.TimeBlocks[0].EndTime)
		assert.Equal(t, "09:45", schedule.TimeBlocks[1].StartTime)
		assert.Equal(t, "10:15", schedule.TimeBlocks[1].EndTime)
		assert.Equal(t, "10:30", schedule.TimeBlocks[2].StartTime)

		for i := 1; i < len(schedule.TimeBlocks); i++ {
			prevEnd, err := utils.ParseClock(schedule.TimeBlocks[i-1].EndTime)
			assert.NoError(t, err)
			start, err := utils.ParseClock(schedule.TimeBlocks[i].StartTime)
			assert.NoError(t, err)
			assert.Equal(t, 15, start-prevEnd, "blocks %d and %d should be separated by exactly 15 minutes", i-1, i)
		}
	})

	t.Run("Caps placement at 6 tasks and drops the rest", func(t *testing.T) {
		schedule := BuildFallbackSchedule("user1", "2026-08-24", fallbackTasks(8))

		assert.Len(t, schedule.TimeBlocks, 6)
		assert.Equal(t, uint(6), schedule.TimeBlocks[5].TaskID)
	})

	t.Run("Defaults unset durations to 45 minutes", func(t *testing.T) {
		tasks := fallbackTasks(1)
		tasks[0].EstimatedDuration = 0
		schedule := BuildFallbackSchedule("user1", "2026-08-24", tasks)

		assert.Equal(t, "09:00", schedule.TimeBlocks[0].StartTime)
		assert.Equal(t, "09:45", schedule.TimeBlocks[0].EndTime)
	})

	t.Run("Deterministic for the same input", func(t *testing.T) {
		tasks := fallbackTasks(5)
		first := BuildFallbackSchedule("user1", "2026-08-24", tasks)
		second := BuildFallbackSchedule("user1", "2026-08-24", tasks)

		assert.Equal(t, first.TimeBlocks, second.TimeBlocks)
		assert.Equal(t, first.BufferBlocks, second.BufferBlocks)
		assert.Equal(t, first.Recommendations, second.Recommendations)
	})

	t.Run("Empty task list still yields the two fixed buffers", func(t *testing.T) {
		schedule := BuildFallbackSchedule("user1", "2026-08-24", nil)

		assert.Empty(t, schedule.TimeBlocks)
		assert.Len(t, schedule.BufferBlocks, 2)
		assert.Equal(t, "Lunch break", schedule.BufferBlocks[0].Purpose)
		assert.Equal(t, "Afternoon break", schedule.BufferBlocks[1].Purpose)
		assert.Equal(t, []string{FallbackDisclosure}, schedule.Recommendations)
		assert.Equal(t, 0.0, schedule.WorkLifeBalance.WorkTime)
	})

	t.Run("Carries exactly one disclosure recommendation", func(t *testing.T) {
		schedule := BuildFallbackSchedule("user1", "2026-08-24", fallbackTasks(4))
		assert.Equal(t, []string{FallbackDisclosure}, schedule.Recommendations)
	})

	t.Run("Buckets tasks by required energy", func(t *testing.T) {
		tasks := fallbackTasks(3)
		tasks[0].EnergyLevelRequired = models.EnergyHigh
		tasks[2].EnergyLevelRequired = models.EnergyLow
		schedule := BuildFallbackSchedule("user1", "2026-08-24", tasks)

		assert.Equal(t, []uint{1}, schedule.EnergyOptimization.HighEnergyTasks)
		assert.Equal(t, []uint{3}, schedule.EnergyOptimization.LowEnergyTasks)
	})
}
