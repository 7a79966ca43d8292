package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/MrSirThe1st/blob-app-sub001/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func f64(v float64) *float64 { return &v }

func withFixedNow(t *testing.T, fixed time.Time) {
	t.Helper()
	prev := timeNow
	timeNow = func() time.Time { return fixed }
	t.Cleanup(func() { timeNow = prev })
}

func TestSanitizeTaskProposal(t *testing.T) {
	t.Run("Garbage enum fields coerce to defaults", func(t *testing.T) {
		task := sanitizeTaskProposal(taskProposal{
			Title:               "Read a chapter",
			Type:                "someday_maybe",
			Priority:            "urgent!!",
			EnergyLevelRequired: "cosmic",
		}, models.TaskTypeOneTime)

		assert.Equal(t, models.TaskTypeOneTime, task.Type)
		assert.Equal(t, models.PriorityMedium, task.Priority)
		assert.Equal(t, models.EnergyMedium, task.EnergyLevelRequired)
		assert.Equal(t, models.TaskStatusPending, task.Status)
	})

	t.Run("Enum values are case and whitespace insensitive", func(t *testing.T) {
		task := sanitizeTaskProposal(taskProposal{
			Title:               "Plan sprint",
			Type:                "  Weekly_Task ",
			Priority:            "HIGH",
			EnergyLevelRequired: "Low",
		}, models.TaskTypeOneTime)

		assert.Equal(t, models.TaskTypeWeeklyTask, task.Type)
		assert.Equal(t, models.PriorityHigh, task.Priority)
		assert.Equal(t, models.EnergyLow, task.EnergyLevelRequired)
	})

	t.Run("Duration is rounded and clamped to 5..480 minutes", func(t *testing.T) {
		assert.Equal(t, 480, sanitizeTaskProposal(taskProposal{EstimatedDuration: f64(10000)}, models.TaskTypeOneTime).EstimatedDuration)
		assert.Equal(t, 5, sanitizeTaskProposal(taskProposal{EstimatedDuration: f64(-5)}, models.TaskTypeOneTime).EstimatedDuration)
		assert.Equal(t, 25, sanitizeTaskProposal(taskProposal{EstimatedDuration: f64(24.6)}, models.TaskTypeOneTime).EstimatedDuration)
	})

	t.Run("Difficulty is rounded and clamped to 1..10", func(t *testing.T) {
		assert.Equal(t, 10, sanitizeTaskProposal(taskProposal{DifficultyLevel: f64(42)}, models.TaskTypeOneTime).DifficultyLevel)
		assert.Equal(t, 1, sanitizeTaskProposal(taskProposal{DifficultyLevel: f64(0.2)}, models.TaskTypeOneTime).DifficultyLevel)
		assert.Equal(t, 5, sanitizeTaskProposal(taskProposal{}, models.TaskTypeOneTime).DifficultyLevel, "missing difficulty defaults to 5")
	})

	t.Run("Blank title falls back to a placeholder", func(t *testing.T) {
		task := sanitizeTaskProposal(taskProposal{Title: "   "}, models.TaskTypeOneTime)
		assert.Equal(t, "Untitled task", task.Title)
	})
}

func TestGenerateTasksFromGoal(t *testing.T) {
	goal := GoalBreakdown{
		Title:       "Learn conversational Spanish",
		Summary:     "Reach A2 in six months",
		WeeklyTasks: []string{"One tutoring session"},
		DailyHabits: []string{"15 minutes of flashcards"},
	}
	goalID := uint(42)

	t.Run("Reasoning failure is returned to the caller", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		reasoning := &fakeReasoningClient{err: errors.New("upstream timeout")}
		service := NewTaskGenerationService(reasoning, taskRepo)

		tasks, err := service.GenerateTasksFromGoal(context.Background(), "user1", &goalID, goal)

		assert.Error(t, err)
		assert.Nil(t, tasks)
		taskRepo.AssertNotCalled(t, "CreateTasks", mock.Anything)
	})

	t.Run("Malformed payload is returned to the caller", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		reasoning := &fakeReasoningClient{payload: json.RawMessage(`{"tasks": "not a list"}`)}
		service := NewTaskGenerationService(reasoning, taskRepo)

		_, err := service.GenerateTasksFromGoal(context.Background(), "user1", &goalID, goal)
		assert.Error(t, err)
	})

	t.Run("Sanitized tasks are persisted with ownership and goal link", func(t *testing.T) {
		withFixedNow(t, time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC))

		taskRepo := new(MockTaskRepository)
		reasoning := &fakeReasoningClient{payload: json.RawMessage(`{
			"tasks": [
				{"title": "Book a tutor", "description": "", "type": "one_time", "priority": "high", "estimated_duration": 20, "energy_level_required": "medium", "difficulty_level": 3, "suggested_time_slot": "", "success_criteria": "Session booked"},
				{"title": "Flashcards", "description": "", "type": "daily_habit", "priority": "bogus", "estimated_duration": 900, "energy_level_required": "low", "difficulty_level": 2, "suggested_time_slot": "morning", "success_criteria": ""}
			],
			"recommendations": []
		}`)}
		service := NewTaskGenerationService(reasoning, taskRepo)

		var created []*models.Task
		taskRepo.On("CreateTasks", mock.MatchedBy(func(tasks []*models.Task) bool {
			created = tasks
			return len(tasks) == 2
		})).Return(nil).Once()

		tasks, err := service.GenerateTasksFromGoal(context.Background(), "user1", &goalID, goal)

		assert.NoError(t, err)
		assert.Len(t, tasks, 2)
		taskRepo.AssertExpectations(t)

		assert.Equal(t, "user1", created[0].UserID)
		assert.Equal(t, &goalID, created[0].RelatedGoalID)
		assert.Equal(t, models.TaskTypeOneTime, created[0].Type)
		assert.Equal(t, "", created[0].ScheduledDate, "one-time goal tasks stay unscheduled")

		assert.Equal(t, models.TaskTypeDailyHabit, created[1].Type)
		assert.Equal(t, "2026-08-24", created[1].ScheduledDate, "daily habits start today")
		assert.Equal(t, models.PriorityMedium, created[1].Priority)
		assert.Equal(t, 480, created[1].EstimatedDuration)
	})

	t.Run("Empty userID is rejected", func(t *testing.T) {
		service := NewTaskGenerationService(&fakeReasoningClient{}, new(MockTaskRepository))
		_, err := service.GenerateTasksFromGoal(context.Background(), "", nil, goal)
		assert.Error(t, err)
	})
}

func TestGenerateTasksFromOnboarding(t *testing.T) {
	profile := OnboardingProfile{Name: "Sam", Occupation: "Designer", PrimaryGoal: "Ship a portfolio"}

	t.Run("Reasoning failure reports non-success without an error", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		reasoning := &fakeReasoningClient{err: errors.New("upstream timeout")}
		service := NewTaskGenerationService(reasoning, taskRepo)

		result, err := service.GenerateTasksFromOnboarding(context.Background(), "user1", "conversation", profile, 7)

		assert.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, 0, result.TasksGenerated)
		assert.NotEmpty(t, result.Error)
		taskRepo.AssertNotCalled(t, "CreateTasks", mock.Anything)
	})

	t.Run("Zero proposed tasks reports non-success", func(t *testing.T) {
		reasoning := &fakeReasoningClient{payload: json.RawMessage(`{"tasks": [], "recommendations": []}`)}
		service := NewTaskGenerationService(reasoning, new(MockTaskRepository))

		result, err := service.GenerateTasksFromOnboarding(context.Background(), "user1", "conversation", profile, 7)

		assert.NoError(t, err)
		assert.False(t, result.Success)
	})

	t.Run("Unsupported horizon normalizes to 7 days", func(t *testing.T) {
		reasoning := &fakeReasoningClient{err: errors.New("stop before persistence")}
		service := NewTaskGenerationService(reasoning, new(MockTaskRepository))

		_, err := service.GenerateTasksFromOnboarding(context.Background(), "user1", "conversation", profile, 5)

		assert.NoError(t, err)
		assert.Contains(t, reasoning.lastUser, "Planning horizon: 7 days")
	})

	t.Run("Dates are assigned by task type across the horizon", func(t *testing.T) {
		withFixedNow(t, time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC))

		payload := `{
			"tasks": [
				{"title": "Habit A", "description": "", "type": "daily_habit", "priority": "low", "estimated_duration": 10, "energy_level_required": "low", "difficulty_level": 1, "suggested_time_slot": "", "success_criteria": ""},
				{"title": "Setup 1", "description": "", "type": "one_time", "priority": "medium", "estimated_duration": 30, "energy_level_required": "medium", "difficulty_level": 3, "suggested_time_slot": "", "success_criteria": ""},
				{"title": "Setup 2", "description": "", "type": "one_time", "priority": "medium", "estimated_duration": 30, "energy_level_required": "medium", "difficulty_level": 3, "suggested_time_slot": "", "success_criteria": ""},
				{"title": "Weekly 1", "description": "", "type": "weekly_task", "priority": "medium", "estimated_duration": 60, "energy_level_required": "medium", "difficulty_level": 4, "suggested_time_slot": "", "success_criteria": ""},
				{"title": "Weekly 2", "description": "", "type": "weekly_task", "priority": "medium", "estimated_duration": 60, "energy_level_required": "medium", "difficulty_level": 4, "suggested_time_slot": "", "success_criteria": ""},
				{"title": "Weekly 3", "description": "", "type": "weekly_task", "priority": "medium", "estimated_duration": 60, "energy_level_required": "medium", "difficulty_level": 4, "suggested_time_slot": "", "success_criteria": ""}
			],
			"recommendations": ["Start small"]
		}`
		taskRepo := new(MockTaskRepository)
		taskRepo.On("CreateTasks", mock.Anything).Return(nil).Once()
		service := NewTaskGenerationService(&fakeReasoningClient{payload: json.RawMessage(payload)}, taskRepo)

		result, err := service.GenerateTasksFromOnboarding(context.Background(), "user1", "conversation", profile, 7)

		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 6, result.TasksGenerated)
		assert.Equal(t, []string{"Start small"}, result.Recommendations)

		byTitle := make(map[string]*models.Task)
		for _, task := range result.Tasks {
			byTitle[task.Title] = task
		}
		assert.Equal(t, "2026-08-24", byTitle["Habit A"].ScheduledDate)
		assert.Equal(t, "2026-08-24", byTitle["Setup 1"].ScheduledDate, "even one-time index lands today")
		assert.Equal(t, "2026-08-25", byTitle["Setup 2"].ScheduledDate, "odd one-time index lands tomorrow")
		// Three weekly tasks over 7 days: offsets 0, 2 and 4.
		assert.Equal(t, "2026-08-24", byTitle["Weekly 1"].ScheduledDate)
		assert.Equal(t, "2026-08-26", byTitle["Weekly 2"].ScheduledDate)
		assert.Equal(t, "2026-08-28", byTitle["Weekly 3"].ScheduledDate)
	})

	t.Run("Missing duration defaults to 30 minutes", func(t *testing.T) {
		withFixedNow(t, time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC))

		payload := `{
			"tasks": [
				{"title": "No duration", "description": "", "type": "weekly_task", "priority": "medium", "energy_level_required": "medium", "difficulty_level": 3, "suggested_time_slot": "", "success_criteria": ""}
			],
			"recommendations": []
		}`
		taskRepo := new(MockTaskRepository)
		taskRepo.On("CreateTasks", mock.Anything).Return(nil).Once()
		service := NewTaskGenerationService(&fakeReasoningClient{payload: json.RawMessage(payload)}, taskRepo)

		result, err := service.GenerateTasksFromOnboarding(context.Background(), "user1", "conversation", profile, 7)

		assert.NoError(t, err)
		assert.Equal(t, 30, result.Tasks[0].EstimatedDuration)
	})

	t.Run("Persistence failure is a real error", func(t *testing.T) {
		withFixedNow(t, time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC))

		payload := `{
			"tasks": [
				{"title": "Weekly", "description": "", "type": "weekly_task", "priority": "medium", "estimated_duration": 60, "energy_level_required": "medium", "difficulty_level": 4, "suggested_time_slot": "", "success_criteria": ""}
			],
			"recommendations": []
		}`
		taskRepo := new(MockTaskRepository)
		taskRepo.On("CreateTasks", mock.Anything).Return(errors.New("disk full")).Once()
		service := NewTaskGenerationService(&fakeReasoningClient{payload: json.RawMessage(payload)}, taskRepo)

		result, err := service.GenerateTasksFromOnboarding(context.Background(), "user1", "conversation", profile, 7)

		assert.Error(t, err)
		assert.Nil(t, result)
	})
}
