package services

import (
	"errors"
	"testing"

	"github.com/MrSirThe1st/blob-app-sub001/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func lifecycleTask(status models.TaskStatus) *models.Task {
	return &models.Task{
		ID:              7,
		UserID:          "user1",
		Title:           "Write report",
		Type:            models.TaskTypeOneTime,
		Priority:        models.PriorityHigh,
		Status:          status,
		DifficultyLevel: 5,
	}
}

func TestCompletionXP(t *testing.T) {
	t.Run("Base plus priority bonus plus difficulty scaling", func(t *testing.T) {
		assert.Equal(t, 50, CompletionXP(&models.Task{Priority: models.PriorityHigh, DifficultyLevel: 5}))
		assert.Equal(t, 30, CompletionXP(&models.Task{Priority: models.PriorityMedium, DifficultyLevel: 2}))
		assert.Equal(t, 20, CompletionXP(&models.Task{Priority: models.PriorityLow, DifficultyLevel: 1}))
	})

	t.Run("Unknown priority earns no bonus", func(t *testing.T) {
		assert.Equal(t, 25, CompletionXP(&models.Task{Priority: "mystery", DifficultyLevel: 3}))
	})
}

func TestStartTask(t *testing.T) {
	t.Run("Pending task moves to in_progress", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		taskRepo.On("GetTaskByID", uint(7)).Return(lifecycleTask(models.TaskStatusPending), nil)
		taskRepo.On("UpdateTask", mock.MatchedBy(func(task *models.Task) bool {
			return task.Status == models.TaskStatusInProgress
		})).Return(nil).Once()
		service := NewTaskLifecycleService(taskRepo, new(MockXPRepository))

		task, err := service.StartTask(7, "user1")

		assert.NoError(t, err)
		assert.Equal(t, models.TaskStatusInProgress, task.Status)
		taskRepo.AssertExpectations(t)
	})

	t.Run("Rescheduled task can be started", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		taskRepo.On("GetTaskByID", uint(7)).Return(lifecycleTask(models.TaskStatusRescheduled), nil)
		taskRepo.On("UpdateTask", mock.Anything).Return(nil).Once()
		service := NewTaskLifecycleService(taskRepo, new(MockXPRepository))

		task, err := service.StartTask(7, "user1")

		assert.NoError(t, err)
		assert.Equal(t, models.TaskStatusInProgress, task.Status)
	})

	t.Run("Already in-progress task is a no-op", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		taskRepo.On("GetTaskByID", uint(7)).Return(lifecycleTask(models.TaskStatusInProgress), nil)
		service := NewTaskLifecycleService(taskRepo, new(MockXPRepository))

		task, err := service.StartTask(7, "user1")

		assert.NoError(t, err)
		assert.Equal(t, models.TaskStatusInProgress, task.Status)
		taskRepo.AssertNotCalled(t, "UpdateTask", mock.Anything)
	})

	t.Run("Completed task cannot be started", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		taskRepo.On("GetTaskByID", uint(7)).Return(lifecycleTask(models.TaskStatusCompleted), nil)
		service := NewTaskLifecycleService(taskRepo, new(MockXPRepository))

		_, err := service.StartTask(7, "user1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot start")
	})
}

func TestCompleteTask(t *testing.T) {
	t.Run("Completion stamps the timestamp and awards XP", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		xpRepo := new(MockXPRepository)
		taskRepo.On("GetTaskByID", uint(7)).Return(lifecycleTask(models.TaskStatusInProgress), nil)
		taskRepo.On("UpdateTask", mock.MatchedBy(func(task *models.Task) bool {
			return task.Status == models.TaskStatusCompleted && task.CompletedAt.Valid
		})).Return(nil).Once()
		// high priority, difficulty 5: 10 + 15 + 25
		xpRepo.On("AddXP", "user1", 50).Return(120, nil).Once()
		service := NewTaskLifecycleService(taskRepo, xpRepo)

		result, err := service.CompleteTask(7, "user1")

		assert.NoError(t, err)
		assert.Equal(t, 50, result.XPAwarded)
		assert.Equal(t, 120, result.TotalXP)
		assert.Equal(t, models.TaskStatusCompleted, result.Task.Status)
		assert.True(t, result.Task.CompletedAt.Valid)
		taskRepo.AssertExpectations(t)
		xpRepo.AssertExpectations(t)
	})

	t.Run("Completing an already completed task awards nothing", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		xpRepo := new(MockXPRepository)
		taskRepo.On("GetTaskByID", uint(7)).Return(lifecycleTask(models.TaskStatusCompleted), nil)
		xpRepo.On("GetTotalXP", "user1").Return(120, nil).Once()
		service := NewTaskLifecycleService(taskRepo, xpRepo)

		result, err := service.CompleteTask(7, "user1")

		assert.NoError(t, err)
		assert.Equal(t, 0, result.XPAwarded)
		assert.Equal(t, 120, result.TotalXP)
		taskRepo.AssertNotCalled(t, "UpdateTask", mock.Anything)
		xpRepo.AssertNotCalled(t, "AddXP", mock.Anything, mock.Anything)
	})

	t.Run("XP write failure does not fail the completion", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		xpRepo := new(MockXPRepository)
		taskRepo.On("GetTaskByID", uint(7)).Return(lifecycleTask(models.TaskStatusPending), nil)
		taskRepo.On("UpdateTask", mock.Anything).Return(nil).Once()
		xpRepo.On("AddXP", "user1", 50).Return(0, errors.New("db unavailable")).Once()
		service := NewTaskLifecycleService(taskRepo, xpRepo)

		result, err := service.CompleteTask(7, "user1")

		assert.NoError(t, err)
		assert.Equal(t, models.TaskStatusCompleted, result.Task.Status)
		assert.Equal(t, 50, result.XPAwarded)
		assert.Equal(t, 0, result.TotalXP)
	})

	t.Run("Update failure aborts the completion", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		xpRepo := new(MockXPRepository)
		taskRepo.On("GetTaskByID", uint(7)).Return(lifecycleTask(models.TaskStatusPending), nil)
		taskRepo.On("UpdateTask", mock.Anything).Return(errors.New("db locked")).Once()
		service := NewTaskLifecycleService(taskRepo, xpRepo)

		_, err := service.CompleteTask(7, "user1")

		assert.Error(t, err)
		xpRepo.AssertNotCalled(t, "AddXP", mock.Anything, mock.Anything)
	})
}

func TestRescheduleTask(t *testing.T) {
	t.Run("Pending task moves to the new date and slot", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		taskRepo.On("GetTaskByID", uint(7)).Return(lifecycleTask(models.TaskStatusPending), nil)
		taskRepo.On("UpdateTask", mock.Anything).Return(nil).Once()
		service := NewTaskLifecycleService(taskRepo, new(MockXPRepository))

		task, err := service.RescheduleTask(7, "user1", "2026-08-30", "morning")

		assert.NoError(t, err)
		assert.Equal(t, models.TaskStatusRescheduled, task.Status)
		assert.Equal(t, "2026-08-30", task.ScheduledDate)
		assert.Equal(t, "morning", task.SuggestedTimeSlot)
	})

	t.Run("Empty slot keeps the existing suggestion", func(t *testing.T) {
		existing := lifecycleTask(models.TaskStatusPending)
		existing.SuggestedTimeSlot = "afternoon"
		taskRepo := new(MockTaskRepository)
		taskRepo.On("GetTaskByID", uint(7)).Return(existing, nil)
		taskRepo.On("UpdateTask", mock.Anything).Return(nil).Once()
		service := NewTaskLifecycleService(taskRepo, new(MockXPRepository))

		task, err := service.RescheduleTask(7, "user1", "2026-08-30", "")

		assert.NoError(t, err)
		assert.Equal(t, "afternoon", task.SuggestedTimeSlot)
	})

	t.Run("Completed task cannot be rescheduled", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		taskRepo.On("GetTaskByID", uint(7)).Return(lifecycleTask(models.TaskStatusCompleted), nil)
		service := NewTaskLifecycleService(taskRepo, new(MockXPRepository))

		_, err := service.RescheduleTask(7, "user1", "2026-08-30", "")

		assert.Error(t, err)
		taskRepo.AssertNotCalled(t, "UpdateTask", mock.Anything)
	})

	t.Run("Empty date is rejected before the lookup", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		service := NewTaskLifecycleService(taskRepo, new(MockXPRepository))

		_, err := service.RescheduleTask(7, "user1", "", "")

		assert.Error(t, err)
		taskRepo.AssertNotCalled(t, "GetTaskByID", mock.Anything)
	})
}

func TestLoadOwnedTask(t *testing.T) {
	t.Run("Missing task reports not found", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		taskRepo.On("GetTaskByID", uint(99)).Return(nil, nil)
		service := NewTaskLifecycleService(taskRepo, new(MockXPRepository))

		_, err := service.StartTask(99, "user1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("Task owned by another user is rejected", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		taskRepo.On("GetTaskByID", uint(7)).Return(lifecycleTask(models.TaskStatusPending), nil)
		service := NewTaskLifecycleService(taskRepo, new(MockXPRepository))

		_, err := service.CompleteTask(7, "intruder")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unauthorized")
		taskRepo.AssertNotCalled(t, "UpdateTask", mock.Anything)
	})
}
