package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/MrSirThe1st/blob-app-sub001/models"
	"github.com/MrSirThe1st/blob-app-sub001/repository"
)

const completionBaseXP = 10

// CompletionResult is returned when a task is completed: the updated task,
// the XP awarded for it and the user's new running total.
type CompletionResult struct {
	Task      *models.Task `json:"task"`
	XPAwarded int          `json:"xp_awarded"`
	TotalXP   int          `json:"total_xp"`
}

// TaskLifecycleService applies task status transitions:
// pending -> in_progress -> completed, with rescheduled reachable from
// pending or in_progress. Completing a task is the only transition with a
// side effect (the XP award).
type TaskLifecycleService interface {
	StartTask(taskID uint, userID string) (*models.Task, error)
	CompleteTask(taskID uint, userID string) (*CompletionResult, error)
	RescheduleTask(taskID uint, userID string, newDate string, newTimeSlot string) (*models.Task, error)
}

type taskLifecycleService struct {
	taskRepo repository.TaskRepository
	xpRepo   repository.XPRepository
}

// NewTaskLifecycleService creates a new instance of TaskLifecycleService.
func NewTaskLifecycleService(taskRepo repository.TaskRepository, xpRepo repository.XPRepository) TaskLifecycleService {
	return &taskLifecycleService{taskRepo: taskRepo, xpRepo: xpRepo}
}

// StartTask moves a pending (or rescheduled) task into in_progress.
func (s *taskLifecycleService) StartTask(taskID uint, userID string) (*models.Task, error) {
	task, err := s.loadOwnedTask(taskID, userID)
	if err != nil {
		return nil, err
	}

	switch task.Status {
	case models.TaskStatusPending, models.TaskStatusRescheduled:
		// allowed
	case models.TaskStatusInProgress:
		log.Printf("INFO: [TaskLifecycle] TaskID %d is already in progress. No action taken for userID '%s'.", taskID, userID)
		return task, nil
	default:
		return nil, fmt.Errorf("cannot start a task in status '%s'", task.Status)
	}

	task.Status = models.TaskStatusInProgress
	if err := s.taskRepo.UpdateTask(task); err != nil {
		return nil, fmt.Errorf("failed to start task ID %d: %w", taskID, err)
	}
	log.Printf("INFO: [TaskLifecycle] TaskID %d started by userID '%s'.", taskID, userID)
	return task, nil
}

// CompleteTask marks the task completed, stamps completed_at and awards XP.
// The XP write is non-critical: a failure is logged and swallowed so the
// completion itself still succeeds.
func (s *taskLifecycleService) CompleteTask(taskID uint, userID string) (*CompletionResult, error) {
	task, err := s.loadOwnedTask(taskID, userID)
	if err != nil {
		return nil, err
	}

	if task.Status == models.TaskStatusCompleted {
		log.Printf("INFO: [TaskLifecycle] TaskID %d is already completed. No action taken for userID '%s'.", taskID, userID)
		total, _ := s.xpRepo.GetTotalXP(userID)
		return &CompletionResult{Task: task, XPAwarded: 0, TotalXP: total}, nil
	}

	task.Status = models.TaskStatusCompleted
	task.CompletedAt.Time = time.Now()
	task.CompletedAt.Valid = true

	if err := s.taskRepo.UpdateTask(task); err != nil {
		return nil, fmt.Errorf("failed to complete task ID %d: %w", taskID, err)
	}

	awarded := CompletionXP(task)
	total, err := s.xpRepo.AddXP(userID, awarded)
	if err != nil {
		log.Printf("WARN: [TaskLifecycle] Failed to award %d XP to userID '%s' for taskID %d: %v. Completion still succeeds.", awarded, userID, taskID, err)
		total = 0
	}

	log.Printf("INFO: [TaskLifecycle] TaskID %d completed by userID '%s' (+%d XP).", taskID, userID, awarded)
	return &CompletionResult{Task: task, XPAwarded: awarded, TotalXP: total}, nil
}

// RescheduleTask moves a pending or in-progress task to a new date/slot and
// resets its status to rescheduled (a re-entrant pending).
func (s *taskLifecycleService) RescheduleTask(taskID uint, userID string, newDate string, newTimeSlot string) (*models.Task, error) {
	if newDate == "" {
		return nil, errors.New("new scheduled date cannot be empty")
	}
	task, err := s.loadOwnedTask(taskID, userID)
	if err != nil {
		return nil, err
	}

	if task.Status == models.TaskStatusCompleted {
		log.Printf("WARN: [TaskLifecycle] UserID '%s' attempted to reschedule completed taskID %d.", userID, taskID)
		return nil, errors.New("cannot reschedule an already completed task")
	}

	task.Status = models.TaskStatusRescheduled
	task.ScheduledDate = newDate
	if newTimeSlot != "" {
		task.SuggestedTimeSlot = newTimeSlot
	}

	if err := s.taskRepo.UpdateTask(task); err != nil {
		return nil, fmt.Errorf("failed to reschedule task ID %d: %w", taskID, err)
	}
	log.Printf("INFO: [TaskLifecycle] TaskID %d rescheduled to %s by userID '%s'.", taskID, newDate, userID)
	return task, nil
}

// CompletionXP computes the XP award for completing a task: base 10, plus a
// priority bonus (15/10/5 for high/medium/low), plus difficulty x 5.
func CompletionXP(task *models.Task) int {
	bonus := 0
	switch task.Priority {
	case models.PriorityHigh:
		bonus = 15
	case models.PriorityMedium:
		bonus = 10
	case models.PriorityLow:
		bonus = 5
	}
	return completionBaseXP + bonus + task.DifficultyLevel*5
}

func (s *taskLifecycleService) loadOwnedTask(taskID uint, userID string) (*models.Task, error) {
	task, err := s.taskRepo.GetTaskByID(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch task ID %d: %w", taskID, err)
	}
	if task == nil {
		log.Printf("WARN: [TaskLifecycle] Task with ID %d not found for userID '%s'.", taskID, userID)
		return nil, fmt.Errorf("task with ID %d not found", taskID)
	}
	if task.UserID != userID {
		log.Printf("WARN: [TaskLifecycle] Unauthorized attempt by userID '%s' on taskID %d (belongs to userID '%s').", userID, taskID, task.UserID)
		return nil, fmt.Errorf("unauthorized to modify task %d", taskID)
	}
	return task, nil
}
