package repository

import (
	"errors"
	"fmt"
	"log"

	"github.com/MrSirThe1st/blob-app-sub001/models"

	"gorm.io/gorm"
)

// TaskRepository defines the interface for interacting with task data.
type TaskRepository interface {
	CreateTask(task *models.Task) error
	CreateTasks(tasks []*models.Task) error
	GetTaskByID(taskID uint) (*models.Task, error)
	GetTasksForDate(userID string, date string) ([]*models.Task, error)
	GetDailyHabits(userID string) ([]*models.Task, error)
	GetOverdueTasks(userID string, beforeDate string, limit int) ([]*models.Task, error)
	GetRecentCompletedTasks(userID string, limit int) ([]*models.Task, error)
	UpdateTask(task *models.Task) error
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new instance of TaskRepository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// CreateTask creates a new task in the database.
func (r *taskRepository) CreateTask(task *models.Task) error {
	if task == nil {
		return errors.New("task cannot be nil")
	}
	if err := r.db.Create(task).Error; err != nil {
		log.Printf("ERROR: [TaskRepository] Failed to create task '%s' for userID %s: %v", task.Title, task.UserID, err)
		return fmt.Errorf("failed to create task '%s': %w", task.Title, err)
	}
	log.Printf("INFO: [TaskRepository] Created task ID %d ('%s') for userID %s.", task.ID, task.Title, task.UserID)
	return nil
}

// CreateTasks creates a batch of tasks in a single insert.
func (r *taskRepository) CreateTasks(tasks []*models.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	if err := r.db.Create(tasks).Error; err != nil {
		log.Printf("ERROR: [TaskRepository] Failed to create batch of %d tasks: %v", len(tasks), err)
		return fmt.Errorf("failed to create %d tasks: %w", len(tasks), err)
	}
	log.Printf("INFO: [TaskRepository] Created %d tasks.", len(tasks))
	return nil
}

// GetTaskByID retrieves a single task by its ID. Returns (nil, nil) when not found.
func (r *taskRepository) GetTaskByID(taskID uint) (*models.Task, error) {
	var task models.Task
	err := r.db.First(&task, taskID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("ERROR: [TaskRepository] Failed to retrieve task ID %d: %v", taskID, err)
		return nil, fmt.Errorf("failed to retrieve task ID %d: %w", taskID, err)
	}
	return &task, nil
}

// GetTasksForDate retrieves the user's non-completed tasks scheduled for the given date.
func (r *taskRepository) GetTasksForDate(userID string, date string) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.
		Where("user_id = ? AND scheduled_date = ? AND status <> ?", userID, date, models.TaskStatusCompleted).
		// The priority enum is stored as a string, so an ORDER BY on the raw
		// column sorts alphabetically. Rank it explicitly, highest first.
		Order("CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, created_at asc").
		Find(&tasks).Error
	if err != nil {
		log.Printf("ERROR: [TaskRepository] Failed to retrieve tasks for userID %s on %s: %v", userID, date, err)
		return nil, fmt.Errorf("failed to retrieve tasks for date %s: %w", date, err)
	}
	return tasks, nil
}

// GetDailyHabits retrieves the user's daily habit tasks regardless of scheduled date.
func (r *taskRepository) GetDailyHabits(userID string) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.
		Where("user_id = ? AND type = ? AND status <> ?", userID, models.TaskTypeDailyHabit, models.TaskStatusCompleted).
		Order("created_at asc").
		Find(&tasks).Error
	if err != nil {
		log.Printf("ERROR: [TaskRepository] Failed to retrieve daily habits for userID %s: %v", userID, err)
		return nil, fmt.Errorf("failed to retrieve daily habits: %w", err)
	}
	return tasks, nil
}

// GetOverdueTasks retrieves up to limit pending tasks scheduled before beforeDate.
func (r *taskRepository) GetOverdueTasks(userID string, beforeDate string, limit int) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.
		Where("user_id = ? AND scheduled_date <> '' AND scheduled_date < ? AND status = ?", userID, beforeDate, models.TaskStatusPending).
		Order("scheduled_date asc").
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		log.Printf("ERROR: [TaskRepository] Failed to retrieve overdue tasks for userID %s: %v", userID, err)
		return nil, fmt.Errorf("failed to retrieve overdue tasks: %w", err)
	}
	return tasks, nil
}

// GetRecentCompletedTasks retrieves up to limit most recently completed tasks,
// newest first. Used by energy pattern analysis.
func (r *taskRepository) GetRecentCompletedTasks(userID string, limit int) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.
		Where("user_id = ? AND status = ?", userID, models.TaskStatusCompleted).
		Order("completed_at desc").
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		log.Printf("ERROR: [TaskRepository] Failed to retrieve completed tasks for userID %s: %v", userID, err)
		return nil, fmt.Errorf("failed to retrieve completed tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask updates an existing task.
func (r *taskRepository) UpdateTask(task *models.Task) error {
	if task == nil {
		return errors.New("task cannot be nil")
	}
	if task.ID == 0 {
		return errors.New("task ID must be provided for update")
	}
	if err := r.db.Save(task).Error; err != nil {
		log.Printf("ERROR: [TaskRepository] Failed to update task ID %d ('%s'): %v", task.ID, task.Title, err)
		return fmt.Errorf("failed to update task ID %d: %w", task.ID, err)
	}
	log.Printf("INFO: [TaskRepository] Updated task ID %d ('%s').", task.ID, task.Title)
	return nil
}
