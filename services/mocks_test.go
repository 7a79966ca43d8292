package services

import (
	"context"
	"encoding/json"

	"github.com/MrSirThe1st/blob-app-sub001/models"

	"github.com/stretchr/testify/mock"
)

// Shared mock repositories for the service tests in this package.

// MockTaskRepository is a mock type for the TaskRepository interface.
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) CreateTask(task *models.Task) error {
	args := m.Called(task)
	return args.Error(0)
}

func (m *MockTaskRepository) CreateTasks(tasks []*models.Task) error {
	args := m.Called(tasks)
	return args.Error(0)
}

func (m *MockTaskRepository) GetTaskByID(taskID uint) (*models.Task, error) {
	args := m.Called(taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskRepository) GetTasksForDate(userID string, date string) ([]*models.Task, error) {
	args := m.Called(userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Task), args.Error(1)
}

func (m *MockTaskRepository) GetDailyHabits(userID string) ([]*models.Task, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Task), args.Error(1)
}

func (m *MockTaskRepository) GetOverdueTasks(userID string, beforeDate string, limit int) ([]*models.Task, error) {
	args := m.Called(userID, beforeDate, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Task), args.Error(1)
}

func (m *MockTaskRepository) GetRecentCompletedTasks(userID string, limit int) ([]*models.Task, error) {
	args := m.Called(userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Task), args.Error(1)
}

func (m *MockTaskRepository) UpdateTask(task *models.Task) error {
	args := m.Called(task)
	return args.Error(0)
}

// MockScheduleRepository is a mock type for the ScheduleRepository interface.
type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) UpsertSchedule(schedule *models.Schedule) error {
	args := m.Called(schedule)
	return args.Error(0)
}

func (m *MockScheduleRepository) GetScheduleByUserAndDate(userID string, date string) (*models.Schedule, error) {
	args := m.Called(userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Schedule), args.Error(1)
}

// MockXPRepository is a mock type for the XPRepository interface.
type MockXPRepository struct {
	mock.Mock
}

func (m *MockXPRepository) AddXP(userID string, points int) (int, error) {
	args := m.Called(userID, points)
	return args.Int(0), args.Error(1)
}

func (m *MockXPRepository) GetTotalXP(userID string) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

// MockPreferenceRepository is a mock type for the PreferenceRepository interface.
type MockPreferenceRepository struct {
	mock.Mock
}

func (m *MockPreferenceRepository) GetPreferences(userID string) (*models.UserPreferences, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserPreferences), args.Error(1)
}

func (m *MockPreferenceRepository) UpsertPreferences(prefs *models.UserPreferences) error {
	args := m.Called(prefs)
	return args.Error(0)
}

// fakeReasoningClient is a canned ReasoningClient: it records the request and
// returns a fixed payload or error, simulating the external service.
type fakeReasoningClient struct {
	payload    json.RawMessage
	err        error
	calls      int
	lastSystem string
	lastUser   string
	lastSchema StructuredSchema
}

func (f *fakeReasoningClient) ProposeStructured(ctx context.Context, systemPrompt string, userPrompt string, schema StructuredSchema) (json.RawMessage, error) {
	f.calls++
	f.lastSystem = systemPrompt
	f.lastUser = userPrompt
	f.lastSchema = schema
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}
