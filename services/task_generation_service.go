package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/MrSirThe1st/blob-app-sub001/models"
	"github.com/MrSirThe1st/blob-app-sub001/repository"
	"github.com/MrSirThe1st/blob-app-sub001/utils"
)

// timeNow is swapped in tests for deterministic date assignment.
var timeNow = time.Now

const (
	minTaskDuration = 5   // minutes
	maxTaskDuration = 480 // minutes
	minDifficulty   = 1
	maxDifficulty   = 10

	defaultOnboardingDuration = 30
)

// GoalBreakdown is the structured description of a goal the user wants turned
// into concrete tasks.
type GoalBreakdown struct {
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	WeeklyTasks []string `json:"weekly_tasks"`
	DailyHabits []string `json:"daily_habits"`
	Milestones  []string `json:"milestones"`
}

// OnboardingProfile is the basic profile collected during onboarding.
type OnboardingProfile struct {
	Name        string `json:"name"`
	Occupation  string `json:"occupation"`
	PrimaryGoal string `json:"primary_goal"`
}

// OnboardingResult is the caller-facing contract for onboarding task
// generation. "No usable AI response" is reported here as a non-success
// result, never as an error.
type OnboardingResult struct {
	Success         bool           `json:"success"`
	TasksGenerated  int            `json:"tasksGenerated"`
	Tasks           []*models.Task `json:"tasks"`
	Error           string         `json:"error,omitempty"`
	Recommendations []string       `json:"recommendations"`
}

// TaskGenerationService converts goal breakdowns and onboarding conversations
// into sanitized Task records via the external reasoning service.
type TaskGenerationService interface {
	// GenerateTasksFromGoal raises on reasoning failure; the caller handles it.
	GenerateTasksFromGoal(ctx context.Context, userID string, goalID *uint, breakdown GoalBreakdown) ([]*models.Task, error)
	// GenerateTasksFromOnboarding returns an error only for infrastructure
	// failures (persistence); an empty or failed AI reply is a non-success result.
	GenerateTasksFromOnboarding(ctx context.Context, userID string, conversation string, profile OnboardingProfile, horizonDays int) (*OnboardingResult, error)
}

type taskGenerationService struct {
	reasoning ReasoningClient
	taskRepo  repository.TaskRepository
}

// NewTaskGenerationService creates a new instance of TaskGenerationService.
func NewTaskGenerationService(reasoning ReasoningClient, taskRepo repository.TaskRepository) TaskGenerationService {
	return &taskGenerationService{reasoning: reasoning, taskRepo: taskRepo}
}

const taskGenerationSystemPrompt = `You are a task planner for a personal productivity app.
Turn the given input into a list of small, concrete, actionable tasks.
Each task needs a title, description, type, priority, estimated duration in minutes,
required energy level, difficulty (1-10), a suggested time slot hint and success criteria.
Respond only with the structured task list; no prose.`

// taskProposal is the untrusted, duck-typed shape the reasoning service emits
// for a single task. Every field passes through sanitizeTaskProposal before
// becoming a domain value.
type taskProposal struct {
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	Type                string   `json:"type"`
	Priority            string   `json:"priority"`
	EstimatedDuration   *float64 `json:"estimated_duration"`
	EnergyLevelRequired string   `json:"energy_level_required"`
	DifficultyLevel     *float64 `json:"difficulty_level"`
	SuggestedTimeSlot   string   `json:"suggested_time_slot"`
	SuccessCriteria     string   `json:"success_criteria"`
}

type taskListProposal struct {
	Tasks           []taskProposal `json:"tasks"`
	Recommendations []string       `json:"recommendations"`
}

// GenerateTasksFromGoal builds tasks from a goal breakdown. Invalid proposed
// fields coerce (type defaults to one_time on this path); a failed reasoning
// call is returned to the caller as an error.
func (s *taskGenerationService) GenerateTasksFromGoal(ctx context.Context, userID string, goalID *uint, breakdown GoalBreakdown) ([]*models.Task, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty")
	}
	log.Printf("INFO: [TaskGeneration] Generating tasks from goal '%s' for userID %s.", breakdown.Title, userID)

	payload, err := s.reasoning.ProposeStructured(ctx,
		taskGenerationSystemPrompt,
		buildGoalPrompt(breakdown),
		StructuredSchema{Name: "task_list", Schema: json.RawMessage(taskListSchema)},
	)
	if err != nil {
		log.Printf("ERROR: [TaskGeneration] Reasoning call failed for goal '%s' (userID %s): %v", breakdown.Title, userID, err)
		return nil, fmt.Errorf("failed to generate tasks for goal '%s': %w", breakdown.Title, err)
	}

	var proposal taskListProposal
	if err := json.Unmarshal(payload, &proposal); err != nil {
		log.Printf("ERROR: [TaskGeneration] Malformed task list for goal '%s' (userID %s): %v", breakdown.Title, userID, err)
		return nil, fmt.Errorf("reasoning service returned a malformed task list: %w", err)
	}

	today := timeNow().Format(utils.DateFormat)
	tasks := make([]*models.Task, 0, len(proposal.Tasks))
	for _, p := range proposal.Tasks {
		task := sanitizeTaskProposal(p, models.TaskTypeOneTime)
		task.UserID = userID
		task.RelatedGoalID = goalID
		if task.Type == models.TaskTypeDailyHabit {
			task.ScheduledDate = today
		}
		tasks = append(tasks, task)
	}

	if err := s.taskRepo.CreateTasks(tasks); err != nil {
		return nil, fmt.Errorf("failed to persist generated tasks: %w", err)
	}
	log.Printf("INFO: [TaskGeneration] Generated %d tasks from goal '%s' for userID %s.", len(tasks), breakdown.Title, userID)
	return tasks, nil
}

// GenerateTasksFromOnboarding builds the user's starter task set from the
// onboarding conversation. horizonDays is the requested planning horizon
// (2, 7 or 14 days; anything else normalizes to 7).
func (s *taskGenerationService) GenerateTasksFromOnboarding(ctx context.Context, userID string, conversation string, profile OnboardingProfile, horizonDays int) (*OnboardingResult, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty")
	}
	if horizonDays != 2 && horizonDays != 7 && horizonDays != 14 {
		log.Printf("WARN: [TaskGeneration] Unsupported planning horizon %d for userID %s. Defaulting to 7 days.", horizonDays, userID)
		horizonDays = 7
	}
	log.Printf("INFO: [TaskGeneration] Generating onboarding tasks for userID %s (horizon %d days).", userID, horizonDays)

	payload, err := s.reasoning.ProposeStructured(ctx,
		taskGenerationSystemPrompt,
		buildOnboardingPrompt(conversation, profile, horizonDays),
		StructuredSchema{Name: "task_list", Schema: json.RawMessage(taskListSchema)},
	)
	if err != nil {
		log.Printf("WARN: [TaskGeneration] Reasoning call failed during onboarding for userID %s: %v. Reporting zero tasks.", userID, err)
		return &OnboardingResult{Success: false, TasksGenerated: 0, Error: "no usable response from the planning service"}, nil
	}

	var proposal taskListProposal
	if err := json.Unmarshal(payload, &proposal); err != nil {
		log.Printf("WARN: [TaskGeneration] Malformed onboarding task list for userID %s: %v. Reporting zero tasks.", userID, err)
		return &OnboardingResult{Success: false, TasksGenerated: 0, Error: "no usable response from the planning service"}, nil
	}
	if len(proposal.Tasks) == 0 {
		log.Printf("INFO: [TaskGeneration] Onboarding produced zero tasks for userID %s.", userID)
		return &OnboardingResult{Success: false, TasksGenerated: 0, Error: "the planning service proposed no tasks"}, nil
	}

	weeklyTotal := 0
	for _, p := range proposal.Tasks {
		if models.TaskType(strings.TrimSpace(p.Type)) == models.TaskTypeWeeklyTask {
			weeklyTotal++
		}
	}

	now := timeNow()
	oneTimeIdx := 0
	weeklyIdx := 0
	tasks := make([]*models.Task, 0, len(proposal.Tasks))
	for _, p := range proposal.Tasks {
		task := sanitizeTaskProposal(p, models.TaskTypeWeeklyTask)
		task.UserID = userID
		if task.EstimatedDuration == 0 {
			task.EstimatedDuration = defaultOnboardingDuration
		}
		task.ScheduledDate = onboardingScheduledDate(task.Type, now, horizonDays, &oneTimeIdx, &weeklyIdx, weeklyTotal)
		tasks = append(tasks, task)
	}

	if err := s.taskRepo.CreateTasks(tasks); err != nil {
		// Persistence is an infrastructure failure, not a "no data" condition.
		return nil, fmt.Errorf("failed to persist onboarding tasks: %w", err)
	}

	result := &OnboardingResult{
		Success:         true,
		TasksGenerated:  len(tasks),
		Tasks:           tasks,
		Recommendations: proposal.Recommendations,
	}
	log.Printf("INFO: [TaskGeneration] Generated %d onboarding tasks for userID %s.", len(tasks), userID)
	return result, nil
}

// onboardingScheduledDate computes a task's scheduled date by type: daily
// habits start today, one-time setup tasks alternate today/tomorrow by index
// parity, and weekly tasks are spread proportionally across the planning
// horizon.
func onboardingScheduledDate(taskType models.TaskType, now time.Time, horizonDays int, oneTimeIdx *int, weeklyIdx *int, weeklyTotal int) string {
	switch taskType {
	case models.TaskTypeDailyHabit:
		return now.Format(utils.DateFormat)
	case models.TaskTypeOneTime:
		offset := *oneTimeIdx % 2
		*oneTimeIdx++
		return now.AddDate(0, 0, offset).Format(utils.DateFormat)
	default: // weekly tasks
		if weeklyTotal < 1 {
			weeklyTotal = 1
		}
		offset := (*weeklyIdx * horizonDays) / weeklyTotal
		if offset >= horizonDays {
			offset = horizonDays - 1
		}
		*weeklyIdx++
		return now.AddDate(0, 0, offset).Format(utils.DateFormat)
	}
}

// sanitizeTaskProposal coerces every externally-proposed field into a valid
// domain value. Nothing from the reasoning service is trusted: enums coerce to
// documented defaults and numerics are rounded and clamped.
func sanitizeTaskProposal(p taskProposal, fallbackType models.TaskType) *models.Task {
	task := &models.Task{
		Title:             strings.TrimSpace(p.Title),
		Description:       strings.TrimSpace(p.Description),
		Status:            models.TaskStatusPending,
		SuggestedTimeSlot: strings.TrimSpace(p.SuggestedTimeSlot),
		SuccessCriteria:   strings.TrimSpace(p.SuccessCriteria),
	}
	if task.Title == "" {
		task.Title = "Untitled task"
	}

	taskType := models.TaskType(strings.TrimSpace(strings.ToLower(p.Type)))
	if !taskType.IsValid() {
		taskType = fallbackType
	}
	task.Type = taskType

	priority := models.TaskPriority(strings.TrimSpace(strings.ToLower(p.Priority)))
	if !priority.IsValid() {
		priority = models.PriorityMedium
	}
	task.Priority = priority

	energy := models.EnergyLevel(strings.TrimSpace(strings.ToLower(p.EnergyLevelRequired)))
	if !energy.IsValid() {
		energy = models.EnergyMedium
	}
	task.EnergyLevelRequired = energy

	if p.EstimatedDuration != nil {
		task.EstimatedDuration = clampInt(int(math.Round(*p.EstimatedDuration)), minTaskDuration, maxTaskDuration)
	}

	difficulty := 5.0
	if p.DifficultyLevel != nil {
		difficulty = *p.DifficultyLevel
	}
	task.DifficultyLevel = clampInt(int(math.Round(difficulty)), minDifficulty, maxDifficulty)

	return task
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func buildGoalPrompt(breakdown GoalBreakdown) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Goal: %s\n", breakdown.Title)
	if breakdown.Summary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", breakdown.Summary)
	}
	if len(breakdown.WeeklyTasks) > 0 {
		b.WriteString("Weekly tasks:\n")
		for _, t := range breakdown.WeeklyTasks {
			fmt.Fprintf(&b, "- %s\n", t)
		}
	}
	if len(breakdown.DailyHabits) > 0 {
		b.WriteString("Daily habits:\n")
		for _, h := range breakdown.DailyHabits {
			fmt.Fprintf(&b, "- %s\n", h)
		}
	}
	if len(breakdown.Milestones) > 0 {
		b.WriteString("Milestones:\n")
		for _, m := range breakdown.Milestones {
			fmt.Fprintf(&b, "- %s\n", m)
		}
	}
	return b.String()
}

func buildOnboardingPrompt(conversation string, profile OnboardingProfile, horizonDays int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Planning horizon: %d days\n", horizonDays)
	if profile.Name != "" {
		fmt.Fprintf(&b, "Name: %s\n", profile.Name)
	}
	if profile.Occupation != "" {
		fmt.Fprintf(&b, "Occupation: %s\n", profile.Occupation)
	}
	if profile.PrimaryGoal != "" {
		fmt.Fprintf(&b, "Primary goal: %s\n", profile.PrimaryGoal)
	}
	b.WriteString("Onboarding conversation:\n")
	b.WriteString(conversation)
	return b.String()
}

// taskListSchema is the strict output schema for both task generation paths.
const taskListSchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["tasks", "recommendations"],
  "properties": {
    "tasks": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["title", "description", "type", "priority", "estimated_duration", "energy_level_required", "difficulty_level", "suggested_time_slot", "success_criteria"],
        "properties": {
          "title": {"type": "string"},
          "description": {"type": "string"},
          "type": {"type": "string"},
          "priority": {"type": "string"},
          "estimated_duration": {"type": "number"},
          "energy_level_required": {"type": "string"},
          "difficulty_level": {"type": "number"},
          "suggested_time_slot": {"type": "string"},
          "success_criteria": {"type": "string"}
        }
      }
    },
    "recommendations": {"type": "array", "items": {"type": "string"}}
  }
}`
