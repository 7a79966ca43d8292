package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/MrSirThe1st/blob-app-sub001/models"
	"github.com/MrSirThe1st/blob-app-sub001/repository"
	"github.com/MrSirThe1st/blob-app-sub001/utils"
)

// ScheduleService generates the time-blocked daily plan for one (user, date).
type ScheduleService interface {
	GenerateDailySchedule(ctx context.Context, userID string, date string) (*models.Schedule, error)
	GetSchedule(userID string, date string) (*models.Schedule, error)
}

type scheduleService struct {
	gatherer     ConstraintGatherer
	analyzer     EnergyAnalyzer
	reasoning    ReasoningClient
	taskRepo     repository.TaskRepository
	scheduleRepo repository.ScheduleRepository
}

// NewScheduleService creates a new instance of ScheduleService.
func NewScheduleService(
	gatherer ConstraintGatherer,
	analyzer EnergyAnalyzer,
	reasoning ReasoningClient,
	taskRepo repository.TaskRepository,
	scheduleRepo repository.ScheduleRepository,
) ScheduleService {
	return &scheduleService{
		gatherer:     gatherer,
		analyzer:     analyzer,
		reasoning:    reasoning,
		taskRepo:     taskRepo,
		scheduleRepo: scheduleRepo,
	}
}

const noTasksRecommendation = "No tasks are scheduled for this date. Add tasks or goals to generate an optimized daily plan."

// scheduleSystemPrompt instructs the reasoning service to act as the planner
// and emit only the structured schedule shape.
const scheduleSystemPrompt = `You are a daily schedule optimizer for a personal productivity app.
Given a user's tasks, energy pattern and fixed constraints, produce a time-blocked plan for a single day.
Rules:
- Every time block must lie inside the work hours unless a task's suggested slot says otherwise.
- Time blocks must not overlap each other or the buffer blocks.
- Place high-energy, high-priority tasks inside the user's peak window where possible.
- Reserve 15-20% of scheduled time as buffer blocks.
- Respond only with the structured schedule object; no prose.`

// GenerateDailySchedule runs the full pipeline: gather -> analyze ->
// request-or-fallback -> score -> persist. Steps are strictly sequential.
// Persistence failure is logged and swallowed; the in-memory schedule is
// still returned so the user-visible feature keeps working.
func (s *scheduleService) GenerateDailySchedule(ctx context.Context, userID string, date string) (*models.Schedule, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty")
	}
	log.Printf("INFO: [ScheduleService] Generating daily schedule for userID %s on %s.", userID, date)

	dayCtx := s.gatherer.GatherDayContext(userID, date)

	history, err := s.taskRepo.GetRecentCompletedTasks(userID, energyHistoryLimit)
	if err != nil {
		log.Printf("WARN: [ScheduleService] Failed to load completion history for userID %s: %v. Using default energy pattern.", userID, err)
		history = nil
	}
	pattern := s.analyzer.AnalyzeEnergyPattern(history)

	schedule := s.requestSchedule(ctx, userID, date, dayCtx, pattern)

	schedule.OptimizationScore = CalculateOptimizationScore(schedule, pattern)
	schedule.AdaptabilityScore = CalculateAdaptabilityScore(schedule)

	if err := s.scheduleRepo.UpsertSchedule(schedule); err != nil {
		// Non-critical write: the computed schedule is still returned.
		log.Printf("WARN: [ScheduleService] Failed to persist schedule for userID %s on %s: %v. Returning in-memory result.", userID, date, err)
	}

	log.Printf("INFO: [ScheduleService] Schedule ready for userID %s on %s: %d blocks, optimization %.1f, adaptability %.2f.",
		userID, date, len(schedule.TimeBlocks), schedule.OptimizationScore, schedule.AdaptabilityScore)
	return schedule, nil
}

// GetSchedule returns the stored schedule for (user, date), or nil when none exists.
func (s *scheduleService) GetSchedule(userID string, date string) (*models.Schedule, error) {
	return s.scheduleRepo.GetScheduleByUserAndDate(userID, date)
}

// requestSchedule is the primary-path requester with fallback. It never fails:
// an empty candidate list short-circuits to the canonical no-tasks schedule,
// and any reasoning failure or invalid structure degrades to the deterministic
// fallback scheduler without internal retries.
func (s *scheduleService) requestSchedule(ctx context.Context, userID string, date string, dayCtx DayContext, pattern models.EnergyPattern) *models.Schedule {
	if len(dayCtx.Tasks) == 0 {
		log.Printf("INFO: [ScheduleService] No candidate tasks for userID %s on %s; returning canonical empty schedule.", userID, date)
		return emptySchedule(userID, date)
	}

	payload, err := s.reasoning.ProposeStructured(ctx,
		scheduleSystemPrompt,
		buildSchedulePrompt(date, dayCtx, pattern),
		StructuredSchema{Name: "daily_schedule", Schema: json.RawMessage(dailyScheduleSchema)},
	)
	if err != nil {
		log.Printf("WARN: [ScheduleService] Reasoning service failed for userID %s on %s: %v. Falling back to deterministic scheduler.", userID, date, err)
		return BuildFallbackSchedule(userID, date, dayCtx.Tasks)
	}

	schedule, err := parseScheduleProposal(userID, date, payload)
	if err != nil {
		log.Printf("WARN: [ScheduleService] Reasoning service returned an invalid schedule for userID %s on %s: %v. Falling back to deterministic scheduler.", userID, date, err)
		return BuildFallbackSchedule(userID, date, dayCtx.Tasks)
	}
	return schedule
}

// buildSchedulePrompt enumerates every candidate task with its full scheduling
// attributes, plus the day's boundaries and the inferred energy pattern.
// Durations and difficulty pass through as given; sanitization happened at
// task generation time.
func buildSchedulePrompt(date string, dayCtx DayContext, pattern models.EnergyPattern) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Plan the day %s.\n\n", date)

	fmt.Fprintf(&b, "Energy pattern: type=%s peak=%s low=%s secondary_peak=%s\n\n",
		pattern.Type, pattern.Peak, pattern.Low, pattern.SecondaryPeak)

	c := dayCtx.Constraints
	fmt.Fprintf(&b, "Work hours: %s-%s\n", c.WorkHours.StartTime, c.WorkHours.EndTime)
	for _, br := range c.Breaks {
		fmt.Fprintf(&b, "Break (%s): %s-%s\n", br.Name, br.StartTime, br.EndTime)
	}
	for _, blocked := range c.BlockedTimes {
		fmt.Fprintf(&b, "Blocked: %s-%s\n", blocked.StartTime, blocked.EndTime)
	}
	for _, preferred := range c.PreferredTimes {
		fmt.Fprintf(&b, "Preferred work window: %s-%s\n", preferred.StartTime, preferred.EndTime)
	}

	b.WriteString("\nTasks to schedule:\n")
	for _, task := range dayCtx.Tasks {
		fmt.Fprintf(&b, "- id=%d title=%q type=%s priority=%s duration_minutes=%d energy=%s difficulty=%d",
			task.ID, task.Title, task.Type, task.Priority, task.EstimatedDuration, task.EnergyLevelRequired, task.DifficultyLevel)
		if task.SuggestedTimeSlot != "" {
			fmt.Fprintf(&b, " suggested_slot=%q", task.SuggestedTimeSlot)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// scheduleProposal is the untrusted payload shape the reasoning service emits.
type scheduleProposal struct {
	TimeBlocks         []models.TimeBlock        `json:"timeBlocks"`
	BufferBlocks       []models.BufferBlock      `json:"bufferBlocks"`
	Recommendations    []string                  `json:"recommendations"`
	EnergyOptimization models.EnergyOptimization `json:"energyOptimization"`
	WorkLifeBalance    models.WorkLifeBalance    `json:"workLifeBalance"`
}

// parseScheduleProposal validates the structured reply against the schedule
// invariants: every block well-formed with start < end, and all intervals
// (time blocks and buffers jointly) pairwise non-overlapping. Any violation is
// a hard failure of the requester.
func parseScheduleProposal(userID string, date string, payload json.RawMessage) (*models.Schedule, error) {
	var proposal scheduleProposal
	if err := json.Unmarshal(payload, &proposal); err != nil {
		return nil, fmt.Errorf("payload does not match the schedule shape: %w", err)
	}

	type interval struct {
		start, end int
		label      string
	}
	var intervals []interval

	for i, block := range proposal.TimeBlocks {
		start, err := utils.ParseClock(block.StartTime)
		if err != nil {
			return nil, fmt.Errorf("time block %d: %w", i, err)
		}
		end, err := utils.ParseClock(block.EndTime)
		if err != nil {
			return nil, fmt.Errorf("time block %d: %w", i, err)
		}
		if start >= end {
			return nil, fmt.Errorf("time block %d (%s) does not satisfy startTime < endTime", i, block.Title)
		}
		intervals = append(intervals, interval{start, end, fmt.Sprintf("time block %q", block.Title)})
	}
	for i, buffer := range proposal.BufferBlocks {
		start, err := utils.ParseClock(buffer.StartTime)
		if err != nil {
			return nil, fmt.Errorf("buffer block %d: %w", i, err)
		}
		end, err := utils.ParseClock(buffer.EndTime)
		if err != nil {
			return nil, fmt.Errorf("buffer block %d: %w", i, err)
		}
		if start >= end {
			return nil, fmt.Errorf("buffer block %d (%s) does not satisfy startTime < endTime", i, buffer.Purpose)
		}
		intervals = append(intervals, interval{start, end, fmt.Sprintf("buffer %q", buffer.Purpose)})
	}

	sort.Slice(intervals, func(i, j int) bool { return intervals[i].start < intervals[j].start })
	for i := 1; i < len(intervals); i++ {
		if intervals[i].start < intervals[i-1].end {
			return nil, fmt.Errorf("%s overlaps %s", intervals[i].label, intervals[i-1].label)
		}
	}

	// Chronological order is part of the aggregate's contract.
	sort.SliceStable(proposal.TimeBlocks, func(i, j int) bool {
		return proposal.TimeBlocks[i].StartTime < proposal.TimeBlocks[j].StartTime
	})

	return &models.Schedule{
		UserID:             userID,
		Date:               date,
		TimeBlocks:         proposal.TimeBlocks,
		BufferBlocks:       proposal.BufferBlocks,
		Recommendations:    proposal.Recommendations,
		EnergyOptimization: proposal.EnergyOptimization,
		WorkLifeBalance:    proposal.WorkLifeBalance,
	}, nil
}

// emptySchedule is the canonical "no tasks" schedule: no blocks, a single
// recommendation, near-zero work time. The reasoning service is not called.
func emptySchedule(userID string, date string) *models.Schedule {
	return &models.Schedule{
		UserID:          userID,
		Date:            date,
		TimeBlocks:      []models.TimeBlock{},
		BufferBlocks:    []models.BufferBlock{},
		Recommendations: []string{noTasksRecommendation},
		WorkLifeBalance: models.WorkLifeBalance{
			WorkTime:     0,
			PersonalTime: 16,
			BreakTime:    0,
			BalanceScore: 0.5,
		},
	}
}

// dailyScheduleSchema is the strict output schema the reasoning service must
// satisfy. Anything that does not parse into this shape is treated as a
// failed call.
const dailyScheduleSchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["timeBlocks", "bufferBlocks", "recommendations", "energyOptimization", "workLifeBalance"],
  "properties": {
    "timeBlocks": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["startTime", "endTime", "taskId", "title", "priority", "energyLevel", "focusType", "optimizationReason"],
        "properties": {
          "startTime": {"type": "string", "pattern": "^[0-2][0-9]:[0-5][0-9]$"},
          "endTime": {"type": "string", "pattern": "^[0-2][0-9]:[0-5][0-9]$"},
          "taskId": {"type": "integer"},
          "title": {"type": "string"},
          "priority": {"type": "string", "enum": ["low", "medium", "high"]},
          "energyLevel": {"type": "string", "enum": ["low", "medium", "high"]},
          "focusType": {"type": "string"},
          "optimizationReason": {"type": "string"}
        }
      }
    },
    "bufferBlocks": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["startTime", "endTime", "purpose"],
        "properties": {
          "startTime": {"type": "string", "pattern": "^[0-2][0-9]:[0-5][0-9]$"},
          "endTime": {"type": "string", "pattern": "^[0-2][0-9]:[0-5][0-9]$"},
          "purpose": {"type": "string"}
        }
      }
    },
    "recommendations": {"type": "array", "items": {"type": "string"}},
    "energyOptimization": {
      "type": "object",
      "additionalProperties": false,
      "required": ["highEnergyTasks", "lowEnergyTasks", "suggestedBreaks"],
      "properties": {
        "highEnergyTasks": {"type": "array", "items": {"type": "integer"}},
        "lowEnergyTasks": {"type": "array", "items": {"type": "integer"}},
        "suggestedBreaks": {"type": "array", "items": {"type": "string"}}
      }
    },
    "workLifeBalance": {
      "type": "object",
      "additionalProperties": false,
      "required": ["workTime", "personalTime", "breakTime", "balanceScore"],
      "properties": {
        "workTime": {"type": "number"},
        "personalTime": {"type": "number"},
        "breakTime": {"type": "number"},
        "balanceScore": {"type": "number"}
      }
    }
  }
}`
