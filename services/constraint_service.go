package services

import (
	"log"

	"github.com/MrSirThe1st/blob-app-sub001/config"
	"github.com/MrSirThe1st/blob-app-sub001/models"
	"github.com/MrSirThe1st/blob-app-sub001/repository"
)

const maxOverdueCarryOver = 3

// DayContext is everything schedule generation needs for one (user, date):
// the candidate tasks and the day's fixed boundary conditions.
type DayContext struct {
	Tasks       []*models.Task
	Constraints models.ScheduleConstraints
}

// ConstraintGatherer collects the day's candidate tasks (scheduled, recurring
// habits, overdue carry-over) and the user's fixed time constraints. It is
// read-only; any read failure degrades to defaults instead of aborting
// generation.
type ConstraintGatherer interface {
	GatherDayContext(userID string, date string) DayContext
}

type constraintGatherer struct {
	taskRepo repository.TaskRepository
	prefRepo repository.PreferenceRepository
}

// NewConstraintGatherer creates a new instance of ConstraintGatherer.
func NewConstraintGatherer(taskRepo repository.TaskRepository, prefRepo repository.PreferenceRepository) ConstraintGatherer {
	return &constraintGatherer{taskRepo: taskRepo, prefRepo: prefRepo}
}

// GatherDayContext assembles the candidate task list and constraints for one
// day. Tasks already present from the scheduled query are not duplicated by
// the habit query.
func (g *constraintGatherer) GatherDayContext(userID string, date string) DayContext {
	seen := make(map[uint]bool)
	var candidates []*models.Task

	scheduled, err := g.taskRepo.GetTasksForDate(userID, date)
	if err != nil {
		log.Printf("WARN: [ConstraintGatherer] Failed to load scheduled tasks for userID %s on %s: %v. Continuing without them.", userID, date, err)
	}
	for _, task := range scheduled {
		if !seen[task.ID] {
			seen[task.ID] = true
			candidates = append(candidates, task)
		}
	}

	habits, err := g.taskRepo.GetDailyHabits(userID)
	if err != nil {
		log.Printf("WARN: [ConstraintGatherer] Failed to load daily habits for userID %s: %v. Continuing without them.", userID, err)
	}
	for _, task := range habits {
		if !seen[task.ID] {
			seen[task.ID] = true
			candidates = append(candidates, task)
		}
	}

	overdue, err := g.taskRepo.GetOverdueTasks(userID, date, maxOverdueCarryOver)
	if err != nil {
		log.Printf("WARN: [ConstraintGatherer] Failed to load overdue tasks for userID %s: %v. Continuing without them.", userID, err)
	}
	for _, task := range overdue {
		if !seen[task.ID] {
			seen[task.ID] = true
			candidates = append(candidates, task)
		}
	}

	return DayContext{
		Tasks:       candidates,
		Constraints: g.gatherConstraints(userID),
	}
}

// gatherConstraints reads stored preferences, falling back to the configured
// defaults for any missing piece. Missing preference rows are expected and
// never an error.
func (g *constraintGatherer) gatherConstraints(userID string) models.ScheduleConstraints {
	defaults := defaultConstraints()

	if g.prefRepo == nil {
		return defaults
	}
	prefs, err := g.prefRepo.GetPreferences(userID)
	if err != nil {
		log.Printf("WARN: [ConstraintGatherer] Failed to read preferences for userID %s: %v. Using defaults.", userID, err)
		return defaults
	}
	if prefs == nil {
		return defaults
	}

	constraints := defaults
	if prefs.WorkStart != "" && prefs.WorkEnd != "" {
		constraints.WorkHours = models.TimeWindow{StartTime: prefs.WorkStart, EndTime: prefs.WorkEnd}
	}
	if len(prefs.Breaks) > 0 {
		constraints.Breaks = prefs.Breaks
	}
	constraints.BlockedTimes = prefs.BlockedTimes
	constraints.PreferredTimes = prefs.PreferredTimes
	return constraints
}

func defaultConstraints() models.ScheduleConstraints {
	sched := config.AppConfig.Scheduling
	workStart, workEnd := sched.WorkStart, sched.WorkEnd
	if workStart == "" || workEnd == "" {
		workStart, workEnd = "09:00", "17:00"
	}
	lunchStart, lunchEnd := sched.LunchStart, sched.LunchEnd
	if lunchStart == "" || lunchEnd == "" {
		lunchStart, lunchEnd = "12:00", "13:00"
	}
	return models.ScheduleConstraints{
		WorkHours: models.TimeWindow{StartTime: workStart, EndTime: workEnd},
		Breaks: []models.TimeWindow{
			{Name: "Lunch", StartTime: lunchStart, EndTime: lunchEnd},
		},
		BlockedTimes:   nil,
		PreferredTimes: nil,
	}
}
