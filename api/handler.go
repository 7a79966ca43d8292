package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MrSirThe1st/blob-app-sub001/models"
	"github.com/MrSirThe1st/blob-app-sub001/repository"
	"github.com/MrSirThe1st/blob-app-sub001/services"
	"github.com/MrSirThe1st/blob-app-sub001/utils"

	"github.com/gin-gonic/gin"
)

// APIHandler holds all dependencies for API handlers.
type APIHandler struct {
	scheduleService   services.ScheduleService
	generationService services.TaskGenerationService
	lifecycleService  services.TaskLifecycleService
	taskRepo          repository.TaskRepository
	xpRepo            repository.XPRepository
	prefRepo          repository.PreferenceRepository
}

// NewAPIHandler creates a new APIHandler with necessary dependencies.
func NewAPIHandler(
	scheduleService services.ScheduleService,
	generationService services.TaskGenerationService,
	lifecycleService services.TaskLifecycleService,
	taskRepo repository.TaskRepository,
	xpRepo repository.XPRepository,
	prefRepo repository.PreferenceRepository,
) *APIHandler {
	return &APIHandler{
		scheduleService:   scheduleService,
		generationService: generationService,
		lifecycleService:  lifecycleService,
		taskRepo:          taskRepo,
		xpRepo:            xpRepo,
		prefRepo:          prefRepo,
	}
}

type generateScheduleRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Date   string `json:"date"`
}

// GenerateScheduleHandler runs the daily schedule pipeline for (user, date).
// An omitted date defaults to today.
func (h *APIHandler) GenerateScheduleHandler(c *gin.Context) {
	var req generateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}
	if req.Date == "" {
		req.Date = time.Now().Format(utils.DateFormat)
	}
	if _, err := time.Parse(utils.DateFormat, req.Date); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Date must be YYYY-MM-DD.", err)
		return
	}

	schedule, err := h.scheduleService.GenerateDailySchedule(c.Request.Context(), req.UserID, req.Date)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to generate schedule.", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": schedule})
}

// GetScheduleHandler returns the stored schedule for (user, date).
func (h *APIHandler) GetScheduleHandler(c *gin.Context) {
	userID := c.Param("userID")
	date := c.Param("date")

	schedule, err := h.scheduleService.GetSchedule(userID, date)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to load schedule.", err)
		return
	}
	if schedule == nil {
		utils.SendJSONError(c, http.StatusNotFound, "No schedule found for this date.", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": schedule})
}

type goalTasksRequest struct {
	UserID    string                 `json:"user_id" binding:"required"`
	GoalID    *uint                  `json:"goal_id"`
	Breakdown services.GoalBreakdown `json:"breakdown" binding:"required"`
}

// GenerateGoalTasksHandler turns a goal breakdown into persisted tasks.
func (h *APIHandler) GenerateGoalTasksHandler(c *gin.Context) {
	var req goalTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	tasks, err := h.generationService.GenerateTasksFromGoal(c.Request.Context(), req.UserID, req.GoalID, req.Breakdown)
	if err != nil {
		utils.SendJSONError(c, http.StatusBadGateway, "Task generation is temporarily unavailable. Please try again.", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tasks})
}

type onboardingTasksRequest struct {
	UserID       string                     `json:"user_id" binding:"required"`
	Conversation string                     `json:"conversation"`
	Profile      services.OnboardingProfile `json:"profile"`
	HorizonDays  int                        `json:"horizon_days"`
}

// GenerateOnboardingTasksHandler builds the starter task set from onboarding
// input. A non-success result (no usable AI output) is still HTTP 200.
func (h *APIHandler) GenerateOnboardingTasksHandler(c *gin.Context) {
	var req onboardingTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	result, err := h.generationService.GenerateTasksFromOnboarding(c.Request.Context(), req.UserID, req.Conversation, req.Profile, req.HorizonDays)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to save generated tasks.", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

// GetTasksForUserHandler lists a user's tasks, optionally filtered by ?date=.
func (h *APIHandler) GetTasksForUserHandler(c *gin.Context) {
	userID := c.Param("userID")
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format(utils.DateFormat)
	}

	tasks, err := h.taskRepo.GetTasksForDate(userID, date)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to load tasks.", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tasks})
}

type lifecycleRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// StartTaskHandler moves a task into in_progress.
func (h *APIHandler) StartTaskHandler(c *gin.Context) {
	taskID, ok := h.parseTaskID(c)
	if !ok {
		return
	}
	var req lifecycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	task, err := h.lifecycleService.StartTask(taskID, req.UserID)
	if err != nil {
		h.sendLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": task})
}

// CompleteTaskHandler completes a task and reports the XP award.
func (h *APIHandler) CompleteTaskHandler(c *gin.Context) {
	taskID, ok := h.parseTaskID(c)
	if !ok {
		return
	}
	var req lifecycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	result, err := h.lifecycleService.CompleteTask(taskID, req.UserID)
	if err != nil {
		h.sendLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

type rescheduleRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	NewDate     string `json:"new_date" binding:"required"`
	NewTimeSlot string `json:"new_time_slot"`
}

// RescheduleTaskHandler moves a task to a new date and optional time slot.
func (h *APIHandler) RescheduleTaskHandler(c *gin.Context) {
	taskID, ok := h.parseTaskID(c)
	if !ok {
		return
	}
	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}
	if _, err := time.Parse(utils.DateFormat, req.NewDate); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "new_date must be YYYY-MM-DD.", err)
		return
	}

	task, err := h.lifecycleService.RescheduleTask(taskID, req.UserID, req.NewDate, req.NewTimeSlot)
	if err != nil {
		h.sendLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": task})
}

// GetXPHandler returns the user's running XP total.
func (h *APIHandler) GetXPHandler(c *gin.Context) {
	userID := c.Param("userID")
	total, err := h.xpRepo.GetTotalXP(userID)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to load XP total.", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"user_id": userID, "total_xp": total}})
}

// GetPreferencesHandler returns the user's stored scheduling preferences.
func (h *APIHandler) GetPreferencesHandler(c *gin.Context) {
	userID := c.Param("userID")
	prefs, err := h.prefRepo.GetPreferences(userID)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to load preferences.", err)
		return
	}
	if prefs == nil {
		utils.SendJSONError(c, http.StatusNotFound, "No stored preferences for this user.", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": prefs})
}

// PutPreferencesHandler stores the user's scheduling preferences.
func (h *APIHandler) PutPreferencesHandler(c *gin.Context) {
	userID := c.Param("userID")
	var prefs models.UserPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}
	prefs.UserID = userID

	if err := h.prefRepo.UpsertPreferences(&prefs); err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to save preferences.", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": prefs})
}

func (h *APIHandler) parseTaskID(c *gin.Context) (uint, bool) {
	raw := c.Param("taskID")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid task ID.", err)
		return 0, false
	}
	return uint(id), true
}

// sendLifecycleError maps service errors onto client-appropriate statuses.
func (h *APIHandler) sendLifecycleError(c *gin.Context, err error) {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		utils.SendJSONError(c, http.StatusNotFound, msg, err)
	case strings.Contains(msg, "unauthorized"):
		utils.SendJSONError(c, http.StatusForbidden, msg, err)
	case strings.Contains(msg, "cannot"):
		utils.SendJSONError(c, http.StatusConflict, msg, err)
	default:
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to update task.", err)
	}
}
