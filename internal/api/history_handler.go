package api

import (
	"fmt"
	"net/http"
	"time"

	"venzen/gym-log/internal/dates"
	"venzen/gym-log/internal/domain"
	"venzen/gym-log/internal/projection"
	"venzen/gym-log/internal/service"

	"github.com/gin-gonic/gin"
)

// HistoryHandler serves the calendar grid and per-day drill-downs built
// from the user's session history.
type HistoryHandler struct {
	workoutService service.WorkoutService
	location       *time.Location
}

// NewHistoryHandler creates a new HistoryHandler. All day and month
// boundaries are computed in the given location.
func NewHistoryHandler(workoutService service.WorkoutService, location *time.Location) *HistoryHandler {
	return &HistoryHandler{workoutService: workoutService, location: location}
}

type CalendarResponse struct {
	MonthKey   string                    `json:"monthKey"`
	MonthLabel string                    `json:"monthLabel"`
	PrevMonth  string                    `json:"prevMonth"`
	NextMonth  string                    `json:"nextMonth"`
	Cells      []projection.CalendarCell `json:"cells"`
}

// DaySessionSummary is one drill-down row: the session with its full
// exercise and set detail plus pre-rendered labels.
type DaySessionSummary struct {
	ID          string               `json:"id"`
	DisplayName string               `json:"displayName"`
	Status      domain.SessionStatus `json:"status"`
	StartedAt   string               `json:"startedAt"`
	EndedAt     string               `json:"endedAt,omitempty"`
	Exercises   []domain.Exercise    `json:"exercises"`
}

type DayResponse struct {
	DayKey   string              `json:"dayKey"`
	Sessions []DaySessionSummary `json:"sessions"`
}

// Calendar returns the month grid for ?month=YYYY-MM, defaulting to the
// current month.
func (h *HistoryHandler) Calendar(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	monthKey := c.Query("month")
	if monthKey == "" {
		monthKey = dates.CurrentMonthKey(h.location)
	}
	monthDate, err := dates.ParseMonthKey(monthKey, h.location)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid month %q, expected YYYY-MM", monthKey))
		return
	}

	sessions, err := h.workoutService.ListSessions(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, CalendarResponse{
		MonthKey:   monthKey,
		MonthLabel: dates.MonthLabel(monthDate, h.location),
		PrevMonth:  dates.MonthKey(dates.PrevMonth(monthDate, h.location), h.location),
		NextMonth:  dates.MonthKey(dates.NextMonth(monthDate, h.location), h.location),
		Cells:      projection.CalendarMonth(sessions, monthDate, h.location),
	})
}

// Day returns the sessions that started on one calendar day, earliest
// first.
func (h *HistoryHandler) Day(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	dayKey := c.Param("dayKey")
	if _, err := dates.ParseDayKey(dayKey, h.location); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid day %q, expected YYYY-MM-DD", dayKey))
		return
	}

	sessions, err := h.workoutService.ListSessions(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	byDay := projection.SessionsByDay(sessions, h.location)
	summaries := make([]DaySessionSummary, 0)
	for _, session := range projection.DaySessions(byDay, dayKey) {
		index := 0
		for i := range sessions {
			if sessions[i].ID == session.ID {
				index = i
				break
			}
		}
		summary := DaySessionSummary{
			ID:          session.ID,
			DisplayName: projection.DisplayName(sessions, index),
			Status:      session.Status,
			StartedAt:   dates.TimeLabel(session.StartedAt, h.location),
			Exercises:   session.Exercises,
		}
		if session.EndedAt != nil {
			summary.EndedAt = dates.TimeLabel(*session.EndedAt, h.location)
		}
		summaries = append(summaries, summary)
	}

	c.JSON(http.StatusOK, DayResponse{DayKey: dayKey, Sessions: summaries})
}
