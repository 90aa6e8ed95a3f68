package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"venzen/gym-log/internal/domain"
	"venzen/gym-log/internal/mutation"
	"venzen/gym-log/internal/projection"
	"venzen/gym-log/internal/repository"
	"venzen/gym-log/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionHandler exposes the workout session lifecycle and every
// exercise/set mutation.
type SessionHandler struct {
	workoutService service.WorkoutService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(workoutService service.WorkoutService) *SessionHandler {
	return &SessionHandler{workoutService: workoutService}
}

// --- Request/Response Structs ---

type RenameRequest struct {
	Name string `json:"name" binding:"required"`
}

type AddExerciseRequest struct {
	Name string `json:"name" binding:"required"`
}

// SetRequest carries weight and reps as strings so the engine's one
// parsing policy (comma or dot decimals, blank weight means zero)
// applies to every client uniformly.
type SetRequest struct {
	WeightKg string `json:"weightKg"`
	Reps     string `json:"reps" binding:"required"`
}

type ExercisesResponse struct {
	Exercises []domain.Exercise `json:"exercises"`
}

// ActiveSessionResponse is the active-session projection: the session
// itself, its exercises in display order (most recently created
// first), and the elapsed-time label.
type ActiveSessionResponse struct {
	Session   *domain.WorkoutSession `json:"session"`
	Exercises []domain.Exercise      `json:"exercises"`
	Elapsed   string                 `json:"elapsed,omitempty"`
}

// --- Handler Methods ---

// Start begins a workout, joining the existing active session if one
// exists.
func (h *SessionHandler) Start(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	session, err := h.workoutService.StartWorkout(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// End transitions the session to ended and stamps endedAt.
func (h *SessionHandler) End(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	if err := h.workoutService.EndWorkout(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Rename sets the session's display label.
func (h *SessionHandler) Rename(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.workoutService.RenameWorkout(c.Request.Context(), userID, c.Param("id"), req.Name); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete removes the whole session document.
func (h *SessionHandler) Delete(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	if err := h.workoutService.DeleteWorkout(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List returns all of the user's sessions, newest first.
func (h *SessionHandler) List(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	sessions, err := h.workoutService.ListSessions(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// Active returns the active-session projection, or a null session when
// nothing is being logged.
func (h *SessionHandler) Active(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	sessions, err := h.workoutService.ListSessions(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	active := projection.ActiveSession(sessions)
	resp := ActiveSessionResponse{Session: active}
	if active != nil {
		resp.Exercises = projection.DisplayExercises(active)
		resp.Elapsed = projection.ElapsedLabel(active.StartedAt, time.Now())
	}
	c.JSON(http.StatusOK, resp)
}

// Stream is the live subscription surfaced as server-sent events. Every
// store change produces a "snapshot" event carrying the full session
// list, and a once-per-second "tick" event refreshes the elapsed label
// while a session is active. A subscription error produces a terminal
// "error" event.
func (h *SessionHandler) Stream(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	snapshots := make(chan []domain.WorkoutSession, 16)
	errs := make(chan error, 1)

	stop, err := h.workoutService.Subscribe(
		c.Request.Context(),
		userID,
		func(sessions []domain.WorkoutSession) {
			select {
			case snapshots <- sessions:
			default:
				// A slow client only ever needs the latest snapshot.
			}
		},
		func(err error) {
			errs <- err
		},
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer stop()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var latest []domain.WorkoutSession

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case err := <-errs:
			c.SSEvent("error", gin.H{"error": err.Error()})
			return false
		case sessions := <-snapshots:
			latest = sessions
			c.SSEvent("snapshot", sessions)
			return true
		case <-ticker.C:
			if active := projection.ActiveSession(latest); active != nil {
				c.SSEvent("tick", gin.H{
					"sessionId": active.ID,
					"elapsed":   projection.ElapsedLabel(active.StartedAt, time.Now()),
				})
			}
			return true
		}
	})
}

// AddExercise appends a new exercise to the session.
func (h *SessionHandler) AddExercise(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req AddExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercises, err := h.workoutService.AddExercise(c.Request.Context(), userID, c.Param("id"), req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ExercisesResponse{Exercises: exercises})
}

// RenameExercise renames one exercise.
func (h *SessionHandler) RenameExercise(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercises, err := h.workoutService.RenameExercise(c.Request.Context(), userID, c.Param("id"), c.Param("exerciseId"), req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ExercisesResponse{Exercises: exercises})
}

// DeleteExercise removes an exercise and all of its sets.
func (h *SessionHandler) DeleteExercise(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	exercises, err := h.workoutService.DeleteExercise(c.Request.Context(), userID, c.Param("id"), c.Param("exerciseId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ExercisesResponse{Exercises: exercises})
}

// AddSet logs a completed set against an exercise.
func (h *SessionHandler) AddSet(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req SetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercises, err := h.workoutService.AddSet(c.Request.Context(), userID, c.Param("id"), c.Param("exerciseId"), req.WeightKg, req.Reps)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ExercisesResponse{Exercises: exercises})
}

// UpdateSet edits a previously logged set.
func (h *SessionHandler) UpdateSet(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req SetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercises, err := h.workoutService.UpdateSet(c.Request.Context(), userID, c.Param("id"), c.Param("exerciseId"), c.Param("setId"), req.WeightKg, req.Reps)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ExercisesResponse{Exercises: exercises})
}

// DeleteSet removes one set.
func (h *SessionHandler) DeleteSet(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	exercises, err := h.workoutService.DeleteSet(c.Request.Context(), userID, c.Param("id"), c.Param("exerciseId"), c.Param("setId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ExercisesResponse{Exercises: exercises})
}

// respondServiceError maps service and engine errors onto HTTP status
// codes: validation failures are 400, missing documents 404, busy and
// write conflicts 409, everything else 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case mutation.IsValidation(err) || errors.Is(err, service.ErrEmptyName):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrFavoriteNotFound),
		errors.Is(err, mutation.ErrExerciseNotFound),
		errors.Is(err, mutation.ErrSetNotFound),
		errors.Is(err, repository.ErrNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrActionInFlight), errors.Is(err, repository.ErrConflict):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrFavoriteValidation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
