package api

import (
	"fmt"
	"io"
	"net/http"

	"venzen/gym-log/internal/domain"
	"venzen/gym-log/internal/service"

	"github.com/gin-gonic/gin"
)

// FavoriteHandler manages the user's saved workout templates.
type FavoriteHandler struct {
	favoriteService service.FavoriteService
}

// NewFavoriteHandler creates a new FavoriteHandler.
func NewFavoriteHandler(favoriteService service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

type CreateFavoriteRequest struct {
	Name          string   `json:"name" binding:"required"`
	ExerciseNames []string `json:"exerciseNames" binding:"required"`
}

// List returns all templates, sorted by name.
func (h *FavoriteHandler) List(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	favorites, err := h.favoriteService.ListFavorites(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, favorites)
}

// Create saves a new template.
func (h *FavoriteHandler) Create(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req CreateFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	favorite, err := h.favoriteService.CreateFavorite(c.Request.Context(), userID, req.Name, req.ExerciseNames)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, favorite)
}

// Delete removes a template.
func (h *FavoriteHandler) Delete(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	if err := h.favoriteService.DeleteFavorite(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Stream pushes the full template list as a server-sent event on every
// store change.
func (h *FavoriteHandler) Stream(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	snapshots := make(chan []domain.FavoriteTemplate, 16)
	errs := make(chan error, 1)

	stop, err := h.favoriteService.Subscribe(
		c.Request.Context(),
		userID,
		func(favorites []domain.FavoriteTemplate) {
			select {
			case snapshots <- favorites:
			default:
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

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case err := <-errs:
			c.SSEvent("error", gin.H{"error": err.Error()})
			return false
		case favorites := <-snapshots:
			c.SSEvent("snapshot", favorites)
			return true
		}
	})
}
