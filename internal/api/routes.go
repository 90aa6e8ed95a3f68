package api

import (
	"net/http"
	"strconv"
	"time"

	"venzen/gym-log/internal/catalog"
	"venzen/gym-log/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	location *time.Location,
	authService service.AuthService,
	workoutService service.WorkoutService,
	favoriteService service.FavoriteService,
	exportService service.ExportService,
) {

	authHandler := NewAuthHandler(authService)
	sessionHandler := NewSessionHandler(workoutService)
	historyHandler := NewHistoryHandler(workoutService, location)
	exportHandler := NewExportHandler(exportService, location)
	favoriteHandler := NewFavoriteHandler(favoriteService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr})
		})

		// --- Session Routes ---
		sessionGroup := protected.Group("/sessions")
		{
			sessionGroup.POST("/start", sessionHandler.Start)
			sessionGroup.GET("", sessionHandler.List)
			sessionGroup.GET("/active", sessionHandler.Active)
			sessionGroup.GET("/stream", sessionHandler.Stream)

			sessionGroup.POST("/:id/end", sessionHandler.End)
			sessionGroup.PATCH("/:id", sessionHandler.Rename)
			sessionGroup.DELETE("/:id", sessionHandler.Delete)

			// --- Exercise and Set Mutations ---
			sessionGroup.POST("/:id/exercises", sessionHandler.AddExercise)
			sessionGroup.PATCH("/:id/exercises/:exerciseId", sessionHandler.RenameExercise)
			sessionGroup.DELETE("/:id/exercises/:exerciseId", sessionHandler.DeleteExercise)

			sessionGroup.POST("/:id/exercises/:exerciseId/sets", sessionHandler.AddSet)
			sessionGroup.PATCH("/:id/exercises/:exerciseId/sets/:setId", sessionHandler.UpdateSet)
			sessionGroup.DELETE("/:id/exercises/:exerciseId/sets/:setId", sessionHandler.DeleteSet)
		}

		// --- History Routes ---
		historyGroup := protected.Group("/history")
		{
			historyGroup.GET("/calendar", historyHandler.Calendar)
			historyGroup.GET("/days/:dayKey", historyHandler.Day)
		}

		// --- Export Routes ---
		exportGroup := protected.Group("/export")
		{
			exportGroup.GET("/csv", exportHandler.DownloadCSV)
			exportGroup.POST("/s3", exportHandler.UploadCSV)
		}

		// --- Favorite Template Routes ---
		favoriteGroup := protected.Group("/favorites")
		{
			favoriteGroup.GET("", favoriteHandler.List)
			favoriteGroup.GET("/stream", favoriteHandler.Stream)
			favoriteGroup.POST("", favoriteHandler.Create)
			favoriteGroup.DELETE("/:id", favoriteHandler.Delete)
		}

		// --- Catalog Routes ---
		protected.GET("/catalog/suggest", func(c *gin.Context) {
			limit := 8
			if raw := c.Query("limit"); raw != "" {
				if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
					limit = parsed
				}
			}
			c.JSON(http.StatusOK, catalog.Suggest(c.Query("q"), limit))
		})
	}
}
