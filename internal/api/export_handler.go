package api

import (
	"fmt"
	"net/http"
	"time"

	"venzen/gym-log/internal/dates"
	"venzen/gym-log/internal/export"
	"venzen/gym-log/internal/service"

	"github.com/gin-gonic/gin"
)

// ExportHandler serves CSV exports of the workout history, both inline
// and uploaded to object storage.
type ExportHandler struct {
	exportService service.ExportService
	location      *time.Location
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService service.ExportService, location *time.Location) *ExportHandler {
	return &ExportHandler{exportService: exportService, location: location}
}

type UploadExportResponse struct {
	URL      string `json:"url"`
	RowCount int    `json:"rowCount"`
}

// parseOptions reads ?scope=all|month and ?month=YYYY-MM. Scope
// defaults to all; month scope requires a valid month key.
func (h *ExportHandler) parseOptions(c *gin.Context) (export.Options, bool) {
	opts := export.Options{Scope: export.ScopeAll}

	switch scope := c.DefaultQuery("scope", string(export.ScopeAll)); export.Scope(scope) {
	case export.ScopeAll:
	case export.ScopeMonth:
		monthKey := c.Query("month")
		if _, err := dates.ParseMonthKey(monthKey, h.location); err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid month %q, expected YYYY-MM", monthKey))
			return opts, false
		}
		opts.Scope = export.ScopeMonth
		opts.MonthKey = monthKey
	default:
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid scope %q, expected all or month", scope))
		return opts, false
	}
	return opts, true
}

// DownloadCSV streams the export inline as a CSV attachment.
func (h *ExportHandler) DownloadCSV(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	opts, ok := h.parseOptions(c)
	if !ok {
		return
	}

	result, err := h.exportService.BuildCSV(c.Request.Context(), userID, opts)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	filename := "gym-log-export.csv"
	if opts.Scope == export.ScopeMonth {
		filename = fmt.Sprintf("gym-log-export-%s.csv", opts.MonthKey)
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(result.CSVText))
}

// UploadCSV uploads the export to object storage and returns a
// presigned download URL.
func (h *ExportHandler) UploadCSV(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	opts, ok := h.parseOptions(c)
	if !ok {
		return
	}

	result, err := h.exportService.UploadCSV(c.Request.Context(), userID, opts)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, UploadExportResponse{URL: result.URL, RowCount: result.RowCount})
}
