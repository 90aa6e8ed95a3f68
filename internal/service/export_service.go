package service

import (
	"context"
	"time"

	"venzen/gym-log/internal/export"
	"venzen/gym-log/internal/repository"
	"venzen/gym-log/internal/storage"
)

// ExportResult describes a finished CSV export.
type ExportResult struct {
	CSVText  string // Only populated for inline exports
	RowCount int
	URL      string // Only populated for uploaded exports
}

// ExportService builds CSV exports of a user's workout history, either
// returned inline for direct download or uploaded to object storage
// and handed back as a presigned URL.
type ExportService interface {
	BuildCSV(ctx context.Context, userID string, opts export.Options) (*ExportResult, error)
	UploadCSV(ctx context.Context, userID string, opts export.Options) (*ExportResult, error)
}

// exportService implements the ExportService interface.
type exportService struct {
	sessionRepo   repository.SessionRepository
	fileStorage   storage.FileStorage
	location      *time.Location
	presignExpiry time.Duration
}

// NewExportService creates a new instance of exportService. location is
// the viewer's time zone used for all local date and time columns.
func NewExportService(sessionRepo repository.SessionRepository, fileStorage storage.FileStorage, location *time.Location, presignExpiry time.Duration) ExportService {
	if location == nil {
		location = time.Local
	}
	if presignExpiry <= 0 {
		presignExpiry = storage.DefaultPresignedURLExpiry
	}
	return &exportService{
		sessionRepo:   sessionRepo,
		fileStorage:   fileStorage,
		location:      location,
		presignExpiry: presignExpiry,
	}
}

// BuildCSV reads the user's sessions and serializes them for inline
// download.
func (s *exportService) BuildCSV(ctx context.Context, userID string, opts export.Options) (*ExportResult, error) {
	sessions, err := s.sessionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	csvText, rowCount := export.BuildCSV(sessions, opts, s.location)
	return &ExportResult{CSVText: csvText, RowCount: rowCount}, nil
}

// UploadCSV builds the export, stores it in the bucket, and returns a
// presigned download URL.
func (s *exportService) UploadCSV(ctx context.Context, userID string, opts export.Options) (*ExportResult, error) {
	result, err := s.BuildCSV(ctx, userID, opts)
	if err != nil {
		return nil, err
	}

	objectKey := export.ObjectKey(userID, opts, time.Now())
	if err := s.fileStorage.Upload(ctx, objectKey, "text/csv", []byte(result.CSVText)); err != nil {
		return nil, err
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, s.presignExpiry)
	if err != nil {
		return nil, err
	}

	return &ExportResult{RowCount: result.RowCount, URL: url}, nil
}
