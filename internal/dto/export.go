package dto

import (
	"time"

	"github.com/som-tools/coursetable-api/internal/models"
)

// CreateExportRequest asks for an asynchronous schedule export.
type CreateExportRequest struct {
	Format    models.ExportFormat `json:"format" binding:"required,oneof=ics csv pdf pdf-list" validate:"required,oneof=ics csv pdf pdf-list"`
	CourseIDs []string            `json:"courseIDs" binding:"required,min=1" validate:"required,min=1"`
}

// ExportJobResponse reports the state of an export job.
type ExportJobResponse struct {
	ID          string              `json:"id"`
	Format      models.ExportFormat `json:"format"`
	Status      models.ExportStatus `json:"status"`
	FileName    string              `json:"fileName,omitempty"`
	DownloadURL string              `json:"downloadUrl,omitempty"`
	Error       string              `json:"error,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	CompletedAt *time.Time          `json:"completedAt,omitempty"`
	ExpiresAt   *time.Time          `json:"expiresAt,omitempty"`
}
