package handler

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/som-tools/coursetable-api/internal/dto"
	"github.com/som-tools/coursetable-api/internal/models"
	appErrors "github.com/som-tools/coursetable-api/pkg/errors"
	"github.com/som-tools/coursetable-api/pkg/response"
)

type exportService interface {
	Create(ctx context.Context, req dto.CreateExportRequest) (*models.ExportJob, error)
	Get(id string) (*models.ExportJob, error)
	OpenDownload(token string) (file *os.File, fileName string, contentType string, err error)
}

// ExportHandler serves the asynchronous schedule-export endpoints.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Create godoc
// @Summary Request a schedule export
// @Description Queues an ICS, CSV, or PDF rendering of the given schedule.
// @Tags Exports
// @Accept json
// @Produce json
// @Param request body dto.CreateExportRequest true "Export request"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /exports [post]
func (h *ExportHandler) Create(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "exports are not enabled"))
		return
	}
	var req dto.CreateExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid export request"))
		return
	}
	job, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, jobResponse(job), nil)
}

// Get godoc
// @Summary Get export job status
// @Tags Exports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/{id} [get]
func (h *ExportHandler) Get(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "exports are not enabled"))
		return
	}
	job, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, jobResponse(job), nil)
}

// Download godoc
// @Summary Download a completed export
// @Description Streams the rendered file referenced by a signed token.
// @Tags Exports
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "exports are not enabled"))
		return
	}
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	file, fileName, contentType, err := h.service.OpenDownload(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file)
}

func jobResponse(job *models.ExportJob) dto.ExportJobResponse {
	return dto.ExportJobResponse{
		ID:          job.ID,
		Format:      job.Format,
		Status:      job.Status,
		FileName:    job.FileName,
		DownloadURL: job.DownloadURL,
		Error:       job.Error,
		CreatedAt:   job.CreatedAt,
		CompletedAt: job.CompletedAt,
		ExpiresAt:   job.ExpiresAt,
	}
}
