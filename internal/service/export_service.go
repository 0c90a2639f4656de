package service

import (
	"context"
	"fmt"
	"os"
	"path"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/som-tools/coursetable-api/internal/dto"
	"github.com/som-tools/coursetable-api/internal/models"
	"github.com/som-tools/coursetable-api/pkg/config"
	appErrors "github.com/som-tools/coursetable-api/pkg/errors"
	"github.com/som-tools/coursetable-api/pkg/export"
	"github.com/som-tools/coursetable-api/pkg/jobs"
	"github.com/som-tools/coursetable-api/pkg/storage"
)

// ExportService renders schedule exports asynchronously. Jobs are tracked in
// memory; the rendered file on disk plus the signed download token are the
// durable artifacts, so a restart only loses job status, not files.
type ExportService struct {
	schedules *ScheduleService
	store     *storage.LocalStorage
	signer    *storage.DownloadSigner
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger

	pool            *jobs.Pool
	cleanupInterval time.Duration
	fileTTL         time.Duration
	maxRetries      int

	csv     *export.CSVExporter
	pdf     *export.SchedulePDFExporter
	pdfList *export.PDFExporter

	mu      sync.RWMutex
	records map[string]*models.ExportJob
}

// NewExportService constructs the export pipeline.
func NewExportService(schedules *ScheduleService, store *storage.LocalStorage, signer *storage.DownloadSigner, metrics *MetricsService, cfg config.ExportsConfig, logger *zap.Logger) *ExportService {
	s := &ExportService{
		schedules:       schedules,
		store:           store,
		signer:          signer,
		metrics:         metrics,
		validator:       validator.New(),
		logger:          logger,
		cleanupInterval: cfg.CleanupInterval,
		fileTTL:         cfg.SignedURLTTL,
		maxRetries:      cfg.WorkerRetries,
		csv:             export.NewCSVExporter(),
		pdf:             export.NewSchedulePDFExporter(),
		pdfList:         export.NewPDFExporter(),
		records:         make(map[string]*models.ExportJob),
	}
	if s.maxRetries <= 0 {
		s.maxRetries = 3
	}
	s.pool = jobs.NewPool("exports", s.process, jobs.PoolConfig{
		Workers:    cfg.WorkerConcurrency,
		MaxRetries: cfg.WorkerRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the worker pool and the file cleanup loop.
func (s *ExportService) Start(ctx context.Context) {
	s.pool.Start(ctx)
	if s.cleanupInterval > 0 {
		go s.cleanupLoop(ctx)
	}
}

// Stop drains the worker pool.
func (s *ExportService) Stop() {
	s.pool.Stop()
}

// Create registers a new export job and queues its rendering.
func (s *ExportService) Create(ctx context.Context, req dto.CreateExportRequest) (*models.ExportJob, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}
	ids := make([]string, 0, len(req.CourseIDs))
	for _, id := range req.CourseIDs {
		if id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one course ID is required")
	}

	job := &models.ExportJob{
		ID:        uuid.NewString(),
		Format:    req.Format,
		CourseIDs: ids,
		Status:    models.ExportStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.records[job.ID] = job
	s.mu.Unlock()

	if err := s.pool.Submit(jobs.Task{ID: job.ID, Kind: string(req.Format)}); err != nil {
		s.fail(job.ID, fmt.Sprintf("queue export: %v", err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue export")
	}
	return s.snapshot(job.ID), nil
}

// Get returns a copy of the job's current state.
func (s *ExportService) Get(id string) (*models.ExportJob, error) {
	job := s.snapshot(id)
	if job == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	return job, nil
}

// OpenDownload validates a signed token and opens the rendered file.
func (s *ExportService) OpenDownload(token string) (*os.File, string, string, error) {
	payload, err := s.signer.Verify(token)
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid download token")
	}

	job := s.snapshot(payload.JobID)
	if job != nil && job.Status != models.ExportStatusCompleted {
		return nil, "", "", appErrors.Clone(appErrors.ErrExportNotReady, "export is not ready for download")
	}

	file, err := s.store.Open(payload.FilePath)
	if err != nil {
		return nil, "", "", appErrors.Clone(appErrors.ErrNotFound, "export file no longer available")
	}
	return file, path.Base(payload.FilePath), contentTypeFor(payload.FilePath), nil
}

func (s *ExportService) process(ctx context.Context, task jobs.Task) error {
	job := s.snapshot(task.ID)
	if job == nil {
		return nil
	}
	s.setStatus(task.ID, models.ExportStatusProcessing)

	content, fileName, err := s.render(ctx, job)
	if err != nil {
		// Validation-class failures are final; anything else retries.
		if appErr := appErrors.FromError(err); appErr.Status < 500 {
			s.fail(task.ID, appErr.Message)
			if s.metrics != nil {
				s.metrics.RecordExportJob(string(job.Format), "failed")
			}
			return nil
		}
		// The pool reruns a task at attempts 0..maxRetries, so this is the
		// last attempt; returning nil keeps the pool from resubmitting a
		// job already marked failed.
		if task.Attempt >= s.maxRetries {
			s.fail(task.ID, appErrors.FromError(err).Message)
			if s.metrics != nil {
				s.metrics.RecordExportJob(string(job.Format), "failed")
			}
			return nil
		}
		return err
	}

	relPath := path.Join(job.ID, fileName)
	if _, err := s.store.Save(relPath, content); err != nil {
		return fmt.Errorf("store export %s: %w", job.ID, err)
	}

	token, expiresAt, err := s.signer.Sign(job.ID, relPath)
	if err != nil {
		return fmt.Errorf("sign export %s: %w", job.ID, err)
	}

	now := time.Now().UTC()
	s.mu.Lock()
	if rec, ok := s.records[job.ID]; ok {
		rec.Status = models.ExportStatusCompleted
		rec.FileName = fileName
		rec.DownloadURL = "/exports/download?token=" + token
		rec.CompletedAt = &now
		rec.ExpiresAt = &expiresAt
		rec.Error = ""
	}
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RecordExportJob(string(job.Format), "completed")
	}
	s.logger.Info("export completed",
		zap.String("job_id", job.ID),
		zap.String("format", string(job.Format)),
		zap.String("file", fileName))
	return nil
}

func (s *ExportService) render(ctx context.Context, job *models.ExportJob) ([]byte, string, error) {
	switch job.Format {
	case models.ExportFormatICS:
		calendar, fileName, err := s.schedules.ICS(ctx, job.CourseIDs)
		if err != nil {
			return nil, "", err
		}
		return []byte(calendar), fileName, nil
	case models.ExportFormatCSV:
		dataset, err := s.schedules.CSVDataset(ctx, job.CourseIDs)
		if err != nil {
			return nil, "", err
		}
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", err
		}
		return content, "course-schedule.csv", nil
	case models.ExportFormatPDF:
		grid, err := s.schedules.Grid(ctx, job.CourseIDs)
		if err != nil {
			return nil, "", err
		}
		content, err := s.pdf.Render(grid)
		if err != nil {
			return nil, "", err
		}
		return content, "course-schedule.pdf", nil
	case models.ExportFormatPDFList:
		dataset, err := s.schedules.CSVDataset(ctx, job.CourseIDs)
		if err != nil {
			return nil, "", err
		}
		content, err := s.pdfList.Render(dataset, "Course Schedule")
		if err != nil {
			return nil, "", err
		}
		return content, "course-schedule-list.pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", job.Format))
	}
}

func (s *ExportService) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := s.store.CleanupOlderThan(s.fileTTL)
			if err != nil {
				s.logger.Warn("export cleanup failed", zap.Error(err))
				continue
			}
			s.pruneExpired()
			if len(deleted) > 0 {
				s.logger.Info("export cleanup removed files", zap.Int("count", len(deleted)))
			}
		}
	}
}

func (s *ExportService) pruneExpired() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, rec := range s.records {
		if rec.ExpiresAt != nil && now.After(*rec.ExpiresAt) {
			delete(s.records, id)
		}
	}
}

func (s *ExportService) snapshot(id string) *models.ExportJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil
	}
	clone := *rec
	return &clone
}

func (s *ExportService) setStatus(id string, status models.ExportStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[id]; ok {
		rec.Status = status
	}
}

func (s *ExportService) fail(id, message string) {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[id]; ok {
		rec.Status = models.ExportStatusFailed
		rec.Error = message
		rec.CompletedAt = &now
	}
}

func contentTypeFor(filePath string) string {
	switch path.Ext(filePath) {
	case ".ics":
		return "text/calendar; charset=utf-8"
	case ".csv":
		return "text/csv; charset=utf-8"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
