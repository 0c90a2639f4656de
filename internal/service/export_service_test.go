package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/som-tools/coursetable-api/internal/dto"
	"github.com/som-tools/coursetable-api/internal/models"
	"github.com/som-tools/coursetable-api/pkg/config"
	appErrors "github.com/som-tools/coursetable-api/pkg/errors"
	"github.com/som-tools/coursetable-api/pkg/storage"
	"go.uber.org/zap"
)

func newTestExportService(t *testing.T) (*ExportService, context.CancelFunc) {
	t.Helper()

	fixtures := testCourses()
	for i := range fixtures {
		fixtures[i].SessionStartDate = "20260120"
		fixtures[i].SessionEndDate = "20260220"
	}
	return newTestExportServiceWith(t, &stubCatalog{courses: fixtures})
}

func newTestExportServiceWith(t *testing.T, catalog *stubCatalog) (*ExportService, context.CancelFunc) {
	t.Helper()

	schedules := newTestScheduleService(catalog)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewDownloadSigner("test-secret", time.Hour)

	cfg := config.ExportsConfig{WorkerConcurrency: 1, WorkerRetries: 1, SignedURLTTL: time.Hour}
	svc := NewExportService(schedules, store, signer, nil, cfg, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)
	t.Cleanup(svc.Stop)
	return svc, cancel
}

func awaitJob(t *testing.T, svc *ExportService, id string, status models.ExportStatus) *models.ExportJob {
	t.Helper()
	var job *models.ExportJob
	require.Eventually(t, func() bool {
		var err error
		job, err = svc.Get(id)
		return err == nil && job.Status == status
	}, 5*time.Second, 10*time.Millisecond)
	return job
}

func TestExportLifecycleICS(t *testing.T) {
	svc, cancel := newTestExportService(t)
	defer cancel()

	job, err := svc.Create(context.Background(), dto.CreateExportRequest{
		Format:    models.ExportFormatICS,
		CourseIDs: []string{"MGT945-01"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, job.ID)

	done := awaitJob(t, svc, job.ID, models.ExportStatusCompleted)
	assert.Equal(t, "course-schedule.ics", done.FileName)
	require.Contains(t, done.DownloadURL, "token=")
	require.NotNil(t, done.ExpiresAt)

	token := done.DownloadURL[strings.Index(done.DownloadURL, "token=")+len("token="):]
	file, name, contentType, err := svc.OpenDownload(token)
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, "course-schedule.ics", name)
	assert.Equal(t, "text/calendar; charset=utf-8", contentType)

	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "BEGIN:VCALENDAR"))
}

func TestExportLifecyclePDF(t *testing.T) {
	svc, cancel := newTestExportService(t)
	defer cancel()

	job, err := svc.Create(context.Background(), dto.CreateExportRequest{
		Format:    models.ExportFormatPDF,
		CourseIDs: []string{"MGT408-01", "MGT567-01"},
	})
	require.NoError(t, err)

	done := awaitJob(t, svc, job.ID, models.ExportStatusCompleted)
	assert.Equal(t, "course-schedule.pdf", done.FileName)

	token := done.DownloadURL[strings.Index(done.DownloadURL, "token=")+len("token="):]
	file, _, contentType, err := svc.OpenDownload(token)
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, "application/pdf", contentType)
	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "%PDF"))
}

func TestExportLifecyclePDFList(t *testing.T) {
	svc, cancel := newTestExportService(t)
	defer cancel()

	job, err := svc.Create(context.Background(), dto.CreateExportRequest{
		Format:    models.ExportFormatPDFList,
		CourseIDs: []string{"MGT408-01", "MGT567-01"},
	})
	require.NoError(t, err)

	done := awaitJob(t, svc, job.ID, models.ExportStatusCompleted)
	assert.Equal(t, "course-schedule-list.pdf", done.FileName)

	token := done.DownloadURL[strings.Index(done.DownloadURL, "token=")+len("token="):]
	file, name, contentType, err := svc.OpenDownload(token)
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, "course-schedule-list.pdf", name)
	assert.Equal(t, "application/pdf", contentType)
	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "%PDF"))
}

func TestExportStaysFailedAfterRetriesExhausted(t *testing.T) {
	svc, cancel := newTestExportServiceWith(t, &stubCatalog{err: assert.AnError})
	defer cancel()

	job, err := svc.Create(context.Background(), dto.CreateExportRequest{
		Format:    models.ExportFormatICS,
		CourseIDs: []string{"MGT945-01"},
	})
	require.NoError(t, err)

	failed := awaitJob(t, svc, job.ID, models.ExportStatusFailed)
	assert.NotEmpty(t, failed.Error)

	// Past the worker retry delay; a stray resubmit would flip the job
	// back to processing.
	time.Sleep(1500 * time.Millisecond)
	again, err := svc.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFailed, again.Status)
}

func TestExportFailsOnUnknownCourses(t *testing.T) {
	svc, cancel := newTestExportService(t)
	defer cancel()

	job, err := svc.Create(context.Background(), dto.CreateExportRequest{
		Format:    models.ExportFormatCSV,
		CourseIDs: []string{"MGT000-00"},
	})
	require.NoError(t, err)

	failed := awaitJob(t, svc, job.ID, models.ExportStatusFailed)
	assert.NotEmpty(t, failed.Error)
}

func TestExportCreateValidatesCourseIDs(t *testing.T) {
	svc, cancel := newTestExportService(t)
	defer cancel()

	_, err := svc.Create(context.Background(), dto.CreateExportRequest{
		Format:    models.ExportFormatICS,
		CourseIDs: []string{""},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportGetUnknownJob(t *testing.T) {
	svc, cancel := newTestExportService(t)
	defer cancel()

	_, err := svc.Get("missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestOpenDownloadRejectsBadToken(t *testing.T) {
	svc, cancel := newTestExportService(t)
	defer cancel()

	_, _, _, err := svc.OpenDownload("garbage")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
