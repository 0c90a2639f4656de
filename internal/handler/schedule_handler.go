package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/som-tools/coursetable-api/internal/dto"
	"github.com/som-tools/coursetable-api/internal/service"
	appErrors "github.com/som-tools/coursetable-api/pkg/errors"
	"github.com/som-tools/coursetable-api/pkg/response"
)

type scheduleService interface {
	Resolve(ctx context.Context, req dto.ScheduleRequest) (dto.ScheduleResponse, error)
	ICS(ctx context.Context, courseIDs []string) (calendar string, fileName string, err error)
	ShareURL(courseIDs []string) string
}

// ScheduleHandler serves the stateless personal-schedule endpoints. The
// schedule itself lives in the courses query parameter.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(service scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// Get godoc
// @Summary Resolve a personal schedule
// @Description Expands a comma-separated course ID list into positioned weekly blocks, colors, and totals.
// @Tags Schedule
// @Produce json
// @Param courses query string true "Comma-separated course IDs"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedule [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "schedule service not configured"))
		return
	}
	ids := service.ParseCourseIDs(c.Query("courses"))
	resolved, err := h.service.Resolve(c.Request.Context(), dto.ScheduleRequest{CourseIDs: ids})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resolved, nil)
}

// DownloadICS godoc
// @Summary Download schedule as iCalendar
// @Description Streams the schedule as a .ics file importable into calendar apps.
// @Tags Schedule
// @Produce text/calendar
// @Param courses query string true "Comma-separated course IDs"
// @Success 200 {string} string "iCalendar document"
// @Failure 400 {object} response.Envelope
// @Router /schedule/ics [get]
func (h *ScheduleHandler) DownloadICS(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "schedule service not configured"))
		return
	}
	ids := service.ParseCourseIDs(c.Query("courses"))
	calendar, fileName, err := h.service.ICS(c.Request.Context(), ids)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(calendar))
}

// Share godoc
// @Summary Build a shareable schedule link
// @Tags Schedule
// @Produce json
// @Param courses query string true "Comma-separated course IDs"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedule/share [get]
func (h *ScheduleHandler) Share(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "schedule service not configured"))
		return
	}
	ids := service.ParseCourseIDs(c.Query("courses"))
	if len(ids) == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "at least one course ID is required"))
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"shareUrl": h.service.ShareURL(ids)}, nil)
}
