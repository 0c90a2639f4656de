package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/som-tools/coursetable-api/internal/dto"
	"github.com/som-tools/coursetable-api/internal/models"
	appErrors "github.com/som-tools/coursetable-api/pkg/errors"
	"github.com/som-tools/coursetable-api/pkg/response"
)

type courseService interface {
	List(ctx context.Context, req dto.CourseListRequest) ([]models.Course, models.Pagination, dto.CourseListMeta, error)
	Get(ctx context.Context, courseID string) (models.Course, error)
	Facets(ctx context.Context) (dto.CategoryListResponse, error)
}

// CourseHandler serves the catalog browsing endpoints.
type CourseHandler struct {
	service courseService
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(service courseService) *CourseHandler {
	return &CourseHandler{service: service}
}

// List godoc
// @Summary List courses
// @Description Returns the term's course catalog with optional search and filters.
// @Tags Courses
// @Produce json
// @Param search query string false "Free-text search across number, title, description, faculty"
// @Param category query string false "Category filter"
// @Param session query string false "Session filter"
// @Param page query int false "Page number (1-based)"
// @Param pageSize query int false "Page size (max 100)"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "course service not configured"))
		return
	}
	req := dto.CourseListRequest{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Session:  c.Query("session"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "pageSize", 0),
	}

	courses, pagination, meta, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, &pagination, map[string]interface{}{
		"cache_hit": meta.CacheHit,
		"degraded":  meta.Degraded,
		"term_code": meta.TermCode,
	})
}

// Get godoc
// @Summary Get course detail
// @Description Returns a single course with its full, untruncated description.
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "course service not configured"))
		return
	}
	course, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Facets godoc
// @Summary List course categories and sessions
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses/facets [get]
func (h *CourseHandler) Facets(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "course service not configured"))
		return
	}
	facets, err := h.service.Facets(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, facets, nil)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
