package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/som-tools/coursetable-api/internal/dto"
	"github.com/som-tools/coursetable-api/internal/models"
	"github.com/som-tools/coursetable-api/pkg/config"
	appErrors "github.com/som-tools/coursetable-api/pkg/errors"
)

// CatalogFetcher pulls the normalized course list from the upstream catalog.
type CatalogFetcher interface {
	FetchCourses(ctx context.Context) (courses []models.Course, degraded bool, err error)
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// catalogSnapshot is the cached unit: the whole term's course list plus how
// it was obtained. Listings filter this in memory, so one upstream fetch
// serves every search/category combination until the TTL lapses.
type catalogSnapshot struct {
	Courses   []models.Course `json:"courses"`
	Degraded  bool            `json:"degraded"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// CourseService serves catalog listings backed by the cached term snapshot.
type CourseService struct {
	catalog          CatalogFetcher
	cache            *CacheService
	metrics          *MetricsService
	logger           *zap.Logger
	termCode         string
	cacheTTL         time.Duration
	descriptionLimit int
}

// NewCourseService constructs a course service.
func NewCourseService(catalog CatalogFetcher, cache *CacheService, metrics *MetricsService, cfg config.CatalogConfig, logger *zap.Logger) *CourseService {
	return &CourseService{
		catalog:          catalog,
		cache:            cache,
		metrics:          metrics,
		logger:           logger,
		termCode:         cfg.TermCode,
		cacheTTL:         cfg.CacheTTL,
		descriptionLimit: cfg.DescriptionLimit,
	}
}

func (s *CourseService) snapshotKey() string {
	return fmt.Sprintf("catalog:%s:snapshot", s.termCode)
}

// Snapshot returns the full course list for the term, from cache when fresh.
func (s *CourseService) Snapshot(ctx context.Context) (catalogSnapshot, bool, error) {
	var snap catalogSnapshot
	hit, err := s.cache.Get(ctx, s.snapshotKey(), &snap)
	if err == nil && hit && len(snap.Courses) > 0 {
		return snap, true, nil
	}

	start := time.Now()
	courses, degraded, err := s.catalog.FetchCourses(ctx)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ObserveCatalogFetch("error", time.Since(start))
		}
		return catalogSnapshot{}, false, err
	}
	if s.metrics != nil {
		outcome := "ok"
		if degraded {
			outcome = "fallback"
		}
		s.metrics.ObserveCatalogFetch(outcome, time.Since(start))
	}

	sort.SliceStable(courses, func(i, j int) bool {
		return courses[i].CourseNumber < courses[j].CourseNumber
	})
	snap = catalogSnapshot{Courses: courses, Degraded: degraded, FetchedAt: time.Now().UTC()}

	// Degraded fixture data is intentionally not cached so a recovered
	// upstream is picked up on the next request.
	if !degraded {
		_ = s.cache.Set(ctx, s.snapshotKey(), snap, s.cacheTTL)
	}
	return snap, false, nil
}

// List returns the filtered, paginated course listing.
func (s *CourseService) List(ctx context.Context, req dto.CourseListRequest) ([]models.Course, models.Pagination, dto.CourseListMeta, error) {
	snap, cacheHit, err := s.Snapshot(ctx)
	if err != nil {
		return nil, models.Pagination{}, dto.CourseListMeta{}, err
	}

	filtered := make([]models.Course, 0, len(snap.Courses))
	search := strings.ToLower(strings.TrimSpace(req.Search))
	for _, course := range snap.Courses {
		if req.Category != "" && !containsFold(course.CourseCategories, req.Category) {
			continue
		}
		if req.Session != "" && !strings.EqualFold(course.CourseSession, req.Session) {
			continue
		}
		if search != "" && !matchesSearch(course, search) {
			continue
		}
		course.CourseDescription = TruncateDescription(course.CourseDescription, s.descriptionLimit)
		filtered = append(filtered, course)
	}

	page, pageSize := normalizePage(req.Page, req.PageSize)
	pagination := models.Pagination{Page: page, PageSize: pageSize, TotalCount: len(filtered)}

	start := (page - 1) * pageSize
	if start >= len(filtered) {
		filtered = []models.Course{}
	} else {
		end := start + pageSize
		if end > len(filtered) {
			end = len(filtered)
		}
		filtered = filtered[start:end]
	}

	meta := dto.CourseListMeta{CacheHit: cacheHit, Degraded: snap.Degraded, TermCode: s.termCode}
	return filtered, pagination, meta, nil
}

// Get returns a single course by its catalog ID with the full description.
func (s *CourseService) Get(ctx context.Context, courseID string) (models.Course, error) {
	snap, _, err := s.Snapshot(ctx)
	if err != nil {
		return models.Course{}, err
	}
	for _, course := range snap.Courses {
		if course.CourseID == courseID {
			return course, nil
		}
	}
	return models.Course{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("course %s not found", courseID))
}

// ByIDs resolves courses in the order the IDs were given. Unknown IDs are
// reported, not fatal, so a stale share link still renders what it can.
func (s *CourseService) ByIDs(ctx context.Context, ids []string) ([]models.Course, []string, error) {
	snap, _, err := s.Snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[string]models.Course, len(snap.Courses))
	for _, course := range snap.Courses {
		byID[course.CourseID] = course
	}

	courses := make([]models.Course, 0, len(ids))
	var notFound []string
	for _, id := range ids {
		if course, ok := byID[id]; ok {
			courses = append(courses, course)
		} else {
			notFound = append(notFound, id)
		}
	}
	return courses, notFound, nil
}

// Facets returns the distinct categories and sessions present in the term.
func (s *CourseService) Facets(ctx context.Context) (dto.CategoryListResponse, error) {
	snap, _, err := s.Snapshot(ctx)
	if err != nil {
		return dto.CategoryListResponse{}, err
	}

	categorySet := map[string]struct{}{}
	sessionSet := map[string]struct{}{}
	for _, course := range snap.Courses {
		for _, category := range course.CourseCategories {
			if category != "" {
				categorySet[category] = struct{}{}
			}
		}
		if course.CourseSession != "" {
			sessionSet[course.CourseSession] = struct{}{}
		}
	}

	resp := dto.CategoryListResponse{
		Categories: sortedKeys(categorySet),
		Sessions:   sortedKeys(sessionSet),
	}
	return resp, nil
}

// Invalidate drops the cached term snapshot.
func (s *CourseService) Invalidate(ctx context.Context) error {
	return s.cache.Invalidate(ctx, fmt.Sprintf("catalog:%s:*", s.termCode))
}

// TruncateDescription shortens text to at most limit characters, cutting at
// the last word boundary and appending an ellipsis. A non-positive limit
// disables truncation.
func TruncateDescription(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	cut := text[:limit]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,.;:") + "..."
}

func matchesSearch(course models.Course, search string) bool {
	for _, field := range []string{
		course.CourseNumber,
		course.CourseTitle,
		course.CourseDescription,
		course.Faculty1,
		course.Faculty2,
	} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
