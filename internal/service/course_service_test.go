package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/som-tools/coursetable-api/internal/dto"
	"github.com/som-tools/coursetable-api/internal/models"
	"github.com/som-tools/coursetable-api/pkg/config"
	appErrors "github.com/som-tools/coursetable-api/pkg/errors"
)

type stubCatalog struct {
	courses  []models.Course
	degraded bool
	err      error
	calls    int
}

func (s *stubCatalog) FetchCourses(ctx context.Context) ([]models.Course, bool, error) {
	s.calls++
	if s.err != nil {
		return nil, false, s.err
	}
	return s.courses, s.degraded, nil
}

func testCourses() []models.Course {
	return []models.Course{
		{
			CourseID:         "MGT408-01",
			CourseNumber:     "MGT 408",
			CourseTitle:      "Foundations of Accounting",
			Faculty1:         "Smith, Jane",
			DaysTimes:        "T R 2:00 PM-3:30 PM",
			MeetingDays:      []string{"Tuesday", "Thursday"},
			StartTime:        "2:00 PM",
			EndTime:          "3:30 PM",
			Units:            "4",
			CourseCategories: []string{"Core"},
			CourseSession:    "Fall-1",
		},
		{
			CourseID:         "MGT567-01",
			CourseNumber:     "MGT 567",
			CourseTitle:      "Behavioral Economics",
			Faculty1:         "Jones, Alex",
			DaysTimes:        "T 2:30 PM-4:00 PM",
			MeetingDays:      []string{"Tuesday"},
			StartTime:        "2:30 PM",
			EndTime:          "4:00 PM",
			Units:            "2",
			CourseCategories: []string{"Elective", "Economics"},
			CourseSession:    "Fall-2",
		},
		{
			CourseID:         "MGT945-01",
			CourseNumber:     "MGT 945",
			CourseTitle:      "Private Equity Investing",
			Faculty1:         "Brown, Pat",
			DaysTimes:        "W 10:00 AM-11:00 AM",
			MeetingDays:      []string{"Wednesday"},
			StartTime:        "10:00 AM",
			EndTime:          "11:00 AM",
			Units:            "2",
			CourseCategories: []string{"Elective"},
			CourseSession:    "Fall-1",
		},
	}
}

func newTestCourseService(catalog *stubCatalog) *CourseService {
	cache := NewCacheService(nil, nil, 0, nil, false)
	cfg := config.CatalogConfig{TermCode: "202601", DescriptionLimit: 200}
	return NewCourseService(catalog, cache, nil, cfg, nil)
}

func TestListFiltersBySearch(t *testing.T) {
	svc := newTestCourseService(&stubCatalog{courses: testCourses()})

	courses, pagination, meta, err := svc.List(context.Background(), dto.CourseListRequest{Search: "equity"})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "MGT 945", courses[0].CourseNumber)
	assert.Equal(t, 1, pagination.TotalCount)
	assert.False(t, meta.Degraded)
	assert.Equal(t, "202601", meta.TermCode)
}

func TestListFiltersByCategoryAndSession(t *testing.T) {
	svc := newTestCourseService(&stubCatalog{courses: testCourses()})

	courses, _, _, err := svc.List(context.Background(), dto.CourseListRequest{Category: "elective", Session: "Fall-1"})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "MGT945-01", courses[0].CourseID)
}

func TestListPaginates(t *testing.T) {
	svc := newTestCourseService(&stubCatalog{courses: testCourses()})

	courses, pagination, _, err := svc.List(context.Background(), dto.CourseListRequest{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, 3, pagination.TotalCount)
	assert.Equal(t, 2, pagination.Page)

	// Out-of-range pages return an empty slice, not an error.
	courses, _, _, err = svc.List(context.Background(), dto.CourseListRequest{Page: 9, PageSize: 2})
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestListSortsByCourseNumber(t *testing.T) {
	fixtures := testCourses()
	fixtures[0], fixtures[2] = fixtures[2], fixtures[0]
	svc := newTestCourseService(&stubCatalog{courses: fixtures})

	courses, _, _, err := svc.List(context.Background(), dto.CourseListRequest{})
	require.NoError(t, err)
	require.Len(t, courses, 3)
	assert.Equal(t, "MGT 408", courses[0].CourseNumber)
	assert.Equal(t, "MGT 945", courses[2].CourseNumber)
}

func TestListTruncatesDescriptions(t *testing.T) {
	long := make([]byte, 0, 300)
	for i := 0; i < 60; i++ {
		long = append(long, []byte("word ")...)
	}
	fixtures := testCourses()
	fixtures[0].CourseDescription = string(long)
	svc := newTestCourseService(&stubCatalog{courses: fixtures})

	courses, _, _, err := svc.List(context.Background(), dto.CourseListRequest{Search: "accounting"})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.LessOrEqual(t, len(courses[0].CourseDescription), 203)
	assert.True(t, len(courses[0].CourseDescription) > 0)
	assert.Contains(t, courses[0].CourseDescription, "...")
}

func TestTruncateDescription(t *testing.T) {
	assert.Equal(t, "short text", TruncateDescription("short text", 200))
	assert.Equal(t, "short text", TruncateDescription("short text", 0))

	got := TruncateDescription("alpha beta gamma delta", 12)
	assert.Equal(t, "alpha beta...", got)
}

func TestGetReturnsFullDescription(t *testing.T) {
	fixtures := testCourses()
	fixtures[0].CourseDescription = "full description that stays intact"
	svc := newTestCourseService(&stubCatalog{courses: fixtures})

	course, err := svc.Get(context.Background(), "MGT408-01")
	require.NoError(t, err)
	assert.Equal(t, "full description that stays intact", course.CourseDescription)

	_, err = svc.Get(context.Background(), "MGT999-01")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestByIDsPreservesOrderAndReportsMissing(t *testing.T) {
	svc := newTestCourseService(&stubCatalog{courses: testCourses()})

	courses, notFound, err := svc.ByIDs(context.Background(), []string{"MGT945-01", "MGT000-00", "MGT408-01"})
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "MGT945-01", courses[0].CourseID)
	assert.Equal(t, "MGT408-01", courses[1].CourseID)
	assert.Equal(t, []string{"MGT000-00"}, notFound)
}

func TestFacets(t *testing.T) {
	svc := newTestCourseService(&stubCatalog{courses: testCourses()})

	facets, err := svc.Facets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Core", "Economics", "Elective"}, facets.Categories)
	assert.Equal(t, []string{"Fall-1", "Fall-2"}, facets.Sessions)
}

func TestListPropagatesUpstreamError(t *testing.T) {
	svc := newTestCourseService(&stubCatalog{err: assert.AnError})

	_, _, _, err := svc.List(context.Background(), dto.CourseListRequest{})
	require.Error(t, err)
}
