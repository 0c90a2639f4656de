package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/som-tools/coursetable-api/internal/dto"
	"github.com/som-tools/coursetable-api/pkg/config"
	appErrors "github.com/som-tools/coursetable-api/pkg/errors"
)

func newTestScheduleService(catalog *stubCatalog) *ScheduleService {
	courses := newTestCourseService(catalog)
	cfg := config.ScheduleConfig{PublicBaseURL: "https://courses.example.edu", MaxCourses: 10}
	return NewScheduleService(courses, cfg, nil)
}

func TestParseCourseIDs(t *testing.T) {
	ids := ParseCourseIDs(" MGT408-01, MGT945-01 ,MGT408-01,,MGT567-01")
	assert.Equal(t, []string{"MGT408-01", "MGT945-01", "MGT567-01"}, ids)

	assert.Empty(t, ParseCourseIDs(""))
	assert.Empty(t, ParseCourseIDs(" , ,"))
}

func TestAssignColorPicksLowestUnused(t *testing.T) {
	assert.Equal(t, "bg-blue-500", AssignColor(nil))
	assert.Equal(t, "bg-green-500", AssignColor([]string{"bg-blue-500"}))

	// A freed color is reused before later palette entries.
	assert.Equal(t, "bg-blue-500", AssignColor([]string{"bg-green-500", "bg-yellow-500"}))

	// Exhausted palette cycles by assignment count.
	full := append([]string(nil), Palette...)
	assert.Equal(t, "bg-blue-500", AssignColor(full))
	assert.Equal(t, "bg-green-500", AssignColor(append(full, "bg-blue-500")))
}

func TestResolveAssignsColorsAndUnits(t *testing.T) {
	svc := newTestScheduleService(&stubCatalog{courses: testCourses()})

	resp, err := svc.Resolve(context.Background(), dto.ScheduleRequest{
		CourseIDs: []string{"MGT408-01", "MGT567-01"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Courses, 2)
	assert.Equal(t, "bg-blue-500", resp.Courses[0].Color)
	assert.Equal(t, "bg-green-500", resp.Courses[1].Color)
	assert.InDelta(t, 6.0, resp.TotalUnits, 0.001)
	assert.Equal(t, "https://courses.example.edu/?courses=MGT408-01%2CMGT567-01", resp.ShareURL)
}

func TestResolveLaysOutOverlappingBlocks(t *testing.T) {
	svc := newTestScheduleService(&stubCatalog{courses: testCourses()})

	// MGT408 meets T/R 2:00-3:30; MGT567 meets T 2:30-4:00. They overlap
	// on Tuesday only.
	resp, err := svc.Resolve(context.Background(), dto.ScheduleRequest{
		CourseIDs: []string{"MGT408-01", "MGT567-01"},
	})
	require.NoError(t, err)

	byDay := map[string]dto.ScheduleDay{}
	for _, day := range resp.Days {
		byDay[day.Day] = day
	}

	tuesday, ok := byDay["Tuesday"]
	require.True(t, ok)
	require.Len(t, tuesday.Blocks, 2)
	assert.Equal(t, 2, tuesday.Blocks[0].Columns)
	assert.Equal(t, 2, tuesday.Blocks[1].Columns)
	assert.NotEqual(t, tuesday.Blocks[0].Column, tuesday.Blocks[1].Column)
	assert.Equal(t, 14*60, tuesday.Blocks[0].StartMinutes)

	thursday, ok := byDay["Thursday"]
	require.True(t, ok)
	require.Len(t, thursday.Blocks, 1)
	assert.Equal(t, 1, thursday.Blocks[0].Columns)

	// Days appear in weekday order and empty days are omitted.
	require.Len(t, resp.Days, 2)
	assert.Equal(t, "Tuesday", resp.Days[0].Day)
	assert.Equal(t, "Thursday", resp.Days[1].Day)
}

func TestResolveReportsUnknownCourses(t *testing.T) {
	svc := newTestScheduleService(&stubCatalog{courses: testCourses()})

	resp, err := svc.Resolve(context.Background(), dto.ScheduleRequest{
		CourseIDs: []string{"MGT408-01", "MGT000-00"},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Courses, 1)
	assert.Equal(t, []string{"MGT000-00"}, resp.NotFound)
}

func TestResolveValidatesInput(t *testing.T) {
	svc := newTestScheduleService(&stubCatalog{courses: testCourses()})

	_, err := svc.Resolve(context.Background(), dto.ScheduleRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	svc.maxCourses = 1
	_, err = svc.Resolve(context.Background(), dto.ScheduleRequest{
		CourseIDs: []string{"MGT408-01", "MGT567-01"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestICSRendersCalendar(t *testing.T) {
	fixtures := testCourses()
	fixtures[2].SessionStartDate = "20260120"
	fixtures[2].SessionEndDate = "20260220"
	svc := newTestScheduleService(&stubCatalog{courses: fixtures})

	calendar, fileName, err := svc.ICS(context.Background(), []string{"MGT945-01"})
	require.NoError(t, err)
	assert.Equal(t, "course-schedule.ics", fileName)
	assert.True(t, strings.HasPrefix(calendar, "BEGIN:VCALENDAR"))
	assert.Contains(t, calendar, "SUMMARY:MGT 945")
}

func TestICSRejectsUnknownSchedule(t *testing.T) {
	svc := newTestScheduleService(&stubCatalog{courses: testCourses()})

	_, _, err := svc.ICS(context.Background(), nil)
	require.Error(t, err)

	_, _, err = svc.ICS(context.Background(), []string{"MGT000-00"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCSVDataset(t *testing.T) {
	svc := newTestScheduleService(&stubCatalog{courses: testCourses()})

	data, err := svc.CSVDataset(context.Background(), []string{"MGT408-01", "MGT945-01"})
	require.NoError(t, err)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "MGT 408", data.Rows[0][0])
	assert.Equal(t, "Smith, Jane", data.Rows[0][2])
	assert.Equal(t, "T R 2:00 PM-3:30 PM", data.Rows[0][3])
}

func TestGridCarriesLayoutAndColors(t *testing.T) {
	svc := newTestScheduleService(&stubCatalog{courses: testCourses()})

	grid, err := svc.Grid(context.Background(), []string{"MGT408-01", "MGT567-01"})
	require.NoError(t, err)
	require.Len(t, grid.Days, 2)
	assert.Equal(t, "Tuesday", grid.Days[0].Name)
	require.Len(t, grid.Days[0].Events, 2)
	assert.Equal(t, 2, grid.Days[0].Events[0].Columns)
	assert.Equal(t, "bg-blue-500", grid.Days[0].Events[0].Color)
}
