package service

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/som-tools/coursetable-api/internal/dto"
	"github.com/som-tools/coursetable-api/internal/ical"
	"github.com/som-tools/coursetable-api/internal/layout"
	"github.com/som-tools/coursetable-api/internal/meeting"
	"github.com/som-tools/coursetable-api/internal/models"
	"github.com/som-tools/coursetable-api/pkg/config"
	appErrors "github.com/som-tools/coursetable-api/pkg/errors"
	"github.com/som-tools/coursetable-api/pkg/export"
)

// Palette is the fixed set of block colors. AssignColor hands out the
// lowest-indexed color not already in use, cycling once all eight are taken.
// Assignment depends only on the colors already assigned, so the same course
// list produces the same colors on every device a share link is opened on.
var Palette = []string{
	"bg-blue-500",
	"bg-green-500",
	"bg-yellow-500",
	"bg-purple-500",
	"bg-red-500",
	"bg-indigo-500",
	"bg-pink-500",
	"bg-teal-500",
}

// weekdayOrder fixes the column order of the weekly grid.
var weekdayOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// ScheduleService resolves the stateless personal schedule: the client holds
// only a list of course IDs, and every view (JSON grid, ICS feed, export
// file) is derived from that list on demand.
type ScheduleService struct {
	courses       *CourseService
	logger        *zap.Logger
	publicBaseURL string
	maxCourses    int
}

// NewScheduleService constructs a schedule service.
func NewScheduleService(courses *CourseService, cfg config.ScheduleConfig, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{
		courses:       courses,
		logger:        logger,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		maxCourses:    cfg.MaxCourses,
	}
}

// ParseCourseIDs splits the comma-separated courses parameter, trimming and
// de-duplicating while preserving first-seen order.
func ParseCourseIDs(raw string) []string {
	seen := map[string]struct{}{}
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// AssignColor picks the lowest-indexed palette color not already in use.
// Once the palette is exhausted it cycles by assignment count.
func AssignColor(existing []string) string {
	used := make(map[string]struct{}, len(existing))
	for _, color := range existing {
		used[color] = struct{}{}
	}
	for _, color := range Palette {
		if _, taken := used[color]; !taken {
			return color
		}
	}
	return Palette[len(existing)%len(Palette)]
}

// Resolve builds the full schedule view for the given course IDs.
func (s *ScheduleService) Resolve(ctx context.Context, req dto.ScheduleRequest) (dto.ScheduleResponse, error) {
	if len(req.CourseIDs) == 0 {
		return dto.ScheduleResponse{}, appErrors.Clone(appErrors.ErrValidation, "at least one course ID is required")
	}
	if s.maxCourses > 0 && len(req.CourseIDs) > s.maxCourses {
		return dto.ScheduleResponse{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("a schedule may contain at most %d courses", s.maxCourses))
	}

	courses, notFound, err := s.courses.ByIDs(ctx, req.CourseIDs)
	if err != nil {
		return dto.ScheduleResponse{}, err
	}

	scheduled := make([]models.ScheduledCourse, 0, len(courses))
	colors := make([]string, 0, len(courses))
	for _, course := range courses {
		color := AssignColor(colors)
		colors = append(colors, color)
		scheduled = append(scheduled, models.ScheduledCourse{Course: course, Color: color})
	}

	resp := dto.ScheduleResponse{
		Courses:    scheduled,
		NotFound:   notFound,
		TotalUnits: totalUnits(courses),
		Days:       s.layoutWeek(scheduled),
		ShareURL:   s.ShareURL(req.CourseIDs),
	}
	return resp, nil
}

// ShareURL builds the public link that reconstructs this schedule.
func (s *ScheduleService) ShareURL(courseIDs []string) string {
	if s.publicBaseURL == "" || len(courseIDs) == 0 {
		return ""
	}
	return s.publicBaseURL + "/?courses=" + url.QueryEscape(strings.Join(courseIDs, ","))
}

// ICS renders the schedule as an iCalendar document plus a download filename.
func (s *ScheduleService) ICS(ctx context.Context, courseIDs []string) (string, string, error) {
	if len(courseIDs) == 0 {
		return "", "", appErrors.Clone(appErrors.ErrValidation, "at least one course ID is required")
	}
	courses, _, err := s.courses.ByIDs(ctx, courseIDs)
	if err != nil {
		return "", "", err
	}
	if len(courses) == 0 {
		return "", "", appErrors.Clone(appErrors.ErrNotFound, "none of the requested courses exist")
	}
	return ical.Generate(courses), "course-schedule.ics", nil
}

// Grid assembles the weekly calendar input for the PDF exporter.
func (s *ScheduleService) Grid(ctx context.Context, courseIDs []string) (export.ScheduleGrid, error) {
	resolved, err := s.Resolve(ctx, dto.ScheduleRequest{CourseIDs: courseIDs})
	if err != nil {
		return export.ScheduleGrid{}, err
	}

	grid := export.ScheduleGrid{Title: "Course Schedule"}
	for _, day := range resolved.Days {
		gridDay := export.GridDay{Name: day.Day}
		for _, block := range day.Blocks {
			gridDay.Events = append(gridDay.Events, export.GridEvent{
				Label:        block.CourseNumber,
				Detail:       block.Room,
				StartMinutes: block.StartMinutes,
				EndMinutes:   block.EndMinutes,
				Column:       block.Column,
				Columns:      block.Columns,
				Color:        block.Color,
			})
		}
		grid.Days = append(grid.Days, gridDay)
	}
	return grid, nil
}

// CSVDataset flattens the schedule into tabular form for the CSV export.
func (s *ScheduleService) CSVDataset(ctx context.Context, courseIDs []string) (export.Dataset, error) {
	courses, _, err := s.courses.ByIDs(ctx, courseIDs)
	if err != nil {
		return export.Dataset{}, err
	}
	if len(courses) == 0 {
		return export.Dataset{}, appErrors.Clone(appErrors.ErrNotFound, "none of the requested courses exist")
	}

	data := export.Dataset{
		Headers: []string{"Course Number", "Title", "Faculty", "Days/Times", "Room", "Units", "Session"},
	}
	for _, course := range courses {
		faculty := course.Faculty1
		if course.Faculty2 != "" {
			faculty += "; " + course.Faculty2
		}
		data.Rows = append(data.Rows, []string{
			course.CourseNumber,
			course.CourseTitle,
			faculty,
			course.DaysTimes,
			course.Room,
			course.Units,
			course.CourseSession,
		})
	}
	return data, nil
}

// layoutWeek positions every meeting block day by day. Days with no meetings
// are omitted.
func (s *ScheduleService) layoutWeek(scheduled []models.ScheduledCourse) []dto.ScheduleDay {
	type blockInfo struct {
		course models.ScheduledCourse
		start  int
		end    int
	}
	byDay := map[string][]blockInfo{}

	for _, sc := range scheduled {
		startHour, startMin, okStart := meeting.ParseClockTime(sc.StartTime)
		endHour, endMin, okEnd := meeting.ParseClockTime(sc.EndTime)
		if !okStart || !okEnd {
			continue
		}
		info := blockInfo{
			course: sc,
			start:  startHour*60 + startMin,
			end:    endHour*60 + endMin,
		}
		for _, day := range sc.MeetingDays {
			byDay[day] = append(byDay[day], info)
		}
	}

	var days []dto.ScheduleDay
	for _, dayName := range weekdayOrder {
		blocks := byDay[dayName]
		if len(blocks) == 0 {
			continue
		}

		events := make([]layout.Event, 0, len(blocks))
		for _, b := range blocks {
			events = append(events, layout.Event{ID: b.course.CourseID, StartMinutes: b.start, EndMinutes: b.end})
		}
		slots := layout.LayoutDay(events)

		day := dto.ScheduleDay{Day: dayName}
		for _, b := range blocks {
			slot := slots[b.course.CourseID]
			day.Blocks = append(day.Blocks, dto.ScheduleBlock{
				CourseID:     b.course.CourseID,
				CourseNumber: b.course.CourseNumber,
				CourseTitle:  b.course.CourseTitle,
				Room:         b.course.Room,
				StartTime:    b.course.StartTime,
				EndTime:      b.course.EndTime,
				StartMinutes: b.start,
				EndMinutes:   b.end,
				Column:       slot.Column,
				Columns:      slot.Columns,
				Color:        b.course.Color,
			})
		}
		sort.SliceStable(day.Blocks, func(i, j int) bool {
			return day.Blocks[i].StartMinutes < day.Blocks[j].StartMinutes
		})
		days = append(days, day)
	}
	return days
}

func totalUnits(courses []models.Course) float64 {
	var total float64
	for _, course := range courses {
		units, err := strconv.ParseFloat(strings.TrimSpace(course.Units), 64)
		if err != nil {
			continue
		}
		total += units
	}
	return total
}
