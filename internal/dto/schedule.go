package dto

import "github.com/som-tools/coursetable-api/internal/models"

// ScheduleRequest captures the comma-separated courses query parameter after
// splitting and de-duplication.
type ScheduleRequest struct {
	CourseIDs []string
}

// ScheduleBlock is one positioned meeting block on the weekly grid. Column
// and Columns come from the overlap layout so side-by-side courses share the
// day's width evenly.
type ScheduleBlock struct {
	CourseID     string `json:"courseID"`
	CourseNumber string `json:"courseNumber"`
	CourseTitle  string `json:"courseTitle"`
	Room         string `json:"room,omitempty"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	StartMinutes int    `json:"startMinutes"`
	EndMinutes   int    `json:"endMinutes"`
	Column       int    `json:"column"`
	Columns      int    `json:"columns"`
	Color        string `json:"color"`
}

// ScheduleDay groups the positioned blocks for one weekday.
type ScheduleDay struct {
	Day    string          `json:"day"`
	Blocks []ScheduleBlock `json:"blocks"`
}

// ScheduleResponse is the resolved personal schedule.
type ScheduleResponse struct {
	Courses    []models.ScheduledCourse `json:"courses"`
	NotFound   []string                 `json:"notFound,omitempty"`
	TotalUnits float64                  `json:"totalUnits"`
	Days       []ScheduleDay            `json:"days"`
	ShareURL   string                   `json:"shareUrl"`
}
