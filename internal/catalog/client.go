// Package catalog fetches course listings from the upstream catalog API and
// normalizes the raw records into the internal course shape.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/som-tools/coursetable-api/internal/meeting"
	"github.com/som-tools/coursetable-api/internal/models"
	"github.com/som-tools/coursetable-api/pkg/config"
	appErrors "github.com/som-tools/coursetable-api/pkg/errors"
)

// RawCourse mirrors one item of the upstream session-items payload. All
// fields arrive as strings; dates use the "YYYYMMDD hhmmss.mmm" encoding.
type RawCourse struct {
	CourseID          string `json:"courseID"`
	CourseNumber      string `json:"courseNumber"`
	CourseTitle       string `json:"courseTitle"`
	CourseDescription string `json:"courseDescription"`
	CourseCategory    string `json:"courseCategory"`
	CourseCategory2   string `json:"courseCategory2"`
	CourseCategory3   string `json:"courseCategory3"`
	CourseSession     string `json:"courseSession"`
	SessionStartDate  string `json:"courseSessionStartDate"`
	SessionEndDate    string `json:"courseSessionEndDate"`
	EnrollmentLimit   string `json:"enrollmentLimit"`
	Faculty1          string `json:"faculty1"`
	Faculty2          string `json:"faculty2"`
	Faculty1Email     string `json:"faculty1Email"`
	Faculty2Email     string `json:"faculty2Email"`
	TermCode          string `json:"termCode"`
	CourseType        string `json:"courseType"`
	Units             string `json:"units"`
	Section           string `json:"section"`
	Cohort            string `json:"cohort"`
	DaysTimes         string `json:"daysTimes"`
	Day               string `json:"day"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	Room              string `json:"room"`
}

type sessionItemsResponse struct {
	Data struct {
		Items []RawCourse `json:"items"`
	} `json:"data"`
}

// Client talks to the upstream catalog API.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	termCode     string
	mockFallback bool
	logger       *zap.Logger
}

// NewClient constructs a catalog client from configuration.
func NewClient(cfg config.CatalogConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient:   &http.Client{Timeout: cfg.FetchTimeout},
		baseURL:      cfg.BaseURL,
		termCode:     cfg.TermCode,
		mockFallback: cfg.MockFallback,
		logger:       logger,
	}
}

// FetchCourses retrieves and normalizes the current term's catalog. When the
// upstream is unreachable and the mock fallback is enabled, the built-in
// fixture set is returned with degraded=true so callers can surface the
// condition without failing the request.
func (c *Client) FetchCourses(ctx context.Context) (courses []models.Course, degraded bool, err error) {
	raw, err := c.fetchRaw(ctx)
	if err != nil {
		if !c.mockFallback {
			return nil, false, appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, appErrors.ErrUpstreamUnavailable.Message)
		}
		c.logger.Warn("catalog upstream failed, serving mock fixtures", zap.Error(err))
		raw = mockCourses()
		degraded = true
	}

	courses = make([]models.Course, 0, len(raw))
	for _, item := range raw {
		courses = append(courses, Normalize(item))
	}
	return courses, degraded, nil
}

func (c *Client) fetchRaw(ctx context.Context) ([]RawCourse, error) {
	url := fmt.Sprintf("%s/courses/session-items/%s", c.baseURL, c.termCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader([]byte("{}")))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog upstream returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed sessionItemsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode session items: %w", err)
	}
	return parsed.Data.Items, nil
}

// singleDayNames maps the upstream single-letter day field used by records
// whose daysTimes text carries no parseable day run.
var singleDayNames = map[string]string{
	"M": "Monday",
	"T": "Tuesday",
	"W": "Wednesday",
	"R": "Thursday",
	"F": "Friday",
}

// Normalize converts a raw upstream record into the internal course shape:
// categories collapse into one list, meeting days derive from the free-text
// daysTimes string (falling back to the single-letter day field), and faculty
// directory URLs are attached.
func Normalize(raw RawCourse) models.Course {
	categories := make([]string, 0, 3)
	for _, category := range []string{raw.CourseCategory, raw.CourseCategory2, raw.CourseCategory3} {
		if category != "" {
			categories = append(categories, category)
		}
	}

	days := meeting.ParseMeetingDays(raw.DaysTimes)
	if len(days) == 0 {
		if name, ok := singleDayNames[raw.Day]; ok && raw.StartTime != "" {
			days = []string{name}
		}
	}

	return models.Course{
		CourseID:          raw.CourseID,
		CourseNumber:      raw.CourseNumber,
		CourseTitle:       raw.CourseTitle,
		CourseDescription: raw.CourseDescription,
		Faculty1:          raw.Faculty1,
		Faculty2:          raw.Faculty2,
		Faculty1URL:       FacultyURL(raw.Faculty1),
		Faculty2URL:       FacultyURL(raw.Faculty2),
		DaysTimes:         raw.DaysTimes,
		MeetingDays:       days,
		StartTime:         raw.StartTime,
		EndTime:           raw.EndTime,
		Room:              raw.Room,
		Units:             raw.Units,
		CourseCategories:  categories,
		CourseSession:     raw.CourseSession,
		EnrollmentLimit:   raw.EnrollmentLimit,
		SessionStartDate:  raw.SessionStartDate,
		SessionEndDate:    raw.SessionEndDate,
	}
}
