package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/som-tools/coursetable-api/pkg/config"
)

func TestFetchCoursesNormalizesUpstreamPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/courses/session-items/202601", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"items":[{
			"courseID":"22089",
			"courseNumber":"MGT 945",
			"courseTitle":"Macroprudential Policy",
			"courseCategory":"Finance",
			"courseCategory2":"Economics",
			"faculty1":"Metrick, Andrew",
			"daysTimes":"T R 2:00 PM-3:30 PM",
			"startTime":"2:00 PM",
			"endTime":"3:30 PM",
			"courseSessionStartDate":"20260120 000000.000",
			"courseSessionEndDate":"20260508 000000.000",
			"room":"Room 205",
			"units":"4.0"
		}]}}`))
	}))
	defer server.Close()

	client := NewClient(config.CatalogConfig{
		BaseURL:      server.URL,
		TermCode:     "202601",
		FetchTimeout: 5 * time.Second,
	}, nil)

	courses, degraded, err := client.FetchCourses(context.Background())
	require.NoError(t, err)
	assert.False(t, degraded)
	require.Len(t, courses, 1)

	course := courses[0]
	assert.Equal(t, "22089", course.CourseID)
	assert.Equal(t, []string{"Tuesday", "Thursday"}, course.MeetingDays)
	assert.Equal(t, []string{"Finance", "Economics"}, course.CourseCategories)
	assert.Equal(t, "https://som.yale.edu/faculty-research/faculty-directory/andrew-metrick", course.Faculty1URL)
}

func TestFetchCoursesFallsBackToMockFixtures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(config.CatalogConfig{
		BaseURL:      server.URL,
		TermCode:     "202601",
		FetchTimeout: 5 * time.Second,
		MockFallback: true,
	}, nil)

	courses, degraded, err := client.FetchCourses(context.Background())
	require.NoError(t, err)
	assert.True(t, degraded)
	require.Len(t, courses, 3)
	assert.Equal(t, "MGT 408", courses[0].CourseNumber)
	assert.Equal(t, []string{"Wednesday"}, courses[0].MeetingDays)
}

func TestFetchCoursesUpstreamErrorWithoutFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(config.CatalogConfig{
		BaseURL:      server.URL,
		TermCode:     "202601",
		FetchTimeout: 5 * time.Second,
		MockFallback: false,
	}, nil)

	_, _, err := client.FetchCourses(context.Background())
	require.Error(t, err)
}

func TestNormalizeFallsBackToSingleDayField(t *testing.T) {
	course := Normalize(RawCourse{
		CourseID:  "1",
		DaysTimes: "see syllabus",
		Day:       "R",
		StartTime: "4:00 PM",
		EndTime:   "5:00 PM",
	})
	assert.Equal(t, []string{"Thursday"}, course.MeetingDays)
}

func TestFacultyURL(t *testing.T) {
	assert.Equal(t,
		"https://som.yale.edu/faculty-research/faculty-directory/barry-nalebuff",
		FacultyURL("Nalebuff, Barry"))
	assert.Equal(t,
		"https://som.yale.edu/faculty-research/faculty-directory/daylian-cain",
		FacultyURL("Cain, Daylian"))
	assert.Equal(t, "", FacultyURL("Prentice"))
	assert.Equal(t, "", FacultyURL(""))
}
