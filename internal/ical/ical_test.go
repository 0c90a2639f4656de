package ical

import (
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teambition/rrule-go"

	"github.com/som-tools/coursetable-api/internal/models"
)

func baseCourse() models.Course {
	return models.Course{
		CourseID:          "1",
		CourseNumber:      "TEST 101",
		CourseTitle:       "Testing Course",
		CourseDescription: "A course about testing.",
		Room:              "Room 1",
		MeetingDays:       []string{"Wednesday"},
		StartTime:         "10:00 AM",
		EndTime:           "11:00 AM",
		SessionStartDate:  "20260120 000000.000",
		SessionEndDate:    "20260220 000000.000",
	}
}

func TestFirstOccurrenceOnOrAfter(t *testing.T) {
	// 2026-01-20 is a Tuesday.
	start := time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC)

	got := FirstOccurrenceOnOrAfter(start, []string{"Wednesday"})
	assert.Equal(t, time.Date(2026, time.January, 21, 0, 0, 0, 0, time.UTC), got)

	// A session starting on a meeting day begins that same day.
	got = FirstOccurrenceOnOrAfter(start, []string{"Tuesday", "Thursday"})
	assert.Equal(t, start, got)

	// Monday wraps to the following week.
	got = FirstOccurrenceOnOrAfter(start, []string{"Monday"})
	assert.Equal(t, time.Date(2026, time.January, 26, 0, 0, 0, 0, time.UTC), got)
}

func TestRecurrenceUntilUsesEndClockTime(t *testing.T) {
	end := time.Date(2026, time.February, 20, 0, 0, 0, 0, time.UTC)
	until := RecurrenceUntil(end, 15, 30)
	assert.Equal(t, time.Date(2026, time.February, 20, 15, 30, 0, 0, time.UTC), until)
}

func TestGenerateWeeklyEvent(t *testing.T) {
	out := Generate([]models.Course{baseCourse()})

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "VERSION:2.0")
	assert.Contains(t, out, "PRODID:-//Yale SOM//Course Schedule//EN")
	assert.Contains(t, out, "TZID:America/New_York")
	assert.Contains(t, out, "RRULE:FREQ=WEEKLY;BYDAY=WE;UNTIL=20260220T110000")
	// First Wednesday on or after Jan 20 2026 is Jan 21.
	assert.Contains(t, out, "DTSTART;TZID=America/New_York:20260121T100000")
	assert.Contains(t, out, "DTEND;TZID=America/New_York:20260121T110000")
	assert.Contains(t, out, "SUMMARY:TEST 101 - Testing Course")
	assert.Contains(t, out, "UID:1@som.yale.edu")
}

func TestGenerateMultipleDays(t *testing.T) {
	course := baseCourse()
	course.MeetingDays = []string{"Tuesday", "Thursday"}
	course.StartTime = "2:00 PM"
	course.EndTime = "3:30 PM"

	out := Generate([]models.Course{course})

	assert.Contains(t, out, "BYDAY=TU,TH")
	assert.Contains(t, out, "DTSTART;TZID=America/New_York:20260120T140000")
	assert.Contains(t, out, "UNTIL=20260220T153000")
}

func TestGenerateEscapesDescriptionNewlines(t *testing.T) {
	course := baseCourse()
	course.CourseDescription = "First line.\nSecond line."

	out := Generate([]models.Course{course})

	assert.Contains(t, out, `DESCRIPTION:First line.\nSecond line.`)
	assert.NotContains(t, out, "DESCRIPTION:First line.\nSecond")
}

func TestGenerateSkipsIncompleteCourses(t *testing.T) {
	noDays := baseCourse()
	noDays.MeetingDays = nil

	noTime := baseCourse()
	noTime.StartTime = ""

	badDate := baseCourse()
	badDate.SessionStartDate = "soon"

	out := Generate([]models.Course{noDays, noTime, badDate})

	assert.NotContains(t, out, "BEGIN:VEVENT")
	assert.Contains(t, out, "END:VCALENDAR")
}

func TestGenerateIdempotent(t *testing.T) {
	courses := []models.Course{baseCourse()}
	first := Generate(courses)
	second := Generate(courses)
	assert.Equal(t, first, second)
}

// The generated document must survive a round trip through an independent
// ICS parser, and its recurrence rule must expand to the expected meeting
// dates.
func TestGenerateRoundTrip(t *testing.T) {
	out := Generate([]models.Course{baseCourse()})

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 1)

	ev := events[0]
	uid := ev.GetProperty(ics.ComponentPropertyUniqueId)
	require.NotNil(t, uid)
	assert.Equal(t, "1@som.yale.edu", uid.Value)

	rruleProp := ev.GetProperty(ics.ComponentPropertyRrule)
	require.NotNil(t, rruleProp)

	rule, err := rrule.StrToRRule(rruleProp.Value)
	require.NoError(t, err)
	rule.DTStart(time.Date(2026, time.January, 21, 10, 0, 0, 0, time.UTC))

	occurrences := rule.All()
	// Wednesdays from Jan 21 through Feb 18; Feb 25 falls past the Feb 20
	// session end.
	require.Len(t, occurrences, 5)
	assert.Equal(t, time.Date(2026, time.January, 21, 10, 0, 0, 0, time.UTC), occurrences[0])
	assert.Equal(t, time.Date(2026, time.February, 18, 10, 0, 0, 0, time.UTC), occurrences[4])
	for _, occ := range occurrences {
		assert.Equal(t, time.Wednesday, occ.Weekday())
	}
}
