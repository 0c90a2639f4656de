// Package ical renders a selected set of courses into an iCalendar document
// with one weekly-recurring VEVENT per course, anchored to the first meeting
// on or after the session start and terminated at the session end. All
// timestamps are written as TZID-qualified Eastern wall-clock values so the
// calendar imports identically regardless of the host timezone; a static
// VTIMEZONE block carries the US Eastern DST rules.
package ical

import (
	"strings"
	"time"

	"github.com/som-tools/coursetable-api/internal/meeting"
	"github.com/som-tools/coursetable-api/internal/models"
)

const (
	// TZID is the timezone identifier used for every DTSTART/DTEND.
	TZID = "America/New_York"

	prodID    = "-//Yale SOM//Course Schedule//EN"
	uidDomain = "som.yale.edu"

	stampLayout = "20060102T150405"
)

var dayToRRule = map[string]string{
	"Sunday":    "SU",
	"Monday":    "MO",
	"Tuesday":   "TU",
	"Wednesday": "WE",
	"Thursday":  "TH",
	"Friday":    "FR",
	"Saturday":  "SA",
}

var dayIndex = map[string]int{
	"Sunday":    0,
	"Monday":    1,
	"Tuesday":   2,
	"Wednesday": 3,
	"Thursday":  4,
	"Friday":    5,
	"Saturday":  6,
}

// FirstOccurrenceOnOrAfter returns the earliest date on or after start whose
// weekday is in days. Offsets are computed mod 7 per candidate day and the
// minimum wins, so a session starting on a meeting day yields the start date
// itself. Unknown day names are ignored; if none are known, start is returned
// unchanged.
func FirstOccurrenceOnOrAfter(start time.Time, days []string) time.Time {
	startDay := int(start.Weekday())
	minOffset := 7
	for _, day := range days {
		target, ok := dayIndex[day]
		if !ok {
			continue
		}
		offset := (target - startDay + 7) % 7
		if offset < minOffset {
			minOffset = offset
		}
	}
	if minOffset == 7 {
		return start
	}
	return start.AddDate(0, 0, minOffset)
}

// RecurrenceUntil combines the session end date with the meeting's end clock
// time. Using the end time (not the start) keeps the final occurrence from
// being truncated mid-session.
func RecurrenceUntil(sessionEnd time.Time, endHour, endMinute int) time.Time {
	return time.Date(sessionEnd.Year(), sessionEnd.Month(), sessionEnd.Day(), endHour, endMinute, 0, 0, sessionEnd.Location())
}

// Generate renders the ICS document for the given courses. Courses missing
// meeting days, clock times, or session dates are skipped; one bad record
// never blocks the rest. Output is deterministic for identical input: UIDs
// derive from course IDs and no generation timestamps are emitted.
func Generate(courses []models.Course) string {
	var b strings.Builder
	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:"+prodID)
	writeVTimezone(&b)

	for _, course := range courses {
		writeEvent(&b, course)
	}

	b.WriteString("END:VCALENDAR")
	return b.String()
}

func writeEvent(b *strings.Builder, course models.Course) {
	if len(course.MeetingDays) == 0 || course.StartTime == "" || course.EndTime == "" {
		return
	}

	startHour, startMinute, ok := meeting.ParseClockTime(course.StartTime)
	if !ok {
		return
	}
	endHour, endMinute, ok := meeting.ParseClockTime(course.EndTime)
	if !ok {
		return
	}

	sessionStart, ok := meeting.ParseSessionDate(course.SessionStartDate)
	if !ok {
		return
	}
	sessionEnd, ok := meeting.ParseSessionDate(course.SessionEndDate)
	if !ok {
		return
	}

	firstDay := FirstOccurrenceOnOrAfter(sessionStart, course.MeetingDays)
	dtStart := time.Date(firstDay.Year(), firstDay.Month(), firstDay.Day(), startHour, startMinute, 0, 0, firstDay.Location())
	dtEnd := time.Date(firstDay.Year(), firstDay.Month(), firstDay.Day(), endHour, endMinute, 0, 0, firstDay.Location())
	until := RecurrenceUntil(sessionEnd, endHour, endMinute)

	byDays := make([]string, 0, len(course.MeetingDays))
	for _, day := range course.MeetingDays {
		if code, ok := dayToRRule[day]; ok {
			byDays = append(byDays, code)
		}
	}
	if len(byDays) == 0 {
		return
	}

	writeLine(b, "BEGIN:VEVENT")
	writeLine(b, "SUMMARY:"+course.CourseNumber+" - "+course.CourseTitle)
	writeLine(b, "DESCRIPTION:"+escapeText(course.CourseDescription))
	writeLine(b, "LOCATION:"+course.Room)
	writeLine(b, "DTSTART;TZID="+TZID+":"+dtStart.Format(stampLayout))
	writeLine(b, "DTEND;TZID="+TZID+":"+dtEnd.Format(stampLayout))
	writeLine(b, "RRULE:FREQ=WEEKLY;BYDAY="+strings.Join(byDays, ",")+";UNTIL="+until.Format(stampLayout))
	writeLine(b, "UID:"+course.CourseID+"@"+uidDomain)
	writeLine(b, "END:VEVENT")
}

// writeVTimezone emits the fixed US Eastern timezone definition: daylight
// time starts the second Sunday of March and standard time resumes the first
// Sunday of November.
func writeVTimezone(b *strings.Builder) {
	writeLine(b, "BEGIN:VTIMEZONE")
	writeLine(b, "TZID:"+TZID)
	writeLine(b, "BEGIN:DAYLIGHT")
	writeLine(b, "TZOFFSETFROM:-0500")
	writeLine(b, "TZOFFSETTO:-0400")
	writeLine(b, "TZNAME:EDT")
	writeLine(b, "DTSTART:20070311T020000")
	writeLine(b, "RRULE:FREQ=YEARLY;BYMONTH=3;BYDAY=2SU")
	writeLine(b, "END:DAYLIGHT")
	writeLine(b, "BEGIN:STANDARD")
	writeLine(b, "TZOFFSETFROM:-0400")
	writeLine(b, "TZOFFSETTO:-0500")
	writeLine(b, "TZNAME:EST")
	writeLine(b, "DTSTART:20071104T020000")
	writeLine(b, "RRULE:FREQ=YEARLY;BYMONTH=11;BYDAY=1SU")
	writeLine(b, "END:STANDARD")
	writeLine(b, "END:VTIMEZONE")
}

func escapeText(text string) string {
	return strings.ReplaceAll(text, "\n", `\n`)
}

func writeLine(b *strings.Builder, line string) {
	b.WriteString(line)
	b.WriteString("\r\n")
}
