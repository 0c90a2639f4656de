// Package meeting parses the free-text scheduling fields of upstream catalog
// records: the "days and time" string (e.g. "T R 2:00 PM-3:30 PM"), 12-hour
// clock times, and the 8+-digit session date codes.
package meeting

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var timePattern = regexp.MustCompile(`(?i)\d{1,2}:\d{2}\s*[AP]M`)

var clockPattern = regexp.MustCompile(`(?i)^\s*(\d{1,2}):(\d{2})\s*([AP]M)\s*$`)

// ParseMeetingDays extracts weekday names from a days-and-time string. The
// day-token run is everything before the first time pattern; tokens are
// scanned left to right with the two-character "Th" tried before the single
// characters. Both "Th" and "R" mean Thursday because the upstream feed uses
// either depending on the term. Unrecognized characters are skipped silently.
// Returns nil when the string has no recognizable time pattern.
func ParseMeetingDays(daysTimes string) []string {
	loc := timePattern.FindStringIndex(daysTimes)
	if loc == nil {
		return nil
	}

	run := daysTimes[:loc[0]]
	var days []string
	for i := 0; i < len(run); i++ {
		if run[i] == 'T' && i+1 < len(run) && run[i+1] == 'h' {
			days = append(days, "Thursday")
			i++
			continue
		}
		switch run[i] {
		case 'M':
			days = append(days, "Monday")
		case 'T':
			days = append(days, "Tuesday")
		case 'W':
			days = append(days, "Wednesday")
		case 'R':
			days = append(days, "Thursday")
		case 'F':
			days = append(days, "Friday")
		}
	}
	return days
}

// ParseClockTime converts a 12-hour "H:MM AM/PM" string into 24-hour hour and
// minute values. "12:xx AM" maps to hour 0 and "12:xx PM" stays 12; any other
// PM hour gains 12. ok is false when the string does not match the pattern.
func ParseClockTime(raw string) (hour, minute int, ok bool) {
	m := clockPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, 0, false
	}

	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])

	period := strings.ToUpper(m[3])
	if period == "PM" && hour != 12 {
		hour += 12
	}
	if period == "AM" && hour == 12 {
		hour = 0
	}
	return hour, minute, true
}

// ParseSessionDate decodes an upstream session date ("YYYYMMDD ..." with the
// calendar day in the first 8 digits) into a date at midnight UTC. Building
// the value from components keeps the calendar day stable no matter what
// timezone the host process runs in.
func ParseSessionDate(raw string) (time.Time, bool) {
	if len(raw) < 8 {
		return time.Time{}, false
	}
	code := raw[:8]

	year, err := strconv.Atoi(code[:4])
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(code[4:6])
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(code[6:8])
	if err != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}
