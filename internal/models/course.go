package models

// Course is the normalized catalog record served to clients. It is derived
// from the raw upstream payload by the catalog client; meeting days and clock
// times come out of the free-text daysTimes string.
type Course struct {
	CourseID          string   `json:"courseID"`
	CourseNumber      string   `json:"courseNumber"`
	CourseTitle       string   `json:"courseTitle"`
	CourseDescription string   `json:"courseDescription"`
	Faculty1          string   `json:"faculty1"`
	Faculty2          string   `json:"faculty2,omitempty"`
	Faculty1URL       string   `json:"faculty1Url,omitempty"`
	Faculty2URL       string   `json:"faculty2Url,omitempty"`
	DaysTimes         string   `json:"daysTimes"`
	MeetingDays       []string `json:"meetingDays"`
	StartTime         string   `json:"startTime"`
	EndTime           string   `json:"endTime"`
	Room              string   `json:"room"`
	Units             string   `json:"units"`
	CourseCategories  []string `json:"courseCategories"`
	CourseSession     string   `json:"courseSession"`
	EnrollmentLimit   string   `json:"enrollmentLimit"`

	// SessionStartDate and SessionEndDate keep the upstream 8+-digit
	// "YYYYMMDD ..." encoding; parsing happens at ICS generation time so a
	// malformed date degrades to a skipped event instead of a dropped course.
	SessionStartDate string `json:"courseSessionStartDate"`
	SessionEndDate   string `json:"courseSessionEndDate"`
}

// ScheduledCourse is a catalog course the user placed on their personal
// schedule, plus the palette color assigned at selection time. The set is
// never persisted server-side; it is reconstructed from the courses query
// parameter on every request.
type ScheduledCourse struct {
	Course
	Color string `json:"color"`
}

// Pagination describes the slice of a listing response.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
