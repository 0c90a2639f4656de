package catalog

// mockCourses returns the development fixture set served when the upstream
// catalog is unreachable. The records mirror real session-items payloads,
// including the one-field-per-day quirk on the first course.
func mockCourses() []RawCourse {
	return []RawCourse{
		{
			CourseCategory:    "Core",
			CourseID:          "21927",
			CourseNumber:      "MGT 408",
			CourseTitle:       "Introduction to Negotiation",
			CourseSession:     "spring-1",
			SessionStartDate:  "20260121 000000.000",
			SessionEndDate:    "20260212 000000.000",
			EnrollmentLimit:   "75",
			CourseDescription: "The course objective is to learn a conceptual framework for analyzing and shaping negotiation processes and outcomes. Negotiation can be broken down into two basic activities: creating value and capturing value.",
			Faculty1:          "Nalebuff, Barry",
			Faculty2:          "Cain, Daylian",
			Faculty1Email:     "barry.nalebuff@yale.edu",
			Faculty2Email:     "daylian.cain@yale.edu",
			TermCode:          "202601",
			CourseType:        "core",
			Units:             "1.0",
			Section:           "01",
			Cohort:            "GOLD",
			DaysTimes:         "W 10:10 AM-12:10 PM",
			Day:               "W",
			StartTime:         "10:10 AM",
			EndTime:           "12:10 PM",
			Room:              "Room 101",
		},
		{
			CourseCategory:    "Finance",
			CourseID:          "22089",
			CourseNumber:      "MGT 945",
			CourseTitle:       "Macroprudential Policy",
			CourseSession:     "spring",
			SessionStartDate:  "20260120 000000.000",
			SessionEndDate:    "20260508 000000.000",
			EnrollmentLimit:   "48",
			CourseDescription: "Advanced course covering macroprudential policy frameworks and their implementation in modern financial systems.",
			Faculty1:          "Metrick, Andrew",
			Faculty1Email:     "andrew.metrick@yale.edu",
			TermCode:          "202601",
			CourseType:        "elective",
			Units:             "4.0",
			Section:           "01",
			DaysTimes:         "T R 2:00 PM-3:30 PM",
			Day:               "T",
			StartTime:         "2:00 PM",
			EndTime:           "3:30 PM",
			Room:              "Room 205",
		},
		{
			CourseCategory:    "Marketing",
			CourseID:          "22090",
			CourseNumber:      "MGT 567",
			CourseTitle:       "Digital Marketing Strategy",
			CourseSession:     "spring",
			SessionStartDate:  "20260120 000000.000",
			SessionEndDate:    "20260508 000000.000",
			EnrollmentLimit:   "60",
			CourseDescription: "Comprehensive overview of digital marketing strategies, including social media, content marketing, and analytics.",
			Faculty1:          "Johnson, Sarah",
			Faculty1Email:     "sarah.johnson@yale.edu",
			TermCode:          "202601",
			CourseType:        "elective",
			Units:             "3.0",
			Section:           "01",
			DaysTimes:         "M W 1:00 PM-2:30 PM",
			Day:               "M",
			StartTime:         "1:00 PM",
			EndTime:           "2:30 PM",
			Room:              "Room 150",
		},
	}
}
