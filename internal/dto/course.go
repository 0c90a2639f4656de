package dto

// CourseListRequest captures query parameters for GET /courses.
type CourseListRequest struct {
	Search   string
	Category string
	Session  string
	Page     int
	PageSize int
}

// CourseListMeta reports catalog freshness alongside the course listing.
type CourseListMeta struct {
	CacheHit bool   `json:"cacheHit"`
	Degraded bool   `json:"degraded"`
	TermCode string `json:"termCode"`
}

// CategoryListResponse enumerates the distinct course categories in the
// current term, used to populate filter controls.
type CategoryListResponse struct {
	Categories []string `json:"categories"`
	Sessions   []string `json:"sessions"`
}
