package catalog

import "strings"

const facultyDirectoryBase = "https://som.yale.edu/faculty-research/faculty-directory/"

// FacultyURL builds the faculty directory profile URL from a "Last, First"
// name. Returns empty when the name does not split into both parts.
func FacultyURL(name string) string {
	if name == "" {
		return ""
	}
	parts := strings.SplitN(name, ",", 2)
	if len(parts) != 2 {
		return ""
	}
	last := strings.TrimSpace(parts[0])
	first := strings.TrimSpace(parts[1])
	if first == "" || last == "" {
		return ""
	}
	return facultyDirectoryBase + slugify(first) + "-" + slugify(last)
}

func slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "’", "")
	return strings.Join(strings.Fields(s), "-")
}
