package filter

import "strings"

// StatusFilter includes or excludes rows by status label. A label matches
// any status that starts with it, case-insensitively, so "Forbidden" covers
// every "Forbidden - 4xx" row and "Server Error" covers all failed scans.
type StatusFilter struct {
	include []string
	exclude []string
}

// NewStatusFilter creates a status filter. If include is non-empty, only
// matching rows pass through. If exclude is non-empty, matching rows are
// filtered.
func NewStatusFilter(include, exclude []string) *StatusFilter {
	return &StatusFilter{include: normalize(include), exclude: normalize(exclude)}
}

func (f *StatusFilter) Name() string { return "status" }

func (f *StatusFilter) ShouldFilter(row Row) bool {
	status := strings.ToLower(row.Status)
	if len(f.include) > 0 {
		return !matchAny(status, f.include) // filter if NOT in include list
	}
	if len(f.exclude) > 0 {
		return matchAny(status, f.exclude)
	}
	return false
}

func matchAny(status string, labels []string) bool {
	for _, l := range labels {
		if strings.HasPrefix(status, l) {
			return true
		}
	}
	return false
}

func normalize(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
