package store

import "time"

// Pagination bounds for List.
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// ListFilter holds the optional, AND-combined predicates for List.
// FormNumber and SubmittedBy are case-insensitive substring matches;
// SubmittedDate is an exact calendar-date match.
type ListFilter struct {
	FormNumber    string
	SubmittedBy   string
	SubmittedDate *time.Time
	Limit         int
	Offset        int
}
