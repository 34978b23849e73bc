package model

import "fmt"

// CacheKind identifies an independently cached value.
type CacheKind string

const (
	CacheKindCourses     CacheKind = "courses"
	CacheKindAssignments CacheKind = "assignments"
)

// UndatedPolicy decides what happens to assignments without a due date.
type UndatedPolicy string

const (
	UndatedDrop UndatedPolicy = "drop" // Omit the row entirely.
	UndatedKeep UndatedPolicy = "keep" // Keep the row with zero days left and no date.
)

// ParseUndatedPolicy validates a policy name.
func ParseUndatedPolicy(s string) (UndatedPolicy, error) {
	switch p := UndatedPolicy(s); p {
	case UndatedDrop, UndatedKeep:
		return p, nil
	default:
		return "", fmt.Errorf("unknown undated policy %q: expected %q or %q", s, UndatedDrop, UndatedKeep)
	}
}

// Urgency buckets a row by how soon it is due.
type Urgency string

const (
	UrgencyToday    Urgency = "due-today"
	UrgencySoon     Urgency = "due-soon"
	UrgencyThisWeek Urgency = "this-week"
	UrgencyLater    Urgency = "later"
	UrgencyUndated  Urgency = "undated"
)
