package model

import "time"

// Assignment represents a Canvas assignment belonging to a course.
type Assignment struct {
	ID          int64
	Name        string
	DueAt       *time.Time // Nil when the assignment has no due date.
	Description string     // Plain text; HTML is stripped by the gateway.
}

// HasDueDate reports whether the assignment carries a due timestamp.
func (a Assignment) HasDueDate() bool {
	return a.DueAt != nil
}
