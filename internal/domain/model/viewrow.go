package model

// ViewRow is the flattened, display-ready unit produced from a course and one
// of its assignments.
type ViewRow struct {
	CourseName     string
	AssignmentName string
	Date           *Date // UTC calendar date of the due timestamp; nil when undated.
	DaysLeft       int   // Whole days until due, rounded down. Never negative in output.
}

// HasDate reports whether the row carries a due date.
func (r ViewRow) HasDate() bool {
	return r.Date != nil
}
