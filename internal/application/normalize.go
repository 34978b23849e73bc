package application

import (
	"slices"
	"time"

	"github.com/ericfisherdev/canvasdue/internal/domain/model"
)

const day = 24 * time.Hour

// DaysUntil returns the whole number of days from now until due, rounded
// toward negative infinity. Anything due earlier today relative to now is -1.
func DaysUntil(due, now time.Time) int {
	d := due.Sub(now)
	days := int(d / day)
	if d < 0 && d%day != 0 {
		days--
	}
	return days
}

// Normalize flattens one course's assignments into view rows. Rows that are
// already past due are dropped; undated assignments follow policy.
// The returned slice preserves the input order and is never nil.
func Normalize(course model.Course, assignments []model.Assignment, now time.Time, policy model.UndatedPolicy) []model.ViewRow {
	rows := make([]model.ViewRow, 0, len(assignments))

	for _, a := range assignments {
		if !a.HasDueDate() {
			if policy == model.UndatedKeep {
				rows = append(rows, model.ViewRow{
					CourseName:     course.Name,
					AssignmentName: a.Name,
				})
			}
			continue
		}

		daysLeft := DaysUntil(*a.DueAt, now)
		if daysLeft < 0 {
			continue
		}

		date := model.DateOf(a.DueAt.UTC())
		rows = append(rows, model.ViewRow{
			CourseName:     course.Name,
			AssignmentName: a.Name,
			Date:           &date,
			DaysLeft:       daysLeft,
		})
	}

	return rows
}

// Aggregate concatenates per-course rows in the given order and sorts them by
// days left. The sort is stable, so equal keys keep their fetch order.
func Aggregate(groups ...[]model.ViewRow) []model.ViewRow {
	var n int
	for _, g := range groups {
		n += len(g)
	}

	rows := make([]model.ViewRow, 0, n)
	for _, g := range groups {
		rows = append(rows, g...)
	}

	slices.SortStableFunc(rows, func(a, b model.ViewRow) int {
		return a.DaysLeft - b.DaysLeft
	})

	return rows
}
