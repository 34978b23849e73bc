package application

import "github.com/ericfisherdev/canvasdue/internal/domain/model"

// Urgency thresholds in whole days left.
const (
	soonDays     = 2
	thisWeekDays = 7
)

// ClassifyUrgency buckets a row by how soon it is due. Rows without a date
// are reported as undated regardless of their days-left value.
func ClassifyUrgency(row model.ViewRow) model.Urgency {
	if !row.HasDate() {
		return model.UrgencyUndated
	}

	switch {
	case row.DaysLeft <= 0:
		return model.UrgencyToday
	case row.DaysLeft <= soonDays:
		return model.UrgencySoon
	case row.DaysLeft <= thisWeekDays:
		return model.UrgencyThisWeek
	default:
		return model.UrgencyLater
	}
}

// CountByUrgency tallies rows per urgency bucket.
func CountByUrgency(rows []model.ViewRow) map[model.Urgency]int {
	counts := make(map[model.Urgency]int)
	for _, r := range rows {
		counts[ClassifyUrgency(r)]++
	}
	return counts
}
