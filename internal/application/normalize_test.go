package application_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/ericfisherdev/canvasdue/internal/application"
	"github.com/ericfisherdev/canvasdue/internal/domain/model"
)

var testNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func dueIn(d time.Duration) *time.Time {
	t := testNow.Add(d)
	return &t
}

func datePtr(y int, m time.Month, d int) *model.Date {
	return &model.Date{Year: y, Month: m, Day: d}
}

func TestDaysUntil(t *testing.T) {
	tests := []struct {
		offset time.Duration
		want   int
	}{
		{0, 0},
		{time.Hour, 0},
		{23*time.Hour + 59*time.Minute, 0},
		{24 * time.Hour, 1},
		{47 * time.Hour, 1},
		{48 * time.Hour, 2},
		{-time.Nanosecond, -1},
		{-time.Hour, -1},
		{-24 * time.Hour, -1},
		{-25 * time.Hour, -2},
	}

	for _, tt := range tests {
		t.Run(tt.offset.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, application.DaysUntil(testNow.Add(tt.offset), testNow))
		})
	}
}

func TestNormalize_FloorAndFilterProperty(t *testing.T) {
	course := model.Course{ID: 1, Name: "Math"}

	// Sweep due times from three days ago to three days ahead in 5h steps.
	for offset := -72 * time.Hour; offset <= 72*time.Hour; offset += 5 * time.Hour {
		t.Run(fmt.Sprintf("offset %s", offset), func(t *testing.T) {
			assignment := model.Assignment{ID: 10, Name: "HW", DueAt: dueIn(offset)}

			rows := application.Normalize(course, []model.Assignment{assignment}, testNow, model.UndatedDrop)

			hours := int(offset / time.Hour)
			wantDays := hours / 24
			if hours < 0 && hours%24 != 0 {
				wantDays--
			}

			if wantDays < 0 {
				assert.Empty(t, rows)
				return
			}
			if assert.Len(t, rows, 1) {
				assert.Equal(t, wantDays, rows[0].DaysLeft)
			}
		})
	}
}

func TestNormalize_DateIsUTCCalendarDate(t *testing.T) {
	oslo := time.FixedZone("CET", 3600)
	// 00:30 local on March 5 is still March 4 in UTC.
	due := time.Date(2026, 3, 5, 0, 30, 0, 0, oslo)

	rows := application.Normalize(
		model.Course{ID: 1, Name: "Math"},
		[]model.Assignment{{ID: 1, Name: "Late night", DueAt: &due}},
		testNow,
		model.UndatedDrop,
	)

	if assert.Len(t, rows, 1) {
		assert.Equal(t, datePtr(2026, time.March, 4), rows[0].Date)
		assert.Equal(t, 2, rows[0].DaysLeft)
	}
}

func TestNormalize_UndatedPolicy(t *testing.T) {
	course := model.Course{ID: 1, Name: "Math"}
	assignments := []model.Assignment{
		{ID: 10, Name: "HW1", DueAt: dueIn(26 * time.Hour)},
		{ID: 12, Name: "Reading"},
	}

	dropped := application.Normalize(course, assignments, testNow, model.UndatedDrop)
	assert.Equal(t, []model.ViewRow{
		{CourseName: "Math", AssignmentName: "HW1", Date: datePtr(2026, time.March, 3), DaysLeft: 1},
	}, dropped)

	kept := application.Normalize(course, assignments, testNow, model.UndatedKeep)
	assert.Equal(t, []model.ViewRow{
		{CourseName: "Math", AssignmentName: "HW1", Date: datePtr(2026, time.March, 3), DaysLeft: 1},
		{CourseName: "Math", AssignmentName: "Reading", Date: nil, DaysLeft: 0},
	}, kept)
}

func TestNormalize_EmptyInput(t *testing.T) {
	rows := application.Normalize(model.Course{ID: 1, Name: "Math"}, nil, testNow, model.UndatedDrop)

	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestNormalize_PastAndUndatedDropped(t *testing.T) {
	course := model.Course{ID: 1, Name: "Math"}
	assignments := []model.Assignment{
		{ID: 10, Name: "HW1", DueAt: dueIn(48 * time.Hour)},
		{ID: 11, Name: "HW2", DueAt: dueIn(-24 * time.Hour)},
		{ID: 12, Name: "HW3", DueAt: nil},
	}

	got := application.Aggregate(application.Normalize(course, assignments, testNow, model.UndatedDrop))

	want := []model.ViewRow{
		{CourseName: "Math", AssignmentName: "HW1", Date: datePtr(2026, time.March, 4), DaysLeft: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_SortsAscendingAndStable(t *testing.T) {
	math := []model.ViewRow{
		{CourseName: "Math", AssignmentName: "M-a", DaysLeft: 3},
		{CourseName: "Math", AssignmentName: "M-b", DaysLeft: 1},
		{CourseName: "Math", AssignmentName: "M-c", DaysLeft: 3},
	}
	physics := []model.ViewRow{
		{CourseName: "Physics", AssignmentName: "P-a", DaysLeft: 1},
		{CourseName: "Physics", AssignmentName: "P-b", DaysLeft: 0},
		{CourseName: "Physics", AssignmentName: "P-c", DaysLeft: 3},
	}

	got := application.Aggregate(math, physics)

	names := make([]string, 0, len(got))
	for _, r := range got {
		names = append(names, r.AssignmentName)
	}
	assert.Equal(t, []string{"P-b", "M-b", "P-a", "M-a", "M-c", "P-c"}, names)

	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].DaysLeft, got[i].DaysLeft)
	}
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	group := []model.ViewRow{
		{AssignmentName: "late", DaysLeft: 9},
		{AssignmentName: "early", DaysLeft: 1},
	}

	_ = application.Aggregate(group)

	assert.Equal(t, "late", group[0].AssignmentName)
}

func TestAggregate_NoGroups(t *testing.T) {
	got := application.Aggregate()

	assert.NotNil(t, got)
	assert.Empty(t, got)
}
