package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ericfisherdev/canvasdue/internal/application"
	"github.com/ericfisherdev/canvasdue/internal/domain/model"
)

var urgencyAttributes = map[model.Urgency][]color.Attribute{
	model.UrgencyToday:    {color.FgRed, color.Bold},
	model.UrgencySoon:     {color.FgYellow},
	model.UrgencyThisWeek: {color.FgCyan},
	model.UrgencyLater:    {},
	model.UrgencyUndated:  {color.Faint},
}

// RenderCourses writes the favorite course list as a table.
func RenderCourses(w io.Writer, courses []model.Course) {
	if len(courses) == 0 {
		fmt.Fprintln(w, "No favorite courses.")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Course"})
	for _, c := range courses {
		t.AppendRow(table.Row{c.Name})
	}
	t.Render()
}

// RenderAssignments writes rows in the given order as a table followed by a
// one-line urgency summary. Undated rows get empty date and days cells.
func RenderAssignments(w io.Writer, rows []model.ViewRow, colorize bool) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No upcoming assignments.")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Course", "Name", "Date", "Days left"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
	})

	for _, r := range rows {
		urgency := application.ClassifyUrgency(r)
		paint := painter(urgency, colorize)

		date, days := "", ""
		if r.HasDate() {
			date = r.Date.String()
			days = strconv.Itoa(r.DaysLeft)
		}
		t.AppendRow(table.Row{paint(r.CourseName), paint(r.AssignmentName), paint(date), paint(days)})
	}
	t.Render()

	counts := application.CountByUrgency(rows)
	fmt.Fprintf(w, "%d due today, %d due within 2 days, %d this week, %d later",
		counts[model.UrgencyToday],
		counts[model.UrgencySoon],
		counts[model.UrgencyThisWeek],
		counts[model.UrgencyLater],
	)
	if n := counts[model.UrgencyUndated]; n > 0 {
		fmt.Fprintf(w, ", %d undated", n)
	}
	fmt.Fprintln(w)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

// painter returns a formatter for the urgency's colour, or identity when
// colouring is off.
func painter(u model.Urgency, colorize bool) func(string) string {
	attrs := urgencyAttributes[u]
	if !colorize || len(attrs) == 0 {
		return func(s string) string { return s }
	}

	c := color.New(attrs...)
	c.EnableColor()
	return func(s string) string {
		if s == "" {
			return s
		}
		return c.Sprint(s)
	}
}
