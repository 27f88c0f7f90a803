package schedule

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kvasek/betterschedule/internal/domain"
)

type RenderOptions struct {
	// Header is shown above the schedule, typically the person's full
	// name decoded from token claims.
	Header string
}

func renderView(days []domain.DayLessons, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Timetable"),
	}
	if opts.Header != "" {
		lines = append(lines, s.header.Render(opts.Header))
	}

	if len(days) == 0 {
		lines = append(lines, s.empty.Render("No days to display."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, day := range days {
		lines = append(lines, s.section.Render(renderDay(day, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderDay(day domain.DayLessons, s styles) string {
	parts := []string{
		s.day.Render(day.Date.Format("Monday 2 January 2006")),
	}

	if len(day.Lessons) == 0 {
		parts = append(parts, s.empty.Render("  no lessons"))
		return strings.Join(parts, "\n")
	}

	for _, lesson := range day.Lessons {
		parts = append(parts, fmt.Sprintf("  %s  %s %s",
			s.times.Render(lesson.Start+"-"+lesson.End),
			s.lesson.Render(lesson.Name),
			s.teacher.Render("("+lesson.Teacher+")"),
		))
	}

	return strings.Join(parts, "\n")
}
