package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvasek/betterschedule/internal/domain"
)

func TestRenderScheduleWithLessons(t *testing.T) {
	output, err := Render([]domain.DayLessons{
		{
			Date: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
			Lessons: []domain.Lesson{
				{Name: "Math", Teacher: "Bob", Start: "08:00", End: "08:45"},
				{Name: "Physics", Teacher: "Alice", Start: "09:00", End: "09:45"},
			},
		},
		{
			Date: time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC),
		},
	}, RenderOptions{Header: "Jan Novak"})

	require.NoError(t, err)
	assert.Contains(t, output, "Timetable")
	assert.Contains(t, output, "Jan Novak")
	assert.Contains(t, output, "Monday 8 January 2024")
	assert.Contains(t, output, "Math")
	assert.Contains(t, output, "(Bob)")
	assert.Contains(t, output, "08:00-08:45")
	assert.Contains(t, output, "Tuesday 9 January 2024")
	assert.Contains(t, output, "no lessons")
}

func TestRenderEmptySchedule(t *testing.T) {
	output, err := Render(nil, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "No days to display.")
}
