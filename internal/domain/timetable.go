package domain

import (
	"strings"
	"time"
)

// RawTimetable mirrors the server payload after wire-name mapping.
// Atom references are not guaranteed to resolve; a dangling id is a
// normal condition, not an error.
type RawTimetable struct {
	Teachers []Teacher
	Hours    []Hour
	Subjects []Subject
	Days     []Day
}

type Teacher struct {
	ID     string
	Abbrev string
	Name   string
}

type Subject struct {
	ID     string
	Abbrev string
	Name   string
}

type Hour struct {
	ID        int
	Caption   string
	BeginTime string
	EndTime   string
}

type Day struct {
	DayOfWeek int
	Date      string
	Atoms     []Atom
}

type Atom struct {
	HourID    int
	TeacherID string
	SubjectID string
	RoomID    string
	Theme     string
}

// DayLessons is the display-ready form of one calendar day.
type DayLessons struct {
	Date    time.Time
	Lessons []Lesson
}

type Lesson struct {
	Name    string
	Teacher string
	Start   string
	End     string
}

// Normalize joins the raw subject/teacher/hour/day/atom records into a
// per-day lesson list. Pure: no network, no shared state.
//
// Days stay in source order and are dropped wholesale when their date
// does not parse. Atoms stay in source order and are dropped silently
// when any of their subject/teacher/hour references fails to resolve;
// cancelled or substituted lessons arrive exactly like that. Subject ids
// are whitespace-padded upstream and are trimmed before lookup.
func Normalize(raw RawTimetable) []DayLessons {
	subjectNames := make(map[string]string, len(raw.Subjects))
	for _, subject := range raw.Subjects {
		subjectNames[strings.TrimSpace(subject.ID)] = subject.Name
	}

	teacherNames := make(map[string]string, len(raw.Teachers))
	for _, teacher := range raw.Teachers {
		teacherNames[teacher.ID] = teacher.Name
	}

	hoursByID := make(map[int]Hour, len(raw.Hours))
	for _, hour := range raw.Hours {
		hoursByID[hour.ID] = hour
	}

	days := make([]DayLessons, 0, len(raw.Days))
	for _, day := range raw.Days {
		date, ok := parseDayDate(day.Date)
		if !ok {
			continue
		}

		lessons := make([]Lesson, 0, len(day.Atoms))
		for _, atom := range day.Atoms {
			subjectName, ok := subjectNames[strings.TrimSpace(atom.SubjectID)]
			if !ok {
				continue
			}
			teacherName, ok := teacherNames[atom.TeacherID]
			if !ok {
				continue
			}
			hour, ok := hoursByID[atom.HourID]
			if !ok {
				continue
			}

			lessons = append(lessons, Lesson{
				Name:    subjectName,
				Teacher: teacherName,
				Start:   hour.BeginTime,
				End:     hour.EndTime,
			})
		}

		days = append(days, DayLessons{Date: date, Lessons: lessons})
	}

	return days
}

// The server has been observed emitting both full RFC 3339 timestamps
// and bare calendar dates.
var dayDateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDayDate(value string) (time.Time, bool) {
	for _, layout := range dayDateLayouts {
		if date, err := time.Parse(layout, value); err == nil {
			return date, true
		}
	}
	return time.Time{}, false
}
