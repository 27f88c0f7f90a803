package bakalari

import "github.com/kvasek/betterschedule/internal/domain"

// Wire field names are capitalized by the server; the mapping to the
// domain model lives here and nowhere else.

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type timetableResponse struct {
	Teachers []teacherSchema `json:"Teachers"`
	Hours    []hourSchema    `json:"Hours"`
	Subjects []subjectSchema `json:"Subjects"`
	Days     []daySchema     `json:"Days"`
}

type teacherSchema struct {
	ID     string `json:"Id"`
	Abbrev string `json:"Abbrev"`
	Name   string `json:"Name"`
}

type subjectSchema struct {
	ID     string `json:"Id"`
	Abbrev string `json:"Abbrev"`
	Name   string `json:"Name"`
}

type hourSchema struct {
	ID        int    `json:"Id"`
	Caption   string `json:"Caption"`
	BeginTime string `json:"BeginTime"`
	EndTime   string `json:"EndTime"`
}

type daySchema struct {
	DayOfWeek int          `json:"DayOfWeek"`
	Date      string       `json:"Date"`
	Atoms     []atomSchema `json:"Atoms"`
}

type atomSchema struct {
	HourID    int    `json:"HourId"`
	TeacherID string `json:"TeacherId"`
	SubjectID string `json:"SubjectId"`
	RoomID    string `json:"RoomId"`
	Theme     string `json:"Theme"`
}

func (r timetableResponse) toDomain() domain.RawTimetable {
	raw := domain.RawTimetable{
		Teachers: make([]domain.Teacher, 0, len(r.Teachers)),
		Hours:    make([]domain.Hour, 0, len(r.Hours)),
		Subjects: make([]domain.Subject, 0, len(r.Subjects)),
		Days:     make([]domain.Day, 0, len(r.Days)),
	}

	for _, teacher := range r.Teachers {
		raw.Teachers = append(raw.Teachers, domain.Teacher(teacher))
	}
	for _, hour := range r.Hours {
		raw.Hours = append(raw.Hours, domain.Hour(hour))
	}
	for _, subject := range r.Subjects {
		raw.Subjects = append(raw.Subjects, domain.Subject(subject))
	}
	for _, day := range r.Days {
		atoms := make([]domain.Atom, 0, len(day.Atoms))
		for _, atom := range day.Atoms {
			atoms = append(atoms, domain.Atom(atom))
		}
		raw.Days = append(raw.Days, domain.Day{
			DayOfWeek: day.DayOfWeek,
			Date:      day.Date,
			Atoms:     atoms,
		})
	}

	return raw
}
