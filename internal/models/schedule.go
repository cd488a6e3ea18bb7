package models

// Weekday names a day of the week the way schedule entries store it.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Week lists weekdays in timetable order.
var Week = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Ordinal returns the position of d within Week, or len(Week) for unknown values.
func (d Weekday) Ordinal() int {
	for i, day := range Week {
		if day == d {
			return i
		}
	}
	return len(Week)
}

// CustomCourseID marks schedule entries that are not tied to a catalogue course.
const CustomCourseID = "custom"

// ScheduleEntry is a timetable slot persisted under crm_schedule.
// CourseTitle is a copy taken at creation time and Time is free text such as "18:00 - 20:00".
type ScheduleEntry struct {
	ID          string  `json:"id"`
	CourseID    string  `json:"courseId"`
	CourseTitle string  `json:"courseTitle"`
	Instructor  string  `json:"instructor"`
	Day         Weekday `json:"day"`
	Time        string  `json:"time"`
	Room        string  `json:"room"`
}

func (s ScheduleEntry) GetID() string { return s.ID }

// ScheduleFilter narrows timetable listings. An empty Day means all days.
type ScheduleFilter struct {
	Search string
	Day    Weekday
}

// DaySchedule groups the entries held on one weekday.
type DaySchedule struct {
	Day     Weekday         `json:"day"`
	Label   string          `json:"label"`
	Entries []ScheduleEntry `json:"entries"`
}
