package models

// CourseLevel is the difficulty band of a course.
type CourseLevel string

const (
	LevelBeginner     CourseLevel = "Beginner"
	LevelIntermediate CourseLevel = "Intermediate"
	LevelAdvanced     CourseLevel = "Advanced"
)

// Course is a catalogue entry persisted under crm_courses.
// StudentsCount is maintained by hand and is not derived from enrolments.
type Course struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Instructor    string      `json:"instructor"`
	Duration      string      `json:"duration"`
	Price         float64     `json:"price"`
	StudentsCount int         `json:"studentsCount"`
	Level         CourseLevel `json:"level"`
}

func (c Course) GetID() string { return c.ID }

// CourseFilter narrows course listings.
type CourseFilter struct {
	Search string
	Level  CourseLevel
}
