package models

// DemoSchedule is the timetable a fresh installation starts with.
func DemoSchedule() []ScheduleEntry {
	return []ScheduleEntry{
		{ID: "s1", CourseID: "c1", CourseTitle: "Frontend React", Instructor: "Eldar Alymkulov", Day: Monday, Time: "18:00 - 20:00", Room: "Room 302"},
		{ID: "s2", CourseID: "c2", CourseTitle: "Python Backend", Instructor: "Tilek Borbiev", Day: Tuesday, Time: "14:00 - 16:00", Room: "Room 101"},
		{ID: "s3", CourseID: "c3", CourseTitle: "UI/UX Design", Instructor: "Cholpon Bekova", Day: Monday, Time: "10:00 - 12:00", Room: "Lab 1"},
		{ID: "s4", CourseID: "c1", CourseTitle: "Frontend React", Instructor: "Eldar Alymkulov", Day: Wednesday, Time: "18:00 - 20:00", Room: "Room 302"},
		{ID: "s5", CourseID: "c2", CourseTitle: "Python Backend", Instructor: "Tilek Borbiev", Day: Thursday, Time: "14:00 - 16:00", Room: "Room 101"},
	}
}

// DemoStudents is loaded only when demo seeding is enabled.
func DemoStudents() []Student {
	return []Student{
		{ID: "1", FirstName: "Azamat", LastName: "Kadyrov", Email: "azamat@example.com", Phone: "+996 555 123 456", Courses: []string{"Frontend React", "UI/UX Design"}, Status: StudentActive, PaymentStatus: PaymentPaid, EnrollmentDate: "2023-09-01"},
		{ID: "2", FirstName: "Aigul", LastName: "Mamatova", Email: "aigul@example.com", Phone: "+996 777 987 654", Courses: []string{"Python Backend"}, Status: StudentActive, PaymentStatus: PaymentPartial, EnrollmentDate: "2023-10-15"},
		{ID: "3", FirstName: "Bermet", LastName: "Isakova", Email: "bermet@example.com", Phone: "+996 500 111 222", Courses: []string{"JavaScript Fundamentals"}, Status: StudentGraduated, PaymentStatus: PaymentPaid, EnrollmentDate: "2023-05-10"},
	}
}

// DemoCourses is loaded only when demo seeding is enabled.
func DemoCourses() []Course {
	return []Course{
		{ID: "c1", Title: "Frontend React", Instructor: "Eldar Alymkulov", Duration: "4 months", Price: 35000, StudentsCount: 24, Level: LevelIntermediate},
		{ID: "c2", Title: "Python Backend", Instructor: "Tilek Borbiev", Duration: "5 months", Price: 45000, StudentsCount: 18, Level: LevelAdvanced},
		{ID: "c3", Title: "UI/UX Design", Instructor: "Cholpon Bekova", Duration: "3 months", Price: 30000, StudentsCount: 30, Level: LevelBeginner},
	}
}

// DemoLeads is loaded only when demo seeding is enabled.
func DemoLeads() []Lead {
	return []Lead{
		{ID: "l1", Name: "Almaz Joroev", Source: "Instagram", Status: LeadNew, Email: "almaz@gmail.com"},
		{ID: "l2", Name: "Dinara Sultanova", Source: "Facebook", Status: LeadContacted, Email: "dinara@gmail.com"},
		{ID: "l3", Name: "Nursultan Abdyrakhmanov", Source: "Telegram", Status: LeadMeeting, Email: "nurs@gmail.com"},
	}
}
