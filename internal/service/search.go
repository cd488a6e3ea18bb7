package service

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/noah-isme/training-crm-api/internal/models"
)

// Filter keeps the records whose searchable text contains query, ignoring case.
// Order is preserved and a blank query returns items unchanged. A non-blank
// query is matched as given, surrounding spaces included.
func Filter[T any](query string, items []T, text func(T) string) []T {
	if strings.TrimSpace(query) == "" {
		return items
	}
	folder := cases.Fold()
	needle := folder.String(query)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if strings.Contains(folder.String(text(item)), needle) {
			out = append(out, item)
		}
	}
	return out
}

func studentSearchText(s models.Student) string {
	return s.FirstName + " " + s.LastName + " " + s.Email + " " + s.Phone
}

func courseSearchText(c models.Course) string {
	return c.Title + " " + c.Instructor
}

func leadSearchText(l models.Lead) string {
	return l.Name + " " + l.Email + " " + l.Source
}

func scheduleSearchText(e models.ScheduleEntry) string {
	return e.CourseTitle + " " + e.Instructor + " " + e.Room
}

func staffSearchText(a models.StaffAccount) string {
	return a.Name + " " + a.Email
}

// PartitionLeads groups leads by status in pipeline order. Leads carrying a
// status outside the pipeline are collected in trailing groups so none is lost.
func PartitionLeads(leads []models.Lead) []models.LeadStage {
	stages := make([]models.LeadStage, 0, len(models.LeadPipeline))
	index := make(map[models.LeadStatus]int, len(models.LeadPipeline))
	for _, status := range models.LeadPipeline {
		index[status] = len(stages)
		stages = append(stages, models.LeadStage{Status: status, Leads: []models.Lead{}})
	}
	for _, lead := range leads {
		i, ok := index[lead.Status]
		if !ok {
			i = len(stages)
			index[lead.Status] = i
			stages = append(stages, models.LeadStage{Status: lead.Status, Leads: []models.Lead{}})
		}
		stages[i].Leads = append(stages[i].Leads, lead)
	}
	for i := range stages {
		stages[i].Count = len(stages[i].Leads)
	}
	return stages
}

// SortSchedule orders entries by weekday, then by the time text compared as a
// plain string. "9:00" therefore sorts after "18:00".
func SortSchedule(entries []models.ScheduleEntry) []models.ScheduleEntry {
	out := make([]models.ScheduleEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := out[i].Day.Ordinal(), out[j].Day.Ordinal()
		if oi != oj {
			return oi < oj
		}
		return out[i].Time < out[j].Time
	})
	return out
}

// PartitionSchedule groups entries by weekday, Monday first. Each group is sorted
// and labelled with label(day). Entries on unrecognised days go in trailing groups.
func PartitionSchedule(entries []models.ScheduleEntry, label func(models.Weekday) string) []models.DaySchedule {
	days := make([]models.DaySchedule, 0, len(models.Week))
	index := make(map[models.Weekday]int, len(models.Week))
	for _, day := range models.Week {
		index[day] = len(days)
		days = append(days, models.DaySchedule{Day: day, Entries: []models.ScheduleEntry{}})
	}
	for _, entry := range SortSchedule(entries) {
		i, ok := index[entry.Day]
		if !ok {
			i = len(days)
			index[entry.Day] = i
			days = append(days, models.DaySchedule{Day: entry.Day, Entries: []models.ScheduleEntry{}})
		}
		days[i].Entries = append(days[i].Entries, entry)
	}
	for i := range days {
		if label != nil {
			days[i].Label = label(days[i].Day)
		} else {
			days[i].Label = string(days[i].Day)
		}
	}
	return days
}
