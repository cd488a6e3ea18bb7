package dto

import "github.com/noah-isme/training-crm-api/internal/models"

// DashboardResponse is the landing-page summary.
type DashboardResponse struct {
	Totals         DashboardTotals        `json:"totals"`
	Today          models.Weekday         `json:"today"`
	TodayLabel     string                 `json:"todayLabel"`
	TodayClasses   []models.ScheduleEntry `json:"todayClasses"`
	RecentStudents []models.Student       `json:"recentStudents"`
	Language       string                 `json:"language"`
}

// DashboardTotals are headline counters. ConversionRate is a percentage with one decimal.
type DashboardTotals struct {
	Students       int     `json:"students"`
	ActiveStudents int     `json:"activeStudents"`
	Courses        int     `json:"courses"`
	Leads          int     `json:"leads"`
	ConvertedLeads int     `json:"convertedLeads"`
	ConversionRate float64 `json:"conversionRate"`
}
