package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/vnkhanh/study-schedule-backend/models"
)

// Màu dùng cho lịch khi không lọc theo subject
const AllSubjectsColor = "#10B981"

type DayEntry struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

type DashboardSummary struct {
	Filter        string     `json:"filter"`
	SubjectCount  int        `json:"subjectCount"`
	MaterialCount int        `json:"materialCount"`
	Days          []DayEntry `json:"days"`
}

// BuildDashboard gom material theo ngày lịch (trong loc). subjectID == nil nghĩa là "all".
func BuildDashboard(subjects []models.Subject, materials []models.Material, subjectID *uuid.UUID, loc *time.Location) DashboardSummary {
	if loc == nil {
		loc = time.UTC
	}
	filter := "all"
	color := AllSubjectsColor
	filtered := materials
	if subjectID != nil {
		filter = subjectID.String()
		filtered = FilterBySubject(materials, *subjectID)
		color = "#9CA3AF"
		for _, s := range subjects {
			if s.ID == *subjectID {
				color = s.Color
				break
			}
		}
	}

	days := make([]DayEntry, 0)
	index := make(map[string]int)
	for _, m := range filtered {
		key := m.Date.In(loc).Format(DateLayout)
		if i, ok := index[key]; ok {
			days[i].Count++
			continue
		}
		index[key] = len(days)
		days = append(days, DayEntry{Date: key, Count: 1, Color: color})
	}

	return DashboardSummary{
		Filter:        filter,
		SubjectCount:  len(subjects),
		MaterialCount: len(filtered),
		Days:          days,
	}
}
