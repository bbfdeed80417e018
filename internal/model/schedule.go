package model

import "time"

// RecurrenceWeekly is the only recurrence the engine supports.
const RecurrenceWeekly = "weekly"

// Schedule assigns an access group to a classroom for a weekly time window.
// Times are wall-clock "HH:MM" strings; DayOfWeek follows time.Weekday
// numbering (0 = Sunday), with only 1-5 (Mon-Fri) ever schedulable.
type Schedule struct {
	ID          int64     `json:"id"`
	ClassroomID int64     `json:"classroom_id"`
	TeacherID   string    `json:"teacher_id"`
	GroupID     string    `json:"group_id"`
	DayOfWeek   int       `json:"day_of_week"`
	StartTime   string    `json:"start_time"` // "HH:MM"
	EndTime     string    `json:"end_time"`   // "HH:MM"
	Recurrence  string    `json:"recurrence"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
