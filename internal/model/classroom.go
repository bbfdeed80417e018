package model

import "time"

// Classroom owns machines and schedules. ActiveGroupID is the manual
// override; when set it wins over any schedule until explicitly cleared.
type Classroom struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	DisplayName    string    `json:"display_name"`
	DefaultGroupID string    `json:"default_group_id"`
	ActiveGroupID  *string   `json:"active_group_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// Machine is a registered client host. Each machine belongs to exactly one
// classroom.
type Machine struct {
	ID          int64     `json:"id"`
	Hostname    string    `json:"hostname"`
	ClassroomID int64     `json:"classroom_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Resolution source tags, in precedence order.
const (
	SourceManual   = "manual"
	SourceSchedule = "schedule"
	SourceDefault  = "default"
)

// Resolution is the outcome of resolving a machine's enforced access group.
type Resolution struct {
	GroupID string `json:"group_id"`
	Source  string `json:"source"`
}
