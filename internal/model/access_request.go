package model

import "time"

// Request status constants. Approved and rejected are terminal.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// Request priorities.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// AccessRequest is a proposal to whitelist a domain for a group.
type AccessRequest struct {
	ID             int64      `json:"id"`
	Domain         string     `json:"domain"`
	Reason         string     `json:"reason"`
	RequesterEmail string     `json:"requester_email,omitempty"`
	GroupID        string     `json:"group_id"`
	Priority       string     `json:"priority"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy     *string    `json:"resolved_by,omitempty"`
	ResolveNote    string     `json:"resolve_note,omitempty"`
}

// IsPending checks if the request can still be transitioned.
func (r *AccessRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

// IsResolved checks if the request reached a terminal state.
func (r *AccessRequest) IsResolved() bool {
	return r.Status == RequestStatusApproved || r.Status == RequestStatusRejected
}

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityNormal || p == PriorityHigh
}
