package model

import "time"

// InclusionToken authorizes the unattended auto-inclusion flow. Tokens are
// minted by an administrator and presented by client-side capture pages.
type InclusionToken struct {
	ID          int64      `json:"id"`
	Token       string     `json:"token"`
	OwnerUserID string     `json:"owner_user_id"`
	GroupID     string     `json:"group_id"`
	ExpiresAt   *time.Time `json:"expires_at"` // nil = never expires
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsValid checks if the token can authorize an auto-inclusion right now.
func (t *InclusionToken) IsValid() bool {
	if !t.IsActive {
		return false
	}
	if t.ExpiresAt != nil && time.Now().After(*t.ExpiresAt) {
		return false
	}
	return true
}
