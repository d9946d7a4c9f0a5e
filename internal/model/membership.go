package model

import "time"

type MembershipInfo struct {
	UserID                    string     `json:"user_id"`
	CurrentMembership         *string    `json:"current_membership,omitempty"`
	CurrentMembershipFinishes *time.Time `json:"current_membership_finishes,omitempty"`
}

// HasMembership reports whether the user currently holds the named tier.
func (m *MembershipInfo) HasMembership(tier string, now time.Time) bool {
	if m == nil || m.CurrentMembership == nil || *m.CurrentMembership != tier {
		return false
	}
	if m.CurrentMembershipFinishes != nil && now.After(*m.CurrentMembershipFinishes) {
		return false
	}
	return true
}
