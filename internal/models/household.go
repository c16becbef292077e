package models

import "time"

// Household is a bounded collection of persons under one administrative
// owner. The owner id is always present in MemberIDs. A requester id is
// either in JoinRequests or in MemberIDs, never both.
type Household struct {
	ID           string     `json:"id"`
	OwnerID      string     `json:"owner_id"`
	Name         string     `json:"name"`
	MemberIDs    []string   `json:"member_ids"`
	JoinRequests []string   `json:"join_requests"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Archived reports whether the household is soft-deleted. Archived
// households stay readable but reject every mutation until restored.
func (h *Household) Archived() bool {
	return h.DeletedAt != nil
}

// IsMember reports whether id is in the member set.
func (h *Household) IsMember(id string) bool {
	for _, m := range h.MemberIDs {
		if m == id {
			return true
		}
	}
	return false
}

// HasPendingRequest reports whether id is waiting for a join decision.
func (h *Household) HasPendingRequest(id string) bool {
	for _, r := range h.JoinRequests {
		if r == id {
			return true
		}
	}
	return false
}
