package api

import (
	"github.com/hearthhq/hearth/internal/household"
	"github.com/hearthhq/hearth/internal/kinship"
	"github.com/hearthhq/hearth/internal/models"
)

// CreateHouseholdRequest is the request body for founding a household.
type CreateHouseholdRequest struct {
	Name    string            `json:"name" validate:"required"`
	Founder household.Profile `json:"founder" validate:"required"`
}

// ApproveJoinRequest is the request body for approving a join request.
type ApproveJoinRequest struct {
	Role     string `json:"role" validate:"required"`
	FatherID string `json:"father_id,omitempty"`
	MotherID string `json:"mother_id,omitempty"`
}

// CreateAncestorRequest is the request body for adding a historical node.
type CreateAncestorRequest struct {
	Profile  household.Profile `json:"profile" validate:"required"`
	FatherID string            `json:"father_id,omitempty"`
	MotherID string            `json:"mother_id,omitempty"`
}

// UpdatePersonRequest is the partial-update body for a person. Pointer
// fields distinguish "absent" from "set to empty".
type UpdatePersonRequest struct {
	DisplayName  *string   `json:"display_name,omitempty"`
	FullName     *string   `json:"full_name,omitempty"`
	BirthDate    *string   `json:"birth_date,omitempty"`
	Role         *string   `json:"role,omitempty"`
	FatherID     *string   `json:"father_id,omitempty"`
	MotherID     *string   `json:"mother_id,omitempty"`
	SpouseID     *string   `json:"spouse_id,omitempty"`
	Profession   *string   `json:"profession,omitempty"`
	Bio          *string   `json:"bio,omitempty"`
	HealthIssues *[]string `json:"health_issues,omitempty"`
}

// LinkSpousesRequest pairs two persons as spouses.
type LinkSpousesRequest struct {
	AID string `json:"a_id" validate:"required"`
	BID string `json:"b_id" validate:"required"`
}

// RelationshipResponse is the relationship query result with graph
// diagnostics attached.
type RelationshipResponse struct {
	From          string        `json:"from"`
	To            string        `json:"to"`
	Label         kinship.Label `json:"label"`
	Nodes         int           `json:"nodes"`
	DroppedEdges  int           `json:"dropped_edges"`
	DanglingEdges int           `json:"dangling_edges"`
}

// PersonsResponse wraps person listings.
type PersonsResponse struct {
	Persons []models.Person `json:"persons"`
}

// RecordEntryRequest is the body for appending a daily record entry. The
// fields used depend on the record type in the URL.
type RecordEntryRequest struct {
	Date   string `json:"date" validate:"required"`
	Kind   string `json:"kind,omitempty"`
	Amount string `json:"amount,omitempty"`
	Name   string `json:"name,omitempty"`
	Title  string `json:"title,omitempty"`
	Done   bool   `json:"done,omitempty"`
	Score  int    `json:"score,omitempty"`
}

// InsightRequest triggers insight generation for a date.
type InsightRequest struct {
	Date string `json:"date" validate:"required"`
}
