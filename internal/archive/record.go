// Package archive imports historical ancestor records from a watched
// directory of JSON files into the person store.
package archive

import (
	"encoding/json"
	"fmt"

	"github.com/hearthhq/hearth/internal/models"
)

// Record is one ancestor entry in an archive file. Files hold a JSON
// array of records; HouseholdID is required per record, the rest mirrors
// the person fields an owner would enter by hand.
type Record struct {
	ID           string   `json:"id,omitempty"`
	HouseholdID  string   `json:"household_id"`
	DisplayName  string   `json:"display_name"`
	FullName     string   `json:"full_name,omitempty"`
	BirthDate    string   `json:"birth_date,omitempty"`
	Role         string   `json:"role,omitempty"`
	FatherID     string   `json:"father_id,omitempty"`
	MotherID     string   `json:"mother_id,omitempty"`
	SpouseID     string   `json:"spouse_id,omitempty"`
	HealthIssues []string `json:"health_issues,omitempty"`
	GroupScope   string   `json:"group_scope,omitempty"`
}

func (r Record) validate() error {
	if r.HouseholdID == "" {
		return fmt.Errorf("archive: record missing household_id")
	}
	if r.DisplayName == "" {
		return fmt.Errorf("archive: record missing display_name")
	}
	return nil
}

// decode parses an archive file into its records.
func decode(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("archive: decode: %w", err)
	}
	return records, nil
}

// patch converts a record into the store patch for an ancestor upsert.
func (r Record) patch() models.PersonPatch {
	kind := models.KindAncestor
	scope := r.GroupScope
	if scope == "" {
		scope = r.HouseholdID
	}
	return models.PersonPatch{
		Kind:        &kind,
		DisplayName: &r.DisplayName,
		FullName:    &r.FullName,
		BirthDate:   &r.BirthDate,
		RoleTag:     &r.Role,
		FatherID:    &r.FatherID,
		MotherID:    &r.MotherID,
		SpouseID:    &r.SpouseID,
		GroupScope:  &scope,
		HealthIssues: func() *[]string {
			if r.HealthIssues == nil {
				return nil
			}
			return &r.HealthIssues
		}(),
	}
}
