package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hearthhq/hearth/internal/apperr"
	"github.com/hearthhq/hearth/internal/models"
)

const personCols = `id, household_id, kind, display_name, full_name, birth_date, role,
	father_id, mother_id, spouse_id, profession, bio, health_issues, group_scope, updated_at`

func scanPerson(row interface{ Scan(...any) error }) (*models.Person, error) {
	var p models.Person
	var issues string
	err := row.Scan(&p.ID, &p.HouseholdID, &p.Kind, &p.DisplayName, &p.FullName,
		&p.BirthDate, &p.RoleTag, &p.FatherID, &p.MotherID, &p.SpouseID,
		&p.Profession, &p.Bio, &issues, &p.GroupScope, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if issues != "" {
		_ = json.Unmarshal([]byte(issues), &p.HealthIssues)
	}
	return &p, nil
}

// GetPerson returns a person by id within a household.
func (db *DB) GetPerson(householdID, personID string) (*models.Person, error) {
	row := db.conn.QueryRow(`SELECT `+personCols+` FROM persons WHERE household_id = ? AND id = ?`,
		householdID, personID)
	p, err := scanPerson(row)
	if err == sql.ErrNoRows {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get person: %w", err)
	}
	return p, nil
}

// PutPerson creates or partially updates a person with merge semantics:
// nil patch fields are left untouched, present fields overwrite (last
// write wins per field). Edge targets are stored as-is; the graph
// assembler, not the store, flags dangling references.
func (db *DB) PutPerson(householdID, personID string, patch models.PersonPatch) (*models.Person, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	row := tx.QueryRow(`SELECT `+personCols+` FROM persons WHERE household_id = ? AND id = ?`,
		householdID, personID)
	p, err := scanPerson(row)
	switch {
	case err == sql.ErrNoRows:
		p = &models.Person{ID: personID, HouseholdID: householdID, Kind: models.KindMember}
	case err != nil:
		return nil, fmt.Errorf("store: read person: %w", err)
	}

	applyPatch(p, patch)
	p.UpdatedAt = time.Now().UTC()

	issuesJSON, _ := json.Marshal(p.HealthIssues)
	_, err = tx.Exec(`
		INSERT INTO persons (id, household_id, kind, display_name, full_name, birth_date, role,
			father_id, mother_id, spouse_id, profession, bio, health_issues, group_scope, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(household_id, id) DO UPDATE SET
			kind          = excluded.kind,
			display_name  = excluded.display_name,
			full_name     = excluded.full_name,
			birth_date    = excluded.birth_date,
			role          = excluded.role,
			father_id     = excluded.father_id,
			mother_id     = excluded.mother_id,
			spouse_id     = excluded.spouse_id,
			profession    = excluded.profession,
			bio           = excluded.bio,
			health_issues = excluded.health_issues,
			group_scope   = excluded.group_scope,
			updated_at    = excluded.updated_at
	`, p.ID, p.HouseholdID, p.Kind, p.DisplayName, p.FullName, p.BirthDate, p.RoleTag,
		p.FatherID, p.MotherID, p.SpouseID, p.Profession, p.Bio, string(issuesJSON),
		p.GroupScope, p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("store: upsert person: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: commit: %w", err)
	}

	db.hub.notify(householdID)
	return p, nil
}

func applyPatch(p *models.Person, patch models.PersonPatch) {
	if patch.Kind != nil {
		p.Kind = *patch.Kind
	}
	if patch.DisplayName != nil {
		p.DisplayName = *patch.DisplayName
	}
	if patch.FullName != nil {
		p.FullName = *patch.FullName
	}
	if patch.BirthDate != nil {
		p.BirthDate = *patch.BirthDate
	}
	if patch.RoleTag != nil {
		p.RoleTag = *patch.RoleTag
	}
	if patch.FatherID != nil {
		p.FatherID = *patch.FatherID
	}
	if patch.MotherID != nil {
		p.MotherID = *patch.MotherID
	}
	if patch.SpouseID != nil {
		p.SpouseID = *patch.SpouseID
	}
	if patch.Profession != nil {
		p.Profession = *patch.Profession
	}
	if patch.Bio != nil {
		p.Bio = *patch.Bio
	}
	if patch.HealthIssues != nil {
		p.HealthIssues = *patch.HealthIssues
	}
	if patch.GroupScope != nil {
		p.GroupScope = *patch.GroupScope
	}
}

// ListMembers returns the account-backed members of a household.
func (db *DB) ListMembers(householdID string) ([]models.Person, error) {
	rows, err := db.conn.Query(`
		SELECT `+personCols+` FROM persons
		WHERE household_id = ? AND kind = ?
		ORDER BY updated_at, id
	`, householdID, models.KindMember)
	if err != nil {
		return nil, fmt.Errorf("store: list members: %w", err)
	}
	return collectPersons(rows)
}

// ListAncestors returns the historical ancestor records for a group scope.
// The scope defaults to the household id but may span several households
// that share a bloodline.
func (db *DB) ListAncestors(scope string) ([]models.Person, error) {
	rows, err := db.conn.Query(`
		SELECT `+personCols+` FROM persons
		WHERE kind = ? AND (group_scope = ? OR (group_scope = '' AND household_id = ?))
		ORDER BY updated_at, id
	`, models.KindAncestor, scope, scope)
	if err != nil {
		return nil, fmt.Errorf("store: list ancestors: %w", err)
	}
	return collectPersons(rows)
}

func collectPersons(rows *sql.Rows) ([]models.Person, error) {
	defer rows.Close()
	out := []models.Person{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// LinkSpouses records a symmetric spouse pairing between two persons in
// one transaction. Any previous spouse of either partner has its stale
// back-pointer cleared so the pairing stays 1:1.
func (db *DB) LinkSpouses(householdID, aID, bID string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	for _, id := range []string{aID, bID} {
		var exists int
		if err := tx.QueryRow(`SELECT COUNT(1) FROM persons WHERE household_id = ? AND id = ?`,
			householdID, id).Scan(&exists); err != nil || exists == 0 {
			return apperr.ErrNotFound
		}
	}

	// Clear stale back-pointers from previous pairings.
	if _, err := tx.Exec(`
		UPDATE persons SET spouse_id = '', updated_at = ?
		WHERE household_id = ? AND spouse_id IN (?, ?) AND id NOT IN (?, ?)
	`, now, householdID, aID, bID, aID, bID); err != nil {
		return fmt.Errorf("store: clear stale spouse links: %w", err)
	}

	if _, err := tx.Exec(`UPDATE persons SET spouse_id = ?, updated_at = ? WHERE household_id = ? AND id = ?`,
		bID, now, householdID, aID); err != nil {
		return fmt.Errorf("store: link spouse: %w", err)
	}
	if _, err := tx.Exec(`UPDATE persons SET spouse_id = ?, updated_at = ? WHERE household_id = ? AND id = ?`,
		aID, now, householdID, bID); err != nil {
		return fmt.Errorf("store: link spouse: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}

	db.hub.notify(householdID)
	return nil
}
