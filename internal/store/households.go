package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hearthhq/hearth/internal/apperr"
	"github.com/hearthhq/hearth/internal/models"
)

// CreateHousehold inserts a household together with its founding owner
// person and the owner membership row in one transaction, so the
// owner-is-always-a-member invariant holds from the first read.
func (db *DB) CreateHousehold(h models.Household, owner models.Person) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	res, err := tx.Exec(`INSERT OR IGNORE INTO households (id, owner_id, name, created_at) VALUES (?, ?, ?, ?)`,
		h.ID, h.OwnerID, h.Name, now)
	if err != nil {
		return fmt.Errorf("store: insert household: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrAlreadyExists
	}

	issuesJSON, _ := json.Marshal(owner.HealthIssues)
	_, err = tx.Exec(`
		INSERT INTO persons (id, household_id, kind, display_name, full_name, birth_date, role,
			father_id, mother_id, spouse_id, profession, bio, health_issues, group_scope, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, owner.ID, h.ID, models.KindMember, owner.DisplayName, owner.FullName, owner.BirthDate,
		owner.RoleTag, owner.FatherID, owner.MotherID, owner.SpouseID, owner.Profession,
		owner.Bio, string(issuesJSON), owner.GroupScope, now)
	if err != nil {
		return fmt.Errorf("store: insert owner: %w", err)
	}

	if _, err := tx.Exec(`INSERT INTO household_members (household_id, person_id, added_at) VALUES (?, ?, ?)`,
		h.ID, h.OwnerID, now); err != nil {
		return fmt.Errorf("store: insert owner membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}

	db.hub.notify(h.ID)
	return nil
}

// GetHousehold returns a household with its member set and the ordered
// join-request queue.
func (db *DB) GetHousehold(id string) (*models.Household, error) {
	var h models.Household
	var deletedAt sql.NullTime
	err := db.conn.QueryRow(`SELECT id, owner_id, name, created_at, deleted_at FROM households WHERE id = ?`, id).
		Scan(&h.ID, &h.OwnerID, &h.Name, &h.CreatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get household: %w", err)
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		h.DeletedAt = &t
	}

	h.MemberIDs, err = db.collectIDs(`SELECT person_id FROM household_members WHERE household_id = ? ORDER BY added_at, rowid`, id)
	if err != nil {
		return nil, err
	}
	h.JoinRequests, err = db.collectIDs(`SELECT requester_id FROM join_requests WHERE household_id = ? ORDER BY requested_at, rowid`, id)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (db *DB) collectIDs(query string, args ...any) ([]string, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: collect ids: %w", err)
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// AppendJoinRequest appends a requester to the join queue. Re-requesting
// while already pending is a no-op thanks to INSERT OR IGNORE.
func (db *DB) AppendJoinRequest(householdID, requesterID string) error {
	_, err := db.conn.Exec(`INSERT OR IGNORE INTO join_requests (household_id, requester_id, requested_at) VALUES (?, ?, ?)`,
		householdID, requesterID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("store: append join request: %w", err)
	}
	db.hub.notify(householdID)
	return nil
}

// ResolveJoinRequest removes a pending request using compare-and-delete
// semantics: the returned bool is false when the request was already
// resolved by a concurrent decision (zero rows deleted). On approval the
// requester is added to the member set in the same transaction.
func (db *DB) ResolveJoinRequest(householdID, requesterID string, approved bool) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.Exec(`DELETE FROM join_requests WHERE household_id = ? AND requester_id = ?`,
		householdID, requesterID)
	if err != nil {
		return false, fmt.Errorf("store: delete join request: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return false, tx.Commit()
	}

	if approved {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO household_members (household_id, person_id, added_at) VALUES (?, ?, ?)`,
			householdID, requesterID, time.Now().UTC()); err != nil {
			return false, fmt.Errorf("store: add member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("store: commit: %w", err)
	}

	db.hub.notify(householdID)
	return true, nil
}

// ListHouseholdIDs returns the ids of all active households.
func (db *DB) ListHouseholdIDs() ([]string, error) {
	return db.collectIDs(`SELECT id FROM households WHERE deleted_at IS NULL ORDER BY created_at, rowid`)
}

// SetArchived toggles the soft-delete marker.
func (db *DB) SetArchived(householdID string, archived bool) error {
	var res sql.Result
	var err error
	if archived {
		res, err = db.conn.Exec(`UPDATE households SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
			time.Now().UTC(), householdID)
	} else {
		res, err = db.conn.Exec(`UPDATE households SET deleted_at = NULL WHERE id = ?`, householdID)
	}
	if err != nil {
		return fmt.Errorf("store: set archived: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 && archived {
		// Either missing or already archived; distinguish for callers.
		if _, getErr := db.GetHousehold(householdID); getErr != nil {
			return getErr
		}
	}
	db.hub.notify(householdID)
	return nil
}

// Insight is one stored narrative-insight record. Content is opaque to
// the core; it is whatever the external generator returned.
type Insight struct {
	ID          string    `json:"id"`
	HouseholdID string    `json:"household_id"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// SaveInsight stores generated narrative text verbatim.
func (db *DB) SaveInsight(householdID, id, content string) error {
	_, err := db.conn.Exec(`INSERT INTO insights (id, household_id, content, created_at) VALUES (?, ?, ?, ?)`,
		id, householdID, content, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("store: save insight: %w", err)
	}
	return nil
}

// ListInsights returns the newest insights first.
func (db *DB) ListInsights(householdID string, limit int) ([]Insight, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := db.conn.Query(`SELECT id, household_id, content, created_at FROM insights
		WHERE household_id = ? ORDER BY created_at DESC LIMIT ?`, householdID, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list insights: %w", err)
	}
	defer rows.Close()
	out := []Insight{}
	for rows.Next() {
		var in Insight
		if err := rows.Scan(&in.ID, &in.HouseholdID, &in.Content, &in.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}
