// Package store provides the SQLite-backed person and household store.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hearthhq/hearth/internal/models"
	"github.com/hearthhq/hearth/internal/overview"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS households (
	id         TEXT PRIMARY KEY,
	owner_id   TEXT NOT NULL,
	name       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	deleted_at DATETIME
);

CREATE TABLE IF NOT EXISTS household_members (
	household_id TEXT NOT NULL,
	person_id    TEXT NOT NULL,
	added_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(household_id, person_id)
);

CREATE TABLE IF NOT EXISTS join_requests (
	household_id TEXT NOT NULL,
	requester_id TEXT NOT NULL,
	requested_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(household_id, requester_id)
);

CREATE TABLE IF NOT EXISTS persons (
	id            TEXT NOT NULL,
	household_id  TEXT NOT NULL,
	kind          TEXT NOT NULL DEFAULT 'member',
	display_name  TEXT NOT NULL DEFAULT '',
	full_name     TEXT NOT NULL DEFAULT '',
	birth_date    TEXT NOT NULL DEFAULT '',
	role          TEXT NOT NULL DEFAULT '',
	father_id     TEXT NOT NULL DEFAULT '',
	mother_id     TEXT NOT NULL DEFAULT '',
	spouse_id     TEXT NOT NULL DEFAULT '',
	profession    TEXT NOT NULL DEFAULT '',
	bio           TEXT NOT NULL DEFAULT '',
	health_issues TEXT NOT NULL DEFAULT '[]',
	group_scope   TEXT NOT NULL DEFAULT '',
	updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY(household_id, id)
);

CREATE INDEX IF NOT EXISTS idx_persons_scope ON persons(group_scope);

CREATE TABLE IF NOT EXISTS insights (
	id           TEXT PRIMARY KEY,
	household_id TEXT NOT NULL,
	content      TEXT NOT NULL,
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS finance_entries (
	household_id TEXT NOT NULL,
	person_id    TEXT NOT NULL,
	entry_date   TEXT NOT NULL,
	kind         TEXT NOT NULL,
	amount       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_finance_date ON finance_entries(household_id, entry_date);

CREATE TABLE IF NOT EXISTS meal_entries (
	household_id TEXT NOT NULL,
	person_id    TEXT NOT NULL,
	entry_date   TEXT NOT NULL,
	name         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS task_entries (
	household_id TEXT NOT NULL,
	person_id    TEXT NOT NULL,
	entry_date   TEXT NOT NULL,
	title        TEXT NOT NULL,
	done         INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS mood_entries (
	household_id TEXT NOT NULL,
	person_id    TEXT NOT NULL,
	entry_date   TEXT NOT NULL,
	score        INTEGER NOT NULL
);
`

// Store defines the persistence operations the rest of the system depends
// on. Consumers should depend on this interface rather than the concrete
// *DB type to facilitate testing with mocks.
type Store interface {
	GetPerson(householdID, personID string) (*models.Person, error)
	PutPerson(householdID, personID string, patch models.PersonPatch) (*models.Person, error)
	ListMembers(householdID string) ([]models.Person, error)
	ListAncestors(scope string) ([]models.Person, error)
	LinkSpouses(householdID, aID, bID string) error

	CreateHousehold(h models.Household, owner models.Person) error
	GetHousehold(id string) (*models.Household, error)
	ListHouseholdIDs() ([]string, error)
	AppendJoinRequest(householdID, requesterID string) error
	ResolveJoinRequest(householdID, requesterID string, approved bool) (bool, error)
	SetArchived(householdID string, archived bool) error

	SaveInsight(householdID, id, content string) error
	ListInsights(householdID string, limit int) ([]Insight, error)

	ArchiveChecksums() (map[string]string, error)
	SetArchiveChecksum(path, cs string) error
	ForgetArchiveFile(path string) error

	AddFinanceEntry(householdID, personID, date, kind, amount string) error
	AddMealEntry(householdID, personID, date, name string) error
	AddTaskEntry(householdID, personID, date, title string, done bool) error
	AddMoodEntry(householdID, personID, date string, score int) error
	DayOverview(householdID, date string) (*overview.Summary, error)

	Watch(householdID string) chan Snapshot
	Unwatch(householdID string, ch chan Snapshot)
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)

// DB wraps a sql.DB with household-store operations and a snapshot watch
// hub that pushes the full current state on every change.
type DB struct {
	conn *sql.DB
	hub  *hub
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	if _, err := conn.Exec(archiveSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply archive schema: %w", err)
	}
	db := &DB{conn: conn}
	db.hub = newHub(db.snapshot)
	return db, nil
}

// Close stops the watch hub and closes the database connection.
func (db *DB) Close() error {
	db.hub.close()
	return db.conn.Close()
}
