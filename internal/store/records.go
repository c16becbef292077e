package store

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hearthhq/hearth/internal/apperr"
)

// Finance entry kinds.
const (
	FinanceIncome  = "income"
	FinanceExpense = "expense"
)

// AddFinanceEntry records one income or expense amount for a day. The
// amount is kept as its exact decimal string.
func (db *DB) AddFinanceEntry(householdID, personID, date, kind, amount string) error {
	if kind != FinanceIncome && kind != FinanceExpense {
		return fmt.Errorf("%w: finance kind %q", apperr.ErrConflict, kind)
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("%w: amount %q", apperr.ErrConflict, amount)
	}
	_, err = db.conn.Exec(`INSERT INTO finance_entries (household_id, person_id, entry_date, kind, amount) VALUES (?, ?, ?, ?, ?)`,
		householdID, personID, date, kind, d.String())
	if err != nil {
		return fmt.Errorf("store: add finance entry: %w", err)
	}
	return nil
}

// AddMealEntry records a planned or eaten meal for a day.
func (db *DB) AddMealEntry(householdID, personID, date, name string) error {
	_, err := db.conn.Exec(`INSERT INTO meal_entries (household_id, person_id, entry_date, name) VALUES (?, ?, ?, ?)`,
		householdID, personID, date, name)
	if err != nil {
		return fmt.Errorf("store: add meal entry: %w", err)
	}
	return nil
}

// AddTaskEntry records a task for a day.
func (db *DB) AddTaskEntry(householdID, personID, date, title string, done bool) error {
	doneInt := 0
	if done {
		doneInt = 1
	}
	_, err := db.conn.Exec(`INSERT INTO task_entries (household_id, person_id, entry_date, title, done) VALUES (?, ?, ?, ?, ?)`,
		householdID, personID, date, title, doneInt)
	if err != nil {
		return fmt.Errorf("store: add task entry: %w", err)
	}
	return nil
}

// AddMoodEntry records a mood score (1-10) for a day.
func (db *DB) AddMoodEntry(householdID, personID, date string, score int) error {
	if score < 1 || score > 10 {
		return fmt.Errorf("%w: mood score %d", apperr.ErrConflict, score)
	}
	_, err := db.conn.Exec(`INSERT INTO mood_entries (household_id, person_id, entry_date, score) VALUES (?, ?, ?, ?)`,
		householdID, personID, date, score)
	if err != nil {
		return fmt.Errorf("store: add mood entry: %w", err)
	}
	return nil
}
