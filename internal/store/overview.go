package store

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hearthhq/hearth/internal/overview"
)

// DayOverview aggregates one day of record-store activity into the
// numeric summary the UI and insight context consume. Amounts are summed
// as decimals; the entry tables store them as exact strings.
func (db *DB) DayOverview(householdID, date string) (*overview.Summary, error) {
	sum := &overview.Summary{Date: date}

	rows, err := db.conn.Query(`SELECT kind, amount FROM finance_entries WHERE household_id = ? AND entry_date = ?`,
		householdID, date)
	if err != nil {
		return nil, fmt.Errorf("store: finance overview: %w", err)
	}
	for rows.Next() {
		var kind, amount string
		if err := rows.Scan(&kind, &amount); err != nil {
			rows.Close()
			return nil, err
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			continue
		}
		switch kind {
		case "income":
			sum.Finance.Income = sum.Finance.Income.Add(d)
		case "expense":
			sum.Finance.Expenses = sum.Finance.Expenses.Add(d)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sum.Finance.Net = sum.Finance.Income.Sub(sum.Finance.Expenses)

	if err := db.conn.QueryRow(`SELECT COUNT(1) FROM meal_entries WHERE household_id = ? AND entry_date = ?`,
		householdID, date).Scan(&sum.Meals); err != nil {
		return nil, fmt.Errorf("store: meal overview: %w", err)
	}

	if err := db.conn.QueryRow(`SELECT COUNT(1), COALESCE(SUM(done), 0) FROM task_entries WHERE household_id = ? AND entry_date = ?`,
		householdID, date).Scan(&sum.Tasks.Total, &sum.Tasks.Done); err != nil {
		return nil, fmt.Errorf("store: task overview: %w", err)
	}

	if err := db.conn.QueryRow(`SELECT COUNT(1), COALESCE(AVG(score), 0) FROM mood_entries WHERE household_id = ? AND entry_date = ?`,
		householdID, date).Scan(&sum.MoodCount, &sum.MoodAvg); err != nil {
		return nil, fmt.Errorf("store: mood overview: %w", err)
	}

	return sum, nil
}
