// Package overview defines the read-only aggregate summaries the core
// displays from the per-module record stores (finance, meals, tasks,
// mood). The record stores themselves are external collaborators; only
// their numeric daily summaries cross this boundary.
package overview

import "github.com/shopspring/decimal"

// FinanceSummary is the day's money picture.
type FinanceSummary struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// TaskSummary is the day's task completion picture.
type TaskSummary struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

// Summary aggregates one day of household activity.
type Summary struct {
	Date      string         `json:"date"`
	Finance   FinanceSummary `json:"finance"`
	Meals     int            `json:"meals"`
	Tasks     TaskSummary    `json:"tasks"`
	MoodAvg   float64        `json:"mood_avg"`
	MoodCount int            `json:"mood_count"`
}

// Reader is the aggregate-summary contract the API and the insight
// context builder depend on.
type Reader interface {
	DayOverview(householdID, date string) (*Summary, error)
}
