package household

import (
	"context"

	"github.com/hearthhq/hearth/internal/apperr"
	"github.com/hearthhq/hearth/internal/models"
)

// Record-store writes follow the shared-resource policy: any member may
// append entries to the household's daily records, not just the owner.
// Entries are append-only; the overview aggregates them per day.

func (s *Service) recordTarget(householdID, callerID string) (*models.Household, error) {
	h, err := s.loadActive(householdID)
	if err != nil {
		return nil, err
	}
	if !h.IsMember(callerID) {
		return nil, apperr.ErrUnauthorized
	}
	return h, nil
}

// AddFinance appends an income or expense entry for a day.
func (s *Service) AddFinance(_ context.Context, callerID, householdID, date, kind, amount string) error {
	if _, err := s.recordTarget(householdID, callerID); err != nil {
		return err
	}
	if err := s.db.AddFinanceEntry(householdID, callerID, date, kind, amount); err != nil {
		return err
	}
	s.publish("records.updated", householdID)
	return nil
}

// AddMeal appends a meal entry for a day.
func (s *Service) AddMeal(_ context.Context, callerID, householdID, date, name string) error {
	if _, err := s.recordTarget(householdID, callerID); err != nil {
		return err
	}
	if err := s.db.AddMealEntry(householdID, callerID, date, name); err != nil {
		return err
	}
	s.publish("records.updated", householdID)
	return nil
}

// AddTask appends a task entry for a day.
func (s *Service) AddTask(_ context.Context, callerID, householdID, date, title string, done bool) error {
	if _, err := s.recordTarget(householdID, callerID); err != nil {
		return err
	}
	if err := s.db.AddTaskEntry(householdID, callerID, date, title, done); err != nil {
		return err
	}
	s.publish("records.updated", householdID)
	return nil
}

// AddMood appends a mood score for a day.
func (s *Service) AddMood(_ context.Context, callerID, householdID, date string, score int) error {
	if _, err := s.recordTarget(householdID, callerID); err != nil {
		return err
	}
	if err := s.db.AddMoodEntry(householdID, callerID, date, score); err != nil {
		return err
	}
	s.publish("records.updated", householdID)
	return nil
}
