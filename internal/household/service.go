// Package household implements the lifecycle state machine for creating
// households, deciding join requests, linking relatives, and archiving.
// It is the single write path for membership and edge assignment: exactly
// one writer role (the owner) may mutate those, and every mutation is a
// field-level upsert so concurrent observers converge.
package household

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/hearthhq/hearth/internal/apperr"
	"github.com/hearthhq/hearth/internal/models"
	"github.com/hearthhq/hearth/internal/sse"
	"github.com/hearthhq/hearth/internal/store"
)

// Profile is the minimal person profile supplied at creation time.
type Profile struct {
	DisplayName string   `json:"display_name"`
	FullName    string   `json:"full_name"`
	BirthDate   string   `json:"birth_date"`
	Role        string   `json:"role"`
	Profession  string   `json:"profession,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	Health      []string `json:"health_issues,omitempty"`
}

// Validate rejects a profile missing its name or birth marker. Creation
// refuses to write a root node with placeholder data, so this runs before
// any store access.
func (p Profile) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.DisplayName, validation.Required),
		validation.Field(&p.BirthDate, validation.Required),
		validation.Field(&p.Role, validation.Required),
	)
}

// ParentEdges carries the optional parent links assigned at approval.
type ParentEdges struct {
	FatherID string `json:"father_id,omitempty"`
	MotherID string `json:"mother_id,omitempty"`
}

// Service coordinates household lifecycle operations over the store and
// publishes change events to the SSE broker.
type Service struct {
	db     store.Store
	broker *sse.Broker
	newID  func() string
}

// NewService creates a household service.
func NewService(db store.Store, broker *sse.Broker) *Service {
	return &Service{db: db, broker: broker, newID: func() string { return uuid.NewString() }}
}

func (s *Service) publish(kind, householdID string) {
	if s.broker != nil {
		s.broker.PublishHouseholdEvent(kind, householdID)
	}
}

// loadActive fetches a household and rejects mutations while archived.
func (s *Service) loadActive(id string) (*models.Household, error) {
	h, err := s.db.GetHousehold(id)
	if err != nil {
		return nil, err
	}
	if h.Archived() {
		return nil, apperr.ErrArchived
	}
	return h, nil
}

// Create founds a household. The founder becomes the owner and its first
// member; an incomplete founder profile fails before any write occurs.
func (s *Service) Create(_ context.Context, founderID, name string, founder Profile) (*models.Household, error) {
	if founderID == "" || name == "" {
		return nil, fmt.Errorf("%w: founder id and name are required", apperr.ErrIncompleteProfile)
	}
	if err := founder.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrIncompleteProfile, err)
	}

	h := models.Household{ID: s.newID(), OwnerID: founderID, Name: name}
	owner := models.Person{
		ID:           founderID,
		Kind:         models.KindMember,
		DisplayName:  founder.DisplayName,
		FullName:     founder.FullName,
		BirthDate:    founder.BirthDate,
		RoleTag:      founder.Role,
		Profession:   founder.Profession,
		Bio:          founder.Bio,
		HealthIssues: founder.Health,
	}
	if err := s.db.CreateHousehold(h, owner); err != nil {
		return nil, err
	}

	slog.Info("household created",
		slog.String("household_id", h.ID),
		slog.String("owner_id", founderID))
	s.publish("household.created", h.ID)
	return s.db.GetHousehold(h.ID)
}

// Get returns a household snapshot. Archived households stay readable.
func (s *Service) Get(_ context.Context, id string) (*models.Household, error) {
	return s.db.GetHousehold(id)
}

// RequestJoin appends the requester to the join queue. Re-requesting
// while pending is an idempotent no-op; requesting while already a member
// is a conflict.
func (s *Service) RequestJoin(_ context.Context, requesterID, householdID string) error {
	h, err := s.loadActive(householdID)
	if err != nil {
		return err
	}
	if h.IsMember(requesterID) {
		return apperr.ErrAlreadyExists
	}
	if h.HasPendingRequest(requesterID) {
		return nil
	}
	if err := s.db.AppendJoinRequest(householdID, requesterID); err != nil {
		return err
	}
	s.publish("household.updated", householdID)
	return nil
}

// ApproveJoin is owner-only. It moves the requester from the queue to the
// member set and creates the member person with the assigned role and
// optional parent edges; no other normal path assigns parent edges to a
// new member. A request already resolved by a concurrent decision
// yields ErrAlreadyResolved, not a duplicate member.
func (s *Service) ApproveJoin(ctx context.Context, callerID, householdID, requesterID, role string, edges ParentEdges) (*models.Person, error) {
	h, err := s.loadActive(householdID)
	if err != nil {
		return nil, err
	}
	if h.OwnerID != callerID {
		return nil, apperr.ErrUnauthorized
	}

	moved, err := s.db.ResolveJoinRequest(householdID, requesterID, true)
	if err != nil {
		return nil, err
	}
	if !moved {
		// The household exists but the queue row is gone: either the
		// request was decided concurrently or it was never made. Both
		// resolve to the same typed outcome.
		return nil, apperr.ErrAlreadyResolved
	}

	kind := models.KindMember
	patch := models.PersonPatch{
		Kind:    &kind,
		RoleTag: &role,
	}
	if edges.FatherID != "" {
		patch.FatherID = &edges.FatherID
	}
	if edges.MotherID != "" {
		patch.MotherID = &edges.MotherID
	}
	// A brand-new member starts with the placeholder name; the
	// reconciler fills it in from the account directory. An existing
	// record keeps whatever name it already resolved.
	if _, err := s.db.GetPerson(householdID, requesterID); err != nil {
		placeholder := models.PlaceholderName
		patch.DisplayName = &placeholder
	}

	p, err := s.db.PutPerson(householdID, requesterID, patch)
	if err != nil {
		return nil, err
	}

	slog.Info("join approved",
		slog.String("household_id", householdID),
		slog.String("requester_id", requesterID),
		slog.String("role", role))
	s.publish("household.updated", householdID)
	return p, nil
}

// RejectJoin is owner-only; rejecting an already-resolved request is a
// typed outcome, not a crash.
func (s *Service) RejectJoin(_ context.Context, callerID, householdID, requesterID string) error {
	h, err := s.loadActive(householdID)
	if err != nil {
		return err
	}
	if h.OwnerID != callerID {
		return apperr.ErrUnauthorized
	}
	removed, err := s.db.ResolveJoinRequest(householdID, requesterID, false)
	if err != nil {
		return err
	}
	if !removed {
		return apperr.ErrAlreadyResolved
	}
	s.publish("household.updated", householdID)
	return nil
}

// Archive soft-deletes the household. Members keep read access; every
// mutating operation is rejected until restore.
func (s *Service) Archive(_ context.Context, callerID, householdID string) error {
	h, err := s.db.GetHousehold(householdID)
	if err != nil {
		return err
	}
	if h.OwnerID != callerID {
		return apperr.ErrUnauthorized
	}
	if err := s.db.SetArchived(householdID, true); err != nil {
		return err
	}
	s.publish("household.archived", householdID)
	return nil
}

// Restore clears the soft-delete marker.
func (s *Service) Restore(_ context.Context, callerID, householdID string) error {
	h, err := s.db.GetHousehold(householdID)
	if err != nil {
		return err
	}
	if h.OwnerID != callerID {
		return apperr.ErrUnauthorized
	}
	if err := s.db.SetArchived(householdID, false); err != nil {
		return err
	}
	s.publish("household.restored", householdID)
	return nil
}

// CreateAncestor adds a historical (no-account) node to extend the tree
// beyond living members. Owner-only; the id is generated.
func (s *Service) CreateAncestor(_ context.Context, callerID, householdID string, profile Profile, edges ParentEdges) (*models.Person, error) {
	h, err := s.loadActive(householdID)
	if err != nil {
		return nil, err
	}
	if h.OwnerID != callerID {
		return nil, apperr.ErrUnauthorized
	}
	if profile.DisplayName == "" {
		return nil, fmt.Errorf("%w: display name is required", apperr.ErrIncompleteProfile)
	}

	kind := models.KindAncestor
	patch := models.PersonPatch{
		Kind:        &kind,
		DisplayName: &profile.DisplayName,
		FullName:    &profile.FullName,
		BirthDate:   &profile.BirthDate,
		RoleTag:     &profile.Role,
		GroupScope:  &householdID,
	}
	if profile.Health != nil {
		patch.HealthIssues = &profile.Health
	}
	if edges.FatherID != "" {
		patch.FatherID = &edges.FatherID
	}
	if edges.MotherID != "" {
		patch.MotherID = &edges.MotherID
	}

	p, err := s.db.PutPerson(householdID, "anc-"+s.newID(), patch)
	if err != nil {
		return nil, err
	}
	s.publish("person.created", householdID)
	return p, nil
}

// UpdateProfile applies a partial person update under the shared-resource
// policy: members edit only their own non-edge fields; the owner may edit
// anyone and is the only caller allowed to touch edges and roles.
func (s *Service) UpdateProfile(_ context.Context, callerID, householdID, personID string, patch models.PersonPatch) (*models.Person, error) {
	h, err := s.loadActive(householdID)
	if err != nil {
		return nil, err
	}
	isOwner := h.OwnerID == callerID
	touchesEdges := patch.FatherID != nil || patch.MotherID != nil ||
		patch.SpouseID != nil || patch.RoleTag != nil || patch.Kind != nil
	if !isOwner {
		if callerID != personID || touchesEdges {
			return nil, apperr.ErrUnauthorized
		}
	}

	p, err := s.db.PutPerson(householdID, personID, patch)
	if err != nil {
		return nil, err
	}
	s.publish("person.updated", householdID)
	return p, nil
}

// LinkSpouses records a symmetric spouse pairing. Owner-only.
func (s *Service) LinkSpouses(_ context.Context, callerID, householdID, aID, bID string) error {
	h, err := s.loadActive(householdID)
	if err != nil {
		return err
	}
	if h.OwnerID != callerID {
		return apperr.ErrUnauthorized
	}
	if aID == bID {
		return apperr.ErrConflict
	}
	if err := s.db.LinkSpouses(householdID, aID, bID); err != nil {
		return err
	}
	s.publish("person.updated", householdID)
	return nil
}

// Members lists the household's account-backed members.
func (s *Service) Members(_ context.Context, householdID string) ([]models.Person, error) {
	if _, err := s.db.GetHousehold(householdID); err != nil {
		return nil, err
	}
	return s.db.ListMembers(householdID)
}

// Ancestors lists the historical records in the household's group scope.
func (s *Service) Ancestors(_ context.Context, householdID string) ([]models.Person, error) {
	if _, err := s.db.GetHousehold(householdID); err != nil {
		return nil, err
	}
	return s.db.ListAncestors(householdID)
}
