package session

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skillswap/skillswap/internal/domain/apperr"
)

// Status represents the lifecycle state of a skill-exchange session.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
	StatusRejected  Status = "rejected"

	// statusAcceptedLegacy is an older spelling of active still found in stored rows.
	statusAcceptedLegacy Status = "accepted"
)

// ErrVersionConflict is returned by repositories when a compare-and-swap
// write finds that the stored version moved on.
var ErrVersionConflict = errors.New("version conflict")

// ParseStatus normalizes a stored or requested status value.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if st == statusAcceptedLegacy {
		return StatusActive, nil
	}
	switch st {
	case StatusPending, StatusActive, StatusCompleted, StatusCanceled, StatusRejected:
		return st, nil
	}
	return "", apperr.Validation("unknown session status %q", s)
}

// Terms are the negotiable parts of a session.
type Terms struct {
	SkillOffered1   uuid.UUID `json:"skillOffered1"`
	SkillOffered2   uuid.UUID `json:"skillOffered2"`
	Description1    string    `json:"description1"`
	Description2    string    `json:"description2"`
	StartDate       time.Time `json:"startDate"`
	ExpectedEndDate time.Time `json:"expectedEndDate"`
}

// Normalize trims descriptions and moves dates to UTC.
func (t Terms) Normalize() Terms {
	t.Description1 = strings.TrimSpace(t.Description1)
	t.Description2 = strings.TrimSpace(t.Description2)
	t.StartDate = t.StartDate.UTC()
	t.ExpectedEndDate = t.ExpectedEndDate.UTC()
	return t
}

func (t Terms) Validate() error {
	if t.SkillOffered1 == uuid.Nil || t.SkillOffered2 == uuid.Nil {
		return apperr.Validation("both offered skills are required")
	}
	if t.StartDate.IsZero() || t.ExpectedEndDate.IsZero() {
		return apperr.Validation("start date and expected end date are required")
	}
	if !t.ExpectedEndDate.After(t.StartDate) {
		return apperr.Validation("expected end date must be after start date")
	}
	return nil
}

// Equal reports whether every negotiable field matches.
func (t Terms) Equal(o Terms) bool {
	return t.SkillOffered1 == o.SkillOffered1 &&
		t.SkillOffered2 == o.SkillOffered2 &&
		t.Description1 == o.Description1 &&
		t.Description2 == o.Description2 &&
		t.StartDate.Equal(o.StartDate) &&
		t.ExpectedEndDate.Equal(o.ExpectedEndDate)
}

// Session is a two-party skill exchange. User1 is always the proposer.
type Session struct {
	SessionID uuid.UUID `json:"sessionId"`
	User1ID   uuid.UUID `json:"user1Id"`
	User2ID   uuid.UUID `json:"user2Id"`
	Terms
	Status Status `json:"status"`

	RejectedBy *uuid.UUID `json:"rejectedBy,omitempty"`
	RejectedAt *time.Time `json:"rejectedAt,omitempty"`
	CanceledBy *uuid.UUID `json:"canceledBy,omitempty"`
	CanceledAt *time.Time `json:"canceledAt,omitempty"`

	CompletionRequestedBy     *uuid.UUID `json:"completionRequestedBy,omitempty"`
	CompletionRequestedAt     *time.Time `json:"completionRequestedAt,omitempty"`
	CompletionApprovedBy      *uuid.UUID `json:"completionApprovedBy,omitempty"`
	CompletionApprovedAt      *time.Time `json:"completionApprovedAt,omitempty"`
	CompletionRejectedBy      *uuid.UUID `json:"completionRejectedBy,omitempty"`
	CompletionRejectedAt      *time.Time `json:"completionRejectedAt,omitempty"`
	CompletionRejectionReason *string    `json:"completionRejectionReason,omitempty"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New builds a pending session proposed by proposer to counterpart.
func New(proposer, counterpart uuid.UUID, terms Terms, now time.Time) (*Session, error) {
	if proposer == uuid.Nil || counterpart == uuid.Nil {
		return nil, apperr.Validation("both parties are required")
	}
	if proposer == counterpart {
		return nil, apperr.Validation("cannot propose a session to yourself")
	}
	terms = terms.Normalize()
	if err := terms.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		SessionID: uuid.New(),
		User1ID:   proposer,
		User2ID:   counterpart,
		Terms:     terms,
		Status:    StatusPending,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *Session) IsParty(userID uuid.UUID) bool {
	return userID == s.User1ID || userID == s.User2ID
}

// Counterpart returns the other party of userID.
func (s *Session) Counterpart(userID uuid.UUID) uuid.UUID {
	if userID == s.User1ID {
		return s.User2ID
	}
	return s.User1ID
}

// SkillOfferedBy returns the skill the given party contributes.
func (s *Session) SkillOfferedBy(userID uuid.UUID) uuid.UUID {
	if userID == s.User1ID {
		return s.SkillOffered1
	}
	return s.SkillOffered2
}

func (s *Session) IsTerminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusCanceled || s.Status == StatusRejected
}

// CanTransitionTo checks if a transition to the target status is valid.
func (s *Session) CanTransitionTo(target Status) bool {
	transitions := map[Status][]Status{
		StatusPending:   {StatusActive, StatusRejected},
		StatusActive:    {StatusCompleted, StatusCanceled},
		StatusCompleted: {},
		StatusCanceled:  {},
		StatusRejected:  {},
	}
	for _, st := range transitions[s.Status] {
		if st == target {
			return true
		}
	}
	return false
}

func (s *Session) requireParty(userID uuid.UUID) error {
	if !s.IsParty(userID) {
		return apperr.Forbidden("user is not a party to this session")
	}
	return nil
}

func (s *Session) requireTransition(target Status, action string) error {
	if !s.CanTransitionTo(target) {
		return apperr.InvalidState("cannot %s a %s session", action, s.Status)
	}
	return nil
}

func (s *Session) touch(now time.Time) {
	s.UpdatedAt = now
}

// Accept moves a pending session to active. Only the non-proposing party may
// accept; a session that is no longer pending fails with InvalidState for
// either party.
func (s *Session) Accept(by uuid.UUID, now time.Time) error {
	if err := s.requireParty(by); err != nil {
		return err
	}
	if err := s.requireTransition(StatusActive, "accept"); err != nil {
		return err
	}
	if by != s.User2ID {
		return apperr.Forbidden("only the invited party can accept a session")
	}
	s.Status = StatusActive
	s.touch(now)
	return nil
}

// Reject closes a pending session. Only the non-proposing party may reject.
func (s *Session) Reject(by uuid.UUID, now time.Time) error {
	if err := s.requireParty(by); err != nil {
		return err
	}
	if err := s.requireTransition(StatusRejected, "reject"); err != nil {
		return err
	}
	if by != s.User2ID {
		return apperr.Forbidden("only the invited party can reject a session")
	}
	s.Status = StatusRejected
	s.RejectedBy = &by
	s.RejectedAt = &now
	s.touch(now)
	return nil
}

// Cancel closes an active session on behalf of either party.
func (s *Session) Cancel(by uuid.UUID, now time.Time) error {
	if err := s.requireParty(by); err != nil {
		return err
	}
	if err := s.requireTransition(StatusCanceled, "cancel"); err != nil {
		return err
	}
	s.Status = StatusCanceled
	s.CanceledBy = &by
	s.CanceledAt = &now
	s.touch(now)
	return nil
}

// ApplyTerms replaces the terms of a pending session and activates it.
func (s *Session) ApplyTerms(terms Terms, now time.Time) error {
	if err := s.requireTransition(StatusActive, "apply a counter-offer to"); err != nil {
		return err
	}
	s.Terms = terms
	s.Status = StatusActive
	s.touch(now)
	return nil
}

// CompletionOutstanding reports whether a completion request awaits a response.
func (s *Session) CompletionOutstanding() bool {
	return s.CompletionRequestedBy != nil && s.CompletionRejectedBy == nil && s.CompletionApprovedBy == nil
}

// RequestCompletion opens the completion handshake. A fresh request clears
// the previous rejection marker.
func (s *Session) RequestCompletion(by uuid.UUID, now time.Time) error {
	if err := s.requireParty(by); err != nil {
		return err
	}
	if s.Status != StatusActive {
		return apperr.InvalidState("cannot request completion of a %s session", s.Status)
	}
	if s.CompletionOutstanding() {
		if *s.CompletionRequestedBy == by {
			return apperr.AlreadyRequested("completion already requested")
		}
		return apperr.AlreadyRequested("completion already requested by the other party; respond to it instead")
	}
	s.CompletionRequestedBy = &by
	s.CompletionRequestedAt = &now
	s.CompletionRejectedBy = nil
	s.CompletionRejectedAt = nil
	s.CompletionRejectionReason = nil
	s.touch(now)
	return nil
}

func (s *Session) requireRespondable(by uuid.UUID) error {
	if err := s.requireParty(by); err != nil {
		return err
	}
	if s.Status != StatusActive {
		return apperr.InvalidState("cannot respond to completion of a %s session", s.Status)
	}
	if !s.CompletionOutstanding() {
		return apperr.InvalidState("no completion request is outstanding")
	}
	if *s.CompletionRequestedBy == by {
		return apperr.Forbidden("cannot respond to your own completion request")
	}
	return nil
}

// ApproveCompletion completes the session. Terminal.
func (s *Session) ApproveCompletion(by uuid.UUID, now time.Time) error {
	if err := s.requireRespondable(by); err != nil {
		return err
	}
	s.CompletionApprovedBy = &by
	s.CompletionApprovedAt = &now
	s.Status = StatusCompleted
	s.touch(now)
	return nil
}

// RejectCompletion keeps the session active and records why.
func (s *Session) RejectCompletion(by uuid.UUID, reason string, now time.Time) error {
	if err := s.requireRespondable(by); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return apperr.Validation("a rejection reason is required")
	}
	s.CompletionRejectedBy = &by
	s.CompletionRejectedAt = &now
	s.CompletionRejectionReason = &reason
	s.touch(now)
	return nil
}
