package session

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skillswap/skillswap/internal/domain/apperr"
)

// CounterOfferStatus represents the state of a counter-offer.
type CounterOfferStatus string

const (
	CounterOfferPending    CounterOfferStatus = "pending"
	CounterOfferAccepted   CounterOfferStatus = "accepted"
	CounterOfferRejected   CounterOfferStatus = "rejected"
	CounterOfferSuperseded CounterOfferStatus = "superseded"
)

// CounterOffer proposes replacement terms for a pending session.
type CounterOffer struct {
	CounterOfferID    uuid.UUID          `json:"counterOfferId"`
	OriginalSessionID uuid.UUID          `json:"originalSessionId"`
	CounterOfferedBy  uuid.UUID          `json:"counterOfferedBy"`
	Message           string             `json:"counterOfferMessage"`
	Terms             Terms              `json:"terms"`
	Status            CounterOfferStatus `json:"status"`
	ResolvedBy        *uuid.UUID         `json:"resolvedBy,omitempty"`
	ResolvedAt        *time.Time         `json:"resolvedAt,omitempty"`
	Version           int64              `json:"version"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// NewCounterOffer validates a counter-offer against its origin session.
func NewCounterOffer(origin *Session, by uuid.UUID, message string, terms Terms, now time.Time) (*CounterOffer, error) {
	if !origin.IsParty(by) {
		return nil, apperr.Forbidden("user is not a party to this session")
	}
	if origin.Status != StatusPending {
		return nil, apperr.InvalidState("cannot counter a %s session", origin.Status)
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperr.Validation("counter-offer message is required")
	}
	terms = terms.Normalize()
	if err := terms.Validate(); err != nil {
		return nil, err
	}
	if terms.Equal(origin.Terms) {
		return nil, apperr.DuplicateOffer("counter-offer must change at least one term")
	}
	return &CounterOffer{
		CounterOfferID:    uuid.New(),
		OriginalSessionID: origin.SessionID,
		CounterOfferedBy:  by,
		Message:           message,
		Terms:             terms,
		Status:            CounterOfferPending,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// CheckResolvable verifies that by may resolve the offer against origin.
func (c *CounterOffer) CheckResolvable(origin *Session, by uuid.UUID) error {
	if !origin.IsParty(by) {
		return apperr.Forbidden("user is not a party to this session")
	}
	if by == c.CounterOfferedBy {
		return apperr.Forbidden("cannot resolve your own counter-offer")
	}
	if c.Status != CounterOfferPending {
		return apperr.InvalidState("counter-offer is already %s", c.Status)
	}
	if origin.Status != StatusPending {
		return apperr.InvalidState("cannot resolve a counter-offer on a %s session", origin.Status)
	}
	return nil
}

// Accept marks the offer accepted and applies its terms to origin.
func (c *CounterOffer) Accept(origin *Session, by uuid.UUID, now time.Time) error {
	if err := c.CheckResolvable(origin, by); err != nil {
		return err
	}
	if err := origin.ApplyTerms(c.Terms, now); err != nil {
		return err
	}
	c.resolve(CounterOfferAccepted, by, now)
	return nil
}

// Reject marks the offer rejected; origin is untouched.
func (c *CounterOffer) Reject(origin *Session, by uuid.UUID, now time.Time) error {
	if err := c.CheckResolvable(origin, by); err != nil {
		return err
	}
	c.resolve(CounterOfferRejected, by, now)
	return nil
}

// Supersede retires a pending offer after a sibling was accepted.
func (c *CounterOffer) Supersede(now time.Time) bool {
	if c.Status != CounterOfferPending {
		return false
	}
	c.Status = CounterOfferSuperseded
	c.ResolvedAt = &now
	c.UpdatedAt = now
	return true
}

func (c *CounterOffer) resolve(status CounterOfferStatus, by uuid.UUID, now time.Time) {
	c.Status = status
	c.ResolvedBy = &by
	c.ResolvedAt = &now
	c.UpdatedAt = now
}
