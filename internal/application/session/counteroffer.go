package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/skillswap/skillswap/internal/domain/apperr"
	"github.com/skillswap/skillswap/internal/domain/notification"
	domain "github.com/skillswap/skillswap/internal/domain/session"
)

// CounterOfferInput defines a counter-offer on a pending session.
type CounterOfferInput struct {
	SessionID uuid.UUID
	By        uuid.UUID
	Message   string
	Terms     domain.Terms
}

// CreateCounterOffer proposes replacement terms for a pending session. The
// offer is stored only if the session is unchanged since it was validated;
// otherwise the fresh session is validated again.
func (s *Service) CreateCounterOffer(ctx context.Context, input CounterOfferInput) (*domain.CounterOffer, error) {
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		origin, err := s.load(ctx, input.SessionID)
		if err != nil {
			return nil, err
		}
		offer, err := domain.NewCounterOffer(origin, input.By, input.Message, input.Terms, s.now())
		if err != nil {
			return nil, err
		}
		if offer.Terms.SkillOffered1 != origin.SkillOffered1 || offer.Terms.SkillOffered2 != origin.SkillOffered2 {
			if err := s.checkSkills(ctx, origin, offer.Terms); err != nil {
				return nil, err
			}
		}
		err = s.offers.Create(ctx, offer, origin.Version)
		if errors.Is(err, domain.ErrVersionConflict) {
			s.logger.Debug().Str("session_id", origin.SessionID.String()).Int("attempt", attempt).Msg("counter-offer write conflict")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create counter-offer: %w", err)
		}

		s.logger.Info().
			Str("session_id", origin.SessionID.String()).
			Str("counter_offer_id", offer.CounterOfferID.String()).
			Msg("counter-offer created")
		s.events.Publish(ctx, notification.NewEvent(notification.EventCounterOfferCreated, origin.Counterpart(input.By), input.By,
			notification.EntityCounterOffer, offer.CounterOfferID, "You received a counter-offer", sessionLink(origin.SessionID)))
		return offer, nil
	}
	return nil, apperr.Conflict("session %s is being modified concurrently, retry", input.SessionID)
}

// ResolveCounterOffer accepts or rejects a pending counter-offer. Accepting
// applies its terms to the origin session, activates it and supersedes the
// session's other pending counter-offers.
func (s *Service) ResolveCounterOffer(ctx context.Context, counterOfferID, by uuid.UUID, decision Decision) (*domain.CounterOffer, error) {
	if decision != DecisionAccept && decision != DecisionReject {
		return nil, apperr.Validation("action must be accept or reject")
	}
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		offer, err := s.loadOffer(ctx, counterOfferID)
		if err != nil {
			return nil, err
		}
		origin, err := s.load(ctx, offer.OriginalSessionID)
		if err != nil {
			return nil, err
		}
		offerVersion, originVersion := offer.Version, origin.Version
		now := s.now()

		if decision == DecisionAccept {
			if err := offer.Accept(origin, by, now); err != nil {
				return nil, err
			}
			superseded, err := s.offers.Accept(ctx, offer, offerVersion, origin, originVersion)
			if errors.Is(err, domain.ErrVersionConflict) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("accept counter-offer: %w", err)
			}
			s.invalidate(origin)
			s.logger.Info().
				Str("counter_offer_id", offer.CounterOfferID.String()).
				Int("superseded", superseded).
				Msg("counter-offer accepted")
			s.events.Publish(ctx, notification.NewEvent(notification.EventCounterOfferAccepted, offer.CounterOfferedBy, by,
				notification.EntityCounterOffer, offer.CounterOfferID, "Your counter-offer was accepted", sessionLink(origin.SessionID)))
			return offer, nil
		}

		if err := offer.Reject(origin, by, now); err != nil {
			return nil, err
		}
		err = s.offers.Update(ctx, offer, offerVersion)
		if errors.Is(err, domain.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reject counter-offer: %w", err)
		}
		s.events.Publish(ctx, notification.NewEvent(notification.EventCounterOfferRejected, offer.CounterOfferedBy, by,
			notification.EntityCounterOffer, offer.CounterOfferID, "Your counter-offer was declined", sessionLink(origin.SessionID)))
		return offer, nil
	}
	return nil, apperr.Conflict("counter-offer %s is being modified concurrently, retry", counterOfferID)
}

// ListCounterOffers returns the counter-offers of a session visible to viewer.
func (s *Service) ListCounterOffers(ctx context.Context, sessionID, viewer uuid.UUID) ([]*domain.CounterOffer, error) {
	origin, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !origin.IsParty(viewer) {
		return nil, apperr.Forbidden("user is not a party to this session")
	}
	offers, err := s.offers.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list counter-offers: %w", err)
	}
	if offers == nil {
		offers = []*domain.CounterOffer{}
	}
	return offers, nil
}

func (s *Service) loadOffer(ctx context.Context, id uuid.UUID) (*domain.CounterOffer, error) {
	offer, err := s.offers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load counter-offer: %w", err)
	}
	if offer == nil {
		return nil, apperr.NotFound("counter-offer", id)
	}
	return offer, nil
}
