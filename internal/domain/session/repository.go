package session

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Repository,CounterOfferRepository,WorkRepository

import (
	"context"

	"github.com/google/uuid"
)

// Filter controls session listing.
type Filter struct {
	Status *Status
}

// Repository persists sessions. Update is a compare-and-swap on Version:
// it stores s only if the stored version equals expectedVersion, bumps
// s.Version, and returns ErrVersionConflict otherwise.
type Repository interface {
	Create(ctx context.Context, s *Session) error
	GetByID(ctx context.Context, sessionID uuid.UUID) (*Session, error)
	Update(ctx context.Context, s *Session, expectedVersion int64) error
	ListByUser(ctx context.Context, userID uuid.UUID, filter Filter) ([]*Session, error)
}

// CounterOfferRepository persists counter-offers with the same CAS contract.
// Create stores c only while the origin session is still at originVersion and
// returns ErrVersionConflict otherwise.
type CounterOfferRepository interface {
	Create(ctx context.Context, c *CounterOffer, originVersion int64) error
	GetByID(ctx context.Context, counterOfferID uuid.UUID) (*CounterOffer, error)
	Update(ctx context.Context, c *CounterOffer, expectedVersion int64) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*CounterOffer, error)
	// Accept stores the accepted offer and its updated origin session in one
	// write, both guarded by version, and supersedes the session's other
	// pending offers. It returns how many offers were superseded.
	Accept(ctx context.Context, c *CounterOffer, offerVersion int64, origin *Session, originVersion int64) (int, error)
}

// WorkRepository persists work submissions with the same CAS contract. Both
// writes are also guarded by the owning session's version, so a submission
// never lands on a session that changed state after it was validated.
type WorkRepository interface {
	Create(ctx context.Context, w *WorkSubmission, sessionVersion int64) error
	GetByID(ctx context.Context, submissionID uuid.UUID) (*WorkSubmission, error)
	Update(ctx context.Context, w *WorkSubmission, expectedVersion, sessionVersion int64) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*WorkSubmission, error)
}
