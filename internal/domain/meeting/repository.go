package meeting

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Repository,CancellationRepository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists meetings.
type Repository interface {
	// CreateWithinLimit stores m unless its sender and receiver already share
	// limit active meetings at now, in which case it returns ErrCapacityReached.
	CreateWithinLimit(ctx context.Context, m *Meeting, limit int, now time.Time) error
	GetByID(ctx context.Context, meetingID uuid.UUID) (*Meeting, error)
	// Update is a compare-and-swap on Version; see session.Repository.
	Update(ctx context.Context, m *Meeting, expectedVersion int64) error
	// Cancel stores the cancelled meeting and its notice in one write.
	Cancel(ctx context.Context, m *Meeting, expectedVersion int64, notice *Cancellation) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Meeting, error)
	// ListAcceptedBefore returns accepted meetings scheduled before cutoff.
	ListAcceptedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*Meeting, error)
}

// CancellationRepository persists cancellation notices.
type CancellationRepository interface {
	GetByID(ctx context.Context, cancellationID uuid.UUID) (*Cancellation, error)
	Update(ctx context.Context, c *Cancellation, expectedVersion int64) error
	ListForRecipient(ctx context.Context, userID uuid.UUID, unacknowledgedOnly bool) ([]*Cancellation, error)
}
