package review

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Repository

import (
	"context"

	"github.com/google/uuid"
)

// Filter selects reviews for aggregation. Exactly one field is expected to be set.
type Filter struct {
	RevieweeID *uuid.UUID
	SkillID    *uuid.UUID
	SessionID  *uuid.UUID
}

// Repository persists reviews. Create returns ErrDuplicate when the reviewer
// already reviewed the session.
type Repository interface {
	Create(ctx context.Context, r *Review) error
	GetByReviewerAndSession(ctx context.Context, reviewerID, sessionID uuid.UUID) (*Review, error)
	List(ctx context.Context, filter Filter) ([]*Review, error)
}
