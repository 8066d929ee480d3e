package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/skillswap/skillswap/internal/domain/apperr"
	"github.com/skillswap/skillswap/internal/domain/notification"
	"github.com/skillswap/skillswap/internal/domain/readcache"
	domain "github.com/skillswap/skillswap/internal/domain/review"
	"github.com/skillswap/skillswap/internal/domain/session"
)

// Service gates reviews on completed sessions and aggregates ratings.
type Service struct {
	reviews    domain.Repository
	sessions   session.Repository
	events     notification.Publisher
	cache      readcache.Cache
	commentMax int
	now        func() time.Time
	logger     zerolog.Logger
}

// NewService creates a review service.
func NewService(
	reviews domain.Repository,
	sessions session.Repository,
	events notification.Publisher,
	cache readcache.Cache,
	commentMax int,
	logger zerolog.Logger,
) *Service {
	if cache == nil {
		cache = readcache.Noop{}
	}
	if commentMax <= 0 {
		commentMax = domain.DefaultCommentMax
	}
	return &Service{
		reviews:    reviews,
		sessions:   sessions,
		events:     events,
		cache:      cache,
		commentMax: commentMax,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     logger.With().Str("service", "review").Logger(),
	}
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// SubmitInput defines a review submission.
type SubmitInput struct {
	SessionID uuid.UUID
	Draft     domain.Draft
}

// SubmitReview stores a review of a completed session, once per reviewer.
func (s *Service) SubmitReview(ctx context.Context, input SubmitInput) (*domain.Review, error) {
	if err := input.Draft.Validate(s.commentMax); err != nil {
		return nil, err
	}
	sess, err := s.sessions.GetByID(ctx, input.SessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return nil, apperr.NotFound("session", input.SessionID)
	}
	r, err := domain.New(sess, input.Draft, s.commentMax, s.now())
	if err != nil {
		return nil, err
	}

	existing, err := s.reviews.GetByReviewerAndSession(ctx, r.ReviewerID, r.SessionID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if existing != nil {
		return nil, apperr.InvalidState("you already reviewed this session")
	}
	if err := s.reviews.Create(ctx, r); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperr.InvalidState("you already reviewed this session")
		}
		return nil, fmt.Errorf("create review: %w", err)
	}
	s.invalidate(r)

	s.logger.Info().
		Str("review_id", r.ReviewID.String()).
		Str("session_id", r.SessionID.String()).
		Int("rating", r.Rating).
		Msg("review submitted")
	s.events.Publish(ctx, notification.NewEvent(notification.EventReviewSubmitted, r.RevieweeID, r.ReviewerID,
		notification.EntityReview, r.ReviewID, fmt.Sprintf("You received a %d-star review", r.Rating), "/users/"+r.RevieweeID.String()+"/reviews"))
	return r, nil
}

// GetAggregateRating returns the mean rating and the matching reviews.
// Exactly one filter field must be set.
func (s *Service) GetAggregateRating(ctx context.Context, filter domain.Filter) (domain.Aggregate, error) {
	key, err := ratingKey(filter)
	if err != nil {
		return domain.Aggregate{}, err
	}
	return readcache.Fetch(ctx, s.cache, key, func(ctx context.Context) (domain.Aggregate, error) {
		list, err := s.reviews.List(ctx, filter)
		if err != nil {
			return domain.Aggregate{}, fmt.Errorf("list reviews: %w", err)
		}
		return domain.Summarize(list), nil
	})
}

func (s *Service) invalidate(r *domain.Review) {
	s.cache.InvalidatePrefix("ratings:reviewee:" + r.RevieweeID.String())
	s.cache.InvalidatePrefix("ratings:skill:" + r.SkillID.String())
	s.cache.InvalidatePrefix("ratings:session:" + r.SessionID.String())
}

func ratingKey(f domain.Filter) (string, error) {
	set := 0
	var key string
	if f.RevieweeID != nil {
		set++
		key = "ratings:reviewee:" + f.RevieweeID.String()
	}
	if f.SkillID != nil {
		set++
		key = "ratings:skill:" + f.SkillID.String()
	}
	if f.SessionID != nil {
		set++
		key = "ratings:session:" + f.SessionID.String()
	}
	if set != 1 {
		return "", apperr.Validation("exactly one of revieweeId, skillId or sessionId is required")
	}
	return key, nil
}
