package meeting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/skillswap/skillswap/internal/domain/apperr"
	domain "github.com/skillswap/skillswap/internal/domain/meeting"
	"github.com/skillswap/skillswap/internal/domain/notification"
	"github.com/skillswap/skillswap/internal/domain/readcache"
)

const maxWriteAttempts = 3

// Service schedules meetings and enforces the cancellation guard.
type Service struct {
	meetings      domain.Repository
	cancellations domain.CancellationRepository
	events        notification.Publisher
	cache         readcache.Cache
	now           func() time.Time
	logger        zerolog.Logger
}

// NewService creates a meeting service.
func NewService(
	meetings domain.Repository,
	cancellations domain.CancellationRepository,
	events notification.Publisher,
	cache readcache.Cache,
	logger zerolog.Logger,
) *Service {
	if cache == nil {
		cache = readcache.Noop{}
	}
	return &Service{
		meetings:      meetings,
		cancellations: cancellations,
		events:        events,
		cache:         cache,
		now:           func() time.Time { return time.Now().UTC() },
		logger:        logger.With().Str("service", "meeting").Logger(),
	}
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateInput defines a meeting request.
type CreateInput struct {
	SenderID    uuid.UUID
	ReceiverID  uuid.UUID
	Description string
	MeetingTime time.Time
}

// CreateMeeting requests a meeting, subject to the per-pair capacity.
func (s *Service) CreateMeeting(ctx context.Context, input CreateInput) (*domain.Meeting, error) {
	now := s.now()
	m, err := domain.New(input.SenderID, input.ReceiverID, input.Description, input.MeetingTime, now)
	if err != nil {
		return nil, err
	}
	if err := s.meetings.CreateWithinLimit(ctx, m, domain.MaxActivePerPair, now); err != nil {
		if errors.Is(err, domain.ErrCapacityReached) {
			return nil, apperr.MeetingLimit("you already have %d active meetings with this user", domain.MaxActivePerPair)
		}
		return nil, fmt.Errorf("create meeting: %w", err)
	}
	s.invalidate(m)

	s.logger.Info().
		Str("meeting_id", m.MeetingID.String()).
		Time("meeting_time", m.MeetingTime).
		Msg("meeting requested")
	s.notify(ctx, notification.EventMeetingRequested, m.ReceiverID, m.SenderID, m, "You have a new meeting request")
	return m, nil
}

// Respond lets the receiver accept or reject a pending meeting.
func (s *Service) Respond(ctx context.Context, meetingID, by uuid.UUID, accept bool) (*domain.Meeting, error) {
	m, err := s.mutate(ctx, meetingID, func(m *domain.Meeting, now time.Time) error {
		return m.Respond(by, accept, now)
	})
	if err != nil {
		return nil, err
	}
	if accept {
		s.notify(ctx, notification.EventMeetingAccepted, m.SenderID, by, m, "Your meeting request was accepted")
	} else {
		s.notify(ctx, notification.EventMeetingRejected, m.SenderID, by, m, "Your meeting request was declined")
	}
	return m, nil
}

// Cancel cancels a meeting and leaves a notice for the counterpart. Accepted
// meetings cannot be cancelled inside their protected window.
func (s *Service) Cancel(ctx context.Context, meetingID, by uuid.UUID, reason string) (*domain.Meeting, *domain.Cancellation, error) {
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		m, err := s.load(ctx, meetingID)
		if err != nil {
			return nil, nil, err
		}
		expected := m.Version
		notice, err := m.Cancel(by, reason, s.now())
		if err != nil {
			return nil, nil, err
		}
		err = s.meetings.Cancel(ctx, m, expected, notice)
		if errors.Is(err, domain.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("cancel meeting: %w", err)
		}
		s.invalidate(m)
		s.cache.InvalidatePrefix(cancellationsPrefix(notice.RecipientID))

		s.logger.Info().Str("meeting_id", m.MeetingID.String()).Str("by", by.String()).Msg("meeting cancelled")
		s.notify(ctx, notification.EventMeetingCancelled, notice.RecipientID, by, m, "A meeting was cancelled: "+notice.Reason)
		return m, notice, nil
	}
	return nil, nil, apperr.Conflict("meeting %s is being modified concurrently, retry", meetingID)
}

// AcknowledgeCancellation marks a cancellation notice as seen. Repeated calls are no-ops.
func (s *Service) AcknowledgeCancellation(ctx context.Context, cancellationID, by uuid.UUID) (*domain.Cancellation, error) {
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		c, err := s.cancellations.GetByID(ctx, cancellationID)
		if err != nil {
			return nil, fmt.Errorf("load cancellation: %w", err)
		}
		if c == nil {
			return nil, apperr.NotFound("meeting cancellation", cancellationID)
		}
		expected := c.Version
		changed, err := c.Acknowledge(by, s.now())
		if err != nil {
			return nil, err
		}
		if !changed {
			return c, nil
		}
		err = s.cancellations.Update(ctx, c, expected)
		if errors.Is(err, domain.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("acknowledge cancellation: %w", err)
		}
		s.cache.InvalidatePrefix(cancellationsPrefix(c.RecipientID))
		return c, nil
	}
	return nil, apperr.Conflict("cancellation %s is being modified concurrently, retry", cancellationID)
}

// ListMeetingsForUser returns the user's meetings grouped by phase.
func (s *Service) ListMeetingsForUser(ctx context.Context, userID uuid.UUID) (domain.Buckets, error) {
	list, err := readcache.Fetch(ctx, s.cache, userMeetingsPrefix(userID), func(ctx context.Context) ([]*domain.Meeting, error) {
		list, err := s.meetings.ListByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("list meetings: %w", err)
		}
		return list, nil
	})
	if err != nil {
		return domain.Buckets{}, err
	}
	// phases depend on the clock, so only the raw list is cached
	return domain.Bucketize(list, s.now()), nil
}

// PhaseOf classifies m at the service clock.
func (s *Service) PhaseOf(m *domain.Meeting) domain.Phase {
	return domain.PhaseOf(m, s.now())
}

// ListCancellationsForUser returns cancellation notices addressed to the user.
func (s *Service) ListCancellationsForUser(ctx context.Context, userID uuid.UUID, unacknowledgedOnly bool) ([]*domain.Cancellation, error) {
	key := cancellationsPrefix(userID) + fmt.Sprintf("%t", unacknowledgedOnly)
	return readcache.Fetch(ctx, s.cache, key, func(ctx context.Context) ([]*domain.Cancellation, error) {
		list, err := s.cancellations.ListForRecipient(ctx, userID, unacknowledgedOnly)
		if err != nil {
			return nil, fmt.Errorf("list cancellations: %w", err)
		}
		if list == nil {
			list = []*domain.Cancellation{}
		}
		return list, nil
	})
}

// CompleteElapsed marks accepted meetings whose window has passed as completed.
// It returns how many meetings were completed.
func (s *Service) CompleteElapsed(ctx context.Context, batch int) (int, error) {
	now := s.now()
	candidates, err := s.meetings.ListAcceptedBefore(ctx, now.Add(-domain.WindowAfter), batch)
	if err != nil {
		return 0, fmt.Errorf("list elapsed meetings: %w", err)
	}
	completed := 0
	for _, m := range candidates {
		expected := m.Version
		if !m.Complete(now) {
			continue
		}
		if err := s.meetings.Update(ctx, m, expected); err != nil {
			if errors.Is(err, domain.ErrVersionConflict) {
				continue
			}
			return completed, fmt.Errorf("complete meeting %s: %w", m.MeetingID, err)
		}
		completed++
		s.invalidate(m)
		s.notify(ctx, notification.EventMeetingCompleted, m.SenderID, uuid.Nil, m, "Your meeting has ended")
		s.notify(ctx, notification.EventMeetingCompleted, m.ReceiverID, uuid.Nil, m, "Your meeting has ended")
	}
	if completed > 0 {
		s.logger.Info().Int("count", completed).Msg("elapsed meetings completed")
	}
	return completed, nil
}

func (s *Service) mutate(ctx context.Context, meetingID uuid.UUID, fn func(*domain.Meeting, time.Time) error) (*domain.Meeting, error) {
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		m, err := s.load(ctx, meetingID)
		if err != nil {
			return nil, err
		}
		expected := m.Version
		if err := fn(m, s.now()); err != nil {
			return nil, err
		}
		err = s.meetings.Update(ctx, m, expected)
		if err == nil {
			s.invalidate(m)
			return m, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return nil, fmt.Errorf("update meeting: %w", err)
		}
	}
	return nil, apperr.Conflict("meeting %s is being modified concurrently, retry", meetingID)
}

func (s *Service) load(ctx context.Context, meetingID uuid.UUID) (*domain.Meeting, error) {
	m, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("load meeting: %w", err)
	}
	if m == nil {
		return nil, apperr.NotFound("meeting", meetingID)
	}
	return m, nil
}

func (s *Service) invalidate(m *domain.Meeting) {
	s.cache.InvalidatePrefix(userMeetingsPrefix(m.SenderID))
	s.cache.InvalidatePrefix(userMeetingsPrefix(m.ReceiverID))
}

func (s *Service) notify(ctx context.Context, t notification.EventType, recipient, actor uuid.UUID, m *domain.Meeting, message string) {
	s.events.Publish(ctx, notification.NewEvent(t, recipient, actor, notification.EntityMeeting, m.MeetingID, message, "/meetings/"+m.MeetingID.String()))
}

func userMeetingsPrefix(userID uuid.UUID) string {
	return "meetings:user:" + userID.String()
}

func cancellationsPrefix(userID uuid.UUID) string {
	return "cancellations:user:" + userID.String() + ":"
}
