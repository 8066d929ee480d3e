package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/skillswap/skillswap/internal/domain/apperr"
	"github.com/skillswap/skillswap/internal/domain/notification"
	"github.com/skillswap/skillswap/internal/domain/readcache"
	domain "github.com/skillswap/skillswap/internal/domain/session"
	"github.com/skillswap/skillswap/internal/domain/user"
)

// maxWriteAttempts bounds how often a mutation is re-validated after losing a
// compare-and-swap race.
const maxWriteAttempts = 3

// Decision is the response to a pending proposal or counter-offer.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// CompletionAction is the response to a completion request.
type CompletionAction string

const (
	CompletionApprove CompletionAction = "approve"
	CompletionReject  CompletionAction = "reject"
)

// Service runs the session lifecycle: proposals, counter-offers, completion
// consensus and work exchange.
type Service struct {
	sessions  domain.Repository
	offers    domain.CounterOfferRepository
	work      domain.WorkRepository
	directory user.Directory
	events    notification.Publisher
	cache     readcache.Cache
	now       func() time.Time
	logger    zerolog.Logger
}

// NewService creates a session service.
func NewService(
	sessions domain.Repository,
	offers domain.CounterOfferRepository,
	work domain.WorkRepository,
	directory user.Directory,
	events notification.Publisher,
	cache readcache.Cache,
	logger zerolog.Logger,
) *Service {
	if cache == nil {
		cache = readcache.Noop{}
	}
	return &Service{
		sessions:  sessions,
		offers:    offers,
		work:      work,
		directory: directory,
		events:    events,
		cache:     cache,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger.With().Str("service", "session").Logger(),
	}
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ProposeInput defines a session proposal.
type ProposeInput struct {
	ProposerID    uuid.UUID
	CounterpartID uuid.UUID
	Terms         domain.Terms
}

// Propose creates a pending session from proposer to counterpart.
func (s *Service) Propose(ctx context.Context, input ProposeInput) (*domain.Session, error) {
	sess, err := domain.New(input.ProposerID, input.CounterpartID, input.Terms, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.checkSkills(ctx, sess, sess.Terms); err != nil {
		return nil, err
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.invalidate(sess)

	s.logger.Info().
		Str("session_id", sess.SessionID.String()).
		Str("proposer", sess.User1ID.String()).
		Str("counterpart", sess.User2ID.String()).
		Msg("session proposed")
	s.notify(ctx, notification.EventSessionProposed, sess.User2ID, sess.User1ID, sess.SessionID, "You received a new skill exchange proposal")
	return sess, nil
}

// AcceptOrReject lets the invited party answer a pending proposal.
func (s *Service) AcceptOrReject(ctx context.Context, sessionID, by uuid.UUID, decision Decision) (*domain.Session, error) {
	var apply func(*domain.Session, time.Time) error
	switch decision {
	case DecisionAccept:
		apply = func(sess *domain.Session, now time.Time) error { return sess.Accept(by, now) }
	case DecisionReject:
		apply = func(sess *domain.Session, now time.Time) error { return sess.Reject(by, now) }
	default:
		return nil, apperr.Validation("action must be accept or reject")
	}
	sess, err := s.mutate(ctx, sessionID, apply)
	if err != nil {
		return nil, err
	}
	if decision == DecisionAccept {
		s.notify(ctx, notification.EventSessionAccepted, sess.User1ID, by, sess.SessionID, "Your skill exchange proposal was accepted")
	} else {
		s.notify(ctx, notification.EventSessionRejected, sess.User1ID, by, sess.SessionID, "Your skill exchange proposal was declined")
	}
	return sess, nil
}

// Cancel ends an active session on behalf of either party.
func (s *Service) Cancel(ctx context.Context, sessionID, by uuid.UUID) (*domain.Session, error) {
	sess, err := s.mutate(ctx, sessionID, func(sess *domain.Session, now time.Time) error {
		return sess.Cancel(by, now)
	})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, notification.EventSessionCanceled, sess.Counterpart(by), by, sess.SessionID, "A skill exchange session was canceled")
	return sess, nil
}

// RequestCompletion opens the completion handshake.
func (s *Service) RequestCompletion(ctx context.Context, sessionID, by uuid.UUID) (*domain.Session, error) {
	sess, err := s.mutate(ctx, sessionID, func(sess *domain.Session, now time.Time) error {
		return sess.RequestCompletion(by, now)
	})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, notification.EventCompletionRequested, sess.Counterpart(by), by, sess.SessionID, "Your partner asked to mark the session as completed")
	return sess, nil
}

// RespondCompletionInput defines a response to a completion request.
type RespondCompletionInput struct {
	SessionID uuid.UUID
	By        uuid.UUID
	Action    CompletionAction
	Reason    string
}

// RespondToCompletion approves or rejects an outstanding completion request.
func (s *Service) RespondToCompletion(ctx context.Context, input RespondCompletionInput) (*domain.Session, error) {
	var apply func(*domain.Session, time.Time) error
	switch input.Action {
	case CompletionApprove:
		apply = func(sess *domain.Session, now time.Time) error { return sess.ApproveCompletion(input.By, now) }
	case CompletionReject:
		apply = func(sess *domain.Session, now time.Time) error {
			return sess.RejectCompletion(input.By, input.Reason, now)
		}
	default:
		return nil, apperr.Validation("action must be approve or reject")
	}
	sess, err := s.mutate(ctx, input.SessionID, apply)
	if err != nil {
		return nil, err
	}
	requester := sess.Counterpart(input.By)
	if input.Action == CompletionApprove {
		s.logger.Info().Str("session_id", sess.SessionID.String()).Msg("session completed")
		s.notify(ctx, notification.EventCompletionApproved, requester, input.By, sess.SessionID, "Your session is complete. You can now leave a review")
	} else {
		s.notify(ctx, notification.EventCompletionRejected, requester, input.By, sess.SessionID,
			"Your completion request was declined: "+strings.TrimSpace(input.Reason))
	}
	return sess, nil
}

// GetSession returns a session visible to viewer.
func (s *Service) GetSession(ctx context.Context, sessionID, viewer uuid.UUID) (*domain.Session, error) {
	sess, err := readcache.Fetch(ctx, s.cache, sessionKey(sessionID), func(ctx context.Context) (*domain.Session, error) {
		return s.load(ctx, sessionID)
	})
	if err != nil {
		return nil, err
	}
	if !sess.IsParty(viewer) {
		return nil, apperr.Forbidden("user is not a party to this session")
	}
	return sess, nil
}

// ListSessionsForUser returns the user's sessions, newest first.
func (s *Service) ListSessionsForUser(ctx context.Context, userID uuid.UUID, filter domain.Filter) ([]*domain.Session, error) {
	key := userSessionsPrefix(userID)
	if filter.Status != nil {
		key += string(*filter.Status)
	}
	return readcache.Fetch(ctx, s.cache, key, func(ctx context.Context) ([]*domain.Session, error) {
		list, err := s.sessions.ListByUser(ctx, userID, filter)
		if err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		if list == nil {
			list = []*domain.Session{}
		}
		return list, nil
	})
}

// mutate loads the session, applies fn and stores the result with a version
// check. When a concurrent write wins, the fresh state is re-validated so the
// loser fails with the error its stale precondition deserves.
func (s *Service) mutate(ctx context.Context, sessionID uuid.UUID, fn func(*domain.Session, time.Time) error) (*domain.Session, error) {
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		sess, err := s.load(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		expected := sess.Version
		if err := fn(sess, s.now()); err != nil {
			return nil, err
		}
		err = s.sessions.Update(ctx, sess, expected)
		if err == nil {
			s.invalidate(sess)
			return sess, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return nil, fmt.Errorf("update session: %w", err)
		}
		s.logger.Debug().Str("session_id", sessionID.String()).Int("attempt", attempt).Msg("session write conflict")
	}
	return nil, apperr.Conflict("session %s is being modified concurrently, retry", sessionID)
}

func (s *Service) load(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error) {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return nil, apperr.NotFound("session", sessionID)
	}
	return sess, nil
}

// checkSkills verifies that each offered skill belongs to the party offering it.
func (s *Service) checkSkills(ctx context.Context, sess *domain.Session, terms domain.Terms) error {
	checks := []struct {
		field string
		skill uuid.UUID
		owner uuid.UUID
	}{
		{"skillOffered1", terms.SkillOffered1, sess.User1ID},
		{"skillOffered2", terms.SkillOffered2, sess.User2ID},
	}
	for _, c := range checks {
		ok, err := s.directory.SkillBelongsTo(ctx, c.skill, c.owner)
		if err != nil {
			return fmt.Errorf("check skill ownership: %w", err)
		}
		if !ok {
			return apperr.Validation("%s does not belong to the party offering it", c.field)
		}
	}
	return nil
}

func (s *Service) invalidate(sess *domain.Session) {
	s.cache.InvalidatePrefix(sessionKey(sess.SessionID))
	s.cache.InvalidatePrefix(userSessionsPrefix(sess.User1ID))
	s.cache.InvalidatePrefix(userSessionsPrefix(sess.User2ID))
}

func (s *Service) notify(ctx context.Context, t notification.EventType, recipient, actor, sessionID uuid.UUID, message string) {
	s.events.Publish(ctx, notification.NewEvent(t, recipient, actor, notification.EntitySession, sessionID, message, sessionLink(sessionID)))
}

func sessionKey(id uuid.UUID) string {
	return "session:" + id.String()
}

func userSessionsPrefix(userID uuid.UUID) string {
	return "sessions:user:" + userID.String() + ":"
}

func sessionLink(id uuid.UUID) string {
	return "/sessions/" + id.String()
}
