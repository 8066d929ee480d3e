package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/skillswap/skillswap/internal/domain/apperr"
	"github.com/skillswap/skillswap/internal/domain/notification"
	notificationMocks "github.com/skillswap/skillswap/internal/domain/notification/mocks"
	domain "github.com/skillswap/skillswap/internal/domain/session"
	sessionMocks "github.com/skillswap/skillswap/internal/domain/session/mocks"
	userMocks "github.com/skillswap/skillswap/internal/domain/user/mocks"
	"github.com/skillswap/skillswap/internal/infrastructure/cache"
)

var fixedNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type fixture struct {
	sessions  *sessionMocks.MockRepository
	offers    *sessionMocks.MockCounterOfferRepository
	work      *sessionMocks.MockWorkRepository
	directory *userMocks.MockDirectory
	events    *notificationMocks.MockPublisher
	svc       *Service
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		sessions:  sessionMocks.NewMockRepository(ctrl),
		offers:    sessionMocks.NewMockCounterOfferRepository(ctrl),
		work:      sessionMocks.NewMockWorkRepository(ctrl),
		directory: userMocks.NewMockDirectory(ctrl),
		events:    notificationMocks.NewMockPublisher(ctrl),
	}
	f.svc = NewService(f.sessions, f.offers, f.work, f.directory, f.events, nil, zerolog.Nop()).
		WithClock(func() time.Time { return fixedNow })
	return f
}

func testTerms() domain.Terms {
	return domain.Terms{
		SkillOffered1:   uuid.New(),
		SkillOffered2:   uuid.New(),
		Description1:    "Go concurrency",
		Description2:    "Watercolor basics",
		StartDate:       fixedNow.Add(24 * time.Hour),
		ExpectedEndDate: fixedNow.Add(14 * 24 * time.Hour),
	}
}

func pendingSession(t *testing.T) *domain.Session {
	t.Helper()
	sess, err := domain.New(uuid.New(), uuid.New(), testTerms(), fixedNow)
	require.NoError(t, err)
	return sess
}

func activeSession(t *testing.T) *domain.Session {
	t.Helper()
	sess := pendingSession(t)
	require.NoError(t, sess.Accept(sess.User2ID, fixedNow))
	return sess
}

// stored returns a loader handing out copies, so each attempt sees its own value.
func stored(sess *domain.Session) func(context.Context, uuid.UUID) (*domain.Session, error) {
	return func(context.Context, uuid.UUID) (*domain.Session, error) {
		cp := *sess
		return &cp, nil
	}
}

func TestProposeNotifiesCounterpart(t *testing.T) {
	f := newFixture(t)
	proposer, counterpart := uuid.New(), uuid.New()
	terms := testTerms()

	f.directory.EXPECT().SkillBelongsTo(gomock.Any(), terms.SkillOffered1, proposer).Return(true, nil)
	f.directory.EXPECT().SkillBelongsTo(gomock.Any(), terms.SkillOffered2, counterpart).Return(true, nil)
	f.sessions.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, e *notification.Event) {
		assert.Equal(t, notification.EventSessionProposed, e.Type)
		assert.Equal(t, counterpart, e.RecipientID)
		require.NotNil(t, e.ActorID)
		assert.Equal(t, proposer, *e.ActorID)
	})

	sess, err := f.svc.Propose(context.Background(), ProposeInput{ProposerID: proposer, CounterpartID: counterpart, Terms: terms})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, sess.Status)
	assert.Equal(t, proposer, sess.User1ID)
	assert.Equal(t, int64(1), sess.Version)
}

func TestProposeRejectsForeignSkill(t *testing.T) {
	f := newFixture(t)
	terms := testTerms()
	f.directory.EXPECT().SkillBelongsTo(gomock.Any(), terms.SkillOffered1, gomock.Any()).Return(false, nil)

	_, err := f.svc.Propose(context.Background(), ProposeInput{ProposerID: uuid.New(), CounterpartID: uuid.New(), Terms: terms})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestProposeToSelfIsValidationError(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	_, err := f.svc.Propose(context.Background(), ProposeInput{ProposerID: id, CounterpartID: id, Terms: testTerms()})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestAcceptRetriesAfterVersionConflict(t *testing.T) {
	f := newFixture(t)
	sess := pendingSession(t)

	f.sessions.EXPECT().GetByID(gomock.Any(), sess.SessionID).DoAndReturn(stored(sess)).Times(2)
	gomock.InOrder(
		f.sessions.EXPECT().Update(gomock.Any(), gomock.Any(), int64(1)).Return(domain.ErrVersionConflict),
		f.sessions.EXPECT().Update(gomock.Any(), gomock.Any(), int64(1)).Return(nil),
	)
	f.events.EXPECT().Publish(gomock.Any(), gomock.Any())

	got, err := f.svc.AcceptOrReject(context.Background(), sess.SessionID, sess.User2ID, DecisionAccept)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, got.Status)
}

func TestAcceptLosingRaceSeesFreshState(t *testing.T) {
	f := newFixture(t)
	sess := pendingSession(t)
	rejected := *sess
	require.NoError(t, rejected.Reject(sess.User2ID, fixedNow))
	rejected.Version = 2

	gomock.InOrder(
		f.sessions.EXPECT().GetByID(gomock.Any(), sess.SessionID).DoAndReturn(stored(sess)),
		f.sessions.EXPECT().Update(gomock.Any(), gomock.Any(), int64(1)).Return(domain.ErrVersionConflict),
		f.sessions.EXPECT().GetByID(gomock.Any(), sess.SessionID).DoAndReturn(stored(&rejected)),
	)

	_, err := f.svc.AcceptOrReject(context.Background(), sess.SessionID, sess.User2ID, DecisionAccept)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
}

func TestMutateGivesUpAfterRepeatedConflicts(t *testing.T) {
	f := newFixture(t)
	sess := activeSession(t)

	f.sessions.EXPECT().GetByID(gomock.Any(), sess.SessionID).DoAndReturn(stored(sess)).Times(maxWriteAttempts)
	f.sessions.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.ErrVersionConflict).Times(maxWriteAttempts)

	_, err := f.svc.Cancel(context.Background(), sess.SessionID, sess.User1ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestStoreFailureIsNotABusinessError(t *testing.T) {
	f := newFixture(t)
	sess := activeSession(t)
	boom := errors.New("connection reset")

	f.sessions.EXPECT().GetByID(gomock.Any(), sess.SessionID).DoAndReturn(stored(sess))
	f.sessions.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(boom)

	_, err := f.svc.Cancel(context.Background(), sess.SessionID, sess.User1ID)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, apperr.Kind(""), apperr.KindOf(err))
}

func TestMissingSessionIsNotFound(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	f.sessions.EXPECT().GetByID(gomock.Any(), id).Return(nil, nil)

	_, err := f.svc.RequestCompletion(context.Background(), id, uuid.New())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCompletionHandshake(t *testing.T) {
	f := newFixture(t)
	sess := activeSession(t)
	current := sess
	f.sessions.EXPECT().GetByID(gomock.Any(), sess.SessionID).DoAndReturn(func(context.Context, uuid.UUID) (*domain.Session, error) {
		cp := *current
		return &cp, nil
	}).AnyTimes()
	f.sessions.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s *domain.Session, expected int64) error {
		s.Version = expected + 1
		current = s
		return nil
	}).AnyTimes()

	var published []notification.EventType
	f.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, e *notification.Event) {
		published = append(published, e.Type)
	}).AnyTimes()

	ctx := context.Background()
	_, err := f.svc.RequestCompletion(ctx, sess.SessionID, sess.User1ID)
	require.NoError(t, err)

	_, err = f.svc.RequestCompletion(ctx, sess.SessionID, sess.User1ID)
	assert.Equal(t, apperr.KindAlreadyRequested, apperr.KindOf(err))

	_, err = f.svc.RespondToCompletion(ctx, RespondCompletionInput{SessionID: sess.SessionID, By: sess.User1ID, Action: CompletionApprove})
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))

	_, err = f.svc.RespondToCompletion(ctx, RespondCompletionInput{SessionID: sess.SessionID, By: sess.User2ID, Action: CompletionReject, Reason: "  "})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	got, err := f.svc.RespondToCompletion(ctx, RespondCompletionInput{SessionID: sess.SessionID, By: sess.User2ID, Action: CompletionReject, Reason: "missing chapter 3"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, got.Status)
	require.NotNil(t, got.CompletionRejectionReason)
	assert.Equal(t, "missing chapter 3", *got.CompletionRejectionReason)

	// a fresh request clears the rejection
	got, err = f.svc.RequestCompletion(ctx, sess.SessionID, sess.User2ID)
	require.NoError(t, err)
	assert.Nil(t, got.CompletionRejectedBy)

	got, err = f.svc.RespondToCompletion(ctx, RespondCompletionInput{SessionID: sess.SessionID, By: sess.User1ID, Action: CompletionApprove})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)

	assert.Equal(t, []notification.EventType{
		notification.EventCompletionRequested,
		notification.EventCompletionRejected,
		notification.EventCompletionRequested,
		notification.EventCompletionApproved,
	}, published)
}

func TestGetSessionReadsThroughCacheAndChecksParty(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := sessionMocks.NewMockRepository(ctrl)
	svc := NewService(sessions, nil, nil, nil, nil, cache.New(16, time.Minute), zerolog.Nop())
	sess := activeSession(t)

	sessions.EXPECT().GetByID(gomock.Any(), sess.SessionID).Return(sess, nil).Times(1)

	ctx := context.Background()
	got, err := svc.GetSession(ctx, sess.SessionID, sess.User1ID)
	require.NoError(t, err)
	assert.Equal(t, sess.SessionID, got.SessionID)

	_, err = svc.GetSession(ctx, sess.SessionID, uuid.New())
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
}

func TestListSessionsForUserFiltersAndCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := sessionMocks.NewMockRepository(ctrl)
	svc := NewService(sessions, nil, nil, nil, nil, cache.New(16, time.Minute), zerolog.Nop())
	userID := uuid.New()
	active := domain.StatusActive

	sessions.EXPECT().ListByUser(gomock.Any(), userID, domain.Filter{Status: &active}).Return(nil, nil).Times(1)

	for i := 0; i < 2; i++ {
		list, err := svc.ListSessionsForUser(context.Background(), userID, domain.Filter{Status: &active})
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	}
}

func TestGetSessionDoesNotCacheAReadOvertakenByAWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := sessionMocks.NewMockRepository(ctrl)
	events := notificationMocks.NewMockPublisher(ctrl)
	svc := NewService(sessions, nil, nil, nil, events, cache.New(16, time.Minute), zerolog.Nop()).
		WithClock(func() time.Time { return fixedNow })
	sess := pendingSession(t)
	ctx := context.Background()

	current := sess
	raced := false
	sessions.EXPECT().GetByID(gomock.Any(), sess.SessionID).DoAndReturn(func(ctx context.Context, _ uuid.UUID) (*domain.Session, error) {
		cp := *current
		if !raced {
			// the counterpart accepts while this read is in flight
			raced = true
			_, err := svc.AcceptOrReject(ctx, sess.SessionID, sess.User2ID, DecisionAccept)
			require.NoError(t, err)
		}
		return &cp, nil
	}).AnyTimes()
	sessions.EXPECT().Update(gomock.Any(), gomock.Any(), int64(1)).DoAndReturn(func(_ context.Context, s *domain.Session, expected int64) error {
		s.Version = expected + 1
		current = s
		return nil
	})
	events.EXPECT().Publish(gomock.Any(), gomock.Any())

	got, err := svc.GetSession(ctx, sess.SessionID, sess.User1ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)

	got, err = svc.GetSession(ctx, sess.SessionID, sess.User1ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, got.Status)
}
