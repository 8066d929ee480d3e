package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/skillswap/skillswap/internal/domain/apperr"
	"github.com/skillswap/skillswap/internal/domain/notification"
	domain "github.com/skillswap/skillswap/internal/domain/session"
)

func pendingOffer(t *testing.T, origin *domain.Session, by uuid.UUID) *domain.CounterOffer {
	t.Helper()
	terms := origin.Terms
	terms.ExpectedEndDate = terms.ExpectedEndDate.Add(7 * 24 * time.Hour)
	offer, err := domain.NewCounterOffer(origin, by, "one more week please", terms, fixedNow)
	require.NoError(t, err)
	return offer
}

func TestCreateCounterOfferRejectsIdenticalTerms(t *testing.T) {
	f := newFixture(t)
	sess := pendingSession(t)
	f.sessions.EXPECT().GetByID(gomock.Any(), sess.SessionID).DoAndReturn(stored(sess))

	_, err := f.svc.CreateCounterOffer(context.Background(), CounterOfferInput{
		SessionID: sess.SessionID,
		By:        sess.User2ID,
		Message:   "same again",
		Terms:     sess.Terms,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrDuplicateOffer)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateCounterOfferChecksChangedSkills(t *testing.T) {
	f := newFixture(t)
	sess := pendingSession(t)
	terms := sess.Terms
	terms.SkillOffered2 = uuid.New()

	f.sessions.EXPECT().GetByID(gomock.Any(), sess.SessionID).DoAndReturn(stored(sess))
	f.directory.EXPECT().SkillBelongsTo(gomock.Any(), terms.SkillOffered1, sess.User1ID).Return(true, nil)
	f.directory.EXPECT().SkillBelongsTo(gomock.Any(), terms.SkillOffered2, sess.User2ID).Return(true, nil)
	f.offers.EXPECT().Create(gomock.Any(), gomock.Any(), int64(1)).Return(nil)
	f.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, e *notification.Event) {
		assert.Equal(t, notification.EventCounterOfferCreated, e.Type)
		assert.Equal(t, sess.User1ID, e.RecipientID)
	})

	offer, err := f.svc.CreateCounterOffer(context.Background(), CounterOfferInput{
		SessionID: sess.SessionID,
		By:        sess.User2ID,
		Message:   "I'd rather teach something else",
		Terms:     terms,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CounterOfferPending, offer.Status)
}

func TestCreateCounterOfferRevalidatesWhenSessionChanged(t *testing.T) {
	f := newFixture(t)
	sess := pendingSession(t)
	accepted := *sess
	require.NoError(t, accepted.Accept(sess.User2ID, fixedNow))
	accepted.Version = 2
	terms := sess.Terms
	terms.Description2 = "Oil painting"

	gomock.InOrder(
		f.sessions.EXPECT().GetByID(gomock.Any(), sess.SessionID).DoAndReturn(stored(sess)),
		f.offers.EXPECT().Create(gomock.Any(), gomock.Any(), int64(1)).Return(domain.ErrVersionConflict),
		f.sessions.EXPECT().GetByID(gomock.Any(), sess.SessionID).DoAndReturn(stored(&accepted)),
	)

	_, err := f.svc.CreateCounterOffer(context.Background(), CounterOfferInput{
		SessionID: sess.SessionID,
		By:        sess.User2ID,
		Message:   "different medium",
		Terms:     terms,
	})
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
}

func TestCreateCounterOfferGivesUpAfterRepeatedConflicts(t *testing.T) {
	f := newFixture(t)
	sess := pendingSession(t)
	terms := sess.Terms
	terms.Description1 = "Go generics"

	f.sessions.EXPECT().GetByID(gomock.Any(), sess.SessionID).DoAndReturn(stored(sess)).Times(maxWriteAttempts)
	f.offers.EXPECT().Create(gomock.Any(), gomock.Any(), int64(1)).Return(domain.ErrVersionConflict).Times(maxWriteAttempts)

	_, err := f.svc.CreateCounterOffer(context.Background(), CounterOfferInput{
		SessionID: sess.SessionID,
		By:        sess.User1ID,
		Message:   "narrower scope",
		Terms:     terms,
	})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestResolveOwnCounterOfferForbidden(t *testing.T) {
	f := newFixture(t)
	sess := pendingSession(t)
	offer := pendingOffer(t, sess, sess.User2ID)

	f.offers.EXPECT().GetByID(gomock.Any(), offer.CounterOfferID).Return(offer, nil)
	f.sessions.EXPECT().GetByID(gomock.Any(), sess.SessionID).DoAndReturn(stored(sess))

	_, err := f.svc.ResolveCounterOffer(context.Background(), offer.CounterOfferID, sess.User2ID, DecisionAccept)
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
}

func TestAcceptCounterOfferActivatesSessionWithNewTerms(t *testing.T) {
	f := newFixture(t)
	sess := pendingSession(t)
	offer := pendingOffer(t, sess, sess.User2ID)

	f.offers.EXPECT().GetByID(gomock.Any(), offer.CounterOfferID).Return(offer, nil)
	f.sessions.EXPECT().GetByID(gomock.Any(), sess.SessionID).DoAndReturn(stored(sess))
	f.offers.EXPECT().Accept(gomock.Any(), offer, int64(1), gomock.Any(), int64(1)).
		DoAndReturn(func(_ context.Context, c *domain.CounterOffer, _ int64, origin *domain.Session, _ int64) (int, error) {
			assert.Equal(t, domain.StatusActive, origin.Status)
			assert.True(t, origin.Terms.Equal(c.Terms))
			return 2, nil
		})
	f.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, e *notification.Event) {
		assert.Equal(t, notification.EventCounterOfferAccepted, e.Type)
		assert.Equal(t, sess.User2ID, e.RecipientID)
	})

	got, err := f.svc.ResolveCounterOffer(context.Background(), offer.CounterOfferID, sess.User1ID, DecisionAccept)
	require.NoError(t, err)
	assert.Equal(t, domain.CounterOfferAccepted, got.Status)
}

func TestAcceptCounterOfferAfterSessionMovedOn(t *testing.T) {
	f := newFixture(t)
	sess := pendingSession(t)
	offer := pendingOffer(t, sess, sess.User2ID)
	active := *sess
	require.NoError(t, active.Accept(sess.User2ID, fixedNow))
	active.Version = 2

	gomock.InOrder(
		f.offers.EXPECT().GetByID(gomock.Any(), offer.CounterOfferID).Return(offer, nil),
		f.sessions.EXPECT().GetByID(gomock.Any(), sess.SessionID).DoAndReturn(stored(sess)),
		f.offers.EXPECT().Accept(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(0, domain.ErrVersionConflict),
		f.offers.EXPECT().GetByID(gomock.Any(), offer.CounterOfferID).Return(pendingOfferCopy(offer), nil),
		f.sessions.EXPECT().GetByID(gomock.Any(), sess.SessionID).DoAndReturn(stored(&active)),
	)

	_, err := f.svc.ResolveCounterOffer(context.Background(), offer.CounterOfferID, sess.User1ID, DecisionAccept)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
}

func pendingOfferCopy(c *domain.CounterOffer) *domain.CounterOffer {
	cp := *c
	cp.Status = domain.CounterOfferPending
	cp.ResolvedBy = nil
	cp.ResolvedAt = nil
	return &cp
}

func TestRejectCounterOfferLeavesSessionPending(t *testing.T) {
	f := newFixture(t)
	sess := pendingSession(t)
	offer := pendingOffer(t, sess, sess.User1ID)

	f.offers.EXPECT().GetByID(gomock.Any(), offer.CounterOfferID).Return(offer, nil)
	f.sessions.EXPECT().GetByID(gomock.Any(), sess.SessionID).DoAndReturn(stored(sess))
	f.offers.EXPECT().Update(gomock.Any(), offer, int64(1)).Return(nil)
	f.events.EXPECT().Publish(gomock.Any(), gomock.Any())

	got, err := f.svc.ResolveCounterOffer(context.Background(), offer.CounterOfferID, sess.User2ID, DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, domain.CounterOfferRejected, got.Status)
}

func TestListCounterOffersRequiresParty(t *testing.T) {
	f := newFixture(t)
	sess := pendingSession(t)
	f.sessions.EXPECT().GetByID(gomock.Any(), sess.SessionID).DoAndReturn(stored(sess))

	_, err := f.svc.ListCounterOffers(context.Background(), sess.SessionID, uuid.New())
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
}
