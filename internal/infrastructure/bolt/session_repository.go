package bolt

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/skillswap/skillswap/internal/domain/session"
)

// SessionRepository implements session.Repository.
type SessionRepository struct {
	store *Store
}

func NewSessionRepository(store *Store) *SessionRepository {
	return &SessionRepository{store: store}
}

func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	return r.store.update(ctx, func(tx *bbolt.Tx) error {
		if err := putJSON(tx.Bucket(bucketSessions), idKey(s.SessionID), s); err != nil {
			return err
		}
		if err := addIndex(tx, bucketSessionsByUser, s.User1ID.String(), s.SessionID); err != nil {
			return err
		}
		return addIndex(tx, bucketSessionsByUser, s.User2ID.String(), s.SessionID)
	})
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID uuid.UUID) (*session.Session, error) {
	var out *session.Session
	err := r.store.view(ctx, func(tx *bbolt.Tx) error {
		s, err := getSession(tx, sessionID)
		out = s
		return err
	})
	return out, err
}

func (r *SessionRepository) Update(ctx context.Context, s *session.Session, expectedVersion int64) error {
	return r.store.update(ctx, func(tx *bbolt.Tx) error {
		return putSession(tx, s, expectedVersion)
	})
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter session.Filter) ([]*session.Session, error) {
	var out []*session.Session
	err := r.store.view(ctx, func(tx *bbolt.Tx) error {
		list, err := loadIndexed[session.Session](tx, bucketSessionsByUser, bucketSessions, userID.String())
		if err != nil {
			return err
		}
		for _, s := range list {
			normalizeSession(s)
			if filter.Status != nil && s.Status != *filter.Status {
				continue
			}
			out = append(out, s)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

func getSession(tx *bbolt.Tx, sessionID uuid.UUID) (*session.Session, error) {
	var s session.Session
	ok, err := getJSON(tx.Bucket(bucketSessions), idKey(sessionID), &s)
	if err != nil || !ok {
		return nil, err
	}
	normalizeSession(&s)
	return &s, nil
}

func putSession(tx *bbolt.Tx, s *session.Session, expectedVersion int64) error {
	b := tx.Bucket(bucketSessions)
	if err := checkVersion(b, idKey(s.SessionID), expectedVersion, session.ErrVersionConflict); err != nil {
		return err
	}
	s.Version = expectedVersion + 1
	return putJSON(b, idKey(s.SessionID), s)
}

// checkSessionVersion guards writes of records that depend on the session's state.
func checkSessionVersion(tx *bbolt.Tx, sessionID uuid.UUID, expected int64) error {
	return checkVersion(tx.Bucket(bucketSessions), idKey(sessionID), expected, session.ErrVersionConflict)
}

func normalizeSession(s *session.Session) {
	if st, err := session.ParseStatus(string(s.Status)); err == nil {
		s.Status = st
	}
}

// CounterOfferRepository implements session.CounterOfferRepository.
type CounterOfferRepository struct {
	store *Store
}

func NewCounterOfferRepository(store *Store) *CounterOfferRepository {
	return &CounterOfferRepository{store: store}
}

func (r *CounterOfferRepository) Create(ctx context.Context, c *session.CounterOffer, originVersion int64) error {
	return r.store.update(ctx, func(tx *bbolt.Tx) error {
		if err := checkSessionVersion(tx, c.OriginalSessionID, originVersion); err != nil {
			return err
		}
		if err := putJSON(tx.Bucket(bucketCounterOffers), idKey(c.CounterOfferID), c); err != nil {
			return err
		}
		return addIndex(tx, bucketOffersBySession, c.OriginalSessionID.String(), c.CounterOfferID)
	})
}

func (r *CounterOfferRepository) GetByID(ctx context.Context, counterOfferID uuid.UUID) (*session.CounterOffer, error) {
	var out *session.CounterOffer
	err := r.store.view(ctx, func(tx *bbolt.Tx) error {
		var c session.CounterOffer
		ok, err := getJSON(tx.Bucket(bucketCounterOffers), idKey(counterOfferID), &c)
		if ok {
			out = &c
		}
		return err
	})
	return out, err
}

func (r *CounterOfferRepository) Update(ctx context.Context, c *session.CounterOffer, expectedVersion int64) error {
	return r.store.update(ctx, func(tx *bbolt.Tx) error {
		return putCounterOffer(tx, c, expectedVersion)
	})
}

func (r *CounterOfferRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*session.CounterOffer, error) {
	var out []*session.CounterOffer
	err := r.store.view(ctx, func(tx *bbolt.Tx) error {
		list, err := loadIndexed[session.CounterOffer](tx, bucketOffersBySession, bucketCounterOffers, sessionID.String())
		out = list
		return err
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, err
}

func (r *CounterOfferRepository) Accept(ctx context.Context, c *session.CounterOffer, offerVersion int64, origin *session.Session, originVersion int64) (int, error) {
	superseded := 0
	err := r.store.update(ctx, func(tx *bbolt.Tx) error {
		superseded = 0
		if err := putCounterOffer(tx, c, offerVersion); err != nil {
			return err
		}
		if err := putSession(tx, origin, originVersion); err != nil {
			return err
		}
		siblings, err := loadIndexed[session.CounterOffer](tx, bucketOffersBySession, bucketCounterOffers, origin.SessionID.String())
		if err != nil {
			return err
		}
		for _, other := range siblings {
			if other.CounterOfferID == c.CounterOfferID {
				continue
			}
			expected := other.Version
			if !other.Supersede(c.UpdatedAt) {
				continue
			}
			if err := putCounterOffer(tx, other, expected); err != nil {
				return err
			}
			superseded++
		}
		return nil
	})
	if err != nil {
		// bbolt rolled the transaction back; undo the in-memory version bumps.
		c.Version, origin.Version = offerVersion, originVersion
		return 0, err
	}
	return superseded, nil
}

func putCounterOffer(tx *bbolt.Tx, c *session.CounterOffer, expectedVersion int64) error {
	b := tx.Bucket(bucketCounterOffers)
	if err := checkVersion(b, idKey(c.CounterOfferID), expectedVersion, session.ErrVersionConflict); err != nil {
		return err
	}
	c.Version = expectedVersion + 1
	return putJSON(b, idKey(c.CounterOfferID), c)
}

// WorkRepository implements session.WorkRepository.
type WorkRepository struct {
	store *Store
}

func NewWorkRepository(store *Store) *WorkRepository {
	return &WorkRepository{store: store}
}

func (r *WorkRepository) Create(ctx context.Context, w *session.WorkSubmission, sessionVersion int64) error {
	return r.store.update(ctx, func(tx *bbolt.Tx) error {
		if err := checkSessionVersion(tx, w.SessionID, sessionVersion); err != nil {
			return err
		}
		if err := putJSON(tx.Bucket(bucketWork), idKey(w.SubmissionID), w); err != nil {
			return err
		}
		return addIndex(tx, bucketWorkBySession, w.SessionID.String(), w.SubmissionID)
	})
}

func (r *WorkRepository) GetByID(ctx context.Context, submissionID uuid.UUID) (*session.WorkSubmission, error) {
	var out *session.WorkSubmission
	err := r.store.view(ctx, func(tx *bbolt.Tx) error {
		var w session.WorkSubmission
		ok, err := getJSON(tx.Bucket(bucketWork), idKey(submissionID), &w)
		if ok {
			out = &w
		}
		return err
	})
	return out, err
}

func (r *WorkRepository) Update(ctx context.Context, w *session.WorkSubmission, expectedVersion, sessionVersion int64) error {
	return r.store.update(ctx, func(tx *bbolt.Tx) error {
		if err := checkSessionVersion(tx, w.SessionID, sessionVersion); err != nil {
			return err
		}
		b := tx.Bucket(bucketWork)
		if err := checkVersion(b, idKey(w.SubmissionID), expectedVersion, session.ErrVersionConflict); err != nil {
			return err
		}
		w.Version = expectedVersion + 1
		return putJSON(b, idKey(w.SubmissionID), w)
	})
}

func (r *WorkRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*session.WorkSubmission, error) {
	var out []*session.WorkSubmission
	err := r.store.view(ctx, func(tx *bbolt.Tx) error {
		list, err := loadIndexed[session.WorkSubmission](tx, bucketWorkBySession, bucketWork, sessionID.String())
		out = list
		return err
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, err
}
