package bolt

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/skillswap/skillswap/internal/domain/review"
)

// ReviewRepository implements review.Repository.
type ReviewRepository struct {
	store *Store
}

func NewReviewRepository(store *Store) *ReviewRepository {
	return &ReviewRepository{store: store}
}

func reviewKey(reviewerID, sessionID uuid.UUID) []byte {
	return []byte(reviewerID.String() + ":" + sessionID.String())
}

func (r *ReviewRepository) Create(ctx context.Context, rv *review.Review) error {
	return r.store.update(ctx, func(tx *bbolt.Tx) error {
		keys := tx.Bucket(bucketReviewKeys)
		key := reviewKey(rv.ReviewerID, rv.SessionID)
		if keys.Get(key) != nil {
			return review.ErrDuplicate
		}
		if err := keys.Put(key, idKey(rv.ReviewID)); err != nil {
			return err
		}
		if err := putJSON(tx.Bucket(bucketReviews), idKey(rv.ReviewID), rv); err != nil {
			return err
		}
		if err := addIndex(tx, bucketReviewsByReviewee, rv.RevieweeID.String(), rv.ReviewID); err != nil {
			return err
		}
		if err := addIndex(tx, bucketReviewsBySkill, rv.SkillID.String(), rv.ReviewID); err != nil {
			return err
		}
		return addIndex(tx, bucketReviewsBySession, rv.SessionID.String(), rv.ReviewID)
	})
}

func (r *ReviewRepository) GetByReviewerAndSession(ctx context.Context, reviewerID, sessionID uuid.UUID) (*review.Review, error) {
	var out *review.Review
	err := r.store.view(ctx, func(tx *bbolt.Tx) error {
		id := tx.Bucket(bucketReviewKeys).Get(reviewKey(reviewerID, sessionID))
		if id == nil {
			return nil
		}
		var rv review.Review
		ok, err := getJSON(tx.Bucket(bucketReviews), id, &rv)
		if ok {
			out = &rv
		}
		return err
	})
	return out, err
}

func (r *ReviewRepository) List(ctx context.Context, filter review.Filter) ([]*review.Review, error) {
	var out []*review.Review
	err := r.store.view(ctx, func(tx *bbolt.Tx) error {
		var (
			list []*review.Review
			err  error
		)
		switch {
		case filter.RevieweeID != nil:
			list, err = loadIndexed[review.Review](tx, bucketReviewsByReviewee, bucketReviews, filter.RevieweeID.String())
		case filter.SkillID != nil:
			list, err = loadIndexed[review.Review](tx, bucketReviewsBySkill, bucketReviews, filter.SkillID.String())
		case filter.SessionID != nil:
			list, err = loadIndexed[review.Review](tx, bucketReviewsBySession, bucketReviews, filter.SessionID.String())
		default:
			return nil
		}
		if err != nil {
			return err
		}
		for _, rv := range list {
			if matchesReview(rv, filter) {
				out = append(out, rv)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

func matchesReview(rv *review.Review, f review.Filter) bool {
	if f.RevieweeID != nil && rv.RevieweeID != *f.RevieweeID {
		return false
	}
	if f.SkillID != nil && rv.SkillID != *f.SkillID {
		return false
	}
	if f.SessionID != nil && rv.SessionID != *f.SessionID {
		return false
	}
	return true
}
