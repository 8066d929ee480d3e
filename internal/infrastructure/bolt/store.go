package bolt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

var (
	bucketUsers                 = []byte("users")
	bucketUsernames             = []byte("usernames")
	bucketSkills                = []byte("skills")
	bucketSkillsByOwner         = []byte("skills_by_owner")
	bucketSessions              = []byte("sessions")
	bucketSessionsByUser        = []byte("sessions_by_user")
	bucketCounterOffers         = []byte("counter_offers")
	bucketOffersBySession       = []byte("counter_offers_by_session")
	bucketWork                  = []byte("work_submissions")
	bucketWorkBySession         = []byte("work_by_session")
	bucketReviews               = []byte("reviews")
	bucketReviewKeys            = []byte("review_keys")
	bucketReviewsByReviewee     = []byte("reviews_by_reviewee")
	bucketReviewsBySkill        = []byte("reviews_by_skill")
	bucketReviewsBySession      = []byte("reviews_by_session")
	bucketMeetings              = []byte("meetings")
	bucketMeetingsByUser        = []byte("meetings_by_user")
	bucketMeetingsByPair        = []byte("meetings_by_pair")
	bucketCancellations         = []byte("meeting_cancellations")
	bucketCancellationsByTarget = []byte("cancellations_by_recipient")
)

var allBuckets = [][]byte{
	bucketUsers, bucketUsernames, bucketSkills, bucketSkillsByOwner,
	bucketSessions, bucketSessionsByUser, bucketCounterOffers, bucketOffersBySession,
	bucketWork, bucketWorkBySession,
	bucketReviews, bucketReviewKeys, bucketReviewsByReviewee, bucketReviewsBySkill, bucketReviewsBySession,
	bucketMeetings, bucketMeetingsByUser, bucketMeetingsByPair,
	bucketCancellations, bucketCancellationsByTarget,
}

// Store is an embedded single-file store. Values are JSON documents keyed by
// id; secondary index buckets hold "<owner>/<id>" keys with empty values.
// bbolt serializes write transactions, which makes every version check and
// multi-record write below atomic.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the database file at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is still usable.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketUsers) == nil {
			return fmt.Errorf("bucket %s missing", bucketUsers)
		}
		return nil
	})
}

func (s *Store) view(ctx context.Context, fn func(tx *bbolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(fn)
}

func (s *Store) update(ctx context.Context, fn func(tx *bbolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(fn)
}

func idKey(id uuid.UUID) []byte {
	return []byte(id.String())
}

func indexKey(owner string, id uuid.UUID) []byte {
	return []byte(owner + "/" + id.String())
}

func putJSON(b *bbolt.Bucket, key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put(key, data)
}

// getJSON decodes the value at key into v and reports whether it existed.
func getJSON(b *bbolt.Bucket, key []byte, v interface{}) (bool, error) {
	data := b.Get(key)
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func addIndex(tx *bbolt.Tx, bucket []byte, owner string, id uuid.UUID) error {
	return tx.Bucket(bucket).Put(indexKey(owner, id), []byte{})
}

// indexed returns the ids filed under owner in an index bucket.
func indexed(tx *bbolt.Tx, bucket []byte, owner string) []uuid.UUID {
	prefix := []byte(owner + "/")
	var ids []uuid.UUID
	c := tx.Bucket(bucket).Cursor()
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		id, err := uuid.ParseBytes(k[len(prefix):])
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// loadIndexed decodes every record of bucket referenced from index under owner.
func loadIndexed[T any](tx *bbolt.Tx, index, bucket []byte, owner string) ([]*T, error) {
	b := tx.Bucket(bucket)
	var out []*T
	for _, id := range indexed(tx, index, owner) {
		var v T
		ok, err := getJSON(b, idKey(id), &v)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, &v)
		}
	}
	return out, nil
}

// checkVersion fails with conflict unless the record at key exists with the
// expected version.
func checkVersion(b *bbolt.Bucket, key []byte, expected int64, conflict error) error {
	var stored versionDoc
	ok, err := getJSON(b, key, &stored)
	if err != nil {
		return err
	}
	if !ok || stored.Version != expected {
		return conflict
	}
	return nil
}

type versionDoc struct {
	Version int64 `json:"version"`
}

// pairKey orders two user ids so both directions of a pair share one key.
func pairKey(a, b uuid.UUID) string {
	x, y := a.String(), b.String()
	if x > y {
		x, y = y, x
	}
	return x + ":" + y
}
