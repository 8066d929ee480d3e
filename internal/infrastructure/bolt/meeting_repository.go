package bolt

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/skillswap/skillswap/internal/domain/meeting"
)

// MeetingRepository implements meeting.Repository.
type MeetingRepository struct {
	store *Store
}

func NewMeetingRepository(store *Store) *MeetingRepository {
	return &MeetingRepository{store: store}
}

func (r *MeetingRepository) CreateWithinLimit(ctx context.Context, m *meeting.Meeting, limit int, now time.Time) error {
	return r.store.update(ctx, func(tx *bbolt.Tx) error {
		pair := pairKey(m.SenderID, m.ReceiverID)
		existing, err := loadIndexed[meeting.Meeting](tx, bucketMeetingsByPair, bucketMeetings, pair)
		if err != nil {
			return err
		}
		active := 0
		for _, other := range existing {
			if other.IsActive(now) {
				active++
			}
		}
		if active >= limit {
			return meeting.ErrCapacityReached
		}
		if err := putJSON(tx.Bucket(bucketMeetings), idKey(m.MeetingID), m); err != nil {
			return err
		}
		if err := addIndex(tx, bucketMeetingsByPair, pair, m.MeetingID); err != nil {
			return err
		}
		if err := addIndex(tx, bucketMeetingsByUser, m.SenderID.String(), m.MeetingID); err != nil {
			return err
		}
		return addIndex(tx, bucketMeetingsByUser, m.ReceiverID.String(), m.MeetingID)
	})
}

func (r *MeetingRepository) GetByID(ctx context.Context, meetingID uuid.UUID) (*meeting.Meeting, error) {
	var out *meeting.Meeting
	err := r.store.view(ctx, func(tx *bbolt.Tx) error {
		var m meeting.Meeting
		ok, err := getJSON(tx.Bucket(bucketMeetings), idKey(meetingID), &m)
		if ok {
			out = &m
		}
		return err
	})
	return out, err
}

func (r *MeetingRepository) Update(ctx context.Context, m *meeting.Meeting, expectedVersion int64) error {
	return r.store.update(ctx, func(tx *bbolt.Tx) error {
		return putMeeting(tx, m, expectedVersion)
	})
}

func (r *MeetingRepository) Cancel(ctx context.Context, m *meeting.Meeting, expectedVersion int64, notice *meeting.Cancellation) error {
	err := r.store.update(ctx, func(tx *bbolt.Tx) error {
		if err := putMeeting(tx, m, expectedVersion); err != nil {
			return err
		}
		if err := putJSON(tx.Bucket(bucketCancellations), idKey(notice.CancellationID), notice); err != nil {
			return err
		}
		return addIndex(tx, bucketCancellationsByTarget, notice.RecipientID.String(), notice.CancellationID)
	})
	if err != nil {
		m.Version = expectedVersion
	}
	return err
}

func (r *MeetingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*meeting.Meeting, error) {
	var out []*meeting.Meeting
	err := r.store.view(ctx, func(tx *bbolt.Tx) error {
		list, err := loadIndexed[meeting.Meeting](tx, bucketMeetingsByUser, bucketMeetings, userID.String())
		out = list
		return err
	})
	sort.Slice(out, func(i, j int) bool { return out[i].MeetingTime.Before(out[j].MeetingTime) })
	return out, err
}

func (r *MeetingRepository) ListAcceptedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*meeting.Meeting, error) {
	var out []*meeting.Meeting
	err := r.store.view(ctx, func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMeetings).ForEach(func(_, v []byte) error {
			var m meeting.Meeting
			if err := json.Unmarshal(v, &m); err != nil {
				return err
			}
			if m.State == meeting.StateAccepted && m.MeetingTime.Before(cutoff) {
				out = append(out, &m)
			}
			return nil
		})
	})
	sort.Slice(out, func(i, j int) bool { return out[i].MeetingTime.Before(out[j].MeetingTime) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func putMeeting(tx *bbolt.Tx, m *meeting.Meeting, expectedVersion int64) error {
	b := tx.Bucket(bucketMeetings)
	if err := checkVersion(b, idKey(m.MeetingID), expectedVersion, meeting.ErrVersionConflict); err != nil {
		return err
	}
	m.Version = expectedVersion + 1
	return putJSON(b, idKey(m.MeetingID), m)
}

// CancellationRepository implements meeting.CancellationRepository.
type CancellationRepository struct {
	store *Store
}

func NewCancellationRepository(store *Store) *CancellationRepository {
	return &CancellationRepository{store: store}
}

func (r *CancellationRepository) GetByID(ctx context.Context, cancellationID uuid.UUID) (*meeting.Cancellation, error) {
	var out *meeting.Cancellation
	err := r.store.view(ctx, func(tx *bbolt.Tx) error {
		var c meeting.Cancellation
		ok, err := getJSON(tx.Bucket(bucketCancellations), idKey(cancellationID), &c)
		if ok {
			out = &c
		}
		return err
	})
	return out, err
}

func (r *CancellationRepository) Update(ctx context.Context, c *meeting.Cancellation, expectedVersion int64) error {
	return r.store.update(ctx, func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketCancellations)
		if err := checkVersion(b, idKey(c.CancellationID), expectedVersion, meeting.ErrVersionConflict); err != nil {
			return err
		}
		c.Version = expectedVersion + 1
		return putJSON(b, idKey(c.CancellationID), c)
	})
}

func (r *CancellationRepository) ListForRecipient(ctx context.Context, userID uuid.UUID, unacknowledgedOnly bool) ([]*meeting.Cancellation, error) {
	var out []*meeting.Cancellation
	err := r.store.view(ctx, func(tx *bbolt.Tx) error {
		list, err := loadIndexed[meeting.Cancellation](tx, bucketCancellationsByTarget, bucketCancellations, userID.String())
		if err != nil {
			return err
		}
		for _, c := range list {
			if unacknowledgedOnly && c.Acknowledged {
				continue
			}
			out = append(out, c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}
