package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillswap/skillswap/internal/domain/meeting"
)

// MeetingRepository implements meeting.Repository.
type MeetingRepository struct {
	pool *pgxpool.Pool
}

func NewMeetingRepository(pool *pgxpool.Pool) *MeetingRepository {
	return &MeetingRepository{pool: pool}
}

const meetingColumns = `meeting_id, sender_id, receiver_id, description, meeting_time, state,
	responded_at, cancelled_by, cancelled_at, completed_at, version, created_at, updated_at`

// CreateWithinLimit serializes creations per unordered pair with a
// transaction-scoped advisory lock, then counts and inserts.
func (r *MeetingRepository) CreateWithinLimit(ctx context.Context, m *meeting.Meeting, limit int, now time.Time) error {
	a, b := m.SenderID.String(), m.ReceiverID.String()
	if a > b {
		a, b = b, a
	}
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1), hashtext($2))`, a, b); err != nil {
			return err
		}
		var active int
		err := tx.QueryRow(ctx, `
			SELECT COUNT(*) FROM meetings
			WHERE ((sender_id=$1 AND receiver_id=$2) OR (sender_id=$2 AND receiver_id=$1))
			  AND (state=$3 OR (state=$4 AND meeting_time > $5))
		`, m.SenderID, m.ReceiverID, meeting.StatePending, meeting.StateAccepted, now).Scan(&active)
		if err != nil {
			return err
		}
		if active >= limit {
			return meeting.ErrCapacityReached
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO meetings (`+meetingColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		`, m.MeetingID, m.SenderID, m.ReceiverID, m.Description, m.MeetingTime, m.State,
			m.RespondedAt, m.CancelledBy, m.CancelledAt, m.CompletedAt, m.Version, m.CreatedAt, m.UpdatedAt)
		return err
	})
}

func (r *MeetingRepository) GetByID(ctx context.Context, meetingID uuid.UUID) (*meeting.Meeting, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+meetingColumns+` FROM meetings WHERE meeting_id=$1`, meetingID)
	return scanMeeting(row)
}

func (r *MeetingRepository) Update(ctx context.Context, m *meeting.Meeting, expectedVersion int64) error {
	return updateMeeting(ctx, r.pool, m, expectedVersion)
}

func (r *MeetingRepository) Cancel(ctx context.Context, m *meeting.Meeting, expectedVersion int64, notice *meeting.Cancellation) error {
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := updateMeeting(ctx, tx, m, expectedVersion); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO meeting_cancellations
			(cancellation_id, meeting_id, cancelled_by, recipient_id, reason, acknowledged, acknowledged_at, version, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		`, notice.CancellationID, notice.MeetingID, notice.CancelledBy, notice.RecipientID, notice.Reason,
			notice.Acknowledged, notice.AcknowledgedAt, notice.Version, notice.CreatedAt)
		return err
	})
	if err != nil {
		m.Version = expectedVersion
	}
	return err
}

func (r *MeetingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*meeting.Meeting, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+meetingColumns+` FROM meetings
		WHERE sender_id=$1 OR receiver_id=$1
		ORDER BY meeting_time
	`, userID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanMeeting)
}

func (r *MeetingRepository) ListAcceptedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*meeting.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE state=$1 AND meeting_time < $2 ORDER BY meeting_time`
	args := []interface{}{meeting.StateAccepted, cutoff}
	if limit > 0 {
		query += " LIMIT $3"
		args = append(args, limit)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanMeeting)
}

func updateMeeting(ctx context.Context, q querier, m *meeting.Meeting, expectedVersion int64) error {
	tag, err := q.Exec(ctx, `
		UPDATE meetings SET state=$1, responded_at=$2, cancelled_by=$3, cancelled_at=$4,
			completed_at=$5, updated_at=$6, version=version+1
		WHERE meeting_id=$7 AND version=$8
	`, m.State, m.RespondedAt, m.CancelledBy, m.CancelledAt, m.CompletedAt, m.UpdatedAt, m.MeetingID, expectedVersion)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return meeting.ErrVersionConflict
	}
	m.Version = expectedVersion + 1
	return nil
}

func scanMeeting(row pgx.Row) (*meeting.Meeting, error) {
	var m meeting.Meeting
	if err := row.Scan(&m.MeetingID, &m.SenderID, &m.ReceiverID, &m.Description, &m.MeetingTime, &m.State,
		&m.RespondedAt, &m.CancelledBy, &m.CancelledAt, &m.CompletedAt, &m.Version, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// CancellationRepository implements meeting.CancellationRepository.
type CancellationRepository struct {
	pool *pgxpool.Pool
}

func NewCancellationRepository(pool *pgxpool.Pool) *CancellationRepository {
	return &CancellationRepository{pool: pool}
}

const cancellationColumns = `cancellation_id, meeting_id, cancelled_by, recipient_id, reason,
	acknowledged, acknowledged_at, version, created_at`

func (r *CancellationRepository) GetByID(ctx context.Context, cancellationID uuid.UUID) (*meeting.Cancellation, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+cancellationColumns+` FROM meeting_cancellations WHERE cancellation_id=$1`, cancellationID)
	return scanCancellation(row)
}

func (r *CancellationRepository) Update(ctx context.Context, c *meeting.Cancellation, expectedVersion int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE meeting_cancellations SET acknowledged=$1, acknowledged_at=$2, version=version+1
		WHERE cancellation_id=$3 AND version=$4
	`, c.Acknowledged, c.AcknowledgedAt, c.CancellationID, expectedVersion)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return meeting.ErrVersionConflict
	}
	c.Version = expectedVersion + 1
	return nil
}

func (r *CancellationRepository) ListForRecipient(ctx context.Context, userID uuid.UUID, unacknowledgedOnly bool) ([]*meeting.Cancellation, error) {
	query := `SELECT ` + cancellationColumns + ` FROM meeting_cancellations WHERE recipient_id=$1`
	if unacknowledgedOnly {
		query += " AND NOT acknowledged"
	}
	query += " ORDER BY created_at DESC"
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCancellation)
}

func scanCancellation(row pgx.Row) (*meeting.Cancellation, error) {
	var c meeting.Cancellation
	if err := row.Scan(&c.CancellationID, &c.MeetingID, &c.CancelledBy, &c.RecipientID, &c.Reason,
		&c.Acknowledged, &c.AcknowledgedAt, &c.Version, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
