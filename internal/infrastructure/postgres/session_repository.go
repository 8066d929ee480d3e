package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillswap/skillswap/internal/domain/session"
)

// SessionRepository implements session.Repository.
type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

const sessionColumns = `session_id, user1_id, user2_id, skill_offered1, skill_offered2, description1, description2,
	start_date, expected_end_date, status, rejected_by, rejected_at, canceled_by, canceled_at,
	completion_requested_by, completion_requested_at, completion_approved_by, completion_approved_at,
	completion_rejected_by, completion_rejected_at, completion_rejection_reason, version, created_at, updated_at`

func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)
	`, s.SessionID, s.User1ID, s.User2ID, s.SkillOffered1, s.SkillOffered2, s.Description1, s.Description2,
		s.StartDate, s.ExpectedEndDate, s.Status, s.RejectedBy, s.RejectedAt, s.CanceledBy, s.CanceledAt,
		s.CompletionRequestedBy, s.CompletionRequestedAt, s.CompletionApprovedBy, s.CompletionApprovedAt,
		s.CompletionRejectedBy, s.CompletionRejectedAt, s.CompletionRejectionReason, s.Version, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID uuid.UUID) (*session.Session, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE session_id=$1`, sessionID)
	return scanSession(row)
}

func (r *SessionRepository) Update(ctx context.Context, s *session.Session, expectedVersion int64) error {
	return updateSession(ctx, r.pool, s, expectedVersion)
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter session.Filter) ([]*session.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE (user1_id=$1 OR user2_id=$1)`
	args := []interface{}{userID}
	if filter.Status != nil {
		if *filter.Status == session.StatusActive {
			query += ` AND status IN ('active', 'accepted')`
		} else {
			query += ` AND status=$2`
			args = append(args, *filter.Status)
		}
	}
	query += ` ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanSession)
}

func updateSession(ctx context.Context, q querier, s *session.Session, expectedVersion int64) error {
	tag, err := q.Exec(ctx, `
		UPDATE sessions SET
			skill_offered1=$1, skill_offered2=$2, description1=$3, description2=$4,
			start_date=$5, expected_end_date=$6, status=$7, rejected_by=$8, rejected_at=$9,
			canceled_by=$10, canceled_at=$11, completion_requested_by=$12, completion_requested_at=$13,
			completion_approved_by=$14, completion_approved_at=$15, completion_rejected_by=$16,
			completion_rejected_at=$17, completion_rejection_reason=$18, updated_at=$19, version=version+1
		WHERE session_id=$20 AND version=$21
	`, s.SkillOffered1, s.SkillOffered2, s.Description1, s.Description2,
		s.StartDate, s.ExpectedEndDate, s.Status, s.RejectedBy, s.RejectedAt,
		s.CanceledBy, s.CanceledAt, s.CompletionRequestedBy, s.CompletionRequestedAt,
		s.CompletionApprovedBy, s.CompletionApprovedAt, s.CompletionRejectedBy,
		s.CompletionRejectedAt, s.CompletionRejectionReason, s.UpdatedAt, s.SessionID, expectedVersion)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return session.ErrVersionConflict
	}
	s.Version = expectedVersion + 1
	return nil
}

func scanSession(row pgx.Row) (*session.Session, error) {
	var s session.Session
	var status string
	if err := row.Scan(&s.SessionID, &s.User1ID, &s.User2ID, &s.SkillOffered1, &s.SkillOffered2, &s.Description1, &s.Description2,
		&s.StartDate, &s.ExpectedEndDate, &status, &s.RejectedBy, &s.RejectedAt, &s.CanceledBy, &s.CanceledAt,
		&s.CompletionRequestedBy, &s.CompletionRequestedAt, &s.CompletionApprovedBy, &s.CompletionApprovedAt,
		&s.CompletionRejectedBy, &s.CompletionRejectedAt, &s.CompletionRejectionReason, &s.Version, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	st, err := session.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	s.Status = st
	return &s, nil
}

// lockSessionVersion share-locks the session row until the transaction ends
// and fails with a conflict unless it is still at expected. Concurrent
// session updates wait for the lock, so the dependent write commits against
// the state it was validated on.
func lockSessionVersion(ctx context.Context, tx pgx.Tx, sessionID uuid.UUID, expected int64) error {
	var version int64
	err := tx.QueryRow(ctx, `SELECT version FROM sessions WHERE session_id=$1 FOR SHARE`, sessionID).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return session.ErrVersionConflict
	}
	if err != nil {
		return err
	}
	if version != expected {
		return session.ErrVersionConflict
	}
	return nil
}

// CounterOfferRepository implements session.CounterOfferRepository.
type CounterOfferRepository struct {
	pool *pgxpool.Pool
}

func NewCounterOfferRepository(pool *pgxpool.Pool) *CounterOfferRepository {
	return &CounterOfferRepository{pool: pool}
}

const counterOfferColumns = `counter_offer_id, original_session_id, counter_offered_by, message,
	skill_offered1, skill_offered2, description1, description2, start_date, expected_end_date,
	status, resolved_by, resolved_at, version, created_at, updated_at`

func (r *CounterOfferRepository) Create(ctx context.Context, c *session.CounterOffer, originVersion int64) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := lockSessionVersion(ctx, tx, c.OriginalSessionID, originVersion); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO counter_offers (`+counterOfferColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		`, c.CounterOfferID, c.OriginalSessionID, c.CounterOfferedBy, c.Message,
			c.Terms.SkillOffered1, c.Terms.SkillOffered2, c.Terms.Description1, c.Terms.Description2,
			c.Terms.StartDate, c.Terms.ExpectedEndDate, c.Status, c.ResolvedBy, c.ResolvedAt, c.Version, c.CreatedAt, c.UpdatedAt)
		return err
	})
}

func (r *CounterOfferRepository) GetByID(ctx context.Context, counterOfferID uuid.UUID) (*session.CounterOffer, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+counterOfferColumns+` FROM counter_offers WHERE counter_offer_id=$1`, counterOfferID)
	return scanCounterOffer(row)
}

func (r *CounterOfferRepository) Update(ctx context.Context, c *session.CounterOffer, expectedVersion int64) error {
	return updateCounterOffer(ctx, r.pool, c, expectedVersion)
}

func (r *CounterOfferRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*session.CounterOffer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+counterOfferColumns+` FROM counter_offers
		WHERE original_session_id=$1 ORDER BY created_at
	`, sessionID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCounterOffer)
}

func (r *CounterOfferRepository) Accept(ctx context.Context, c *session.CounterOffer, offerVersion int64, origin *session.Session, originVersion int64) (int, error) {
	superseded := 0
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := updateCounterOffer(ctx, tx, c, offerVersion); err != nil {
			return err
		}
		if err := updateSession(ctx, tx, origin, originVersion); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `
			UPDATE counter_offers SET status=$1, resolved_at=$2, updated_at=$2, version=version+1
			WHERE original_session_id=$3 AND counter_offer_id<>$4 AND status=$5
		`, session.CounterOfferSuperseded, c.UpdatedAt, origin.SessionID, c.CounterOfferID, session.CounterOfferPending)
		if err != nil {
			return err
		}
		superseded = int(tag.RowsAffected())
		return nil
	})
	if err != nil {
		c.Version, origin.Version = offerVersion, originVersion
		return 0, err
	}
	return superseded, nil
}

func updateCounterOffer(ctx context.Context, q querier, c *session.CounterOffer, expectedVersion int64) error {
	tag, err := q.Exec(ctx, `
		UPDATE counter_offers SET status=$1, resolved_by=$2, resolved_at=$3, updated_at=$4, version=version+1
		WHERE counter_offer_id=$5 AND version=$6
	`, c.Status, c.ResolvedBy, c.ResolvedAt, c.UpdatedAt, c.CounterOfferID, expectedVersion)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return session.ErrVersionConflict
	}
	c.Version = expectedVersion + 1
	return nil
}

func scanCounterOffer(row pgx.Row) (*session.CounterOffer, error) {
	var c session.CounterOffer
	if err := row.Scan(&c.CounterOfferID, &c.OriginalSessionID, &c.CounterOfferedBy, &c.Message,
		&c.Terms.SkillOffered1, &c.Terms.SkillOffered2, &c.Terms.Description1, &c.Terms.Description2,
		&c.Terms.StartDate, &c.Terms.ExpectedEndDate, &c.Status, &c.ResolvedBy, &c.ResolvedAt,
		&c.Version, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// WorkRepository implements session.WorkRepository.
type WorkRepository struct {
	pool *pgxpool.Pool
}

func NewWorkRepository(pool *pgxpool.Pool) *WorkRepository {
	return &WorkRepository{pool: pool}
}

const workColumns = `submission_id, session_id, submitted_by, title, description, attachment_url,
	status, reviewed_by, feedback, version, created_at, reviewed_at`

func (r *WorkRepository) Create(ctx context.Context, w *session.WorkSubmission, sessionVersion int64) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := lockSessionVersion(ctx, tx, w.SessionID, sessionVersion); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO work_submissions (`+workColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		`, w.SubmissionID, w.SessionID, w.SubmittedBy, w.Title, w.Description, w.AttachmentURL,
			w.Status, w.ReviewedBy, w.Feedback, w.Version, w.CreatedAt, w.ReviewedAt)
		return err
	})
}

func (r *WorkRepository) GetByID(ctx context.Context, submissionID uuid.UUID) (*session.WorkSubmission, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+workColumns+` FROM work_submissions WHERE submission_id=$1`, submissionID)
	return scanWork(row)
}

func (r *WorkRepository) Update(ctx context.Context, w *session.WorkSubmission, expectedVersion, sessionVersion int64) error {
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := lockSessionVersion(ctx, tx, w.SessionID, sessionVersion); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `
			UPDATE work_submissions SET status=$1, reviewed_by=$2, feedback=$3, reviewed_at=$4, version=version+1
			WHERE submission_id=$5 AND version=$6
		`, w.Status, w.ReviewedBy, w.Feedback, w.ReviewedAt, w.SubmissionID, expectedVersion)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return session.ErrVersionConflict
		}
		return nil
	})
	if err != nil {
		return err
	}
	w.Version = expectedVersion + 1
	return nil
}

func (r *WorkRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*session.WorkSubmission, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+workColumns+` FROM work_submissions
		WHERE session_id=$1 ORDER BY created_at
	`, sessionID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanWork)
}

func scanWork(row pgx.Row) (*session.WorkSubmission, error) {
	var w session.WorkSubmission
	if err := row.Scan(&w.SubmissionID, &w.SessionID, &w.SubmittedBy, &w.Title, &w.Description, &w.AttachmentURL,
		&w.Status, &w.ReviewedBy, &w.Feedback, &w.Version, &w.CreatedAt, &w.ReviewedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}
