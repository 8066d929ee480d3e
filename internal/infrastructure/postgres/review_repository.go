package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillswap/skillswap/internal/domain/review"
)

// ReviewRepository implements review.Repository.
type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

const reviewColumns = `review_id, session_id, reviewer_id, reviewee_id, skill_id, rating, comment, review_type, created_at`

func (r *ReviewRepository) Create(ctx context.Context, rv *review.Review) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO reviews (`+reviewColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, rv.ReviewID, rv.SessionID, rv.ReviewerID, rv.RevieweeID, rv.SkillID, rv.Rating, rv.Comment, rv.Type, rv.CreatedAt)
	if isUniqueViolation(err) {
		return review.ErrDuplicate
	}
	return err
}

func (r *ReviewRepository) GetByReviewerAndSession(ctx context.Context, reviewerID, sessionID uuid.UUID) (*review.Review, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+reviewColumns+` FROM reviews WHERE reviewer_id=$1 AND session_id=$2
	`, reviewerID, sessionID)
	return scanReview(row)
}

func (r *ReviewRepository) List(ctx context.Context, filter review.Filter) ([]*review.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews`
	args := []interface{}{}
	if filter.RevieweeID != nil {
		args = append(args, *filter.RevieweeID)
		query += addWhere(query) + " reviewee_id=$" + itoa(len(args))
	}
	if filter.SkillID != nil {
		args = append(args, *filter.SkillID)
		query += addWhere(query) + " skill_id=$" + itoa(len(args))
	}
	if filter.SessionID != nil {
		args = append(args, *filter.SessionID)
		query += addWhere(query) + " session_id=$" + itoa(len(args))
	}
	if len(args) == 0 {
		return nil, nil
	}
	query += " ORDER BY created_at DESC"
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanReview)
}

func scanReview(row pgx.Row) (*review.Review, error) {
	var rv review.Review
	if err := row.Scan(&rv.ReviewID, &rv.SessionID, &rv.ReviewerID, &rv.RevieweeID, &rv.SkillID,
		&rv.Rating, &rv.Comment, &rv.Type, &rv.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rv, nil
}
