package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillswap/skillswap/internal/domain/user"
)

// UserRepository implements user.Repository.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `user_id, username, display_name, password_hash, status, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users
		(user_id, username, display_name, password_hash, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, u.UserID, u.Username, u.DisplayName, u.PasswordHash, u.Status, u.CreatedAt, u.UpdatedAt)
	if isUniqueViolation(err) {
		return user.ErrUsernameTaken
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE user_id=$1`, userID)
	return scanUser(row)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username=$1`, username)
	return scanUser(row)
}

func (r *UserRepository) ListByIDs(ctx context.Context, userIDs []uuid.UUID) ([]*user.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = ANY($1)`, userIDs)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanUser)
}

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	if err := row.Scan(&u.UserID, &u.Username, &u.DisplayName, &u.PasswordHash, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// SkillRepository implements user.SkillRepository.
type SkillRepository struct {
	pool *pgxpool.Pool
}

func NewSkillRepository(pool *pgxpool.Pool) *SkillRepository {
	return &SkillRepository{pool: pool}
}

func (r *SkillRepository) Create(ctx context.Context, sk *user.Skill) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO skills (skill_id, owner_id, name, category, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, sk.SkillID, sk.OwnerID, sk.Name, sk.Category, sk.CreatedAt)
	return err
}

func (r *SkillRepository) GetByID(ctx context.Context, skillID uuid.UUID) (*user.Skill, error) {
	row := r.pool.QueryRow(ctx, `SELECT skill_id, owner_id, name, category, created_at FROM skills WHERE skill_id=$1`, skillID)
	return scanSkill(row)
}

func (r *SkillRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*user.Skill, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT skill_id, owner_id, name, category, created_at
		FROM skills WHERE owner_id=$1 ORDER BY created_at
	`, ownerID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanSkill)
}

func scanSkill(row pgx.Row) (*user.Skill, error) {
	var sk user.Skill
	if err := row.Scan(&sk.SkillID, &sk.OwnerID, &sk.Name, &sk.Category, &sk.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &sk, nil
}
