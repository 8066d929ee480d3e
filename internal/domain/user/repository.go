package user

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Repository,SkillRepository,Directory

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence for users.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	ListByIDs(ctx context.Context, userIDs []uuid.UUID) ([]*User, error)
}

// SkillRepository defines persistence for offered skills.
type SkillRepository interface {
	Create(ctx context.Context, skill *Skill) error
	GetByID(ctx context.Context, skillID uuid.UUID) (*Skill, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Skill, error)
}

// Directory answers profile questions for other modules.
type Directory interface {
	SkillBelongsTo(ctx context.Context, skillID, ownerID uuid.UUID) (bool, error)
	Summaries(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]Summary, error)
}
