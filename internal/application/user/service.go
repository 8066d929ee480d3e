package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/skillswap/skillswap/internal/domain/apperr"
	domain "github.com/skillswap/skillswap/internal/domain/user"
)

// Service handles registration, the skill catalogue and profile lookups.
type Service struct {
	repo   domain.Repository
	skills domain.SkillRepository
	now    func() time.Time
	logger zerolog.Logger
}

var _ domain.Directory = (*Service)(nil)

// NewService creates a user service.
func NewService(repo domain.Repository, skills domain.SkillRepository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		skills: skills,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.With().Str("service", "user").Logger(),
	}
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// RegisterInput defines user registration input.
type RegisterInput struct {
	Username    string
	DisplayName string
	Password    string
}

// Register creates an active user.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	username := domain.NormalizeUsername(input.Username)
	if err := domain.ValidateUsername(username); err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}
	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = username
	}
	if err := domain.ValidateDisplayName(displayName); err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}
	if err := domain.ValidatePassword(input.Password, username); err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}

	hash, err := domain.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	u := &domain.User{
		UserID:       uuid.New(),
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: hash,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return nil, apperr.Validation("username %q is already taken", username)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().Str("user_id", u.UserID.String()).Str("username", u.Username).Msg("user created")
	return u, nil
}

func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, apperr.NotFound("user", userID)
	}
	return u, nil
}

// SkillInput defines a new offered skill.
type SkillInput struct {
	OwnerID  uuid.UUID
	Name     string
	Category string
}

// CreateSkill adds a skill to the owner's catalogue.
func (s *Service) CreateSkill(ctx context.Context, input SkillInput) (*domain.Skill, error) {
	if err := domain.ValidateSkillName(input.Name); err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}
	if _, err := s.GetUser(ctx, input.OwnerID); err != nil {
		return nil, err
	}
	sk := &domain.Skill{
		SkillID:   uuid.New(),
		OwnerID:   input.OwnerID,
		Name:      strings.TrimSpace(input.Name),
		Category:  strings.TrimSpace(input.Category),
		CreatedAt: s.now(),
	}
	if err := s.skills.Create(ctx, sk); err != nil {
		return nil, fmt.Errorf("create skill: %w", err)
	}
	s.logger.Info().Str("skill_id", sk.SkillID.String()).Str("owner_id", sk.OwnerID.String()).Msg("skill created")
	return sk, nil
}

// ListSkills returns the skills offered by ownerID.
func (s *Service) ListSkills(ctx context.Context, ownerID uuid.UUID) ([]*domain.Skill, error) {
	list, err := s.skills.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	if list == nil {
		list = []*domain.Skill{}
	}
	return list, nil
}

// SkillBelongsTo reports whether skillID is offered by ownerID.
func (s *Service) SkillBelongsTo(ctx context.Context, skillID, ownerID uuid.UUID) (bool, error) {
	sk, err := s.skills.GetByID(ctx, skillID)
	if err != nil {
		return false, err
	}
	return sk != nil && sk.OwnerID == ownerID, nil
}

// Summaries returns public profiles for the given users. Unknown ids are omitted.
func (s *Service) Summaries(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]domain.Summary, error) {
	out := make(map[uuid.UUID]domain.Summary, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	users, err := s.repo.ListByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.UserID] = u.Summary()
	}
	return out, nil
}
