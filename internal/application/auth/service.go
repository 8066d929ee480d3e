package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/skillswap/skillswap/internal/domain/apperr"
	domainUser "github.com/skillswap/skillswap/internal/domain/user"
)

const issuer = "skillswap"

// Service handles authentication.
type Service struct {
	userRepo domainUser.Repository
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
	logger   zerolog.Logger
}

// NewService creates an auth service.
func NewService(userRepo domainUser.Repository, secret string, tokenTTL time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

// LoginResult contains login response.
type LoginResult struct {
	User      *domainUser.User
	Token     string
	ExpiresAt time.Time
}

// Login authenticates a user and issues a signed access token.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = domainUser.NormalizeUsername(username)
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, apperr.Unauthenticated("invalid username or password")
	}
	if !u.IsActive() {
		return nil, apperr.Unauthenticated("user is disabled")
	}
	if !domainUser.VerifyPassword(u.PasswordHash, password) {
		return nil, apperr.Unauthenticated("invalid username or password")
	}

	token, expiresAt, err := s.IssueToken(u)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", u.UserID.String()).Msg("user login")
	return &LoginResult{User: u, Token: token, ExpiresAt: expiresAt}, nil
}

// IssueToken signs an HS256 token whose subject is the user id.
func (s *Service) IssueToken(u *domainUser.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   u.UserID.String(),
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Authenticate validates a token and returns the active user behind it.
func (s *Service) Authenticate(ctx context.Context, token string) (*domainUser.User, error) {
	if token == "" {
		return nil, apperr.Unauthenticated("missing token")
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, apperr.Unauthenticated("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperr.Unauthenticated("invalid token subject")
	}
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil || !u.IsActive() {
		return nil, apperr.Unauthenticated("user not active")
	}
	return u, nil
}
