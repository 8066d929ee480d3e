package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/skillswap/skillswap/internal/domain/apperr"
	domainUser "github.com/skillswap/skillswap/internal/domain/user"
	"github.com/skillswap/skillswap/internal/domain/user/mocks"
)

const (
	testSecret   = "0123456789abcdef0123456789abcdef"
	testPassword = "Sup3r-Secret!pw"
)

func activeUser(t *testing.T) *domainUser.User {
	t.Helper()
	hash, err := domainUser.HashPassword(testPassword)
	require.NoError(t, err)
	return &domainUser.User{
		UserID:       uuid.New(),
		Username:     "linus",
		DisplayName:  "Linus",
		PasswordHash: hash,
		Status:       domainUser.StatusActive,
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	u := activeUser(t)
	svc := NewService(repo, testSecret, time.Hour, zerolog.Nop())

	repo.EXPECT().GetByUsername(gomock.Any(), "linus").Return(u, nil)
	repo.EXPECT().GetByID(gomock.Any(), u.UserID).Return(u, nil)

	result, err := svc.Login(context.Background(), "  Linus ", testPassword)
	require.NoError(t, err)
	assert.Equal(t, u.UserID, result.User.UserID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), result.ExpiresAt, 5*time.Second)

	got, err := svc.Authenticate(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, u.UserID, got.UserID)
}

func TestLoginFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	svc := NewService(repo, testSecret, time.Hour, zerolog.Nop())
	u := activeUser(t)
	disabled := activeUser(t)
	disabled.Username = "ghost"
	disabled.Status = domainUser.StatusDisabled

	repo.EXPECT().GetByUsername(gomock.Any(), "nobody").Return(nil, nil)
	repo.EXPECT().GetByUsername(gomock.Any(), "linus").Return(u, nil)
	repo.EXPECT().GetByUsername(gomock.Any(), "ghost").Return(disabled, nil)

	_, err := svc.Login(context.Background(), "nobody", testPassword)
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
	_, err = svc.Login(context.Background(), "linus", "wrong-password")
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
	_, err = svc.Login(context.Background(), "ghost", testPassword)
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	svc := NewService(repo, testSecret, time.Hour, zerolog.Nop())
	u := activeUser(t)

	t.Run("missing", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "")
		assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
	})

	t.Run("expired", func(t *testing.T) {
		issued := time.Now().Add(-2 * time.Hour)
		svc.now = func() time.Time { return issued }
		token, _, err := svc.IssueToken(u)
		require.NoError(t, err)
		svc.now = func() time.Time { return time.Now().UTC() }

		_, err = svc.Authenticate(context.Background(), token)
		assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
	})

	t.Run("foreign secret", func(t *testing.T) {
		other := NewService(repo, "ffffffffffffffffffffffffffffffff", time.Hour, zerolog.Nop())
		token, _, err := other.IssueToken(u)
		require.NoError(t, err)
		_, err = svc.Authenticate(context.Background(), token)
		assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   u.UserID.String(),
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}).SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = svc.Authenticate(context.Background(), token)
		assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
	})

	t.Run("deleted user", func(t *testing.T) {
		token, _, err := svc.IssueToken(u)
		require.NoError(t, err)
		repo.EXPECT().GetByID(gomock.Any(), u.UserID).Return(nil, nil)
		_, err = svc.Authenticate(context.Background(), token)
		assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
	})
}
