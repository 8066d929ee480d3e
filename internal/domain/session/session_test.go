package session

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/skillswap/internal/domain/apperr"
)

var now = time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

func testTerms() Terms {
	return Terms{
		SkillOffered1:   uuid.New(),
		SkillOffered2:   uuid.New(),
		Description1:    "Go code review",
		Description2:    "Spanish conversation",
		StartDate:       now.Add(24 * time.Hour),
		ExpectedEndDate: now.Add(14 * 24 * time.Hour),
	}
}

func newPending(t *testing.T) (*Session, uuid.UUID, uuid.UUID) {
	t.Helper()
	a, b := uuid.New(), uuid.New()
	s, err := New(a, b, testTerms(), now)
	require.NoError(t, err)
	return s, a, b
}

func newActive(t *testing.T) (*Session, uuid.UUID, uuid.UUID) {
	t.Helper()
	s, a, b := newPending(t)
	require.NoError(t, s.Accept(b, now))
	return s, a, b
}

func TestNew(t *testing.T) {
	t.Run("pending with proposer as user1", func(t *testing.T) {
		s, a, b := newPending(t)
		assert.Equal(t, StatusPending, s.Status)
		assert.Equal(t, a, s.User1ID)
		assert.Equal(t, b, s.User2ID)
		assert.Equal(t, int64(1), s.Version)
	})

	t.Run("end must be after start", func(t *testing.T) {
		terms := testTerms()
		terms.ExpectedEndDate = terms.StartDate
		_, err := New(uuid.New(), uuid.New(), terms, now)
		assert.True(t, errors.Is(err, apperr.ErrValidation))
	})

	t.Run("self proposal", func(t *testing.T) {
		a := uuid.New()
		_, err := New(a, a, testTerms(), now)
		assert.True(t, errors.Is(err, apperr.ErrValidation))
	})

	t.Run("descriptions are trimmed", func(t *testing.T) {
		terms := testTerms()
		terms.Description1 = "  padded  "
		s, err := New(uuid.New(), uuid.New(), terms, now)
		require.NoError(t, err)
		assert.Equal(t, "padded", s.Description1)
	})
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("accepted")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, st)

	st, err = ParseStatus(" Pending ")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, st)

	_, err = ParseStatus("archived")
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestAcceptReject(t *testing.T) {
	t.Run("only the invited party may accept", func(t *testing.T) {
		s, a, _ := newPending(t)
		err := s.Accept(a, now)
		assert.True(t, errors.Is(err, apperr.ErrAuthorization))
		assert.Equal(t, StatusPending, s.Status)
	})

	t.Run("outsider", func(t *testing.T) {
		s, _, _ := newPending(t)
		err := s.Reject(uuid.New(), now)
		assert.True(t, errors.Is(err, apperr.ErrAuthorization))
	})

	t.Run("reject records who and when", func(t *testing.T) {
		s, _, b := newPending(t)
		require.NoError(t, s.Reject(b, now))
		assert.Equal(t, StatusRejected, s.Status)
		require.NotNil(t, s.RejectedBy)
		assert.Equal(t, b, *s.RejectedBy)
		assert.Equal(t, now, *s.RejectedAt)
	})

	t.Run("acting on a non-pending session", func(t *testing.T) {
		s, _, b := newActive(t)
		assert.True(t, errors.Is(s.Accept(b, now), apperr.ErrInvalidState))
		assert.True(t, errors.Is(s.Reject(b, now), apperr.ErrInvalidState))
	})

	t.Run("proposer on a closed session sees the state error", func(t *testing.T) {
		s, a, _ := newActive(t)
		require.NoError(t, s.Cancel(a, now))
		assert.True(t, errors.Is(s.Accept(a, now), apperr.ErrInvalidState))
		assert.True(t, errors.Is(s.Reject(a, now), apperr.ErrInvalidState))
	})
}

func TestCancel(t *testing.T) {
	t.Run("either party from active", func(t *testing.T) {
		s, a, _ := newActive(t)
		require.NoError(t, s.Cancel(a, now))
		assert.Equal(t, StatusCanceled, s.Status)
		assert.Equal(t, a, *s.CanceledBy)
	})

	t.Run("not from pending", func(t *testing.T) {
		s, a, _ := newPending(t)
		assert.True(t, errors.Is(s.Cancel(a, now), apperr.ErrInvalidState))
	})
}

func TestCompletionHandshake(t *testing.T) {
	t.Run("request then approve completes", func(t *testing.T) {
		s, a, b := newActive(t)
		require.NoError(t, s.RequestCompletion(a, now))
		assert.Equal(t, a, *s.CompletionRequestedBy)
		require.NoError(t, s.ApproveCompletion(b, now))
		assert.Equal(t, StatusCompleted, s.Status)
		assert.Equal(t, b, *s.CompletionApprovedBy)

		assert.True(t, errors.Is(s.RequestCompletion(a, now), apperr.ErrInvalidState))
	})

	t.Run("double request", func(t *testing.T) {
		s, a, b := newActive(t)
		require.NoError(t, s.RequestCompletion(a, now))
		assert.True(t, errors.Is(s.RequestCompletion(a, now), apperr.ErrAlreadyRequested))
		assert.True(t, errors.Is(s.RequestCompletion(b, now), apperr.ErrAlreadyRequested))
	})

	t.Run("self approval is forbidden", func(t *testing.T) {
		s, a, _ := newActive(t)
		require.NoError(t, s.RequestCompletion(a, now))
		assert.True(t, errors.Is(s.ApproveCompletion(a, now), apperr.ErrAuthorization))
		assert.True(t, errors.Is(s.RejectCompletion(a, "nope", now), apperr.ErrAuthorization))
		assert.Equal(t, StatusActive, s.Status)
	})

	t.Run("respond without request", func(t *testing.T) {
		s, _, b := newActive(t)
		assert.True(t, errors.Is(s.ApproveCompletion(b, now), apperr.ErrInvalidState))
	})

	t.Run("request on pending session", func(t *testing.T) {
		s, a, _ := newPending(t)
		assert.True(t, errors.Is(s.RequestCompletion(a, now), apperr.ErrInvalidState))
	})

	t.Run("reject needs a reason", func(t *testing.T) {
		s, a, b := newActive(t)
		require.NoError(t, s.RequestCompletion(a, now))
		assert.True(t, errors.Is(s.RejectCompletion(b, "  ", now), apperr.ErrValidation))
		assert.Nil(t, s.CompletionRejectedBy)
	})

	t.Run("reject then request again overwrites the marker", func(t *testing.T) {
		s, a, b := newActive(t)
		require.NoError(t, s.RequestCompletion(a, now))
		require.NoError(t, s.RejectCompletion(b, "finish task X", now))
		assert.Equal(t, StatusActive, s.Status)
		assert.Equal(t, "finish task X", *s.CompletionRejectionReason)
		assert.Equal(t, a, *s.CompletionRequestedBy)

		later := now.Add(time.Hour)
		require.NoError(t, s.RequestCompletion(a, later))
		assert.Nil(t, s.CompletionRejectedBy)
		assert.Nil(t, s.CompletionRejectionReason)
		assert.Equal(t, later, *s.CompletionRequestedAt)
	})

	t.Run("after rejection the other party may request", func(t *testing.T) {
		s, a, b := newActive(t)
		require.NoError(t, s.RequestCompletion(a, now))
		require.NoError(t, s.RejectCompletion(b, "not yet", now))
		require.NoError(t, s.RequestCompletion(b, now))
		require.NoError(t, s.ApproveCompletion(a, now))
		assert.Equal(t, StatusCompleted, s.Status)
	})
}

func TestCompletedIsTerminal(t *testing.T) {
	s, a, b := newActive(t)
	require.NoError(t, s.RequestCompletion(a, now))
	require.NoError(t, s.ApproveCompletion(b, now))

	for name, err := range map[string]error{
		"request": s.RequestCompletion(b, now),
		"approve": s.ApproveCompletion(a, now),
		"reject":  s.RejectCompletion(a, "late", now),
		"cancel":  s.Cancel(a, now),
		"accept":  s.Accept(b, now),
		"decline": s.Reject(b, now),
		"counter": s.ApplyTerms(testTerms(), now),
	} {
		assert.Truef(t, errors.Is(err, apperr.ErrInvalidState), "%s: %v", name, err)
	}
	assert.Equal(t, StatusCompleted, s.Status)
}
