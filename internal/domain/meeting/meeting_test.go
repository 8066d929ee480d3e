package meeting

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/skillswap/internal/domain/apperr"
)

var meetingAt = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

func acceptedMeeting(t *testing.T) (*Meeting, uuid.UUID, uuid.UUID) {
	t.Helper()
	sender, receiver := uuid.New(), uuid.New()
	created := meetingAt.Add(-48 * time.Hour)
	m, err := New(sender, receiver, "pairing on the parser", meetingAt, created)
	require.NoError(t, err)
	require.NoError(t, m.Respond(receiver, true, created))
	return m, sender, receiver
}

func TestNew(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	_, err := New(a, a, "x", meetingAt, meetingAt.Add(-time.Hour))
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = New(a, b, "  ", meetingAt, meetingAt.Add(-time.Hour))
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = New(a, b, "sync", meetingAt, meetingAt)
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	m, err := New(a, b, " sync ", meetingAt, meetingAt.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, StatePending, m.State)
	assert.Equal(t, "sync", m.Description)
}

func TestRespond(t *testing.T) {
	sender, receiver := uuid.New(), uuid.New()
	m, err := New(sender, receiver, "sync", meetingAt, meetingAt.Add(-time.Hour))
	require.NoError(t, err)

	assert.True(t, errors.Is(m.Respond(sender, true, meetingAt), apperr.ErrAuthorization))
	require.NoError(t, m.Respond(receiver, false, meetingAt))
	assert.Equal(t, StateRejected, m.State)
	assert.True(t, errors.Is(m.Respond(receiver, true, meetingAt), apperr.ErrInvalidState))
}

func TestCancellationWindow(t *testing.T) {
	blocked := []time.Duration{
		-10 * time.Minute,
		-8 * time.Minute,
		0,
		29*time.Minute + 59*time.Second,
		30 * time.Minute,
	}
	for _, offset := range blocked {
		t.Run("blocked at "+offset.String(), func(t *testing.T) {
			m, sender, _ := acceptedMeeting(t)
			_, err := m.Cancel(sender, "conflict", meetingAt.Add(offset))
			assert.True(t, errors.Is(err, apperr.ErrCancellationWindow), "got %v", err)
			assert.Equal(t, StateAccepted, m.State)
		})
	}

	allowed := []time.Duration{
		-10*time.Minute - time.Second,
		-24 * time.Hour,
		30*time.Minute + time.Second,
		3 * time.Hour,
	}
	for _, offset := range allowed {
		t.Run("allowed at "+offset.String(), func(t *testing.T) {
			m, _, receiver := acceptedMeeting(t)
			notice, err := m.Cancel(receiver, "conflict", meetingAt.Add(offset))
			require.NoError(t, err)
			assert.Equal(t, StateCancelled, m.State)
			assert.Equal(t, m.SenderID, notice.RecipientID)
			assert.Equal(t, receiver, notice.CancelledBy)
		})
	}
}

func TestCancellationWindowMessage(t *testing.T) {
	t.Run("before start", func(t *testing.T) {
		m, sender, _ := acceptedMeeting(t)
		_, err := m.Cancel(sender, "conflict", time.Date(2025, 1, 15, 9, 52, 0, 0, time.UTC))
		e, ok := apperr.As(err)
		require.True(t, ok)
		assert.Contains(t, e.Message, "starts in 8 minutes")
		assert.Equal(t, 8, e.Details["minutesUntilStart"])
	})

	t.Run("after start", func(t *testing.T) {
		m, sender, _ := acceptedMeeting(t)
		_, err := m.Cancel(sender, "conflict", meetingAt.Add(time.Minute+20*time.Second))
		e, ok := apperr.As(err)
		require.True(t, ok)
		assert.Contains(t, e.Message, "started 1 minute ago")
	})
}

func TestCancelOtherStates(t *testing.T) {
	t.Run("pending cancels freely inside the window", func(t *testing.T) {
		sender, receiver := uuid.New(), uuid.New()
		m, err := New(sender, receiver, "sync", meetingAt, meetingAt.Add(-time.Hour))
		require.NoError(t, err)
		_, err = m.Cancel(sender, "withdrawn", meetingAt)
		require.NoError(t, err)
		assert.Equal(t, StateCancelled, m.State)
	})

	t.Run("rejected", func(t *testing.T) {
		sender, receiver := uuid.New(), uuid.New()
		m, err := New(sender, receiver, "sync", meetingAt, meetingAt.Add(-time.Hour))
		require.NoError(t, err)
		require.NoError(t, m.Respond(receiver, false, meetingAt.Add(-time.Hour)))
		_, err = m.Cancel(sender, "x", meetingAt.Add(-5*time.Hour))
		assert.True(t, errors.Is(err, apperr.ErrInvalidState))
	})

	t.Run("outsider", func(t *testing.T) {
		m, _, _ := acceptedMeeting(t)
		_, err := m.Cancel(uuid.New(), "x", meetingAt.Add(-5*time.Hour))
		assert.True(t, errors.Is(err, apperr.ErrAuthorization))
	})

	t.Run("reason required", func(t *testing.T) {
		m, sender, _ := acceptedMeeting(t)
		_, err := m.Cancel(sender, " ", meetingAt.Add(-5*time.Hour))
		assert.True(t, errors.Is(err, apperr.ErrValidation))
		assert.Equal(t, StateAccepted, m.State)
	})
}

func TestAcknowledge(t *testing.T) {
	m, sender, receiver := acceptedMeeting(t)
	notice, err := m.Cancel(sender, "sick", meetingAt.Add(-time.Hour))
	require.NoError(t, err)

	_, err = notice.Acknowledge(sender, meetingAt)
	assert.True(t, errors.Is(err, apperr.ErrAuthorization))

	changed, err := notice.Acknowledge(receiver, meetingAt)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, notice.Acknowledged)

	changed, err = notice.Acknowledge(receiver, meetingAt.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, meetingAt, *notice.AcknowledgedAt)
}

func TestComplete(t *testing.T) {
	m, _, _ := acceptedMeeting(t)
	assert.False(t, m.Complete(meetingAt.Add(WindowAfter)))
	assert.True(t, m.Complete(meetingAt.Add(WindowAfter+time.Second)))
	assert.Equal(t, StateCompleted, m.State)
	assert.False(t, m.Complete(meetingAt.Add(time.Hour)))
}

func TestIsActive(t *testing.T) {
	m, _, _ := acceptedMeeting(t)
	assert.True(t, m.IsActive(meetingAt.Add(-time.Minute)))
	assert.False(t, m.IsActive(meetingAt))

	sender, receiver := uuid.New(), uuid.New()
	p, err := New(sender, receiver, "sync", meetingAt, meetingAt.Add(-time.Hour))
	require.NoError(t, err)
	assert.True(t, p.IsActive(meetingAt.Add(time.Hour)))
}
