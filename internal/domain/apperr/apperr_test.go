package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIs(t *testing.T) {
	t.Run("kind match", func(t *testing.T) {
		err := InvalidState("session is %s", "completed")
		assert.True(t, errors.Is(err, ErrInvalidState))
		assert.False(t, errors.Is(err, ErrValidation))
	})

	t.Run("duplicate offer is a validation error", func(t *testing.T) {
		err := DuplicateOffer("same terms")
		assert.True(t, errors.Is(err, ErrValidation))
		assert.True(t, errors.Is(err, ErrDuplicateOffer))
		assert.Equal(t, CodeDuplicateOffer, err.ErrorCode())
	})

	t.Run("plain validation is not a duplicate offer", func(t *testing.T) {
		err := Validation("rating out of range")
		assert.False(t, errors.Is(err, ErrDuplicateOffer))
		assert.Equal(t, string(KindValidation), err.ErrorCode())
	})

	t.Run("wrapped", func(t *testing.T) {
		err := fmt.Errorf("respond: %w", Forbidden("cannot approve own request"))
		assert.True(t, errors.Is(err, ErrAuthorization))
		assert.Equal(t, KindAuthorization, KindOf(err))
	})
}

func TestKindOfInfrastructureError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("connection refused")))
	_, ok := As(errors.New("boom"))
	assert.False(t, ok)
}

func TestNotFoundDetails(t *testing.T) {
	id := uuid.New()
	err := NotFound("meeting", id)
	require.NotNil(t, err.Details)
	assert.Equal(t, "meeting", err.Details["entity"])
	assert.Equal(t, id.String(), err.Details["id"])
	assert.Contains(t, err.Error(), id.String())
}
