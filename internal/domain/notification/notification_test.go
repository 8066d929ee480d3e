package notification

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	recipient, actor, entity := uuid.New(), uuid.New(), uuid.New()

	e := NewEvent(EventSessionProposed, recipient, actor, EntitySession, entity, "new proposal", "/sessions/"+entity.String())

	require.NotNil(t, e)
	assert.NotEqual(t, uuid.Nil, e.EventID)
	assert.Equal(t, recipient, e.RecipientID)
	require.NotNil(t, e.ActorID)
	assert.Equal(t, actor, *e.ActorID)
	assert.False(t, e.OccurredAt.IsZero())

	t.Run("system actor", func(t *testing.T) {
		e := NewEvent(EventMeetingCompleted, recipient, uuid.Nil, EntityMeeting, entity, "done", "")
		assert.Nil(t, e.ActorID)
		assert.Equal(t, "", e.Params()["actor"])
	})
}

func TestEventParams(t *testing.T) {
	recipient, entity := uuid.New(), uuid.New()
	e := NewEvent(EventMeetingCancelled, recipient, recipient, EntityMeeting, entity, "x", "")

	p := e.Params()
	assert.Equal(t, "meeting.cancelled", p["type"])
	assert.Equal(t, recipient.String(), p["recipient"])
	assert.Equal(t, "meeting", p["entity_type"])
	assert.Equal(t, true, p["self"])
}

func TestEventMessage(t *testing.T) {
	e := NewEvent(EventReviewSubmitted, uuid.New(), uuid.New(), EntityReview, uuid.New(), "you got a review", "/reviews")

	msg, err := EventMessage(e)
	require.NoError(t, err)
	assert.Equal(t, e.EventID.String(), msg.ID)
	assert.Equal(t, "review.submitted", msg.Event)

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Data, &decoded))
	assert.Equal(t, e.EntityID, decoded.EntityID)
}

func TestSSEClient(t *testing.T) {
	userID := "u1"
	c := NewSSEClient("c1", &userID)
	assert.Equal(t, 100, cap(c.MessageChan))
	c.Close()
	_, ok := <-c.MessageChan
	assert.False(t, ok)
}
