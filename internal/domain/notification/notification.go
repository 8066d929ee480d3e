package notification

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// EventType names a state change users are told about.
type EventType string

const (
	EventSessionProposed      EventType = "session.proposed"
	EventSessionAccepted      EventType = "session.accepted"
	EventSessionRejected      EventType = "session.rejected"
	EventSessionCanceled      EventType = "session.canceled"
	EventCounterOfferCreated  EventType = "counter_offer.created"
	EventCounterOfferAccepted EventType = "counter_offer.accepted"
	EventCounterOfferRejected EventType = "counter_offer.rejected"
	EventCompletionRequested  EventType = "session.completion_requested"
	EventCompletionApproved   EventType = "session.completion_approved"
	EventCompletionRejected   EventType = "session.completion_rejected"
	EventWorkSubmitted        EventType = "work.submitted"
	EventWorkReviewed         EventType = "work.reviewed"
	EventReviewSubmitted      EventType = "review.submitted"
	EventMeetingRequested     EventType = "meeting.requested"
	EventMeetingAccepted      EventType = "meeting.accepted"
	EventMeetingRejected      EventType = "meeting.rejected"
	EventMeetingCancelled     EventType = "meeting.cancelled"
	EventMeetingCompleted     EventType = "meeting.completed"
)

// Entity types carried on events.
const (
	EntitySession      = "session"
	EntityCounterOffer = "counter_offer"
	EntityWork         = "work"
	EntityReview       = "review"
	EntityMeeting      = "meeting"
)

var (
	ErrClientNotFound = errors.New("SSE client not found")
	ErrChannelFull    = errors.New("SSE message channel full")
)

// Event is emitted after a successful state transition and addressed to one user.
type Event struct {
	EventID     uuid.UUID  `json:"eventId"`
	Type        EventType  `json:"type"`
	RecipientID uuid.UUID  `json:"recipientId"`
	ActorID     *uuid.UUID `json:"actorId,omitempty"`
	EntityType  string     `json:"entityType"`
	EntityID    uuid.UUID  `json:"entityId"`
	Message     string     `json:"message"`
	DeepLink    string     `json:"deepLink"`
	OccurredAt  time.Time  `json:"occurredAt"`
}

// NewEvent builds an event. actor may be uuid.Nil for system-originated changes.
func NewEvent(t EventType, recipient, actor uuid.UUID, entityType string, entityID uuid.UUID, message, deepLink string) *Event {
	e := &Event{
		EventID:     uuid.New(),
		Type:        t,
		RecipientID: recipient,
		EntityType:  entityType,
		EntityID:    entityID,
		Message:     message,
		DeepLink:    deepLink,
		OccurredAt:  time.Now().UTC(),
	}
	if actor != uuid.Nil {
		e.ActorID = &actor
	}
	return e
}

// Params flattens the event for rule evaluation.
func (e *Event) Params() map[string]interface{} {
	actor := ""
	if e.ActorID != nil {
		actor = e.ActorID.String()
	}
	return map[string]interface{}{
		"type":        string(e.Type),
		"recipient":   e.RecipientID.String(),
		"actor":       actor,
		"entity_type": e.EntityType,
		"entity_id":   e.EntityID.String(),
		"self":        e.ActorID != nil && *e.ActorID == e.RecipientID,
	}
}

// SSEClient represents an active SSE connection
type SSEClient struct {
	ClientID    string
	UserID      *string
	ConnectedAt time.Time
	MessageChan chan *SSEMessage
}

// NewSSEClient creates a new SSE client
func NewSSEClient(clientID string, userID *string) *SSEClient {
	return &SSEClient{
		ClientID:    clientID,
		UserID:      userID,
		ConnectedAt: time.Now().UTC(),
		MessageChan: make(chan *SSEMessage, 100),
	}
}

// Close closes the client's message channel
func (c *SSEClient) Close() {
	close(c.MessageChan)
}

// SSEMessage represents a message to be sent via SSE
type SSEMessage struct {
	ID        string          `json:"id"`
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data"`
	Retry     *int            `json:"retry,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewSSEMessage creates a new SSE message
func NewSSEMessage(event string, data json.RawMessage) *SSEMessage {
	return &SSEMessage{
		ID:        uuid.New().String(),
		Event:     event,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// EventMessage wraps an event for SSE delivery.
func EventMessage(e *Event) (*SSEMessage, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	msg := NewSSEMessage(string(e.Type), data)
	msg.ID = e.EventID.String()
	return msg, nil
}
