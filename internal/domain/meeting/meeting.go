package meeting

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/skillswap/skillswap/internal/domain/apperr"
)

// State represents the lifecycle state of a meeting.
type State string

const (
	StatePending   State = "pending"
	StateAccepted  State = "accepted"
	StateRejected  State = "rejected"
	StateCancelled State = "cancelled"
	StateCompleted State = "completed"
)

const (
	// WindowBefore and WindowAfter bound the protected window around the
	// meeting time, inclusive on both ends.
	WindowBefore = 10 * time.Minute
	WindowAfter  = 30 * time.Minute

	// MaxActivePerPair caps simultaneously active meetings between two users.
	MaxActivePerPair = 2
)

var (
	ErrVersionConflict = errors.New("version conflict")
	ErrCapacityReached = errors.New("meeting capacity reached for pair")
)

// Meeting is a scheduled call between two users.
type Meeting struct {
	MeetingID   uuid.UUID  `json:"meetingId"`
	SenderID    uuid.UUID  `json:"senderId"`
	ReceiverID  uuid.UUID  `json:"receiverId"`
	Description string     `json:"description"`
	MeetingTime time.Time  `json:"meetingTime"`
	State       State      `json:"state"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
	CancelledBy *uuid.UUID `json:"cancelledBy,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Version     int64      `json:"version"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// New validates and builds a pending meeting.
func New(sender, receiver uuid.UUID, description string, meetingTime, now time.Time) (*Meeting, error) {
	if sender == uuid.Nil || receiver == uuid.Nil {
		return nil, apperr.Validation("sender and receiver are required")
	}
	if sender == receiver {
		return nil, apperr.Validation("cannot schedule a meeting with yourself")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperr.Validation("meeting description is required")
	}
	if utf8.RuneCountInString(description) > 1000 {
		return nil, apperr.Validation("meeting description must be at most 1000 characters")
	}
	if meetingTime.IsZero() || !meetingTime.After(now) {
		return nil, apperr.Validation("meeting time must be in the future")
	}
	return &Meeting{
		MeetingID:   uuid.New(),
		SenderID:    sender,
		ReceiverID:  receiver,
		Description: description,
		MeetingTime: meetingTime.UTC(),
		State:       StatePending,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (m *Meeting) IsParty(userID uuid.UUID) bool {
	return userID == m.SenderID || userID == m.ReceiverID
}

func (m *Meeting) Counterpart(userID uuid.UUID) uuid.UUID {
	if userID == m.SenderID {
		return m.ReceiverID
	}
	return m.SenderID
}

// IsActive reports whether the meeting counts toward the pair capacity.
func (m *Meeting) IsActive(now time.Time) bool {
	return m.State == StatePending || (m.State == StateAccepted && m.MeetingTime.After(now))
}

// Respond lets the receiver accept or reject a pending meeting.
func (m *Meeting) Respond(by uuid.UUID, accept bool, now time.Time) error {
	if by != m.ReceiverID {
		return apperr.Forbidden("only the receiver can respond to a meeting")
	}
	if m.State != StatePending {
		return apperr.InvalidState("cannot respond to a %s meeting", m.State)
	}
	m.State = StateRejected
	if accept {
		m.State = StateAccepted
	}
	m.RespondedAt = &now
	m.UpdatedAt = now
	return nil
}

// Cancel applies the cancellation guard and returns the notice addressed to
// the counterpart.
func (m *Meeting) Cancel(by uuid.UUID, reason string, now time.Time) (*Cancellation, error) {
	if !m.IsParty(by) {
		return nil, apperr.Forbidden("user is not a party to this meeting")
	}
	switch m.State {
	case StatePending:
	case StateAccepted:
		if PhaseOf(m, now) == PhaseHappening {
			return nil, windowError(m.MeetingTime, now)
		}
	default:
		return nil, apperr.InvalidState("cannot cancel a %s meeting", m.State)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperr.Validation("a cancellation reason is required")
	}
	m.State = StateCancelled
	m.CancelledBy = &by
	m.CancelledAt = &now
	m.UpdatedAt = now
	return &Cancellation{
		CancellationID: uuid.New(),
		MeetingID:      m.MeetingID,
		CancelledBy:    by,
		RecipientID:    m.Counterpart(by),
		Reason:         reason,
		Version:        1,
		CreatedAt:      now,
	}, nil
}

// Complete marks an accepted meeting completed once its window has elapsed.
func (m *Meeting) Complete(now time.Time) bool {
	if m.State != StateAccepted || PhaseOf(m, now) != PhasePast {
		return false
	}
	m.State = StateCompleted
	m.CompletedAt = &now
	m.UpdatedAt = now
	return true
}

func windowError(meetingTime, now time.Time) error {
	details := map[string]interface{}{
		"meetingTime":    meetingTime,
		"windowOpensAt":  meetingTime.Add(-WindowBefore),
		"windowClosesAt": meetingTime.Add(WindowAfter),
	}
	var msg string
	if now.Before(meetingTime) {
		mins := int(math.Ceil(meetingTime.Sub(now).Minutes()))
		details["minutesUntilStart"] = mins
		msg = fmt.Sprintf("meeting starts in %s", minutes(mins))
	} else {
		mins := int(now.Sub(meetingTime).Minutes())
		details["minutesSinceStart"] = mins
		msg = fmt.Sprintf("meeting started %s ago", minutes(mins))
	}
	msg += "; accepted meetings cannot be cancelled from 10 minutes before until 30 minutes after the start time"
	return apperr.CancellationWindow(msg, details)
}

func minutes(n int) string {
	if n == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", n)
}

// Cancellation is the notice left for the counterpart of a cancelled meeting.
type Cancellation struct {
	CancellationID uuid.UUID  `json:"cancellationId"`
	MeetingID      uuid.UUID  `json:"meetingId"`
	CancelledBy    uuid.UUID  `json:"cancelledBy"`
	RecipientID    uuid.UUID  `json:"recipientId"`
	Reason         string     `json:"reason"`
	Acknowledged   bool       `json:"acknowledged"`
	AcknowledgedAt *time.Time `json:"acknowledgedAt,omitempty"`
	Version        int64      `json:"version"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Acknowledge marks the notice as seen. It reports false when it already was.
func (c *Cancellation) Acknowledge(by uuid.UUID, now time.Time) (bool, error) {
	if by != c.RecipientID {
		return false, apperr.Forbidden("only the notified party can acknowledge a cancellation")
	}
	if c.Acknowledged {
		return false, nil
	}
	c.Acknowledged = true
	c.AcknowledgedAt = &now
	return true, nil
}
