package session

import (
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/skillswap/skillswap/internal/domain/apperr"
)

// WorkStatus represents the review state of a work submission.
type WorkStatus string

const (
	WorkPending           WorkStatus = "pending"
	WorkApproved          WorkStatus = "approved"
	WorkRevisionRequested WorkStatus = "revision_requested"
)

// WorkSubmission is a deliverable one party hands to the other during an active session.
type WorkSubmission struct {
	SubmissionID  uuid.UUID  `json:"submissionId"`
	SessionID     uuid.UUID  `json:"sessionId"`
	SubmittedBy   uuid.UUID  `json:"submittedBy"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	AttachmentURL *string    `json:"attachmentUrl,omitempty"`
	Status        WorkStatus `json:"status"`
	ReviewedBy    *uuid.UUID `json:"reviewedBy,omitempty"`
	Feedback      *string    `json:"feedback,omitempty"`
	Version       int64      `json:"version"`
	CreatedAt     time.Time  `json:"createdAt"`
	ReviewedAt    *time.Time `json:"reviewedAt,omitempty"`
}

// NewWorkSubmission validates a submission against its session.
func NewWorkSubmission(s *Session, by uuid.UUID, title, description string, attachmentURL *string, now time.Time) (*WorkSubmission, error) {
	if !s.IsParty(by) {
		return nil, apperr.Forbidden("user is not a party to this session")
	}
	if s.Status != StatusActive {
		return nil, apperr.InvalidState("cannot submit work to a %s session", s.Status)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperr.Validation("work title is required")
	}
	if utf8.RuneCountInString(title) > 200 {
		return nil, apperr.Validation("work title must be at most 200 characters")
	}
	var attachment *string
	if attachmentURL != nil && strings.TrimSpace(*attachmentURL) != "" {
		raw := strings.TrimSpace(*attachmentURL)
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, apperr.Validation("attachment url must be an absolute http(s) url")
		}
		attachment = &raw
	}
	return &WorkSubmission{
		SubmissionID:  uuid.New(),
		SessionID:     s.SessionID,
		SubmittedBy:   by,
		Title:         title,
		Description:   strings.TrimSpace(description),
		AttachmentURL: attachment,
		Status:        WorkPending,
		Version:       1,
		CreatedAt:     now,
	}, nil
}

// Review records the counterpart's verdict on a pending submission.
func (w *WorkSubmission) Review(s *Session, by uuid.UUID, approve bool, feedback string, now time.Time) error {
	if !s.IsParty(by) {
		return apperr.Forbidden("user is not a party to this session")
	}
	if by == w.SubmittedBy {
		return apperr.Forbidden("cannot review your own submission")
	}
	if s.Status != StatusActive {
		return apperr.InvalidState("cannot review work on a %s session", s.Status)
	}
	if w.Status != WorkPending {
		return apperr.InvalidState("submission is already %s", w.Status)
	}
	feedback = strings.TrimSpace(feedback)
	if !approve && feedback == "" {
		return apperr.Validation("feedback is required when requesting a revision")
	}
	w.Status = WorkApproved
	if !approve {
		w.Status = WorkRevisionRequested
	}
	w.ReviewedBy = &by
	w.ReviewedAt = &now
	if feedback != "" {
		w.Feedback = &feedback
	}
	return nil
}
