package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/skillswap/skillswap/internal/domain/apperr"
	"github.com/skillswap/skillswap/internal/domain/notification"
	domain "github.com/skillswap/skillswap/internal/domain/session"
)

// SubmitWorkInput defines a work submission.
type SubmitWorkInput struct {
	SessionID     uuid.UUID
	By            uuid.UUID
	Title         string
	Description   string
	AttachmentURL *string
}

// SubmitWork hands a deliverable to the counterpart of an active session.
func (s *Service) SubmitWork(ctx context.Context, input SubmitWorkInput) (*domain.WorkSubmission, error) {
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		sess, err := s.load(ctx, input.SessionID)
		if err != nil {
			return nil, err
		}
		w, err := domain.NewWorkSubmission(sess, input.By, input.Title, input.Description, input.AttachmentURL, s.now())
		if err != nil {
			return nil, err
		}
		err = s.work.Create(ctx, w, sess.Version)
		if errors.Is(err, domain.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create work submission: %w", err)
		}
		s.events.Publish(ctx, notification.NewEvent(notification.EventWorkSubmitted, sess.Counterpart(input.By), input.By,
			notification.EntityWork, w.SubmissionID, "New work was submitted for your review: "+w.Title, sessionLink(sess.SessionID)))
		return w, nil
	}
	return nil, apperr.Conflict("session %s is being modified concurrently, retry", input.SessionID)
}

// ReviewWorkInput defines the counterpart's verdict on a submission.
type ReviewWorkInput struct {
	SubmissionID uuid.UUID
	By           uuid.UUID
	Approve      bool
	Feedback     string
}

// ReviewWork approves a submission or asks for a revision.
func (s *Service) ReviewWork(ctx context.Context, input ReviewWorkInput) (*domain.WorkSubmission, error) {
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		w, err := s.work.GetByID(ctx, input.SubmissionID)
		if err != nil {
			return nil, fmt.Errorf("load work submission: %w", err)
		}
		if w == nil {
			return nil, apperr.NotFound("work submission", input.SubmissionID)
		}
		sess, err := s.load(ctx, w.SessionID)
		if err != nil {
			return nil, err
		}
		expected := w.Version
		if err := w.Review(sess, input.By, input.Approve, input.Feedback, s.now()); err != nil {
			return nil, err
		}
		err = s.work.Update(ctx, w, expected, sess.Version)
		if errors.Is(err, domain.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("update work submission: %w", err)
		}
		msg := "Your submission was approved: " + w.Title
		if !input.Approve {
			msg = "A revision was requested for: " + w.Title
		}
		s.events.Publish(ctx, notification.NewEvent(notification.EventWorkReviewed, w.SubmittedBy, input.By,
			notification.EntityWork, w.SubmissionID, msg, sessionLink(sess.SessionID)))
		return w, nil
	}
	return nil, apperr.Conflict("work submission %s is being modified concurrently, retry", input.SubmissionID)
}

// ListWork returns the submissions of a session visible to viewer.
func (s *Service) ListWork(ctx context.Context, sessionID, viewer uuid.UUID) ([]*domain.WorkSubmission, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.IsParty(viewer) {
		return nil, apperr.Forbidden("user is not a party to this session")
	}
	list, err := s.work.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list work submissions: %w", err)
	}
	if list == nil {
		list = []*domain.WorkSubmission{}
	}
	return list, nil
}
