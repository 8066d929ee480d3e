package review

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/skillswap/skillswap/internal/domain/apperr"
	"github.com/skillswap/skillswap/internal/domain/session"
)

// Type tells whether the reviewer rates what they were taught or how they were taught.
type Type string

const (
	TypeSkillTeaching Type = "skill_teaching"
	TypeSkillLearning Type = "skill_learning"
)

// DefaultCommentMax is the comment length policy used when none is configured.
const DefaultCommentMax = 500

// ErrDuplicate is returned by repositories when (reviewer, session) already has a review.
var ErrDuplicate = errors.New("review already exists for reviewer and session")

// Review is one party's rating of the skill they received in a completed session.
type Review struct {
	ReviewID   uuid.UUID `json:"reviewId"`
	SessionID  uuid.UUID `json:"sessionId"`
	ReviewerID uuid.UUID `json:"reviewerId"`
	RevieweeID uuid.UUID `json:"revieweeId"`
	SkillID    uuid.UUID `json:"skillId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	Type       Type      `json:"reviewType"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Draft is the caller-supplied part of a review.
type Draft struct {
	ReviewerID uuid.UUID
	RevieweeID uuid.UUID
	SkillID    uuid.UUID
	Rating     int
	Comment    string
	Type       Type
}

// Validate checks the draft in isolation.
func (d Draft) Validate(commentMax int) error {
	if d.Rating < 1 || d.Rating > 5 {
		return apperr.Validation("rating must be an integer between 1 and 5")
	}
	comment := strings.TrimSpace(d.Comment)
	if comment == "" {
		return apperr.Validation("comment is required")
	}
	if commentMax <= 0 {
		commentMax = DefaultCommentMax
	}
	if utf8.RuneCountInString(comment) > commentMax {
		return apperr.Validation("comment must be at most %d characters", commentMax)
	}
	switch d.Type {
	case TypeSkillTeaching, TypeSkillLearning:
	default:
		return apperr.Validation("review type must be %s or %s", TypeSkillTeaching, TypeSkillLearning)
	}
	return nil
}

// New checks the draft against the session it reviews and builds the review.
func New(s *session.Session, d Draft, commentMax int, now time.Time) (*Review, error) {
	if err := d.Validate(commentMax); err != nil {
		return nil, err
	}
	if !s.IsParty(d.ReviewerID) {
		return nil, apperr.Forbidden("reviewer is not a party to this session")
	}
	if d.RevieweeID == d.ReviewerID || !s.IsParty(d.RevieweeID) {
		return nil, apperr.Validation("reviewee must be the other party of the session")
	}
	if s.Status != session.StatusCompleted {
		return nil, apperr.InvalidState("cannot review a %s session", s.Status)
	}
	if d.SkillID != s.SkillOfferedBy(d.RevieweeID) {
		return nil, apperr.Validation("skill must be the one the reviewee contributed")
	}
	return &Review{
		ReviewID:   uuid.New(),
		SessionID:  s.SessionID,
		ReviewerID: d.ReviewerID,
		RevieweeID: d.RevieweeID,
		SkillID:    d.SkillID,
		Rating:     d.Rating,
		Comment:    strings.TrimSpace(d.Comment),
		Type:       d.Type,
		CreatedAt:  now,
	}, nil
}

// Aggregate is the mean rating over a set of reviews.
type Aggregate struct {
	Average float64   `json:"average"`
	Count   int       `json:"count"`
	Reviews []*Review `json:"reviews"`
}

// Summarize computes the aggregate. Reviews are expected newest first.
func Summarize(reviews []*Review) Aggregate {
	agg := Aggregate{Reviews: reviews, Count: len(reviews)}
	if agg.Reviews == nil {
		agg.Reviews = []*Review{}
	}
	if len(reviews) == 0 {
		return agg
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	agg.Average = float64(sum) / float64(len(reviews))
	return agg
}
