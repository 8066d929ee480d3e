package httpapi

import (
	"net/http"

	"github.com/google/uuid"

	appReview "github.com/skillswap/skillswap/internal/application/review"
	"github.com/skillswap/skillswap/internal/domain/apperr"
	domainReview "github.com/skillswap/skillswap/internal/domain/review"
	domainUser "github.com/skillswap/skillswap/internal/domain/user"
)

type reviewCreateRequest struct {
	SessionID  uuid.UUID      `json:"sessionId"`
	Reviewee   domainUser.Ref `json:"reviewee"`
	SkillID    uuid.UUID      `json:"skillId"`
	Rating     int            `json:"rating" validate:"required,min=1,max=5"`
	Comment    string         `json:"comment" validate:"required"`
	ReviewType string         `json:"reviewType" validate:"required,oneof=skill_teaching skill_learning"`
}

func (s *Server) submitReview(w http.ResponseWriter, r *http.Request) {
	var req reviewCreateRequest
	if !s.bind(w, r, &req) {
		return
	}
	if req.SessionID == uuid.Nil || req.Reviewee.ID == uuid.Nil || req.SkillID == uuid.Nil {
		s.fail(w, r, apperr.Validation("sessionId, reviewee and skillId are required"))
		return
	}
	rev, err := s.reviewSvc.SubmitReview(r.Context(), appReview.SubmitInput{
		SessionID: req.SessionID,
		Draft: domainReview.Draft{
			ReviewerID: callerID(r.Context()),
			RevieweeID: req.Reviewee.ID,
			SkillID:    req.SkillID,
			Rating:     req.Rating,
			Comment:    req.Comment,
			Type:       domainReview.Type(req.ReviewType),
		},
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, rev)
}

func (s *Server) getRatings(w http.ResponseWriter, r *http.Request) {
	var (
		filter domainReview.Filter
		err    error
	)
	if filter.RevieweeID, err = parseOptionalUUID(r, "revieweeId"); err != nil {
		s.fail(w, r, err)
		return
	}
	if filter.SkillID, err = parseOptionalUUID(r, "skillId"); err != nil {
		s.fail(w, r, err)
		return
	}
	if filter.SessionID, err = parseOptionalUUID(r, "sessionId"); err != nil {
		s.fail(w, r, err)
		return
	}
	agg, err := s.reviewSvc.GetAggregateRating(r.Context(), filter)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, agg)
}
