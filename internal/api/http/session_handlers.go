package httpapi

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	appSession "github.com/skillswap/skillswap/internal/application/session"
	"github.com/skillswap/skillswap/internal/domain/apperr"
	domainSession "github.com/skillswap/skillswap/internal/domain/session"
	domainUser "github.com/skillswap/skillswap/internal/domain/user"
)

type sessionProposeRequest struct {
	Counterpart domainUser.Ref `json:"counterpart"`
	domainSession.Terms
}

type counterOfferRequest struct {
	Message string `json:"message" validate:"max=1000"`
	domainSession.Terms
}

type decisionRequest struct {
	Action string `json:"action" validate:"required,oneof=accept reject"`
}

type completionRespondRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
	Reason string `json:"reason"`
}

type workSubmitRequest struct {
	Title         string  `json:"title" validate:"required,max=200"`
	Description   string  `json:"description"`
	AttachmentURL *string `json:"attachmentUrl,omitempty"`
}

type workReviewRequest struct {
	Action   string `json:"action" validate:"required,oneof=approve request_revision"`
	Feedback string `json:"feedback"`
}

func (s *Server) proposeSession(w http.ResponseWriter, r *http.Request) {
	var req sessionProposeRequest
	if !s.bind(w, r, &req) {
		return
	}
	if req.Counterpart.ID == uuid.Nil {
		s.fail(w, r, apperr.Validation("counterpart is required"))
		return
	}
	sess, err := s.sessionSvc.Propose(r.Context(), appSession.ProposeInput{
		ProposerID:    callerID(r.Context()),
		CounterpartID: req.Counterpart.ID,
		Terms:         req.Terms,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, s.sessionView(r.Context(), sess))
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	var filter domainSession.Filter
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		st, err := domainSession.ParseStatus(raw)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		filter.Status = &st
	}
	list, err := s.sessionSvc.ListSessionsForUser(r.Context(), callerID(r.Context()), filter)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"sessions": s.sessionViews(r.Context(), list)})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := parseUUIDParam(r, "sessionId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sess, err := s.sessionSvc.GetSession(r.Context(), sessionID, callerID(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.sessionView(r.Context(), sess))
}

func (s *Server) acceptSession(w http.ResponseWriter, r *http.Request) {
	s.decideSession(w, r, appSession.DecisionAccept)
}

func (s *Server) rejectSession(w http.ResponseWriter, r *http.Request) {
	s.decideSession(w, r, appSession.DecisionReject)
}

func (s *Server) decideSession(w http.ResponseWriter, r *http.Request, decision appSession.Decision) {
	sessionID, err := parseUUIDParam(r, "sessionId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sess, err := s.sessionSvc.AcceptOrReject(r.Context(), sessionID, callerID(r.Context()), decision)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.sessionView(r.Context(), sess))
}

func (s *Server) cancelSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := parseUUIDParam(r, "sessionId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sess, err := s.sessionSvc.Cancel(r.Context(), sessionID, callerID(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.sessionView(r.Context(), sess))
}

func (s *Server) createCounterOffer(w http.ResponseWriter, r *http.Request) {
	sessionID, err := parseUUIDParam(r, "sessionId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req counterOfferRequest
	if !s.bind(w, r, &req) {
		return
	}
	offer, err := s.sessionSvc.CreateCounterOffer(r.Context(), appSession.CounterOfferInput{
		SessionID: sessionID,
		By:        callerID(r.Context()),
		Message:   req.Message,
		Terms:     req.Terms,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, offer)
}

func (s *Server) listCounterOffers(w http.ResponseWriter, r *http.Request) {
	sessionID, err := parseUUIDParam(r, "sessionId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	list, err := s.sessionSvc.ListCounterOffers(r.Context(), sessionID, callerID(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"counterOffers": list})
}

func (s *Server) resolveCounterOffer(w http.ResponseWriter, r *http.Request) {
	offerID, err := parseUUIDParam(r, "counterOfferId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req decisionRequest
	if !s.bind(w, r, &req) {
		return
	}
	offer, err := s.sessionSvc.ResolveCounterOffer(r.Context(), offerID, callerID(r.Context()), appSession.Decision(req.Action))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, offer)
}

func (s *Server) requestCompletion(w http.ResponseWriter, r *http.Request) {
	sessionID, err := parseUUIDParam(r, "sessionId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sess, err := s.sessionSvc.RequestCompletion(r.Context(), sessionID, callerID(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.sessionView(r.Context(), sess))
}

func (s *Server) respondCompletion(w http.ResponseWriter, r *http.Request) {
	sessionID, err := parseUUIDParam(r, "sessionId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req completionRespondRequest
	if !s.bind(w, r, &req) {
		return
	}
	sess, err := s.sessionSvc.RespondToCompletion(r.Context(), appSession.RespondCompletionInput{
		SessionID: sessionID,
		By:        callerID(r.Context()),
		Action:    appSession.CompletionAction(req.Action),
		Reason:    req.Reason,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.sessionView(r.Context(), sess))
}

func (s *Server) submitWork(w http.ResponseWriter, r *http.Request) {
	sessionID, err := parseUUIDParam(r, "sessionId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req workSubmitRequest
	if !s.bind(w, r, &req) {
		return
	}
	sub, err := s.sessionSvc.SubmitWork(r.Context(), appSession.SubmitWorkInput{
		SessionID:     sessionID,
		By:            callerID(r.Context()),
		Title:         req.Title,
		Description:   req.Description,
		AttachmentURL: req.AttachmentURL,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, sub)
}

func (s *Server) listWork(w http.ResponseWriter, r *http.Request) {
	sessionID, err := parseUUIDParam(r, "sessionId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	list, err := s.sessionSvc.ListWork(r.Context(), sessionID, callerID(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"submissions": list})
}

func (s *Server) reviewWork(w http.ResponseWriter, r *http.Request) {
	submissionID, err := parseUUIDParam(r, "submissionId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req workReviewRequest
	if !s.bind(w, r, &req) {
		return
	}
	sub, err := s.sessionSvc.ReviewWork(r.Context(), appSession.ReviewWorkInput{
		SubmissionID: submissionID,
		By:           callerID(r.Context()),
		Approve:      req.Action == "approve",
		Feedback:     req.Feedback,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sub)
}
