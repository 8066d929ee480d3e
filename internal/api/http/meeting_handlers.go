package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	appMeeting "github.com/skillswap/skillswap/internal/application/meeting"
	"github.com/skillswap/skillswap/internal/domain/apperr"
	domainUser "github.com/skillswap/skillswap/internal/domain/user"
)

type meetingCreateRequest struct {
	Receiver    domainUser.Ref `json:"receiver"`
	Description string         `json:"description" validate:"max=2000"`
	MeetingTime time.Time      `json:"meetingTime"`
}

type meetingCancelRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func (s *Server) createMeeting(w http.ResponseWriter, r *http.Request) {
	var req meetingCreateRequest
	if !s.bind(w, r, &req) {
		return
	}
	if req.Receiver.ID == uuid.Nil {
		s.fail(w, r, apperr.Validation("receiver is required"))
		return
	}
	m, err := s.meetingSvc.CreateMeeting(r.Context(), appMeeting.CreateInput{
		SenderID:    callerID(r.Context()),
		ReceiverID:  req.Receiver.ID,
		Description: req.Description,
		MeetingTime: req.MeetingTime,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, s.meetingView(r.Context(), m))
}

func (s *Server) listMeetings(w http.ResponseWriter, r *http.Request) {
	buckets, err := s.meetingSvc.ListMeetingsForUser(r.Context(), callerID(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.meetingBuckets(r.Context(), buckets))
}

func (s *Server) respondMeeting(w http.ResponseWriter, r *http.Request) {
	meetingID, err := parseUUIDParam(r, "meetingId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req decisionRequest
	if !s.bind(w, r, &req) {
		return
	}
	m, err := s.meetingSvc.Respond(r.Context(), meetingID, callerID(r.Context()), req.Action == "accept")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.meetingView(r.Context(), m))
}

func (s *Server) cancelMeeting(w http.ResponseWriter, r *http.Request) {
	meetingID, err := parseUUIDParam(r, "meetingId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req meetingCancelRequest
	if !s.bind(w, r, &req) {
		return
	}
	m, notice, err := s.meetingSvc.Cancel(r.Context(), meetingID, callerID(r.Context()), req.Reason)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"meeting":      s.meetingView(r.Context(), m),
		"cancellation": notice,
	})
}

func (s *Server) listCancellations(w http.ResponseWriter, r *http.Request) {
	unacknowledged := false
	if raw := r.URL.Query().Get("unacknowledged"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			s.fail(w, r, apperr.Validation("invalid unacknowledged: %q", raw))
			return
		}
		unacknowledged = v
	}
	list, err := s.meetingSvc.ListCancellationsForUser(r.Context(), callerID(r.Context()), unacknowledged)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"cancellations": list})
}

func (s *Server) acknowledgeCancellation(w http.ResponseWriter, r *http.Request) {
	cancellationID, err := parseUUIDParam(r, "cancellationId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.meetingSvc.AcknowledgeCancellation(r.Context(), cancellationID, callerID(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}
