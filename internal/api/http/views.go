package httpapi

import (
	"context"

	"github.com/google/uuid"

	domainMeeting "github.com/skillswap/skillswap/internal/domain/meeting"
	domainSession "github.com/skillswap/skillswap/internal/domain/session"
	domainUser "github.com/skillswap/skillswap/internal/domain/user"
)

// sessionView is a session with its parties resolved to inline summaries.
type sessionView struct {
	*domainSession.Session
	User1 domainUser.Ref `json:"user1"`
	User2 domainUser.Ref `json:"user2"`
}

// meetingView is a meeting with its parties resolved to inline summaries.
type meetingView struct {
	*domainMeeting.Meeting
	Phase    domainMeeting.Phase `json:"phase"`
	Sender   domainUser.Ref      `json:"sender"`
	Receiver domainUser.Ref      `json:"receiver"`
}

type meetingBucketsView struct {
	Pending   []meetingView `json:"pending"`
	Upcoming  []meetingView `json:"upcoming"`
	Happening []meetingView `json:"happening"`
	Past      []meetingView `json:"past"`
	Cancelled []meetingView `json:"cancelled"`
}

// summaries looks up party profiles. A directory failure degrades to
// unresolved references.
func (s *Server) summaries(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]domainUser.Summary {
	out, err := s.userSvc.Summaries(ctx, ids)
	if err != nil {
		s.logger.Warn().Err(err).Msg("resolve user summaries failed")
		return nil
	}
	return out
}

func (s *Server) sessionViews(ctx context.Context, list []*domainSession.Session) []sessionView {
	ids := make([]uuid.UUID, 0, len(list)*2)
	for _, sess := range list {
		ids = append(ids, sess.User1ID, sess.User2ID)
	}
	known := s.summaries(ctx, uniqueIDs(ids))
	out := make([]sessionView, 0, len(list))
	for _, sess := range list {
		out = append(out, sessionView{
			Session: sess,
			User1:   domainUser.Unresolved(sess.User1ID).Resolve(known),
			User2:   domainUser.Unresolved(sess.User2ID).Resolve(known),
		})
	}
	return out
}

func (s *Server) sessionView(ctx context.Context, sess *domainSession.Session) sessionView {
	return s.sessionViews(ctx, []*domainSession.Session{sess})[0]
}

func (s *Server) meetingBuckets(ctx context.Context, b domainMeeting.Buckets) meetingBucketsView {
	var ids []uuid.UUID
	for _, group := range [][]*domainMeeting.Meeting{b.Pending, b.Upcoming, b.Happening, b.Past, b.Cancelled} {
		for _, m := range group {
			ids = append(ids, m.SenderID, m.ReceiverID)
		}
	}
	known := s.summaries(ctx, uniqueIDs(ids))
	views := func(list []*domainMeeting.Meeting, phase domainMeeting.Phase) []meetingView {
		out := make([]meetingView, 0, len(list))
		for _, m := range list {
			out = append(out, toMeetingView(m, phase, known))
		}
		return out
	}
	return meetingBucketsView{
		Pending:   views(b.Pending, domainMeeting.PhasePending),
		Upcoming:  views(b.Upcoming, domainMeeting.PhaseUpcoming),
		Happening: views(b.Happening, domainMeeting.PhaseHappening),
		Past:      views(b.Past, domainMeeting.PhasePast),
		Cancelled: views(b.Cancelled, domainMeeting.PhaseCancelled),
	}
}

func (s *Server) meetingView(ctx context.Context, m *domainMeeting.Meeting) meetingView {
	known := s.summaries(ctx, []uuid.UUID{m.SenderID, m.ReceiverID})
	return toMeetingView(m, s.meetingSvc.PhaseOf(m), known)
}

func toMeetingView(m *domainMeeting.Meeting, phase domainMeeting.Phase, known map[uuid.UUID]domainUser.Summary) meetingView {
	return meetingView{
		Meeting:  m,
		Phase:    phase,
		Sender:   domainUser.Unresolved(m.SenderID).Resolve(known),
		Receiver: domainUser.Unresolved(m.ReceiverID).Resolve(known),
	}
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
