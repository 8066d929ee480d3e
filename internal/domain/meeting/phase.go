package meeting

import "time"

// Phase is the time-derived view of a meeting used for both the
// cancellation guard and listing buckets.
type Phase string

const (
	PhasePending   Phase = "pending"
	PhaseUpcoming  Phase = "upcoming"
	PhaseHappening Phase = "happening"
	PhasePast      Phase = "past"
	PhaseCancelled Phase = "cancelled"
)

// InWindow reports whether now lies in [meetingTime-10m, meetingTime+30m].
func InWindow(meetingTime, now time.Time) bool {
	return !now.Before(meetingTime.Add(-WindowBefore)) && !now.After(meetingTime.Add(WindowAfter))
}

// PhaseOf classifies m at now.
func PhaseOf(m *Meeting, now time.Time) Phase {
	switch m.State {
	case StateCancelled:
		return PhaseCancelled
	case StatePending:
		return PhasePending
	case StateRejected:
		return PhasePast
	}
	switch {
	case InWindow(m.MeetingTime, now):
		return PhaseHappening
	case now.Before(m.MeetingTime):
		return PhaseUpcoming
	default:
		return PhasePast
	}
}

// Buckets groups meetings by phase.
type Buckets struct {
	Pending   []*Meeting `json:"pending"`
	Upcoming  []*Meeting `json:"upcoming"`
	Happening []*Meeting `json:"happening"`
	Past      []*Meeting `json:"past"`
	Cancelled []*Meeting `json:"cancelled"`
}

// Bucketize sorts meetings into phase buckets, preserving input order.
func Bucketize(meetings []*Meeting, now time.Time) Buckets {
	b := Buckets{
		Pending:   []*Meeting{},
		Upcoming:  []*Meeting{},
		Happening: []*Meeting{},
		Past:      []*Meeting{},
		Cancelled: []*Meeting{},
	}
	for _, m := range meetings {
		switch PhaseOf(m, now) {
		case PhasePending:
			b.Pending = append(b.Pending, m)
		case PhaseUpcoming:
			b.Upcoming = append(b.Upcoming, m)
		case PhaseHappening:
			b.Happening = append(b.Happening, m)
		case PhasePast:
			b.Past = append(b.Past, m)
		case PhaseCancelled:
			b.Cancelled = append(b.Cancelled, m)
		}
	}
	return b
}
