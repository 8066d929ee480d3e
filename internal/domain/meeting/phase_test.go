package meeting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPhaseOf(t *testing.T) {
	accepted := &Meeting{State: StateAccepted, MeetingTime: meetingAt}

	tests := []struct {
		name string
		m    *Meeting
		now  time.Time
		want Phase
	}{
		{"upcoming", accepted, meetingAt.Add(-10*time.Minute - time.Nanosecond), PhaseUpcoming},
		{"window opens", accepted, meetingAt.Add(-10 * time.Minute), PhaseHappening},
		{"at start", accepted, meetingAt, PhaseHappening},
		{"window closes", accepted, meetingAt.Add(30 * time.Minute), PhaseHappening},
		{"past", accepted, meetingAt.Add(30*time.Minute + time.Nanosecond), PhasePast},
		{"pending ignores time", &Meeting{State: StatePending, MeetingTime: meetingAt}, meetingAt, PhasePending},
		{"cancelled", &Meeting{State: StateCancelled, MeetingTime: meetingAt}, meetingAt.Add(-time.Hour), PhaseCancelled},
		{"rejected is past", &Meeting{State: StateRejected, MeetingTime: meetingAt}, meetingAt.Add(-time.Hour), PhasePast},
		{"completed", &Meeting{State: StateCompleted, MeetingTime: meetingAt}, meetingAt.Add(time.Hour), PhasePast},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PhaseOf(tt.m, tt.now))
		})
	}
}

func TestBucketize(t *testing.T) {
	now := meetingAt
	meetings := []*Meeting{
		{State: StatePending, MeetingTime: now.Add(time.Hour)},
		{State: StateAccepted, MeetingTime: now.Add(time.Hour)},
		{State: StateAccepted, MeetingTime: now.Add(5 * time.Minute)},
		{State: StateAccepted, MeetingTime: now.Add(-2 * time.Hour)},
		{State: StateCancelled, MeetingTime: now.Add(time.Hour)},
	}
	b := Bucketize(meetings, now)
	assert.Len(t, b.Pending, 1)
	assert.Len(t, b.Upcoming, 1)
	assert.Len(t, b.Happening, 1)
	assert.Len(t, b.Past, 1)
	assert.Len(t, b.Cancelled, 1)
	assert.Same(t, meetings[2], b.Happening[0])

	empty := Bucketize(nil, now)
	assert.NotNil(t, empty.Upcoming)
}
