package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/skillswap/skillswap/internal/domain/notification"
	"github.com/skillswap/skillswap/internal/domain/notification/mocks"
)

type recordingSink struct {
	mu     sync.Mutex
	events []*notification.Event
	err    error
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Deliver(_ context.Context, e *notification.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func (s *recordingSink) received() []*notification.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*notification.Event(nil), s.events...)
}

func event(t notification.EventType) *notification.Event {
	return notification.NewEvent(t, uuid.New(), uuid.New(), notification.EntitySession, uuid.New(), "msg", "")
}

func stop(t *testing.T, d *Dispatcher) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))
}

func TestDispatcherDeliversToEverySink(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSink := mocks.NewMockSink(ctrl)
	rec := &recordingSink{}
	e := event(notification.EventSessionProposed)

	mockSink.EXPECT().Name().Return("mock").AnyTimes()
	mockSink.EXPECT().Deliver(gomock.Any(), e).Return(nil)

	metrics := NewMetrics(nil)
	d := NewDispatcher(8, nil, metrics, zerolog.Nop(), mockSink, rec)
	d.Start()
	d.Publish(context.Background(), e)
	stop(t, d)

	require.Len(t, rec.received(), 1)
	assert.Equal(t, e.EventID, rec.received()[0].EventID)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Published.WithLabelValues(string(e.Type))))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Delivered.WithLabelValues("mock")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Delivered.WithLabelValues("recording")))
}

func TestDispatcherSinkFailureDoesNotStopOthers(t *testing.T) {
	failing := &recordingSink{err: errors.New("broker down")}
	ok := &okSink{}
	metrics := NewMetrics(nil)
	d := NewDispatcher(8, nil, metrics, zerolog.Nop(), failing, ok)
	d.Start()
	d.Publish(context.Background(), event(notification.EventWorkSubmitted))
	d.Publish(context.Background(), event(notification.EventWorkReviewed))
	stop(t, d)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Failed.WithLabelValues("recording")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Delivered.WithLabelValues("ok")))
}

type okSink struct{ recordingSink }

func (s *okSink) Name() string { return "ok" }

func TestDispatcherAppliesFilter(t *testing.T) {
	filter, err := NewFilter(`type != 'meeting.completed'`)
	require.NoError(t, err)
	rec := &recordingSink{}
	metrics := NewMetrics(nil)
	d := NewDispatcher(8, filter, metrics, zerolog.Nop(), rec)
	d.Start()
	d.Publish(context.Background(), event(notification.EventMeetingCompleted))
	d.Publish(context.Background(), event(notification.EventMeetingAccepted))
	stop(t, d)

	got := rec.received()
	require.Len(t, got, 1)
	assert.Equal(t, notification.EventMeetingAccepted, got[0].Type)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Dropped.WithLabelValues("filtered")))
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	metrics := NewMetrics(nil)
	d := NewDispatcher(1, nil, metrics, zerolog.Nop())
	// not started, so the queue never drains
	d.Publish(context.Background(), event(notification.EventSessionAccepted))
	d.Publish(context.Background(), event(notification.EventSessionAccepted))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Published.WithLabelValues("session.accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Dropped.WithLabelValues("queue_full")))
	require.NoError(t, d.Stop(context.Background()))
}

func TestDispatcherStopDrainsAndRejectsLateEvents(t *testing.T) {
	rec := &recordingSink{}
	metrics := NewMetrics(nil)
	d := NewDispatcher(64, nil, metrics, zerolog.Nop(), rec)
	for i := 0; i < 20; i++ {
		d.Publish(context.Background(), event(notification.EventReviewSubmitted))
	}
	d.Start()
	stop(t, d)
	assert.Len(t, rec.received(), 20)

	d.Publish(context.Background(), event(notification.EventReviewSubmitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Dropped.WithLabelValues("stopped")))
	require.NoError(t, d.Stop(context.Background()))
}

func TestDispatcherIgnoresNilEvent(t *testing.T) {
	metrics := NewMetrics(nil)
	d := NewDispatcher(1, nil, metrics, zerolog.Nop())
	d.Publish(context.Background(), nil)
	assert.Equal(t, 0, testutil.CollectAndCount(metrics.Published))
}
