package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/skillswap/skillswap/internal/domain/notification"
)

// SubjectPrefix namespaces every subject the sink publishes on.
const SubjectPrefix = "skillswap."

// conn is the part of *nats.Conn the sink needs.
type conn interface {
	Publish(subject string, data []byte) error
}

// Sink publishes events as JSON on skillswap.<event type>.
type Sink struct {
	conn  conn
	close func()
}

var _ notification.Sink = (*Sink)(nil)

// Connect dials the NATS server at url.
func Connect(url string) (*Sink, error) {
	nc, err := nats.Connect(url, nats.Name("skillswap"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Sink{conn: nc, close: nc.Close}, nil
}

// NewSink wraps an existing connection.
func NewSink(c conn) *Sink {
	return &Sink{conn: c, close: func() {}}
}

func (s *Sink) Name() string { return "nats" }

func (s *Sink) Deliver(_ context.Context, e *notification.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return s.conn.Publish(Subject(e.Type), data)
}

func (s *Sink) Close() {
	s.close()
}

// Subject returns the subject an event type is published on.
func Subject(t notification.EventType) string {
	return SubjectPrefix + string(t)
}
