package notification

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Publisher,Sink

import (
	"context"
)

// Publisher accepts events after a state change has been stored.
// Publish must not block the caller and never reports failure.
type Publisher interface {
	Publish(ctx context.Context, e *Event)
}

// Sink delivers events over one channel (SSE, message bus, ...).
type Sink interface {
	Name() string
	Deliver(ctx context.Context, e *Event) error
}

// SSEHub defines the interface for managing SSE connections
type SSEHub interface {
	Register(client *SSEClient)
	Unregister(clientID string)
	GetClientCount() int
	BroadcastToUser(userID string, message *SSEMessage) int
	Stop()
}
