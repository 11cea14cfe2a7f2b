package mocks

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
)

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *PublisherMock) PublishJSON(ctx context.Context, routingKey string, message interface{}, headers map[string]string) error {
	args := m.Called(ctx, routingKey, message, headers)
	return args.Error(0)
}

func (m *PublisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

// Emission is one event handed to a Broadcaster.
type Emission struct {
	Room    string
	UserID  int
	Event   string
	Payload any
}

// Broadcaster records emissions instead of writing to sockets.
type Broadcaster struct {
	mu        sync.Mutex
	emissions []Emission
}

func (b *Broadcaster) EmitToRoom(room string, event string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.emissions = append(b.emissions, Emission{Room: room, Event: event, Payload: payload})
}

func (b *Broadcaster) EmitToUser(userID int, event string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.emissions = append(b.emissions, Emission{UserID: userID, Event: event, Payload: payload})
}

// Emissions returns a copy of everything recorded so far.
func (b *Broadcaster) Emissions() []Emission {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Emission, len(b.emissions))
	copy(out, b.emissions)
	return out
}

// Named returns the recorded emissions of one event.
func (b *Broadcaster) Named(event string) []Emission {
	var out []Emission
	for _, e := range b.Emissions() {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}
