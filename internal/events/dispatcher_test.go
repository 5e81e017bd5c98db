package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_DeliversToSubscribersOfType(t *testing.T) {
	d := NewInMemoryDispatcher()
	var created, updated int
	d.Subscribe(EventJobCreated, func(context.Context, Event) error { created++; return nil })
	d.Subscribe(EventJobCreated, func(context.Context, Event) error { created++; return nil })
	d.Subscribe(EventJobUpdated, func(context.Context, Event) error { updated++; return nil })

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventJobCreated}))

	assert.Equal(t, 2, created)
	assert.Equal(t, 0, updated)
}

func TestDispatcher_FailingHandlerDoesNotStopOthers(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")
	var reached bool
	d.Subscribe(EventJobUpdated, func(context.Context, Event) error { return boom })
	d.Subscribe(EventJobUpdated, func(context.Context, Event) error { reached = true; return nil })

	err := d.Publish(context.Background(), Event{Type: EventJobUpdated})

	assert.ErrorIs(t, err, boom)
	assert.True(t, reached)
}

func TestDispatcher_NoSubscribers(t *testing.T) {
	assert.NoError(t, NewInMemoryDispatcher().Publish(context.Background(), Event{Type: EventJobCreated}))
}
