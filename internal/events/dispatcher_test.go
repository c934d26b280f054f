package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishRunsEveryHandler(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	var calls []string

	dispatcher.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		calls = append(calls, "first")
		return errors.New("smtp down")
	})
	dispatcher.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		calls = append(calls, "second")
		return nil
	})
	dispatcher.Subscribe(EventTicketDeleted, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventTicketCreated})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestPublishWithoutListeners(t *testing.T) {
	assert.NoError(t, NewInMemoryDispatcher().Publish(context.Background(), Event{Type: EventTicketRated}))
}

func TestPublishRecoversHandlerPanic(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	reached := false
	dispatcher.Subscribe(EventTicketStatusChanged, func(context.Context, Event) error {
		panic("template exploded")
	})
	dispatcher.Subscribe(EventTicketStatusChanged, func(context.Context, Event) error {
		reached = true
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventTicketStatusChanged})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template exploded")
	assert.True(t, reached)
}
