package events

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestBus_EmitCallsSubscribers(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	var got []Event
	bus.Subscribe("user.joined_team", func(_ context.Context, e Event) {
		got = append(got, e)
	})

	ev := UserJoinedTeam{UserID: uuid.New(), TeamID: uuid.New()}
	bus.Emit(context.Background(), ev)

	assert.Equal(t, []Event{ev}, got)
}

func TestBus_EmitIgnoresOtherEvents(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	called := false
	bus.Subscribe("user.left_team", func(_ context.Context, _ Event) {
		called = true
	})

	bus.Emit(context.Background(), UserJoinedTeam{UserID: uuid.New(), TeamID: uuid.New()})

	assert.False(t, called)
}

func TestBus_EmitWithNoSubscribers(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	assert.NotPanics(t, func() {
		bus.Emit(context.Background(), UserLeftTeam{UserID: uuid.New(), TeamID: uuid.New()})
	})
}

func TestBus_MultipleSubscribersInOrder(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	var order []int
	bus.Subscribe("user.joined_team", func(_ context.Context, _ Event) {
		order = append(order, 1)
	})
	bus.Subscribe("user.joined_team", func(_ context.Context, _ Event) {
		order = append(order, 2)
	})

	bus.Emit(context.Background(), UserJoinedTeam{UserID: uuid.New(), TeamID: uuid.New()})

	assert.Equal(t, []int{1, 2}, order)
}

func TestEventNames(t *testing.T) {
	assert.Equal(t, "user.joined_team", UserJoinedTeam{}.Name())
	assert.Equal(t, "user.left_team", UserLeftTeam{}.Name())
	assert.Equal(t, "user.invited_to_team", UserInvitedToTeam{}.Name())
}
