package bridge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamhub/internal/app/domain/hub"
	"streamhub/internal/app/domain/stream"
	"streamhub/pkg/logger"
)

func TestDiffSlots(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		prev hub.SlotMap
		next hub.SlotMap
		want []int
	}{
		{"no change", hub.SlotMap{"a", "b"}, hub.SlotMap{"a", "b"}, nil},
		{"fill", hub.SlotMap{"a"}, hub.SlotMap{"a", "b"}, []int{2}},
		{"clear", hub.SlotMap{"a", "b"}, hub.SlotMap{"a"}, []int{2}},
		{"swap occupant", hub.SlotMap{"a", "b"}, hub.SlotMap{"a", "c"}, []int{2}},
		{"multiple", hub.SlotMap{"a", "b", "c"}, hub.SlotMap{"x", "b", "", "d"}, []int{1, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, diffSlots(tt.prev, tt.next))
		})
	}
}

func TestSubscribeReceivesEvents(t *testing.T) {
	t.Parallel()

	b := New(logger.New())
	ch, cancel := b.Subscribe()
	defer cancel()

	st := hub.State{ActiveSlot: 2, Slots: hub.SlotMap{"a", "b"}}
	b.PublishState(st)

	select {
	case ev := <-ch:
		assert.Equal(t, EventState, ev.Type)
		require.NotNil(t, ev.State)
		assert.Equal(t, 2, ev.State.ActiveSlot)
		assert.Nil(t, ev.RemountSlots, "in-process subscribers keep their own diff state")
	case <-time.After(time.Second):
		t.Fatal("no state event received")
	}

	b.PublishCatalog([]stream.Item{{ID: "twitch-xqc"}}, hub.SourceLive)

	select {
	case ev := <-ch:
		assert.Equal(t, EventCatalog, ev.Type)
		require.Len(t, ev.Catalog, 1)
		assert.Equal(t, hub.SourceLive, ev.Source)
	case <-time.After(time.Second):
		t.Fatal("no catalog event received")
	}
}

func TestSubscribeCancelStopsDelivery(t *testing.T) {
	t.Parallel()

	b := New(logger.New())
	ch, cancel := b.Subscribe()
	cancel()

	b.PublishState(hub.State{})

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("event delivered after cancel")
		}
	default:
	}
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	t.Parallel()

	b := New(logger.New())
	_, cancel := b.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		// more events than the channel buffers; publish must not stall
		for i := 0; i < sendBuffer*3; i++ {
			b.PublishState(hub.State{ActiveSlot: 1})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
