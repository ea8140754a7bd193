package bus

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	b := New(8)
	got := make(chan Event, 1)
	b.Subscribe(TopicReservationCreated, "listener", func(ev Event) {
		got <- ev
	})

	b.Publish(TopicReservationCreated, map[string]any{"reservation_id": uint(7)})

	select {
	case ev := <-got:
		assert.Equal(t, TopicReservationCreated, ev.Topic)
		assert.Equal(t, uint(7), ev.Payload["reservation_id"])
		assert.False(t, ev.At.IsZero())
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestPublishSkipsOtherTopics(t *testing.T) {
	b := New(8)
	var calls int32
	b.Subscribe(TopicPaymentCompleted, "listener", func(Event) {
		atomic.AddInt32(&calls, 1)
	})

	b.Publish(TopicBoothReleased, map[string]any{"booth_id": uint(1)})
	b.Close()

	assert.EqualValues(t, 0, atomic.LoadInt32(&calls))
}

func TestPanickingListenerDoesNotKillWorker(t *testing.T) {
	b := New(8)
	var calls int32
	b.Subscribe(TopicBoothStatusChanged, "flaky", func(ev Event) {
		if atomic.AddInt32(&calls, 1) == 1 {
			panic("boom")
		}
	})

	b.Publish(TopicBoothStatusChanged, nil)
	b.Publish(TopicBoothStatusChanged, nil)
	b.Close()

	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestCloseDrainsQueuedEvents(t *testing.T) {
	b := New(64)
	var calls int32
	b.Subscribe(TopicReservationCanceled, "slow", func(Event) {
		time.Sleep(time.Millisecond)
		atomic.AddInt32(&calls, 1)
	})

	for i := 0; i < 10; i++ {
		b.Publish(TopicReservationCanceled, nil)
	}
	b.Close()

	assert.EqualValues(t, 10, atomic.LoadInt32(&calls))
}

func TestPublishAfterCloseIsNoop(t *testing.T) {
	b := New(8)
	var calls int32
	b.Subscribe(TopicPaymentCompleted, "listener", func(Event) {
		atomic.AddInt32(&calls, 1)
	})
	b.Close()

	b.Publish(TopicPaymentCompleted, nil)

	assert.EqualValues(t, 0, atomic.LoadInt32(&calls))
}
