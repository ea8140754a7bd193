// Package bus is the in-process publish/subscribe fabric that decouples the
// reservation/payment core from side-effecting collaborators (email,
// monitoring, invoicing views). Delivery is fire-and-forget: each subscriber
// gets its own buffered queue and worker goroutine, a slow or panicking
// listener never blocks or rolls back the state transition that published.
package bus

import (
	"log"
	"sync"
	"time"
)

type Topic string

const (
	TopicBoothStatusChanged  Topic = "booth-status-changed"
	TopicBoothReleased       Topic = "booth-released"
	TopicReservationCreated  Topic = "reservation-created"
	TopicReservationCanceled Topic = "reservation-cancelled"
	TopicPaymentCompleted    Topic = "payment-completed"
)

type Event struct {
	Topic   Topic
	Payload map[string]any
	At      time.Time
}

type Handler func(Event)

type subscriber struct {
	name    string
	topic   Topic
	queue   chan Event
	handler Handler
}

type Bus struct {
	mu     sync.RWMutex
	subs   map[Topic][]*subscriber
	buffer int
	wg     sync.WaitGroup
	closed bool
}

func New(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 64
	}
	return &Bus{
		subs:   make(map[Topic][]*subscriber),
		buffer: buffer,
	}
}

// Subscribe registers handler under name and starts its worker. All
// subscriptions happen during startup wiring, before traffic.
func (b *Bus) Subscribe(topic Topic, name string, handler Handler) {
	sub := &subscriber{
		name:    name,
		topic:   topic,
		queue:   make(chan Event, b.buffer),
		handler: handler,
	}
	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], sub)
	b.mu.Unlock()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for ev := range sub.queue {
			b.dispatch(sub, ev)
		}
	}()
}

func (b *Bus) dispatch(sub *subscriber, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[bus] Listener %s panicked on %s: %v\n", sub.name, ev.Topic, r)
		}
	}()
	sub.handler(ev)
}

// Publish enqueues the event for every subscriber of the topic. It never
// blocks: when a subscriber's queue is full the event is dropped for that
// subscriber and logged.
func (b *Bus) Publish(topic Topic, payload map[string]any) {
	ev := Event{Topic: topic, Payload: payload, At: time.Now().UTC()}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, sub := range b.subs[topic] {
		select {
		case sub.queue <- ev:
		default:
			log.Printf("[bus] Queue full for listener %s, dropping %s\n", sub.name, topic)
		}
	}
}

// Close stops accepting events and waits for workers to drain their queues.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, subs := range b.subs {
		for _, sub := range subs {
			close(sub.queue)
		}
	}
	b.mu.Unlock()
	b.wg.Wait()
}

var (
	defaultBus  *Bus
	defaultOnce sync.Once
)

func Default() *Bus {
	defaultOnce.Do(func() {
		defaultBus = New(256)
	})
	return defaultBus
}

func Publish(topic Topic, payload map[string]any) {
	Default().Publish(topic, payload)
}

func Subscribe(topic Topic, name string, handler Handler) {
	Default().Subscribe(topic, name, handler)
}
