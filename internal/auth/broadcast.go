package auth

import (
	"context"
	"sync"
	"time"
)

type EventKind string

const (
	EventRegister EventKind = "register"
	EventLogin    EventKind = "login"
	EventLogout   EventKind = "logout"
)

// Event is published after every session transition.
type Event struct {
	Kind    EventKind `json:"kind"`
	Client  string    `json:"-"`
	State   State     `json:"state"`
	Session *Session  `json:"session,omitempty"`
	At      time.Time `json:"at"`
}

// Broadcaster fans session events out to subscribers. Publishing never
// blocks: a subscriber whose buffer is full misses the event.
type Broadcaster struct {
	mu   sync.Mutex
	next int
	subs map[int]chan Event
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan Event)}
}

// Subscribe returns a channel of future events and a cancel func that
// closes it.
func (b *Broadcaster) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			close(ch)
			b.mu.Unlock()
		})
	}
}

// Publish delivers e to every subscriber and returns how many missed it.
func (b *Broadcaster) Publish(e Event) (dropped int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			dropped++
		}
	}
	return dropped
}

// Observe calls fn for every event until ctx is done.
func (b *Broadcaster) Observe(ctx context.Context, fn func(Event)) {
	ch, cancel := b.Subscribe(64)
	go func() {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-ch:
				if !ok {
					return
				}
				fn(e)
			}
		}
	}()
}
