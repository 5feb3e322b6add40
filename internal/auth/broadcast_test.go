package auth

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestBroadcaster_FanOut(t *testing.T) {
	b := NewBroadcaster()

	a, cancelA := b.Subscribe(1)
	c, cancelC := b.Subscribe(1)
	defer cancelC()

	if dropped := b.Publish(Event{Kind: EventLogin}); dropped != 0 {
		t.Fatalf("dropped=%d", dropped)
	}
	if (<-a).Kind != EventLogin || (<-c).Kind != EventLogin {
		t.Fatalf("event not delivered to all subscribers")
	}

	cancelA()
	cancelA()
	if _, ok := <-a; ok {
		t.Fatalf("channel open after cancel")
	}

	b.Publish(Event{Kind: EventLogout})
	if (<-c).Kind != EventLogout {
		t.Fatalf("remaining subscriber missed event")
	}
}

func TestBroadcaster_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewBroadcaster()
	_, cancel := b.Subscribe(1)
	defer cancel()

	b.Publish(Event{Kind: EventLogin})

	done := make(chan int)
	go func() { done <- b.Publish(Event{Kind: EventLogout}) }()

	select {
	case dropped := <-done:
		if dropped != 1 {
			t.Fatalf("dropped=%d", dropped)
		}
	case <-time.After(time.Second):
		t.Fatalf("publish blocked on a full subscriber")
	}
}

func TestBroadcaster_Observe(t *testing.T) {
	b := NewBroadcaster()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu   sync.Mutex
		seen []EventKind
		got  = make(chan struct{}, 2)
	)
	b.Observe(ctx, func(e Event) {
		mu.Lock()
		seen = append(seen, e.Kind)
		mu.Unlock()
		got <- struct{}{}
	})

	b.Publish(Event{Kind: EventRegister})
	b.Publish(Event{Kind: EventLogout})

	for i := 0; i < 2; i++ {
		select {
		case <-got:
		case <-time.After(time.Second):
			t.Fatalf("observer missed events")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || seen[0] != EventRegister || seen[1] != EventLogout {
		t.Fatalf("seen=%v", seen)
	}
}
