// Package eventbus carries live occupancy updates from the sensor feed
// to the lot store and metrics collectors.
package eventbus

import (
	"sync"
	"time"

	"github.com/campuspark/parkd/core/model"
)

// Update is one occupancy change observed for a lot.
type Update struct {
	LotID     string
	Occupancy int
	Source    model.ObservationSource
	Time      time.Time
}

// EventBus implements a simple publish/subscribe bus for updates.
type EventBus interface {
	Publish(Update)
	Subscribe() <-chan Update
	Unsubscribe(<-chan Update)
	Close()
}

// Bus is the default EventBus implementation using fan-out channels.
type Bus struct {
	mu     sync.RWMutex
	subs   []chan Update
	closed bool
}

// New creates a new Bus.
func New() *Bus { return &Bus{} }

// Publish sends the update to all subscribers. Delivery is non-blocking;
// a subscriber that cannot keep up loses updates rather than stalling
// the sensor feed.
func (b *Bus) Publish(u Update) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- u:
		default:
		}
	}
}

// Subscribe registers a new subscriber and returns its channel.
func (b *Bus) Subscribe() <-chan Update {
	ch := make(chan Update, 8)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subs = append(b.subs, ch)
	}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *Bus) Unsubscribe(sub <-chan Update) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ch := range b.subs {
		if ch == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			if !b.closed {
				close(ch)
			}
			return
		}
	}
}

// Close closes all subscriber channels and clears the list.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
	b.mu.Unlock()
}
