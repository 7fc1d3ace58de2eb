// Package syncsignal implements the one-shot "a credential was added"
// notification between the management surface and the page-resident
// injector. The signal carries no payload and is fire-and-forget: with no
// listener attached it is simply lost, which is acceptable because the
// injector also refreshes on a periodic tick.
package syncsignal

import "sync"

// Broadcaster fans a no-payload signal out to its subscribers without
// ever blocking the producer. Each subscriber channel is buffered with
// capacity one, so bursts of signals coalesce into a single pending
// notification per subscriber.
type Broadcaster struct {
	mu   sync.Mutex
	subs []chan struct{}
}

// NewBroadcaster returns an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Subscribe registers a new listener and returns its signal channel.
func (b *Broadcaster) Subscribe() <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan struct{}, 1)
	b.subs = append(b.subs, ch)
	return ch
}

// NotifierFunc adapts a plain function to the producer side of the
// signal, letting callers route emission through a page-scoped event
// instead of the in-process broadcaster.
type NotifierFunc func()

// Notify invokes the wrapped function.
func (f NotifierFunc) Notify() { f() }

// Notify delivers the signal to every subscriber. A subscriber that
// already has a pending signal is skipped; a broadcaster with no
// subscribers drops the signal entirely.
func (b *Broadcaster) Notify() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
