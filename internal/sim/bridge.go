package sim

import (
	"sync"
	"time"
)

// Bridge hands snapshots from the engine to observers. Throttled offers come
// from the frame loop; control actions publish immediately. Subscribers get
// a latest-wins channel, so a slow view never blocks the engine.
type Bridge struct {
	interval time.Duration

	mu        sync.RWMutex
	latest    Snapshot
	published uint64
	lastPush  time.Time
	subs      map[int]chan Snapshot
	nextID    int
	closed    bool
}

func NewBridge(interval time.Duration) *Bridge {
	if interval < 0 {
		interval = 0
	}
	return &Bridge{interval: interval, subs: make(map[int]chan Snapshot)}
}

// Offer publishes the snapshot produced by build if active and at least the
// publish interval has passed since the last publication. build is not
// called when the offer is dropped.
func (b *Bridge) Offer(now time.Time, active bool, build func() Snapshot) bool {
	if !active {
		return false
	}
	b.mu.RLock()
	due := b.lastPush.IsZero() || now.Sub(b.lastPush) >= b.interval
	b.mu.RUnlock()
	if !due {
		return false
	}

	b.mu.Lock()
	b.lastPush = now
	b.mu.Unlock()
	b.Publish(build())
	return true
}

// Publish stores s as the latest snapshot and forwards it to every subscriber.
func (b *Bridge) Publish(s Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.latest = s
	b.published++
	for _, ch := range b.subs {
		deliver(ch, s)
	}
}

func (b *Bridge) Latest() (Snapshot, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.latest, b.published > 0
}

func (b *Bridge) Published() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.published
}

// Subscribe returns a channel carrying the most recent snapshot and a cancel
// func that closes it. The current snapshot, if any, is delivered at once.
func (b *Bridge) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	if b.published > 0 {
		ch <- b.latest
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// Close ends every subscription. Later publications are dropped.
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// deliver replaces any unread snapshot in ch with s.
func deliver(ch chan Snapshot, s Snapshot) {
	select {
	case ch <- s:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- s:
	default:
	}
}
