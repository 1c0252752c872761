package tracker

import (
	"sync/atomic"

	"github.com/ayusman/handjoints/internal/joints"
)

// SubscriberBuffer is the channel capacity of each subscription.
const SubscriberBuffer = 1

type subscriber struct {
	group   joints.Group
	ch      chan joints.JointSet
	dropped atomic.Int64
}

// offer delivers set without blocking. When the buffer is full the oldest
// pending set is discarded so the subscriber always sees the newest one.
func (s *subscriber) offer(set joints.JointSet) {
	select {
	case s.ch <- set:
		return
	default:
	}

	select {
	case <-s.ch:
		s.dropped.Add(1)
	default:
	}

	select {
	case s.ch <- set:
	default:
		s.dropped.Add(1)
	}
}

// Subscription receives published sets for one group.
type Subscription struct {
	id      uint64
	sub     *subscriber
	tracker *Tracker
}

// C returns the update channel. It is closed by Close.
func (s *Subscription) C() <-chan joints.JointSet {
	return s.sub.ch
}

// Dropped returns how many updates were discarded because the subscriber
// fell behind.
func (s *Subscription) Dropped() int64 {
	return s.sub.dropped.Load()
}

// Close unsubscribes and closes the channel. It is safe to call twice.
func (s *Subscription) Close() {
	s.tracker.unsubscribe(s.id)
}

// Subscribe registers for updates to group. Slow subscribers miss
// intermediate updates; the pipeline never waits for them.
func (t *Tracker) Subscribe(group joints.Group) *Subscription {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextSub++
	sub := &subscriber{
		group: group,
		ch:    make(chan joints.JointSet, SubscriberBuffer),
	}
	t.subs[t.nextSub] = sub
	return &Subscription{id: t.nextSub, sub: sub, tracker: t}
}

func (t *Tracker) unsubscribe(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sub, ok := t.subs[id]
	if !ok {
		return
	}
	delete(t.subs, id)
	close(sub.ch)
}

// Subscribers returns the number of active subscriptions.
func (t *Tracker) Subscribers() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.subs)
}
