package krypt

import (
	"strconv"
	"sync"
	"sync/atomic"
)

// subscription represents an active room change subscription.
type subscription struct {
	id       string
	callback func([]Message)
	active   atomic.Bool
}

// subscriptionManager handles room subscriptions with safe lifecycle management.
// It ensures callbacks are never invoked after unsubscription completes.
type subscriptionManager struct {
	mu     sync.RWMutex
	subs   map[string]*subscription
	nextID atomic.Uint64
}

func newSubscriptionManager() *subscriptionManager {
	return &subscriptionManager{
		subs: make(map[string]*subscription),
	}
}

// subscribe registers a callback for room snapshots.
// Returns an unsubscribe function that must be called to clean up.
func (m *subscriptionManager) subscribe(callback func([]Message)) func() {
	id := strconv.FormatUint(m.nextID.Add(1), 10)

	sub := &subscription{
		id:       id,
		callback: callback,
	}
	sub.active.Store(true)

	m.mu.Lock()
	m.subs[id] = sub
	m.mu.Unlock()

	return func() {
		m.unsubscribe(id)
	}
}

// unsubscribe removes a subscription. Safe to call multiple times.
func (m *subscriptionManager) unsubscribe(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sub, ok := m.subs[id]; ok {
		sub.active.Store(false) // Mark inactive before removing
		delete(m.subs, id)
	}
}

// notify calls every registered callback with its own copy of snapshot.
// Callbacks are invoked synchronously after releasing the read lock.
func (m *subscriptionManager) notify(snapshot []Message) {
	m.mu.RLock()
	if len(m.subs) == 0 {
		m.mu.RUnlock()
		return
	}

	// Copy subscriptions to avoid holding lock during callbacks
	subs := make([]*subscription, 0, len(m.subs))
	for _, sub := range m.subs {
		subs = append(subs, sub)
	}
	m.mu.RUnlock()

	for _, sub := range subs {
		if sub.active.Load() {
			sub.callback(append([]Message(nil), snapshot...))
		}
	}
}

// count returns the number of active subscriptions.
func (m *subscriptionManager) count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subs)
}

// clear removes all subscriptions. Called during Room.Close().
func (m *subscriptionManager) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sub := range m.subs {
		sub.active.Store(false)
	}
	m.subs = make(map[string]*subscription)
}
