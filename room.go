package krypt

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Room is a local ephemeral message room. Every message counts down from the
// room TTL and is removed when it reaches zero.
//
// A single goroutine drives all countdowns from one ticker. Only that
// goroutine and Send mutate the message set; readers get copies from
// Snapshot and OnChange.
type Room struct {
	id       string
	sender   string
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	box      *Box
	logger   *slog.Logger

	subs *subscriptionManager

	mu       sync.RWMutex
	messages []*storedMessage
	index    map[string]*storedMessage
	cancel   context.CancelFunc
	done     chan struct{}
	ticking  *atomic.Bool
	closed   bool
}

// NewRoom creates a room. The countdown does not run until Listen or Send.
func NewRoom(opts ...RoomOption) *Room {
	cfg := &roomConfig{
		ttl:          defaultRoomTTL,
		tickInterval: defaultRoomTickInterval,
		now:          time.Now,
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.id == "" {
		cfg.id = uuid.NewString()
	}
	if cfg.sender == "" {
		cfg.sender = "local-" + uuid.NewString()[:8]
	}

	return &Room{
		id:       cfg.id,
		sender:   cfg.sender,
		ttl:      cfg.ttl,
		interval: cfg.tickInterval,
		now:      cfg.now,
		box:      cfg.box,
		logger:   cfg.logger.With("room", cfg.id),
		subs:     newSubscriptionManager(),
		index:    make(map[string]*storedMessage),
	}
}

// ID returns the room identifier.
func (r *Room) ID() string { return r.id }

// SenderID returns the sender stamped on messages sent from this room.
func (r *Room) SenderID() string { return r.sender }

// TTL returns how long each message stays visible.
func (r *Room) TTL() time.Duration { return r.ttl }

func (r *Room) ttlSeconds() int {
	return int(r.ttl / time.Second)
}

// Send adds a message with the full TTL remaining and makes sure the
// countdown is running. It fails only on a closed room.
func (r *Room) Send(text string) (Message, error) {
	now := r.now()
	id := uuid.NewString()

	body := text
	if r.box != nil {
		body = r.box.Seal([]byte(text), r.associatedData(id))
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return Message{}, ErrRoomClosed
	}
	m := &storedMessage{
		id:        id,
		senderID:  r.sender,
		createdAt: now,
		body:      body,
		remaining: r.ttlSeconds(),
	}
	r.messages = append(r.messages, m)
	r.index[id] = m
	remaining := m.remaining
	r.startLocked()
	raw := r.copyLocked()
	r.mu.Unlock()

	r.logger.Debug("message sent", "message", id, "ttl", r.ttl)
	r.subs.notify(r.materialize(raw))

	return Message{
		ID:        id,
		SenderID:  r.sender,
		CreatedAt: now,
		Text:      &text,
		Remaining: remaining,
	}, nil
}

// Listen starts the countdown if it is not already running. Calling it again
// while running has no effect.
func (r *Room) Listen() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomClosed
	}
	r.startLocked()
	return nil
}

// Listening reports whether the countdown is running.
func (r *Room) Listening() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cancel != nil
}

// startLocked launches the tick goroutine. Caller must hold r.mu.
func (r *Room) startLocked() {
	if r.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})
	r.ticking = new(atomic.Bool)
	go r.run(ctx, r.done, r.ticking)
	r.logger.Debug("countdown started", "interval", r.interval)
}

// run drives the countdown. ticking is set while a tick, including its
// OnChange callbacks, is in progress on this goroutine.
func (r *Room) run(ctx context.Context, done chan struct{}, ticking *atomic.Bool) {
	defer close(done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			ticking.Store(true)
			r.tick()
			ticking.Store(false)
		}
	}
}

// Stop halts the countdown and waits for the tick goroutine to exit.
// Messages are kept with their remaining time frozen. A later Listen or Send
// resumes counting from each message's creation time. Stop is idempotent.
//
// If a tick is in progress, as it is when Stop is called from an OnChange
// callback, Stop returns without waiting; the goroutine exits as soon as
// that tick returns and never ticks again.
func (r *Room) Stop() {
	r.mu.Lock()
	cancel, done, ticking := r.cancel, r.done, r.ticking
	r.cancel, r.done, r.ticking = nil, nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	if !ticking.Load() {
		<-done
	}
	r.logger.Debug("countdown stopped")
}

// Close stops the room and drops all subscriptions. A closed room rejects
// Send and Listen; Snapshot still returns the frozen messages.
func (r *Room) Close() {
	r.Stop()

	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	r.subs.clear()
}

// tick recomputes every message's remaining time from the clock and removes
// those that reached zero. Subscribers are notified only if something changed.
func (r *Room) tick() {
	now := r.now()
	ttl := r.ttlSeconds()

	r.mu.Lock()
	changed := false
	kept := r.messages[:0]
	for _, m := range r.messages {
		remaining := max(0, ttl-int(now.Sub(m.createdAt)/time.Second))
		if remaining != m.remaining {
			m.remaining = remaining
			changed = true
		}
		if remaining == 0 {
			delete(r.index, m.id)
			r.logger.Debug("message expired", "message", m.id)
			continue
		}
		kept = append(kept, m)
	}
	clear(r.messages[len(kept):])
	r.messages = kept

	if !changed {
		r.mu.Unlock()
		return
	}
	raw := r.copyLocked()
	r.mu.Unlock()

	r.subs.notify(r.materialize(raw))
}

// Snapshot returns copies of the visible messages in send order.
func (r *Room) Snapshot() []Message {
	r.mu.RLock()
	raw := r.copyLocked()
	r.mu.RUnlock()
	return r.materialize(raw)
}

// Get returns a copy of one visible message.
func (r *Room) Get(id string) (Message, bool) {
	r.mu.RLock()
	m, ok := r.index[id]
	var raw storedMessage
	if ok {
		raw = *m
	}
	r.mu.RUnlock()

	if !ok {
		return Message{}, false
	}
	return r.materialize([]storedMessage{raw})[0], true
}

// Len returns the number of visible messages.
func (r *Room) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.messages)
}

// OnChange registers a callback that receives a snapshot after every Send and
// every tick that changed the room. Callbacks run synchronously on the
// sending or ticking goroutine and must not block. They may call Stop or
// Close. The callback is never invoked after the returned function is called
// or after Close.
func (r *Room) OnChange(callback func([]Message)) (unsubscribe func()) {
	return r.subs.subscribe(callback)
}

// copyLocked copies the stored messages. Caller must hold r.mu.
func (r *Room) copyLocked() []storedMessage {
	out := make([]storedMessage, len(r.messages))
	for i, m := range r.messages {
		out[i] = *m
	}
	return out
}

// materialize converts stored records to Messages, opening sealed bodies.
func (r *Room) materialize(raw []storedMessage) []Message {
	out := make([]Message, len(raw))
	for i, m := range raw {
		out[i] = Message{
			ID:        m.id,
			SenderID:  m.senderID,
			CreatedAt: m.createdAt,
			Text:      r.openBody(m),
			Remaining: m.remaining,
		}
	}
	return out
}

func (r *Room) openBody(m storedMessage) *string {
	if r.box == nil {
		text := m.body
		return &text
	}
	plaintext, err := r.box.Open(m.body, r.associatedData(m.id))
	if err != nil {
		r.logger.Warn("message could not be opened", "message", m.id, "error", err)
		return nil
	}
	text := string(plaintext)
	return &text
}

func (r *Room) associatedData(messageID string) []byte {
	return []byte(r.id + "|" + messageID)
}
