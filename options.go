package krypt

import (
	"log/slog"
	"time"
)

const (
	defaultRoomTTL          = 60 * time.Second
	defaultRoomTickInterval = time.Second
)

// engineConfig holds configuration for the engine.
type engineConfig struct {
	store         HistoryStore
	history       *History
	recordHistory bool
	logger        *slog.Logger
	now           func() time.Time
	roomOpts      []RoomOption
}

// roomConfig holds configuration for a room.
type roomConfig struct {
	id           string
	sender       string
	ttl          time.Duration
	tickInterval time.Duration
	now          func() time.Time
	box          *Box
	logger       *slog.Logger
}

// Option configures the engine.
type Option func(*engineConfig)

// RoomOption configures an ephemeral room.
type RoomOption func(*roomConfig)

// WithHistoryStore sets where the history log is persisted.
// Default: an in-memory store.
func WithHistoryStore(store HistoryStore) Option {
	return func(c *engineConfig) {
		c.store = store
	}
}

// WithHistory shares an already loaded History with the engine. It takes
// precedence over WithHistoryStore.
func WithHistory(h *History) Option {
	return func(c *engineConfig) {
		c.history = h
	}
}

// WithHistoryRecording controls whether successful Encrypt and Decrypt calls
// are appended to the history log.
// Default: true
func WithHistoryRecording(enabled bool) Option {
	return func(c *engineConfig) {
		c.recordHistory = enabled
	}
}

// WithLogger sets the logger used by the engine and its rooms.
// Keys and message text are never logged.
func WithLogger(logger *slog.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithClock sets the time source for history timestamps and rooms.
func WithClock(now func() time.Time) Option {
	return func(c *engineConfig) {
		c.now = now
	}
}

// WithDefaultRoomOptions sets options applied to every room started by the
// engine, before the options passed to StartRoom.
func WithDefaultRoomOptions(opts ...RoomOption) Option {
	return func(c *engineConfig) {
		c.roomOpts = append(c.roomOpts, opts...)
	}
}

// WithRoomID sets the room identifier. Default: a new UUID.
func WithRoomID(id string) RoomOption {
	return func(c *roomConfig) {
		c.id = id
	}
}

// WithRoomSender sets the sender ID stamped on sent messages.
// Default: "local-" followed by eight random hex digits.
func WithRoomSender(sender string) RoomOption {
	return func(c *roomConfig) {
		c.sender = sender
	}
}

// WithRoomTTL sets how long a message stays visible. Values under one second
// are ignored.
// Default: 60 seconds
func WithRoomTTL(ttl time.Duration) RoomOption {
	return func(c *roomConfig) {
		if ttl >= time.Second {
			c.ttl = ttl
		}
	}
}

// WithRoomTickInterval sets the countdown tick period.
// Default: 1 second
func WithRoomTickInterval(interval time.Duration) RoomOption {
	return func(c *roomConfig) {
		if interval > 0 {
			c.tickInterval = interval
		}
	}
}

// WithRoomClock sets the room's time source.
func WithRoomClock(now func() time.Time) RoomOption {
	return func(c *roomConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithRoomBox seals message text at rest. Each text is authenticated with the
// room and message IDs as associated data.
func WithRoomBox(box *Box) RoomOption {
	return func(c *roomConfig) {
		c.box = box
	}
}

// WithRoomLogger sets the room's logger.
func WithRoomLogger(logger *slog.Logger) RoomOption {
	return func(c *roomConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}
