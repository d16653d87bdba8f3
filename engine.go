package krypt

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/kryptkit/krypt/internal/classic"
	"github.com/kryptkit/krypt/internal/crypto"
)

// Engine is the caller-facing entry point. It dispatches cipher operations
// by mode, records them in the history log and owns ephemeral rooms.
// An Engine is safe for concurrent use.
type Engine struct {
	history  *History
	record   bool
	logger   *slog.Logger
	now      func() time.Time
	roomOpts []RoomOption

	mu     sync.RWMutex
	rooms  map[string]*Room
	closed bool
}

// New creates an engine. The history log is loaded from the configured store.
func New(opts ...Option) (*Engine, error) {
	cfg := &engineConfig{
		recordHistory: true,
		logger:        slog.New(slog.DiscardHandler),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	history := cfg.history
	if history == nil {
		var err error
		history, err = NewHistory(context.Background(), cfg.store)
		if err != nil {
			return nil, err
		}
	}

	return &Engine{
		history:  history,
		record:   cfg.recordHistory,
		logger:   cfg.logger,
		now:      cfg.now,
		roomOpts: cfg.roomOpts,
		rooms:    make(map[string]*Room),
	}, nil
}

// checkClosed returns ErrEngineClosed if the engine has been closed.
func (e *Engine) checkClosed() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return ErrEngineClosed
	}
	return nil
}

// Encrypt encrypts plaintext in the given mode. key is a Base64 key for
// ModeSecure, a decimal integer for ModeXOR and a comma or space separated
// integer list for ModeShift. The result is Base64 for ModeSecure and
// ModeXOR and text for ModeShift.
func (e *Engine) Encrypt(ctx context.Context, mode Mode, key, plaintext string) (string, error) {
	if err := e.checkClosed(); err != nil {
		return "", err
	}

	out, err := encrypt(mode, key, plaintext)
	if err != nil {
		e.logger.Debug("encrypt failed", "mode", mode, "error", err)
		return "", &CipherError{Mode: mode, Op: ActionEncrypt, Err: err}
	}

	e.recordOp(ctx, mode, ActionEncrypt, key, plaintext, out)
	return out, nil
}

// Decrypt reverses Encrypt. Secure and XOR input may be URL-safe, unpadded
// or line-wrapped Base64.
func (e *Engine) Decrypt(ctx context.Context, mode Mode, key, input string) (string, error) {
	if err := e.checkClosed(); err != nil {
		return "", err
	}

	out, err := decrypt(mode, key, input)
	if err != nil {
		e.logger.Debug("decrypt failed", "mode", mode, "error", err)
		return "", &CipherError{Mode: mode, Op: ActionDecrypt, Err: err}
	}

	e.recordOp(ctx, mode, ActionDecrypt, key, input, out)
	return out, nil
}

func encrypt(mode Mode, key, plaintext string) (string, error) {
	switch mode {
	case ModeSecure:
		box, err := crypto.NewBox(key)
		if err != nil {
			return "", err
		}
		return box.Seal([]byte(plaintext), nil), nil
	case ModeXOR:
		k, err := classic.ParseXORKey(key)
		if err != nil {
			return "", err
		}
		return classic.XOREncrypt(plaintext, k), nil
	case ModeShift:
		k, err := classic.ParseShiftKey(key)
		if err != nil {
			return "", err
		}
		return classic.ShiftEncrypt(plaintext, k)
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, mode)
}

func decrypt(mode Mode, key, input string) (string, error) {
	switch mode {
	case ModeSecure:
		box, err := crypto.NewBox(key)
		if err != nil {
			return "", err
		}
		plaintext, err := box.Open(input, nil)
		if err != nil {
			return "", err
		}
		if !utf8.Valid(plaintext) {
			return "", fmt.Errorf("%w: plaintext is not valid UTF-8", ErrDecode)
		}
		return string(plaintext), nil
	case ModeXOR:
		k, err := classic.ParseXORKey(key)
		if err != nil {
			return "", err
		}
		return classic.XORDecrypt(input, k)
	case ModeShift:
		k, err := classic.ParseShiftKey(key)
		if err != nil {
			return "", err
		}
		return classic.ShiftDecrypt(input, k)
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, mode)
}

// recordOp appends a successful operation to history. A persistence failure
// is logged and does not fail the operation.
func (e *Engine) recordOp(ctx context.Context, mode Mode, action Action, key, input, output string) {
	if !e.record {
		return
	}
	entry := NewHistoryEntry(mode, action, strings.TrimSpace(key), input, output, e.now())
	if err := e.history.Add(ctx, entry); err != nil {
		e.logger.Warn("history not saved", "mode", mode, "action", action, "error", err)
	}
}

// StartRoom creates a room, registers it with the engine and starts its
// countdown. Engine-level room options apply before opts.
func (e *Engine) StartRoom(opts ...RoomOption) (*Room, error) {
	all := make([]RoomOption, 0, 2+len(e.roomOpts)+len(opts))
	all = append(all, WithRoomClock(e.now), WithRoomLogger(e.logger))
	all = append(all, e.roomOpts...)
	all = append(all, opts...)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrEngineClosed
	}

	room := NewRoom(all...)
	if _, exists := e.rooms[room.ID()]; exists {
		// Reconnecting to the same logical room resumes it.
		room = e.rooms[room.ID()]
	} else {
		e.rooms[room.ID()] = room
	}
	if err := room.Listen(); err != nil {
		return nil, err
	}
	e.logger.Info("room started", "room", room.ID())
	return room, nil
}

// StopRoom halts a room's countdown. Its messages stay, frozen, and the room
// can be resumed with Listen or StartRoom with the same ID.
func (e *Engine) StopRoom(room *Room) error {
	if room == nil {
		return nil
	}
	room.Stop()
	e.logger.Info("room stopped", "room", room.ID())
	return nil
}

// Room returns a room started by this engine.
func (e *Engine) Room(id string) (*Room, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	r, ok := e.rooms[id]
	return r, ok
}

// HistoryAppend adds an entry to the history log.
func (e *Engine) HistoryAppend(ctx context.Context, entry HistoryEntry) error {
	if err := e.checkClosed(); err != nil {
		return err
	}
	return e.history.Add(ctx, entry)
}

// HistoryClear empties the history log.
func (e *Engine) HistoryClear(ctx context.Context) error {
	if err := e.checkClosed(); err != nil {
		return err
	}
	return e.history.Clear(ctx)
}

// HistoryList returns the history log, newest first.
func (e *Engine) HistoryList() []HistoryEntry {
	return e.history.List()
}

// History returns the engine's history log.
func (e *Engine) History() *History {
	return e.history
}

// Close stops and closes every room. Further operations return
// ErrEngineClosed. Close is idempotent.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	rooms := make([]*Room, 0, len(e.rooms))
	for _, r := range e.rooms {
		rooms = append(rooms, r)
	}
	e.rooms = make(map[string]*Room)
	e.mu.Unlock()

	for _, r := range rooms {
		r.Close()
	}
	return nil
}
