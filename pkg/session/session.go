// Package session implements the Nova backend connectivity session: one
// logical client session owning a live status WebSocket with fixed-delay
// reconnection, a reminder polling fallback, and a non-throwing request
// façade over the backend REST surface.
//
// All collection state is owned by the session and exposed through
// copy-on-read snapshots. Failures never escape the package boundary as
// panics; GET-style refreshers degrade silently (routed through the failure
// hook) and action-style operations surface failures as error returns.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"nova/pkg/protocol"
)

// State is a point-in-time snapshot of the session's reactive state.
// Slices are copies; callers may retain them freely.
type State struct {
	Status    protocol.Status
	Connected bool
	Reminders []protocol.Reminder
	Memories  []protocol.Memory
	Chat      []protocol.ChatMessage
}

// Session owns exactly one logical session with the Nova backend.
// Create with New, start the background tasks with Start, and tear down
// with Close. Close is absorbing: no timer fires and no reconnect is
// attempted afterwards.
type Session struct {
	cfg    Config
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	status    protocol.Status
	connected bool
	reminders []protocol.Reminder
	memories  []protocol.Memory
	chat      []protocol.ChatMessage
	conn      *websocket.Conn // live stream, nil while disconnected
	started   bool
	closed    bool

	// changed carries a coalesced "state changed" signal for the UI layer.
	changed chan struct{}

	// nowFunc stamps optimistic chat entries; overridden in tests.
	nowFunc func() time.Time
}

// New creates a session from cfg without touching the network.
func New(cfg Config) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		cfg:     cfg.withDefaults(),
		ctx:     ctx,
		cancel:  cancel,
		status:  protocol.Idle(),
		changed: make(chan struct{}, 1),
		nowFunc: time.Now,
	}
}

// Start launches the connection manager and the polling fallback.
// Calling Start more than once, or after Close, is a no-op.
func (s *Session) Start() {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	s.wg.Add(2)
	go s.runConn()
	go s.runPoll()
}

// Close tears the session down: it cancels the reconnect and polling tasks,
// closes the live connection, and waits for both background tasks to exit.
// In-flight façade requests are aborted through the session context; their
// late completions never mutate state. Close is idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	conn := s.conn
	s.mu.Unlock()

	s.cancel()
	if conn != nil {
		_ = conn.Close() // unblocks the read pump
	}
	s.wg.Wait()
	return nil
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Status:    s.status,
		Connected: s.connected,
		Reminders: make([]protocol.Reminder, len(s.reminders)),
		Memories:  make([]protocol.Memory, len(s.memories)),
		Chat:      make([]protocol.ChatMessage, len(s.chat)),
	}
	copy(st.Reminders, s.reminders)
	copy(st.Memories, s.memories)
	copy(st.Chat, s.chat)
	return st
}

// Changed returns a channel that receives a coalesced signal whenever the
// session state changes. Consumers re-read Snapshot after each receive.
func (s *Session) Changed() <-chan struct{} {
	return s.changed
}

// markChanged posts the coalesced change signal without blocking.
func (s *Session) markChanged() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

// alive reports whether the session may still mutate shared state.
// Late completions of in-flight requests check it before writing.
func (s *Session) alive() bool {
	return s.ctx.Err() == nil
}

// setConnected records a connectivity edge and notifies consumers.
func (s *Session) setConnected(up bool) {
	s.mu.Lock()
	s.connected = up
	s.mu.Unlock()
	s.markChanged()
}

// setConn tracks the live stream so Close can unblock the read pump. It
// reports whether the session accepted the handoff: after Close the conn is
// refused and the caller owns closing it.
func (s *Session) setConn(c *websocket.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conn = c
	return true
}
