package session

import "fmt"

// FailureKind classifies a swallowed failure.
type FailureKind string

const (
	// FailureTransport covers connection refused, network drops, and
	// non-OK HTTP statuses.
	FailureTransport FailureKind = "transport"

	// FailureDecode covers malformed JSON and unexpected payload shapes.
	FailureDecode FailureKind = "decode"

	// FailureApplication covers explicit server-side rejections surfaced
	// to the immediate caller.
	FailureApplication FailureKind = "application"
)

// Failure is one swallowed error, routed through Config.OnFailure so the
// silent-degradation contract stays observable.
type Failure struct {
	Kind FailureKind
	Op   string // e.g. "reminders.fetch", "ws.dial"
	Err  error
}

func (f Failure) String() string {
	return fmt.Sprintf("%s %s: %v", f.Kind, f.Op, f.Err)
}

// Event type names emitted through Config.OnEvent. They double as the type
// column of the client event log.
const (
	EventConnect    = "connect"
	EventDisconnect = "disconnect"
	EventStatus     = "status"
	EventFailure    = "failure"
)

// Event is one session lifecycle event.
type Event struct {
	Type    string // connect | disconnect | status | failure
	Op      string // originating operation, if any
	Detail  string // human-readable summary (state name, error text)
	Payload string // raw payload where one exists
}

// reportFailure routes a swallowed failure through Config.OnFailure.
func (s *Session) reportFailure(kind FailureKind, op string, err error) {
	if s.cfg.OnFailure != nil {
		s.cfg.OnFailure(Failure{Kind: kind, Op: op, Err: err})
	}
}

// emitEvent routes a lifecycle event through Config.OnEvent.
func (s *Session) emitEvent(ev Event) {
	if s.cfg.OnEvent != nil {
		s.cfg.OnEvent(ev)
	}
}
