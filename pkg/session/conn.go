package session

import (
	"time"

	"github.com/gorilla/websocket"
)

// runConn is the connection manager: it keeps a best-effort persistent
// stream to the status endpoint, marking connectivity edges and redialing
// after a fixed delay. Running as a single loop makes reconnection
// single-flight by construction: at most one pending attempt, never two
// concurrent sockets.
//
// State machine: disconnected → connecting → connected → disconnected
// (→ connecting after ReconnectDelay, or → terminated once Close runs).
func (s *Session) runConn() {
	defer s.wg.Done()

	for {
		conn, resp, err := s.cfg.Dialer.DialContext(s.ctx, s.cfg.StatusURL, nil)
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		if err != nil {
			if !s.alive() {
				return
			}
			s.reportFailure(FailureTransport, "ws.dial", err)
			if !s.sleep(s.cfg.ReconnectDelay) {
				return
			}
			continue
		}

		// A dial can win the race with Close: the dialer checks the context
		// before the handshake, so a handshake already in flight may still
		// hand back a live conn after teardown began. Refuse it here, close
		// the socket ourselves, and let Close's wg.Wait proceed.
		if !s.setConn(conn) {
			_ = conn.Close()
			return
		}

		// connected only after a successful open.
		s.setConnected(true)
		s.emitEvent(Event{Type: EventConnect, Op: "ws.dial", Detail: s.cfg.StatusURL})

		s.readPump(conn)

		// Every close takes the same path, clean or not: connected drops
		// before the reconnect is scheduled.
		s.setConn(nil)
		s.setConnected(false)
		s.emitEvent(Event{Type: EventDisconnect, Op: "ws.read", Detail: s.cfg.StatusURL})

		if !s.sleep(s.cfg.ReconnectDelay) {
			return
		}
	}
}

// readPump delivers inbound stream payloads to the status reducer until the
// connection fails or Close tears it down.
func (s *Session) readPump(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if s.alive() {
				s.reportFailure(FailureTransport, "ws.read", err)
			}
			_ = conn.Close()
			return
		}
		s.applyStatus(data)
	}
}

// sleep waits d or until teardown; it reports whether the session is still
// alive afterwards. This is the session's single cancellable reconnect
// timer.
func (s *Session) sleep(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-s.ctx.Done():
		return false
	}
}
