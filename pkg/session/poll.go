package session

import "time"

// runPoll is the polling fallback: one immediate reminder refresh, then one
// every PollInterval until teardown. It runs regardless of stream health so
// reminder staleness stays bounded even while the WebSocket is down.
//
// Refreshes are deliberately unserialized: a slow refresh may still be in
// flight when the next tick fires, and the last response to arrive wins.
func (s *Session) runPoll() {
	defer s.wg.Done()

	s.RefreshReminders(s.ctx)

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			go s.RefreshReminders(s.ctx)
		case <-s.ctx.Done():
			return
		}
	}
}
