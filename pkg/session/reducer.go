package session

import (
	"nova/pkg/protocol"
)

// applyStatus is the status reducer: one inbound stream payload in, at most
// one wholesale status replacement out. Unparseable payloads are discarded
// with the previous status intact.
//
// An idle or reminder status additionally kicks a fire-and-forget reminder
// refresh: idle marks the end of an interaction (a reminder may have been
// created by voice), and reminder means one just fired.
func (s *Session) applyStatus(data []byte) {
	st, err := protocol.ParseStatus(data)
	if err != nil {
		s.reportFailure(FailureDecode, "ws.status", err)
		return
	}

	s.mu.Lock()
	s.status = st
	s.mu.Unlock()

	s.emitEvent(Event{Type: EventStatus, Op: "ws.status", Detail: st.State, Payload: string(data)})
	s.markChanged()

	if st.State == protocol.StateIdle || st.State == protocol.StateReminder {
		go s.RefreshReminders(s.ctx)
	}
}
