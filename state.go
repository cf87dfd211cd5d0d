package seriallog

import "go.uber.org/atomic"

// State is the run state shown to the UI.
type State int

const (
	// Stopped means no session holds the run state. A session that is still
	// releasing its handles may be live for up to one read timeout.
	Stopped State = iota
	// Running means a session was started and has not been stopped.
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// RunState is the only state shared between a Controller and its worker.
//
// It holds the id of the running session, or zero when stopped. A worker
// keeps going only while its own id is current, so after a quick stop/start
// the previous worker exits instead of adopting the new session, and a worker
// stopping itself on error cannot stop a newer session.
type RunState struct {
	current atomic.Uint64
	seq     atomic.Uint64
}

// Status returns Running if any session holds the state.
func (s *RunState) Status() State {
	if s.current.Load() != 0 {
		return Running
	}
	return Stopped
}

// begin claims the state for a new session. It fails if one is running.
func (s *RunState) begin() (uint64, bool) {
	id := s.seq.Inc()
	if !s.current.CompareAndSwap(0, id) {
		return 0, false
	}
	return id, true
}

// stop clears the state and reports whether a session was running.
func (s *RunState) stop() bool {
	return s.current.Swap(0) != 0
}

// active reports whether session id is still the running one.
func (s *RunState) active(id uint64) bool {
	return s.current.Load() == id
}

// release stops session id if it is still current.
func (s *RunState) release(id uint64) bool {
	return s.current.CompareAndSwap(id, 0)
}
