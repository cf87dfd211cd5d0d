package seriallog

import "go.uber.org/atomic"

// EventKind tells a Sink what an Event carries.
type EventKind int

const (
	// EventRecord carries a completed, timestamped line.
	EventRecord EventKind = iota
	// EventError carries a session-fatal error and its human-readable message.
	EventError
	// EventTerminated is posted once when a session has released its handles.
	EventTerminated
)

func (k EventKind) String() string {
	switch k {
	case EventRecord:
		return "record"
	case EventError:
		return "error"
	case EventTerminated:
		return "terminated"
	}
	return "unknown"
}

// Event is pushed from a capture session to its Sink.
type Event struct {
	Kind    EventKind
	Message string
	Record  Record
	Err     error
}

// Sink receives the output stream of capture sessions. Post is called from
// the session goroutine and must not block; a UI that has to marshal events
// onto its own thread should enqueue them.
type Sink interface {
	Post(Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Event)

func (f SinkFunc) Post(ev Event) { f(ev) }

// ChanSink queues events on a buffered channel. When the buffer is full a
// record is dropped and counted instead of stalling the capture loop; the file
// still has it. Error and termination events are never dropped, so the
// consumer must keep draining Events until it sees EventTerminated.
type ChanSink struct {
	ch      chan Event
	dropped atomic.Uint64
}

// NewChanSink returns a ChanSink buffering up to size events.
func NewChanSink(size int) *ChanSink {
	return &ChanSink{ch: make(chan Event, size)}
}

func (s *ChanSink) Post(ev Event) {
	if ev.Kind != EventRecord {
		s.ch <- ev
		return
	}
	select {
	case s.ch <- ev:
	default:
		s.dropped.Inc()
	}
}

// Events returns the channel to consume events from.
func (s *ChanSink) Events() <-chan Event {
	return s.ch
}

// Dropped reports how many records were discarded because the buffer was full.
func (s *ChanSink) Dropped() uint64 {
	return s.dropped.Load()
}

type nopSink struct{}

func (nopSink) Post(Event) {}
