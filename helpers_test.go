package seriallog

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/atomic"
)

// fakeDevice serves bytes written by the test and times out otherwise.
type fakeDevice struct {
	in     chan byte
	errs   chan error
	closed atomic.Bool
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		in:   make(chan byte, 4096),
		errs: make(chan error, 1),
	}
}

func (d *fakeDevice) ReadByte() (byte, error) {
	select {
	case err := <-d.errs:
		return 0, err
	case b := <-d.in:
		return b, nil
	case <-time.After(2 * time.Millisecond):
		return 0, ErrTimeout
	}
}

func (d *fakeDevice) Close() error {
	d.closed.Store(true)
	return nil
}

func (d *fakeDevice) write(s string) {
	for i := 0; i < len(s); i++ {
		d.in <- s[i]
	}
}

// fakeOpener hands out the given devices in order.
type fakeOpener struct {
	mu      sync.Mutex
	devices []*fakeDevice
	configs []PortConfig
	err     error

	handed []*fakeDevice
	// releasedBeforeOpen records, per open call, whether every device
	// handed out earlier had already been closed.
	releasedBeforeOpen []bool
}

func (o *fakeOpener) open(cfg PortConfig) (Device, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.configs = append(o.configs, cfg)
	released := true
	for _, d := range o.handed {
		released = released && d.closed.Load()
	}
	o.releasedBeforeOpen = append(o.releasedBeforeOpen, released)
	if o.err != nil {
		return nil, o.err
	}
	d := o.devices[0]
	o.devices = o.devices[1:]
	o.handed = append(o.handed, d)
	return d, nil
}

func (o *fakeOpener) opened() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.configs)
}

func nextEvent(t *testing.T, s *ChanSink, kind EventKind) Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-s.Events():
			if ev.Kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("timeout waiting for %s event", kind)
		}
	}
}
