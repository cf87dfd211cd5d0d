package seriallog

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// worker runs one capture session: Opening, then Streaming until the run
// state moves away from its session id or a fatal error occurs, then
// Terminated. A new worker is built for every session.
type worker struct {
	id     uint64
	cfg    CaptureConfig
	state  *RunState
	prev   <-chan struct{} // previous session, nil for the first
	open   DeviceOpener
	sink   Sink
	stamp  *stamper
	logger zerolog.Logger
}

func (w *worker) run(done chan<- struct{}) {
	defer close(done)
	defer w.sink.Post(Event{Kind: EventTerminated, Message: "capture stopped"})

	if w.prev != nil {
		<-w.prev
	}
	if !w.state.active(w.id) {
		return
	}

	dev, err := w.open(PortConfig{
		Device:      w.cfg.Device,
		BaudRate:    int(w.cfg.BaudRate),
		ReadTimeout: w.cfg.ReadTimeout,
	})
	if err != nil {
		if !errors.Is(err, ErrDeviceOpen) {
			err = fmt.Errorf("%w: %s: %w", ErrDeviceOpen, w.cfg.Device, err)
		}
		w.fail(err)
		return
	}
	defer dev.Close()

	out, err := OpenRecordWriter(w.cfg.OutputPath)
	if err != nil {
		w.fail(err)
		return
	}
	defer out.Close()

	w.logger.Debug().
		Str("device", w.cfg.Device).
		Uint32("baud", w.cfg.BaudRate).
		Str("output", w.cfg.OutputPath).
		Msg("capture session started")

	if err := w.stream(dev, out); err != nil {
		w.fail(err)
		return
	}
	w.logger.Debug().Str("device", w.cfg.Device).Msg("capture session stopped")
}

// stream returns nil on a graceful stop. The unterminated line, if any, is
// dropped with the framer.
func (w *worker) stream(dev Device, out *RecordWriter) error {
	var framer Framer
	for {
		if !w.state.active(w.id) {
			if n := framer.Pending(); n > 0 {
				w.logger.Debug().Int("bytes", n).Msg("discarding unterminated line")
			}
			return nil
		}

		b, err := dev.ReadByte()
		if errors.Is(err, ErrTimeout) {
			continue
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrDeviceRead, w.cfg.Device, err)
		}

		line, ok := framer.Feed(b)
		if !ok {
			continue
		}
		rec := NewRecord(w.stamp.stamp(), line)
		werr := out.Append(rec)
		w.sink.Post(Event{Kind: EventRecord, Message: rec.String(), Record: rec})
		if werr != nil {
			return werr
		}
	}
}

// fail ends the session on its own: the run state is cleared if this
// session still owns it, and the error is reported to the sink.
func (w *worker) fail(err error) {
	w.state.release(w.id)
	w.logger.Error().
		Err(err).
		Str("device", w.cfg.Device).
		Str("output", w.cfg.OutputPath).
		Msg("capture session failed")
	w.sink.Post(Event{Kind: EventError, Message: err.Error(), Err: err})
}
