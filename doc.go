// Package seriallog captures lines from a serial device into an append-only
// CSV file while the caller starts and stops capture at will.
//
// Bytes are read one at a time from the device and framed on carriage
// return (13); line feeds (10) are dropped. Every completed line is stamped
// with the local capture time and appended to the output file as
//
//	YYYY-MM-DD,HH:MM:SS,<payload>\n
//
// and pushed to a Sink for display. Bytes not yet terminated by a carriage
// return when capture stops are discarded.
//
// A Controller owns the run state and at most one background session:
//
//	events := seriallog.NewChanSink(256)
//	ctrl := seriallog.NewController(events)
//	err := ctrl.StartWith(seriallog.CaptureConfig{
//	    Device:     "/dev/ttyUSB0",
//	    BaudRate:   9600,
//	    OutputPath: "capture.csv",
//	})
//	if err != nil {
//	    log.Fatal(err) // only ErrInvalidConfig is returned here
//	}
//
//	go func() {
//	    for ev := range events.Events() {
//	        fmt.Print(ev.Message)
//	    }
//	}()
//
//	// ... later, from any goroutine
//	ctrl.Stop()
//
// Stop never blocks. The session observes it on its next read, at most one
// read timeout later, and releases the device and file. Device and file
// failures end the session on their own: the run state goes back to Stopped
// and the error is posted to the Sink as an EventError.
//
// On Linux the serial port is driven directly through termios and poll; on
// other platforms go.bug.st/serial is used.
package seriallog
