package seriallog

import "errors"

var (
	// ErrInvalidConfig is returned synchronously by Configure and Start.
	ErrInvalidConfig = errors.New("invalid capture config")

	// Session-fatal errors. They reach the caller only through the Sink.
	ErrDeviceOpen = errors.New("serial port open error")
	ErrFileOpen   = errors.New("file open error")
	ErrDeviceRead = errors.New("serial port read error")
	ErrFileWrite  = errors.New("file write error")

	// ErrTimeout is returned by Device.ReadByte when no byte arrived within the
	// read timeout. It is not an error for a capture session.
	ErrTimeout = errors.New("read timeout")

	// ErrPortClosed is returned by a read that was interrupted by Close.
	ErrPortClosed = errors.New("serial port closed")
)
