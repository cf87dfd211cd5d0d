//go:build !linux

package seriallog

import (
	"fmt"
	"sync"

	"go.bug.st/serial"
)

// Port is a serial port read one byte at a time.
//
// Unlike the Linux implementation, Close does not wake a ReadByte pending in
// another goroutine; that read returns at its read timeout, or blocks until a
// byte arrives when there is none. A capture session reads and closes its port
// from the same goroutine, so it is not affected.
type Port struct {
	port      serial.Port
	closeOnce sync.Once
	config    PortConfig
}

// OpenPort opens a serial port for 8N1 operation.
func OpenPort(cfg PortConfig) (*Port, error) {
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	sp, err := serial.Open(cfg.Device, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDeviceOpen, cfg.Device, err)
	}
	timeout := serial.NoTimeout
	if cfg.ReadTimeout > 0 {
		timeout = cfg.ReadTimeout
	}
	if err := sp.SetReadTimeout(timeout); err != nil {
		sp.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrDeviceOpen, cfg.Device, err)
	}
	return &Port{port: sp, config: cfg}, nil
}

// ReadByte waits up to the configured read timeout for one byte.
func (p *Port) ReadByte() (byte, error) {
	var b [1]byte
	n, err := p.port.Read(b[:])
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrTimeout
	}
	return b[0], nil
}

// Close closes the port. Safe to call multiple times.
func (p *Port) Close() error {
	var err error
	p.closeOnce.Do(func() {
		err = p.port.Close()
	})
	return err
}
