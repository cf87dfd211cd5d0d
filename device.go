package seriallog

import (
	"sort"
	"time"

	"go.bug.st/serial"
)

// Device is the byte source of a capture session.
type Device interface {
	// ReadByte returns the next byte, ErrTimeout if none arrived within the
	// read timeout, or any other error if the device failed.
	ReadByte() (byte, error)
	Close() error
}

// PortConfig holds the parameters for opening a serial port.
type PortConfig struct {
	Device      string
	BaudRate    int
	ReadTimeout time.Duration // zero blocks until a byte arrives
}

// DeviceOpener opens the device of a capture session.
type DeviceOpener func(PortConfig) (Device, error)

// OpenDevice is the default DeviceOpener, backed by OpenPort.
func OpenDevice(cfg PortConfig) (Device, error) {
	p, err := OpenPort(cfg)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// allow tests to override enumeration
var getPortsList = serial.GetPortsList

// ListDevices returns the serial ports present on the host, sorted by name.
func ListDevices() ([]string, error) {
	ports, err := getPortsList()
	if err != nil {
		return nil, err
	}
	sort.Strings(ports)
	return ports, nil
}
