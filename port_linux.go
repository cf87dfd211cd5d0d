//go:build linux

package seriallog

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sys/unix"
)

// Port is a raw, unbuffered Linux serial port read one byte at a time.
// Close may be called from another goroutine to unblock a pending read.
type Port struct {
	fd        int
	done      chan struct{}
	closeOnce sync.Once
	config    PortConfig
	pipeR     int // self-pipe read fd
	pipeW     int // self-pipe write fd
}

// OpenPort opens and configures a serial port for raw 8N1 operation.
func OpenPort(cfg PortConfig) (*Port, error) {
	baud, ok := baudToUnix(cfg.BaudRate)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported baud rate %d", ErrDeviceOpen, cfg.BaudRate)
	}

	fd, err := unix.Open(cfg.Device, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDeviceOpen, cfg.Device, err)
	}

	if err := configure(fd, baud); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: %s: %w", ErrDeviceOpen, cfg.Device, err)
	}

	// Create self-pipe for killability
	pipeFds := make([]int, 2)
	if err := unix.Pipe2(pipeFds, unix.O_CLOEXEC); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: pipe: %w", ErrDeviceOpen, err)
	}

	return &Port{
		fd:     fd,
		done:   make(chan struct{}),
		config: cfg,
		pipeR:  pipeFds[0],
		pipeW:  pipeFds[1],
	}, nil
}

func configure(fd int, baud uint32) error {
	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("get termios: %w", err)
	}

	// Raw mode; ICRNL and IGNCR must be off or CR never reaches the framer.
	termios.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	termios.Oflag &^= unix.OPOST
	termios.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	termios.Cflag &^= unix.CSIZE | unix.PARENB
	termios.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL

	termios.Cflag &^= unix.CBAUD
	termios.Cflag |= baud
	termios.Ispeed = baud
	termios.Ospeed = baud

	// VMIN=1, VTIME=0: reads return as soon as one byte is available
	termios.Cc[unix.VMIN] = 1
	termios.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, termios); err != nil {
		return fmt.Errorf("set termios: %w", err)
	}

	// Turn back into blocking mode now that config is done
	return unix.SetNonblock(fd, false)
}

// ReadByte waits up to the configured read timeout for one byte.
func (p *Port) ReadByte() (byte, error) {
	timeout := -1
	if p.config.ReadTimeout > 0 {
		timeout = int(p.config.ReadTimeout.Milliseconds())
		if timeout == 0 {
			timeout = 1
		}
	}

	pfd := []unix.PollFd{
		{Fd: int32(p.fd), Events: unix.POLLIN},
		{Fd: int32(p.pipeR), Events: unix.POLLIN},
	}
	n, err := unix.Poll(pfd, timeout)
	if errors.Is(err, unix.EINTR) {
		return 0, ErrTimeout
	}
	if err != nil {
		return 0, err
	}

	select {
	case <-p.done:
		return 0, ErrPortClosed
	default:
	}
	if pfd[1].Revents&unix.POLLIN != 0 {
		return 0, ErrPortClosed
	}
	if n == 0 {
		return 0, ErrTimeout
	}
	if pfd[0].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) == 0 {
		if pfd[0].Revents&unix.POLLNVAL != 0 {
			return 0, ErrPortClosed
		}
		return 0, ErrTimeout
	}

	var b [1]byte
	n, err = unix.Read(p.fd, b[:])
	switch {
	case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EINTR):
		return 0, ErrTimeout
	case err != nil:
		return 0, err
	case n == 0:
		return 0, io.EOF
	}
	return b[0], nil
}

// Close closes the port and unblocks a pending ReadByte.
// Safe to call multiple times; subsequent calls are no-ops.
func (p *Port) Close() error {
	var err error
	p.closeOnce.Do(func() {
		close(p.done)
		// Wake up poll using self-pipe
		unix.Write(p.pipeW, []byte{1})
		err = unix.Close(p.fd)
		unix.Close(p.pipeR)
		unix.Close(p.pipeW)
	})
	return err
}

func baudToUnix(baud int) (uint32, bool) {
	switch baud {
	case 1200:
		return unix.B1200, true
	case 2400:
		return unix.B2400, true
	case 4800:
		return unix.B4800, true
	case 9600:
		return unix.B9600, true
	case 19200:
		return unix.B19200, true
	case 38400:
		return unix.B38400, true
	case 57600:
		return unix.B57600, true
	case 115200:
		return unix.B115200, true
	case 230400:
		return unix.B230400, true
	case 460800:
		return unix.B460800, true
	case 921600:
		return unix.B921600, true
	}
	return 0, false
}
