package seriallog

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Controller starts and stops capture sessions. At most one session runs at
// a time. All methods are safe for concurrent use and none of them blocks on
// the running session except Wait.
type Controller struct {
	state  RunState
	sink   Sink
	open   DeviceOpener
	clock  Clock
	logger zerolog.Logger

	mu     sync.Mutex
	config *CaptureConfig
	done   chan struct{}
}

// Option configures a Controller.
type Option func(*Controller)

// WithDeviceOpener replaces OpenDevice.
func WithDeviceOpener(open DeviceOpener) Option {
	return func(c *Controller) { c.open = open }
}

// WithClock replaces time.Now for record timestamps.
func WithClock(clock Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithLogger sets the logger for session diagnostics. The default discards.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// NewController returns a stopped Controller that reports to sink.
func NewController(sink Sink, opts ...Option) *Controller {
	if sink == nil {
		sink = nopSink{}
	}
	c := &Controller{
		sink:   sink,
		open:   OpenDevice,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configure validates cfg and keeps a copy for the next Start.
func (c *Controller) Configure(cfg CaptureConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg = cfg.withDefaults()
	c.mu.Lock()
	c.config = &cfg
	c.mu.Unlock()
	return nil
}

// Config returns the configuration Start will use, if any.
func (c *Controller) Config() (CaptureConfig, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.config == nil {
		return CaptureConfig{}, false
	}
	return *c.config, true
}

// StartWith configures cfg and starts a session with it. While a session is
// running it does nothing, and the stored configuration is left untouched.
func (c *Controller) StartWith(cfg CaptureConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg = cfg.withDefaults()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Status() == Running {
		return nil
	}
	c.config = &cfg
	return c.startLocked()
}

// Start spawns a capture session with the configured settings. It returns
// ErrInvalidConfig if nothing valid has been configured, and does nothing if
// a session is already running. Device and file errors are reported to the
// sink, not returned.
//
// A session started right after Stop opens the device only once the previous
// session has released it.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startLocked()
}

func (c *Controller) startLocked() error {
	if c.config == nil {
		return fmt.Errorf("%w: not configured", ErrInvalidConfig)
	}
	id, ok := c.state.begin()
	if !ok {
		return nil
	}

	w := &worker{
		id:     id,
		cfg:    *c.config,
		state:  &c.state,
		prev:   c.done,
		open:   c.open,
		sink:   c.sink,
		stamp:  newStamper(c.clock),
		logger: c.logger.With().Uint64("session", id).Logger(),
	}
	done := make(chan struct{})
	c.done = done
	go w.run(done)
	return nil
}

// Stop asks the running session to end and returns immediately. The session
// notices on its next iteration, at most one read timeout later.
func (c *Controller) Stop() {
	if c.state.stop() {
		c.logger.Debug().Msg("capture stop requested")
	}
}

// Status returns the current run state.
func (c *Controller) Status() State {
	return c.state.Status()
}

// Wait blocks until the most recently started session has released its
// device and file, or ctx is done.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
