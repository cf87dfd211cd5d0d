package seriallog

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultReadTimeout bounds a single device read, and therefore how long Stop
// takes to be observed by an idle session.
const DefaultReadTimeout = 100 * time.Millisecond

// SupportedBaudRates are the rates offered for selection. Other rates are not
// rejected by Validate; the device open fails if the platform cannot set them.
var SupportedBaudRates = []uint32{1200, 9600, 19200, 115200}

// CaptureConfig describes one capture session. A copy is taken at Start.
type CaptureConfig struct {
	Device      string        `toml:"device"`
	BaudRate    uint32        `toml:"baud_rate"`
	OutputPath  string        `toml:"output_path"`
	ReadTimeout time.Duration `toml:"read_timeout"`
}

// Validate checks the fields that can be verified without touching the
// device or the file system.
func (c CaptureConfig) Validate() error {
	if strings.TrimSpace(c.OutputPath) == "" {
		return fmt.Errorf("%w: no output file", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Device) == "" {
		return fmt.Errorf("%w: no serial port", ErrInvalidConfig)
	}
	if c.BaudRate == 0 {
		return fmt.Errorf("%w: no baud rate", ErrInvalidConfig)
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("%w: negative read timeout %s", ErrInvalidConfig, c.ReadTimeout)
	}
	return nil
}

func (c CaptureConfig) withDefaults() CaptureConfig {
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	return c
}

// ParseBaud parses a baud rate as typed or picked in a UI.
func ParseBaud(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("%w: bad baud rate %q", ErrInvalidConfig, s)
	}
	return uint32(v), nil
}

// IsStandardBaud reports whether baud is one of SupportedBaudRates.
func IsStandardBaud(baud uint32) bool {
	return slices.Contains(SupportedBaudRates, baud)
}

// LoadConfig reads a CaptureConfig from a TOML file:
//
//	device = "/dev/ttyUSB0"
//	baud_rate = 9600
//	output_path = "capture.csv"
//	read_timeout = "250ms"
func LoadConfig(path string) (CaptureConfig, error) {
	var cfg CaptureConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return CaptureConfig{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return CaptureConfig{}, fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}
