package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	seriallog "github.com/luhtfiimanal/go-serial-logger"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture serial lines to a CSV file until interrupted",
	Long: `Capture reads the serial device, frames it into lines on carriage
return and appends each line to the output file as

  YYYY-MM-DD,HH:MM:SS,<line>

The file is opened in append mode, so repeated captures accumulate.
Runs until interrupted (Ctrl+C) or until the device or file fails.

Example usage:
  seriallog capture -d /dev/ttyUSB0 -b 9600 -o data.csv
  seriallog capture -c capture.toml --quiet`,
	Args: cobra.NoArgs,
	RunE: runCapture,
}

func init() {
	addCaptureFlags(captureCmd)
	captureCmd.Flags().BoolP("quiet", "q", false, "do not echo captured lines")
	rootCmd.AddCommand(captureCmd)
}

// allow tests to replace the device, the display buffer and signal delivery
var (
	deviceOpener  seriallog.DeviceOpener = seriallog.OpenDevice
	eventBuffer                          = 1024
	notifySignals                        = func(c chan<- os.Signal) {
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	}
)

func runCapture(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	cfg, err := captureConfig(cmd)
	if err != nil {
		return err
	}
	quiet, _ := cmd.Flags().GetBool("quiet")

	sigCh := make(chan os.Signal, 1)
	notifySignals(sigCh)
	defer signal.Stop(sigCh)

	events := seriallog.NewChanSink(eventBuffer)
	ctrl := seriallog.NewController(events,
		seriallog.WithLogger(logger),
		seriallog.WithDeviceOpener(deviceOpener),
	)
	if err := ctrl.StartWith(cfg); err != nil {
		return err
	}
	logger.Info().Str("device", cfg.Device).Str("output", cfg.OutputPath).Msg("capturing")

	var (
		failed   error
		deadline <-chan time.Time
	)
	out := cmd.OutOrStdout()
	for {
		select {
		case sig := <-sigCh:
			if deadline != nil {
				continue
			}
			logger.Info().Str("signal", sig.String()).Msg("stopping capture")
			ctrl.Stop()
			deadline = time.After(cfg.ReadTimeout + 5*time.Second)
		case <-deadline:
			return fmt.Errorf("capture did not stop within %s", cfg.ReadTimeout+5*time.Second)
		case ev := <-events.Events():
			switch ev.Kind {
			case seriallog.EventError:
				failed = ev.Err
			case seriallog.EventTerminated:
				if n := events.Dropped(); n > 0 {
					logger.Warn().Uint64("records", n).Msg("display fell behind; lines were still written to file")
				}
				if failed != nil {
					return fmt.Errorf("capture failed: %w", failed)
				}
				return nil
			}
			if !quiet || ev.Kind == seriallog.EventError {
				printEvent(out, ev)
			}
		}
	}
}
