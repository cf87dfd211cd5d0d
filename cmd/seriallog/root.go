package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	seriallog "github.com/luhtfiimanal/go-serial-logger"
)

var rootCmd = &cobra.Command{
	Use:          "seriallog",
	Short:        "Log serial port lines to a CSV file",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)
}

func newLogger(cmd *cobra.Command, w io.Writer) (zerolog.Logger, error) {
	name, _ := cmd.Flags().GetString("log-level")
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("bad log level %q: %w", name, err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		Level(level).
		With().
		Timestamp().
		Logger(), nil
}

// addCaptureFlags registers the settings shared by capture and console.
func addCaptureFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "", "TOML file with device, baud_rate, output_path, read_timeout")
	cmd.Flags().StringP("device", "d", "", "serial device, e.g. /dev/ttyUSB0 or COM3")
	cmd.Flags().StringP("baud", "b", "9600", "baud rate")
	cmd.Flags().StringP("output", "o", "", "CSV file to append to")
	cmd.Flags().Duration("timeout", seriallog.DefaultReadTimeout, "device read timeout")
}

// captureConfig merges the config file, if any, with flags set on the
// command line. Flags win.
func captureConfig(cmd *cobra.Command) (seriallog.CaptureConfig, error) {
	var cfg seriallog.CaptureConfig
	flags := cmd.Flags()

	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := seriallog.LoadConfig(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if flags.Changed("device") || cfg.Device == "" {
		cfg.Device, _ = flags.GetString("device")
	}
	if flags.Changed("baud") || cfg.BaudRate == 0 {
		s, _ := flags.GetString("baud")
		baud, err := seriallog.ParseBaud(s)
		if err != nil {
			return cfg, err
		}
		cfg.BaudRate = baud
	}
	if flags.Changed("output") || cfg.OutputPath == "" {
		cfg.OutputPath, _ = flags.GetString("output")
	}
	if flags.Changed("timeout") || cfg.ReadTimeout == 0 {
		cfg.ReadTimeout, _ = flags.GetDuration("timeout")
	}
	return cfg, nil
}

func printEvent(w io.Writer, ev seriallog.Event) {
	switch ev.Kind {
	case seriallog.EventRecord:
		fmt.Fprint(w, ev.Message)
	case seriallog.EventError:
		fmt.Fprintln(w, ev.Message)
	}
}
