package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	seriallog "github.com/luhtfiimanal/go-serial-logger"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactively start and stop capture",
	Long: `Console reads commands from standard input and prints captured lines
as they arrive:

  port <device>   select the serial device
  baud <rate>     select the baud rate
  file <path>     select the CSV output file
  ports           list serial devices
  start           start capture with the current selection
  stop            stop capture
  status          print whether capture is running
  quit            stop capture and exit

Flags pre-fill the selection.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger, err := newLogger(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		cfg, err := captureConfig(cmd)
		if err != nil {
			return err
		}
		return runConsole(cmd.InOrStdin(), cmd.OutOrStdout(), cfg, logger)
	},
}

func init() {
	addCaptureFlags(consoleCmd)
	rootCmd.AddCommand(consoleCmd)
}

type console struct {
	ctrl *seriallog.Controller
	sel  seriallog.CaptureConfig
	out  io.Writer
}

func runConsole(in io.Reader, out io.Writer, sel seriallog.CaptureConfig, logger zerolog.Logger) error {
	events := seriallog.NewChanSink(1024)
	c := &console{
		ctrl: seriallog.NewController(events, seriallog.WithLogger(logger)),
		sel:  sel,
		out:  newSyncWriter(out),
	}

	stopPrinting := make(chan struct{})
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for {
			select {
			case ev := <-events.Events():
				printEvent(c.out, ev)
			case <-stopPrinting:
				for {
					select {
					case ev := <-events.Events():
						printEvent(c.out, ev)
					default:
						return
					}
				}
			}
		}
	}()
	defer func() {
		close(stopPrinting)
		<-printed
	}()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if quit := c.exec(scanner.Text()); quit {
			break
		}
	}
	c.ctrl.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.ctrl.Wait(ctx); err != nil {
		return err
	}
	return scanner.Err()
}

// exec runs one console command and reports whether the console should exit.
func (c *console) exec(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	arg := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))

	switch strings.ToLower(fields[0]) {
	case "port":
		c.sel.Device = arg
	case "baud":
		baud, err := seriallog.ParseBaud(arg)
		if err != nil {
			fmt.Fprintln(c.out, err)
			return false
		}
		if !seriallog.IsStandardBaud(baud) {
			fmt.Fprintf(c.out, "note: %d is not one of %v\n", baud, seriallog.SupportedBaudRates)
		}
		c.sel.BaudRate = baud
	case "file":
		c.sel.OutputPath = arg
	case "ports":
		ports, err := seriallog.ListDevices()
		if err != nil {
			fmt.Fprintln(c.out, err)
			return false
		}
		for _, p := range ports {
			fmt.Fprintln(c.out, p)
		}
	case "start":
		if c.ctrl.Status() == seriallog.Running {
			fmt.Fprintln(c.out, "already running")
			return false
		}
		if err := c.ctrl.StartWith(c.sel); err != nil {
			fmt.Fprintln(c.out, err)
		}
	case "stop":
		c.ctrl.Stop()
	case "status":
		fmt.Fprintln(c.out, c.ctrl.Status())
	case "quit", "exit":
		return true
	default:
		fmt.Fprintf(c.out, "unknown command %q\n", fields[0])
	}
	return false
}
