package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	seriallog "github.com/luhtfiimanal/go-serial-logger"
)

func TestConsole_Commands(t *testing.T) {
	in := strings.NewReader(strings.Join([]string{
		"status",
		"start",
		"baud fast",
		"baud 57600",
		"port /dev/does-not-exist-seriallog",
		"bogus",
		"",
		"quit",
		"status",
	}, "\n"))
	var out bytes.Buffer

	err := runConsole(in, &out, seriallog.CaptureConfig{}, zerolog.Nop())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Equal(t, "stopped", lines[0])
	require.Contains(t, lines[1], "invalid capture config")
	require.Contains(t, lines[2], `bad baud rate "fast"`)
	require.Equal(t, "note: 57600 is not one of [1200 9600 19200 115200]", lines[3])
	require.Equal(t, `unknown command "bogus"`, lines[4])
	require.Len(t, lines, 5, "nothing runs after quit")
}

func TestConsole_SelectionFeedsStart(t *testing.T) {
	c := &console{
		ctrl: seriallog.NewController(nil),
		out:  &bytes.Buffer{},
	}
	require.False(t, c.exec("port  /dev/ttyUSB0 "))
	require.False(t, c.exec("baud 115200"))
	require.False(t, c.exec("file /tmp/my capture.csv"))
	require.True(t, c.exec("EXIT"))

	require.Equal(t, seriallog.CaptureConfig{
		Device:     "/dev/ttyUSB0",
		BaudRate:   115200,
		OutputPath: "/tmp/my capture.csv",
	}, c.sel)
}
