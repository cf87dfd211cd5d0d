package main

import (
	"fmt"

	"github.com/spf13/cobra"

	seriallog "github.com/luhtfiimanal/go-serial-logger"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial devices and the offered baud rates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ports, err := seriallog.ListDevices()
		if err != nil {
			return fmt.Errorf("list serial ports: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(ports) == 0 {
			fmt.Fprintln(out, "no serial ports found")
		}
		for _, p := range ports {
			fmt.Fprintln(out, p)
		}
		fmt.Fprintf(out, "baud rates: %v\n", seriallog.SupportedBaudRates)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(portsCmd)
}
