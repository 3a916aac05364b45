// Command speadgen assembles SPEAD v4 heaps from a small command-line item
// grammar and emits the resulting packets to a UDP socket or a pcap file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	commit  = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "speadgen",
		Short: "SPEAD v4 heap and packet generator",
		Long: `speadgen builds SPEAD v4 heaps from scalar items described on the
command line and emits the resulting MTU-bounded packet sequence, either
live over UDP or recorded into a pcap file for offline inspection.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newSendCmd())
	rootCmd.AddCommand(newPcapCmd())
	rootCmd.AddCommand(newValidateFlavourCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print speadgen's version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "speadgen %s (%s)\n", version, commit)

			return nil
		},
	}
}
