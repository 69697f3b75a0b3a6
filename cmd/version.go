package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time:
// go build -ldflags "-X github.com/nstehr/tackle/cmd.Version=1.2.0"
var Version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		// Skip config and logging setup.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tackle %s\n", Version)
		},
	}
}
