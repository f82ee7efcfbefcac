package cmd

import (
	"github.com/spf13/cobra"

	"github.com/uenv-dev/uenv/internal/session"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Leave the running uenv session",
	Long:  `Exit the shell started by 'uenv start', returning the last recorded exit code.`,
	Args:  cobra.NoArgs,
	RunE:  runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	return emit(newGenerator().Stop(session.Reconstruct(environ)))
}
