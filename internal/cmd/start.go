package cmd

import (
	"github.com/spf13/cobra"

	"github.com/uenv-dev/uenv/internal/session"
)

var startUarch string

var startCmd = &cobra.Command{
	Use:   "start [flags] image...",
	Short: "Start a shell with one or more uenv mounted",
	Long: `Mount the given images and start an interactive shell inside them.
Leave the session with 'uenv stop' or by exiting the shell.

The first two images default to /user-environment and /user-tools; give an
explicit mount point as image:/path to place them elsewhere.

Examples:
  uenv start prgenv-gnu/24.7
  uenv start gromacs/2023.1 linaro-forge
  uenv start -a gh200 prgenv-gnu
  uenv start ./a.squashfs:/opt/a ./b.squashfs:/opt/b`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStart,
}

func init() {
	startCmd.Flags().StringVarP(&startUarch, "uarch", "a", "", "micro-architecture to select images for")

	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	state := session.Reconstruct(environ)
	return emit(newGenerator().Start(state, newResolver(state, startUarch), args))
}
