package cmd

import (
	"github.com/spf13/cobra"

	"github.com/uenv-dev/uenv/internal/session"
)

var runUarch string

var runCmd = &cobra.Command{
	Use:   "run [flags] image... [-- command [args...]]",
	Short: "Run a command inside one or more uenv",
	Long: `Mount the given images and run a command inside them. The session ends
when the command exits and its exit code is returned.

Images are squashfs files or repository references (name[/version][:tag]),
optionally followed by :/mount/point.

Examples:
  uenv run prgenv-gnu -- make -j8
  uenv run gromacs/2023.1 linaro-forge -- ddt gmx mdrun
  uenv run ./store.squashfs:/user-environment -- ./run.sh`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runUarch, "uarch", "a", "", "micro-architecture to select images for")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	images, command := splitAtDash(args, cmd.ArgsLenAtDash())

	state := session.Reconstruct(environ)
	return emit(newGenerator().Run(state, newResolver(state, runUarch), images, command))
}

// splitAtDash splits args into image tokens and the command after "--".
// dash is the value of ArgsLenAtDash: -1 when there was no "--".
func splitAtDash(args []string, dash int) (images, command []string) {
	if dash < 0 {
		return args, nil
	}
	return args[:dash], args[dash:]
}
