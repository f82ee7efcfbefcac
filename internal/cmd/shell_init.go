package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/uenv-dev/uenv/internal/shell"
)

var shellInitName string

var shellInitCmd = &cobra.Command{
	Use:   "shell-init",
	Short: "Print the shell function that evaluates uenv output",
	Long: `Print a bash function that runs this program and evaluates its output in
the current shell. Add the following to ~/.bashrc:

  eval "$(uenv-impl shell-init)"`,
	Args: cobra.NoArgs,
	RunE: runShellInit,
}

func init() {
	shellInitCmd.Flags().StringVar(&shellInitName, "name", "uenv", "name of the shell function")

	rootCmd.AddCommand(shellInitCmd)
}

func runShellInit(cmd *cobra.Command, args []string) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	wrapper, err := shell.Wrapper(shellInitName, exe)
	if err != nil {
		return err
	}
	_, err = io.WriteString(stdout, wrapper)
	return err
}
