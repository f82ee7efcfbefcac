package cmd

import (
	"github.com/spf13/cobra"

	"github.com/uenv-dev/uenv/internal/session"
)

var viewCmd = &cobra.Command{
	Use:   "view [name]",
	Short: "Activate a uenv view",
	Long: `Activate a view provided by a mounted image. Only one view can be loaded
per session.

Without a name, print the loaded view or the views that can be activated.
A view offered by more than one image must be qualified as image:view.

Examples:
  uenv view
  uenv view default
  uenv view prgenv-gnu:modules`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	var name string
	if len(args) == 1 {
		name = args[0]
	}
	return emit(newGenerator().View(session.Reconstruct(environ), name))
}
