package cmd

import (
	"github.com/spf13/cobra"

	"github.com/uenv-dev/uenv/internal/session"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Describe the mounted uenv",
	Long: `List every mounted image with its description, module availability and
views, marking what is loaded.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	return emit(newGenerator().Status(session.Reconstruct(environ)))
}
