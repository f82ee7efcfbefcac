package cmd

import (
	"github.com/spf13/cobra"

	"github.com/uenv-dev/uenv/internal/session"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List the uenv that provide modules",
	Long: `List the mounted images that provide a module tree and whether it is
already in use.`,
	Args: cobra.NoArgs,
	RunE: runModules,
}

var modulesUseCmd = &cobra.Command{
	Use:   "use [image...]",
	Short: "Make the modules of the mounted uenv available",
	Long: `Add the module trees of the named images to the module path. Images are
named by image name or mount point. Without names every image that provides
modules is used.

Examples:
  uenv modules use
  uenv modules use prgenv-gnu
  uenv modules use /user-tools`,
	RunE: runModulesUse,
}

func init() {
	modulesCmd.AddCommand(modulesUseCmd)
	rootCmd.AddCommand(modulesCmd)
}

func runModules(cmd *cobra.Command, args []string) error {
	return emit(newGenerator().Modules(session.Reconstruct(environ)))
}

func runModulesUse(cmd *cobra.Command, args []string) error {
	return emit(newGenerator().ModulesUse(session.Reconstruct(environ), args))
}
