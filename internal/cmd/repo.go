package cmd

import (
	"github.com/spf13/cobra"

	"github.com/uenv-dev/uenv/internal/session"
)

var (
	repoFindUarch string
	repoFindAll   bool
)

var repoCmd = &cobra.Command{
	Use:   "repo",
	Short: "Inspect the uenv repository",
}

var repoFindCmd = &cobra.Command{
	Use:   "find [name[/version][:tag]]",
	Short: "List the images in the repository",
	Long: `List repository images for the current cluster (CLUSTER_NAME) that match
the given reference. Without a reference every image is listed.

Examples:
  uenv repo find
  uenv repo find prgenv-gnu
  uenv repo find --all gromacs/2023.1`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRepoFind,
}

func init() {
	repoFindCmd.Flags().StringVarP(&repoFindUarch, "uarch", "a", "", "only list images for this micro-architecture")
	repoFindCmd.Flags().BoolVar(&repoFindAll, "all", false, "list images for every cluster")

	repoCmd.AddCommand(repoFindCmd)
	rootCmd.AddCommand(repoCmd)
}

func runRepoFind(cmd *cobra.Command, args []string) error {
	var spec string
	if len(args) == 1 {
		spec = args[0]
	}

	cluster := session.Reconstruct(environ).ClusterName
	if repoFindAll {
		cluster = ""
	}
	uarch := repoFindUarch
	if uarch == "" {
		uarch = cfg.Uarch
	}

	return emit(newGenerator().Find(openRepository(), cluster, uarch, spec))
}
