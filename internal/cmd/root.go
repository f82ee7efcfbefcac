package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/uenv-dev/uenv/internal/config"
	"github.com/uenv-dev/uenv/internal/generate"
	"github.com/uenv-dev/uenv/internal/mount"
	"github.com/uenv-dev/uenv/internal/repository"
	"github.com/uenv-dev/uenv/internal/session"
	"github.com/uenv-dev/uenv/internal/shell"
	"github.com/uenv-dev/uenv/internal/ui"
)

var (
	cfgFile string
	repoDir string
	verbose bool
	noColor bool

	cfg *config.Config
)

// stdout receives the statements for the calling shell; everything else goes
// to stderr. environ is where the session is reconstructed from. Both are
// swapped out in tests.
var (
	stdout  io.Writer           = os.Stdout
	environ session.Environment = session.OSEnv{}
)

var rootCmd = &cobra.Command{
	Use:   "uenv",
	Short: "uenv - mount and activate software environments",
	Long: `uenv mounts squashfs software environments and activates their modules
and views in the current shell.

The output of every command is a list of shell statements. Use it through the
wrapper function printed by shell-init:

  eval "$(uenv-impl shell-init)"

Start a session:
  uenv start prgenv-gnu/24.7
  uenv start gromacs/2023.1 linaro-forge

Inside a session:
  uenv status
  uenv modules use
  uenv view default
  uenv stop`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Any error is reported on stderr and turned into the error sentinel on stdout.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		log.Error(err)
		_, _ = io.WriteString(stdout, shell.Script{shell.Fail()}.String())
	}
	return err
}

func init() {
	rootCmd.SetOut(os.Stderr)
	rootCmd.SetErr(os.Stderr)

	// Persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.uenv/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&repoDir, "repo", "", "uenv repository (default is $SCRATCH/.uenv-images)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func setup(cmd *cobra.Command, args []string) error {
	log.SetDefault(log.NewWithOptions(os.Stderr, log.Options{Prefix: "uenv"}))
	if verbose {
		log.SetLevel(log.DebugLevel)
		log.Debug("debug logging enabled")
	}

	var err error
	cfg, err = config.Load(cfgFile, cmd.Root().PersistentFlags())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ui.SetColor(cfg.ShouldColor() && !noColor)
	return nil
}

// emit writes script for the calling shell. A generator error has already
// been folded into the script as the error sentinel; it is only reported here.
func emit(script shell.Script, err error) error {
	if err != nil {
		log.Error(err)
	}
	return script.Render(stdout)
}

func newGenerator() *generate.Generator {
	return generate.New(cfg.MountUtility, cfg.Shell)
}

// openRepository returns nil when no repository is configured, so that only
// lookups that need one fail.
func openRepository() repository.Repository {
	if cfg.Repo == "" {
		return nil
	}
	return repository.NewFileRepository(cfg.Repo)
}

func newResolver(state *session.State, uarch string) *mount.Resolver {
	if uarch == "" {
		uarch = cfg.Uarch
	}
	return mount.NewResolver(mount.Options{
		Primary:   cfg.Mounts.Primary,
		Secondary: cfg.Mounts.Secondary,
		Cluster:   state.ClusterName,
		Uarch:     uarch,
		Repo:      openRepository(),
	})
}
