// Package generate turns a reconstructed session and a user command into the
// shell statements the calling shell has to evaluate.
//
// Every generator is pure: it reads the session state and its arguments and
// returns a script. On failure the script is exactly the error sentinel and
// the error is returned alongside for the caller to report.
package generate

import (
	"errors"

	"github.com/uenv-dev/uenv/internal/mount"
	"github.com/uenv-dev/uenv/internal/session"
	"github.com/uenv-dev/uenv/internal/shell"
)

var (
	ErrSessionActive = errors.New("a uenv session is already running: nested sessions are not supported, run 'uenv stop' first")
	ErrNoSession     = errors.New("there is no uenv loaded")
)

// SpecResolver turns image tokens into mount pairs.
type SpecResolver interface {
	Resolve(tokens []string) ([]mount.Pair, error)
}

// Generator holds the settings shared by the command generators.
type Generator struct {
	MountUtility string // program that mounts images and runs a command
	Shell        string // interactive shell started by Start
}

// New returns a Generator using the given mount utility and shell.
func New(mountUtility, interactiveShell string) *Generator {
	return &Generator{MountUtility: mountUtility, Shell: interactiveShell}
}

func fail(err error) (shell.Script, error) {
	return shell.Script{shell.Fail()}, err
}

// Run mounts images and runs command inside them. Without a command the
// mount utility is invoked with the images only.
func (g *Generator) Run(state *session.State, r SpecResolver, images, command []string) (shell.Script, error) {
	return g.mount(state, r, images, command)
}

// Start mounts images and starts an interactive shell inside them.
func (g *Generator) Start(state *session.State, r SpecResolver, images []string) (shell.Script, error) {
	return g.mount(state, r, images, []string{g.Shell})
}

func (g *Generator) mount(state *session.State, r SpecResolver, images, command []string) (shell.Script, error) {
	if state.Active() {
		return fail(ErrSessionActive)
	}

	pairs, err := r.Resolve(images)
	if err != nil {
		return fail(err)
	}
	if len(pairs) == 0 {
		return fail(mount.ErrNoEnvironment)
	}

	args := []string{g.MountUtility}
	for _, p := range pairs {
		args = append(args, p.String())
	}
	if len(command) > 0 {
		args = append(args, "--")
		args = append(args, command...)
	}

	// The legacy pair only describes the first image; the list carries all of them.
	primary := pairs[0]
	return shell.Script{
		shell.Export(session.EnvMountFile, primary.Source),
		shell.Export(session.EnvMountPoint, primary.Mount),
		shell.Export(session.EnvMountList, mount.EncodeList(pairs)),
		shell.Exec(args...),
		shell.CaptureExit(),
		shell.Unset(session.EnvMountFile),
		shell.Unset(session.EnvMountPoint),
		shell.Unset(session.EnvMountList),
	}, nil
}

// Stop leaves the shell started by Start.
func (g *Generator) Stop(state *session.State) (shell.Script, error) {
	if !state.Active() {
		return fail(ErrNoSession)
	}
	return shell.Script{shell.Exit()}, nil
}
