package generate

import (
	"strings"

	"github.com/uenv-dev/uenv/internal/activate"
	"github.com/uenv-dev/uenv/internal/session"
	"github.com/uenv-dev/uenv/internal/shell"
	"github.com/uenv-dev/uenv/internal/ui"
)

// Modules lists the images whose module trees can be used.
func (g *Generator) Modules(state *session.State) (shell.Script, error) {
	if !state.Active() {
		return fail(ErrNoSession)
	}

	candidates := activate.ModuleCandidates(state.Images)
	if len(candidates) == 0 {
		return shell.Script{shell.Echo(activate.ErrNoModules.Error()), shell.NoOp()}, nil
	}

	script := shell.Script{shell.Echo("the following loaded uenv provide modules:")}
	for _, img := range candidates {
		line := "  " + ui.Name(displayName(img)) + ":" + img.Mount
		if img.ModulesLoaded {
			line += " " + ui.Active("(loaded)")
		}
		script = append(script, shell.Echo(line))
	}
	return append(script, shell.NoOp()), nil
}

// ModulesUse registers the module trees of the named images, or of every
// candidate when names is empty.
func (g *Generator) ModulesUse(state *session.State, names []string) (shell.Script, error) {
	if !state.Active() {
		return fail(ErrNoSession)
	}

	selected, err := activate.SelectModules(state.Images, names)
	if err != nil {
		return fail(err)
	}

	var script shell.Script
	for _, img := range selected {
		script = append(script, shell.ModuleUse(img.ModuleRoot()))
	}
	paths := activate.ModulePaths(state.ModulePaths, selected)
	script = append(script,
		shell.Export(session.EnvModulePath, strings.Join(paths, ",")),
		shell.NoOp(),
	)
	return script, nil
}

func displayName(img *session.Image) string {
	if name := img.Name(); name != "" {
		return name
	}
	return anonymousMarker
}
