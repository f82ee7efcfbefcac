package generate

import (
	"fmt"

	"github.com/uenv-dev/uenv/internal/activate"
	"github.com/uenv-dev/uenv/internal/session"
	"github.com/uenv-dev/uenv/internal/shell"
	"github.com/uenv-dev/uenv/internal/ui"
)

// View activates the named view. With an empty name it reports the loaded
// view, or lists the views that could be activated.
func (g *Generator) View(state *session.State, name string) (shell.Script, error) {
	if !state.Active() {
		return fail(ErrNoSession)
	}

	catalog := activate.NewCatalog(state.Images)

	if name == "" {
		if state.View != nil {
			return shell.Script{
				shell.Echo("the view " + ui.Name(state.View.String()) + " is loaded"),
				shell.NoOp(),
			}, nil
		}
		return append(catalogListing(catalog), shell.NoOp()), nil
	}

	if err := activate.CheckCanActivate(state); err != nil {
		return fail(err)
	}

	ref, err := catalog.Resolve(name)
	if err != nil {
		if !catalog.Empty() {
			err = fmt.Errorf("%w; run 'uenv view' to list the available views", err)
		}
		return fail(err)
	}
	if ref.View.Activate == "" {
		return fail(fmt.Errorf("view %s has no activation script", ref.Qualified()))
	}

	return shell.Script{
		shell.Source(ref.View.Activate),
		shell.Export(session.EnvView, session.EncodeView(ref.Loaded())),
		shell.NoOp(),
	}, nil
}

func catalogListing(catalog *activate.Catalog) shell.Script {
	if catalog.Empty() {
		return shell.Script{shell.Echo("no views available")}
	}

	groups := catalog.Listing()
	width := 0
	for _, g := range groups {
		for _, e := range g.Entries {
			width = max(width, len(e.Name))
		}
	}

	script := shell.Script{shell.Echo("the following views are available:")}
	for _, g := range groups {
		script = append(script, shell.Echo(""))
		script = append(script, shell.Echo(ui.Name(g.Image.Name())+" "+ui.Dim("("+g.Image.Mount+")")))
		for _, e := range g.Entries {
			line := fmt.Sprintf("  %-*s", width, e.Name)
			if e.Description != "" {
				line += "  " + e.Description
			}
			script = append(script, shell.Echo(line))
		}
	}
	return script
}
