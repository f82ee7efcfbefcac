package generate

import (
	"fmt"

	"github.com/uenv-dev/uenv/internal/session"
	"github.com/uenv-dev/uenv/internal/shell"
	"github.com/uenv-dev/uenv/internal/ui"
)

const (
	anonymousMarker     = "anonymous"
	noDescriptionMarker = "no description"
)

// Status describes every mounted image. It never fails.
func (g *Generator) Status(state *session.State) (shell.Script, error) {
	if !state.Active() {
		return shell.Script{shell.Echo(ErrNoSession.Error()), shell.NoOp()}, nil
	}

	var script shell.Script
	echo := func(format string, args ...any) {
		script = append(script, shell.Echo(fmt.Sprintf(format, args...)))
	}

	for i, img := range state.Images {
		if i > 0 {
			echo("")
		}

		name := img.Name()
		if name == "" {
			name = anonymousMarker
		}
		echo("%s:%s", img.Mount, ui.Name(name))

		description := img.Description()
		if description == "" {
			description = noDescriptionMarker
		}
		echo("  %s", ui.Dim(description))

		native := img.NativelyMounted()
		if !native {
			echo("  %s", ui.Warning(fmt.Sprintf("warning: mounted at %s but built for %s; modules and views are disabled", img.Mount, img.NativeMount())))
		}

		switch {
		case !img.HasModules():
			echo("  modules: no modules available")
		case !native:
			echo("  modules: disabled")
		case img.ModulesLoaded:
			echo("  modules: %s", ui.Active("loaded"))
		default:
			echo("  modules: available")
		}

		views := img.Views()
		if len(views) == 0 {
			echo("  views: no views available")
			continue
		}
		echo("  views:")
		for _, v := range views {
			label := v.Name
			if isLoaded(state, img, v) {
				label += " " + ui.Active("(loaded)")
			}
			if v.Description != "" {
				echo("    %s: %s", label, v.Description)
			} else {
				echo("    %s", label)
			}
		}
	}

	return append(script, shell.NoOp()), nil
}

func isLoaded(state *session.State, img *session.Image, v session.View) bool {
	lv := state.View
	return lv != nil && lv.Mount == img.Mount && lv.Image == img.Name() && lv.View == v.Name
}
