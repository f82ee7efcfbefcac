// Command uenv-impl prints the shell statements that mount, inspect and
// activate uenv software environments. It is meant to be called through the
// function printed by "uenv-impl shell-init".
package main

import (
	"os"

	"github.com/uenv-dev/uenv/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
