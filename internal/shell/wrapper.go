package shell

import (
	"fmt"
	"strings"
)

// Wrapper returns the bash function that evaluates the output of exe and
// propagates the exit code it recorded. It is meant to be sourced from a
// login script, e.g. `eval "$(uenv-impl shell-init)"`.
func Wrapper(function, exe string) (string, error) {
	if err := checkName(function); err != nil {
		return "", fmt.Errorf("invalid function name: %w", err)
	}
	q, err := quote(exe)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s() {\n", function)
	fmt.Fprintf(&sb, "    local %s=0\n", ExitCodeVar)
	fmt.Fprintf(&sb, "    eval \"$(%s \"$@\")\"\n", q)
	fmt.Fprintf(&sb, "    return $%s\n", ExitCodeVar)
	sb.WriteString("}\n")
	return sb.String(), nil
}
