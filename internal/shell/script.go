package shell

import (
	"fmt"
	"io"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// ExitCodeVar is the variable the calling shell reads after evaluating a script.
const ExitCodeVar = "_last_exitcode"

// Kind identifies what a Statement does to the calling shell.
type Kind int

const (
	KindExport Kind = iota
	KindUnset
	KindExec
	KindCaptureExit
	KindSource
	KindModuleUse
	KindEcho
	KindExit
	KindError
	KindNoOp
)

func (k Kind) String() string {
	switch k {
	case KindExport:
		return "export"
	case KindUnset:
		return "unset"
	case KindExec:
		return "exec"
	case KindCaptureExit:
		return "capture-exit"
	case KindSource:
		return "source"
	case KindModuleUse:
		return "module-use"
	case KindEcho:
		return "echo"
	case KindExit:
		return "exit"
	case KindError:
		return "error"
	case KindNoOp:
		return "noop"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Statement is a single intent for the calling shell. It is turned into
// shell text only by Render.
type Statement struct {
	Kind  Kind
	Name  string   // variable name for export/unset
	Value string   // exported value, echoed text, sourced script or module path
	Args  []string // argv for exec
}

// Export sets and exports an environment variable.
func Export(name, value string) Statement {
	return Statement{Kind: KindExport, Name: name, Value: value}
}

// Unset removes an environment variable.
func Unset(name string) Statement {
	return Statement{Kind: KindUnset, Name: name}
}

// Exec runs a subprocess in the foreground of the calling shell.
func Exec(args ...string) Statement {
	return Statement{Kind: KindExec, Args: args}
}

// CaptureExit stores the exit code of the preceding statement in ExitCodeVar.
func CaptureExit() Statement {
	return Statement{Kind: KindCaptureExit}
}

// Source evaluates a script in the calling shell.
func Source(path string) Statement {
	return Statement{Kind: KindSource, Value: path}
}

// ModuleUse registers a module tree with the environment module system.
func ModuleUse(path string) Statement {
	return Statement{Kind: KindModuleUse, Value: path}
}

// Echo prints a line for the user.
func Echo(text string) Statement {
	return Statement{Kind: KindEcho, Value: text}
}

// Exit leaves the calling shell with the last captured exit code.
func Exit() Statement {
	return Statement{Kind: KindExit}
}

// Fail is the error sentinel: it records a non-zero exit code and nothing else.
func Fail() Statement {
	return Statement{Kind: KindError}
}

// NoOp is the success sentinel.
func NoOp() Statement {
	return Statement{Kind: KindNoOp}
}

// Render returns the bash text for the statement.
func (s Statement) Render() (string, error) {
	switch s.Kind {
	case KindExport:
		if err := checkName(s.Name); err != nil {
			return "", err
		}
		v, err := quote(s.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("export %s=%s", s.Name, v), nil
	case KindUnset:
		if err := checkName(s.Name); err != nil {
			return "", err
		}
		return "unset " + s.Name, nil
	case KindExec:
		if len(s.Args) == 0 {
			return "", fmt.Errorf("exec statement has no command")
		}
		words := make([]string, len(s.Args))
		for i, arg := range s.Args {
			q, err := quote(arg)
			if err != nil {
				return "", err
			}
			words[i] = q
		}
		return strings.Join(words, " "), nil
	case KindCaptureExit:
		return ExitCodeVar + "=$?", nil
	case KindSource:
		p, err := quote(s.Value)
		if err != nil {
			return "", err
		}
		return "source " + p, nil
	case KindModuleUse:
		p, err := quote(s.Value)
		if err != nil {
			return "", err
		}
		return "module use " + p, nil
	case KindEcho:
		t, err := quote(s.Value)
		if err != nil {
			return "", err
		}
		return "echo " + t, nil
	case KindExit:
		return "exit $" + ExitCodeVar, nil
	case KindError:
		return ExitCodeVar + "=1", nil
	case KindNoOp:
		return ExitCodeVar + "=0", nil
	default:
		return "", fmt.Errorf("unknown statement kind %d", int(s.Kind))
	}
}

// Script is an ordered list of statements for the calling shell to evaluate.
type Script []Statement

// Failed reports whether the script is the error sentinel.
func (s Script) Failed() bool {
	return len(s) == 1 && s[0].Kind == KindError
}

// Render writes the script as bash, one statement per line. Nothing is
// written if any statement fails to render.
func (s Script) Render(w io.Writer) error {
	var sb strings.Builder
	for _, stmt := range s {
		line, err := stmt.Render()
		if err != nil {
			return fmt.Errorf("failed to render %s statement: %w", stmt.Kind, err)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// String renders the script, returning the error sentinel if rendering fails.
func (s Script) String() string {
	var sb strings.Builder
	if err := s.Render(&sb); err != nil {
		line, _ := Fail().Render()
		return line + "\n"
	}
	return sb.String()
}

func quote(s string) (string, error) {
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		return "", fmt.Errorf("cannot quote %q: %w", s, err)
	}
	return q, nil
}

// checkName rejects anything that is not a valid shell variable name.
func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("empty variable name")
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return fmt.Errorf("invalid variable name %q", name)
		}
	}
	return nil
}
