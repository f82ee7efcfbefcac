package shell

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mvdan.cc/sh/v3/syntax"
)

func TestStatementRender(t *testing.T) {
	tests := []struct {
		name string
		stmt Statement
		want string
	}{
		{"export", Export("UENV_MOUNT_POINT", "/user-environment"), "export UENV_MOUNT_POINT=/user-environment"},
		{"export with spaces", Export("MSG", "hello world"), "export MSG='hello world'"},
		{"export empty value", Export("EMPTY", ""), "export EMPTY=''"},
		{"unset", Unset("UENV_MOUNT_FILE"), "unset UENV_MOUNT_FILE"},
		{"exec", Exec("squashfs-mount", "/img/a.squashfs:/user-environment", "--", "bash"), "squashfs-mount /img/a.squashfs:/user-environment -- bash"},
		{"capture exit", CaptureExit(), "_last_exitcode=$?"},
		{"source", Source("/user-environment/env/default/activate.sh"), "source /user-environment/env/default/activate.sh"},
		{"module use", ModuleUse("/user-environment/modules"), "module use /user-environment/modules"},
		{"echo", Echo("no uenv loaded"), "echo 'no uenv loaded'"},
		{"echo empty", Echo(""), "echo ''"},
		{"exit", Exit(), "exit $_last_exitcode"},
		{"error sentinel", Fail(), "_last_exitcode=1"},
		{"noop sentinel", NoOp(), "_last_exitcode=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.stmt.Render()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatementRenderErrors(t *testing.T) {
	tests := []struct {
		name string
		stmt Statement
	}{
		{"export without name", Export("", "x")},
		{"export with invalid name", Export("1ABC", "x")},
		{"unset with injection", Unset("A; rm -rf /")},
		{"exec without args", Exec()},
		{"unknown kind", Statement{Kind: Kind(99)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.stmt.Render()
			assert.Error(t, err)
		})
	}
}

func TestScriptRenderParsesAsBash(t *testing.T) {
	script := Script{
		Export("UENV_MOUNT_FILE", "/scratch/images/it's here.squashfs"),
		Export("UENV_MOUNT_POINT", "/user-environment"),
		Exec("squashfs-mount", "/scratch/images/it's here.squashfs:/user-environment", "--", "echo", "$HOME", "a;b"),
		CaptureExit(),
		Unset("UENV_MOUNT_FILE"),
		Unset("UENV_MOUNT_POINT"),
		Echo("line with \"quotes\" and $(subshell)"),
	}

	var sb strings.Builder
	require.NoError(t, script.Render(&sb))

	f, err := syntax.NewParser().Parse(strings.NewReader(sb.String()), "")
	require.NoError(t, err)
	require.Len(t, f.Stmts, len(script))

	// The mount invocation must stay a single command with one word per argument.
	call, ok := f.Stmts[2].Cmd.(*syntax.CallExpr)
	require.True(t, ok)
	assert.Len(t, call.Args, 6)
}

func TestScriptRenderIsAllOrNothing(t *testing.T) {
	script := Script{Echo("first"), Export("bad name", "x")}

	var sb strings.Builder
	err := script.Render(&sb)
	require.Error(t, err)
	assert.Empty(t, sb.String())
	assert.Equal(t, "_last_exitcode=1\n", script.String())
}

func TestScriptFailed(t *testing.T) {
	assert.True(t, Script{Fail()}.Failed())
	assert.False(t, Script{NoOp()}.Failed())
	assert.False(t, Script{Echo("x"), Fail()}.Failed())
	assert.False(t, Script{}.Failed())
}

func TestWrapper(t *testing.T) {
	got, err := Wrapper("uenv", "/opt/uenv/bin/uenv-impl")
	require.NoError(t, err)
	assert.Contains(t, got, "uenv() {")
	assert.Contains(t, got, `eval "$(/opt/uenv/bin/uenv-impl "$@")"`)
	assert.Contains(t, got, "return $_last_exitcode")

	_, err = syntax.NewParser().Parse(strings.NewReader(got), "")
	require.NoError(t, err)

	_, err = Wrapper("bad-name", "/bin/true")
	assert.Error(t, err)
}
