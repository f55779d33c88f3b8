package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/astforge/pkg/factory"
)

const helloFixture = "testdata/hello.json"

const helloMain = "package main\n\nimport \"fmt\"\n\nfunc main() {\n  fmt.Println(\"hi\")\n}\n"

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func TestPrint_File(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "", "print", "--mode", "file", helloFixture)
	require.NoError(t, err)
	assert.Equal(t, helloMain, stdout)
}

func TestPrint_StyleFlags(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "", "print", "--mode", "file", "--quote", "backtick", "--indent", "0",
		"--no-trailing-newline", "--package", "demo", helloFixture)
	require.NoError(t, err)
	assert.Equal(t, "package demo\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(`hi`)\n}", stdout)
}

func TestPrint_Stdin(t *testing.T) {
	t.Parallel()

	doc := `{"type":"factory","name":"createIdentifier","args":[{"type":"literal","value":"x"}]}`

	stdout, _, err := execute(t, doc, "print", "--mode", "node", "-")
	require.NoError(t, err)
	assert.Equal(t, "x\n", stdout)
}

func TestPrint_OutputFile(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "main.go")

	stdout, _, err := execute(t, "", "print", "--mode", "file", "-o", out, helloFixture)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, helloMain, string(data))
}

func TestPrint_ShowFixes(t *testing.T) {
	t.Parallel()

	doc := `{"type":"factory","name":"createVariableStatement","args":[
		{"type":"factory","name":"__array","args":[{"type":"literal","value":"x"}]},
		{"type":"factory","name":"createIntKeyword","args":[]},
		{"type":"factory","name":"__array","args":[
			{"type":"factory","name":"createNumericLiteral","args":[{"type":"number","value":5}]}
		]}
	]}`

	stdout, stderr, err := execute(t, doc, "print", "--show-fixes")
	require.NoError(t, err)
	assert.Equal(t, "var x = 5\n", stdout)
	assert.Contains(t, stderr, "-var x int = 5")
	assert.Contains(t, stderr, "+var x = 5")
}

func TestPrint_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{name: "unknown factory", stdin: `{"type":"factory","name":"bogusThing","args":[]}`, args: []string{"print"}},
		{name: "bad mode", stdin: `[]`, args: []string{"print", "--mode", "tree"}},
		{name: "schema", stdin: `{"type":"factory"}`, args: []string{"print", "--validate"}},
		{name: "missing file", args: []string{"print", "does-not-exist.json"}},
		{name: "directory", args: []string{"print", "testdata"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := execute(t, tt.stdin, tt.args...)
			require.Error(t, err)
			assert.Equal(t, exitCodeFailure, ExitCode(err))
			assert.False(t, IsReported(err))
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		stdin  string
		output string
		code   int
	}{
		{name: "valid", stdin: "", output: "Document is valid", code: 0},
		{name: "invalid json", stdin: "{", output: "Invalid JSON", code: exitCodeInvalidJSON},
		{name: "schema", stdin: `{"type":"factory"}`, output: "violates the node schema", code: exitCodeFailure},
		{name: "unknown factory", stdin: `{"type":"factory","name":"bogusThing","args":[]}`, output: "does not deserialize", code: exitCodeFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			arg := "-"
			if tt.stdin == "" {
				arg = helloFixture
			}

			stdout, _, err := execute(t, tt.stdin, "validate", "--mode", "file", arg)
			assert.Contains(t, stdout, tt.output)

			if tt.code == 0 {
				require.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.code, ExitCode(err))
			assert.True(t, IsReported(err))
		})
	}
}

func TestLint(t *testing.T) {
	t.Parallel()

	src := "package main\n\nvar x int = 5\n"

	_, stderr, err := execute(t, src, "lint")
	require.Error(t, err)
	assert.True(t, IsReported(err))
	assert.Contains(t, stderr, "<stdin>:3:")
	assert.Contains(t, stderr, "(no-inferrable-types)")

	stdout, stderr, err := execute(t, src, "lint", "--fix")
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Equal(t, "package main\n\nvar x = 5\n", stdout)

	_, _, err = execute(t, "package main\n\nvar x = 5\n", "lint")
	require.NoError(t, err)
}

func TestLint_Indent(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "func f() {\nreturn\n}\n", "lint", "--fix", "--fragment", "--indent", "4")
	require.NoError(t, err)
	assert.Equal(t, "func f() {\n    return\n}\n", stdout)
}

func TestOps_Formats(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "", "ops")
	require.NoError(t, err)
	assert.Contains(t, stdout, "createCallExpression")
	assert.Contains(t, stdout, fmt.Sprintf("Total: %d operations", len(factory.Operations())))

	stdout, _, err = execute(t, "", "ops", "--format", "json", "--category", "comment")
	require.NoError(t, err)

	var ops []factory.OpDef
	require.NoError(t, json.Unmarshal([]byte(stdout), &ops))
	require.NotEmpty(t, ops)

	for _, def := range ops {
		assert.Equal(t, factory.CategoryComment, def.Category)
	}

	stdout, _, err = execute(t, "", "ops", "--format", "yaml")
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &decoded))
	assert.Len(t, decoded, len(factory.Operations()))

	_, _, err = execute(t, "", "ops", "--format", "xml")
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestArity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2", arity(factory.OpDef{MinArgs: 2, MaxArgs: 2}))
	assert.Equal(t, "1..3", arity(factory.OpDef{MinArgs: 1, MaxArgs: 3}))
	assert.Equal(t, "0+", arity(factory.OpDef{MinArgs: 0, MaxArgs: factory.Variadic}))
}

func TestVersionAndCompletion(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "astforge "))

	stdout, _, err = execute(t, "", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, stdout, "astforge")

	_, _, err = execute(t, "", "completion", "tcsh")
	require.Error(t, err)
}

func TestReadInput_TooLarge(t *testing.T) {
	t.Parallel()

	_, _, err := readInput(nil, strings.NewReader("12345"), 4)
	require.ErrorIs(t, err, ErrInputTooLarge)

	_, _, err = readText(nil, strings.NewReader("a\x00b"), 16)
	require.ErrorIs(t, err, ErrBinaryInput)

	_, err = resolveUserFilePath(" ")
	require.ErrorIs(t, err, ErrEmptyPath)
}

func TestWriteOutput_Stdout(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, writeOutput(&buf, "-", "x"))
	assert.Equal(t, "x", buf.String())
	require.NoError(t, writeOutput(io.Discard, "", ""))
}
