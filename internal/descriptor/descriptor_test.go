package descriptor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/dzonerzy/argsnap/snap"
)

const toolTOML = `
schema = "1.2"
name = "tool"
abstract = "does things"
version = "0.3.0"
default = "run"

[[args]]
id = "verbose"
kind = "flag"
names = ["--verbose", "-v"]
shared = true

[[commands]]
name = "run"
abstract = "run things"
aliases = ["r"]

  [[commands.args]]
  id = "jobs"
  names = ["--jobs", "-j"]
  type = "int"
  default = 4

  [[commands.args]]
  id = "tags"
  array = true
  type = "int"
  default = [1, 2]

  [[commands.args]]
  id = "files"
  kind = "positional"
  array = true
  required = false
`

const toolYAML = `
schema: "1.0"
name: tool
commands:
  - name: fetch
    args:
      - id: mode
        type: enum
        values: [fast, safe]
        default: safe
      - id: color
        kind: flag
        negatable: true
      - id: url
        kind: positional
`

func buildTree(t *testing.T, src string, format Format) *snap.Tree {
	t.Helper()
	f, err := Decode(strings.NewReader(src), format)
	require.NoError(t, err)
	node, err := f.Node()
	require.NoError(t, err)
	tree, err := snap.Build(node)
	require.NoError(t, err)
	return tree
}

func TestDecodeTOML(t *testing.T) {
	tree := buildTree(t, toolTOML, FormatTOML)
	require.Equal(t, "0.3.0", tree.Root().Version)
	require.Equal(t, "run", tree.Root().DefaultChild)

	res, err := tree.Parse([]string{"r", "-j", "8", "-v", "a.txt", "b.txt"})
	require.NoError(t, err)
	leaf := res.Leaf()
	require.Equal(t, []string{"tool", "run"}, res.Stack.Path())

	jobs, ok := snap.Get[int](leaf, "jobs")
	require.True(t, ok)
	require.Equal(t, 8, jobs)

	tags, ok := snap.All[int](leaf, "tags")
	require.True(t, ok)
	require.Equal(t, []int{1, 2}, tags)

	files, _ := snap.All[string](leaf, "files")
	if diff := cmp.Diff([]string{"a.txt", "b.txt"}, files); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
	require.True(t, snap.Has(leaf, "verbose"))

	res, err = tree.Parse([]string{"run"})
	require.NoError(t, err)
	jobs, _ = snap.Get[int](res.Leaf(), "jobs")
	require.Equal(t, 4, jobs)
}

func TestDecodeYAML(t *testing.T) {
	tree := buildTree(t, toolYAML, FormatYAML)

	res, err := tree.Parse([]string{"fetch", "--no-color", "--mode", "fast", "https://example.com"})
	require.NoError(t, err)
	leaf := res.Leaf()
	mode, _ := snap.Get[string](leaf, "mode")
	require.Equal(t, "fast", mode)
	url, _ := snap.Get[string](leaf, "url")
	require.Equal(t, "https://example.com", url)

	res, err = tree.Parse([]string{"fetch", "x"})
	require.NoError(t, err)
	mode, _ = snap.Get[string](res.Leaf(), "mode")
	require.Equal(t, "safe", mode)

	_, err = tree.Parse([]string{"fetch", "--mode", "slow", "x"})
	var pe *snap.ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, snap.ErrorTypeInvalidValue, pe.Type)

	_, err = tree.Parse([]string{"fetch"})
	require.ErrorAs(t, err, &pe)
	require.Equal(t, snap.ErrorTypeMissingArgument, pe.Type)
}

func TestExistsValidation(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	src := `
name = "app"
[[args]]
id = "config"
exists = "file"
[[args]]
id = "out"
exists = "dir"
`
	tree := buildTree(t, src, FormatTOML)

	_, err := tree.Parse([]string{"--config", file, "--out", dir})
	require.NoError(t, err)

	_, err = tree.Parse([]string{"--config", filepath.Join(dir, "missing")})
	var pe *snap.ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, snap.ErrorTypeValidation, pe.Type)
	require.Equal(t, "config", pe.Argument.ID)

	_, err = tree.Parse([]string{"--out", file})
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "out", pe.Argument.ID)
}

func TestDescriptorErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		format  Format
		wantErr string
	}{
		{"unknown toml key", "name = \"a\"\nbogus = 1\n", FormatTOML, `unknown key "bogus"`},
		{"unknown yaml key", "name: a\nbogus: 1\n", FormatYAML, "bogus"},
		{"newer schema", "schema = \"2.0\"\nname = \"a\"\n", FormatTOML, "not supported"},
		{"bad schema", "schema = \"one\"\nname = \"a\"\n", FormatTOML, `schema "one"`},
		{"no name", "abstract = \"x\"\n", FormatTOML, "no name"},
		{"unknown kind", "name = \"a\"\n[[args]]\nid = \"x\"\nkind = \"switch\"\n", FormatTOML, `unknown kind "switch"`},
		{"missing id", "name = \"a\"\n[[args]]\nkind = \"flag\"\n", FormatTOML, "missing id"},
		{"unknown strategy", "name = \"a\"\n[[args]]\nid = \"x\"\nstrategy = \"greedy\"\n", FormatTOML, `unknown strategy "greedy"`},
		{"bad name", "name = \"a\"\n[[args]]\nid = \"x\"\nnames = [\"x\"]\n", FormatTOML, "must start with"},
		{"positional names", "name = \"a\"\n[[args]]\nid = \"x\"\nkind = \"positional\"\nnames = [\"-x\"]\n", FormatTOML, "positionals have no names"},
		{"enum without values", "name = \"a\"\n[[args]]\nid = \"x\"\ntype = \"enum\"\n", FormatTOML, "enum needs"},
		{"typed flag", "name = \"a\"\n[[args]]\nid = \"x\"\nkind = \"flag\"\ntype = \"int\"\n", FormatTOML, "flags take no value type"},
		{"list default on scalar", "name = \"a\"\n[[args]]\nid = \"x\"\ndefault = [\"a\"]\n", FormatTOML, "list default"},
		{"undecodable default", "name = \"a\"\n[[args]]\nid = \"x\"\ntype = \"int\"\ndefault = \"many\"\n", FormatTOML, "not an integer"},
		{"negatable option", "name = \"a\"\n[[args]]\nid = \"x\"\nnegatable = true\n", FormatTOML, "only flags"},
		{"bad exists", "name = \"a\"\n[[args]]\nid = \"x\"\nexists = \"socket\"\n", FormatTOML, "exists must be"},
		{"unnamed subcommand", "name = \"a\"\n[[commands]]\nabstract = \"x\"\n", FormatTOML, "commands[0] has no name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Decode(strings.NewReader(tt.src), tt.format)
			if err == nil {
				_, err = f.Node()
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNodeErrorsNameTheCommand(t *testing.T) {
	src := "name = \"a\"\n[[commands]]\nname = \"b\"\n[[commands.args]]\nid = \"x\"\nkind = \"nope\"\n"
	f, err := Decode(strings.NewReader(src), FormatTOML)
	require.NoError(t, err)
	_, err = f.Node()
	require.EqualError(t, err, `a b: args[0] "x": unknown kind "nope"`)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	yml := filepath.Join(dir, "tool.yml")
	require.NoError(t, os.WriteFile(yml, []byte(toolYAML), 0o644))

	f, err := Load(yml)
	require.NoError(t, err)
	require.Equal(t, "tool", f.Name)
	require.Len(t, f.Commands, 1)

	_, err = Load(filepath.Join(dir, "tool.json"))
	require.ErrorContains(t, err, "unsupported descriptor extension")

	_, err = Load(filepath.Join(dir, "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("name = "), 0o644))
	_, err = Load(bad)
	require.ErrorContains(t, err, bad)
}

func TestFormatFor(t *testing.T) {
	for path, want := range map[string]Format{"a.toml": FormatTOML, "a.YAML": FormatYAML, "dir/a.yml": FormatYAML} {
		got, err := FormatFor(path)
		require.NoError(t, err, path)
		require.Equal(t, want, got, path)
	}
}
