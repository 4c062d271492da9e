package snap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func() *CommandNode
		typ   ErrorType
	}{
		{
			name: "short name collision",
			build: func() *CommandNode {
				c := NewCommand("app", "")
				c.Flag("verbose", "").Short('v')
				c.Flag("version-info", "").Short('v')
				return c.Node()
			},
			typ: ErrorTypeNameCollision,
		},
		{
			name: "shared name shadowed in child",
			build: func() *CommandNode {
				c := NewCommand("app", "")
				c.Flag("verbose", "").Shared()
				c.Command("run", "").Flag("verbose", "")
				return c.Node()
			},
			typ: ErrorTypeNameCollision,
		},
		{
			name: "inversion collides",
			build: func() *CommandNode {
				c := NewCommand("app", "")
				c.Flag("color", "").Negatable()
				c.Flag("no-color", "")
				return c.Node()
			},
			typ: ErrorTypeNameCollision,
		},
		{
			name: "duplicate id",
			build: func() *CommandNode {
				c := NewCommand("app", "")
				c.Flag("x", "")
				c.Option("x", "").Names(Long("other"))
				return c.Node()
			},
			typ: ErrorTypeInvalidDefinition,
		},
		{
			name: "positional with strategy",
			build: func() *CommandNode {
				c := NewCommand("app", "")
				c.Positional("files", "").Array().Strategy(StrategyUpToNextOption)
				return c.Node()
			},
			typ: ErrorTypeInvalidDefinition,
		},
		{
			name: "scalar up to next option",
			build: func() *CommandNode {
				c := NewCommand("app", "")
				c.Option("file", "").Strategy(StrategyUpToNextOption)
				return c.Node()
			},
			typ: ErrorTypeInvalidDefinition,
		},
		{
			name: "two repeating positionals",
			build: func() *CommandNode {
				c := NewCommand("app", "")
				c.Positional("a", "").Array()
				c.Positional("b", "").Array()
				return c.Node()
			},
			typ: ErrorTypeInvalidDefinition,
		},
		{
			name: "capture not last",
			build: func() *CommandNode {
				c := NewCommand("app", "")
				c.Positional("rest", "").Array().Strategy(StrategyUnconditionalRemaining)
				c.Positional("last", "")
				return c.Node()
			},
			typ: ErrorTypeInvalidDefinition,
		},
		{
			name: "joined long name",
			build: func() *CommandNode {
				c := NewCommand("app", "")
				c.Flag("d", "").Names(ShortJoined('d'))
				return c.Node()
			},
			typ: ErrorTypeInvalidDefinition,
		},
		{
			name: "unknown default child",
			build: func() *CommandNode {
				c := NewCommand("app", "").Default("missing")
				c.Command("present", "")
				return c.Node()
			},
			typ: ErrorTypeInvalidDefinition,
		},
		{
			name: "duplicate alias",
			build: func() *CommandNode {
				c := NewCommand("app", "")
				c.Command("build", "").Alias("b")
				c.Command("bench", "").Alias("b")
				return c.Node()
			},
			typ: ErrorTypeInvalidDefinition,
		},
		{
			name: "dashed subcommand",
			build: func() *CommandNode {
				c := NewCommand("app", "")
				c.Command("-x", "")
				return c.Node()
			},
			typ: ErrorTypeInvalidDefinition,
		},
		{
			name: "shared positional",
			build: func() *CommandNode {
				c := NewCommand("app", "")
				c.Positional("p", "").Shared()
				return c.Node()
			},
			typ: ErrorTypeInvalidDefinition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.build())
			var de *DefinitionError
			require.ErrorAs(t, err, &de)
			require.Equal(t, tt.typ, de.Type, de.Error())
			require.False(t, IsUsageError(err))
			require.Equal(t, 1, ExitCode(err))
		})
	}
}

func TestMustBuildPanics(t *testing.T) {
	c := NewCommand("app", "")
	c.Flag("a", "").Short('x')
	c.Flag("b", "").Short('x')
	require.Panics(t, func() { c.MustBuild() })
}

func TestBuildCopiesDefinitions(t *testing.T) {
	c := NewCommand("app", "")
	c.Flag("verbose", "")
	arg := c.Option("level", "").Argument()
	tree := c.MustBuild()

	arg.Names = []Name{Long("changed")}
	pe := parseErr(t, tree, "--changed", "x")
	require.Equal(t, ErrorTypeUnknownOption, pe.Type)
	parseOK(t, tree, "--level", "x")
}

func TestDeclaredNameShadowsHelp(t *testing.T) {
	c := NewCommand("app", "")
	c.Option("help", "topic")
	tree := c.MustBuild()

	res := parseOK(t, tree, "--help", "build")
	require.Nil(t, res.Help)
	topic, _ := Get[string](res.Leaf(), "help")
	require.Equal(t, "build", topic)
	require.NotNil(t, parseOK(t, tree, "-h").Help)
}

func TestDefinitionErrorMessage(t *testing.T) {
	err := error(&DefinitionError{Type: ErrorTypeNameCollision, Message: "name -v is declared twice", Command: "app run"})
	require.Equal(t, `invalid command definition in "app run": name -v is declared twice`, err.Error())
	require.True(t, errors.As(err, new(*DefinitionError)))
}
