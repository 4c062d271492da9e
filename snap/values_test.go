package snap

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParsedValues(t *testing.T) {
	pv := newParsedValues()
	pv.add("b", Value{Raw: "1"})
	pv.add("a", Value{Raw: "2"})
	pv.add("b", Value{Raw: "3"})
	pv.touch("c")

	require.Equal(t, []string{"b", "a", "c"}, pv.IDs())
	require.Equal(t, 3, pv.Len())
	require.Equal(t, []string{"1", "3"}, pv.Raw("b"))
	last, ok := pv.Last("b")
	require.True(t, ok)
	require.Equal(t, "3", last.Raw)
	require.True(t, pv.Has("c"))
	_, ok = pv.Last("c")
	require.False(t, ok)

	pv.Set("a")
	require.Equal(t, []string{"b", "c"}, pv.IDs())
	pv.Set("d", Value{Raw: "x"})
	require.Equal(t, []string{"b", "c", "d"}, pv.IDs())
}

func TestAccessorsFallBackToDefaults(t *testing.T) {
	c := NewCommand("app", "")
	c.Option("tags", "").Array().Default([]string{"a", "b"})
	c.Option("port", "").Decode(Int).Default(8080)
	c.Option("name", "")
	tree := c.MustBuild()

	leaf := parseOK(t, tree).Leaf()
	tags, ok := All[string](leaf, "tags")
	require.True(t, ok)
	if diff := cmp.Diff([]string{"a", "b"}, tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	ports, ok := All[int](leaf, "port")
	require.True(t, ok)
	require.Equal(t, []int{8080}, ports)

	_, ok = Get[string](leaf, "name")
	require.False(t, ok)
	_, ok = Get[string](leaf, "undeclared")
	require.False(t, ok)
	_, ok = Get[string](leaf, "port")
	require.False(t, ok, "wrong type must not convert")

	raw, ok := leaf.Raw("name")
	require.False(t, ok)
	require.Nil(t, raw)

	leaf = parseOK(t, tree, "--tags", "x", "--tags", "y").Leaf()
	tags, _ = All[string](leaf, "tags")
	require.Equal(t, []string{"x", "y"}, tags)
	require.Equal(t, "--tags", leaf.Argument("tags").Names[0].String())
	require.Equal(t, []string{"app"}, leaf.Path())
	require.Equal(t, "app", leaf.CommandName())
	require.Equal(t, 0, leaf.Index())
}
