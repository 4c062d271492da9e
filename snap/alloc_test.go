package snap

import (
	"testing"
)

// Tokenizing long options allocates the token slice and nothing per token.
func TestTokenizeAllocations(t *testing.T) {
	lookup := StaticLookup{Joined: []rune{'D'}}
	args := []string{"--port", "8080", "--verbose", "--name=x"}

	allocs := testing.AllocsPerRun(1000, func() {
		if toks := Tokenize(args, lookup); len(toks) != len(args) {
			t.Fatalf("unexpected token count %d", len(toks))
		}
	})

	if allocs > 2 {
		t.Fatalf("expected at most 2 allocs/op for long options, got %.2f", allocs)
	}
}

func BenchmarkTokenize(b *testing.B) {
	lookup := StaticLookup{Joined: []rune{'D'}, SingleDash: []string{"cp"}}
	args := []string{"--port", "8080", "-vvx", "-Ddebug", "-cp", "a.jar", "--", "rest"}
	b.ReportAllocs()
	for b.Loop() {
		Tokenize(args, lookup)
	}
}

func BenchmarkParseSimple(b *testing.B) {
	c := NewCommand("app", "")
	c.Option("port", "").Decode(Int)
	c.Flag("verbose", "").Short('v')
	tree := c.MustBuild()
	args := []string{"--port", "8080", "-v"}

	b.ReportAllocs()
	for b.Loop() {
		if _, err := tree.Parse(args); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseSubcommands(b *testing.B) {
	c := NewCommand("app", "")
	c.Flag("verbose", "").Short('v').Shared()
	c.Command("remote", "").
		Command("add", "").
		Option("url", "").Back().
		Positional("name", "")
	tree := c.MustBuild()
	args := []string{"-v", "remote", "add", "--url", "https://example.com", "origin"}

	b.ReportAllocs()
	for b.Loop() {
		if _, err := tree.Parse(args); err != nil {
			b.Fatal(err)
		}
	}
}
