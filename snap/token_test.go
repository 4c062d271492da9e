package snap

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestTokenize(t *testing.T) {
	lookup := StaticLookup{Joined: []rune{'D', 'I'}, SingleDash: []string{"cp", "name"}}

	tests := []struct {
		name string
		args []string
		want []Token
	}{
		{
			name: "long with and without value",
			args: []string{"--verbose", "--out=a=b", "--empty="},
			want: []Token{
				{Kind: TokenLongOption, Name: "verbose", Raw: "--verbose", Index: 0},
				{Kind: TokenLongOption, Name: "out", Value: "a=b", HasValue: true, Raw: "--out=a=b", Index: 1},
				{Kind: TokenLongOption, Name: "empty", HasValue: true, Raw: "--empty=", Index: 2},
			},
		},
		{
			name: "short clusters",
			args: []string{"-abc", "-o=x", "-"},
			want: []Token{
				{Kind: TokenShortCluster, Chars: []rune("abc"), Raw: "-abc", Index: 0},
				{Kind: TokenShortCluster, Chars: []rune("o"), Value: "x", HasValue: true, Raw: "-o=x", Index: 1},
				{Kind: TokenPositional, Value: "-", Raw: "-", Index: 2},
			},
		},
		{
			name: "joined values",
			args: []string{"-Ddebug", "-D=debug", "-Iinclude=x", "-Dx"},
			want: []Token{
				{Kind: TokenShortCluster, Chars: []rune("D"), Value: "debug", HasValue: true, Raw: "-Ddebug", Index: 0},
				{Kind: TokenShortCluster, Chars: []rune("D"), Value: "debug", HasValue: true, Raw: "-D=debug", Index: 1},
				{Kind: TokenShortCluster, Chars: []rune("I"), Value: "include=x", HasValue: true, Raw: "-Iinclude=x", Index: 2},
				{Kind: TokenShortCluster, Chars: []rune("D"), Value: "x", HasValue: true, Raw: "-Dx", Index: 3},
			},
		},
		{
			name: "single-dash names are not split",
			args: []string{"-cp", "-name=v", "-cq"},
			want: []Token{
				{Kind: TokenShortCluster, Chars: []rune("cp"), Raw: "-cp", Index: 0},
				{Kind: TokenShortCluster, Chars: []rune("name"), Value: "v", HasValue: true, Raw: "-name=v", Index: 1},
				{Kind: TokenShortCluster, Chars: []rune("cq"), Raw: "-cq", Index: 2},
			},
		},
		{
			name: "terminator escapes the rest",
			args: []string{"a", "--", "--x", "--", "-y"},
			want: []Token{
				{Kind: TokenPositional, Value: "a", Raw: "a", Index: 0},
				{Kind: TokenTerminator, Raw: "--", Index: 1},
				{Kind: TokenPositional, Value: "--x", Raw: "--x", Index: 2, Escaped: true},
				{Kind: TokenPositional, Value: "--", Raw: "--", Index: 3, Escaped: true},
				{Kind: TokenPositional, Value: "-y", Raw: "-y", Index: 4, Escaped: true},
			},
		},
		{
			name: "odd shapes",
			args: []string{"", "-=x", "---x"},
			want: []Token{
				{Kind: TokenPositional, Value: "", Raw: "", Index: 0},
				{Kind: TokenPositional, Value: "-=x", Raw: "-=x", Index: 1},
				{Kind: TokenLongOption, Name: "-x", Raw: "---x", Index: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.args, lookup)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.args, diff)
			}
		})
	}
}

func TestTokenizeNilLookup(t *testing.T) {
	got := Tokenize([]string{"-Ddebug"}, nil)
	if len(got) != 1 || string(got[0].Chars) != "Ddebug" || got[0].HasValue {
		t.Fatalf("nil lookup should not split joined values: %+v", got)
	}
}

// Rendering tokens back to argv and tokenizing again gives the same stream.
func TestTokenizeRoundTrip(t *testing.T) {
	lookup := StaticLookup{Joined: []rune{'D'}, SingleDash: []string{"cp"}}
	args := []string{"--a", "--b=1", "-xyz", "-Dkey=v", "-cp", "-o=2", "pos", "-", "--", "--c", "-d"}

	first := Tokenize(args, lookup)
	rendered := make([]string, len(first))
	for i, tok := range first {
		rendered[i] = tok.String()
	}
	second := Tokenize(rendered, lookup)

	if diff := cmp.Diff(first, second, cmpopts.IgnoreFields(Token{}, "Raw"), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first, Tokenize(args, lookup)); diff != "" {
		t.Errorf("Tokenize is not deterministic:\n%s", diff)
	}
}

// Putting -- in front of a tail that is already all positionals does not
// change how the tail is classified.
func TestTokenizeTerminatorIdempotent(t *testing.T) {
	lookup := StaticLookup{Joined: []rune{'D'}}
	tails := [][]string{
		{"a", "-", "b"},
		{"-"},
		{"plain", "words only"},
		{"", "x=y", "-"},
	}
	for _, tail := range tails {
		t.Run(strings.Join(tail, " "), func(t *testing.T) {
			bare := Tokenize(tail, lookup)
			for _, tok := range bare {
				if tok.Kind != TokenPositional {
					t.Fatalf("tail %q is not all positionals: %+v", tail, bare)
				}
			}

			escaped := Tokenize(append([]string{"--"}, tail...), lookup)
			if escaped[0].Kind != TokenTerminator {
				t.Fatalf("first token = %v, want terminator", escaped[0].Kind)
			}
			opts := cmp.Options{
				cmpopts.IgnoreFields(Token{}, "Escaped", "Index"),
				cmpopts.EquateEmpty(),
			}
			if diff := cmp.Diff(bare, escaped[1:], opts); diff != "" {
				t.Errorf("classification changed after -- (-bare +escaped):\n%s", diff)
			}
		})
	}
}

func TestTokenDashed(t *testing.T) {
	tests := []struct {
		tok  Token
		want bool
	}{
		{Token{Kind: TokenPositional, Raw: "a"}, false},
		{Token{Kind: TokenPositional, Raw: "-"}, false},
		{Token{Kind: TokenShortCluster, Raw: "-5"}, true},
		{Token{Kind: TokenPositional, Raw: "-x", Escaped: true}, false},
		{Token{Kind: TokenTerminator, Raw: "--"}, true},
	}
	for _, tt := range tests {
		if got := tt.tok.Dashed(); got != tt.want {
			t.Errorf("%q.Dashed() = %v, want %v", tt.tok.Raw, got, tt.want)
		}
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		in      string
		want    Name
		wantErr bool
	}{
		{in: "--verbose", want: Long("verbose")},
		{in: "-v", want: Short('v')},
		{in: "-D+", want: ShortJoined('D')},
		{in: "-cp", want: SingleDash("cp")},
		{in: "verbose", wantErr: true},
		{in: "--", wantErr: true},
		{in: "--a=b", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseName(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseName(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Fatalf("ParseName(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}
