package snap

import (
	"strings"
	"unicode/utf8"
)

// TokenKind classifies one argv entry.
type TokenKind uint8

const (
	TokenPositional TokenKind = iota
	TokenLongOption
	TokenShortCluster
	TokenTerminator
)

func (k TokenKind) String() string {
	switch k {
	case TokenPositional:
		return "positional"
	case TokenLongOption:
		return "long"
	case TokenShortCluster:
		return "short"
	case TokenTerminator:
		return "terminator"
	default:
		return "unknown"
	}
}

// Token is one classified argv entry. Tokens are values; nothing mutates
// them after Tokenize returns.
type Token struct {
	Kind     TokenKind
	Name     string // TokenLongOption
	Chars    []rune // TokenShortCluster
	Value    string // inline value, or the text of a positional
	HasValue bool
	Raw      string
	Index    int // position in the argv slice given to Parse
	// Escaped is set on positionals that follow a terminator.
	Escaped bool
}

// Dashed reports whether the raw text starts with a dash and is not a
// bare "-". Escaped positionals are never dashed.
func (t Token) Dashed() bool {
	if t.Kind == TokenTerminator {
		return true
	}
	return !t.Escaped && len(t.Raw) > 1 && t.Raw[0] == '-'
}

func (t Token) String() string {
	switch t.Kind {
	case TokenLongOption:
		if t.HasValue {
			return "--" + t.Name + "=" + t.Value
		}
		return "--" + t.Name
	case TokenShortCluster:
		if t.HasValue {
			return "-" + string(t.Chars) + "=" + t.Value
		}
		return "-" + string(t.Chars)
	case TokenTerminator:
		return "--"
	default:
		return t.Value
	}
}

// NameLookup is the only view of the definitions the tokenizer gets: which
// short names take joined values and which words are single-dash names.
type NameLookup interface {
	AllowsJoined(c rune) bool
	IsSingleDashName(name string) bool
}

// StaticLookup is a NameLookup over fixed lists.
type StaticLookup struct {
	Joined     []rune
	SingleDash []string
}

func (s StaticLookup) AllowsJoined(c rune) bool {
	for _, j := range s.Joined {
		if j == c {
			return true
		}
	}
	return false
}

func (s StaticLookup) IsSingleDashName(name string) bool {
	for _, n := range s.SingleDash {
		if n == name {
			return true
		}
	}
	return false
}

// Tokenize classifies args. It never fails. A nil lookup disables joined
// values and single-dash names.
func Tokenize(args []string, lookup NameLookup) []Token {
	refs := make([]argRef, len(args))
	for i, a := range args {
		refs[i] = argRef{raw: a, index: i}
	}
	return tokenizeRefs(refs, lookup)
}

// argRef is an argv entry together with its position in the full argv.
// Levels below the root see a subset of argv, not always contiguous.
type argRef struct {
	raw   string
	index int
}

func tokenizeRefs(refs []argRef, lookup NameLookup) []Token {
	if lookup == nil {
		lookup = StaticLookup{}
	}
	afterTerminator := false
	tokens := make([]Token, 0, len(refs))
	for _, ref := range refs {
		raw := ref.raw
		tok := Token{Raw: raw, Index: ref.index}
		switch {
		case afterTerminator:
			tok.Kind, tok.Value, tok.Escaped = TokenPositional, raw, true
		case raw == "--":
			tok.Kind = TokenTerminator
			afterTerminator = true
		case strings.HasPrefix(raw, "--"):
			tok.Kind = TokenLongOption
			tok.Name = raw[2:]
			if eq := strings.IndexByte(tok.Name, '='); eq >= 0 {
				tok.Name, tok.Value, tok.HasValue = tok.Name[:eq], tok.Name[eq+1:], true
			}
		case len(raw) > 1 && raw[0] == '-':
			tok = shortToken(tok, raw[1:], lookup)
		default:
			tok.Kind, tok.Value = TokenPositional, raw
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func shortToken(tok Token, body string, lookup NameLookup) Token {
	tok.Kind = TokenShortCluster
	if lookup.IsSingleDashName(body) {
		tok.Chars = []rune(body)
		return tok
	}
	eq := strings.IndexByte(body, '=')
	if eq > 0 && lookup.IsSingleDashName(body[:eq]) {
		tok.Chars, tok.Value, tok.HasValue = []rune(body[:eq]), body[eq+1:], true
		return tok
	}

	first, size := utf8.DecodeRuneInString(body)
	if size < len(body) && body[size] != '=' && lookup.AllowsJoined(first) {
		tok.Chars, tok.Value, tok.HasValue = []rune{first}, body[size:], true
		return tok
	}

	switch {
	case eq == 0:
		// "-=x" names nothing
		tok.Kind, tok.Value = TokenPositional, tok.Raw
	case eq > 0:
		tok.Chars, tok.Value, tok.HasValue = []rune(body[:eq]), body[eq+1:], true
	default:
		tok.Chars = []rune(body)
	}
	return tok
}
