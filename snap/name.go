package snap

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// NameKind distinguishes the three spellings an option name can have.
type NameKind uint8

const (
	// NameLong is a double-dash name: --verbose.
	NameLong NameKind = iota
	// NameShort is a single character after one dash: -v.
	NameShort
	// NameLongSingleDash is a multi-character name after one dash: -verbose.
	NameLongSingleDash
)

// Name is one spelling of a named argument. An argument may have several;
// the first declared one is preferred in diagnostics.
type Name struct {
	Kind NameKind
	Long string // for NameLong and NameLongSingleDash
	Short rune  // for NameShort
	// AllowsJoined lets a short name take its value glued on: -Ddebug.
	AllowsJoined bool
}

// Long returns a --name spelling.
func Long(name string) Name { return Name{Kind: NameLong, Long: name} }

// Short returns a -c spelling.
func Short(c rune) Name { return Name{Kind: NameShort, Short: c} }

// ShortJoined returns a -c spelling that also accepts -cVALUE.
func ShortJoined(c rune) Name { return Name{Kind: NameShort, Short: c, AllowsJoined: true} }

// SingleDash returns a -name spelling.
func SingleDash(name string) Name { return Name{Kind: NameLongSingleDash, Long: name} }

// String renders the name the way a user types it.
func (n Name) String() string {
	switch n.Kind {
	case NameLong:
		return "--" + n.Long
	case NameShort:
		return "-" + string(n.Short)
	case NameLongSingleDash:
		return "-" + n.Long
	default:
		return ""
	}
}

// IsZero reports whether n is the zero Name (used for positional values).
func (n Name) IsZero() bool { return n == Name{} }

// bare is the name without dashes, used for suggestions.
func (n Name) bare() string {
	if n.Kind == NameShort {
		return string(n.Short)
	}
	return n.Long
}

// validate checks that the name can actually be typed and tokenized back.
func (n Name) validate() error {
	switch n.Kind {
	case NameLong, NameLongSingleDash:
		if n.Long == "" {
			return fmt.Errorf("empty option name")
		}
		if strings.ContainsAny(n.Long, "= \t") || strings.HasPrefix(n.Long, "-") {
			return fmt.Errorf("invalid option name %q", n.Long)
		}
		if n.AllowsJoined {
			return fmt.Errorf("joined values are only allowed on short names: %s", n)
		}
	case NameShort:
		if n.Short == 0 || n.Short == '-' || n.Short == '=' || n.Short == utf8.RuneError {
			return fmt.Errorf("invalid short name %q", n.Short)
		}
	default:
		return fmt.Errorf("unknown name kind %d", n.Kind)
	}
	return nil
}

// ParseName turns "--name", "-n" or "-name" into a Name. A trailing "+" on a
// short name ("-D+") marks it as accepting joined values.
func ParseName(s string) (Name, error) {
	switch {
	case strings.HasPrefix(s, "--") && len(s) > 2:
		n := Long(s[2:])
		return n, n.validate()
	case strings.HasPrefix(s, "-") && len(s) > 1:
		body := s[1:]
		joined := false
		if strings.HasSuffix(body, "+") && utf8.RuneCountInString(body) == 2 {
			body, joined = body[:len(body)-1], true
		}
		if utf8.RuneCountInString(body) == 1 {
			r, _ := utf8.DecodeRuneInString(body)
			n := Name{Kind: NameShort, Short: r, AllowsJoined: joined}
			return n, n.validate()
		}
		n := SingleDash(body)
		return n, n.validate()
	default:
		return Name{}, fmt.Errorf("option name %q must start with - or --", s)
	}
}
