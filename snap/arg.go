package snap

// ArgKind says how an argument is addressed on the command line.
type ArgKind uint8

const (
	// KindPositional arguments are identified by position.
	KindPositional ArgKind = iota
	// KindOption arguments are named and take a value.
	KindOption
	// KindFlag arguments are named and take no value.
	KindFlag
)

func (k ArgKind) String() string {
	switch k {
	case KindPositional:
		return "positional"
	case KindOption:
		return "option"
	case KindFlag:
		return "flag"
	default:
		return "unknown"
	}
}

// Arity is how many values an argument keeps.
type Arity uint8

const (
	// AritySingle keeps one value (see Exclusivity for repeats).
	AritySingle Arity = iota
	// ArityArray keeps every value in order.
	ArityArray
)

// UpdateMode is derived from the kind: flags are nullary, the rest unary.
type UpdateMode uint8

const (
	UpdateNullary UpdateMode = iota
	UpdateUnary
)

// Strategy controls how many tokens a value-taking argument consumes.
type Strategy uint8

const (
	// StrategyDefault takes the inline value or the next token. The next
	// token is refused when it names an option in scope; array options
	// additionally refuse anything dash-prefixed.
	StrategyDefault Strategy = iota
	// StrategyUnconditional takes the next token whatever it looks like.
	StrategyUnconditional
	// StrategyScanningForValue skips ahead over options to the first
	// positional token and takes it.
	StrategyScanningForValue
	// StrategyUpToNextOption (arrays) takes tokens until one is
	// dash-prefixed or a terminator.
	StrategyUpToNextOption
	// StrategyRemaining (arrays) takes every token up to a terminator.
	StrategyRemaining
	// StrategyUnconditionalRemaining (positional arrays) captures
	// everything from its slot on, terminator included.
	StrategyUnconditionalRemaining
)

func (s Strategy) String() string {
	switch s {
	case StrategyDefault:
		return "default"
	case StrategyUnconditional:
		return "unconditional"
	case StrategyScanningForValue:
		return "scanningForValue"
	case StrategyUpToNextOption:
		return "upToNextOption"
	case StrategyRemaining:
		return "remaining"
	case StrategyUnconditionalRemaining:
		return "unconditionalRemaining"
	default:
		return "unknown"
	}
}

// ParseStrategy is the inverse of Strategy.String.
func ParseStrategy(s string) (Strategy, bool) {
	for st := StrategyDefault; st <= StrategyUnconditionalRemaining; st++ {
		if st.String() == s {
			return st, true
		}
	}
	return StrategyDefault, false
}

// Visibility is carried for help renderers and for help requests.
type Visibility uint8

const (
	VisibilityDefault Visibility = iota
	VisibilityHidden
	VisibilityPrivate
)

func (v Visibility) String() string {
	switch v {
	case VisibilityDefault:
		return "default"
	case VisibilityHidden:
		return "hidden"
	case VisibilityPrivate:
		return "private"
	default:
		return "unknown"
	}
}

// Exclusivity decides what a repeated single-valued argument means.
type Exclusivity uint8

const (
	// ExclusivityChooseLast keeps the last occurrence.
	ExclusivityChooseLast Exclusivity = iota
	// ExclusivityChooseFirst keeps the first occurrence.
	ExclusivityChooseFirst
	// ExclusivityExclusive rejects a second occurrence.
	ExclusivityExclusive
)

// Decoder converts one raw string into a typed value.
type Decoder func(raw string) (any, error)

// Argument is the static definition of one positional, option or flag.
type Argument struct {
	ID          string
	Kind        ArgKind
	Names       []Name // empty for positionals
	Arity       Arity
	Strategy    Strategy
	Required    bool
	Visibility  Visibility
	Help        string
	ValueName   string
	Decode      Decoder // nil keeps the raw string
	Default     any
	Shared      bool // resolvable in every descendant command
	Exclusivity Exclusivity

	// Flags only.
	Inversions []Name // spellings that record false, e.g. --no-color
	FlagValue  any    // recorded per occurrence; nil means true
}

// Update returns whether the argument consumes a value.
func (a *Argument) Update() UpdateMode {
	if a.Kind == KindFlag {
		return UpdateNullary
	}
	return UpdateUnary
}

// IsArray reports whether every occurrence is kept.
func (a *Argument) IsArray() bool { return a.Arity == ArityArray }

// PreferredName returns the first declared name, if any.
func (a *Argument) PreferredName() (Name, bool) {
	if len(a.Names) == 0 {
		return Name{}, false
	}
	return a.Names[0], true
}

// DisplayName renders the argument for diagnostics: "--count <n>" for
// options, "--verbose" for flags, "<file>" for positionals.
func (a *Argument) DisplayName() string {
	value := "<" + a.valueName() + ">"
	if a.IsArray() && a.Kind == KindPositional {
		value = "<" + a.valueName() + "> ..."
	}
	name, ok := a.PreferredName()
	switch {
	case !ok:
		return value
	case a.Kind == KindFlag:
		return name.String()
	default:
		return name.String() + " " + value
	}
}

func (a *Argument) valueName() string {
	if a.ValueName != "" {
		return a.ValueName
	}
	if a.ID != "" {
		return a.ID
	}
	if n, ok := a.PreferredName(); ok {
		return n.bare()
	}
	return "value"
}

// ArgBuilder provides a fluent interface for configuring an argument.
type ArgBuilder struct {
	arg    *Argument
	parent *CommandBuilder
}

// Short adds a -c spelling.
func (b *ArgBuilder) Short(c rune) *ArgBuilder {
	b.arg.Names = append(b.arg.Names, Short(c))
	return b
}

// ShortJoined adds a -c spelling that also accepts -cVALUE.
func (b *ArgBuilder) ShortJoined(c rune) *ArgBuilder {
	b.arg.Names = append(b.arg.Names, ShortJoined(c))
	return b
}

// Long adds another --name spelling.
func (b *ArgBuilder) Long(name string) *ArgBuilder {
	b.arg.Names = append(b.arg.Names, Long(name))
	return b
}

// SingleDash adds a -name spelling.
func (b *ArgBuilder) SingleDash(name string) *ArgBuilder {
	b.arg.Names = append(b.arg.Names, SingleDash(name))
	return b
}

// Names replaces every spelling, including the one derived from the ID.
func (b *ArgBuilder) Names(names ...Name) *ArgBuilder {
	b.arg.Names = append([]Name(nil), names...)
	return b
}

// Array keeps every occurrence instead of one.
func (b *ArgBuilder) Array() *ArgBuilder {
	b.arg.Arity = ArityArray
	return b
}

// Strategy sets the value-consumption strategy.
func (b *ArgBuilder) Strategy(s Strategy) *ArgBuilder {
	b.arg.Strategy = s
	return b
}

// Required marks the argument as mandatory.
func (b *ArgBuilder) Required() *ArgBuilder {
	b.arg.Required = true
	return b
}

// Hidden keeps the argument out of default help.
func (b *ArgBuilder) Hidden() *ArgBuilder {
	b.arg.Visibility = VisibilityHidden
	return b
}

// Private keeps the argument out of every help and suggestion.
func (b *ArgBuilder) Private() *ArgBuilder {
	b.arg.Visibility = VisibilityPrivate
	return b
}

// ValueName sets the placeholder shown in diagnostics.
func (b *ArgBuilder) ValueName(name string) *ArgBuilder {
	b.arg.ValueName = name
	return b
}

// Decode sets the value decoder.
func (b *ArgBuilder) Decode(d Decoder) *ArgBuilder {
	b.arg.Decode = d
	return b
}

// Enum restricts values to the given set.
func (b *ArgBuilder) Enum(values ...string) *ArgBuilder {
	b.arg.Decode = Enum(values...)
	return b
}

// Default sets the value reported when the argument is absent.
func (b *ArgBuilder) Default(v any) *ArgBuilder {
	b.arg.Default = v
	b.arg.Required = false
	return b
}

// Shared makes the argument resolvable from every subcommand below.
func (b *ArgBuilder) Shared() *ArgBuilder {
	b.arg.Shared = true
	return b
}

// Exclusive rejects repeated occurrences.
func (b *ArgBuilder) Exclusive() *ArgBuilder {
	b.arg.Exclusivity = ExclusivityExclusive
	return b
}

// ChooseFirst keeps the first of repeated occurrences.
func (b *ArgBuilder) ChooseFirst() *ArgBuilder {
	b.arg.Exclusivity = ExclusivityChooseFirst
	return b
}

// Inversion adds spellings that record false for a flag.
func (b *ArgBuilder) Inversion(names ...Name) *ArgBuilder {
	b.arg.Inversions = append(b.arg.Inversions, names...)
	return b
}

// Negatable adds --no-<long> for every long name of a flag.
func (b *ArgBuilder) Negatable() *ArgBuilder {
	for _, n := range b.arg.Names {
		if n.Kind == NameLong {
			b.arg.Inversions = append(b.arg.Inversions, Long("no-"+n.Long))
		}
	}
	return b
}

// Value sets what each flag occurrence records.
func (b *ArgBuilder) Value(v any) *ArgBuilder {
	b.arg.FlagValue = v
	return b
}

// Argument returns the definition being built.
func (b *ArgBuilder) Argument() *Argument { return b.arg }

// Back returns to the command being built.
func (b *ArgBuilder) Back() *CommandBuilder { return b.parent }
