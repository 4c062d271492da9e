package snap

import "strings"

// Origin is the inclusive argv range that produced a value.
type Origin struct {
	Start int
	End   int
}

// Value is one recorded occurrence of an argument.
type Value struct {
	Raw     string
	Decoded any
	Origin  Origin
	// Name is the spelling the user typed; zero for positionals.
	Name Name
}

// ParsedValues maps argument IDs to their occurrences, in argv order.
type ParsedValues struct {
	order []string
	m     map[string][]Value
}

func newParsedValues() *ParsedValues {
	return &ParsedValues{m: make(map[string][]Value)}
}

func (p *ParsedValues) add(id string, v Value) {
	if _, ok := p.m[id]; !ok {
		p.order = append(p.order, id)
	}
	p.m[id] = append(p.m[id], v)
}

// touch marks id as given without recording a value.
func (p *ParsedValues) touch(id string) {
	if _, ok := p.m[id]; !ok {
		p.order = append(p.order, id)
		p.m[id] = []Value{}
	}
}

// Has reports whether id was given at least once.
func (p *ParsedValues) Has(id string) bool {
	_, ok := p.m[id]
	return ok
}

// Values returns every occurrence of id.
func (p *ParsedValues) Values(id string) []Value { return p.m[id] }

// Last returns the final occurrence of id.
func (p *ParsedValues) Last(id string) (Value, bool) {
	vs := p.m[id]
	if len(vs) == 0 {
		return Value{}, false
	}
	return vs[len(vs)-1], true
}

// Raw returns the raw strings recorded for id.
func (p *ParsedValues) Raw(id string) []string {
	vs := p.m[id]
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Raw
	}
	return out
}

// IDs lists the recorded arguments in the order they were first seen.
func (p *ParsedValues) IDs() []string { return append([]string(nil), p.order...) }

// Len is the number of recorded arguments.
func (p *ParsedValues) Len() int { return len(p.order) }

// Set replaces the occurrences of id. Validation hooks use it to
// normalize values; passing nothing removes id.
func (p *ParsedValues) Set(id string, vals ...Value) {
	if len(vals) == 0 {
		if _, ok := p.m[id]; ok {
			delete(p.m, id)
			for i, o := range p.order {
				if o == id {
					p.order = append(p.order[:i], p.order[i+1:]...)
					break
				}
			}
		}
		return
	}
	if _, ok := p.m[id]; !ok {
		p.order = append(p.order, id)
	}
	p.m[id] = append([]Value(nil), vals...)
}

// Level is one resolved command in a CommandStack.
type Level struct {
	Node   *CommandNode
	Values *ParsedValues

	tree   *Tree
	node   int
	index  int
	parent *Level
}

// Name is the command's declared name.
func (l *Level) Name() string { return l.Node.Name }

// CommandName is Name; it lets middleware log the level.
func (l *Level) CommandName() string { return l.Node.Name }

// Path is the command names from the root to this level.
func (l *Level) Path() []string { return append([]string(nil), l.tree.nodes[l.node].path...) }

// Index is the level's position in the stack.
func (l *Level) Index() int { return l.index }

// Parent is the enclosing level, nil at the root.
func (l *Level) Parent() *Level { return l.parent }

// Args returns the raw positional values in declaration order.
func (l *Level) Args() []string {
	var out []string
	for _, p := range l.tree.nodes[l.node].positionals {
		out = append(out, l.Values.Raw(p.ID)...)
	}
	return out
}

// Raw returns the raw strings recorded for id, looking through shared
// arguments of enclosing levels.
func (l *Level) Raw(id string) ([]string, bool) {
	_, owner := l.resolve(id)
	if owner == nil || !owner.Values.Has(id) {
		return nil, false
	}
	return owner.Values.Raw(id), true
}

// Argument returns the definition for id as seen from this level,
// including shared arguments of enclosing levels.
func (l *Level) Argument(id string) *Argument {
	a, _ := l.resolve(id)
	return a
}

// resolve finds id and the level that stores its values.
func (l *Level) resolve(id string) (*Argument, *Level) {
	if a, ok := l.tree.nodes[l.node].byID[id]; ok {
		return a, l
	}
	for p := l.parent; p != nil; p = p.parent {
		if a, ok := p.tree.nodes[p.node].byID[id]; ok && a.Shared {
			return a, p
		}
	}
	return nil, nil
}

// Has reports whether id was given on the command line.
func Has(l *Level, id string) bool {
	_, owner := l.resolve(id)
	return owner != nil && owner.Values.Has(id)
}

// Count is the number of occurrences of id, e.g. 3 for -vvv.
func Count(l *Level, id string) int {
	_, owner := l.resolve(id)
	if owner == nil {
		return 0
	}
	return len(owner.Values.Values(id))
}

// Get returns the value of id converted to T. A repeated single argument
// yields its first or last occurrence according to its Exclusivity. When
// id was not given the argument's Default is used.
func Get[T any](l *Level, id string) (T, bool) {
	var zero T
	a, owner := l.resolve(id)
	if a == nil {
		return zero, false
	}
	vs := owner.Values.Values(id)
	if len(vs) == 0 {
		d, ok := a.Default.(T)
		return d, ok
	}
	v := vs[len(vs)-1]
	if a.Exclusivity == ExclusivityChooseFirst {
		v = vs[0]
	}
	return as[T](v)
}

// All returns every value of id converted to T, falling back to a Default
// of type []T or T.
func All[T any](l *Level, id string) ([]T, bool) {
	a, owner := l.resolve(id)
	if a == nil {
		return nil, false
	}
	vs := owner.Values.Values(id)
	if len(vs) == 0 {
		switch d := a.Default.(type) {
		case []T:
			return append([]T(nil), d...), true
		case T:
			return []T{d}, true
		}
		return nil, false
	}
	out := make([]T, 0, len(vs))
	for _, v := range vs {
		t, ok := as[T](v)
		if !ok {
			return nil, false
		}
		out = append(out, t)
	}
	return out, true
}

func as[T any](v Value) (T, bool) {
	if v.Decoded != nil {
		t, ok := v.Decoded.(T)
		return t, ok
	}
	t, ok := any(v.Raw).(T)
	return t, ok
}

// CommandStack is the chain of resolved commands, root first.
type CommandStack []*Level

// Leaf returns the active command, nil for an empty stack.
func (s CommandStack) Leaf() *Level {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}

// Path returns the command names from the root to the leaf.
func (s CommandStack) Path() []string {
	out := make([]string, len(s))
	for i, l := range s {
		out[i] = l.Node.Name
	}
	return out
}

func (s CommandStack) String() string { return strings.Join(s.Path(), " ") }

// HelpRequest is returned when a help name short-circuits the parse.
type HelpRequest struct {
	Visibility Visibility
	// Level is the stack index the help applies to.
	Level int
}

// Result is the outcome of a successful Parse. Exactly one of Help and
// Version is set when the user asked for them; otherwise Stack holds the
// fully parsed and validated commands.
type Result struct {
	Stack   CommandStack
	Help    *HelpRequest
	Version string
}

// Leaf returns the active command.
func (r *Result) Leaf() *Level { return r.Stack.Leaf() }
