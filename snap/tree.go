// Package snap resolves an argv slice against a declared command tree:
// tokenizing, binding names, consuming values, allocating positionals and
// descending into subcommands. It performs no I/O.
package snap

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dzonerzy/argsnap/internal/fuzzy"
	"github.com/dzonerzy/argsnap/middleware"
)

// Tree is a built, immutable command tree. All nodes live in one slice and
// refer to each other by index. A Tree is safe for concurrent Parse calls.
type Tree struct {
	nodes []treeNode
	cfg   buildConfig
}

type treeNode struct {
	cmd          *CommandNode
	parent       int
	depth        int
	path         []string
	children     []int
	childIndex   map[string]int // names and aliases
	defaultChild int
	args         []*Argument
	byID         map[string]*Argument
	positionals  []*Argument
	scope        *scope
	validate     func(*Level) error
}

// special marks names the engine answers itself.
type special uint8

const (
	specialNone special = iota
	specialHelp
	specialHelpHidden
	specialVersion
)

type binding struct {
	arg     *Argument
	owner   int // node index whose value store receives the value
	name    Name
	negated bool
	special special
}

// scope is every name resolvable at one node: its own arguments, the
// shared arguments of its ancestors and the help/version names.
type scope struct {
	long       map[string]*binding
	short      map[rune]*binding
	singleDash map[string]*binding
	// suggestions holds the non-private long spellings, in declaration order.
	suggestions []Name
}

func newScope() *scope {
	return &scope{
		long:       make(map[string]*binding),
		short:      make(map[rune]*binding),
		singleDash: make(map[string]*binding),
	}
}

func (s *scope) lookup(n Name) *binding {
	switch n.Kind {
	case NameLong:
		return s.long[n.Long]
	case NameShort:
		return s.short[n.Short]
	case NameLongSingleDash:
		return s.singleDash[n.Long]
	}
	return nil
}

func (s *scope) insert(b *binding) {
	switch b.name.Kind {
	case NameLong:
		s.long[b.name.Long] = b
	case NameShort:
		s.short[b.name.Short] = b
	case NameLongSingleDash:
		s.singleDash[b.name.Long] = b
	}
}

// AllowsJoined implements NameLookup.
func (s *scope) AllowsJoined(c rune) bool {
	b := s.short[c]
	return b != nil && b.name.AllowsJoined
}

// IsSingleDashName implements NameLookup.
func (s *scope) IsSingleDashName(name string) bool {
	_, ok := s.singleDash[name]
	return ok
}

// suggest returns the rendered in-scope name closest to input, or "".
func (s *scope) suggest(input string, maxDistance int) string {
	if maxDistance <= 0 {
		return ""
	}
	candidates := make([]string, len(s.suggestions))
	for i, n := range s.suggestions {
		candidates[i] = n.Long
	}
	best := fuzzy.FindBest(input, candidates, maxDistance)
	if best == "" {
		return ""
	}
	for _, n := range s.suggestions {
		if n.Long == best {
			return n.String()
		}
	}
	return ""
}

func (s *scope) isHelp(tok Token) (Visibility, bool) {
	var b *binding
	switch tok.Kind {
	case TokenLongOption:
		b = s.long[tok.Name]
	case TokenShortCluster:
		if tok.HasValue {
			return 0, false
		}
		if sd := s.singleDash[string(tok.Chars)]; sd != nil {
			b = sd
		} else if len(tok.Chars) == 1 {
			b = s.short[tok.Chars[0]]
		}
	default:
		return 0, false
	}
	if b == nil {
		return 0, false
	}
	switch b.special {
	case specialHelp:
		return VisibilityDefault, true
	case specialHelpHidden:
		return VisibilityHidden, true
	default:
		return 0, false
	}
}

type buildConfig struct {
	helpNames          []Name
	helpHiddenNames    []Name
	versionNames       []Name
	suggestionDistance int
	middleware         []middleware.Middleware
}

func defaultBuildConfig() buildConfig {
	return buildConfig{
		helpNames:          []Name{Short('h'), Long("help")},
		helpHiddenNames:    []Name{Long("help-hidden")},
		versionNames:       []Name{Long("version")},
		suggestionDistance: fuzzy.DefaultMaxDistance,
	}
}

// BuildOption configures Build.
type BuildOption func(*buildConfig)

// WithHelpNames replaces the default help names (-h, --help).
func WithHelpNames(names ...Name) BuildOption {
	return func(c *buildConfig) { c.helpNames = append([]Name(nil), names...) }
}

// WithHelpHiddenNames replaces --help-hidden.
func WithHelpHiddenNames(names ...Name) BuildOption {
	return func(c *buildConfig) { c.helpHiddenNames = append([]Name(nil), names...) }
}

// WithVersionNames replaces --version.
func WithVersionNames(names ...Name) BuildOption {
	return func(c *buildConfig) { c.versionNames = append([]Name(nil), names...) }
}

// WithSuggestionDistance sets the edit distance under which an unknown name
// gets a "did you mean" suggestion. Zero disables suggestions.
func WithSuggestionDistance(d int) BuildOption {
	return func(c *buildConfig) { c.suggestionDistance = d }
}

// WithValidationMiddleware wraps every validation hook.
func WithValidationMiddleware(mw ...middleware.Middleware) BuildOption {
	return func(c *buildConfig) { c.middleware = append(c.middleware, mw...) }
}

// MustBuild is like Build but panics if the tree is malformed.
func MustBuild(root *CommandNode, opts ...BuildOption) *Tree {
	t, err := Build(root, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Build checks a command tree and freezes it for parsing. Definition
// problems are reported as *DefinitionError.
func Build(root *CommandNode, opts ...BuildOption) (*Tree, error) {
	if root == nil {
		return nil, &DefinitionError{Type: ErrorTypeInvalidDefinition, Message: "nil root command"}
	}
	cfg := defaultBuildConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	for _, group := range [][]Name{cfg.helpNames, cfg.helpHiddenNames, cfg.versionNames} {
		for _, n := range group {
			if err := n.validate(); err != nil {
				return nil, &DefinitionError{Type: ErrorTypeInvalidDefinition, Message: err.Error(), Name: n.String()}
			}
		}
	}

	t := &Tree{cfg: cfg}
	seen := make(map[*CommandNode]bool)
	if _, err := t.add(root, -1, seen); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tree) add(cmd *CommandNode, parent int, seen map[*CommandNode]bool) (int, error) {
	if seen[cmd] {
		return 0, &DefinitionError{
			Type:    ErrorTypeInvalidDefinition,
			Message: fmt.Sprintf("command %q appears twice in the tree", cmd.Name),
			Command: cmd.Name,
		}
	}
	seen[cmd] = true

	idx := len(t.nodes)
	n := treeNode{cmd: cmd, parent: parent, defaultChild: -1, childIndex: make(map[string]int)}
	if parent >= 0 {
		p := &t.nodes[parent]
		n.depth = p.depth + 1
		n.path = append(append([]string(nil), p.path...), cmd.Name)
		if cmd.Name == "" || strings.HasPrefix(cmd.Name, "-") {
			return 0, t.defErr(&n, ErrorTypeInvalidDefinition, fmt.Sprintf("invalid subcommand name %q", cmd.Name))
		}
	} else {
		n.path = []string{cmd.Name}
	}

	if err := t.addArguments(&n); err != nil {
		return 0, err
	}
	t.nodes = append(t.nodes, n)
	if err := t.buildScope(idx); err != nil {
		return 0, err
	}
	t.wrapValidator(idx)

	for _, child := range cmd.Children {
		if child == nil {
			continue
		}
		ci, err := t.add(child, idx, seen)
		if err != nil {
			return 0, err
		}
		node := &t.nodes[idx]
		for _, name := range append([]string{child.Name}, child.Aliases...) {
			if _, dup := node.childIndex[name]; dup {
				return 0, t.defErr(node, ErrorTypeInvalidDefinition, fmt.Sprintf("duplicate subcommand name %q", name))
			}
			node.childIndex[name] = ci
		}
		node.children = append(node.children, ci)
	}

	node := &t.nodes[idx]
	if cmd.DefaultChild != "" {
		ci, ok := node.childIndex[cmd.DefaultChild]
		if !ok {
			return 0, t.defErr(node, ErrorTypeInvalidDefinition,
				fmt.Sprintf("default subcommand %q is not a child", cmd.DefaultChild))
		}
		node.defaultChild = ci
	}
	return idx, nil
}

func (t *Tree) defErr(n *treeNode, typ ErrorType, msg string, ids ...string) *DefinitionError {
	return &DefinitionError{Type: typ, Message: msg, Command: strings.Join(n.path, " "), Arguments: ids}
}

// addArguments copies the node's arguments so later edits to the input
// cannot reach a built tree, then checks each one.
func (t *Tree) addArguments(n *treeNode) error {
	n.byID = make(map[string]*Argument, len(n.cmd.Arguments))
	var array *Argument
	for i, src := range n.cmd.Arguments {
		if src == nil {
			continue
		}
		a := *src
		a.Names = append([]Name(nil), src.Names...)
		a.Inversions = append([]Name(nil), src.Inversions...)
		if a.ID == "" {
			if name, ok := a.PreferredName(); ok {
				a.ID = name.bare()
			} else {
				a.ID = "arg" + strconv.Itoa(i)
			}
		}
		if _, dup := n.byID[a.ID]; dup {
			return t.defErr(n, ErrorTypeInvalidDefinition, fmt.Sprintf("duplicate argument id %q", a.ID), a.ID)
		}
		if err := t.checkArgument(n, &a); err != nil {
			return err
		}
		if a.Kind == KindPositional {
			if a.IsArray() {
				if array != nil {
					return t.defErr(n, ErrorTypeInvalidDefinition,
						fmt.Sprintf("more than one repeating positional: %s and %s", array.ID, a.ID), array.ID, a.ID)
				}
				array = &a
			}
			n.positionals = append(n.positionals, &a)
		}
		n.byID[a.ID] = &a
		n.args = append(n.args, &a)
	}
	if k := len(n.positionals); k > 0 {
		for _, p := range n.positionals[:k-1] {
			if p.Strategy == StrategyUnconditionalRemaining {
				return t.defErr(n, ErrorTypeInvalidDefinition,
					fmt.Sprintf("positional %s captures the rest of argv and must be declared last", p.ID), p.ID)
			}
		}
	}
	return nil
}

func (t *Tree) checkArgument(n *treeNode, a *Argument) error {
	bad := func(format string, args ...any) error {
		return t.defErr(n, ErrorTypeInvalidDefinition, fmt.Sprintf("argument %s: ", a.ID)+fmt.Sprintf(format, args...), a.ID)
	}
	for _, name := range append(append([]Name(nil), a.Names...), a.Inversions...) {
		if err := name.validate(); err != nil {
			return bad("%v", err)
		}
		if name.AllowsJoined && a.Kind != KindOption {
			return bad("joined values need a value-taking option")
		}
	}
	switch a.Kind {
	case KindPositional:
		if len(a.Names) > 0 {
			return bad("positionals cannot have names")
		}
		if a.Strategy != StrategyDefault && a.Strategy != StrategyUnconditionalRemaining {
			return bad("strategy %s is not valid for positionals", a.Strategy)
		}
		if a.Strategy == StrategyUnconditionalRemaining && !a.IsArray() {
			return bad("strategy %s needs an array", a.Strategy)
		}
		if a.Shared {
			return bad("positionals cannot be shared")
		}
	case KindOption, KindFlag:
		if len(a.Names) == 0 {
			return bad("%s needs at least one name", a.Kind)
		}
		if a.Kind == KindFlag && a.Strategy != StrategyDefault {
			return bad("flags take no value and accept no strategy")
		}
		switch a.Strategy {
		case StrategyUpToNextOption, StrategyRemaining:
			if !a.IsArray() {
				return bad("strategy %s needs an array", a.Strategy)
			}
		case StrategyUnconditionalRemaining:
			return bad("strategy %s is only valid for positionals", a.Strategy)
		}
	default:
		return bad("unknown kind %d", a.Kind)
	}
	if len(a.Inversions) > 0 && (a.Kind != KindFlag || a.IsArray()) {
		return bad("only single flags can be inverted")
	}
	return nil
}

// buildScope merges the node's own names with its ancestors' shared names
// and the help/version names. Duplicates among declared names are a
// name collision; a declared name shadows a help or version name.
func (t *Tree) buildScope(idx int) error {
	n := &t.nodes[idx]
	s := newScope()
	owners := make(map[string]*Argument)

	declare := func(a *Argument, owner int, name Name, negated bool) error {
		key := name.String()
		if prev, ok := owners[key]; ok {
			return &DefinitionError{
				Type:      ErrorTypeNameCollision,
				Message:   fmt.Sprintf("name %s is declared by both %s and %s", key, prev.ID, a.ID),
				Command:   strings.Join(n.path, " "),
				Arguments: []string{prev.ID, a.ID},
				Name:      key,
			}
		}
		owners[key] = a
		s.insert(&binding{arg: a, owner: owner, name: name, negated: negated})
		if a.Visibility != VisibilityPrivate && name.Kind != NameShort {
			s.suggestions = append(s.suggestions, name)
		}
		return nil
	}

	var chain []int
	for p := n.parent; p >= 0; p = t.nodes[p].parent {
		chain = append(chain, p)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		anc := &t.nodes[chain[i]]
		for _, a := range anc.args {
			if !a.Shared {
				continue
			}
			if err := t.declareAll(a, chain[i], declare); err != nil {
				return err
			}
		}
	}
	for _, a := range n.args {
		if err := t.declareAll(a, idx, declare); err != nil {
			return err
		}
	}

	help := t.cfg.helpNames
	if n.cmd.HelpNames != nil {
		help = n.cmd.HelpNames
	}
	for _, name := range help {
		if err := name.validate(); err != nil {
			return t.defErr(n, ErrorTypeInvalidDefinition, err.Error())
		}
	}
	reserve := func(names []Name, sp special) {
		for _, name := range names {
			if s.lookup(name) != nil {
				continue
			}
			s.insert(&binding{owner: idx, name: name, special: sp})
			if sp != specialHelpHidden && name.Kind != NameShort {
				s.suggestions = append(s.suggestions, name)
			}
		}
	}
	reserve(help, specialHelp)
	reserve(t.cfg.helpHiddenNames, specialHelpHidden)
	if n.parent < 0 && n.cmd.Version != "" {
		reserve(t.cfg.versionNames, specialVersion)
	}
	n.scope = s
	return nil
}

func (t *Tree) declareAll(a *Argument, owner int, declare func(*Argument, int, Name, bool) error) error {
	for _, name := range a.Names {
		if err := declare(a, owner, name, false); err != nil {
			return err
		}
	}
	for _, name := range a.Inversions {
		if err := declare(a, owner, name, true); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) wrapValidator(idx int) {
	n := &t.nodes[idx]
	v := n.cmd.Validate
	if v == nil {
		return
	}
	hook := middleware.HookFunc(func(ctx middleware.Context) error {
		return v.Validate(ctx.(*Level))
	})
	if len(t.cfg.middleware) > 0 {
		hook = middleware.Chain(t.cfg.middleware...).Apply(hook)
	}
	n.validate = func(l *Level) error { return hook(l) }
}

// Root returns the root command description.
func (t *Tree) Root() *CommandNode { return t.nodes[0].cmd }

// Find returns the node reached by following child names from the root.
func (t *Tree) Find(path ...string) (*CommandNode, bool) {
	idx := 0
	for _, name := range path {
		ci, ok := t.nodes[idx].childIndex[name]
		if !ok {
			return nil, false
		}
		idx = ci
	}
	return t.nodes[idx].cmd, true
}

// Tokenize splits args the way the root command sees them.
func (t *Tree) Tokenize(args []string) []Token {
	return Tokenize(args, t.nodes[0].scope)
}

// Walk calls fn for every command, parents first, with its path from the root.
func (t *Tree) Walk(fn func(path []string, cmd *CommandNode)) {
	for i := range t.nodes {
		fn(t.nodes[i].path, t.nodes[i].cmd)
	}
}

// Arguments returns the built arguments of the command at path, in
// declaration order. Shared arguments of ancestors are not included.
func (t *Tree) Arguments(path ...string) []*Argument {
	idx := 0
	for _, name := range path {
		ci, ok := t.nodes[idx].childIndex[name]
		if !ok {
			return nil
		}
		idx = ci
	}
	return append([]*Argument(nil), t.nodes[idx].args...)
}

// childNames lists the visible names a user could have meant.
func (t *Tree) childNames(idx int) []string {
	n := &t.nodes[idx]
	names := make([]string, 0, len(n.childIndex))
	for name, ci := range n.childIndex {
		if !t.nodes[ci].cmd.Hidden {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
