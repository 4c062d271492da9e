package snap

// CommandNode is the static description of one command: its arguments and
// its subcommands. Nodes are read, never written, by Build and Parse.
type CommandNode struct {
	Name     string
	Abstract string
	Aliases  []string
	Hidden   bool
	// Version, when set on the root, enables --version.
	Version string

	Arguments []*Argument
	Children  []*CommandNode
	// DefaultChild names the child used when no child name is given.
	DefaultChild string
	// HelpNames overrides the tree-wide help names for this node only.
	HelpNames []Name

	// Validate runs after a successful structural parse.
	Validate Validator
}

// Child returns the direct child with the given name or alias.
func (n *CommandNode) Child(name string) *CommandNode {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
		for _, a := range c.Aliases {
			if a == name {
				return c
			}
		}
	}
	return nil
}

// CommandBuilder provides fluent API for building command trees.
type CommandBuilder struct {
	node   *CommandNode
	parent *CommandBuilder
}

// NewCommand starts a new root command.
func NewCommand(name, abstract string) *CommandBuilder {
	return &CommandBuilder{node: &CommandNode{Name: name, Abstract: abstract}}
}

// Alias adds aliases for the command
func (c *CommandBuilder) Alias(aliases ...string) *CommandBuilder {
	c.node.Aliases = append(c.node.Aliases, aliases...)
	return c
}

// Hidden marks the command as hidden from help
func (c *CommandBuilder) Hidden() *CommandBuilder {
	c.node.Hidden = true
	return c
}

// Version sets the version reported for --version.
func (c *CommandBuilder) Version(v string) *CommandBuilder {
	c.node.Version = v
	return c
}

// HelpNames overrides the help names for this command.
func (c *CommandBuilder) HelpNames(names ...Name) *CommandBuilder {
	c.node.HelpNames = append([]Name(nil), names...)
	return c
}

// Validate sets the post-parse hook.
func (c *CommandBuilder) Validate(v Validator) *CommandBuilder {
	c.node.Validate = v
	return c
}

// ValidateFunc is Validate for plain functions.
func (c *CommandBuilder) ValidateFunc(fn func(*Level) error) *CommandBuilder {
	c.node.Validate = ValidateFunc(fn)
	return c
}

// Flag adds a nullary argument named --id.
func (c *CommandBuilder) Flag(id, help string) *ArgBuilder {
	return c.add(&Argument{ID: id, Kind: KindFlag, Names: []Name{Long(id)}, Help: help})
}

// Option adds a value-taking argument named --id.
func (c *CommandBuilder) Option(id, help string) *ArgBuilder {
	return c.add(&Argument{ID: id, Kind: KindOption, Names: []Name{Long(id)}, Help: help})
}

// Positional adds a required positional argument. Use Optional or Default to
// relax it.
func (c *CommandBuilder) Positional(id, help string) *ArgBuilder {
	return c.add(&Argument{ID: id, Kind: KindPositional, Help: help, Required: true})
}

// Arg adds a fully described argument.
func (c *CommandBuilder) Arg(a *Argument) *ArgBuilder {
	return c.add(a)
}

func (c *CommandBuilder) add(a *Argument) *ArgBuilder {
	c.node.Arguments = append(c.node.Arguments, a)
	return &ArgBuilder{arg: a, parent: c}
}

// Command adds a subcommand and returns its builder. Call Back to return.
func (c *CommandBuilder) Command(name, abstract string) *CommandBuilder {
	child := &CommandNode{Name: name, Abstract: abstract}
	c.node.Children = append(c.node.Children, child)
	return &CommandBuilder{node: child, parent: c}
}

// Default selects the child used when no child name appears in argv.
func (c *CommandBuilder) Default(name string) *CommandBuilder {
	c.node.DefaultChild = name
	return c
}

// Back returns to the parent command. On the root it returns the root.
func (c *CommandBuilder) Back() *CommandBuilder {
	if c.parent == nil {
		return c
	}
	return c.parent
}

// Node returns the command being built.
func (c *CommandBuilder) Node() *CommandNode { return c.node }

func (c *CommandBuilder) root() *CommandNode {
	b := c
	for b.parent != nil {
		b = b.parent
	}
	return b.node
}

// Build builds the whole tree this builder belongs to.
func (c *CommandBuilder) Build(opts ...BuildOption) (*Tree, error) {
	return Build(c.root(), opts...)
}

// MustBuild is Build that panics on a malformed tree.
func (c *CommandBuilder) MustBuild(opts ...BuildOption) *Tree {
	return MustBuild(c.root(), opts...)
}

// Optional lets a positional be absent.
func (b *ArgBuilder) Optional() *ArgBuilder {
	b.arg.Required = false
	return b
}
