package snap

import (
	"errors"
	"sort"

	"github.com/dzonerzy/argsnap/internal/fuzzy"
)

// Parse resolves args (argv without the program name) against the tree.
// On success the result holds the command stack from the root to the
// active command; a help or version request is also a success. Failures
// are *ParseError values carrying the partial stack.
//
// Parse performs no I/O and does not modify the tree, so one Tree can serve
// any number of concurrent calls.
func (t *Tree) Parse(args []string) (*Result, error) {
	refs := make([]argRef, len(args))
	for i, a := range args {
		refs[i] = argRef{raw: a, index: i}
	}

	var stack CommandStack
	idx := 0
	for {
		level := &Level{
			Node:   t.nodes[idx].cmd,
			Values: newParsedValues(),
			tree:   t,
			node:   idx,
			index:  len(stack),
			parent: stack.Leaf(),
		}
		stack = append(stack, level)

		step, err := newLevelParser(t, idx, level, refs).parse()
		if err != nil {
			return nil, annotate(err, stack, level.index)
		}
		switch {
		case step.help != nil:
			return &Result{Stack: stack, Help: step.help}, nil
		case step.version:
			return &Result{Stack: stack, Version: t.nodes[idx].cmd.Version}, nil
		case step.child >= 0:
			idx, refs = step.child, step.refs
			continue
		}
		break
	}

	if err := t.checkShared(stack); err != nil {
		return nil, err
	}
	if err := t.validate(stack); err != nil {
		return nil, err
	}
	return &Result{Stack: stack}, nil
}

func annotate(err error, stack CommandStack, level int) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Stack, pe.Level = stack, level
	}
	return err
}

// checkShared reports required shared arguments that no level received.
// They are checked once the leaf is known since any level below the owner
// may supply them.
func (t *Tree) checkShared(stack CommandStack) error {
	for _, l := range stack {
		for _, a := range t.nodes[l.node].args {
			if a.Shared && a.Required && !l.Values.Has(a.ID) {
				pe := missingArgumentError(a)
				pe.Stack, pe.Level = stack, len(stack)-1
				return pe
			}
		}
	}
	return nil
}

type pendingValue struct {
	level *Level
	arg   *Argument
	n     int // index into level.Values for arg
}

// levelStep is what a level hands back to Parse.
type levelStep struct {
	help    *HelpRequest
	version bool
	child   int // -1 when this level is the leaf
	refs    []argRef
}

// levelParser runs tokenization, resolution, value consumption and
// positional allocation for one command level.
type levelParser struct {
	t     *Tree
	node  *treeNode
	scope *scope
	level *Level

	refs   []argRef
	tokens []Token
	used   []bool

	positionals []int // positions left for the allocator
	deferred    []int // unresolved options kept for the default child
	captured    []int // positions taken by a capturing positional
	terminator  int
	childPos    int
	pending     []pendingValue

	capture      *Argument
	captureAfter int // single positionals that must be filled first
}

func newLevelParser(t *Tree, idx int, level *Level, refs []argRef) *levelParser {
	n := &t.nodes[idx]
	p := &levelParser{
		t:          t,
		node:       n,
		scope:      n.scope,
		level:      level,
		refs:       refs,
		tokens:     tokenizeRefs(refs, n.scope),
		used:       make([]bool, len(refs)),
		terminator: -1,
		childPos:   -1,
	}
	if k := len(n.positionals); k > 0 && n.positionals[k-1].Strategy == StrategyUnconditionalRemaining {
		p.capture = n.positionals[k-1]
		p.captureAfter = k - 1
	}
	return p
}

func (p *levelParser) parse() (levelStep, error) {
	step := levelStep{child: -1}

scan:
	for i := 0; i < len(p.tokens); i++ {
		if p.used[i] {
			continue
		}
		tok := p.tokens[i]
		if p.startsCapture(tok) {
			p.captureFrom(i)
			break
		}

		switch tok.Kind {
		case TokenTerminator:
			p.used[i] = true
			p.terminator = i
		case TokenPositional:
			if !tok.Escaped {
				if ci, ok := p.node.childIndex[tok.Value]; ok {
					p.used[i] = true
					p.childPos, step.child = i, ci
					break scan
				}
			}
			p.used[i] = true
			p.positionals = append(p.positionals, i)
		default:
			sp, err := p.option(i)
			if err != nil {
				if help := p.helpAfter(i); help != nil {
					step.help = help
					return step, nil
				}
				return step, err
			}
			switch sp {
			case specialHelp:
				step.help = &HelpRequest{Visibility: VisibilityDefault, Level: p.level.index}
				return step, nil
			case specialHelpHidden:
				step.help = &HelpRequest{Visibility: VisibilityHidden, Level: p.level.index}
				return step, nil
			case specialVersion:
				step.version = true
				return step, nil
			}
		}
	}

	return p.finish(step)
}

// startsCapture reports whether a capturing positional begins at tok: its
// preceding single positionals are filled and tok is a positional, the
// terminator or an option nothing in scope claims.
func (p *levelParser) startsCapture(tok Token) bool {
	if p.capture == nil || len(p.positionals) < p.captureAfter {
		return false
	}
	switch tok.Kind {
	case TokenPositional:
		if _, child := p.node.childIndex[tok.Value]; child && !tok.Escaped {
			return false
		}
		return true
	case TokenTerminator:
		return true
	default:
		return !p.knownOption(tok)
	}
}

func (p *levelParser) captureFrom(i int) {
	for j := i; j < len(p.tokens); j++ {
		if !p.used[j] {
			p.used[j] = true
			p.captured = append(p.captured, j)
		}
	}
}

// helpAfter looks for a help name among the unused tokens from i on, up to
// a terminator or a subcommand name. Help wins over errors at its level.
func (p *levelParser) helpAfter(i int) *HelpRequest {
	for j := i; j < len(p.tokens); j++ {
		if p.used[j] && j != i {
			continue
		}
		tok := p.tokens[j]
		switch tok.Kind {
		case TokenTerminator:
			return nil
		case TokenPositional:
			if _, ok := p.node.childIndex[tok.Value]; ok && !tok.Escaped {
				return nil
			}
		default:
			if vis, ok := p.scope.isHelp(tok); ok {
				return &HelpRequest{Visibility: vis, Level: p.level.index}
			}
		}
	}
	return nil
}

// finish allocates positionals, decides the transition and decodes. Errors
// come out in a fixed order: missing positionals, leftover input, missing
// required options, then rejected values (options before positionals).
func (p *levelParser) finish(step levelStep) (levelStep, error) {
	positions := append(append([]int(nil), p.positionals...), p.captured...)
	assigned, leftover, missing := allocate(p.node.positionals, positions)
	if missing != nil {
		return step, missingArgumentError(missing)
	}
	for _, sa := range assigned {
		for _, pos := range sa.positions {
			idx := p.tokens[pos].Index
			p.store(p.level, sa.arg, Value{Raw: p.tokens[pos].Raw, Origin: Origin{Start: idx, End: idx}})
		}
	}

	switch {
	case step.child >= 0:
		if len(p.deferred) > 0 {
			tok := p.tokens[p.deferred[0]]
			return step, unknownOptionError(optionText(tok), p.suggestToken(tok), tok)
		}
		if len(leftover) > 0 {
			return step, unexpectedArgumentError(p.pick(leftover))
		}
		for j := p.childPos + 1; j < len(p.refs); j++ {
			if !p.used[j] {
				step.refs = append(step.refs, p.refs[j])
			}
		}
	case len(p.node.children) > 0 && p.node.defaultChild >= 0:
		step.child = p.node.defaultChild
		step.refs = p.residual(leftover)
	case len(leftover) > 0:
		pe := unexpectedArgumentError(p.pick(leftover))
		if first := p.tokens[leftover[0]]; len(p.node.children) > 0 && !first.Escaped {
			pe.Message = "unknown command: " + first.Raw
			pe.Suggestion = fuzzy.FindBest(first.Raw, p.t.childNames(p.level.node), p.t.cfg.suggestionDistance)
		}
		return step, pe
	}

	for _, a := range p.node.args {
		if a.Kind != KindPositional && a.Required && !a.Shared && !p.level.Values.Has(a.ID) {
			return step, missingArgumentError(a)
		}
	}

	if err := p.decode(); err != nil {
		return step, err
	}
	return step, nil
}

// residual is what the default child re-parses: leftover positionals and
// deferred options, in argv order, plus the terminator when anything after
// it is passed on.
func (p *levelParser) residual(leftover []int) []argRef {
	positions := append(append([]int(nil), leftover...), p.deferred...)
	if p.terminator >= 0 {
		for _, pos := range positions {
			if pos > p.terminator {
				positions = append(positions, p.terminator)
				break
			}
		}
	}
	sort.Ints(positions)
	refs := make([]argRef, len(positions))
	for i, pos := range positions {
		refs[i] = p.refs[pos]
	}
	return refs
}

func (p *levelParser) pick(positions []int) []Token {
	out := make([]Token, len(positions))
	for i, pos := range positions {
		out[i] = p.tokens[pos]
	}
	return out
}

func (p *levelParser) suggestToken(tok Token) string {
	if tok.Kind == TokenLongOption {
		return p.suggest(tok.Name)
	}
	return ""
}

func optionText(tok Token) string {
	if tok.Kind == TokenLongOption {
		return "--" + tok.Name
	}
	return "-" + string(tok.Chars)
}

// decode runs decoders over the values recorded at this level, options
// first so their errors win over positional ones.
func (p *levelParser) decode() error {
	var deferredPositional *ParseError
	for _, pv := range p.pending {
		vs := pv.level.Values.m[pv.arg.ID]
		v := &vs[pv.n]
		if pv.arg.Decode == nil {
			v.Decoded = v.Raw
			continue
		}
		decoded, err := pv.arg.Decode(v.Raw)
		if err != nil {
			pe := invalidValueError(pv.arg, *v, err)
			if pv.arg.Kind != KindPositional {
				return pe
			}
			if deferredPositional == nil {
				deferredPositional = pe
			}
			continue
		}
		v.Decoded = decoded
	}
	if deferredPositional != nil {
		return deferredPositional
	}
	return nil
}
