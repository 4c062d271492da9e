package snap

// option resolves the option token at position i and applies it. A
// non-zero special means the user asked for help or the version.
func (p *levelParser) option(i int) (special, error) {
	tok := p.tokens[i]
	p.used[i] = true

	if tok.Kind == TokenLongOption {
		b := p.scope.long[tok.Name]
		if b == nil {
			if p.deferUnknown(i) {
				return specialNone, nil
			}
			return specialNone, unknownOptionError("--"+tok.Name, p.suggest(tok.Name), tok)
		}
		return p.apply(i, b, b.name, tok.Value, tok.HasValue)
	}
	return p.cluster(i)
}

// cluster handles a short token: a single-dash long name, a single short
// name, or several nullary short names with at most a unary last one.
func (p *levelParser) cluster(i int) (special, error) {
	tok := p.tokens[i]
	chars := tok.Chars

	if b := p.scope.singleDash[string(chars)]; b != nil {
		return p.apply(i, b, b.name, tok.Value, tok.HasValue)
	}

	if len(chars) == 1 {
		b := p.scope.short[chars[0]]
		if b == nil {
			if p.deferUnknown(i) {
				return specialNone, nil
			}
			return specialNone, unknownOptionError("-"+string(chars), "", tok)
		}
		return p.apply(i, b, b.name, tok.Value, tok.HasValue)
	}

	var failing []string
	for _, c := range chars {
		if p.scope.short[c] == nil {
			failing = append(failing, "-"+string(c))
		}
	}
	if len(failing) > 0 {
		if p.deferUnknown(i) {
			return specialNone, nil
		}
		return specialNone, clusterError(tok, failing)
	}

	for k, c := range chars {
		b := p.scope.short[c]
		last := k == len(chars)-1
		if b.special != specialNone {
			return b.special, nil
		}
		if b.arg.Update() == UpdateNullary {
			if last && tok.HasValue {
				return specialNone, flagValueError(b.arg, b.name, tok)
			}
			if err := p.recordFlag(i, b, b.name); err != nil {
				return specialNone, err
			}
			continue
		}
		if !last {
			return specialNone, missingValueError(b.arg, b.name, tok)
		}
		return specialNone, p.consume(i, b, b.name, tok.Value, tok.HasValue)
	}
	return specialNone, nil
}

func (p *levelParser) apply(i int, b *binding, name Name, value string, hasValue bool) (special, error) {
	if b.special != specialNone {
		return b.special, nil
	}
	if b.arg.Update() == UpdateNullary {
		if hasValue {
			return specialNone, flagValueError(b.arg, name, p.tokens[i])
		}
		return specialNone, p.recordFlag(i, b, name)
	}
	return specialNone, p.consume(i, b, name, value, hasValue)
}

// deferUnknown keeps an unresolved option for the default child, if the
// node has one.
func (p *levelParser) deferUnknown(i int) bool {
	if p.node.defaultChild < 0 {
		return false
	}
	p.deferred = append(p.deferred, i)
	return true
}

// knownOption reports whether tok names something in scope. The default
// strategy refuses such tokens as values.
func (p *levelParser) knownOption(tok Token) bool {
	switch tok.Kind {
	case TokenLongOption:
		return p.scope.long[tok.Name] != nil
	case TokenShortCluster:
		if p.scope.singleDash[string(tok.Chars)] != nil {
			return true
		}
		for _, c := range tok.Chars {
			if p.scope.short[c] == nil {
				return false
			}
		}
		return len(tok.Chars) > 0
	default:
		return false
	}
}

// takesSeparateValue reports whether a known option token will consume the
// token after it, so scanning can skip that value too.
func (p *levelParser) takesSeparateValue(tok Token) bool {
	if tok.HasValue {
		return false
	}
	var b *binding
	switch tok.Kind {
	case TokenLongOption:
		b = p.scope.long[tok.Name]
	case TokenShortCluster:
		if b = p.scope.singleDash[string(tok.Chars)]; b == nil && len(tok.Chars) > 0 {
			b = p.scope.short[tok.Chars[len(tok.Chars)-1]]
		}
	}
	return b != nil && b.arg != nil && b.arg.Update() == UpdateUnary
}

func (p *levelParser) suggest(name string) string {
	return p.scope.suggest(name, p.t.cfg.suggestionDistance)
}

// owner returns the stack level that stores values for node idx.
func (p *levelParser) owner(idx int) *Level {
	for l := p.level; l != nil; l = l.parent {
		if l.node == idx {
			return l
		}
	}
	return p.level
}

func (p *levelParser) recordFlag(i int, b *binding, name Name) error {
	lv := p.owner(b.owner)
	if err := p.checkExclusive(lv, b.arg, name); err != nil {
		return err
	}
	var decoded any = true
	switch {
	case b.negated:
		decoded = false
	case b.arg.FlagValue != nil:
		decoded = b.arg.FlagValue
	}
	idx := p.tokens[i].Index
	lv.Values.add(b.arg.ID, Value{
		Raw:     name.String(),
		Decoded: decoded,
		Origin:  Origin{Start: idx, End: idx},
		Name:    name,
	})
	return nil
}

// record stores one raw value for a unary argument; decoding happens at the
// end of the level.
func (p *levelParser) record(b *binding, name Name, raw string, from, to int) error {
	lv := p.owner(b.owner)
	if err := p.checkExclusive(lv, b.arg, name); err != nil {
		return err
	}
	p.store(lv, b.arg, Value{
		Raw:    raw,
		Origin: Origin{Start: p.tokens[from].Index, End: p.tokens[to].Index},
		Name:   name,
	})
	return nil
}

func (p *levelParser) store(lv *Level, a *Argument, v Value) {
	lv.Values.add(a.ID, v)
	p.pending = append(p.pending, pendingValue{level: lv, arg: a, n: len(lv.Values.m[a.ID]) - 1})
}

func (p *levelParser) checkExclusive(lv *Level, a *Argument, name Name) error {
	if a.IsArray() || a.Exclusivity != ExclusivityExclusive {
		return nil
	}
	prev := lv.Values.Values(a.ID)
	if len(prev) == 0 {
		return nil
	}
	names := make([]string, 0, len(prev)+1)
	for _, v := range prev {
		names = append(names, v.Name.String())
	}
	return duplicateExclusiveError(a, append(names, name.String()))
}
