package snap

// next returns the position of the first unused token after i, or -1.
func (p *levelParser) next(i int) int {
	for j := i + 1; j < len(p.tokens); j++ {
		if !p.used[j] {
			return j
		}
	}
	return -1
}

// consume collects the value(s) of the unary argument bound to the token at
// position i, following the argument's strategy.
func (p *levelParser) consume(i int, b *binding, name Name, value string, hasValue bool) error {
	a := b.arg
	tok := p.tokens[i]

	switch a.Strategy {
	case StrategyUnconditional:
		if hasValue {
			return p.record(b, name, value, i, i)
		}
		j := p.next(i)
		if j < 0 {
			return missingValueError(a, name, tok)
		}
		p.used[j] = true
		if p.tokens[j].Kind == TokenTerminator {
			// "--" became a value, so what follows is no longer escaped.
			p.retokenize(j + 1)
		}
		return p.record(b, name, p.tokens[j].Raw, i, j)

	case StrategyScanningForValue:
		if hasValue {
			return p.record(b, name, value, i, i)
		}
		j := p.scan(i)
		if j < 0 {
			return missingValueError(a, name, tok)
		}
		p.used[j] = true
		return p.record(b, name, p.tokens[j].Raw, i, j)

	case StrategyUpToNextOption:
		n := 0
		if hasValue {
			if err := p.record(b, name, value, i, i); err != nil {
				return err
			}
			n++
		}
		for j := p.next(i); j >= 0; j = p.next(j) {
			t := p.tokens[j]
			if t.Kind != TokenPositional || t.Dashed() {
				break
			}
			p.used[j] = true
			if err := p.record(b, name, t.Raw, j, j); err != nil {
				return err
			}
			n++
		}
		if n == 0 {
			return missingValueError(a, name, tok)
		}
		return nil

	case StrategyRemaining:
		n := 0
		if hasValue {
			if err := p.record(b, name, value, i, i); err != nil {
				return err
			}
			n++
		}
		for j := p.next(i); j >= 0; j = p.next(j) {
			t := p.tokens[j]
			if t.Kind == TokenTerminator {
				break
			}
			p.used[j] = true
			if err := p.record(b, name, t.Raw, j, j); err != nil {
				return err
			}
			n++
		}
		if n == 0 {
			p.owner(b.owner).Values.touch(a.ID)
		}
		return nil

	default:
		if hasValue {
			return p.record(b, name, value, i, i)
		}
		j := p.next(i)
		if j < 0 {
			return missingValueError(a, name, tok)
		}
		t := p.tokens[j]
		switch {
		case t.Kind == TokenTerminator:
			return missingValueError(a, name, tok)
		case a.IsArray() && t.Kind != TokenPositional:
			return missingValueError(a, name, tok)
		case t.Kind != TokenPositional && p.knownOption(t):
			return missingValueError(a, name, tok)
		}
		p.used[j] = true
		return p.record(b, name, t.Raw, i, j)
	}
}

// scan looks past options (and the values they will take) for the first
// positional after i. It does not cross a terminator.
func (p *levelParser) scan(i int) int {
	for j := p.next(i); j >= 0; j = p.next(j) {
		t := p.tokens[j]
		switch t.Kind {
		case TokenPositional:
			return j
		case TokenTerminator:
			return -1
		default:
			if p.knownOption(t) && p.takesSeparateValue(t) {
				if k := p.next(j); k >= 0 && p.tokens[k].Kind != TokenTerminator {
					j = k
				}
			}
		}
	}
	return -1
}

// retokenize re-reads the tokens from position from on as if no terminator
// had been seen before them.
func (p *levelParser) retokenize(from int) {
	if from >= len(p.tokens) {
		return
	}
	fresh := tokenizeRefs(p.refs[from:], p.scope)
	copy(p.tokens[from:], fresh)
}
