package snap

import (
	"errors"

	"github.com/dzonerzy/argsnap/middleware"
)

// Validator is a command's post-parse hook. It may rewrite its level's
// Values; returning an error stops validation.
type Validator interface {
	Validate(l *Level) error
}

// ValidateFunc adapts a function to Validator.
type ValidateFunc func(l *Level) error

// Validate calls f(l).
func (f ValidateFunc) Validate(l *Level) error { return f(l) }

// validate runs every level's hook, root first, and stops at the first
// failure.
func (t *Tree) validate(stack CommandStack) error {
	for i, l := range stack {
		hook := t.nodes[l.node].validate
		if hook == nil {
			continue
		}
		if err := hook(l); err != nil {
			return validationError(err, stack, i)
		}
	}
	return nil
}

func validationError(err error, stack CommandStack, level int) error {
	var (
		exit    *ExitError
		panicky *middleware.RecoveryError
		timeout *middleware.TimeoutError
	)
	if errors.As(err, &exit) || errors.As(err, &panicky) || errors.As(err, &timeout) {
		return err
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		// hooks may report a structural problem themselves
		if pe.Stack == nil {
			pe.Stack, pe.Level = stack, level
		}
		return pe
	}
	out := &ParseError{
		Type:    ErrorTypeValidation,
		Message: err.Error(),
		Stack:   stack,
		Level:   level,
		Cause:   err,
	}
	var ve *middleware.ValidationError
	if errors.As(err, &ve) && ve.Field != "" {
		out.Argument = stack[level].Argument(ve.Field)
	}
	return out
}
