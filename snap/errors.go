package snap

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents error categories for parse and build failures.
// These categories drive exit-code mapping (via ExitCodeManager).
type ErrorType string

const (
	ErrorTypeUnknownOption          ErrorType = "unknown_option"
	ErrorTypeMissingValue           ErrorType = "missing_value"
	ErrorTypeMissingArgument        ErrorType = "missing_argument"
	ErrorTypeUnexpectedArgument     ErrorType = "unexpected_argument"
	ErrorTypeInvalidValue           ErrorType = "invalid_value"
	ErrorTypeDuplicateExclusiveFlag ErrorType = "duplicate_exclusive_flag"
	ErrorTypeNameCollision          ErrorType = "name_collision"
	ErrorTypeValidation             ErrorType = "validation"
	ErrorTypeInvalidDefinition      ErrorType = "invalid_definition"
)

// IsUsage reports whether the category is the user's fault rather than the
// program's.
func (t ErrorType) IsUsage() bool {
	switch t {
	case ErrorTypeNameCollision, ErrorTypeInvalidDefinition:
		return false
	default:
		return true
	}
}

// ParseError is a classified parse failure. Stack holds the levels resolved
// so far; Level indexes the one the error belongs to, so the matching usage
// can be shown.
type ParseError struct {
	Type       ErrorType
	Message    string
	Argument   *Argument
	Name       string  // spelling involved, e.g. "--count"
	Token      *Token  // offending token, when there is exactly one
	Tokens     []Token // every offending token for unexpected_argument
	Raw        string  // rejected text for invalid_value
	Suggestion string
	Stack      CommandStack
	Level      int
	Cause      error
}

func (e *ParseError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (did you mean '%s'?)", e.Message, e.Suggestion)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error { return e.Cause }

// IsUsage reports whether the error should map to the usage exit code.
func (e *ParseError) IsUsage() bool { return e.Type.IsUsage() }

// Command returns the command the error belongs to.
func (e *ParseError) Command() *CommandNode {
	if e.Level < 0 || e.Level >= len(e.Stack) {
		return nil
	}
	return e.Stack[e.Level].Node
}

// Help returns the help text of the argument involved, if any.
func (e *ParseError) Help() string {
	if e.Argument == nil {
		return ""
	}
	return e.Argument.Help
}

// DefinitionError reports a malformed command tree. It is a programmer
// error: Build returns it and MustBuild panics with it.
type DefinitionError struct {
	Type      ErrorType
	Message   string
	Command   string
	Arguments []string
	Name      string
}

func (e *DefinitionError) Error() string {
	if e.Command == "" {
		return "invalid command definition: " + e.Message
	}
	return fmt.Sprintf("invalid command definition in %q: %s", e.Command, e.Message)
}

// IsUsageError reports whether err carries a usage category.
func IsUsageError(err error) bool {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.IsUsage()
	}
	return false
}

func unknownOptionError(name, suggestion string, tok Token) *ParseError {
	return &ParseError{
		Type:       ErrorTypeUnknownOption,
		Message:    "unknown option: " + name,
		Name:       name,
		Token:      &tok,
		Suggestion: suggestion,
	}
}

func missingValueError(a *Argument, name Name, tok Token) *ParseError {
	display := a.DisplayName()
	if !name.IsZero() {
		display = name.String() + " <" + a.valueName() + ">"
	}
	msg := "missing value for option " + display
	if a.Help != "" {
		msg += ": " + a.Help
	}
	return &ParseError{
		Type:     ErrorTypeMissingValue,
		Message:  msg,
		Argument: a,
		Name:     name.String(),
		Token:    &tok,
	}
}

func missingArgumentError(a *Argument) *ParseError {
	what := "argument"
	if a.Kind != KindPositional {
		what = a.Kind.String()
	}
	msg := fmt.Sprintf("missing required %s: %s", what, a.DisplayName())
	if a.Help != "" {
		msg += ": " + a.Help
	}
	pe := &ParseError{Type: ErrorTypeMissingArgument, Message: msg, Argument: a}
	if n, ok := a.PreferredName(); ok {
		pe.Name = n.String()
	}
	return pe
}

func unexpectedArgumentError(tokens []Token) *ParseError {
	raws := make([]string, len(tokens))
	for i, t := range tokens {
		raws[i] = t.Raw
	}
	msg := "unexpected argument: " + raws[0]
	if len(raws) > 1 {
		msg = "unexpected arguments: " + strings.Join(raws, ", ")
	}
	pe := &ParseError{Type: ErrorTypeUnexpectedArgument, Message: msg, Tokens: tokens}
	if len(tokens) == 1 {
		pe.Token = &tokens[0]
	}
	return pe
}

func invalidValueError(a *Argument, v Value, cause error) *ParseError {
	display := a.DisplayName()
	if !v.Name.IsZero() {
		display = v.Name.String()
	}
	pe := &ParseError{
		Type:     ErrorTypeInvalidValue,
		Message:  fmt.Sprintf("invalid value %q for %s: %v", v.Raw, display, cause),
		Argument: a,
		Raw:      v.Raw,
		Cause:    cause,
	}
	if !v.Name.IsZero() {
		pe.Name = v.Name.String()
	}
	var se suggester
	if errors.As(cause, &se) {
		pe.Suggestion = se.Suggest()
	}
	return pe
}

func duplicateExclusiveError(a *Argument, names []string) *ParseError {
	return &ParseError{
		Type:     ErrorTypeDuplicateExclusiveFlag,
		Message:  fmt.Sprintf("%s may only be given once, got %s", a.DisplayName(), strings.Join(names, ", ")),
		Argument: a,
		Name:     names[len(names)-1],
	}
}

// suggester is implemented by decoder errors that know a close match.
type suggester interface {
	Suggest() string
}

func clusterError(tok Token, failing []string) *ParseError {
	return &ParseError{
		Type:    ErrorTypeUnexpectedArgument,
		Message: fmt.Sprintf("unexpected arguments in %s: %s", tok.Raw, strings.Join(failing, ", ")),
		Name:    strings.Join(failing, ", "),
		Token:   &tok,
		Tokens:  []Token{tok},
	}
}

func flagValueError(a *Argument, name Name, tok Token) *ParseError {
	return &ParseError{
		Type:     ErrorTypeUnexpectedArgument,
		Message:  fmt.Sprintf("flag %s does not take a value: %s", name, tok.Raw),
		Argument: a,
		Name:     name.String(),
		Token:    &tok,
		Tokens:   []Token{tok},
	}
}
