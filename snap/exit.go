package snap

import (
	"errors"
	"reflect"

	"github.com/dzonerzy/argsnap/middleware"
)

// ExitError requests a specific exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "exit"
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCodeDefaults holds the codes used when no specific mapping matches.
type ExitCodeDefaults struct {
	Success      int // default: 0
	GeneralError int // default: 1
	UsageError   int // default: platform usage code (64, or 160 on windows)
}

func defaultExitDefaults() ExitCodeDefaults {
	return ExitCodeDefaults{Success: 0, GeneralError: 1, UsageError: usageExitCode}
}

// ExitCodeManager maps errors and categories to process exit codes.
type ExitCodeManager struct {
	codesByType map[reflect.Type]int
	codesByCLI  map[ErrorType]int
	defaults    ExitCodeDefaults
}

// NewExitCodeManager returns a manager with the platform defaults.
func NewExitCodeManager() *ExitCodeManager {
	m := &ExitCodeManager{
		codesByType: make(map[reflect.Type]int),
		codesByCLI:  make(map[ErrorType]int),
		defaults:    defaultExitDefaults(),
	}
	m.codesByType[reflect.TypeOf(&middleware.ValidationError{})] = m.defaults.UsageError
	m.codesByType[reflect.TypeOf(&middleware.RecoveryError{})] = m.defaults.GeneralError
	return m
}

// DefineError maps a concrete error value (by its dynamic type) to an exit
// code. A ParseError category mapping still takes precedence.
func (e *ExitCodeManager) DefineError(err error, code int) *ExitCodeManager {
	if err == nil {
		return e
	}
	e.codesByType[reflect.TypeOf(err)] = code
	return e
}

// DefineCLI overrides the exit code used for one error category.
func (e *ExitCodeManager) DefineCLI(typ ErrorType, code int) *ExitCodeManager {
	e.codesByCLI[typ] = code
	return e
}

// Default replaces the manager's default codes.
func (e *ExitCodeManager) Default(d ExitCodeDefaults) *ExitCodeManager {
	e.defaults = d
	return e
}

// Defaults returns the codes currently in use.
func (e *ExitCodeManager) Defaults() ExitCodeDefaults { return e.defaults }

// Resolve converts an error to an exit code.
// Precedence:
//  1. ExitError (requested code)
//  2. ParseError category mapping (DefineCLI), then usage/general by category
//  3. DefinitionError is always a general failure
//  4. Concrete error type mapping (DefineError)
//  5. GeneralError
func (e *ExitCodeManager) Resolve(err error) int {
	if err == nil {
		return e.defaults.Success
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var pe *ParseError
	if errors.As(err, &pe) {
		if code, ok := e.codesByCLI[pe.Type]; ok {
			return code
		}
		if pe.IsUsage() {
			return e.defaults.UsageError
		}
		return e.defaults.GeneralError
	}

	var de *DefinitionError
	if errors.As(err, &de) {
		if code, ok := e.codesByCLI[de.Type]; ok {
			return code
		}
		return e.defaults.GeneralError
	}

	for t, code := range e.codesByType {
		if errors.As(err, reflect.New(t).Interface()) {
			return code
		}
	}
	return e.defaults.GeneralError
}

var defaultExitCodes = NewExitCodeManager()

// ExitCode resolves err with the default manager.
func ExitCode(err error) int { return defaultExitCodes.Resolve(err) }
