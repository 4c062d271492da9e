// Package middleware wraps argsnap validation hooks: logging, panic
// recovery, timeouts and reusable checks.
package middleware

import (
	"fmt"
	"strings"
	"time"
)

// This package defines middleware using interfaces to avoid import cycles.
// The snap package imports it and *snap.Level satisfies Context.

// Context is the view of one parsed command level a hook gets.
type Context interface {
	// CommandName returns the name of the command being validated.
	CommandName() string

	// Path returns the command names from the root to this level.
	Path() []string

	// Args returns the raw positional values of the level, in declaration
	// order. The returned slice should be treated as read-only.
	Args() []string

	// Raw returns the raw strings recorded for an argument ID, looking
	// through shared arguments of enclosing levels. The boolean reports
	// whether the argument was given at all.
	Raw(id string) ([]string, bool)
}

// HookFunc is a validation hook.
type HookFunc func(ctx Context) error

// Middleware defines the middleware function signature
type Middleware func(next HookFunc) HookFunc

// MiddlewareChain represents a chain of middleware functions
type MiddlewareChain []Middleware

// Apply wraps hook so the first middleware in the chain runs outermost.
func (chain MiddlewareChain) Apply(hook HookFunc) HookFunc {
	for i := len(chain) - 1; i >= 0; i-- {
		hook = chain[i](hook)
	}
	return hook
}

// Use returns a new chain with the provided middleware appended.
func (chain MiddlewareChain) Use(middleware ...Middleware) MiddlewareChain {
	return append(chain, middleware...)
}

// Chain creates a new middleware chain from the provided middleware, preserving
// order.
func Chain(middleware ...Middleware) MiddlewareChain {
	return MiddlewareChain(middleware)
}

// Error types for middleware

// ValidationError represents a validation error. Field is the argument ID
// the failure is about, when there is one.
type ValidationError struct {
	Field   string
	Value   any
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// TimeoutError is returned when a hook runs past its deadline.
type TimeoutError struct {
	Duration time.Duration
	Command  string
}

func (e *TimeoutError) Error() string {
	return "validation of '" + e.Command + "' timed out after " + e.Duration.String()
}

// RecoveryError represents a panic recovery
type RecoveryError struct {
	Panic   any
	Command string
	Stack   []byte
}

func (e *RecoveryError) Error() string {
	return "validation of '" + e.Command + "' panicked: " + toString(e.Panic)
}

// Configuration types

// MiddlewareConfig contains configuration for middleware behavior
type MiddlewareConfig struct {
	LogLevel         LogLevel
	LogOutput        LogOutput
	LogFormat        LogFormat
	IncludeArgs      bool
	PrintStack       bool
	StackSize        int
	DefaultTimeout   time.Duration
	CustomValidators map[string]ValidatorFunc
}

// LogLevel represents logging levels
type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelError
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// LogOutput represents log output destinations
type LogOutput int

const (
	LogOutputStderr LogOutput = iota
	LogOutputStdout
	LogOutputNone
)

// LogFormat represents log formats
type LogFormat int

const (
	LogFormatText LogFormat = iota
	LogFormatJSON
)

// RequestInfo describes one hook run.
type RequestInfo struct {
	Command   string
	Args      []string
	StartTime time.Time
	Duration  time.Duration
	Error     error
	Metadata  map[string]any
}

// Configuration options

type MiddlewareOption func(config *MiddlewareConfig)

func DefaultConfig() *MiddlewareConfig {
	return &MiddlewareConfig{
		LogLevel:         LogLevelInfo,
		LogOutput:        LogOutputStderr,
		LogFormat:        LogFormatText,
		IncludeArgs:      true,
		PrintStack:       false,
		StackSize:        4096,
		DefaultTimeout:   5 * time.Second,
		CustomValidators: make(map[string]ValidatorFunc),
	}
}

func WithLogLevel(level LogLevel) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.LogLevel = level
	}
}

func WithLogFormat(format LogFormat) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.LogFormat = format
	}
}

func WithIncludeArgs(enabled bool) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.IncludeArgs = enabled
	}
}

func WithTimeout(timeout time.Duration) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.DefaultTimeout = timeout
	}
}

func WithStackTrace(enabled bool) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.PrintStack = enabled
	}
}

// Utility functions

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return x
	case error:
		return x.Error()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}

func getCommandName(ctx Context) string {
	if ctx == nil {
		return "unknown"
	}
	if path := ctx.Path(); len(path) > 0 {
		return strings.Join(path, " ")
	}
	return ctx.CommandName()
}
