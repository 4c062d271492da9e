package middleware

import (
	"fmt"
	"os"
	"runtime"
)

// Recovery creates a middleware that turns a panicking hook into a
// *RecoveryError.
func Recovery(options ...MiddlewareOption) Middleware {
	return RecoveryWithHandler(func(panicVal any, command string, stack []byte) error {
		return &RecoveryError{Panic: panicVal, Command: command, Stack: stack}
	}, options...)
}

// RecoveryWithHandler creates a recovery middleware with a custom panic handler
func RecoveryWithHandler(
	handler func(panicVal any, command string, stack []byte) error,
	options ...MiddlewareOption,
) Middleware {
	config := DefaultConfig()
	for _, option := range options {
		option(config)
	}

	return func(next HookFunc) HookFunc {
		return func(ctx Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					// Capture stack trace only when it will be used
					var stack []byte
					if config.PrintStack {
						stack = make([]byte, config.StackSize)
						stack = stack[:runtime.Stack(stack, false)]
					}
					command := getCommandName(ctx)
					// Print panic information
					if config.PrintStack && len(stack) > 0 {
						fmt.Fprintf(os.Stderr, "PANIC in validation of '%s': %v\n", command, r)
						fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", stack)
					}
					// Convert panic to error
					err = handler(r, command, stack)
				}
			}()

			return next(ctx)
		}
	}
}
