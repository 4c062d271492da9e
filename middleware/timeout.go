package middleware

import (
	"context"
	"time"
)

// Timeout creates a middleware that fails a hook running longer than
// duration with a *TimeoutError.
//
// A hook that misses the deadline is not stopped. It keeps running in its
// own goroutine and its result is discarded, but anything it writes through
// ctx (such as the level's values) can land after Parse has returned. Hooks
// used under Timeout should not mutate ctx, and callers must not reuse a
// stack whose hooks timed out.
func Timeout(duration time.Duration) Middleware {
	return func(next HookFunc) HookFunc {
		return func(ctx Context) error {
			// Deadline for this hook only; validation carries no parent context
			timeoutCtx, cancel := context.WithTimeout(context.Background(), duration)
			defer cancel()

			// Capacity 1: an abandoned hook must never block on send
			resultChan := make(chan error, 1)

			// Run the hook in a goroutine
			go func() {
				defer func() {
					if r := recover(); r != nil {
						// Recover from panic and send it as an error
						resultChan <- &RecoveryError{
							Panic:   r,
							Command: getCommandName(ctx),
						}
					}
				}()
				resultChan <- next(ctx)
			}()

			// Wait for either completion or timeout
			select {
			case err := <-resultChan:
				return err
			case <-timeoutCtx.Done():
				return &TimeoutError{
					Duration: duration,
					Command:  getCommandName(ctx),
				}
			}
		}
	}
}

// TimeoutWithDefault creates a timeout middleware with the default timeout from config
func TimeoutWithDefault(options ...MiddlewareOption) Middleware {
	config := DefaultConfig()
	for _, option := range options {
		option(config)
	}
	return Timeout(config.DefaultTimeout)
}

// TimeoutPerCommand uses the timeout keyed by the space-joined command path,
// falling back to defaultTimeout.
func TimeoutPerCommand(commandTimeouts map[string]time.Duration, defaultTimeout time.Duration) Middleware {
	return func(next HookFunc) HookFunc {
		return func(ctx Context) error {
			// Get timeout for this specific command
			timeout, ok := commandTimeouts[getCommandName(ctx)]
			if !ok {
				timeout = defaultTimeout
			}
			if timeout <= 0 {
				return next(ctx)
			}
			return Timeout(timeout)(next)(ctx)
		}
	}
}
