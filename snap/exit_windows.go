//go:build windows

package snap

// usageExitCode is ERROR_BAD_ARGUMENTS.
const usageExitCode = 160
