//go:build !windows

package snap

// usageExitCode is EX_USAGE from sysexits.h.
const usageExitCode = 64
