package snap

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/dzonerzy/argsnap/internal/fuzzy"
)

// String keeps the raw text.
func String(raw string) (any, error) { return raw, nil }

// Int accepts decimal and the 0x, 0o and 0b prefixes, with an optional sign.
func Int(raw string) (any, error) {
	base := 10
	digits := strings.TrimLeft(raw, "+-")
	if len(digits) > 2 && digits[0] == '0' && strings.ContainsRune("xXoObB", rune(digits[1])) {
		base = 0
	}
	n, err := strconv.ParseInt(raw, base, strconv.IntSize)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) && errors.Is(ne.Err, strconv.ErrRange) {
			return nil, errors.New("integer overflow")
		}
		return nil, errors.New("not an integer")
	}
	return int(n), nil
}

// Float parses a float64.
func Float(raw string) (any, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.New("not a number")
	}
	return f, nil
}

// Bool accepts true/false, t/f, yes/no, y/n, on/off and 1/0 in any case.
func Bool(raw string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "t", "yes", "y", "1", "on":
		return true, nil
	case "false", "f", "no", "n", "0", "off":
		return false, nil
	default:
		return nil, errors.New("not a boolean")
	}
}

// Duration accepts Go durations ("1h30m") plus "MM:SS", "HH:MM:SS",
// day/week/month/year suffixes ("2d", "1w", "1M", "1Y") and spelled units
// ("3 sec", "1 hour 30 minutes").
func Duration(raw string) (any, error) {
	d, err := parseDuration(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	return d, nil
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, errors.New("empty duration")
	}
	if strings.Contains(s, ":") {
		return parseColonDuration(s)
	}
	if d, ok := parseExtendedDuration(s); ok {
		return d, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	return parseSpelledDuration(s)
}

func parseColonDuration(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	units := []time.Duration{time.Second, time.Minute, time.Hour}
	if len(parts) > len(units) {
		return 0, errors.New("too many colons")
	}
	var total time.Duration
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration field %q", p)
		}
		total += time.Duration(n) * units[len(parts)-1-i]
	}
	return total, nil
}

func parseExtendedDuration(s string) (time.Duration, bool) {
	if len(s) < 2 {
		return 0, false
	}
	var unit time.Duration
	switch s[len(s)-1] {
	case 'd', 'D':
		unit = 24 * time.Hour
	case 'w', 'W':
		unit = 7 * 24 * time.Hour
	case 'M':
		// lowercase m stays minutes
		unit = 30 * 24 * time.Hour
	case 'y', 'Y':
		unit = 365 * 24 * time.Hour
	default:
		return 0, false
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return 0, false
	}
	return time.Duration(n) * unit, true
}

var spelledUnits = []struct {
	words []string
	unit  time.Duration
}{
	{[]string{"ns", "nanosecond", "nanoseconds"}, time.Nanosecond},
	{[]string{"us", "µs", "μs", "microsecond", "microseconds"}, time.Microsecond},
	{[]string{"ms", "millisecond", "milliseconds"}, time.Millisecond},
	{[]string{"s", "sec", "secs", "second", "seconds"}, time.Second},
	{[]string{"m", "min", "mins", "minute", "minutes"}, time.Minute},
	{[]string{"h", "hr", "hrs", "hour", "hours"}, time.Hour},
}

func parseSpelledDuration(s string) (time.Duration, error) {
	fields := strings.Fields(s)
	if len(fields)%2 != 0 {
		return 0, errors.New("missing unit after number")
	}
	var total time.Duration
	for i := 0; i < len(fields); i += 2 {
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			return 0, errors.New("number expected before unit")
		}
		unit, ok := lookupUnit(strings.ToLower(fields[i+1]))
		if !ok {
			return 0, fmt.Errorf("invalid duration unit %q", fields[i+1])
		}
		total += time.Duration(n) * unit
	}
	return total, nil
}

func lookupUnit(word string) (time.Duration, bool) {
	for _, u := range spelledUnits {
		for _, w := range u.words {
			if w == word {
				return u.unit, true
			}
		}
	}
	return 0, false
}

// EnumError is returned by Enum decoders for values outside the set.
type EnumError struct {
	Value      string
	Allowed    []string
	suggestion string
}

func (e *EnumError) Error() string {
	return "must be one of: " + strings.Join(e.Allowed, ", ")
}

// Suggest returns the closest allowed value, if any.
func (e *EnumError) Suggest() string { return e.suggestion }

// Enum returns a decoder accepting exactly one of values.
func Enum(values ...string) Decoder {
	allowed := append([]string(nil), values...)
	return func(raw string) (any, error) {
		for _, v := range allowed {
			if v == raw {
				return raw, nil
			}
		}
		return nil, &EnumError{
			Value:      raw,
			Allowed:    allowed,
			suggestion: fuzzy.FindBest(raw, allowed, fuzzy.DefaultMaxDistance),
		}
	}
}

// Version parses a semantic version into a *semver.Version.
func Version(raw string) (any, error) {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Constraint parses a version range such as ">= 1.2, < 2" into
// *semver.Constraints.
func Constraint(raw string) (any, error) {
	c, err := semver.NewConstraint(raw)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// DecoderFor returns the decoder registered under a type name, as used by
// descriptor files. values is only used by "enum".
func DecoderFor(typeName string, values []string) (Decoder, error) {
	switch strings.ToLower(typeName) {
	case "", "string":
		return nil, nil
	case "int":
		return Int, nil
	case "float":
		return Float, nil
	case "bool":
		return Bool, nil
	case "duration":
		return Duration, nil
	case "enum":
		if len(values) == 0 {
			return nil, errors.New("enum needs at least one value")
		}
		return Enum(values...), nil
	case "version":
		return Version, nil
	case "constraint":
		return Constraint, nil
	default:
		return nil, fmt.Errorf("unknown value type %q", typeName)
	}
}
