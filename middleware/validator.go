package middleware

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// ValidatorFunc is one named check run by the validator middleware.
// Structural rules (required arguments, exclusivity) belong in the command
// definition; use these for checks that need runtime state such as the
// file system or relations between values.
type ValidatorFunc func(ctx Context) error

// Validator creates a middleware that runs the validators registered with
// WithCustomValidators before the wrapped hook.
func Validator(options ...MiddlewareOption) Middleware {
	config := DefaultConfig()
	for _, option := range options {
		option(config)
	}
	return ValidatorWithCustom(config.CustomValidators)
}

// ValidatorWithCustom composes a middleware that runs the provided named
// validators, in name order, before the hook. The map key is used in error
// reporting.
func ValidatorWithCustom(validators map[string]ValidatorFunc) Middleware {
	names := make([]string, 0, len(validators))
	for name := range validators {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(next HookFunc) HookFunc {
		return func(ctx Context) error {
			for _, name := range names {
				if err := validators[name](ctx); err != nil {
					var ve *ValidationError
					if asValidation(err, &ve) {
						return ve
					}
					return &ValidationError{
						Field:   name,
						Message: "validation failed",
						Cause:   err,
					}
				}
			}
			return next(ctx)
		}
	}
}

// NamedValidator associates a human-readable name with a ValidatorFunc for
// clearer error reporting and easier composition.
type NamedValidator struct {
	Name string
	Fn   ValidatorFunc
}

// Custom wraps an arbitrary ValidatorFunc with a name for reporting.
func Custom(name string, fn ValidatorFunc) NamedValidator {
	return NamedValidator{Name: name, Fn: fn}
}

// File returns a NamedValidator that ensures the given arguments name
// existing files.
func File(ids ...string) NamedValidator {
	return NamedValidator{Name: "file_exists", Fn: FileExists(ids...)}
}

// Dir returns a NamedValidator that ensures the given arguments name
// existing directories.
func Dir(ids ...string) NamedValidator {
	return NamedValidator{Name: "directory_exists", Fn: DirectoryExists(ids...)}
}

// Validate composes a set of NamedValidators into a single Middleware.
//
// Example:
//
//	tree, err := snap.Build(root, snap.WithValidationMiddleware(
//	    middleware.Validate(
//	        middleware.Custom("port_range", checkPort),
//	        middleware.File("config"),
//	    ),
//	))
func Validate(validators ...NamedValidator) Middleware {
	m := make(map[string]ValidatorFunc, len(validators))
	for _, v := range validators {
		if v.Name == "" || v.Fn == nil {
			continue
		}
		m[v.Name] = v.Fn
	}
	return ValidatorWithCustom(m)
}

// ConditionalRequired makes ids required whenever condition passes.
func ConditionalRequired(condition ValidatorFunc, ids ...string) ValidatorFunc {
	return func(ctx Context) error {
		if err := condition(ctx); err != nil {
			return nil
		}
		var missing []string
		for _, id := range ids {
			if !present(ctx, id) {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			return &ValidationError{
				Field:   missing[0],
				Message: fmt.Sprintf("arguments required when condition is met: %s", strings.Join(missing, ", ")),
			}
		}
		return nil
	}
}

// Given is a condition for ConditionalRequired that passes when id was
// supplied.
func Given(id string) ValidatorFunc {
	return func(ctx Context) error {
		if !present(ctx, id) {
			return fmt.Errorf("%s not given", id)
		}
		return nil
	}
}

// FileExists creates a validator that ensures every value of ids is an
// existing file. Absent arguments are skipped.
func FileExists(ids ...string) ValidatorFunc {
	return pathValidator("file", validateFileExists, ids)
}

// DirectoryExists creates a validator that ensures every value of ids is an
// existing directory.
func DirectoryExists(ids ...string) ValidatorFunc {
	return pathValidator("directory", validateDirectoryExists, ids)
}

func pathValidator(kind string, check func(string) error, ids []string) ValidatorFunc {
	return func(ctx Context) error {
		for _, id := range ids {
			values, _ := ctx.Raw(id)
			for _, path := range values {
				if path == "" {
					continue
				}
				if err := check(path); err != nil {
					return &ValidationError{
						Field:   id,
						Value:   path,
						Message: fmt.Sprintf("%s validation failed for '%s'", kind, id),
						Cause:   err,
					}
				}
			}
		}
		return nil
	}
}

// present reports whether id was given with a non-empty value, or at all
// for flags that record no text.
func present(ctx Context, id string) bool {
	values, ok := ctx.Raw(id)
	if !ok {
		return false
	}
	if len(values) == 0 {
		return true
	}
	for _, v := range values {
		if v != "" {
			return true
		}
	}
	return false
}

func validateFileExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

func validateDirectoryExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

func asValidation(err error, target **ValidationError) bool {
	return err != nil && errors.As(err, target)
}

// NoopValidator creates a validator that doesn't perform any validation.
func NoopValidator() Middleware {
	return func(next HookFunc) HookFunc {
		return next
	}
}

// FileSystemValidator creates a validator that checks file and directory existence.
func FileSystemValidator(fileIDs, dirIDs []string) Middleware {
	validators := make(map[string]ValidatorFunc)
	if len(fileIDs) > 0 {
		validators["file_exists"] = FileExists(fileIDs...)
	}
	if len(dirIDs) > 0 {
		validators["directory_exists"] = DirectoryExists(dirIDs...)
	}
	return ValidatorWithCustom(validators)
}

// WithCustomValidators adds custom validators to the middleware config
func WithCustomValidators(validators map[string]ValidatorFunc) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		if config.CustomValidators == nil {
			config.CustomValidators = make(map[string]ValidatorFunc)
		}
		for name, validator := range validators {
			config.CustomValidators[name] = validator
		}
	}
}
