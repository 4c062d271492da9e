// Package descriptor loads argsnap command trees from TOML or YAML files.
//
// A descriptor looks like:
//
//	schema = "1.0"
//	name = "git"
//	default = "status"
//
//	[[args]]
//	id = "verbose"
//	kind = "flag"
//	names = ["--verbose", "-v"]
//	shared = true
//
//	[[commands]]
//	name = "status"
package descriptor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/dzonerzy/argsnap/middleware"
	"github.com/dzonerzy/argsnap/snap"
)

// Format is a descriptor encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// SupportedSchema is the schema range this package understands.
const SupportedSchema = "^1"

var supported = semver.MustParse("1.0.0")

// File is a decoded descriptor.
type File struct {
	Schema  string `toml:"schema" yaml:"schema"`
	Command `yaml:",inline"`
}

// Command describes one command and, recursively, its subcommands.
type Command struct {
	Name     string    `toml:"name" yaml:"name"`
	Abstract string    `toml:"abstract" yaml:"abstract"`
	Version  string    `toml:"version" yaml:"version"`
	Aliases  []string  `toml:"aliases" yaml:"aliases"`
	Hidden   bool      `toml:"hidden" yaml:"hidden"`
	Default  string    `toml:"default" yaml:"default"`
	Args     []Arg     `toml:"args" yaml:"args"`
	Commands []Command `toml:"commands" yaml:"commands"`
}

// Arg describes one argument. Kind is "flag", "option" or "positional".
type Arg struct {
	ID        string   `toml:"id" yaml:"id"`
	Kind      string   `toml:"kind" yaml:"kind"`
	Names     []string `toml:"names" yaml:"names"`
	Array     bool     `toml:"array" yaml:"array"`
	Strategy  string   `toml:"strategy" yaml:"strategy"`
	Required  *bool    `toml:"required" yaml:"required"`
	Hidden    bool     `toml:"hidden" yaml:"hidden"`
	Private   bool     `toml:"private" yaml:"private"`
	Type      string   `toml:"type" yaml:"type"`
	Values    []string `toml:"values" yaml:"values"`
	Default   any      `toml:"default" yaml:"default"`
	Shared    bool     `toml:"shared" yaml:"shared"`
	Exclusive bool     `toml:"exclusive" yaml:"exclusive"`
	Negatable bool     `toml:"negatable" yaml:"negatable"`
	ValueName string   `toml:"value_name" yaml:"value_name"`
	// Exists is "file" or "dir"; given paths are checked after parsing.
	Exists string `toml:"exists" yaml:"exists"`
	Help   string `toml:"help" yaml:"help"`
}

// Load reads a descriptor, choosing the format from the file extension.
func Load(path string) (*File, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// FormatFor maps .toml, .yaml and .yml to a Format.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported descriptor extension %q", filepath.Ext(path))
}

// Decode reads a descriptor in the given format. Unknown keys are errors.
func Decode(r io.Reader, format Format) (*File, error) {
	var f File
	switch format {
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&f)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	if err := f.checkSchema(); err != nil {
		return nil, err
	}
	return &f, nil
}

// checkSchema accepts a missing schema as 1.0.
func (f *File) checkSchema() error {
	v := supported
	if f.Schema != "" {
		parsed, err := semver.NewVersion(f.Schema)
		if err != nil {
			return fmt.Errorf("schema %q: %w", f.Schema, err)
		}
		v = parsed
	}
	c, err := semver.NewConstraint(SupportedSchema)
	if err != nil {
		return err
	}
	if !c.Check(v) {
		return fmt.Errorf("schema %s is not supported (want %s)", v, SupportedSchema)
	}
	return nil
}

// Node converts the descriptor to a command tree ready for snap.Build.
func (f *File) Node() (*snap.CommandNode, error) {
	if f.Name == "" {
		return nil, errors.New("root command has no name")
	}
	root := snap.NewCommand(f.Name, f.Abstract)
	if err := f.Command.apply(root, f.Name); err != nil {
		return nil, err
	}
	return root.Node(), nil
}

func (c *Command) apply(b *snap.CommandBuilder, path string) error {
	b.Alias(c.Aliases...)
	if c.Hidden {
		b.Hidden()
	}
	if c.Version != "" {
		b.Version(c.Version)
	}
	if c.Default != "" {
		b.Default(c.Default)
	}

	var files, dirs []string
	for i := range c.Args {
		a := &c.Args[i]
		if err := a.apply(b); err != nil {
			return fmt.Errorf("%s: args[%d] %q: %w", path, i, a.ID, err)
		}
		switch a.Exists {
		case "":
		case "file":
			files = append(files, a.ID)
		case "dir":
			dirs = append(dirs, a.ID)
		default:
			return fmt.Errorf("%s: args[%d] %q: exists must be file or dir, got %q", path, i, a.ID, a.Exists)
		}
	}
	if len(files) > 0 || len(dirs) > 0 {
		b.Validate(pathChecks(files, dirs))
	}

	for i := range c.Commands {
		sub := &c.Commands[i]
		if sub.Name == "" {
			return fmt.Errorf("%s: commands[%d] has no name", path, i)
		}
		if err := sub.apply(b.Command(sub.Name, sub.Abstract), path+" "+sub.Name); err != nil {
			return err
		}
	}
	return nil
}

func pathChecks(files, dirs []string) snap.ValidateFunc {
	checkFiles := middleware.FileExists(files...)
	checkDirs := middleware.DirectoryExists(dirs...)
	return func(l *snap.Level) error {
		if err := checkFiles(l); err != nil {
			return err
		}
		return checkDirs(l)
	}
}

func (a *Arg) apply(b *snap.CommandBuilder) error {
	if a.ID == "" {
		return errors.New("missing id")
	}
	var ab *snap.ArgBuilder
	switch a.Kind {
	case "flag":
		ab = b.Flag(a.ID, a.Help)
	case "option", "":
		ab = b.Option(a.ID, a.Help)
	case "positional":
		ab = b.Positional(a.ID, a.Help)
	default:
		return fmt.Errorf("unknown kind %q", a.Kind)
	}

	if len(a.Names) > 0 {
		if a.Kind == "positional" {
			return errors.New("positionals have no names")
		}
		names := make([]snap.Name, 0, len(a.Names))
		for _, s := range a.Names {
			n, err := snap.ParseName(s)
			if err != nil {
				return err
			}
			names = append(names, n)
		}
		ab.Names(names...)
	}
	if a.Array {
		ab.Array()
	}
	if a.Strategy != "" {
		st, ok := snap.ParseStrategy(a.Strategy)
		if !ok {
			return fmt.Errorf("unknown strategy %q", a.Strategy)
		}
		ab.Strategy(st)
	}
	switch {
	case a.Private:
		ab.Private()
	case a.Hidden:
		ab.Hidden()
	}
	if a.Shared {
		ab.Shared()
	}
	if a.Exclusive {
		ab.Exclusive()
	}
	if a.Negatable {
		if a.Kind != "flag" {
			return errors.New("only flags are negatable")
		}
		ab.Negatable()
	}
	if a.ValueName != "" {
		ab.ValueName(a.ValueName)
	}

	dec, err := snap.DecoderFor(a.Type, a.Values)
	if err != nil {
		return err
	}
	if dec != nil {
		if a.Kind == "flag" {
			return errors.New("flags take no value type")
		}
		ab.Decode(dec)
	}

	if a.Default != nil {
		v, err := defaultValue(a.Default, dec, a.Array)
		if err != nil {
			return fmt.Errorf("default: %w", err)
		}
		ab.Default(v)
	}
	if a.Required != nil {
		if *a.Required {
			ab.Required()
		} else {
			ab.Optional()
		}
	}
	return nil
}

// defaultValue decodes a descriptor default with the argument's decoder so
// that typed accessors see the same types a parse would produce. Array
// defaults become a typed slice.
func defaultValue(raw any, dec snap.Decoder, array bool) (any, error) {
	items, isList := raw.([]any)
	if !isList {
		items = []any{raw}
	}
	if !array && isList {
		return nil, errors.New("list default on a single-valued argument")
	}

	values := make([]any, len(items))
	for i, item := range items {
		s := fmt.Sprint(item)
		if dec == nil {
			values[i] = s
			continue
		}
		v, err := dec(s)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", s, err)
		}
		values[i] = v
	}
	if !array {
		return values[0], nil
	}
	if len(values) == 0 {
		return nil, nil
	}
	slice := reflect.MakeSlice(reflect.SliceOf(reflect.TypeOf(values[0])), 0, len(values))
	for _, v := range values {
		slice = reflect.Append(slice, reflect.ValueOf(v))
	}
	return slice.Interface(), nil
}
