// Command argsnap shows how argsnap resolves a command line: the token
// stream, the resolved command stack and values, and definition problems in
// descriptor files.
//
//	argsnap probe -f tool.toml -- deploy --force
//	argsnap tokens -j D -- -Ddebug -abc --out=x
//	argsnap lint tool.toml other.yaml
package main

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	snapio "github.com/dzonerzy/argsnap/io"
	"github.com/dzonerzy/argsnap/middleware"
	"github.com/dzonerzy/argsnap/snap"
)

const version = "0.1.0"

// lintError reports descriptors that failed to build.
type lintError struct{ failed, total int }

func (e *lintError) Error() string {
	return fmt.Sprintf("lint failed: %d of %d descriptors have errors", e.failed, e.total)
}

var exitCodes = snap.NewExitCodeManager().
	DefineError(&lintError{}, 2)

// cli describes argsnap's own command line.
func cli() *snap.Tree {
	c := snap.NewCommand("argsnap", "inspect how argsnap parses a command line").
		Version(version).
		Default("probe")
	c.Flag("verbose", "log every step").Short('v').Shared()
	c.Flag("no-color", "disable colored output").Shared()

	probe := c.Command("probe", "parse arguments against a descriptor file")
	probe.Option("file", "descriptor file (.toml, .yaml, .yml)").Short('f').Required().ValueName("PATH")
	probe.Flag("json", "print the result as JSON")
	probe.Option("timeout", "validation hook deadline, optionally for one command path; 0 disables").
		Short('t').Array().Decode(parseHookTimeout).ValueName("[COMMAND=]DURATION")
	probe.Positional("args", "arguments to parse, after --").Array().Optional()
	probe.Validate(snap.ValidateFunc(func(l *snap.Level) error {
		return middleware.FileExists("file")(l)
	}))

	tokens := c.Command("tokens", "print the token stream for arguments")
	tokens.Option("joined", "short name that takes joined values, e.g. D for -Ddebug").
		Short('j').Array().Decode(singleRune).ValueName("C")
	tokens.Option("single-dash", "multi-character name spelled with one dash").
		Short('s').Array().ValueName("NAME")
	tokens.Positional("args", "arguments to tokenize, after --").Array().Optional()

	lint := c.Command("lint", "build descriptor files and report definition errors")
	lint.Positional("files", "descriptor files").Array()
	lint.Validate(snap.ValidateFunc(func(l *snap.Level) error {
		return middleware.FileExists("files")(l)
	}))

	return c.MustBuild(snap.WithValidationMiddleware(middleware.Recovery()))
}

func singleRune(raw string) (any, error) {
	r, size := utf8.DecodeRuneInString(raw)
	if size == 0 || size != len(raw) || r == '-' {
		return nil, errors.New("must be a single character")
	}
	return r, nil
}

func main() {
	os.Exit(run(os.Args[1:], snapio.New()))
}

// run executes argsnap with args and returns the exit code.
func run(args []string, m *snapio.IOManager) int {
	log := snapio.NewLogger(m).WithFormat(snapio.LogFormatSymbols)

	tree := cli()
	res, err := tree.Parse(args)
	if err != nil {
		reportParseError(log, err)
		return exitCodes.Resolve(err)
	}
	if res.Version != "" {
		fmt.Fprintln(m.Out(), res.Version)
		return 0
	}
	if res.Help != nil {
		if err := printUsage(m, res.Stack, res.Help); err != nil {
			return exitCodes.Resolve(err)
		}
		return 0
	}

	leaf := res.Leaf()
	if snap.Has(leaf, "no-color") {
		m.NoColor()
	}
	if snap.Has(leaf, "verbose") {
		log.WithLevel(snapio.LevelDebug)
	}
	log.Debug("command: %s", res.Stack)

	switch leaf.Name() {
	case "probe":
		err = probe(m, log, leaf)
	case "tokens":
		err = tokens(m, leaf)
	case "lint":
		err = lint(log, leaf)
	}
	if err != nil {
		var exit *snap.ExitError
		if !errors.As(err, &exit) || exit.Err != nil {
			log.Error("%v", err)
		}
		return exitCodes.Resolve(err)
	}
	return 0
}

func reportParseError(log *snapio.Logger, err error) {
	log.Error("%v", err)
	var pe *snap.ParseError
	if !errors.As(err, &pe) {
		return
	}
	if help := pe.Help(); help != "" {
		log.Info("%s: %s", pe.Argument.ID, help)
	}
	if cmd := pe.Command(); cmd != nil {
		log.Info("run '%s --help' for usage", pe.Stack[:pe.Level+1])
	}
}
